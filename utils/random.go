package utils

import (
	"crypto/rand"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"runtime"
)

var RandReader io.Reader = rand.Reader

// SecureRandomBytes generates n cryptographically secure random bytes.
// It uses crypto/rand, which relies on the operating system's CSPRNG.
func SecureRandomBytes(n int) ([]byte, error) {
	buf := make([]byte, n)
	if _, err := io.ReadFull(RandReader, buf); err != nil {
		return nil, err
	}
	return buf, nil
}

// UniformInt64 draws an integer uniformly from the inclusive range [min, max]
// using bytes from r. It rejects words above the largest multiple of the range
// size so that the result is unbiased.
func UniformInt64(r io.Reader, min, max int64) (int64, error) {
	if r == nil {
		return 0, errors.New("nil random source")
	}
	if max < min {
		return 0, errors.New("empty sampling range")
	}
	span := uint64(max-min) + 1
	if span == 0 {
		// [math.MinInt64, math.MaxInt64]: every word is acceptable
		var buf [8]byte
		if _, err := io.ReadFull(r, buf[:]); err != nil {
			return 0, fmt.Errorf("random source: %w", err)
		}
		return int64(binary.LittleEndian.Uint64(buf[:])), nil
	}
	threshold := (^uint64(0) / span) * span

	var buf [8]byte
	for {
		if _, err := io.ReadFull(r, buf[:]); err != nil {
			return 0, fmt.Errorf("random source: %w", err)
		}
		word := binary.LittleEndian.Uint64(buf[:])
		if word < threshold {
			return min + int64(word%span), nil
		}
	}
}

// RandomSign returns -1 or +1 with equal probability, drawn from r.
func RandomSign(r io.Reader) (int64, error) {
	bit, err := UniformInt64(r, 0, 1)
	if err != nil {
		return 0, err
	}
	if bit == 0 {
		return -1, nil
	}
	return 1, nil
}

// ValidateSeedEntropy checks if a seed has sufficient entropy.
// It performs basic statistical tests to reject obviously weak seeds (e.g., all zeros, sequential).
// This is a sanity check, not a rigorous randomness test.
func ValidateSeedEntropy(seed []byte) error {
	if len(seed) < SeedSize {
		return fmt.Errorf("seed must be at least %d bytes", SeedSize)
	}

	first := seed[0]
	allSame := true
	for i := 1; i < len(seed); i++ {
		if seed[i] != first {
			allSame = false
			break
		}
	}
	if allSame {
		return errors.New("seed has low entropy: all bytes are identical")
	}

	isAscending := true
	isDescending := true
	for i := 1; i < len(seed); i++ {
		if seed[i] != seed[i-1]+1 {
			isAscending = false
		}
		if seed[i] != seed[i-1]-1 {
			isDescending = false
		}
		if !isAscending && !isDescending {
			break
		}
	}
	if isAscending || isDescending {
		return errors.New("seed has low entropy: sequential pattern detected")
	}

	unique := make(map[byte]struct{})
	for _, b := range seed {
		unique[b] = struct{}{}
		if len(unique) >= 8 {
			break
		}
	}
	if len(unique) < 8 {
		return errors.New("seed has low entropy: insufficient byte diversity")
	}

	return nil
}

// Zeroize overwrites a byte slice with zeros.
// Uses runtime.KeepAlive to prevent compiler optimization from eliminating the stores.
func Zeroize(b []byte) {
	for i := range b {
		b[i] = 0
	}
	runtime.KeepAlive(b)
}
