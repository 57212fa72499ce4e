package utils

import (
	"fmt"
	"io"

	lutils "github.com/tuneinsight/lattigo/v4/utils"
	"golang.org/x/crypto/hkdf"
	"golang.org/x/crypto/sha3"
)

// SeedSize is the length in bytes of key-generation seeds.
const SeedSize = 32

// DeriveKey expands seed into outputLen bytes bound to the given domain label
// using HKDF over SHA3-256.
func DeriveKey(seed []byte, domain string, outputLen int) ([]byte, error) {
	out := make([]byte, outputLen)
	kdf := hkdf.New(sha3.New256, seed, nil, []byte(domain))
	if _, err := io.ReadFull(kdf, out); err != nil {
		return nil, fmt.Errorf("hkdf expand: %w", err)
	}
	return out, nil
}

// NewSeededPRNG returns a deterministic byte stream keyed by seed and domain.
// Two streams built from the same seed and domain produce identical output.
func NewSeededPRNG(seed []byte, domain string) (lutils.PRNG, error) {
	key, err := DeriveKey(seed, domain, SeedSize)
	if err != nil {
		return nil, err
	}
	prng, err := lutils.NewKeyedPRNG(key)
	if err != nil {
		return nil, fmt.Errorf("keyed prng: %w", err)
	}
	return prng, nil
}
