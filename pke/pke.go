// Package pke implements GGH key generation, encryption and decryption.
package pke

import (
	"errors"
	"fmt"
	"io"

	ggh "github.com/BackendStack21/ggh-go"
	"github.com/BackendStack21/ggh-go/core"
	"github.com/BackendStack21/ggh-go/lattice"
	"github.com/BackendStack21/ggh-go/utils"
)

const (
	DomainUnimodular  = "ggh-keygen-unimodular-v1"
	DomainFingerprint = "ggh-public-key-fingerprint-v1"
)

var (
	// ErrInvalidKey indicates key material that cannot be used, such as a
	// singular basis or a transform that is not unimodular.
	ErrInvalidKey = errors.New("invalid key material")

	// ErrDimensionMismatch indicates that a plaintext or ciphertext length
	// differs from the key dimension.
	ErrDimensionMismatch = errors.New("dimension mismatch")

	// ErrKeySearchExhausted indicates that a capped key search drew
	// MaxAttempts candidates without finding one below the threshold.
	ErrKeySearchExhausted = errors.New("key search exhausted its attempt budget")
)

// GenerateKeyPair generates a key pair for n-byte plaintexts with the default
// parameters and a fresh random seed. The default search is uncapped.
func GenerateKeyPair(n int) (*ggh.KeyPair, error) {
	seed, err := utils.SecureRandomBytes(utils.SeedSize)
	if err != nil {
		return nil, err
	}

	kp, err := GenerateKeyPairFromSeed(core.DefaultParams, n, seed)
	utils.Zeroize(seed)
	return kp, err
}

// GenerateKeyPairFromSeed generates a deterministic key pair from seed.
func GenerateKeyPairFromSeed(params ggh.Params, n int, seed []byte) (*ggh.KeyPair, error) {
	if err := utils.ValidateSeedEntropy(seed); err != nil {
		return nil, err
	}
	prng, err := utils.NewSeededPRNG(seed, DomainUnimodular)
	if err != nil {
		return nil, err
	}
	return GenerateKeyPairFromSource(params, n, prng)
}

// GenerateKeyPairFromSource generates a key pair drawing all randomness from rng.
func GenerateKeyPairFromSource(params ggh.Params, n int, rng io.Reader) (*ggh.KeyPair, error) {
	kp, _, err := SearchKeyPair(params, n, rng)
	return kp, err
}

// SearchKeyPair runs the rejection search for a skewed public basis and
// returns the accepted key pair together with the ratios of every candidate.
//
// The private basis is the identity. Each round samples a unimodular
// transform U, forms the candidate basis B*U and accepts it once its Hadamard
// ratio is at most params.Threshold. With params.MaxAttempts == 0 the search
// has no cap and may in principle never return.
//
// For n == 1 every transform is [1] with ratio exactly 1, so no candidate can
// meet a threshold below 1; the first candidate is accepted.
func SearchKeyPair(params ggh.Params, n int, rng io.Reader) (*ggh.KeyPair, *ggh.SearchTrace, error) {
	if err := core.ValidateParams(params); err != nil {
		return nil, nil, err
	}
	if err := utils.CheckDimension(n); err != nil {
		return nil, nil, fmt.Errorf("dimension %d: %w", n, err)
	}
	if rng == nil {
		return nil, nil, errors.New("nil random source")
	}

	privateBasis := lattice.Identity(n)
	trace := &ggh.SearchTrace{}

	for {
		transform, err := lattice.SampleUnimodular(n, params.EntryBound, rng)
		if err != nil {
			return nil, trace, err
		}
		candidate, err := lattice.Mul(privateBasis, transform)
		if err != nil {
			return nil, trace, err
		}
		ratio, err := lattice.HadamardRatio(candidate)
		if err != nil {
			return nil, trace, err
		}

		trace.Attempts++
		if len(trace.Ratios) < ggh.MaxTraceLength {
			trace.Ratios = append(trace.Ratios, ratio)
		}

		if ratio <= params.Threshold || n == 1 {
			trace.AcceptedRatio = ratio
			return &ggh.KeyPair{
				PublicKey: ggh.PublicKey{
					N:     n,
					Basis: candidate,
				},
				PrivateKey: ggh.PrivateKey{
					N:         n,
					Basis:     privateBasis,
					Transform: transform,
				},
			}, trace, nil
		}

		if params.MaxAttempts > 0 && trace.Attempts >= params.MaxAttempts {
			return nil, trace, fmt.Errorf("%w: %d candidates above threshold %v",
				ErrKeySearchExhausted, trace.Attempts, params.Threshold)
		}
	}
}

// DerivePublicKey recomputes the public basis Basis * Transform from a private key.
func DerivePublicKey(sk *ggh.PrivateKey) (*ggh.PublicKey, error) {
	if err := checkPrivateKeyShape(sk); err != nil {
		return nil, err
	}
	basis, err := lattice.Mul(sk.Basis, sk.Transform)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidKey, err)
	}
	return &ggh.PublicKey{N: sk.N, Basis: basis}, nil
}

// ValidatePrivateKey checks the shape of the key, that the basis is
// non-singular and that the transform has determinant ±1.
func ValidatePrivateKey(sk *ggh.PrivateKey) error {
	if err := checkPrivateKeyShape(sk); err != nil {
		return err
	}
	det, err := lattice.Determinant(sk.Basis)
	if err != nil {
		return fmt.Errorf("%w: private basis: %w", ErrInvalidKey, err)
	}
	if det.Sign() == 0 {
		return fmt.Errorf("%w: private basis: %w", ErrInvalidKey, lattice.ErrSingular)
	}
	if !lattice.IsUnimodular(sk.Transform) {
		return fmt.Errorf("%w: transform is not unimodular", ErrInvalidKey)
	}
	return nil
}

// ValidatePublicKey checks that the public basis is N x N.
func ValidatePublicKey(pk *ggh.PublicKey) error {
	if pk == nil {
		return fmt.Errorf("%w: nil public key", ErrInvalidKey)
	}
	if err := checkSquare(pk.Basis, pk.N, "public basis"); err != nil {
		return err
	}
	return nil
}

func checkPrivateKeyShape(sk *ggh.PrivateKey) error {
	if sk == nil {
		return fmt.Errorf("%w: nil private key", ErrInvalidKey)
	}
	if err := checkSquare(sk.Basis, sk.N, "private basis"); err != nil {
		return err
	}
	return checkSquare(sk.Transform, sk.N, "transform")
}

func checkSquare(m lattice.Matrix, n int, name string) error {
	if n < 1 {
		return fmt.Errorf("%w: dimension %d", ErrInvalidKey, n)
	}
	if m.Rows() != n || !m.IsSquare() {
		return fmt.Errorf("%w: %s is not %dx%d", ErrInvalidKey, name, n, n)
	}
	return nil
}
