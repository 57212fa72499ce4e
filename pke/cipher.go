package pke

import (
	"fmt"
	"math/big"

	ggh "github.com/BackendStack21/ggh-go"
	"github.com/BackendStack21/ggh-go/lattice"
)

// Encrypt maps plaintext onto the lattice: c = m * PublicBasis, where m[i] is
// the unsigned value of byte i. No error vector is added, so encryption is a
// deterministic, exactly invertible linear map.
func Encrypt(pk *ggh.PublicKey, plaintext []byte) (*ggh.Ciphertext, error) {
	if err := ValidatePublicKey(pk); err != nil {
		return nil, err
	}
	if len(plaintext) != pk.N {
		return nil, fmt.Errorf("%w: plaintext has %d bytes, key dimension is %d",
			ErrDimensionMismatch, len(plaintext), pk.N)
	}

	c, err := lattice.VecMul(lattice.VectorFromBytes(plaintext), pk.Basis)
	if err != nil {
		return nil, err
	}
	return &ggh.Ciphertext{C: c}, nil
}

// Decrypt recovers the plaintext as m = c * Basis^-1 * Transform^-1, computed
// over the rationals without rounding. Each recovered coordinate is reduced
// modulo 256 into a byte.
//
// The chain inverts the public basis Basis * Transform only when Basis and
// Transform commute. Generated keys always satisfy this since Basis is the
// identity.
//
// A singular basis or transform, or key material under which the ciphertext
// does not land on integer coordinates, is reported as ErrInvalidKey.
func Decrypt(sk *ggh.PrivateKey, ct *ggh.Ciphertext) ([]byte, error) {
	if err := checkPrivateKeyShape(sk); err != nil {
		return nil, err
	}
	if ct == nil || len(ct.C) != sk.N {
		got := 0
		if ct != nil {
			got = len(ct.C)
		}
		return nil, fmt.Errorf("%w: ciphertext has %d coordinates, key dimension is %d",
			ErrDimensionMismatch, got, sk.N)
	}

	basisInv, err := lattice.Inverse(sk.Basis)
	if err != nil {
		return nil, fmt.Errorf("%w: private basis: %w", ErrInvalidKey, err)
	}
	transformInv, err := lattice.Inverse(sk.Transform)
	if err != nil {
		return nil, fmt.Errorf("%w: transform: %w", ErrInvalidKey, err)
	}

	v, err := lattice.RatVecMul(lattice.ToRatVector(ct.C), basisInv)
	if err != nil {
		return nil, err
	}
	v, err = lattice.RatVecMul(v, transformInv)
	if err != nil {
		return nil, err
	}

	m, err := lattice.IntegerVector(v)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidKey, err)
	}

	plaintext := make([]byte, sk.N)
	modulus := big.NewInt(256)
	r := new(big.Int)
	for i, x := range m {
		r.Mod(x, modulus)
		plaintext[i] = byte(r.Uint64())
	}
	return plaintext, nil
}
