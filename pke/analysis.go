package pke

import (
	ggh "github.com/BackendStack21/ggh-go"
	"github.com/BackendStack21/ggh-go/lattice"
	"github.com/BackendStack21/ggh-go/utils"
)

// Fingerprint returns a SHA3-256 fingerprint of the serialized public key.
func Fingerprint(pk *ggh.PublicKey) (string, error) {
	data, err := SerializePublicKey(pk)
	if err != nil {
		return "", err
	}
	return utils.Fingerprint(DomainFingerprint, data), nil
}

// AnalyzePublicKey reports the Hadamard ratio, entry size and fingerprint of pk.
func AnalyzePublicKey(pk *ggh.PublicKey) (*ggh.KeyAnalysis, error) {
	if err := ValidatePublicKey(pk); err != nil {
		return nil, err
	}
	ratio, err := lattice.HadamardRatio(pk.Basis)
	if err != nil {
		return nil, err
	}
	fp, err := Fingerprint(pk)
	if err != nil {
		return nil, err
	}
	return &ggh.KeyAnalysis{
		Dimension:     pk.N,
		HadamardRatio: ratio,
		MaxEntryBits:  pk.Basis.MaxBitLen(),
		Fingerprint:   fp,
	}, nil
}
