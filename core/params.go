// Package core provides parameter sets and validation for GGH key generation.
package core

import (
	"errors"

	ggh "github.com/BackendStack21/ggh-go"
)

const (
	// DefaultThreshold is the largest Hadamard ratio accepted for a public basis.
	DefaultThreshold = 0.1

	// DefaultEntryBound bounds the random triangular-factor entries to [-10, 10].
	DefaultEntryBound = 10

	// MaxEntryBound keeps a single sampled entry inside int64 arithmetic.
	MaxEntryBound = 1 << 30
)

// DefaultParams is the parameter set used by the command line tool. The key
// search is not capped: MaxAttempts == 0.
var DefaultParams = ggh.Params{
	Threshold:   DefaultThreshold,
	EntryBound:  DefaultEntryBound,
	MaxAttempts: 0,
}

// BoundedParams returns DefaultParams with the key search capped at maxAttempts
// rejected candidates.
func BoundedParams(maxAttempts int) ggh.Params {
	p := DefaultParams
	p.MaxAttempts = maxAttempts
	return p
}

// ValidateParams validates the parameter set for consistency.
func ValidateParams(params ggh.Params) error {
	if params.Threshold <= 0 || params.Threshold > 1 {
		return errors.New("threshold must be in (0, 1]")
	}
	// with bound 0 every transform is the identity and no candidate can
	// ever pass the threshold
	if params.EntryBound < 1 {
		return errors.New("entry bound must be at least 1")
	}
	if params.EntryBound > MaxEntryBound {
		return errors.New("entry bound too large")
	}
	if params.MaxAttempts < 0 {
		return errors.New("max attempts must be non-negative")
	}
	return nil
}
