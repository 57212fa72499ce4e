// Package utils provides randomness, hashing and bounds-checking helpers shared
// by the GGH packages.
// This file contains safe arithmetic and allocation limits that keep a hostile
// key or ciphertext file from forcing huge allocations.

package utils

import "errors"

// Limits applied when reading untrusted key and ciphertext material.
const (
	// MaxDimension is the largest lattice dimension accepted from a file.
	MaxDimension = 1 << 12 // 4096

	// MaxTokenLength is the longest decimal integer token accepted, in bytes.
	MaxTokenLength = 1 << 16

	// MaxInputFileSize bounds any file read by the command line tool.
	MaxInputFileSize = 256 * 1024 * 1024
)

var (
	// ErrExceedsLimit indicates a value exceeds the allowed limit.
	ErrExceedsLimit = errors.New("value exceeds allowed limit")

	// ErrInvalidLength indicates an invalid length value.
	ErrInvalidLength = errors.New("invalid length")
)

// CheckLength validates that length is within [0, maxAllowed].
func CheckLength(length, maxAllowed int) error {
	if length < 0 {
		return ErrInvalidLength
	}
	if length > maxAllowed {
		return ErrExceedsLimit
	}
	return nil
}

// CheckDimension validates a lattice dimension read from untrusted input.
func CheckDimension(n int) error {
	if n < 1 {
		return ErrInvalidLength
	}
	if n > MaxDimension {
		return ErrExceedsLimit
	}
	return nil
}
