package ggh

import "github.com/BackendStack21/ggh-go/lattice"

// =============================================================================
// Parameter Types
// =============================================================================

// Params controls key generation.
type Params struct {
	// Threshold is the largest Hadamard ratio accepted for a public basis.
	Threshold float64 `json:"threshold"`
	// EntryBound bounds the off-diagonal entries of the triangular factors
	// to [-EntryBound, EntryBound]. It must be at least 1.
	EntryBound int64 `json:"entry_bound"`
	// MaxAttempts caps the number of candidates drawn. Zero means no cap:
	// the search runs until a candidate is accepted, however long that takes.
	MaxAttempts int `json:"max_attempts"`
}

// =============================================================================
// Key Types
// =============================================================================

// PublicKey is the skewed basis used for encryption.
type PublicKey struct {
	N     int
	Basis lattice.Matrix // N x N, rows are lattice basis vectors
}

// PrivateKey holds the good basis and the unimodular transform linking it to
// the public basis: public = Basis * Transform.
type PrivateKey struct {
	N         int
	Basis     lattice.Matrix // N x N, the identity for generated keys
	Transform lattice.Matrix // N x N, det = ±1
}

// KeyPair contains both public and private keys.
type KeyPair struct {
	PublicKey  PublicKey
	PrivateKey PrivateKey
}

// =============================================================================
// Ciphertext Types
// =============================================================================

// Ciphertext is the plaintext vector expressed in the public basis.
type Ciphertext struct {
	C lattice.Vector
}

// =============================================================================
// Analysis Types
// =============================================================================

// MaxTraceLength bounds the number of ratios kept in a SearchTrace.
const MaxTraceLength = 1 << 16

// SearchTrace records the progress of one key search.
type SearchTrace struct {
	Attempts      int       // candidates drawn, including the accepted one
	Ratios        []float64 // Hadamard ratio of each candidate in draw order, capped at MaxTraceLength
	AcceptedRatio float64
}

// KeyAnalysis summarizes a public key.
type KeyAnalysis struct {
	Dimension     int
	HadamardRatio float64
	MaxEntryBits  int
	Fingerprint   string
}
