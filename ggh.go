// Package ggh implements a GGH-style lattice public-key cryptosystem.
// This package holds the shared key, ciphertext and parameter types; the
// operations live in the pke sub-package and the arithmetic in lattice.
//
// WARNING: This scheme is an educational construction. The private basis is
// always the identity and encryption adds no error vector, so the ciphertext
// is an exact invertible image of the plaintext. DO NOT use it to protect data.
package ggh

// Version of the GGH Go implementation.
const Version = "1.0.0"

// API summary:
//
// Key generation:
//   - pke.GenerateKeyPair(n) - Generate a key pair for an n-byte plaintext
//   - pke.GenerateKeyPairFromSeed(params, n, seed) - Deterministic key pair
//   - pke.SearchKeyPair(params, n, rng) - Key search with a per-candidate trace
//
// Encryption:
//   - pke.Encrypt(pk, plaintext) - Map plaintext bytes onto the public lattice
//   - pke.Decrypt(sk, ct) - Recover plaintext by exact inversion
//
// Key material:
//   - pke.SerializePrivateKey / pke.DeserializePrivateKey
//   - pke.SerializePublicKey / pke.DeserializePublicKey
//   - pke.SerializeCiphertext / pke.DeserializeCiphertext
//   - pke.AnalyzePublicKey(pk) - Quality metric and fingerprint
//
// Parameters:
//   - core.DefaultParams - Threshold 0.1, entry bound 10, unbounded search
