package sessions

import (
	"crypto/sha256"
	"crypto/subtle"
)

// HashSecret returns the SHA-256 digest of a session secret. The
// secret carries well over 120 bits of entropy, which puts an offline
// brute force of a fast hash out of reach; a slow password KDF is for
// low-entropy passwords, and this is a capability token.
func HashSecret(secret string) []byte {
	h := sha256.Sum256([]byte(secret))
	return h[:]
}

// ConstantTimeEqual compares two hashes without leaking where they
// first differ. Length mismatch returns false immediately; equal
// lengths are compared byte-for-byte with no short circuit.
func ConstantTimeEqual(a, b []byte) bool {
	if len(a) != len(b) {
		return false
	}
	return subtle.ConstantTimeCompare(a, b) == 1
}
