// Package random provides cryptographically secure random value
// generation for session tokens, OAuth state/verifier material, and
// record identifiers. Everything that needs randomness takes a Source
// so tests can substitute a deterministic fake.
package random

import (
	"crypto/rand"
	"encoding/base64"
	"math/big"

	"github.com/google/uuid"
	"github.com/pkg/errors"
)

const alphanumericChars = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789"

// Source generates random values. All implementations used in
// production must be cryptographically secure; predictable output here
// is a security failure, not merely a bug.
type Source interface {
	// Alphanumeric returns a random string of the given length drawn
	// from [A-Za-z0-9].
	Alphanumeric(length int) string

	// Base64URL returns numBytes of random data encoded as unpadded
	// URL-safe base64.
	Base64URL(numBytes int) string

	// UUID returns a random v4 UUID string.
	UUID() string
}

// Secure is the production Source backed by crypto/rand.
type Secure struct{}

var _ Source = Secure{}

func NewSecure() Secure {
	return Secure{}
}

func (Secure) Alphanumeric(length int) string {
	max := big.NewInt(int64(len(alphanumericChars)))
	b := make([]byte, length)
	for i := range b {
		n, err := rand.Int(rand.Reader, max)
		if err != nil {
			// crypto/rand only fails if the OS entropy source is
			// broken; nothing sensible can continue from there.
			panic(errors.Wrap(err, "[Secure.Alphanumeric] rand.Int"))
		}
		b[i] = alphanumericChars[n.Int64()]
	}
	return string(b)
}

func (Secure) Base64URL(numBytes int) string {
	b := make([]byte, numBytes)
	if _, err := rand.Read(b); err != nil {
		panic(errors.Wrap(err, "[Secure.Base64URL] rand.Read"))
	}
	return base64.RawURLEncoding.EncodeToString(b)
}

func (Secure) UUID() string {
	return uuid.NewString()
}
