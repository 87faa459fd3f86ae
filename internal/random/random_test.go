package random_test

import (
	"encoding/base64"
	"regexp"
	"testing"

	"github.com/arvellum/go-session-auth/internal/random"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var alphanumericRe = regexp.MustCompile(`^[A-Za-z0-9]+$`)

func TestAlphanumeric(t *testing.T) {
	src := random.NewSecure()

	for _, length := range []int{1, 24, 64} {
		got := src.Alphanumeric(length)
		assert.Len(t, got, length)
		assert.Regexp(t, alphanumericRe, got)
	}
}

func TestAlphanumericIsNotRepeating(t *testing.T) {
	src := random.NewSecure()

	seen := make(map[string]bool)
	for range 100 {
		v := src.Alphanumeric(24)
		require.False(t, seen[v], "duplicate random value %q", v)
		seen[v] = true
	}
}

func TestBase64URL(t *testing.T) {
	src := random.NewSecure()

	got := src.Base64URL(32)

	decoded, err := base64.RawURLEncoding.DecodeString(got)
	require.NoError(t, err)
	assert.Len(t, decoded, 32)
	assert.NotContains(t, got, "=")
}

func TestUUID(t *testing.T) {
	src := random.NewSecure()

	got := src.UUID()

	parsed, err := uuid.Parse(got)
	require.NoError(t, err)
	assert.Equal(t, uuid.Version(4), parsed.Version())
}
