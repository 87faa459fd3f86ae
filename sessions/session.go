// Package sessions implements the session credential lifecycle:
// opaque token issuance, validation with sliding expiry, and deletion.
//
// A session token is "{id}.{secret}". The id is the public half used
// for lookup; the secret exists only inside the token and is persisted
// as a one-way hash, so the store never holds a verifiable credential.
//
// Further reading: https://lucia-auth.com/sessions/basic
package sessions

import (
	"context"
	"strings"
	"time"

	interrors "github.com/arvellum/go-session-auth/internal/errors"
)

// TokenPartLength is the length of each alphanumeric token half.
const TokenPartLength = 24

// Session is the persisted session record.
type Session struct {
	ID         string
	SecretHash []byte
	UserID     string
	CreatedAt  time.Time
	ExpiresAt  time.Time
}

// Store is the persistence interface for session records. All
// mutations are single-statement operations; the manager never needs a
// transaction spanning calls.
type Store interface {
	// Insert persists a fully-populated session row.
	Insert(ctx context.Context, session *Session) error

	// Get returns the session with the given id, or an error matching
	// internal/errors.ErrNotFound if no such row exists.
	Get(ctx context.Context, id string) (*Session, error)

	// Delete removes a session by id. Deleting an absent id is not an
	// error.
	Delete(ctx context.Context, id string) error

	// UpdateExpiry sets a new absolute expiry on an existing session.
	UpdateExpiry(ctx context.Context, id string, expiresAt time.Time) error
}

// FormatToken joins the two token halves into the wire form.
func FormatToken(id, secret string) string {
	return id + "." + secret
}

// ParseToken splits a wire token into its id and secret halves. The
// shape must be exactly two parts joined by a single dot; anything
// else is rejected before the store is consulted.
func ParseToken(token string) (id, secret string, err error) {
	if token == "" {
		return "", "", interrors.ErrMissingToken
	}

	parts := strings.Split(token, ".")
	if len(parts) != 2 {
		return "", "", interrors.ErrInvalidToken
	}

	return parts[0], parts[1], nil
}
