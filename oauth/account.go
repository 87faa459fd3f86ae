package oauth

import (
	"context"
	"time"
)

// Account is a linkage row between a provider identity and an internal
// user. UserID is empty while the external identity is authenticated
// but not yet linked.
type Account struct {
	ID             string
	Provider       Provider
	ExternalUserID string

	// Optional profile attributes from the provider; empty when the
	// provider did not supply them.
	ExternalUserName  string
	ExternalUserEmail string

	// Provider tokens, stored only when needed for later API calls.
	AccessToken          string
	AccessTokenExpiresAt time.Time
	RefreshToken         string

	UserID string
}

// AccountStore persists Account rows keyed by (provider,
// external_user_id).
type AccountStore interface {
	// Upsert inserts the account or, when a row with the same
	// (provider, external_user_id) exists, refreshes its profile and
	// token fields. An existing user link is preserved; the incoming
	// UserID is only adopted when none is on file. Returns the merged
	// row as stored.
	Upsert(ctx context.Context, account *Account) (*Account, error)

	// UpdateUserLink sets the user link on an existing row,
	// overwriting any previous link. Returns an error matching
	// internal/errors.ErrNotFound when the row does not exist.
	UpdateUserLink(ctx context.Context, accountID, userID string) error

	// Get returns the account linked to the given user for the given
	// provider, or an error matching internal/errors.ErrNotFound.
	Get(ctx context.Context, userID string, provider Provider) (*Account, error)
}
