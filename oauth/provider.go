// Package oauth implements the relying-party side of federated login:
// authorization URL construction, PKCE material, authorization-code
// exchange, ID-token verification, and the external-account model that
// links provider identities to internal users.
package oauth

import (
	"context"

	interrors "github.com/arvellum/go-session-auth/internal/errors"
)

// Provider identifies a federated identity provider. The zero value is
// deliberately unusable so an unset field is rejected everywhere.
type Provider int

const (
	ProviderUnspecified Provider = iota
	ProviderGoogle
	ProviderGithub
)

func (p Provider) String() string {
	switch p {
	case ProviderGoogle:
		return "google"
	case ProviderGithub:
		return "github"
	default:
		return "unspecified"
	}
}

// ParseProvider maps the wire representation onto a Provider. Unknown
// or empty values return ErrUnspecifiedProvider.
func ParseProvider(s string) (Provider, error) {
	switch s {
	case "google":
		return ProviderGoogle, nil
	case "github":
		return ProviderGithub, nil
	default:
		return ProviderUnspecified, interrors.ErrUnspecifiedProvider
	}
}

// UsesPKCE reports whether the provider's code exchange is bound to a
// PKCE verifier. GitHub's OAuth app flow does not support PKCE for
// confidential clients; Google's does.
func (p Provider) UsesPKCE() bool {
	return p == ProviderGoogle
}

// Client is the per-provider capability set. One implementation exists
// per provider; adding a provider means adding an implementation, not
// touching the flow orchestration.
type Client interface {
	// AuthorizationURL builds the provider authorization endpoint URL
	// for the given CSRF state and, when non-empty, S256 code
	// challenge.
	AuthorizationURL(state, codeChallenge string) (string, error)

	// ExchangeCode trades an authorization code (plus PKCE verifier if
	// the provider uses one) for a normalized, unlinked Account.
	ExchangeCode(ctx context.Context, code, codeVerifier string) (*Account, error)
}
