package oauth

import "errors"

// Provider-interaction failures. All of them surface to callers as the
// internal-error category with a generic message; the distinctions
// exist for logs and tests, not for the wire.
var (
	ErrExchange           = errors.New("authorization code exchange failed")
	ErrMissingIDToken     = errors.New("missing id token in provider response")
	ErrMissingKID         = errors.New("missing kid in token header")
	ErrNoMatchingJWKS     = errors.New("no matching jwks key found")
	ErrTokenVerification  = errors.New("id token verification failed")
	ErrMissingAccessToken = errors.New("missing access token in provider response")
	ErrMissingEmail       = errors.New("no primary email on provider account")
	ErrUnexpectedStatus   = errors.New("unexpected provider response status")
)
