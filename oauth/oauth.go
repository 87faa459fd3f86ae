package oauth

import (
	"context"
	"crypto/sha256"
	"encoding/base64"
	"net/http"
	"net/url"
	"time"

	"github.com/arvellum/go-session-auth/internal/random"
	"github.com/pkg/errors"
	"golang.org/x/oauth2"
)

// stateBytes is the amount of raw entropy behind the CSRF state and
// the PKCE code verifier (43 base64url chars each).
const stateBytes = 32

const defaultProviderTimeout = 10 * time.Second

// GenerateState returns a fresh CSRF correlation value. The service
// does not store it; the gateway round-trips it through the client and
// compares on callback.
func GenerateState(src random.Source) string {
	return src.Base64URL(stateBytes)
}

// GenerateCodeVerifier returns a fresh PKCE code verifier.
func GenerateCodeVerifier(src random.Source) string {
	return src.Base64URL(stateBytes)
}

// S256Challenge derives the code challenge from a verifier per RFC
// 7636: unpadded base64url of the SHA-256 digest.
func S256Challenge(codeVerifier string) string {
	digest := sha256.Sum256([]byte(codeVerifier))
	return base64.RawURLEncoding.EncodeToString(digest[:])
}

// authorizationURL builds the provider authorization URL from an
// oauth2.Config. The challenge parameters are appended only when a
// challenge is supplied, so non-PKCE providers get a plain code flow.
func authorizationURL(cfg *oauth2.Config, state, codeChallenge string) (string, error) {
	if _, err := url.ParseRequestURI(cfg.Endpoint.AuthURL); err != nil {
		return "", errors.Wrap(err, "[authorizationURL] malformed auth endpoint")
	}

	opts := []oauth2.AuthCodeOption{}
	if codeChallenge != "" {
		opts = append(opts,
			oauth2.SetAuthURLParam("code_challenge_method", "S256"),
			oauth2.SetAuthURLParam("code_challenge", codeChallenge),
		)
	}

	return cfg.AuthCodeURL(state, opts...), nil
}

// exchangeCode posts the authorization_code grant to the provider
// token endpoint. Client credentials go in the Basic auth header; the
// verifier is included only when non-empty.
func exchangeCode(ctx context.Context, cfg *oauth2.Config, client *http.Client, code, codeVerifier string) (*oauth2.Token, error) {
	ctx = context.WithValue(ctx, oauth2.HTTPClient, client)

	opts := []oauth2.AuthCodeOption{}
	if codeVerifier != "" {
		opts = append(opts, oauth2.SetAuthURLParam("code_verifier", codeVerifier))
	}

	token, err := cfg.Exchange(ctx, code, opts...)
	if err != nil {
		return nil, errors.Wrapf(ErrExchange, "exchange: %v", err)
	}

	return token, nil
}
