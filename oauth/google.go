package oauth

import (
	"context"
	"net/http"

	"github.com/arvellum/go-session-auth/internal/random"
	"golang.org/x/oauth2"
)

// Google OAuth 2.0 endpoints.
const (
	googleAuthEndpoint  = "https://accounts.google.com/o/oauth2/v2/auth"
	googleTokenEndpoint = "https://oauth2.googleapis.com/token"
	googleJWKSEndpoint  = "https://www.googleapis.com/oauth2/v3/certs"
)

var googleScopes = []string{"openid", "profile", "email"}

// GoogleClient performs the Google sign-in flow: PKCE-bound code
// exchange followed by OIDC ID-token verification against Google's
// JWKS.
type GoogleClient struct {
	cfg        oauth2.Config
	jwksURL    string
	random     random.Source
	httpClient *http.Client
}

var _ Client = (*GoogleClient)(nil)

// GoogleOption modifies a GoogleClient instance.
type GoogleOption func(*GoogleClient)

// WithGoogleEndpoints overrides the provider endpoints (for tests).
func WithGoogleEndpoints(authURL, tokenURL, jwksURL string) GoogleOption {
	return func(c *GoogleClient) {
		c.cfg.Endpoint.AuthURL = authURL
		c.cfg.Endpoint.TokenURL = tokenURL
		c.jwksURL = jwksURL
	}
}

// WithGoogleHTTPClient overrides the HTTP client used for provider
// calls; the client's timeout bounds every outbound request.
func WithGoogleHTTPClient(client *http.Client) GoogleOption {
	return func(c *GoogleClient) {
		c.httpClient = client
	}
}

func NewGoogle(clientID, clientSecret, redirectURI string, randomSource random.Source, options ...GoogleOption) *GoogleClient {
	c := &GoogleClient{
		cfg: oauth2.Config{
			ClientID:     clientID,
			ClientSecret: clientSecret,
			RedirectURL:  redirectURI,
			Scopes:       googleScopes,
			Endpoint: oauth2.Endpoint{
				AuthURL:   googleAuthEndpoint,
				TokenURL:  googleTokenEndpoint,
				AuthStyle: oauth2.AuthStyleInHeader,
			},
		},
		jwksURL:    googleJWKSEndpoint,
		random:     randomSource,
		httpClient: &http.Client{Timeout: defaultProviderTimeout},
	}

	for _, opt := range options {
		opt(c)
	}

	return c
}

// AuthorizationURL builds the Google authorization URL for the login
// redirect.
func (c *GoogleClient) AuthorizationURL(state, codeChallenge string) (string, error) {
	return authorizationURL(&c.cfg, state, codeChallenge)
}

// ExchangeCode trades the authorization code for tokens, verifies the
// ID token, and normalizes the verified claims into an Account.
func (c *GoogleClient) ExchangeCode(ctx context.Context, code, codeVerifier string) (*Account, error) {
	token, err := exchangeCode(ctx, &c.cfg, c.httpClient, code, codeVerifier)
	if err != nil {
		return nil, err
	}

	rawIDToken, ok := token.Extra("id_token").(string)
	if !ok || rawIDToken == "" {
		return nil, ErrMissingIDToken
	}

	claims, err := verifyIDToken(ctx, c.httpClient, c.jwksURL, rawIDToken, c.cfg.ClientID)
	if err != nil {
		return nil, err
	}

	return &Account{
		ID:                   c.random.UUID(),
		Provider:             ProviderGoogle,
		ExternalUserID:       claims.Subject,
		ExternalUserName:     claims.Name,
		ExternalUserEmail:    claims.Email,
		AccessToken:          token.AccessToken,
		AccessTokenExpiresAt: token.Expiry,
		RefreshToken:         token.RefreshToken,
	}, nil
}
