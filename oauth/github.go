package oauth

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/arvellum/go-session-auth/internal/random"
	"github.com/arvellum/go-session-auth/internal/utils"
	"github.com/pkg/errors"
	"golang.org/x/oauth2"
)

// GitHub OAuth 2.0 endpoints.
const (
	githubAuthEndpoint   = "https://github.com/login/oauth/authorize"
	githubTokenEndpoint  = "https://github.com/login/oauth/access_token"
	githubUserEndpoint   = "https://api.github.com/user"
	githubEmailsEndpoint = "https://api.github.com/user/emails"
)

// userAgent identifies this service to the GitHub API, which rejects
// requests without one.
const userAgent = "go-session-auth"

var githubScopes = []string{"user", "user:email"}

// GithubClient performs the GitHub login flow: plain code exchange (no
// PKCE), then user and email lookups with the access token.
type GithubClient struct {
	cfg        oauth2.Config
	userURL    string
	emailsURL  string
	random     random.Source
	httpClient *http.Client
}

var _ Client = (*GithubClient)(nil)

// GithubOption modifies a GithubClient instance.
type GithubOption func(*GithubClient)

// WithGithubEndpoints overrides the provider endpoints (for tests).
func WithGithubEndpoints(authURL, tokenURL, userURL, emailsURL string) GithubOption {
	return func(c *GithubClient) {
		c.cfg.Endpoint.AuthURL = authURL
		c.cfg.Endpoint.TokenURL = tokenURL
		c.userURL = userURL
		c.emailsURL = emailsURL
	}
}

// WithGithubHTTPClient overrides the HTTP client used for provider
// calls.
func WithGithubHTTPClient(client *http.Client) GithubOption {
	return func(c *GithubClient) {
		c.httpClient = client
	}
}

func NewGithub(clientID, clientSecret, redirectURI string, randomSource random.Source, options ...GithubOption) *GithubClient {
	c := &GithubClient{
		cfg: oauth2.Config{
			ClientID:     clientID,
			ClientSecret: clientSecret,
			RedirectURL:  redirectURI,
			Scopes:       githubScopes,
			Endpoint: oauth2.Endpoint{
				AuthURL:   githubAuthEndpoint,
				TokenURL:  githubTokenEndpoint,
				AuthStyle: oauth2.AuthStyleInHeader,
			},
		},
		userURL:    githubUserEndpoint,
		emailsURL:  githubEmailsEndpoint,
		random:     randomSource,
		httpClient: &http.Client{Timeout: defaultProviderTimeout},
	}

	for _, opt := range options {
		opt(c)
	}

	return c
}

// AuthorizationURL builds the GitHub authorization URL. GitHub does
// not use PKCE in this flow, so callers pass an empty challenge.
func (c *GithubClient) AuthorizationURL(state, codeChallenge string) (string, error) {
	return authorizationURL(&c.cfg, state, codeChallenge)
}

// ExchangeCode trades the authorization code for an access token and
// resolves the GitHub user's identity and primary email.
func (c *GithubClient) ExchangeCode(ctx context.Context, code, codeVerifier string) (*Account, error) {
	token, err := exchangeCode(ctx, &c.cfg, c.httpClient, code, codeVerifier)
	if err != nil {
		return nil, err
	}
	if token.AccessToken == "" {
		return nil, ErrMissingAccessToken
	}

	var user struct {
		ID    int64   `json:"id"`
		Login string  `json:"login"`
		Name  *string `json:"name"`
		Email *string `json:"email"`
	}
	if err := c.getJSON(ctx, c.userURL, token.AccessToken, &user); err != nil {
		return nil, err
	}

	// GitHub leaves name null for users who never set one.
	name := utils.Value(user.Name)
	if name == "" {
		name = user.Login
	}

	account := &Account{
		ID:                   c.random.UUID(),
		Provider:             ProviderGithub,
		ExternalUserID:       strconv.FormatInt(user.ID, 10),
		ExternalUserName:     name,
		AccessToken:          token.AccessToken,
		AccessTokenExpiresAt: token.Expiry,
		RefreshToken:         token.RefreshToken,
	}

	// Public profile email, if the user exposes one.
	if email := utils.Value(user.Email); email != "" {
		account.ExternalUserEmail = email
		return account, nil
	}

	var emails []struct {
		Email   string `json:"email"`
		Primary bool   `json:"primary"`
	}
	if err := c.getJSON(ctx, c.emailsURL, token.AccessToken, &emails); err != nil {
		return nil, err
	}

	for _, e := range emails {
		if e.Primary {
			account.ExternalUserEmail = e.Email
			return account, nil
		}
	}

	return nil, ErrMissingEmail
}

func (c *GithubClient) getJSON(ctx context.Context, url, accessToken string, out interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return errors.Wrap(err, "[GithubClient.getJSON] build request")
	}
	req.Header.Set("Authorization", "Bearer "+accessToken)
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return errors.Wrap(err, "[GithubClient.getJSON] request")
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return errors.Wrapf(ErrUnexpectedStatus, "%s returned %d", url, resp.StatusCode)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return errors.Wrap(err, "[GithubClient.getJSON] decode response")
	}

	return nil
}
