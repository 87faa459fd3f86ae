package config

import (
	"net/url"
	"time"

	"github.com/pkg/errors"
)

type ProviderConfig interface {
	GetGoogleClientID() string
	GetGoogleClientSecret() string
	GetGoogleRedirectURI() string

	GetGithubClientID() string
	GetGithubClientSecret() string
	GetGithubRedirectURI() string

	// GetProviderTimeout bounds every outbound call to a provider
	// (token exchange, JWKS fetch, user info).
	GetProviderTimeout() time.Duration
}

type Providers struct {
	GoogleClientID     string `env:"GOOGLE_CLIENT_ID"`
	GoogleClientSecret string `env:"GOOGLE_CLIENT_SECRET"`
	GoogleRedirectURI  string `env:"GOOGLE_REDIRECT_URI"`

	GithubClientID     string `env:"GITHUB_CLIENT_ID"`
	GithubClientSecret string `env:"GITHUB_CLIENT_SECRET"`
	GithubRedirectURI  string `env:"GITHUB_REDIRECT_URI"`

	ProviderTimeout time.Duration `env:"OAUTH_PROVIDER_TIMEOUT" envDefault:"10s"`
}

var _ ProviderConfig = Providers{}

func (p Providers) GetGoogleClientID() string     { return p.GoogleClientID }
func (p Providers) GetGoogleClientSecret() string { return p.GoogleClientSecret }
func (p Providers) GetGoogleRedirectURI() string  { return p.GoogleRedirectURI }

func (p Providers) GetGithubClientID() string     { return p.GithubClientID }
func (p Providers) GetGithubClientSecret() string { return p.GithubClientSecret }
func (p Providers) GetGithubRedirectURI() string  { return p.GithubRedirectURI }

func (p Providers) GetProviderTimeout() time.Duration { return p.ProviderTimeout }

func (p Providers) validate() error {
	for name, uri := range map[string]string{
		"google": p.GoogleRedirectURI,
		"github": p.GithubRedirectURI,
	} {
		if uri == "" {
			continue
		}
		if _, err := url.ParseRequestURI(uri); err != nil {
			return errors.Wrapf(err, "malformed %s redirect URI", name)
		}
	}
	return nil
}
