package config

import (
	"github.com/caarlos0/env/v11"
	"github.com/pkg/errors"
)

// Config aggregates every configuration surface the service consumes.
// Components depend on the narrow sub-interface they need.
type Config interface {
	EnvConfig
	SessionConfig
	ProviderConfig
}

type mainConfig struct {
	EnvVars
	Session
	Providers
}

// New parses configuration from the environment and validates the
// parts that must be correct at startup (provider credentials and
// redirect URIs) so that authorization URL construction cannot fail
// at request time.
func New() (Config, error) {
	cfg := mainConfig{}

	if err := env.Parse(&cfg.EnvVars); err != nil {
		return nil, errors.Wrap(err, "[config.New] parse env vars")
	}
	if err := env.Parse(&cfg.Session); err != nil {
		return nil, errors.Wrap(err, "[config.New] parse session config")
	}
	if err := env.Parse(&cfg.Providers); err != nil {
		return nil, errors.Wrap(err, "[config.New] parse provider config")
	}

	if err := cfg.Providers.validate(); err != nil {
		return nil, errors.Wrap(err, "[config.New] provider config")
	}

	return cfg, nil
}
