package config

import "time"

type SessionConfig interface {
	// GetSessionTTL is the absolute lifetime of a session at creation
	// and after a sliding refresh. Half of it is the refresh window.
	GetSessionTTL() time.Duration
}

type Session struct {
	TTL time.Duration `env:"SESSION_TTL" envDefault:"168h"`
}

var _ SessionConfig = Session{}

func (s Session) GetSessionTTL() time.Duration {
	return s.TTL
}
