// Package server exposes the session and oauth operations as a JSON
// HTTP API. Handlers are thin: they decode, validate identifiers, call
// into the domain packages, and map sentinel errors onto status codes.
package server

import (
	"context"
	"net/http"

	interrors "github.com/arvellum/go-session-auth/internal/errors"
	"github.com/arvellum/go-session-auth/internal/random"
	"github.com/arvellum/go-session-auth/oauth"
	"github.com/arvellum/go-session-auth/sessions"
	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"
)

type Server struct {
	env      string
	mux      *http.ServeMux
	routes   []string
	sessions *sessions.Manager
	accounts oauth.AccountStore
	clients  map[oauth.Provider]oauth.Client
	random   random.Source
	logger   zerolog.Logger
	metrics  *Metrics

	// healthcheck reports backing-store readiness; nil means always
	// healthy.
	healthcheck func(ctx context.Context) error
}

// Option modifies a Server instance.
type Option func(*Server)

// WithHealthcheck wires a readiness probe into GET /healthz.
func WithHealthcheck(check func(ctx context.Context) error) Option {
	return func(s *Server) {
		s.healthcheck = check
	}
}

// WithEnv sets the environment name used for request logging.
func WithEnv(env string) Option {
	return func(s *Server) {
		s.env = env
	}
}

// WithMetrics overrides the default metrics registry.
func WithMetrics(metrics *Metrics) Option {
	return func(s *Server) {
		s.metrics = metrics
	}
}

func New(sessionManager *sessions.Manager, accounts oauth.AccountStore, clients map[oauth.Provider]oauth.Client, randomSource random.Source, logger zerolog.Logger, options ...Option) (*Server, error) {
	if sessionManager == nil {
		return nil, errors.New("[server.New] session manager is required")
	}
	if accounts == nil {
		return nil, errors.New("[server.New] account store is required")
	}
	if len(clients) == 0 {
		return nil, errors.New("[server.New] at least one oauth client is required")
	}
	if randomSource == nil {
		return nil, errors.New("[server.New] random source is required")
	}

	s := &Server{
		env:      "DEV",
		mux:      http.NewServeMux(),
		sessions: sessionManager,
		accounts: accounts,
		clients:  clients,
		random:   randomSource,
		logger:   logger,
		metrics:  NewMetrics(),
	}

	for _, opt := range options {
		opt(s)
	}

	s.initRoutes()
	s.logRoutes()

	return s, nil
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.mux.ServeHTTP(w, r)
}

func (s *Server) RegisterRouteHandler(pattern string, handler http.Handler) {
	s.routes = append(s.routes, pattern)
	s.mux.Handle(pattern, handler)
}

func (s *Server) RegisterRouteFunc(pattern string, handler func(http.ResponseWriter, *http.Request)) {
	s.routes = append(s.routes, pattern)
	s.mux.HandleFunc(pattern, handler)
}

func (s *Server) logRoutes() {
	if s.env != "DEV" {
		return
	}
	for _, route := range s.routes {
		s.logger.Info().Str("route", route).Msg("registered route")
	}
}

// providerClient resolves the configured client for a provider name.
func (s *Server) providerClient(name string) (oauth.Provider, oauth.Client, error) {
	provider, err := oauth.ParseProvider(name)
	if err != nil {
		return oauth.ProviderUnspecified, nil, err
	}

	client, ok := s.clients[provider]
	if !ok {
		return oauth.ProviderUnspecified, nil, errors.Wrapf(interrors.ErrUnspecifiedProvider, "provider %q is not configured", name)
	}

	return provider, client, nil
}

// validateUserID enforces that user ids are well-formed UUIDs before
// they reach the store.
func validateUserID(userID string) error {
	if userID == "" {
		return interrors.ErrMissingUserID
	}
	if _, err := uuid.Parse(userID); err != nil {
		return interrors.ErrInvalidUserID
	}
	return nil
}
