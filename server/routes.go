package server

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Route patterns. Operations are verbs, so every API route is a POST.
const (
	RouteCreateSession   = "/v1/sessions/create"
	RouteValidateSession = "/v1/sessions/validate"
	RouteDeleteSession   = "/v1/sessions/delete"

	RouteStartOauthLogin     = "/v1/oauth/login/start"
	RouteHandleOauthCallback = "/v1/oauth/login/callback"
	RouteLinkOauthAccount    = "/v1/oauth/accounts/link"
	RouteGetOauthAccount     = "/v1/oauth/accounts/get"

	RouteHealthz = "/healthz"
	RouteMetrics = "/metrics"
)

func (s *Server) initRoutes() {
	s.RegisterRouteFunc("POST "+RouteCreateSession, s.apiMiddleware(s.CreateSessionHandler()))
	s.RegisterRouteFunc("POST "+RouteValidateSession, s.apiMiddleware(s.ValidateSessionHandler()))
	s.RegisterRouteFunc("POST "+RouteDeleteSession, s.apiMiddleware(s.DeleteSessionHandler()))

	s.RegisterRouteFunc("POST "+RouteStartOauthLogin, s.apiMiddleware(s.StartOauthLoginHandler()))
	s.RegisterRouteFunc("POST "+RouteHandleOauthCallback, s.apiMiddleware(s.HandleOauthCallbackHandler()))
	s.RegisterRouteFunc("POST "+RouteLinkOauthAccount, s.apiMiddleware(s.LinkOauthAccountHandler()))
	s.RegisterRouteFunc("POST "+RouteGetOauthAccount, s.apiMiddleware(s.GetOauthAccountHandler()))

	s.RegisterRouteFunc("GET "+RouteHealthz, s.HealthzHandler())
	s.RegisterRouteHandler("GET "+RouteMetrics, promhttp.HandlerFor(s.metrics.Registry(), promhttp.HandlerOpts{}))
}

func (s *Server) apiMiddleware(handler http.HandlerFunc) http.HandlerFunc {
	return ChainMiddleware(handler,
		s.RecoverMiddleware,
		s.LoggingMiddleware,
		s.MetricsMiddleware,
	)
}

// HealthzHandler reports readiness of the backing store.
func (s *Server) HealthzHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if s.healthcheck != nil {
			if err := s.healthcheck(r.Context()); err != nil {
				s.logger.Error().Err(err).Msg("healthcheck failed")
				http.Error(w, "unhealthy", http.StatusServiceUnavailable)
				return
			}
		}
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	}
}
