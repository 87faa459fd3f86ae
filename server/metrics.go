package server

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the request-level Prometheus collectors. A dedicated
// registry keeps test servers from fighting over the global one.
type Metrics struct {
	registry        *prometheus.Registry
	requestsTotal   *prometheus.CounterVec
	requestDuration *prometheus.HistogramVec
	oauthLogins     *prometheus.CounterVec
}

func NewMetrics() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		requestsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "auth_http_requests_total",
			Help: "Total HTTP requests by path and status code.",
		}, []string{"path", "status"}),
		requestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "auth_http_request_duration_seconds",
			Help:    "HTTP request latency by path.",
			Buckets: prometheus.DefBuckets,
		}, []string{"path"}),
		oauthLogins: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "auth_oauth_logins_total",
			Help: "Completed oauth callback exchanges by provider and outcome.",
		}, []string{"provider", "outcome"}),
	}

	m.registry.MustRegister(m.requestsTotal, m.requestDuration, m.oauthLogins)

	return m
}

func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

func (m *Metrics) ObserveRequest(path string, status int, duration time.Duration) {
	m.requestsTotal.WithLabelValues(path, strconv.Itoa(status)).Inc()
	m.requestDuration.WithLabelValues(path).Observe(duration.Seconds())
}

func (m *Metrics) ObserveOauthLogin(provider string, err error) {
	outcome := "success"
	if err != nil {
		outcome = "failure"
	}
	m.oauthLogins.WithLabelValues(provider, outcome).Inc()
}
