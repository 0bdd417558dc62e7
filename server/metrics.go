package server

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const (
	resultSuccess = "success"
	resultFailure = "failure"
)

// Metrics holds the session lifecycle collectors on a registry of its own
type Metrics struct {
	Logins          *prometheus.CounterVec
	TokenRefreshes  *prometheus.CounterVec
	GuardDecisions  *prometheus.CounterVec
	SessionTimeouts prometheus.Counter

	registry *prometheus.Registry
}

func NewMetrics() *Metrics {
	m := &Metrics{
		Logins: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "fpa",
				Name:      "logins_total",
				Help:      "Password logins by result",
			},
			[]string{"result"},
		),
		TokenRefreshes: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "fpa",
				Name:      "token_refreshes_total",
				Help:      "Refresh token grants by result",
			},
			[]string{"result"},
		),
		GuardDecisions: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "fpa",
				Name:      "guard_decisions_total",
				Help:      "Route guard decisions by outcome",
			},
			[]string{"outcome"},
		),
		SessionTimeouts: prometheus.NewCounter(
			prometheus.CounterOpts{
				Namespace: "fpa",
				Name:      "session_timeouts_total",
				Help:      "Sessions logged out after inactivity",
			},
		),
		registry: prometheus.NewRegistry(),
	}

	m.registry.MustRegister(
		m.Logins,
		m.TokenRefreshes,
		m.GuardDecisions,
		m.SessionTimeouts,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return m
}

// Handler serves the registry for the /metrics endpoint
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
