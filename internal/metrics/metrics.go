package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "webinarbot"

// Metrics groups the bot's Prometheus collectors on a private registry.
type Metrics struct {
	Registry         *prometheus.Registry
	Updates          *prometheus.CounterVec
	Callbacks        *prometheus.CounterVec
	MembershipChecks *prometheus.CounterVec
	UsersCreated     prometheus.Counter
	PollErrors       prometheus.Counter
	UpdateErrors     prometheus.Counter
}

// New creates and registers all collectors.
func New() *Metrics {
	m := &Metrics{
		Registry: prometheus.NewRegistry(),
		Updates: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "updates_total",
			Help:      "Updates received from getUpdates, by kind.",
		}, []string{"kind"}),
		Callbacks: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "callbacks_total",
			Help:      "Callback queries dispatched, by callback data.",
		}, []string{"action"}),
		MembershipChecks: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "membership_checks_total",
			Help:      "Group membership checks, by outcome.",
		}, []string{"outcome"}),
		UsersCreated: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "users_created_total",
			Help:      "User records created on /start.",
		}),
		PollErrors: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "poll_errors_total",
			Help:      "Failed getUpdates calls.",
		}),
		UpdateErrors: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "update_errors_total",
			Help:      "Updates whose handling failed at loop level.",
		}),
	}

	m.Registry.MustRegister(
		m.Updates,
		m.Callbacks,
		m.MembershipChecks,
		m.UsersCreated,
		m.PollErrors,
		m.UpdateErrors,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	return m
}

// Handler exposes the registry in the Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.Registry, promhttp.HandlerOpts{})
}
