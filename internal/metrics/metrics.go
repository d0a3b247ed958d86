// Package metrics exposes Prometheus instrumentation for the poll engine.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics bundles the collectors for one poll engine instance. A dedicated
// registry keeps tests independent and avoids default-registry collisions.
type Metrics struct {
	Registry *prometheus.Registry

	Polls        *prometheus.CounterVec
	PollDuration *prometheus.HistogramVec
	Reconnects   *prometheus.CounterVec
	Renders      prometheus.Counter
}

// Poll result label values.
const (
	ResultSuccess   = "success"
	ResultFailure   = "command_failure"
	ResultTimeout   = "timeout"
	ResultTransport = "transport_error"
)

// New creates and registers all collectors on a fresh registry.
func New() *Metrics {
	reg := prometheus.NewRegistry()

	m := &Metrics{
		Registry: reg,
		Polls: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "fleetstat_polls_total",
			Help: "Poll cycles by host and result.",
		}, []string{"host", "result"}),
		PollDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "fleetstat_poll_duration_seconds",
			Help:    "Remote command execution time by host.",
			Buckets: prometheus.DefBuckets,
		}, []string{"host"}),
		Reconnects: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "fleetstat_reconnects_total",
			Help: "Session teardowns followed by a reconnect attempt, by host.",
		}, []string{"host"}),
		Renders: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "fleetstat_renders_total",
			Help: "Completed renders of the status page.",
		}),
	}

	reg.MustRegister(m.Polls, m.PollDuration, m.Reconnects, m.Renders)
	return m
}
