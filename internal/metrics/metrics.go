// Package metrics exposes Prometheus metrics for asks and batch runs.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/RaviNarasimha41/industrial-safety-Q-A/internal/domain"
)

// Ask outcomes.
const (
	OutcomeAnswered  = "answered"
	OutcomeAbstained = "abstained"
	OutcomeFailed    = "failed"
	OutcomeRejected  = "rejected"
)

// Metrics holds the session metrics on a private registry.
type Metrics struct {
	registry *prometheus.Registry

	Asks           *prometheus.CounterVec
	BackendLatency *prometheus.HistogramVec
	BatchItems     *prometheus.CounterVec
	BatchRuns      *prometheus.CounterVec
	Reactions      *prometheus.CounterVec
	State          *prometheus.GaugeVec
}

// New creates and registers all metrics.
func New() *Metrics {
	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)

	m := &Metrics{
		registry: reg,
		Asks: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "qa_asks_total",
				Help: "Manual asks by outcome",
			},
			[]string{"outcome"},
		),
		BackendLatency: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "qa_backend_request_duration_seconds",
				Help:    "Backend /ask latency in seconds",
				Buckets: []float64{0.1, 0.25, 0.5, 1, 2, 5, 10, 30},
			},
			[]string{"origin", "status"},
		),
		BatchItems: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "qa_batch_items_total",
				Help: "Batch questions by outcome",
			},
			[]string{"outcome"},
		),
		BatchRuns: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "qa_batch_runs_total",
				Help: "Finished batch runs by status",
			},
			[]string{"status"},
		),
		Reactions: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "qa_reactions_total",
				Help: "Reactions set on messages",
			},
			[]string{"reaction"},
		),
		State: factory.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "qa_session_state",
				Help: "1 for the current session state, 0 otherwise",
			},
			[]string{"state"},
		),
	}
	m.SetState(domain.StateIdle)
	return m
}

// Handler serves the registry in the Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

// TrackConnections exports the WebSocket connection and viewer counts,
// read at scrape time. Call it once.
func (m *Metrics) TrackConnections(connections, viewers func() int) {
	factory := promauto.With(m.registry)
	factory.NewGaugeFunc(
		prometheus.GaugeOpts{
			Name: "qa_ws_connections",
			Help: "Open WebSocket connections",
		},
		func() float64 { return float64(connections()) },
	)
	factory.NewGaugeFunc(
		prometheus.GaugeOpts{
			Name: "qa_ws_viewers",
			Help: "WebSocket connections that completed hello",
		},
		func() float64 { return float64(viewers()) },
	)
}

// ObserveAsk counts a manual ask.
func (m *Metrics) ObserveAsk(outcome string) {
	m.Asks.WithLabelValues(outcome).Inc()
}

// ObserveBackend records the latency of one backend call.
func (m *Metrics) ObserveBackend(origin domain.Origin, err error, d time.Duration) {
	status := "ok"
	if err != nil {
		status = "error"
	}
	m.BackendLatency.WithLabelValues(string(origin), status).Observe(d.Seconds())
}

// ObserveBatchItem counts one batch question.
func (m *Metrics) ObserveBatchItem(failed bool) {
	outcome := "recorded"
	if failed {
		outcome = "placeholder"
	}
	m.BatchItems.WithLabelValues(outcome).Inc()
}

// ObserveBatchRun counts a finished batch run.
func (m *Metrics) ObserveBatchRun(status domain.RunStatus) {
	m.BatchRuns.WithLabelValues(string(status)).Inc()
}

// ObserveReaction counts a reaction.
func (m *Metrics) ObserveReaction(r domain.Reaction) {
	m.Reactions.WithLabelValues(string(r)).Inc()
}

// SetState marks state as current.
func (m *Metrics) SetState(state domain.SessionState) {
	for _, s := range []domain.SessionState{domain.StateIdle, domain.StateAsking, domain.StateBatchRunning} {
		v := 0.0
		if s == state {
			v = 1
		}
		m.State.WithLabelValues(string(s)).Set(v)
	}
}
