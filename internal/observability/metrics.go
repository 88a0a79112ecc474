// Package observability holds the Prometheus metrics of the activity log.
// Metrics live on a private registry so tests and the CLI can gather them
// without touching the global default registry.
package observability

import (
	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "puzzlelog"

// Guess outcome label values.
const (
	OutcomeCorrect   = "correct"
	OutcomeIncorrect = "incorrect"
	OutcomeInvalid   = "invalid"
	OutcomeRejected  = "already_solved"
)

// Metrics groups the collectors updated by the game session and sync gate.
// A nil *Metrics is valid and records nothing.
type Metrics struct {
	registry *prometheus.Registry

	guesses       *prometheus.CounterVec
	solves        prometheus.Counter
	storageErrors *prometheus.CounterVec
	syncSignals   prometheus.Counter
	unsynced      prometheus.Gauge
	highScore     prometheus.Gauge
}

// NewMetrics creates the collectors and registers them on a new registry.
func NewMetrics() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		guesses: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "game",
			Name:      "guesses_total",
			Help:      "Guesses submitted, labeled by outcome.",
		}, []string{"outcome"}),
		solves: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "game",
			Name:      "solves_total",
			Help:      "Daily puzzles solved and persisted.",
		}),
		storageErrors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "storage",
			Name:      "errors_total",
			Help:      "Storage operations that failed, labeled by operation.",
		}, []string{"op"}),
		syncSignals: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "sync",
			Name:      "due_signals_total",
			Help:      "Batch-sync-due signals raised.",
		}),
		unsynced: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "sync",
			Name:      "unsynced_records",
			Help:      "Activity records not yet sent to a remote store, as of the last check.",
		}),
		highScore: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "game",
			Name:      "high_score",
			Help:      "Highest score recorded in the ledger.",
		}),
	}
	m.registry.MustRegister(m.guesses, m.solves, m.storageErrors, m.syncSignals, m.unsynced, m.highScore)
	return m
}

// Registry exposes the private registry for gathering.
func (m *Metrics) Registry() *prometheus.Registry {
	if m == nil {
		return nil
	}
	return m.registry
}

// Guess counts one submission with the given outcome.
func (m *Metrics) Guess(outcome string) {
	if m == nil {
		return
	}
	m.guesses.WithLabelValues(outcome).Inc()
}

// Solved counts a persisted solve.
func (m *Metrics) Solved() {
	if m == nil {
		return
	}
	m.solves.Inc()
}

// StorageError counts a failed storage operation.
func (m *Metrics) StorageError(op string) {
	if m == nil {
		return
	}
	m.storageErrors.WithLabelValues(op).Inc()
}

// SyncChecked records the unsynced count seen by the sync gate and whether
// a signal was raised.
func (m *Metrics) SyncChecked(unsynced int, raised bool) {
	if m == nil {
		return
	}
	m.unsynced.Set(float64(unsynced))
	if raised {
		m.syncSignals.Inc()
	}
}

// HighScore sets the high score gauge.
func (m *Metrics) HighScore(v int) {
	if m == nil {
		return
	}
	m.highScore.Set(float64(v))
}

// WriteTextfile writes every metric to path in the text exposition format,
// for the node exporter textfile collector. The file is replaced atomically.
func (m *Metrics) WriteTextfile(path string) error {
	if m == nil || path == "" {
		return nil
	}
	return prometheus.WriteToTextfile(path, m.registry)
}
