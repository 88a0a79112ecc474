// Package syncgate decides when enough unsynced activity has accumulated to
// warrant a batch push to a remote store. It only raises the signal: it does
// no network I/O and never clears synced flags; that is the job of whatever
// transport subscribes.
package syncgate

import (
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/mesh-intelligence/puzzlelog/internal/observability"
	"github.com/mesh-intelligence/puzzlelog/pkg/types"
)

// DefaultThreshold is the unsynced-record count at which a sync is due.
const DefaultThreshold = 5

// UnsyncedCounter is the slice of the activity store the gate needs.
type UnsyncedCounter interface {
	CountUnsynced() (int, error)
}

// Signal announces that a batch sync is due.
type Signal struct {
	BatchID  string    `json:"batchId"`
	Unsynced int       `json:"unsynced"`
	RaisedAt time.Time `json:"raisedAt"`
}

// Gate raises Signals when the unsynced count reaches the threshold.
type Gate struct {
	store     UnsyncedCounter
	threshold int
	metrics   *observability.Metrics
	logger    *slog.Logger
	now       func() time.Time

	mu          sync.Mutex
	subscribers []func(Signal)
}

// Option configures a Gate.
type Option func(*Gate)

// WithMetrics records checks and raised signals.
func WithMetrics(m *observability.Metrics) Option {
	return func(g *Gate) { g.metrics = m }
}

// WithLogger sets the logger. The default discards.
func WithLogger(l *slog.Logger) Option {
	return func(g *Gate) {
		if l != nil {
			g.logger = l
		}
	}
}

// WithClock overrides the clock used to stamp signals.
func WithClock(now func() time.Time) Option {
	return func(g *Gate) { g.now = now }
}

// New returns a gate over store. threshold must be positive.
func New(store UnsyncedCounter, threshold int, opts ...Option) (*Gate, error) {
	if threshold <= 0 {
		return nil, fmt.Errorf("%w: sync threshold %d", types.ErrThresholdInvalid, threshold)
	}
	g := &Gate{
		store:     store,
		threshold: threshold,
		logger:    slog.New(slog.DiscardHandler),
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(g)
	}
	return g, nil
}

// Threshold returns the configured threshold.
func (g *Gate) Threshold() int { return g.threshold }

// IsSyncDue reports whether the unsynced count has reached the threshold.
func (g *Gate) IsSyncDue() (bool, error) {
	n, err := g.store.CountUnsynced()
	if err != nil {
		return false, err
	}
	return n >= g.threshold, nil
}

// Subscribe registers fn to receive every raised Signal. Subscribers run
// synchronously on the goroutine that called Check.
func (g *Gate) Subscribe(fn func(Signal)) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.subscribers = append(g.subscribers, fn)
}

// Check queries the store and, when a sync is due, stamps a Signal with a
// fresh batch ID and delivers it to subscribers. The bool reports whether a
// signal was raised. When it was not, the returned Signal carries only the
// unsynced count the decision was made on.
func (g *Gate) Check() (Signal, bool, error) {
	n, err := g.store.CountUnsynced()
	if err != nil {
		g.metrics.StorageError("activity.count_unsynced")
		return Signal{}, false, err
	}
	due := n >= g.threshold
	g.metrics.SyncChecked(n, due)
	if !due {
		g.logger.Debug("sync not due", "unsynced", n, "threshold", g.threshold)
		return Signal{Unsynced: n}, false, nil
	}

	sig := Signal{BatchID: newBatchID(), Unsynced: n, RaisedAt: g.now()}
	g.logger.Info("batch sync due", "batch_id", sig.BatchID, "unsynced", n)

	g.mu.Lock()
	subs := append([]func(Signal){}, g.subscribers...)
	g.mu.Unlock()
	for _, fn := range subs {
		fn(sig)
	}
	return sig, true, nil
}

// newBatchID returns a time-ordered UUID v7 so a transport can de-duplicate
// and order batches.
func newBatchID() string {
	id, err := uuid.NewV7()
	if err != nil {
		return uuid.New().String()
	}
	return id.String()
}
