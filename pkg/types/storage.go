package types

import "errors"

// Storage defines the lifecycle of the durable activity log. Callers attach
// to a backend, use the activity and score tables, and detach when done.
type Storage interface {
	// Attach connects the Storage to the backend described by config.
	// Creates the DataDir if it does not exist. Returns ErrAlreadyAttached
	// if called while already attached.
	Attach(config Config) error

	// Detach releases backend resources. Idempotent: multiple calls succeed.
	// After Detach, table operations return ErrDetached.
	Detach() error

	// Activity returns the daily activity table.
	Activity() ActivityStore

	// Scores returns the best-score ledger.
	Scores() ScoreLedger

	// Targets returns the per-date target pins.
	Targets() TargetLedger
}

// ActivityStore holds one ActivityRecord per calendar date.
type ActivityStore interface {
	// Get returns the record for date, or ErrNotFound.
	Get(date string) (*ActivityRecord, error)

	// Put upserts the record keyed by its Date. The write is durable when
	// Put returns nil.
	Put(record *ActivityRecord) error

	// All returns every stored record.
	All() ([]ActivityRecord, error)

	// CountUnsynced returns the number of records with Synced=false.
	CountUnsynced() (int, error)
}

// ScoreLedger is the append-only table of personal-best entries.
type ScoreLedger interface {
	// CurrentHighScore returns the largest recorded value, or 0 when empty.
	CurrentHighScore() (int, error)

	// RecordIfHigher appends an entry only when value exceeds the persisted
	// high score. The comparison and insert are one atomic operation.
	// Reports whether an entry was written.
	RecordIfHigher(date string, value int) (bool, error)

	// Entries returns all entries in ascending value order.
	Entries() ([]ScoreEntry, error)
}

// TargetLedger remembers the target drawn for each date so every session
// on that date plays against the same number.
type TargetLedger interface {
	// Pin stores value for date unless a value is already pinned, and
	// returns the pinned value. The first writer wins.
	Pin(date string, value int) (int, error)
}

// Storage lifecycle errors.
var (
	ErrDetached        = errors.New("storage is detached")
	ErrAlreadyAttached = errors.New("storage is already attached")
)
