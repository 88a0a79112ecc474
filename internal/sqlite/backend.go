// Package sqlite implements the SQLite storage backend for the activity log.
// The database file in DataDir is the durable store; JSONL files are the
// export and import format.
package sqlite

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	_ "modernc.org/sqlite"

	"github.com/mesh-intelligence/puzzlelog/pkg/types"
)

// DBFileName is the SQLite database file created inside DataDir.
const DBFileName = "puzzlelog.db"

// Compile-time interface checks.
var (
	_ types.Storage       = (*Backend)(nil)
	_ types.ActivityStore = (*activityTable)(nil)
	_ types.ScoreLedger   = (*scoresTable)(nil)
	_ types.TargetLedger  = (*targetsTable)(nil)
)

// Backend implements types.Storage on a single SQLite database file.
// All table access goes through mu; writers take the exclusive lock so a
// read-then-write inside one call cannot interleave with another writer in
// the same process.
type Backend struct {
	mu       sync.RWMutex
	attached bool
	config   types.Config
	db       *sql.DB

	activity *activityTable
	scores   *scoresTable
	targets  *targetsTable
}

// NewBackend creates a new SQLite backend instance.
// The backend is not attached; call Attach with a Config to initialize.
func NewBackend() *Backend {
	b := &Backend{}
	b.activity = &activityTable{backend: b}
	b.scores = &scoresTable{backend: b}
	b.targets = &targetsTable{backend: b}
	return b
}

// Activity returns the daily activity table. The accessor stays valid across
// Attach and Detach; operations on a detached backend fail.
func (b *Backend) Activity() types.ActivityStore { return b.activity }

// Scores returns the best-score ledger.
func (b *Backend) Scores() types.ScoreLedger { return b.scores }

// Targets returns the per-date target pins.
func (b *Backend) Targets() types.TargetLedger { return b.targets }

// Attach opens (or creates) the database in config.DataDir and applies the
// schema. Returns ErrAlreadyAttached if already attached.
func (b *Backend) Attach(config types.Config) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.attached {
		return types.ErrAlreadyAttached
	}

	if err := config.Validate(); err != nil {
		return err
	}

	dataDir := config.DataDir
	if dataDir == "" {
		dataDir = "."
	}
	if err := os.MkdirAll(dataDir, 0o755); err != nil {
		return unavailable(fmt.Errorf("creating data dir: %w", err))
	}

	db, err := sql.Open("sqlite", filepath.Join(dataDir, DBFileName))
	if err != nil {
		return unavailable(fmt.Errorf("opening database: %w", err))
	}

	// SQLite allows one writer; a single connection also keeps the pragmas
	// below in effect for every statement.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	if err := db.Ping(); err != nil {
		db.Close()
		return unavailable(fmt.Errorf("connecting to database: %w", err))
	}
	if err := applyPragmas(db); err != nil {
		db.Close()
		return unavailable(err)
	}
	if err := applySchema(db); err != nil {
		db.Close()
		return unavailable(err)
	}

	b.db = db
	b.config = config
	b.attached = true
	return nil
}

// Detach closes the database. Detach is idempotent.
func (b *Backend) Detach() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if !b.attached {
		return nil
	}

	b.attached = false
	db := b.db
	b.db = nil
	if err := db.Close(); err != nil {
		return unavailable(fmt.Errorf("closing database: %w", err))
	}
	return nil
}

// DataDir returns the directory the backend is attached to.
func (b *Backend) DataDir() string {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.config.DataDir
}

// checkAttached returns a StorageUnavailable error when the backend is not
// attached. The caller must hold b.mu.
func (b *Backend) checkAttached() error {
	if !b.attached {
		return unavailable(types.ErrDetached)
	}
	return nil
}

// unavailable marks err as a StorageUnavailable failure while keeping the
// underlying cause matchable with errors.Is.
func unavailable(err error) error {
	return fmt.Errorf("%w: %w", types.ErrStorageUnavailable, err)
}

func applyPragmas(db *sql.DB) error {
	pragmas := []string{
		"PRAGMA journal_mode = WAL",
		"PRAGMA synchronous = FULL",
		"PRAGMA busy_timeout = 5000",
	}
	for _, p := range pragmas {
		if _, err := db.Exec(p); err != nil {
			return fmt.Errorf("applying %q: %w", p, err)
		}
	}
	return nil
}

func applySchema(db *sql.DB) error {
	for _, stmt := range schemaDDL {
		if _, err := db.Exec(stmt); err != nil {
			return fmt.Errorf("creating schema: %w", err)
		}
	}
	for _, stmt := range indexDDL {
		if _, err := db.Exec(stmt); err != nil {
			return fmt.Errorf("creating index: %w", err)
		}
	}
	return nil
}
