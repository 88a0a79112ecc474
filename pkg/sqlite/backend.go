// Package sqlite is the public entry point to the SQLite storage backend.
// The implementation lives in internal/sqlite.
package sqlite

import (
	"github.com/mesh-intelligence/puzzlelog/internal/sqlite"
	"github.com/mesh-intelligence/puzzlelog/pkg/types"
)

// NewBackend returns an unattached SQLite backend.
//
// Example:
//
//	storage := sqlite.NewBackend()
//	err := storage.Attach(types.Config{
//	    Backend: types.BackendSQLite,
//	    DataDir: ".puzzlelog-db",
//	})
//	defer storage.Detach()
//	best, err := storage.Scores().CurrentHighScore()
func NewBackend() types.Storage {
	return sqlite.NewBackend()
}
