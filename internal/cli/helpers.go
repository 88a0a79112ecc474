// Shared helpers for puzzlelog commands.
package cli

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/mesh-intelligence/puzzlelog/internal/game"
	"github.com/mesh-intelligence/puzzlelog/internal/paths"
	"github.com/mesh-intelligence/puzzlelog/internal/puzzle"
	"github.com/mesh-intelligence/puzzlelog/internal/sqlite"
	"github.com/mesh-intelligence/puzzlelog/internal/syncgate"
	"github.com/mesh-intelligence/puzzlelog/pkg/types"
)

// attachBackend resolves the data directory and attaches a SQLite backend.
// The caller must defer backend.Detach().
func (a *app) attachBackend() (*sqlite.Backend, error) {
	dataDir, err := paths.ResolveDataDir(a.flags.dataDir, a.cfg.DataDir)
	if err != nil {
		return nil, fmt.Errorf("resolve data dir: %w", err)
	}

	backend := sqlite.NewBackend()
	if err := backend.Attach(types.Config{Backend: a.cfg.Backend, DataDir: dataDir}); err != nil {
		return nil, fmt.Errorf("attach backend: %w", err)
	}
	a.logger.Debug("backend attached", "data_dir", dataDir)
	return backend, nil
}

// newGate builds the sync gate over the backend's activity table.
func (a *app) newGate(backend *sqlite.Backend) (*syncgate.Gate, error) {
	return syncgate.New(backend.Activity(), a.cfg.SyncThreshold,
		syncgate.WithLogger(a.logger),
		syncgate.WithMetrics(a.metrics),
		syncgate.WithClock(a.now),
	)
}

// newSession builds a game session over an attached backend.
func (a *app) newSession(backend *sqlite.Backend) (*game.Session, error) {
	targets, err := puzzle.New(a.cfg.TargetStrategy, a.cfg.Guess)
	if err != nil {
		return nil, err
	}
	gate, err := a.newGate(backend)
	if err != nil {
		return nil, err
	}
	return game.New(game.Config{
		Store:    backend.Activity(),
		Ledger:   backend.Scores(),
		Gate:     gate,
		Targets:  puzzle.Pinned{Source: targets, Pins: backend.Targets(), Logger: a.logger},
		Range:    a.cfg.Guess,
		Identity: &types.Identity{DisplayName: a.cfg.PlayerName},
		Clock:    a.now,
		Logger:   a.logger,
		Metrics:  a.metrics,
	})
}

// printJSON writes v as indented JSON.
func printJSON(w io.Writer, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal output: %w", err)
	}
	_, err = fmt.Fprintln(w, string(data))
	return err
}
