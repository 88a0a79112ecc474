// This file implements JSONL export and import of the activity log.
package sqlite

import (
	"cmp"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"slices"

	"github.com/mesh-intelligence/puzzlelog/pkg/types"
)

// ImportStats reports what Import applied.
type ImportStats struct {
	Activity int `json:"activity"` // activity rows inserted or updated
	Scores   int `json:"scores"`   // score entries inserted
	Skipped  int `json:"skipped"`  // malformed lines, invalid records and scores that are not a new best
}

// Export writes daily_activity.jsonl and scores.jsonl into dir, creating it
// if needed. Each file is replaced atomically.
func (b *Backend) Export(dir string) error {
	records, err := b.activity.All()
	if err != nil {
		return err
	}
	entries, err := b.scores.Entries()
	if err != nil {
		return err
	}

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating export dir: %w", err)
	}
	if err := writeJSONL(filepath.Join(dir, ActivityJSONL), records); err != nil {
		return fmt.Errorf("exporting %s: %w", ActivityJSONL, err)
	}
	if err := writeJSONL(filepath.Join(dir, ScoresJSONL), entries); err != nil {
		return fmt.Errorf("exporting %s: %w", ScoresJSONL, err)
	}
	return nil
}

// Import loads daily_activity.jsonl and scores.jsonl from dir in a single
// transaction: either every accepted record lands or none do. Malformed
// lines and invalid records are skipped. Unknown fields are ignored.
//
// Activity rows upsert by date, except that an already solved date is never
// overwritten. Score entries with a known id are ignored; the rest follow
// the ledger rule and are inserted only when they beat the current maximum,
// otherwise they count as skipped.
func (b *Backend) Import(dir string) (ImportStats, error) {
	var stats ImportStats

	records, skipped, err := readJSONL[types.ActivityRecord](filepath.Join(dir, ActivityJSONL))
	if err != nil {
		return stats, err
	}
	stats.Skipped += skipped

	entries, skipped, err := readJSONL[types.ScoreEntry](filepath.Join(dir, ScoresJSONL))
	if err != nil {
		return stats, err
	}
	stats.Skipped += skipped

	b.mu.Lock()
	defer b.mu.Unlock()
	if err := b.checkAttached(); err != nil {
		return stats, err
	}

	tx, err := b.db.Begin()
	if err != nil {
		return stats, unavailable(fmt.Errorf("beginning import transaction: %w", err))
	}
	defer tx.Rollback()

	for _, rec := range records {
		if rec.Validate() != nil {
			stats.Skipped++
			continue
		}
		res, err := tx.Exec(`
			INSERT INTO dailyActivity (`+activityColumns+`)
			VALUES (?, ?, ?, ?, ?, ?)
			ON CONFLICT(date) DO UPDATE SET
				solved = excluded.solved,
				score = excluded.score,
				timeTaken = excluded.timeTaken,
				difficulty = excluded.difficulty,
				synced = excluded.synced
			WHERE dailyActivity.solved = 0`,
			rec.Date, rec.Solved, rec.Score, rec.TimeTaken, rec.Difficulty, rec.Synced)
		if err != nil {
			return ImportStats{}, unavailable(fmt.Errorf("importing activity %s: %w", rec.Date, err))
		}
		if n, _ := res.RowsAffected(); n > 0 {
			stats.Activity++
		}
	}

	// Ascending order lets a run of increasing bests land in one import.
	slices.SortStableFunc(entries, func(a, b types.ScoreEntry) int { return cmp.Compare(a.Value, b.Value) })
	for _, e := range entries {
		if _, err := types.ParseDate(e.Date); err != nil || e.Value < 0 {
			stats.Skipped++
			continue
		}
		if e.ID > 0 {
			var exists int
			err := tx.QueryRow("SELECT COUNT(*) FROM scores WHERE id = ?", e.ID).Scan(&exists)
			if err != nil {
				return ImportStats{}, unavailable(fmt.Errorf("importing score %d: %w", e.ID, err))
			}
			if exists > 0 {
				continue
			}
		}
		inserted, err := insertIfHigher(tx, e)
		if err != nil {
			return ImportStats{}, unavailable(fmt.Errorf("importing score %d: %w", e.ID, err))
		}
		if inserted {
			stats.Scores++
		} else {
			stats.Skipped++
		}
	}

	if err := tx.Commit(); err != nil {
		return ImportStats{}, unavailable(fmt.Errorf("committing import: %w", err))
	}
	return stats, nil
}

// insertIfHigher applies the ledger's new-best rule to an imported entry,
// keeping its id when it has one.
func insertIfHigher(tx *sql.Tx, e types.ScoreEntry) (bool, error) {
	const newBest = "WHERE ? > (SELECT COALESCE(MAX(value), 0) FROM scores)"
	var (
		res sql.Result
		err error
	)
	if e.ID > 0 {
		res, err = tx.Exec("INSERT INTO scores (id, date, value) SELECT ?, ?, ? "+newBest, e.ID, e.Date, e.Value, e.Value)
	} else {
		res, err = tx.Exec("INSERT INTO scores (date, value) SELECT ?, ? "+newBest, e.Date, e.Value, e.Value)
	}
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	return n == 1, err
}
