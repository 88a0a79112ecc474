package sqlite

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/mesh-intelligence/puzzlelog/pkg/types"
)

// activityTable implements types.ActivityStore over the dailyActivity table.
type activityTable struct {
	backend *Backend
}

const activityColumns = "date, solved, score, timeTaken, difficulty, synced"

// Get returns the record for date. Returns ErrInvalidDate for a malformed
// key and ErrNotFound when no record exists.
func (at *activityTable) Get(date string) (*types.ActivityRecord, error) {
	if _, err := types.ParseDate(date); err != nil {
		return nil, err
	}

	at.backend.mu.RLock()
	defer at.backend.mu.RUnlock()
	if err := at.backend.checkAttached(); err != nil {
		return nil, err
	}

	row := at.backend.db.QueryRow(
		"SELECT "+activityColumns+" FROM dailyActivity WHERE date = ?", date)
	rec, err := scanActivity(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, types.ErrNotFound
	}
	if err != nil {
		return nil, unavailable(fmt.Errorf("getting activity %s: %w", date, err))
	}
	return rec, nil
}

// Put upserts the record keyed by its date. The row is committed when Put
// returns nil.
func (at *activityTable) Put(record *types.ActivityRecord) error {
	if record == nil {
		return types.ErrInvalidData
	}
	if err := record.Validate(); err != nil {
		return err
	}

	at.backend.mu.Lock()
	defer at.backend.mu.Unlock()
	if err := at.backend.checkAttached(); err != nil {
		return err
	}

	_, err := at.backend.db.Exec(`
		INSERT INTO dailyActivity (`+activityColumns+`)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(date) DO UPDATE SET
			solved = excluded.solved,
			score = excluded.score,
			timeTaken = excluded.timeTaken,
			difficulty = excluded.difficulty,
			synced = excluded.synced`,
		record.Date, record.Solved, record.Score, record.TimeTaken, record.Difficulty, record.Synced)
	if err != nil {
		return unavailable(fmt.Errorf("upserting activity %s: %w", record.Date, err))
	}
	return nil
}

// All returns every record ordered by date.
func (at *activityTable) All() ([]types.ActivityRecord, error) {
	at.backend.mu.RLock()
	defer at.backend.mu.RUnlock()
	if err := at.backend.checkAttached(); err != nil {
		return nil, err
	}

	rows, err := at.backend.db.Query(
		"SELECT " + activityColumns + " FROM dailyActivity ORDER BY date")
	if err != nil {
		return nil, unavailable(fmt.Errorf("listing activity: %w", err))
	}
	defer rows.Close()

	var records []types.ActivityRecord
	for rows.Next() {
		rec, err := scanActivity(rows)
		if err != nil {
			return nil, unavailable(fmt.Errorf("scanning activity: %w", err))
		}
		records = append(records, *rec)
	}
	if err := rows.Err(); err != nil {
		return nil, unavailable(fmt.Errorf("listing activity: %w", err))
	}
	return records, nil
}

// CountUnsynced returns the number of records not yet sent to a remote store.
func (at *activityTable) CountUnsynced() (int, error) {
	at.backend.mu.RLock()
	defer at.backend.mu.RUnlock()
	if err := at.backend.checkAttached(); err != nil {
		return 0, err
	}

	var n int
	if err := at.backend.db.QueryRow(
		"SELECT COUNT(*) FROM dailyActivity WHERE synced = 0").Scan(&n); err != nil {
		return 0, unavailable(fmt.Errorf("counting unsynced activity: %w", err))
	}
	return n, nil
}

// rowScanner is satisfied by *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

func scanActivity(s rowScanner) (*types.ActivityRecord, error) {
	var rec types.ActivityRecord
	if err := s.Scan(&rec.Date, &rec.Solved, &rec.Score, &rec.TimeTaken, &rec.Difficulty, &rec.Synced); err != nil {
		return nil, err
	}
	return &rec, nil
}
