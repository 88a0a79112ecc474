package sqlite

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/mesh-intelligence/puzzlelog/pkg/types"
)

// scoresTable implements types.ScoreLedger over the append-only scores table.
type scoresTable struct {
	backend *Backend
}

// CurrentHighScore returns the last value in ascending value order, or 0
// when the ledger is empty.
func (st *scoresTable) CurrentHighScore() (int, error) {
	st.backend.mu.RLock()
	defer st.backend.mu.RUnlock()
	if err := st.backend.checkAttached(); err != nil {
		return 0, err
	}

	var value int
	err := st.backend.db.QueryRow(
		"SELECT value FROM scores ORDER BY value DESC, id DESC LIMIT 1").Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, nil
	}
	if err != nil {
		return 0, unavailable(fmt.Errorf("reading high score: %w", err))
	}
	return value, nil
}

// RecordIfHigher appends {date, value} only when value beats the persisted
// maximum. The comparison runs inside the INSERT, so two writers sharing the
// database file cannot both record the same new best.
func (st *scoresTable) RecordIfHigher(date string, value int) (bool, error) {
	if _, err := types.ParseDate(date); err != nil {
		return false, err
	}

	st.backend.mu.Lock()
	defer st.backend.mu.Unlock()
	if err := st.backend.checkAttached(); err != nil {
		return false, err
	}

	res, err := st.backend.db.Exec(`
		INSERT INTO scores (date, value)
		SELECT ?, ?
		WHERE ? > (SELECT COALESCE(MAX(value), 0) FROM scores)`,
		date, value, value)
	if err != nil {
		return false, unavailable(fmt.Errorf("recording score: %w", err))
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, unavailable(fmt.Errorf("recording score: %w", err))
	}
	return n == 1, nil
}

// Entries returns every entry in ascending value order.
func (st *scoresTable) Entries() ([]types.ScoreEntry, error) {
	st.backend.mu.RLock()
	defer st.backend.mu.RUnlock()
	if err := st.backend.checkAttached(); err != nil {
		return nil, err
	}

	rows, err := st.backend.db.Query("SELECT id, date, value FROM scores ORDER BY value, id")
	if err != nil {
		return nil, unavailable(fmt.Errorf("listing scores: %w", err))
	}
	defer rows.Close()

	var entries []types.ScoreEntry
	for rows.Next() {
		var e types.ScoreEntry
		if err := rows.Scan(&e.ID, &e.Date, &e.Value); err != nil {
			return nil, unavailable(fmt.Errorf("scanning score: %w", err))
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, unavailable(fmt.Errorf("listing scores: %w", err))
	}
	return entries, nil
}
