package sqlite

import (
	"fmt"

	"github.com/mesh-intelligence/puzzlelog/pkg/types"
)

// targetsTable implements types.TargetLedger.
type targetsTable struct {
	backend *Backend
}

// Pin inserts {date, value} if date has no target yet and returns whichever
// value is stored. Another process may win the insert; its value is returned.
func (tt *targetsTable) Pin(date string, value int) (int, error) {
	if _, err := types.ParseDate(date); err != nil {
		return 0, err
	}

	tt.backend.mu.Lock()
	defer tt.backend.mu.Unlock()
	if err := tt.backend.checkAttached(); err != nil {
		return 0, err
	}

	if _, err := tt.backend.db.Exec(
		"INSERT INTO targets (date, value) VALUES (?, ?) ON CONFLICT(date) DO NOTHING",
		date, value); err != nil {
		return 0, unavailable(fmt.Errorf("pinning target %s: %w", date, err))
	}
	var pinned int
	if err := tt.backend.db.QueryRow("SELECT value FROM targets WHERE date = ?", date).Scan(&pinned); err != nil {
		return 0, unavailable(fmt.Errorf("reading target %s: %w", date, err))
	}
	return pinned, nil
}
