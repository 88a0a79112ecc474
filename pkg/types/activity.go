package types

import (
	"fmt"
	"time"
)

// DateLayout is the ISO calendar date format used as the activity key.
const DateLayout = "2006-01-02"

// DefaultDifficulty is written on every record until difficulty levels exist.
const DefaultDifficulty = 1

// ActivityRecord is one day's puzzle-attempt outcome. Date is the natural
// key; at most one record exists per date.
type ActivityRecord struct {
	Date       string `json:"date"`
	Solved     bool   `json:"solved"`
	Score      int    `json:"score"`
	TimeTaken  int    `json:"timeTaken"`
	Difficulty int    `json:"difficulty"`
	Synced     bool   `json:"synced"`
}

// Validate checks the record before it is written. The date must parse as
// YYYY-MM-DD and numeric fields must not be negative.
func (r *ActivityRecord) Validate() error {
	if _, err := ParseDate(r.Date); err != nil {
		return err
	}
	if r.Score < 0 {
		return fmt.Errorf("%w: score %d is negative", ErrInvalidData, r.Score)
	}
	if r.TimeTaken < 0 {
		return fmt.Errorf("%w: timeTaken %d is negative", ErrInvalidData, r.TimeTaken)
	}
	return nil
}

// ScoreEntry records a new personal best.
type ScoreEntry struct {
	ID    int64  `json:"id"`
	Date  string `json:"date"`
	Value int    `json:"value"`
}

// ParseDate parses an ISO calendar date. The result is midnight UTC.
func ParseDate(s string) (time.Time, error) {
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %q", ErrInvalidDate, s)
	}
	return t, nil
}

// FormatDate returns the calendar date of t in t's own location.
func FormatDate(t time.Time) string {
	return t.Format(DateLayout)
}
