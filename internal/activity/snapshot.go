// Package activity derives read-only views from the daily activity log:
// the current streak and the calendar heatmap. Every function here is pure
// over a Snapshot; none of them touch storage.
package activity

import "github.com/mesh-intelligence/puzzlelog/pkg/types"

// Snapshot indexes activity records by date. Build one per render with
// NewSnapshot; it is never updated in place.
type Snapshot map[string]types.ActivityRecord

// NewSnapshot indexes records by date. If records repeat a date the last
// one wins, matching the store's upsert semantics.
func NewSnapshot(records []types.ActivityRecord) Snapshot {
	s := make(Snapshot, len(records))
	for _, r := range records {
		s[r.Date] = r
	}
	return s
}

// Solved reports whether date has a solved record.
func (s Snapshot) Solved(date string) bool {
	r, ok := s[date]
	return ok && r.Solved
}
