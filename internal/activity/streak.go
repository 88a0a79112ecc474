package activity

import (
	"sort"
	"time"

	"github.com/mesh-intelligence/puzzlelog/pkg/types"
)

// Streak counts consecutive solved days ending at and including today.
// An unsolved today yields 0: the streak must be kept alive every day.
func Streak(s Snapshot, today time.Time) int {
	day := calendarDay(today)
	count := 0
	for s.Solved(types.FormatDate(day)) {
		count++
		day = day.AddDate(0, 0, -1)
	}
	return count
}

// Longest returns the longest run of consecutive solved days anywhere in
// the snapshot.
func Longest(s Snapshot) int {
	var days []time.Time
	for date, r := range s {
		if !r.Solved {
			continue
		}
		d, err := types.ParseDate(date)
		if err != nil {
			continue
		}
		days = append(days, d)
	}
	if len(days) == 0 {
		return 0
	}
	sort.Slice(days, func(i, j int) bool { return days[i].Before(days[j]) })

	longest, run := 1, 1
	for i := 1; i < len(days); i++ {
		if days[i].Equal(days[i-1].AddDate(0, 0, 1)) {
			run++
		} else {
			run = 1
		}
		longest = max(longest, run)
	}
	return longest
}

// calendarDay returns midnight UTC of t's calendar date in t's location, so
// day arithmetic is free of DST shifts.
func calendarDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
