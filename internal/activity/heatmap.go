package activity

import (
	"fmt"
	"time"

	"github.com/mesh-intelligence/puzzlelog/pkg/types"
)

// MaxLevel is the highest heatmap intensity.
const MaxLevel = 4

// Thresholds are the score boundaries at which a solved day reaches levels
// 2, 3 and 4. Below the first boundary a solved day is level 1.
type Thresholds [3]int

// DefaultThresholds maps scores <50, <100, <150 and >=150 to levels 1..4.
var DefaultThresholds = Thresholds{50, 100, 150}

// Validate requires positive, strictly increasing boundaries.
func (th Thresholds) Validate() error {
	prev := 0
	for _, v := range th {
		if v <= prev {
			return fmt.Errorf("%w: heatmap thresholds %v must be positive and increasing", types.ErrThresholdInvalid, th)
		}
		prev = v
	}
	return nil
}

// Level maps a record to its intensity. Absent and unsolved days are 0; a
// negative score on a solved day is read as 0.
func (th Thresholds) Level(r types.ActivityRecord, ok bool) int {
	if !ok || !r.Solved {
		return 0
	}
	score := max(r.Score, 0)
	level := 1
	for _, boundary := range th {
		if score >= boundary {
			level++
		}
	}
	return level
}

// Cell is one heatmap slot. Padding cells fill the first and last week and
// carry no date.
type Cell struct {
	Date    string `json:"date,omitempty"`
	Level   int    `json:"level"`
	Score   int    `json:"score"`
	Solved  bool   `json:"solved"`
	Today   bool   `json:"today,omitempty"`
	Padding bool   `json:"padding,omitempty"`
}

// Week is a column of seven cells, Sunday first.
type Week [7]Cell

// Heatmap is the calendar-grid projection of one year.
type Heatmap struct {
	Year       int        `json:"year"`
	Weeks      []Week     `json:"weeks"`
	SolvedDays int        `json:"solvedDays"`
	Days       int        `json:"days"`
	Thresholds Thresholds `json:"thresholds"`
}

// Project builds the heatmap for year. Days run from January 1 to
// December 31 in week columns starting on Sunday; the first week is padded
// before January 1 and the last week after December 31. today marks the
// cell to highlight and may fall outside year.
func Project(s Snapshot, year int, today time.Time, th Thresholds) Heatmap {
	h := Heatmap{Year: year, Thresholds: th}
	todayKey := types.FormatDate(today)

	day := time.Date(year, time.January, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(year+1, time.January, 1, 0, 0, 0, 0, time.UTC)

	var week Week
	slot := int(day.Weekday())
	for i := range slot {
		week[i] = Cell{Padding: true}
	}

	for ; day.Before(end); day = day.AddDate(0, 0, 1) {
		key := types.FormatDate(day)
		r, ok := s[key]
		cell := Cell{
			Date:   key,
			Level:  th.Level(r, ok),
			Score:  max(r.Score, 0),
			Solved: ok && r.Solved,
			Today:  key == todayKey,
		}
		if cell.Solved {
			h.SolvedDays++
		}
		h.Days++

		week[slot] = cell
		slot++
		if slot == len(week) {
			h.Weeks = append(h.Weeks, week)
			week = Week{}
			slot = 0
		}
	}

	if slot > 0 {
		for i := slot; i < len(week); i++ {
			week[i] = Cell{Padding: true}
		}
		h.Weeks = append(h.Weeks, week)
	}
	return h
}
