package activity

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/mesh-intelligence/puzzlelog/pkg/types"
)

// Glyphs indexed by level. Padding renders as a blank.
var glyphs = [MaxLevel + 1]string{".", "-", "+", "*", "#"}

var weekdayLabels = [7]string{"Sun", "Mon", "Tue", "Wed", "Thu", "Fri", "Sat"}

// labelWidth is the width of the weekday label column, separator included.
const labelWidth = 4

// Styler decorates the glyph drawn for a cell, e.g. with terminal colours.
// Legend entries are passed as cells with only Level set.
type Styler func(c Cell, glyph string) string

// Render writes h as a text grid: a month header, one row per weekday and
// one column per week, then a legend and a summary line. A nil style draws
// plain glyphs.
func Render(w io.Writer, h Heatmap, style Styler) error {
	if style == nil {
		style = func(_ Cell, glyph string) string { return glyph }
	}

	var b strings.Builder
	b.WriteString(strings.TrimRight(strings.Repeat(" ", labelWidth)+monthHeader(h), " "))
	b.WriteByte('\n')

	for row, label := range weekdayLabels {
		var line strings.Builder
		line.WriteString(label)
		line.WriteByte(' ')
		for _, week := range h.Weeks {
			c := week[row]
			if c.Padding {
				line.WriteString("  ")
				continue
			}
			line.WriteString(style(c, glyphs[c.Level]))
			line.WriteByte(' ')
		}
		b.WriteString(strings.TrimRight(line.String(), " "))
		b.WriteByte('\n')
	}

	b.WriteString("\nLess")
	for level, g := range glyphs {
		b.WriteByte(' ')
		b.WriteString(style(Cell{Level: level}, g))
	}
	b.WriteString(" More\n")
	fmt.Fprintf(&b, "%d: %d of %d days solved\n", h.Year, h.SolvedDays, h.Days)

	_, err := io.WriteString(w, b.String())
	return err
}

// monthHeader places each month abbreviation above the week column holding
// the 1st of that month, dropping labels that would overlap the previous one.
func monthHeader(h Heatmap) string {
	header := []byte(strings.Repeat(" ", 2*len(h.Weeks)))
	next := 0
	for wi, week := range h.Weeks {
		for _, c := range week {
			if c.Padding || !strings.HasSuffix(c.Date, "-01") {
				continue
			}
			t, err := time.Parse(types.DateLayout, c.Date)
			if err != nil {
				continue
			}
			label := t.Month().String()[:3]
			pos := 2 * wi
			if pos < next || pos+len(label) > len(header) {
				continue
			}
			copy(header[pos:], label)
			next = pos + len(label) + 1
		}
	}
	return string(header)
}
