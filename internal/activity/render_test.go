package activity

import (
	"bytes"
	"strings"
	"testing"

	"github.com/sebdah/goldie/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mesh-intelligence/puzzlelog/pkg/types"
)

func goldenSnapshot() Snapshot {
	return NewSnapshot([]types.ActivityRecord{
		{Date: "2023-12-31", Solved: true, Score: 300},
		{Date: "2024-01-01", Solved: true, Score: 10},
		{Date: "2024-01-02", Solved: true, Score: 49},
		{Date: "2024-01-03", Solved: true, Score: 50},
		{Date: "2024-02-14", Solved: true, Score: 149},
		{Date: "2024-03-09", Solved: true, Score: 150},
		{Date: "2024-03-10", Solved: true, Score: 200},
		{Date: "2024-03-11", Solved: false},
		{Date: "2024-12-31", Solved: true, Score: 100},
	})
}

// Regenerate with: go test ./internal/activity -run TestRenderGolden -update
func TestRenderGolden(t *testing.T) {
	h := Project(goldenSnapshot(), 2024, day("2024-03-10"), DefaultThresholds)

	var buf bytes.Buffer
	require.NoError(t, Render(&buf, h, nil))

	g := goldie.New(t)
	g.Assert(t, "heatmap_2024", buf.Bytes())
}

func TestRenderStylerSeesEveryDatedCell(t *testing.T) {
	h := Project(goldenSnapshot(), 2024, day("2024-03-10"), DefaultThresholds)

	var seen, today, legend int
	style := func(c Cell, glyph string) string {
		switch {
		case c.Date == "":
			legend++
		case c.Today:
			today++
			seen++
			return "[" + glyph + "]"
		default:
			seen++
		}
		return glyph
	}

	var buf bytes.Buffer
	require.NoError(t, Render(&buf, h, style))

	assert.Equal(t, 366, seen)
	assert.Equal(t, 1, today)
	assert.Equal(t, MaxLevel+1, legend)
	assert.True(t, strings.Contains(buf.String(), "[#]"), "today's level 4 glyph is decorated")
}
