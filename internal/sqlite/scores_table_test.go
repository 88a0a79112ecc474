package sqlite

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mesh-intelligence/puzzlelog/pkg/types"
)

func TestScoresTable_EmptyLedger(t *testing.T) {
	b, _ := newAttachedBackend(t)

	high, err := b.Scores().CurrentHighScore()
	require.NoError(t, err)
	assert.Zero(t, high)

	entries, err := b.Scores().Entries()
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestScoresTable_RecordIfHigherIsMonotonic(t *testing.T) {
	b, _ := newAttachedBackend(t)
	ledger := b.Scores()

	values := []int{3, 1, 3, 7, 0, 5, 9, 2, 9}
	best := 0
	prev := 0
	for _, v := range values {
		recorded, err := ledger.RecordIfHigher("2024-03-10", v)
		require.NoError(t, err)
		assert.Equal(t, v > best, recorded, "value %d", v)
		if v > best {
			best = v
		}

		high, err := ledger.CurrentHighScore()
		require.NoError(t, err)
		assert.GreaterOrEqual(t, high, prev, "high score must not decrease")
		assert.Equal(t, best, high)
		prev = high
	}

	entries, err := ledger.Entries()
	require.NoError(t, err)
	var got []int
	for _, e := range entries {
		got = append(got, e.Value)
	}
	assert.Equal(t, []int{3, 7, 9}, got, "only new bests are appended")
}

func TestScoresTable_RecordIfHigherRejectsBadDate(t *testing.T) {
	b, _ := newAttachedBackend(t)

	recorded, err := b.Scores().RecordIfHigher("", 10)
	assert.ErrorIs(t, err, types.ErrInvalidDate)
	assert.False(t, recorded)
}

func TestScoresTable_ConcurrentRecordIfHigher(t *testing.T) {
	b, _ := newAttachedBackend(t)
	ledger := b.Scores()

	const writers = 8
	var wg sync.WaitGroup
	results := make([]bool, writers)
	for i := range writers {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			recorded, err := ledger.RecordIfHigher("2024-03-10", 1)
			assert.NoError(t, err)
			results[i] = recorded
		}(i)
	}
	wg.Wait()

	wins := 0
	for _, r := range results {
		if r {
			wins++
		}
	}
	assert.Equal(t, 1, wins, "exactly one writer records the same new best")

	entries, err := ledger.Entries()
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}
