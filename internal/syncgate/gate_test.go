package syncgate

import (
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mesh-intelligence/puzzlelog/internal/observability"
	"github.com/mesh-intelligence/puzzlelog/pkg/types"
)

type fakeCounter struct {
	n   int
	err error
}

func (f *fakeCounter) CountUnsynced() (int, error) { return f.n, f.err }

func TestNewRejectsNonPositiveThreshold(t *testing.T) {
	_, err := New(&fakeCounter{}, 0)
	assert.ErrorIs(t, err, types.ErrThresholdInvalid)
	_, err = New(&fakeCounter{}, -1)
	assert.ErrorIs(t, err, types.ErrThresholdInvalid)
}

func TestIsSyncDue(t *testing.T) {
	tests := []struct {
		unsynced int
		want     bool
	}{
		{0, false},
		{4, false},
		{5, true},
		{6, true},
	}
	for _, tt := range tests {
		g, err := New(&fakeCounter{n: tt.unsynced}, DefaultThreshold)
		require.NoError(t, err)
		due, err := g.IsSyncDue()
		require.NoError(t, err)
		assert.Equal(t, tt.want, due, "unsynced=%d", tt.unsynced)
	}
}

func TestCheckRaisesSignalToSubscribers(t *testing.T) {
	counter := &fakeCounter{n: 4}
	at := time.Date(2024, 3, 10, 12, 0, 0, 0, time.UTC)
	m := observability.NewMetrics()
	g, err := New(counter, DefaultThreshold, WithClock(func() time.Time { return at }), WithMetrics(m))
	require.NoError(t, err)

	var got []Signal
	g.Subscribe(func(s Signal) { got = append(got, s) })

	sig, raised, err := g.Check()
	require.NoError(t, err)
	assert.False(t, raised)
	assert.Empty(t, got)
	assert.Equal(t, Signal{Unsynced: 4}, sig, "a quiet check reports only the count")

	counter.n = 5
	sig, raised, err = g.Check()
	require.NoError(t, err)
	require.True(t, raised)
	require.Len(t, got, 1)
	assert.Equal(t, sig, got[0])
	assert.Equal(t, 5, sig.Unsynced)
	assert.Equal(t, at, sig.RaisedAt)

	id, err := uuid.Parse(sig.BatchID)
	require.NoError(t, err)
	assert.Equal(t, uuid.Version(7), id.Version())

	// The gate never clears flags, so the next check raises again with a new batch.
	sig2, raised, err := g.Check()
	require.NoError(t, err)
	assert.True(t, raised)
	assert.NotEqual(t, sig.BatchID, sig2.BatchID)
}

func TestCheckPropagatesStorageErrors(t *testing.T) {
	boom := errors.New("disk gone")
	g, err := New(&fakeCounter{err: boom}, DefaultThreshold)
	require.NoError(t, err)

	called := false
	g.Subscribe(func(Signal) { called = true })

	_, raised, err := g.Check()
	assert.ErrorIs(t, err, boom)
	assert.False(t, raised)
	assert.False(t, called)

	_, err = g.IsSyncDue()
	assert.ErrorIs(t, err, boom)
}
