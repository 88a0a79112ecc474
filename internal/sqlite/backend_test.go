package sqlite

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mesh-intelligence/puzzlelog/pkg/types"
)

// newAttachedBackend returns a backend attached to a fresh temp directory
// and detached when the test ends.
func newAttachedBackend(t *testing.T) (*Backend, string) {
	t.Helper()
	dir := t.TempDir()
	b := NewBackend()
	require.NoError(t, b.Attach(types.Config{Backend: types.BackendSQLite, DataDir: dir}))
	t.Cleanup(func() { _ = b.Detach() })
	return b, dir
}

func TestBackend_Attach(t *testing.T) {
	tmpDir := t.TempDir()
	dataDir := filepath.Join(tmpDir, "nested", "db")

	b := NewBackend()
	config := types.Config{Backend: types.BackendSQLite, DataDir: dataDir}

	require.NoError(t, b.Attach(config))
	defer b.Detach()

	_, err := os.Stat(filepath.Join(dataDir, DBFileName))
	assert.NoError(t, err, "database file should be created")
	assert.Equal(t, dataDir, b.DataDir())

	err = b.Attach(config)
	assert.ErrorIs(t, err, types.ErrAlreadyAttached)
}

func TestBackend_AttachRejectsInvalidConfig(t *testing.T) {
	b := NewBackend()
	assert.ErrorIs(t, b.Attach(types.Config{DataDir: t.TempDir()}), types.ErrBackendEmpty)
	assert.ErrorIs(t, b.Attach(types.Config{Backend: "indexeddb", DataDir: t.TempDir()}), types.ErrBackendUnknown)
}

func TestBackend_AttachUnwritableDataDir(t *testing.T) {
	tmpDir := t.TempDir()
	blocker := filepath.Join(tmpDir, "file")
	require.NoError(t, os.WriteFile(blocker, []byte("x"), 0o644))

	b := NewBackend()
	err := b.Attach(types.Config{Backend: types.BackendSQLite, DataDir: filepath.Join(blocker, "db")})
	assert.ErrorIs(t, err, types.ErrStorageUnavailable)
}

func TestBackend_Detach(t *testing.T) {
	b := NewBackend()
	require.NoError(t, b.Attach(types.Config{Backend: types.BackendSQLite, DataDir: t.TempDir()}))

	require.NoError(t, b.Detach())
	assert.NoError(t, b.Detach(), "second Detach should be a no-op")

	_, err := b.Activity().All()
	assert.ErrorIs(t, err, types.ErrStorageUnavailable)
	assert.ErrorIs(t, err, types.ErrDetached)

	_, err = b.Scores().CurrentHighScore()
	assert.ErrorIs(t, err, types.ErrStorageUnavailable)

	err = b.Activity().Put(&types.ActivityRecord{Date: "2024-03-10", Solved: true})
	assert.ErrorIs(t, err, types.ErrStorageUnavailable)
}

func TestBackend_OperationsBeforeAttach(t *testing.T) {
	b := NewBackend()

	_, err := b.Activity().CountUnsynced()
	assert.ErrorIs(t, err, types.ErrStorageUnavailable)

	_, err = b.Scores().RecordIfHigher("2024-03-10", 1)
	assert.ErrorIs(t, err, types.ErrStorageUnavailable)
}

func TestBackend_SurvivesReattach(t *testing.T) {
	dir := t.TempDir()
	config := types.Config{Backend: types.BackendSQLite, DataDir: dir}

	b := NewBackend()
	require.NoError(t, b.Attach(config))
	require.NoError(t, b.Activity().Put(&types.ActivityRecord{
		Date: "2024-03-10", Solved: true, Score: 1, Difficulty: types.DefaultDifficulty,
	}))
	recorded, err := b.Scores().RecordIfHigher("2024-03-10", 1)
	require.NoError(t, err)
	require.True(t, recorded)
	require.NoError(t, b.Detach())

	reopened := NewBackend()
	require.NoError(t, reopened.Attach(config))
	defer reopened.Detach()

	rec, err := reopened.Activity().Get("2024-03-10")
	require.NoError(t, err)
	assert.True(t, rec.Solved)
	assert.Equal(t, 1, rec.Score)

	high, err := reopened.Scores().CurrentHighScore()
	require.NoError(t, err)
	assert.Equal(t, 1, high)
}
