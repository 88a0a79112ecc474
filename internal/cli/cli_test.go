package cli

import (
	"bytes"
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mesh-intelligence/puzzlelog/internal/game"
	"github.com/mesh-intelligence/puzzlelog/internal/puzzle"
	"github.com/mesh-intelligence/puzzlelog/internal/sqlite"
	"github.com/mesh-intelligence/puzzlelog/pkg/types"
)

// testEnv is an isolated config and data directory pair with a fixed clock.
type testEnv struct {
	t         *testing.T
	configDir string
	dataDir   string
	now       time.Time
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	for _, key := range []string{"PUZZLELOG_CONFIG_DIR", "PUZZLELOG_DATA_DIR", "PUZZLELOG_TARGET_STRATEGY", "PUZZLELOG_SYNC_THRESHOLD"} {
		t.Setenv(key, "")
	}
	root := t.TempDir()
	return &testEnv{
		t:         t,
		configDir: filepath.Join(root, "config"),
		dataDir:   filepath.Join(root, "data"),
		now:       time.Date(2024, time.March, 10, 9, 0, 0, 0, time.UTC),
	}
}

// run executes the CLI in-process and returns stdout and the exit code.
func (e *testEnv) run(stdin string, args ...string) (string, int) {
	e.t.Helper()
	a := &app{now: func() time.Time { return e.now }, stderr: io.Discard}
	cmd := newRootCmd(a)
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(io.Discard)
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetArgs(append([]string{"--config-dir", e.configDir, "--data-dir", e.dataDir, "--no-color"}, args...))
	err := cmd.Execute()
	return out.String(), exitCode(err)
}

// todayTarget is the daily target for the env's current date.
func (e *testEnv) todayTarget() int {
	return puzzle.Daily{Range: puzzle.DefaultRange()}.Target(types.FormatDate(e.now))
}

func (e *testEnv) wrongGuess() string {
	if e.todayTarget() == 1 {
		return "2"
	}
	return "1"
}

func TestInitWritesDefaultConfig(t *testing.T) {
	e := newTestEnv(t)
	out, code := e.run("", "init")
	require.Equal(t, exitSuccess, code, out)
	assert.Contains(t, out, "puzzlelog initialized")

	data, err := os.ReadFile(filepath.Join(e.configDir, configFileExt))
	require.NoError(t, err)
	assert.Contains(t, string(data), "threshold: 5")

	_, err = os.Stat(filepath.Join(e.dataDir, sqlite.DBFileName))
	assert.NoError(t, err)
}

func TestInitForceRewritesConfig(t *testing.T) {
	e := newTestEnv(t)
	_, code := e.run("", "init", "--force")
	require.Equal(t, exitSuccess, code)

	data, err := os.ReadFile(filepath.Join(e.configDir, configFileExt))
	require.NoError(t, err)
	assert.Contains(t, string(data), "data_dir: "+e.dataDir)
	assert.Contains(t, string(data), "thresholds: [50, 100, 150]")

	_, code = e.run("", "score")
	assert.Equal(t, exitSuccess, code, "rewritten config must load")
}

func TestVersion(t *testing.T) {
	e := newTestEnv(t)
	out, code := e.run("", "version")
	assert.Equal(t, exitSuccess, code)
	assert.Contains(t, out, "puzzlelog v")
}

func TestGuessFlow(t *testing.T) {
	e := newTestEnv(t)

	out, code := e.run("", "guess", e.wrongGuess())
	assert.Equal(t, exitSuccess, code)
	assert.Contains(t, out, "Wrong")

	out, code = e.run("", "--json", "guess", strconv.Itoa(e.todayTarget()))
	require.Equal(t, exitSuccess, code, out)
	var res game.Result
	require.NoError(t, json.Unmarshal([]byte(out), &res))
	assert.True(t, res.Correct)
	assert.Equal(t, 1, res.Score)
	assert.Equal(t, "2024-03-10", res.Date)

	_, code = e.run("", "guess", strconv.Itoa(e.todayTarget()))
	assert.Equal(t, exitUserError, code, "already solved today")

	out, code = e.run("", "--json", "streak")
	require.Equal(t, exitSuccess, code)
	assert.JSONEq(t, `{"current":1,"longest":1}`, out)
}

func TestGuessRejectsInvalidInput(t *testing.T) {
	e := newTestEnv(t)
	for _, in := range []string{"0", "11", "abc"} {
		_, code := e.run("", "guess", in)
		assert.Equal(t, exitUserError, code, in)
	}
}

func TestPlay(t *testing.T) {
	e := newTestEnv(t)
	stdin := strings.Join([]string{"abc", e.wrongGuess(), strconv.Itoa(e.todayTarget())}, "\n") + "\n"

	out, code := e.run(stdin, "play")
	require.Equal(t, exitSuccess, code, out)
	assert.Contains(t, out, "invalid input")
	assert.Contains(t, out, "Wrong! Try again.")
	assert.Contains(t, out, "Correct! Solved 2024-03-10 in 2 attempt(s)")
	assert.Contains(t, out, "New high score!")

	out, code = e.run("", "play")
	assert.Equal(t, exitSuccess, code)
	assert.Contains(t, out, "Already solved 2024-03-10")
}

func TestPlayEndOfInput(t *testing.T) {
	e := newTestEnv(t)
	out, code := e.run(e.wrongGuess()+"\n", "play")
	assert.Equal(t, exitSuccess, code)
	assert.Contains(t, out, "Wrong! Try again.")
}

func TestHeatmapAndScore(t *testing.T) {
	e := newTestEnv(t)
	_, code := e.run("", "guess", strconv.Itoa(e.todayTarget()))
	require.Equal(t, exitSuccess, code)

	out, code := e.run("", "heatmap", "--year", "2024")
	require.Equal(t, exitSuccess, code)
	assert.Contains(t, out, "2024: 1 of 366 days solved")
	assert.NotContains(t, out, "\x1b[", "--no-color draws plain glyphs")

	out, code = e.run("", "score")
	require.Equal(t, exitSuccess, code)
	assert.Contains(t, out, "High score: 1")
	assert.Contains(t, out, "2024-03-10  1")
}

func TestSyncReportsDue(t *testing.T) {
	e := newTestEnv(t)
	for i := range 5 {
		_, code := e.run("", "guess", strconv.Itoa(e.todayTarget()))
		require.Equal(t, exitSuccess, code, "day %d", i)
		e.now = e.now.AddDate(0, 0, 1)
	}

	out, code := e.run("", "--json", "sync")
	require.Equal(t, exitSuccess, code)
	var report struct {
		Unsynced int    `json:"unsynced"`
		Due      bool   `json:"due"`
		BatchID  string `json:"batchId"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &report))
	assert.Equal(t, 5, report.Unsynced)
	assert.True(t, report.Due)
	assert.NotEmpty(t, report.BatchID)

	out, code = e.run("", "--json", "streak")
	require.Equal(t, exitSuccess, code)
	assert.JSONEq(t, `{"current":0,"longest":5}`, out, "today is unsolved")
}

func TestExportImportRoundTrip(t *testing.T) {
	src := newTestEnv(t)
	_, code := src.run("", "guess", strconv.Itoa(src.todayTarget()))
	require.Equal(t, exitSuccess, code)

	dir := filepath.Join(t.TempDir(), "export")
	_, code = src.run("", "export", dir)
	require.Equal(t, exitSuccess, code)

	dst := newTestEnv(t)
	out, code := dst.run("", "--json", "import", dir)
	require.Equal(t, exitSuccess, code, out)
	assert.JSONEq(t, `{"activity":1,"scores":1,"skipped":0}`, out)

	_, code = dst.run("", "guess", strconv.Itoa(dst.todayTarget()))
	assert.Equal(t, exitUserError, code, "imported solve counts as already solved")
}

func TestInvalidConfigIsUserError(t *testing.T) {
	e := newTestEnv(t)
	require.NoError(t, os.MkdirAll(e.configDir, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(e.configDir, configFileExt), []byte("sync:\n  threshold: 0\n"), 0o644))

	_, code := e.run("", "streak")
	assert.Equal(t, exitUserError, code)
}

func TestEnvOverridesConfig(t *testing.T) {
	e := newTestEnv(t)
	t.Setenv("PUZZLELOG_SYNC_THRESHOLD", "1")
	_, code := e.run("", "guess", strconv.Itoa(e.todayTarget()))
	require.Equal(t, exitSuccess, code)

	out, code := e.run("", "--json", "sync")
	require.Equal(t, exitSuccess, code)
	assert.Contains(t, out, `"threshold": 1`)
	assert.Contains(t, out, `"due": true`)
}

func TestExitCode(t *testing.T) {
	assert.Equal(t, exitSuccess, exitCode(nil))
	assert.Equal(t, exitUserError, exitCode(types.ErrInvalidInput))
	assert.Equal(t, exitSysError, exitCode(types.ErrStorageUnavailable))
}

func TestSyncReportsNotDue(t *testing.T) {
	e := newTestEnv(t)
	_, code := e.run("", "guess", strconv.Itoa(e.todayTarget()))
	require.Equal(t, exitSuccess, code)

	out, code := e.run("", "--json", "sync")
	require.Equal(t, exitSuccess, code)
	assert.JSONEq(t, `{"unsynced":1,"threshold":5,"due":false}`, out)
}

func TestRandomTargetHoldsAcrossGuessCommands(t *testing.T) {
	e := newTestEnv(t)
	t.Setenv("PUZZLELOG_TARGET_STRATEGY", "random")

	out, code := e.run("", "--json", "guess", "5")
	require.Equal(t, exitSuccess, code, out)
	var first game.Result
	require.NoError(t, json.Unmarshal([]byte(out), &first))
	if first.Correct {
		return
	}

	b := sqlite.NewBackend()
	require.NoError(t, b.Attach(types.Config{Backend: types.BackendSQLite, DataDir: e.dataDir}))
	target, err := b.Targets().Pin("2024-03-10", 0)
	require.NoError(t, err)
	require.NoError(t, b.Detach())
	require.NotEqual(t, 5, target)

	out, code = e.run("", "--json", "guess", strconv.Itoa(target))
	require.Equal(t, exitSuccess, code, out)
	var second game.Result
	require.NoError(t, json.Unmarshal([]byte(out), &second))
	assert.True(t, second.Correct, "the number drawn by the first guess is still the target")
}
