// Package cli implements the puzzlelog command-line interface.
package cli

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/puzzlelog/internal/observability"
	"github.com/mesh-intelligence/puzzlelog/internal/paths"
	"github.com/mesh-intelligence/puzzlelog/pkg/puzzlelog"
	"github.com/mesh-intelligence/puzzlelog/pkg/types"
)

// Exit codes.
const (
	exitSuccess   = 0
	exitUserError = 1
	exitSysError  = 2
)

// rootFlags holds global flag values.
type rootFlags struct {
	configDir string
	dataDir   string
	jsonMode  bool
	verbose   bool
	noColor   bool
}

// app carries the state shared by every subcommand of one invocation.
type app struct {
	flags   rootFlags
	now     func() time.Time
	stderr  io.Writer
	cfg     settings
	logger  *slog.Logger
	metrics *observability.Metrics
}

// NewRootCmd creates the top-level "puzzlelog" command with global flags
// and all subcommands registered.
func NewRootCmd() *cobra.Command {
	return newRootCmd(&app{now: time.Now, stderr: os.Stderr})
}

func newRootCmd(a *app) *cobra.Command {
	root := &cobra.Command{
		Use:     "puzzlelog",
		Short:   "Daily number puzzle with a local activity log",
		Long:    "puzzlelog runs a daily guess-the-number puzzle and keeps a local log of\nsolved days, best scores, streaks and a yearly heatmap.",
		Version: puzzlelog.Version,

		SilenceUsage:  true,
		SilenceErrors: true,

		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if cmd.Name() == "version" {
				return nil
			}
			return a.setup()
		},
		PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
			if err := a.metrics.WriteTextfile(a.cfg.MetricsTextfile); err != nil {
				a.logger.Warn("metrics textfile not written", "path", a.cfg.MetricsTextfile, "error", err)
			}
			return nil
		},
	}

	pf := root.PersistentFlags()
	pf.StringVar(&a.flags.configDir, "config-dir", "", "configuration directory (default: platform config dir)")
	pf.StringVar(&a.flags.dataDir, "data-dir", "", "data directory (default: $(CWD)/.puzzlelog-db)")
	pf.BoolVar(&a.flags.jsonMode, "json", false, "output as JSON")
	pf.BoolVarP(&a.flags.verbose, "verbose", "v", false, "log debug output to stderr")
	pf.BoolVar(&a.flags.noColor, "no-color", false, "disable colored output")

	root.AddCommand(
		newVersionCmd(),
		newInitCmd(a),
		newPlayCmd(a),
		newGuessCmd(a),
		newStreakCmd(a),
		newHeatmapCmd(a),
		newScoreCmd(a),
		newSyncCmd(a),
		newExportCmd(a),
		newImportCmd(a),
	)
	return root
}

// Execute runs the root command and returns the process exit code.
func Execute() int {
	err := NewRootCmd().Execute()
	if err != nil {
		fmt.Fprintln(os.Stderr, "puzzlelog:", err)
	}
	return exitCode(err)
}

// exitCode maps an error to exit code 0, 1 or 2. Storage failures are system
// errors; everything else a caller can fix is a user error.
func exitCode(err error) int {
	switch {
	case err == nil:
		return exitSuccess
	case errors.Is(err, types.ErrStorageUnavailable):
		return exitSysError
	default:
		return exitUserError
	}
}

// setup loads configuration, then builds the logger and metrics.
func (a *app) setup() error {
	configDir, err := paths.ResolveConfigDir(a.flags.configDir)
	if err != nil {
		return fmt.Errorf("resolve config dir: %w", err)
	}
	v, err := loadConfig(configDir)
	if err != nil {
		return err
	}
	if a.cfg, err = decodeSettings(v); err != nil {
		return err
	}

	level := a.cfg.LogLevel
	if a.flags.verbose {
		level = slog.LevelDebug
	}
	a.logger = slog.New(slog.NewTextHandler(a.stderr, &slog.HandlerOptions{Level: level}))
	a.metrics = observability.NewMetrics()
	a.logger.Debug("config loaded", "config_dir", configDir, "backend", a.cfg.Backend)
	return nil
}
