// Read-only commands over the activity log.
package cli

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/puzzlelog/internal/activity"
	"github.com/mesh-intelligence/puzzlelog/pkg/types"
)

// loadSnapshot reads every activity record into a snapshot.
func (a *app) loadSnapshot() (activity.Snapshot, error) {
	backend, err := a.attachBackend()
	if err != nil {
		return nil, err
	}
	defer backend.Detach()

	records, err := backend.Activity().All()
	if err != nil {
		a.metrics.StorageError("activity.all")
		return nil, err
	}
	return activity.NewSnapshot(records), nil
}

func newStreakCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "streak",
		Short: "Show the current and longest streak of solved days",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			snap, err := a.loadSnapshot()
			if err != nil {
				return err
			}
			current := activity.Streak(snap, a.now())
			longest := activity.Longest(snap)

			if a.flags.jsonMode {
				return printJSON(cmd.OutOrStdout(), map[string]int{"current": current, "longest": longest})
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Current streak: %d day(s)\nLongest streak: %d day(s)\n", current, longest)
			return nil
		},
	}
}

// heatmapColors are GitHub-style greens indexed by level.
var heatmapColors = [activity.MaxLevel + 1]lipgloss.Color{"238", "22", "28", "34", "46"}

// heatmapStyler colours glyphs by level and underlines today. The renderer
// is bound to the command output so colour is dropped when it is not a
// terminal.
func heatmapStyler(cmd *cobra.Command) activity.Styler {
	r := lipgloss.NewRenderer(cmd.OutOrStdout())
	var styles [activity.MaxLevel + 1]lipgloss.Style
	for level, c := range heatmapColors {
		styles[level] = r.NewStyle().Foreground(c)
	}
	today := r.NewStyle().Bold(true).Underline(true)
	return func(c activity.Cell, glyph string) string {
		s := styles[c.Level]
		if c.Today {
			s = s.Inherit(today)
		}
		return s.Render(glyph)
	}
}

func newHeatmapCmd(a *app) *cobra.Command {
	var year int
	cmd := &cobra.Command{
		Use:   "heatmap",
		Short: "Show a calendar heatmap of solved days",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if year == 0 {
				year = a.now().Year()
			}
			if year < 1 || year > 9999 {
				return fmt.Errorf("%w: year %d", types.ErrInvalidDate, year)
			}
			snap, err := a.loadSnapshot()
			if err != nil {
				return err
			}
			h := activity.Project(snap, year, a.now(), a.cfg.Heatmap)

			if a.flags.jsonMode {
				return printJSON(cmd.OutOrStdout(), h)
			}
			var style activity.Styler
			if !a.flags.noColor {
				style = heatmapStyler(cmd)
			}
			return activity.Render(cmd.OutOrStdout(), h, style)
		},
	}
	cmd.Flags().IntVar(&year, "year", 0, "calendar year (default: current year)")
	return cmd
}

func newScoreCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "score",
		Short: "Show the high score and its history",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			backend, err := a.attachBackend()
			if err != nil {
				return err
			}
			defer backend.Detach()

			best, err := backend.Scores().CurrentHighScore()
			if err != nil {
				a.metrics.StorageError("scores.high")
				return err
			}
			entries, err := backend.Scores().Entries()
			if err != nil {
				a.metrics.StorageError("scores.entries")
				return err
			}
			a.metrics.HighScore(best)

			out := cmd.OutOrStdout()
			if a.flags.jsonMode {
				return printJSON(out, struct {
					HighScore int                `json:"highScore"`
					Entries   []types.ScoreEntry `json:"entries"`
				}{best, entries})
			}
			fmt.Fprintf(out, "High score: %d\n", best)
			for _, e := range entries {
				fmt.Fprintf(out, "  %s  %d\n", e.Date, e.Value)
			}
			return nil
		},
	}
}

func newSyncCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "sync",
		Short: "Check whether enough unsynced records have accumulated for a batch sync",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			backend, err := a.attachBackend()
			if err != nil {
				return err
			}
			defer backend.Detach()

			gate, err := a.newGate(backend)
			if err != nil {
				return err
			}
			sig, due, err := gate.Check()
			if err != nil {
				return err
			}
			unsynced := sig.Unsynced

			out := cmd.OutOrStdout()
			if a.flags.jsonMode {
				report := struct {
					Unsynced  int    `json:"unsynced"`
					Threshold int    `json:"threshold"`
					Due       bool   `json:"due"`
					BatchID   string `json:"batchId,omitempty"`
				}{unsynced, gate.Threshold(), due, sig.BatchID}
				return printJSON(out, report)
			}
			fmt.Fprintf(out, "Unsynced records: %d (threshold %d)\n", unsynced, gate.Threshold())
			if due {
				fmt.Fprintf(out, "Sync due: batch %s\n", sig.BatchID)
			} else {
				fmt.Fprintln(out, "Sync not due")
			}
			return nil
		},
	}
}
