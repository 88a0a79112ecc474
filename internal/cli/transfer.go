// JSONL export and import commands.
package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/puzzlelog/internal/sqlite"
)

func newExportCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "export <dir>",
		Short: "Write the activity log and score ledger as JSONL files",
		Long: fmt.Sprintf(`Export writes %s and %s into dir.
Existing files are replaced atomically.`, sqlite.ActivityJSONL, sqlite.ScoresJSONL),
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			backend, err := a.attachBackend()
			if err != nil {
				return err
			}
			defer backend.Detach()

			if err := backend.Export(args[0]); err != nil {
				return err
			}
			if a.flags.jsonMode {
				return printJSON(cmd.OutOrStdout(), map[string]string{"exported": args[0]})
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Exported to", args[0])
			return nil
		},
	}
}

func newImportCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "import <dir>",
		Short: "Load JSONL files written by export",
		Long: `Import reads the files written by export in one transaction. Solved days
are never overwritten and score entries with known ids are skipped.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			backend, err := a.attachBackend()
			if err != nil {
				return err
			}
			defer backend.Detach()

			stats, err := backend.Import(args[0])
			if err != nil {
				return err
			}
			a.logger.Info("import finished", "dir", args[0], "activity", stats.Activity, "scores", stats.Scores, "skipped", stats.Skipped)
			if a.flags.jsonMode {
				return printJSON(cmd.OutOrStdout(), stats)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Imported %d activity record(s) and %d score entr(ies); skipped %d\n",
				stats.Activity, stats.Scores, stats.Skipped)
			return nil
		},
	}
}
