package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/puzzlelog/pkg/puzzlelog"
)

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the puzzlelog version",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			_, err := fmt.Fprintf(cmd.OutOrStdout(), "puzzlelog v%s\nmodule: %s\n", puzzlelog.Version, puzzlelog.ModulePath)
			return err
		},
	}
}
