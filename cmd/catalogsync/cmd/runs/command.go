// Package runs provides the runs command implementation.
package runs

import (
	"github.com/spf13/cobra"

	"github.com/maryline/catalogsync/cmd/application"
	"github.com/maryline/catalogsync/internal/cmd/output"
)

const defaultLimit = 20

// NewCommand creates the runs command using app context.
func NewCommand(app application.Application) *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:     "runs",
		GroupID: "core",
		Short:   "List recorded sync runs",
		Args:    cobra.NoArgs,
		Long: `Runs lists past sync runs recorded in the history database, newest first,
with their scope, timing, status and totals.`,
		Example: `  catalogsync runs                          # Last 20 runs
  catalogsync runs --limit 5 -o yaml        # Last 5 runs as YAML`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			store, err := app.History()
			if err != nil {
				return err
			}
			defer store.Close()

			runs, err := store.List(cmd.Context(), limit)
			if err != nil {
				return err
			}
			return output.WriteRuns(cmd.OutOrStdout(), output.DetectFormat(app.OutputFormat()), runs)
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "n", defaultLimit, "maximum number of runs to show")

	return cmd
}
