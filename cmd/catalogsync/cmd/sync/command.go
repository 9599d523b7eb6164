package sync

import (
	"github.com/spf13/cobra"

	"github.com/maryline/catalogsync/cmd/application"
)

// NewCommand creates the sync command using app context.
func NewCommand(app application.Application) *cobra.Command {
	var flags *Flags

	cmd := &cobra.Command{
		Use:     "sync",
		GroupID: "core",
		Short:   "Mirror the KeyCRM catalog into Strapi",
		Args:    cobra.NoArgs,
		Long: `Sync reads categories, products, offers and stock from KeyCRM and creates
whatever Strapi does not have yet. Records that already exist are skipped,
so the command is safe to run repeatedly.

Categories are created parent first. Variants and stock are only created
for products that did not exist before the run.`,
		Example: `  catalogsync sync                          # Reconcile everything
  catalogsync sync --scope categories       # Categories only
  catalogsync sync --empty-stock create     # Record zero-quantity stock
  catalogsync sync -o json                  # Print the summary as JSON`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			opts, err := BuildSyncOptions(cmd, flags)
			if err != nil {
				return err
			}
			return ExecuteSync(cmd.Context(), app, cmd.OutOrStdout(), opts)
		},
	}

	flags = addSyncFlags(cmd)

	return cmd
}
