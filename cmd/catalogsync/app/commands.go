package app

import (
	"github.com/spf13/cobra"

	"github.com/maryline/catalogsync/cmd/catalogsync/cmd/runs"
	"github.com/maryline/catalogsync/cmd/catalogsync/cmd/sync"
	"github.com/maryline/catalogsync/cmd/catalogsync/cmd/version"
)

// NewSyncCommand creates the sync command with app dependencies.
func (a *App) NewSyncCommand() *cobra.Command {
	return sync.NewCommand(a)
}

// NewRunsCommand creates the runs command with app dependencies.
func (a *App) NewRunsCommand() *cobra.Command {
	return runs.NewCommand(a)
}

// NewVersionCommand creates the version command with app dependencies.
func (a *App) NewVersionCommand() *cobra.Command {
	return version.NewCommand(a)
}
