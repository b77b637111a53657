package app

import (
	"github.com/spf13/cobra"

	"github.com/agentstation/refimport/cmd/refimport/cmd/add"
	"github.com/agentstation/refimport/cmd/refimport/cmd/inspect"
	"github.com/agentstation/refimport/cmd/refimport/cmd/scan"
	"github.com/agentstation/refimport/cmd/refimport/cmd/version"
)

// registerCommands registers all subcommands with the root command.
func (a *App) registerCommands(rootCmd *cobra.Command) {
	// Core commands
	rootCmd.AddCommand(add.NewCommand(a))
	rootCmd.AddCommand(scan.NewCommand(a))
	rootCmd.AddCommand(inspect.NewCommand(a))

	// Utility commands
	rootCmd.AddCommand(version.NewCommand(a))
}
