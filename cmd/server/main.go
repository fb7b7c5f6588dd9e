package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

func main() {
	if err := newRootCommand().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func newRootCommand() *cobra.Command {
	serve := newServeCommand()

	rootCmd := &cobra.Command{
		Use:           "deskchat",
		Short:         "DeskChat - team chat and support ticket API",
		Long:          `DeskChat serves a shared chat log and a support ticket queue over a JSON HTTP API. Running it with no subcommand starts the server.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE:          serve.RunE,
	}

	rootCmd.AddCommand(
		serve,
		newMigrateCommand(),
	)
	return rootCmd
}
