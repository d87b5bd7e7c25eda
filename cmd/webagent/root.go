package main

import (
	"log/slog"
	"os"

	"github.com/spf13/cobra"
)

var version = "dev"

func newRootCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "webagent",
		Short: "webagent - run browser automation tasks from a sheet",
		Long: `webagent drives an AI browser agent through task scenarios defined in a
spreadsheet, normalizes the outcomes, and writes HTML, JSON, and JUnit
reports.

Tasks come from an .xlsx or .csv sheet; each row names a scenario and the
natural-language instruction given to the agent.`,
		Version:      version,
		SilenceUsage: true,
	}

	debugLogging := cmd.PersistentFlags().Bool("debug", false, "Enable debug logging")
	cmd.PersistentPreRun = func(cmd *cobra.Command, args []string) {
		if *debugLogging {
			slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelDebug})))
		}
	}

	// Add subcommands
	cmd.AddCommand(newRunCommand())
	cmd.AddCommand(newTasksCommand())
	cmd.AddCommand(newConfigCommand())
	cmd.AddCommand(newInitCommand())
	cmd.AddCommand(newLogsCommand())

	return cmd
}

func execute() error {
	rootCmd := newRootCommand()
	return rootCmd.Execute()
}
