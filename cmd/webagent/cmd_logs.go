package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/webagentaa/webagent/internal/config"
	"github.com/webagentaa/webagent/internal/session"
)

func newLogsCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "logs",
		Short: "View recorded run logs",
		Long: `View recorded run event logs.

Run logs are NDJSON files written during runs when --log is enabled. They
record the full lifecycle: run start, per-task execution, batch boundaries,
and completion.`,
	}

	cmd.AddCommand(newLogsListCommand())
	cmd.AddCommand(newLogsViewCommand())

	return cmd
}

func newLogsListCommand() *cobra.Command {
	var dir string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List recorded run logs",
		RunE: func(cmd *cobra.Command, args []string) error {
			absDir, err := filepath.Abs(dir)
			if err != nil {
				return err
			}

			files, err := session.ListLogs(absDir)
			if err != nil {
				return fmt.Errorf("listing run logs: %w", err)
			}

			if len(files) == 0 {
				fmt.Println("No run logs found.")
				return nil
			}

			fmt.Printf("%-40s %-8s %s\n", "File", "Events", "Modified")
			fmt.Println("─────────────────────────────────────────────────────────────────")
			for _, f := range files {
				fmt.Printf("%-40s %-8d %s\n", f.Name, f.NumEvents, f.ModTime.Format("2006-01-02 15:04:05"))
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&dir, "dir", config.DefaultReportsDir, "Directory to search for run logs")

	return cmd
}

func newLogsViewCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "view <log-file>",
		Short: "View a run timeline",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := args[0]
			events, err := session.ReadEvents(path)
			if err != nil {
				return fmt.Errorf("reading run log: %w", err)
			}

			session.RenderTimeline(os.Stdout, events)
			return nil
		},
	}

	return cmd
}
