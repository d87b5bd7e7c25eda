package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/webagentaa/webagent/internal/config"
	"github.com/webagentaa/webagent/internal/wizard"
)

func newInitCommand() *cobra.Command {
	var interactive bool

	cmd := &cobra.Command{
		Use:   "init [directory]",
		Short: "Initialize a new webagent project",
		Long: `Initialize a new webagent project directory.

Creates a webagent.yaml config file and an example tasks.csv sheet.

Use --interactive to run a guided wizard that collects the sheet location,
execution mode, and agent settings.

If no directory is specified, the current directory is used.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return initCommandE(cmd, args, interactive)
		},
	}

	cmd.Flags().BoolVarP(&interactive, "interactive", "i", false, "Run the guided setup wizard")

	return cmd
}

func initCommandE(cmd *cobra.Command, args []string, interactive bool) error {
	dir := "."
	if len(args) > 0 {
		dir = args[0]
	}

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create directory %s: %w", dir, err)
	}

	cfg := config.New()
	cfg.Sheet.Path = "tasks.csv"

	if interactive {
		wizardCfg, err := wizard.RunConfigWizard(cmd.InOrStdin(), cmd.OutOrStdout())
		if err != nil {
			return err
		}
		cfg = wizardCfg
	}

	content, err := wizard.GenerateConfigYAML(cfg)
	if err != nil {
		return err
	}

	cfgPath := filepath.Join(dir, "webagent.yaml")
	if err := os.WriteFile(cfgPath, []byte(content), 0o644); err != nil {
		return fmt.Errorf("failed to write webagent.yaml: %w", err)
	}

	// Example sheet with the five expected columns.
	sheetContent := `Test Scenario Name,Prompt,Category,Priority,Active (Yes/No)
Example search,Go to example.com and search for "getting started",Smoke,High,Yes
Example login,Log in to example.com with the test account and confirm the dashboard loads,Auth,Medium,No
`
	sheetPath := filepath.Join(dir, "tasks.csv")
	if _, err := os.Stat(sheetPath); os.IsNotExist(err) {
		if err := os.WriteFile(sheetPath, []byte(sheetContent), 0o644); err != nil {
			return fmt.Errorf("failed to write tasks.csv: %w", err)
		}
	}

	fmt.Fprintln(cmd.OutOrStdout(), "Initialized webagent project:") //nolint:errcheck
	fmt.Fprintf(cmd.OutOrStdout(), "  %s\n", cfgPath)                //nolint:errcheck
	fmt.Fprintf(cmd.OutOrStdout(), "  %s\n", sheetPath)              //nolint:errcheck

	return nil
}
