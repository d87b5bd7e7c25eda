package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/webagentaa/webagent/internal/config"
	"github.com/webagentaa/webagent/internal/orchestration"
	"github.com/webagentaa/webagent/internal/sheets"
)

func newTasksCommand() *cobra.Command {
	var (
		cfgPath         string
		sheetPath       string
		priority        string
		category        string
		globs           []string
		includeInactive bool
	)

	cmd := &cobra.Command{
		Use:   "tasks",
		Short: "List the tasks defined in the task sheet",
		Long: `List the tasks defined in the task sheet, applying the same filters the
run command uses. Inactive rows are hidden unless --all is given.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(cfgPath)
			if err != nil {
				return err
			}
			if sheetPath != "" {
				cfg.Sheet.Path = sheetPath
			}
			if cfg.Sheet.Path == "" {
				return fmt.Errorf("no task sheet configured: set sheet.path in %s or pass --tasks", cfgPath)
			}

			tasks, err := sheets.Load(cfg.Sheet.Path, sheets.Options{
				SheetName:  cfg.Sheet.SheetName,
				StartRow:   cfg.Sheet.StartRow,
				ActiveOnly: false,
			})
			if err != nil {
				return fmt.Errorf("loading tasks: %w", err)
			}

			if priority == "" {
				priority = cfg.Filter.Priority
			}
			if category == "" {
				category = cfg.Filter.Category
			}
			filter := orchestration.TaskFilter{
				Category:        category,
				Priority:        priority,
				ScenarioGlobs:   globs,
				IncludeInactive: includeInactive,
			}
			filtered, err := filter.Apply(tasks)
			if err != nil {
				return err
			}

			if len(filtered) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No tasks matched.") //nolint:errcheck
				return nil
			}

			printTaskTable(cmd.OutOrStdout(), filtered)
			fmt.Fprintf(cmd.OutOrStdout(), "\n%d of %d task(s) shown.\n", len(filtered), len(tasks)) //nolint:errcheck
			return nil
		},
	}

	cmd.Flags().StringVarP(&cfgPath, "config", "c", "webagent.yaml", "Path to the configuration file")
	cmd.Flags().StringVarP(&sheetPath, "tasks", "t", "", "Task sheet (.xlsx or .csv), overrides config")
	cmd.Flags().StringVar(&priority, "priority", "", "Only show tasks with this priority")
	cmd.Flags().StringVar(&category, "category", "", "Only show tasks in this category")
	cmd.Flags().StringArrayVar(&globs, "scenario", nil, "Filter tasks by scenario glob pattern (can be repeated)")
	cmd.Flags().BoolVarP(&includeInactive, "all", "a", false, "Include inactive tasks")

	return cmd
}
