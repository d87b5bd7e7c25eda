package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/webagentaa/webagent/internal/agent"
	"github.com/webagentaa/webagent/internal/config"
	"github.com/webagentaa/webagent/internal/masking"
	"github.com/webagentaa/webagent/internal/models"
	"github.com/webagentaa/webagent/internal/orchestration"
	"github.com/webagentaa/webagent/internal/reporting"
	"github.com/webagentaa/webagent/internal/session"
	"github.com/webagentaa/webagent/internal/sheets"
)

var (
	configPath     string
	tasksPath      string
	priorityFilter string
	categoryFilter string
	scenarioGlobs  []string
	runParallel    bool
	maxParallel    int
	taskDelaySec   int
	headlessFlag   string
	reportsDir     string
	outputPath     string
	junitPath      string
	format         string
	sessionLog     bool
	dryRun         bool
	verbose        bool
)

func newRunCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run [tasks-file]",
		Short: "Run browser automation tasks from the configured sheet",
		Long: `Run browser automation tasks from the configured task sheet.

Each active row is sent to the browser agent as an instruction. Results are
normalized, masked, and written to HTML, JSON, and optionally JUnit reports.

The task sheet comes from the positional argument, the --tasks flag, or
sheet.path in the config file, in that order.`,
		Args: cobra.MaximumNArgs(1),
		RunE: runCommandE,
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", "webagent.yaml", "Path to the configuration file")
	cmd.Flags().StringVarP(&tasksPath, "tasks", "t", "", "Task sheet (.xlsx or .csv), overrides config")
	cmd.Flags().StringVar(&priorityFilter, "priority", "", "Only run tasks with this priority")
	cmd.Flags().StringVar(&categoryFilter, "category", "", "Only run tasks in this category")
	cmd.Flags().StringArrayVar(&scenarioGlobs, "scenario", nil, "Filter tasks by scenario glob pattern (can be repeated)")
	cmd.Flags().BoolVar(&runParallel, "parallel", false, "Run tasks concurrently in batches")
	cmd.Flags().IntVar(&maxParallel, "max-parallel", 0, "Max concurrent sessions (requires --parallel, 0 = config default)")
	cmd.Flags().IntVar(&taskDelaySec, "delay", -1, "Seconds to pause between sequential tasks (-1 = config default)")
	cmd.Flags().StringVar(&headlessFlag, "headless", "", "Override headless mode: true or false")
	cmd.Flags().StringVar(&reportsDir, "reports-dir", "", "Directory for reports, overrides config")
	cmd.Flags().StringVarP(&outputPath, "output", "o", "", "Also write the results JSON to this path")
	cmd.Flags().StringVar(&junitPath, "junit", "", "Also write a JUnit XML report to this path")
	cmd.Flags().StringVar(&format, "format", "default", "Summary format: default, github-comment")
	cmd.Flags().BoolVar(&sessionLog, "log", false, "Write an NDJSON run log into the reports directory")
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "List the tasks that would run, then exit")
	cmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "Verbose output with per-step progress")

	return cmd
}

func runCommandE(cmd *cobra.Command, args []string) error {
	if len(args) > 0 {
		tasksPath = args[0]
	}

	cfg, err := loadRunConfig()
	if err != nil {
		return err
	}

	tasks, err := loadTasks(cfg)
	if err != nil {
		return err
	}
	if len(tasks) == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "No tasks matched the configured filters.") //nolint:errcheck
		return nil
	}

	if dryRun {
		printTaskTable(cmd.OutOrStdout(), tasks)
		fmt.Fprintf(cmd.OutOrStdout(), "\n%d task(s) would run.\n", len(tasks)) //nolint:errcheck
		return nil
	}

	provider, err := buildProvider(cfg)
	if err != nil {
		return err
	}

	masker := masking.NewMasker(cfg.Secrets()...)

	policy := orchestration.PolicySequential
	if cfg.Execution.Mode == "parallel" {
		policy = orchestration.PolicyParallel
	}

	runner := orchestration.NewRunner(provider,
		orchestration.WithPolicy(policy),
		orchestration.WithTaskDelay(time.Duration(cfg.Execution.TaskDelaySec)*time.Second),
		orchestration.WithMaxParallel(cfg.Execution.MaxParallel),
		orchestration.WithMasker(masker),
	)

	if verbose {
		runner.OnProgress(verboseProgressListener)
	} else {
		// The spinner registers first so its line is cleared before the
		// completion line prints.
		if policy == orchestration.PolicySequential && term.IsTerminal(int(os.Stdout.Fd())) {
			runner.OnProgress(spinnerProgressListener())
		}
		runner.OnProgress(simpleProgressListener)
	}

	var logger session.Logger = session.NopLogger{}
	if sessionLog {
		jsonLogger, err := session.NewJSONLogger(session.DefaultLogPath(cfg.Reports.Dir))
		if err != nil {
			return fmt.Errorf("creating run log: %w", err)
		}
		defer jsonLogger.Close() //nolint:errcheck
		logger = jsonLogger
		fmt.Printf("Run log: %s\n", jsonLogger.Path())
	}
	runner.OnProgress(sessionLogListener(logger))

	runID := uuid.NewString()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	fmt.Printf("Run %s\n", runID)
	fmt.Printf("Tasks: %d\n", len(tasks))
	fmt.Printf("Mode: %s\n", cfg.Execution.Mode)
	if policy == orchestration.PolicyParallel {
		fmt.Printf("Max parallel: %d\n", cfg.Execution.MaxParallel)
	}
	fmt.Printf("Agent: %s (%s)\n", cfg.Agent.Binary, cfg.Agent.Model)
	if cfg.Remote.Enabled {
		fmt.Printf("Grid: %s\n", cfg.Remote.Endpoint)
	}
	fmt.Println()

	start := time.Now()
	_ = logger.Log(session.NewEvent(session.EventRunStart, session.RunStartData(runID, cfg.Execution.Mode, len(tasks)))) //nolint:errcheck
	results := runner.Run(ctx, tasks)

	summary := models.Summarize(results)
	summary.RunID = runID
	summary.Timestamp = start
	summary.DurationMs = time.Since(start).Milliseconds()
	_ = logger.Log(session.NewEvent(session.EventRunComplete, session.RunCompleteData(summary.Total, summary.Passed, summary.Failed, summary.DurationMs))) //nolint:errcheck

	switch format {
	case "github-comment":
		fmt.Print(reporting.FormatMarkdownSummary(summary, results))
	case "default":
		fmt.Println()
		fmt.Print(reporting.FormatConsoleSummary(summary, results))
	default:
		return fmt.Errorf("unknown output format: %s (supported: default, github-comment)", format)
	}

	htmlPath, err := reporting.WriteHTMLReport(summary, results, cfg.Reports.Dir)
	if err != nil {
		return fmt.Errorf("writing HTML report: %w", err)
	}
	jsonPath, err := reporting.WriteJSONReport(summary, results, cfg.Reports.Dir)
	if err != nil {
		return fmt.Errorf("writing JSON report: %w", err)
	}
	fmt.Printf("\nReports:\n  %s\n  %s\n", htmlPath, jsonPath)

	if outputPath != "" {
		if err := reporting.WriteResultsFile(summary, results, outputPath); err != nil {
			return err
		}
		fmt.Printf("  %s\n", outputPath)
	}

	if junitPath != "" {
		if err := reporting.WriteJUnit(reporting.ConvertToJUnit(summary, results), junitPath); err != nil {
			return fmt.Errorf("writing JUnit report: %w", err)
		}
		fmt.Printf("  %s\n", junitPath)
	}

	// Return task failure as error so main can map it to the right exit code.
	if summary.Failed > 0 {
		return &TaskFailureError{
			Message: fmt.Sprintf("run completed with %d failed task(s)", summary.Failed),
		}
	}
	return nil
}

// loadRunConfig loads the config file and layers CLI flag overrides on top.
func loadRunConfig() (*config.Config, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, err
	}

	if tasksPath != "" {
		cfg.Sheet.Path = tasksPath
	}
	if priorityFilter != "" {
		cfg.Filter.Priority = priorityFilter
	}
	if categoryFilter != "" {
		cfg.Filter.Category = categoryFilter
	}
	if runParallel {
		cfg.Execution.Mode = "parallel"
	}
	if maxParallel > 0 {
		cfg.Execution.MaxParallel = maxParallel
	}
	if taskDelaySec >= 0 {
		cfg.Execution.TaskDelaySec = taskDelaySec
	}
	switch headlessFlag {
	case "":
	case "true", "false":
		headless := headlessFlag == "true"
		cfg.Browser.Headless = &headless
	default:
		return nil, fmt.Errorf("invalid --headless value %q: must be true or false", headlessFlag)
	}
	if reportsDir != "" {
		cfg.Reports.Dir = reportsDir
	}

	if cfg.Sheet.Path == "" {
		return nil, fmt.Errorf("no task sheet configured: set sheet.path in %s or pass --tasks", configPath)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// loadTasks reads the sheet and applies the configured filters.
func loadTasks(cfg *config.Config) ([]models.TaskDescriptor, error) {
	tasks, err := sheets.Load(cfg.Sheet.Path, sheets.Options{
		SheetName:  cfg.Sheet.SheetName,
		StartRow:   cfg.Sheet.StartRow,
		ActiveOnly: true,
	})
	if err != nil {
		return nil, fmt.Errorf("loading tasks: %w", err)
	}

	filter := orchestration.TaskFilter{
		Category:      cfg.Filter.Category,
		Priority:      cfg.Filter.Priority,
		ScenarioGlobs: scenarioGlobs,
	}
	filtered, err := filter.Apply(tasks)
	if err != nil {
		return nil, err
	}
	return filtered, nil
}

// buildProvider constructs the process-backed agent provider from config.
func buildProvider(cfg *config.Config) (agent.Provider, error) {
	pcfg := agent.ProcessConfig{
		Binary:    cfg.Agent.Binary,
		Model:     cfg.Agent.Model,
		Headless:  cfg.Headless(),
		TimeoutMs: cfg.Browser.TimeoutMs,
	}
	if cfg.Remote.Enabled {
		pcfg.Remote = &agent.RemoteGrid{
			Endpoint:  cfg.Remote.Endpoint,
			Username:  cfg.Remote.Username,
			AccessKey: cfg.Remote.AccessKey,
		}
	}
	return agent.NewProcessProvider(pcfg)
}

// sessionLogListener bridges runner progress events into the NDJSON run log.
func sessionLogListener(logger session.Logger) orchestration.ProgressListener {
	return func(event orchestration.ProgressEvent) {
		var e session.Event
		switch event.EventType {
		case orchestration.EventTaskStart:
			e = session.NewEvent(session.EventTaskStart,
				session.TaskStartData(event.Scenario, event.TaskNum, event.TotalTasks))
		case orchestration.EventTaskComplete:
			e = session.NewEvent(session.EventTaskComplete,
				session.TaskCompleteData(event.Scenario, string(event.Status), event.TaskNum, event.DurationMs))
		case orchestration.EventBatchStart:
			e = session.NewEvent(session.EventBatchStart, session.BatchData(event.BatchNum))
		case orchestration.EventBatchComplete:
			e = session.NewEvent(session.EventBatchComplete, session.BatchData(event.BatchNum))
		default:
			return
		}
		_ = logger.Log(e) //nolint:errcheck
	}
}
