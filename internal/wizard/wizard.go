// Package wizard implements the interactive setup form behind "webagent init".
package wizard

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/charmbracelet/huh"
	"golang.org/x/term"
	"gopkg.in/yaml.v3"

	"github.com/webagentaa/webagent/internal/config"
)

// RunConfigWizard runs an interactive huh form and returns a populated Config.
func RunConfigWizard(in io.Reader, out io.Writer) (*config.Config, error) {
	cfg := config.New()

	var (
		sheetPath    = cfg.Sheet.Path
		sheetName    = cfg.Sheet.SheetName
		mode         = cfg.Execution.Mode
		maxParallel  = strconv.Itoa(cfg.Execution.MaxParallel)
		taskDelay    = strconv.Itoa(cfg.Execution.TaskDelaySec)
		agentBinary  = cfg.Agent.Binary
		model        = cfg.Agent.Model
		headless     = cfg.Headless()
		remote       = cfg.Remote.Enabled
		gridEndpoint string
		gridUsername string
		reportsDir   = cfg.Reports.Dir
	)

	form := huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Task sheet").
				Description("Path to the .xlsx or .csv file holding the task definitions").
				Placeholder("tasks.xlsx").
				Value(&sheetPath).
				Validate(func(s string) error {
					s = strings.TrimSpace(s)
					if s == "" {
						return fmt.Errorf("task sheet path is required")
					}
					if !strings.HasSuffix(s, ".xlsx") && !strings.HasSuffix(s, ".csv") {
						return fmt.Errorf("task sheet must be .xlsx or .csv")
					}
					return nil
				}),
			huh.NewInput().
				Title("Sheet name").
				Description("Worksheet tab holding the tasks (xlsx only)").
				Value(&sheetName),
			huh.NewSelect[string]().
				Title("Execution mode").
				Options(
					huh.NewOption("sequential", "sequential"),
					huh.NewOption("parallel", "parallel"),
				).
				Value(&mode),
			huh.NewInput().
				Title("Max parallel sessions").
				Description("Upper bound on concurrent browser sessions (parallel mode)").
				Value(&maxParallel).
				Validate(validateNonNegativeInt),
			huh.NewInput().
				Title("Delay between tasks (seconds)").
				Description("Settling pause between tasks (sequential mode)").
				Value(&taskDelay).
				Validate(validateNonNegativeInt),
		),
		huh.NewGroup(
			huh.NewInput().
				Title("Agent binary").
				Description("Browser agent CLI on PATH, or an absolute path").
				Value(&agentBinary).
				Validate(func(s string) error {
					if strings.TrimSpace(s) == "" {
						return fmt.Errorf("agent binary is required")
					}
					return nil
				}),
			huh.NewInput().
				Title("Model").
				Value(&model),
			huh.NewConfirm().
				Title("Headless browser?").
				Value(&headless),
			huh.NewConfirm().
				Title("Run against a remote browser grid?").
				Value(&remote),
			huh.NewInput().
				Title("Reports directory").
				Value(&reportsDir),
		),
	).
		WithInput(in).
		WithOutput(out)

	// Use accessible mode for non-TTY input (e.g., tests, piped input).
	if needsAccessible(in) {
		form = form.WithAccessible(true)
	}

	if err := form.Run(); err != nil {
		return nil, fmt.Errorf("setup wizard: %w", err)
	}

	if remote {
		gridForm := huh.NewForm(
			huh.NewGroup(
				huh.NewInput().
					Title("Grid endpoint").
					Placeholder("https://hub.example.com/wd/hub").
					Value(&gridEndpoint).
					Validate(func(s string) error {
						if strings.TrimSpace(s) == "" {
							return fmt.Errorf("endpoint is required for remote execution")
						}
						return nil
					}),
				huh.NewInput().
					Title("Grid username").
					Value(&gridUsername).
					Validate(func(s string) error {
						if strings.TrimSpace(s) == "" {
							return fmt.Errorf("username is required for remote execution")
						}
						return nil
					}),
			),
		).
			WithInput(in).
			WithOutput(out)
		if needsAccessible(in) {
			gridForm = gridForm.WithAccessible(true)
		}
		if err := gridForm.Run(); err != nil {
			return nil, fmt.Errorf("setup wizard: %w", err)
		}
	}

	cfg.Sheet.Path = strings.TrimSpace(sheetPath)
	cfg.Sheet.SheetName = strings.TrimSpace(sheetName)
	cfg.Execution.Mode = mode
	cfg.Execution.MaxParallel = mustAtoi(maxParallel)
	cfg.Execution.TaskDelaySec = mustAtoi(taskDelay)
	cfg.Agent.Binary = strings.TrimSpace(agentBinary)
	cfg.Agent.Model = strings.TrimSpace(model)
	cfg.Browser.Headless = &headless
	cfg.Remote.Enabled = remote
	cfg.Remote.Endpoint = strings.TrimSpace(gridEndpoint)
	cfg.Remote.Username = strings.TrimSpace(gridUsername)
	cfg.Reports.Dir = strings.TrimSpace(reportsDir)

	return cfg, nil
}

// GenerateConfigYAML renders the config as a commented webagent.yaml document.
func GenerateConfigYAML(cfg *config.Config) (string, error) {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return "", fmt.Errorf("marshaling config: %w", err)
	}
	header := "# webagent configuration\n# Secrets (api_key, access_key) are better supplied via the environment:\n#   WEBAGENT_API_KEY, WEBAGENT_GRID_ACCESS_KEY\n"
	return header + string(data), nil
}

// needsAccessible reports whether the form should run in accessible mode
// (non-TTY input such as tests or piped stdin).
func needsAccessible(in io.Reader) bool {
	f, ok := in.(*os.File)
	return !ok || !term.IsTerminal(int(f.Fd()))
}

func validateNonNegativeInt(s string) error {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return fmt.Errorf("must be a number")
	}
	if n < 0 {
		return fmt.Errorf("must be >= 0")
	}
	return nil
}

// mustAtoi is only called on values the form already validated.
func mustAtoi(s string) int {
	n, _ := strconv.Atoi(strings.TrimSpace(s))
	return n
}
