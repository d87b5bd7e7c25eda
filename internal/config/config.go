// Package config provides the Config struct and loader for webagent.yaml.
// Configuration is an explicit value constructed once at process start and
// passed into the components that need it; there is no ambient global state.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"
)

// Default values. New() references them and no other code should duplicate
// them.
const (
	DefaultSheetName        = "Tasks"
	DefaultStartRow         = 2
	DefaultMode             = "sequential"
	DefaultTaskDelaySec     = 5
	DefaultMaxParallel      = 3
	DefaultBrowserTimeoutMs = 300000
	DefaultReportsDir       = "./reports"
	DefaultAgentBinary      = "browser-agent"
	DefaultModel            = "gemini-flash-latest"
)

// ExecutionConfig holds scheduling knobs.
type ExecutionConfig struct {
	Mode         string `yaml:"mode,omitempty"`
	TaskDelaySec int    `yaml:"task_delay_seconds,omitempty"`
	MaxParallel  int    `yaml:"max_parallel,omitempty"`
}

// SheetConfig locates the task sheet.
type SheetConfig struct {
	Path      string `yaml:"path,omitempty"`
	SheetName string `yaml:"sheet_name,omitempty"`
	StartRow  int    `yaml:"start_row,omitempty"`
}

// FilterConfig narrows which tasks run.
type FilterConfig struct {
	Priority string `yaml:"priority,omitempty"`
	Category string `yaml:"category,omitempty"`
}

// BrowserConfig controls the driven browser.
type BrowserConfig struct {
	Headless  *bool `yaml:"headless,omitempty"`
	TimeoutMs int   `yaml:"timeout_ms,omitempty"`
}

// AgentConfig configures the agent CLI.
type AgentConfig struct {
	Binary string `yaml:"binary,omitempty"`
	Model  string `yaml:"model,omitempty"`
	APIKey string `yaml:"api_key,omitempty"`
}

// RemoteConfig holds remote-grid settings. When Enabled, all three credential
// fields are required.
type RemoteConfig struct {
	Enabled   bool   `yaml:"enabled,omitempty"`
	Endpoint  string `yaml:"endpoint,omitempty"`
	Username  string `yaml:"username,omitempty"`
	AccessKey string `yaml:"access_key,omitempty"`
}

// ReportsConfig controls report output.
type ReportsConfig struct {
	Dir string `yaml:"dir,omitempty"`
}

// Config is the top-level configuration loaded from webagent.yaml.
type Config struct {
	Sheet     SheetConfig     `yaml:"sheet,omitempty"`
	Execution ExecutionConfig `yaml:"execution,omitempty"`
	Filter    FilterConfig    `yaml:"filter,omitempty"`
	Browser   BrowserConfig   `yaml:"browser,omitempty"`
	Agent     AgentConfig     `yaml:"agent,omitempty"`
	Remote    RemoteConfig    `yaml:"remote,omitempty"`
	Reports   ReportsConfig   `yaml:"reports,omitempty"`
}

// New returns a Config with all defaults populated.
func New() *Config {
	headless := true
	return &Config{
		Sheet: SheetConfig{
			SheetName: DefaultSheetName,
			StartRow:  DefaultStartRow,
		},
		Execution: ExecutionConfig{
			Mode:         DefaultMode,
			TaskDelaySec: DefaultTaskDelaySec,
			MaxParallel:  DefaultMaxParallel,
		},
		Browser: BrowserConfig{
			Headless:  &headless,
			TimeoutMs: DefaultBrowserTimeoutMs,
		},
		Agent: AgentConfig{
			Binary: DefaultAgentBinary,
			Model:  DefaultModel,
		},
		Reports: ReportsConfig{
			Dir: DefaultReportsDir,
		},
	}
}

// Load reads webagent.yaml from path, fills in missing fields with defaults,
// then layers environment overrides on top. A missing file returns defaults
// plus environment with a nil error; a malformed file is an error.
func Load(path string) (*Config, error) {
	cfg := New()

	data, err := os.ReadFile(path)
	if err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("loading %s: %w", path, err)
		}
	} else {
		var fileCfg Config
		if err := yaml.Unmarshal(data, &fileCfg); err != nil {
			return nil, fmt.Errorf("parsing %s: %w", path, err)
		}
		merge(cfg, &fileCfg)
	}

	applyEnv(cfg)
	return cfg, nil
}

// merge copies non-zero fields from src onto dst.
func merge(dst, src *Config) {
	setString(&dst.Sheet.Path, src.Sheet.Path)
	setString(&dst.Sheet.SheetName, src.Sheet.SheetName)
	setInt(&dst.Sheet.StartRow, src.Sheet.StartRow)

	setString(&dst.Execution.Mode, src.Execution.Mode)
	if src.Execution.TaskDelaySec != 0 {
		dst.Execution.TaskDelaySec = src.Execution.TaskDelaySec
	}
	if src.Execution.MaxParallel != 0 {
		dst.Execution.MaxParallel = src.Execution.MaxParallel
	}

	setString(&dst.Filter.Priority, src.Filter.Priority)
	setString(&dst.Filter.Category, src.Filter.Category)

	if src.Browser.Headless != nil {
		dst.Browser.Headless = src.Browser.Headless
	}
	setInt(&dst.Browser.TimeoutMs, src.Browser.TimeoutMs)

	setString(&dst.Agent.Binary, src.Agent.Binary)
	setString(&dst.Agent.Model, src.Agent.Model)
	setString(&dst.Agent.APIKey, src.Agent.APIKey)

	if src.Remote.Enabled {
		dst.Remote.Enabled = true
	}
	setString(&dst.Remote.Endpoint, src.Remote.Endpoint)
	setString(&dst.Remote.Username, src.Remote.Username)
	setString(&dst.Remote.AccessKey, src.Remote.AccessKey)

	setString(&dst.Reports.Dir, src.Reports.Dir)
}

// applyEnv layers environment variables over the config. Secrets in
// particular are expected to come from the environment rather than the file.
func applyEnv(cfg *Config) {
	// GOOGLE_API_KEY is the name the agent stack itself reads; WEBAGENT_API_KEY
	// wins when both are set.
	if v := os.Getenv("GOOGLE_API_KEY"); v != "" {
		cfg.Agent.APIKey = v
	}
	if v := os.Getenv("WEBAGENT_API_KEY"); v != "" {
		cfg.Agent.APIKey = v
	}
	if v := os.Getenv("WEBAGENT_TASKS_FILE"); v != "" {
		cfg.Sheet.Path = v
	}
	if v := os.Getenv("WEBAGENT_GRID_ENDPOINT"); v != "" {
		cfg.Remote.Endpoint = v
	}
	if v := os.Getenv("WEBAGENT_GRID_USERNAME"); v != "" {
		cfg.Remote.Username = v
	}
	if v := os.Getenv("WEBAGENT_GRID_ACCESS_KEY"); v != "" {
		cfg.Remote.AccessKey = v
	}
	if v := os.Getenv("BROWSER_TIMEOUT"); v != "" {
		if ms, err := strconv.Atoi(v); err == nil && ms > 0 {
			cfg.Browser.TimeoutMs = ms
		}
	}
	if v := os.Getenv("WEBAGENT_REPORTS_DIR"); v != "" {
		cfg.Reports.Dir = v
	}
}

// Validate checks preconditions that must abort a run before any session is
// acquired.
func (c *Config) Validate() error {
	var errs []error

	if c.Execution.Mode != "sequential" && c.Execution.Mode != "parallel" {
		errs = append(errs, fmt.Errorf("invalid execution mode %q: must be \"sequential\" or \"parallel\"", c.Execution.Mode))
	}
	if c.Execution.TaskDelaySec < 0 {
		errs = append(errs, fmt.Errorf("task_delay_seconds must be >= 0, got %d", c.Execution.TaskDelaySec))
	}
	if c.Execution.MaxParallel < 0 {
		errs = append(errs, fmt.Errorf("max_parallel must be >= 0, got %d", c.Execution.MaxParallel))
	}
	if c.Agent.Binary == "" {
		errs = append(errs, fmt.Errorf("agent binary is required"))
	}
	if c.Remote.Enabled {
		if c.Remote.Endpoint == "" {
			errs = append(errs, fmt.Errorf("remote execution requires an endpoint"))
		}
		if c.Remote.Username == "" || c.Remote.AccessKey == "" {
			errs = append(errs, fmt.Errorf("remote execution requires username and access key"))
		}
	}

	return errors.Join(errs...)
}

// Secrets returns the configured secret literals the masker must redact.
func (c *Config) Secrets() []string {
	return []string{c.Remote.AccessKey, c.Agent.APIKey}
}

// Headless reports the effective headless flag.
func (c *Config) Headless() bool {
	return c.Browser.Headless == nil || *c.Browser.Headless
}

func setString(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}

func setInt(dst *int, v int) {
	if v != 0 {
		*dst = v
	}
}
