package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewDefaults(t *testing.T) {
	cfg := New()

	assert.Equal(t, DefaultSheetName, cfg.Sheet.SheetName)
	assert.Equal(t, DefaultStartRow, cfg.Sheet.StartRow)
	assert.Equal(t, DefaultMode, cfg.Execution.Mode)
	assert.Equal(t, DefaultTaskDelaySec, cfg.Execution.TaskDelaySec)
	assert.Equal(t, DefaultMaxParallel, cfg.Execution.MaxParallel)
	assert.True(t, cfg.Headless())
	assert.Equal(t, DefaultBrowserTimeoutMs, cfg.Browser.TimeoutMs)
	assert.Equal(t, DefaultReportsDir, cfg.Reports.Dir)
	assert.NoError(t, cfg.Validate())
}

func TestLoadMissingFileReturnsDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "webagent.yaml"))
	require.NoError(t, err)
	assert.Equal(t, DefaultMode, cfg.Execution.Mode)
}

func TestLoadMergesFileOverDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "webagent.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
sheet:
  path: tasks.xlsx
  sheet_name: Regression
execution:
  mode: parallel
  max_parallel: 5
browser:
  headless: false
remote:
  enabled: true
  endpoint: https://grid.example.com/wd/hub
  username: qa-bot
  access_key: Zk8x2NvQ4rT6yU1wP3sD
`), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "tasks.xlsx", cfg.Sheet.Path)
	assert.Equal(t, "Regression", cfg.Sheet.SheetName)
	assert.Equal(t, "parallel", cfg.Execution.Mode)
	assert.Equal(t, 5, cfg.Execution.MaxParallel)
	assert.False(t, cfg.Headless())
	// Untouched fields keep their defaults.
	assert.Equal(t, DefaultTaskDelaySec, cfg.Execution.TaskDelaySec)
	assert.NoError(t, cfg.Validate())
}

func TestLoadMalformedFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "webagent.yaml")
	require.NoError(t, os.WriteFile(path, []byte("::not yaml::"), 0o644))

	_, err := Load(path)
	assert.Error(t, err)
}

func TestLoadEnvOverrides(t *testing.T) {
	t.Setenv("WEBAGENT_API_KEY", "sk-live-A1b2C3d4E5f6G7h8I9j0")
	t.Setenv("BROWSER_TIMEOUT", "60000")
	t.Setenv("WEBAGENT_GRID_ACCESS_KEY", "env-grid-key-0123456789")

	cfg, err := Load(filepath.Join(t.TempDir(), "webagent.yaml"))
	require.NoError(t, err)

	assert.Equal(t, "sk-live-A1b2C3d4E5f6G7h8I9j0", cfg.Agent.APIKey)
	assert.Equal(t, 60000, cfg.Browser.TimeoutMs)
	assert.Equal(t, "env-grid-key-0123456789", cfg.Remote.AccessKey)
}

func TestLoadGoogleAPIKeyFallback(t *testing.T) {
	t.Setenv("GOOGLE_API_KEY", "google-key-0123456789abcdef")

	cfg, err := Load(filepath.Join(t.TempDir(), "webagent.yaml"))
	require.NoError(t, err)
	assert.Equal(t, "google-key-0123456789abcdef", cfg.Agent.APIKey)

	// WEBAGENT_API_KEY wins when both are set.
	t.Setenv("WEBAGENT_API_KEY", "webagent-key-0123456789")
	cfg, err = Load(filepath.Join(t.TempDir(), "webagent.yaml"))
	require.NoError(t, err)
	assert.Equal(t, "webagent-key-0123456789", cfg.Agent.APIKey)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{
			name:    "bad mode",
			mutate:  func(c *Config) { c.Execution.Mode = "turbo" },
			wantErr: "invalid execution mode",
		},
		{
			name:    "negative delay",
			mutate:  func(c *Config) { c.Execution.TaskDelaySec = -1 },
			wantErr: "task_delay_seconds",
		},
		{
			name:    "negative max parallel",
			mutate:  func(c *Config) { c.Execution.MaxParallel = -2 },
			wantErr: "max_parallel",
		},
		{
			name:    "missing agent binary",
			mutate:  func(c *Config) { c.Agent.Binary = "" },
			wantErr: "agent binary",
		},
		{
			name: "remote without credentials",
			mutate: func(c *Config) {
				c.Remote.Enabled = true
				c.Remote.Endpoint = "https://grid.example.com"
			},
			wantErr: "username and access key",
		},
		{
			name: "remote without endpoint",
			mutate: func(c *Config) {
				c.Remote.Enabled = true
				c.Remote.Username = "qa"
				c.Remote.AccessKey = "k"
			},
			wantErr: "endpoint",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := New()
			tt.mutate(cfg)
			err := cfg.Validate()
			assert.ErrorContains(t, err, tt.wantErr)
		})
	}
}

func TestSecrets(t *testing.T) {
	cfg := New()
	cfg.Remote.AccessKey = "grid-key"
	cfg.Agent.APIKey = "api-key"
	assert.Equal(t, []string{"grid-key", "api-key"}, cfg.Secrets())
}
