package agent

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"strconv"
	"strings"
	"sync"
)

// RemoteGrid holds credentials for running the browser on a remote grid
// instead of a local one. All three fields are required when remote execution
// is enabled.
type RemoteGrid struct {
	Endpoint  string
	Username  string
	AccessKey string
}

// ProcessConfig configures the process-backed provider. The provider spawns
// one agent CLI process per session; the instruction goes in on stdin and the
// outcome document comes back on stdout.
type ProcessConfig struct {
	// Binary is the agent CLI executable, e.g. "browser-agent".
	Binary string

	// Model selects the LLM the agent plans with.
	Model string

	// Headless controls whether the driven browser shows a window.
	Headless bool

	// TimeoutMs is the browser-side task timeout, passed through to the agent.
	TimeoutMs int

	// Remote, when non-nil, points the agent at a remote browser grid.
	Remote *RemoteGrid

	// ExtraArgs are appended verbatim to the agent command line.
	ExtraArgs []string
}

// ProcessProvider acquires sessions that each drive one agent CLI process.
type ProcessProvider struct {
	cfg ProcessConfig
}

// NewProcessProvider validates the configuration and returns a provider.
// Missing remote credentials are a precondition failure: they abort before
// any session work starts.
func NewProcessProvider(cfg ProcessConfig) (*ProcessProvider, error) {
	if cfg.Binary == "" {
		return nil, fmt.Errorf("agent binary is required")
	}
	if cfg.Remote != nil {
		if cfg.Remote.Endpoint == "" || cfg.Remote.Username == "" || cfg.Remote.AccessKey == "" {
			return nil, fmt.Errorf("remote grid execution requires endpoint, username and access key")
		}
	}
	return &ProcessProvider{cfg: cfg}, nil
}

// Acquire returns a fresh session. The agent process itself is not started
// until Run is called.
func (p *ProcessProvider) Acquire(ctx context.Context) (Session, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return &processSession{cfg: p.cfg}, nil
}

type processSession struct {
	cfg ProcessConfig

	mu     sync.Mutex
	cancel context.CancelFunc
	closed bool
}

// Run spawns the agent process, feeds it the instruction, and parses the
// outcome document from stdout. Stderr is surfaced in the error on failure so
// the caller's result record carries something actionable.
func (s *processSession) Run(ctx context.Context, instruction string) (*Outcome, error) {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return nil, fmt.Errorf("session already closed")
	}
	runCtx, cancel := context.WithCancel(ctx)
	s.cancel = cancel
	s.mu.Unlock()
	defer cancel()

	args := []string{"run", "--model", s.cfg.Model, "--headless=" + strconv.FormatBool(s.cfg.Headless)}
	if s.cfg.TimeoutMs > 0 {
		args = append(args, "--timeout-ms", strconv.Itoa(s.cfg.TimeoutMs))
	}
	args = append(args, s.cfg.ExtraArgs...)

	cmd := exec.CommandContext(runCtx, s.cfg.Binary, args...)
	cmd.Stdin = strings.NewReader(instruction)
	cmd.Env = s.environ()

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	slog.Debug("starting agent process", "binary", s.cfg.Binary, "model", s.cfg.Model, "headless", s.cfg.Headless)

	if err := cmd.Run(); err != nil {
		if runCtx.Err() != nil {
			return nil, fmt.Errorf("agent process interrupted: %w", runCtx.Err())
		}
		return nil, fmt.Errorf("agent process failed: %w: %s", err, firstLine(stderr.String()))
	}

	out, err := ParseOutcome(stdout.Bytes())
	if err != nil {
		return nil, err
	}
	return out, nil
}

// Close tears the session down, interrupting the agent process when one is
// still running. Close is idempotent.
func (s *processSession) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil
	}
	s.closed = true
	if s.cancel != nil {
		s.cancel()
	}
	return nil
}

// environ builds the child environment, layering grid credentials over the
// parent environment when remote execution is configured.
func (s *processSession) environ() []string {
	env := os.Environ()
	if s.cfg.Remote != nil {
		env = append(env,
			"GRID_ENDPOINT="+s.cfg.Remote.Endpoint,
			"GRID_USERNAME="+s.cfg.Remote.Username,
			"GRID_ACCESS_KEY="+s.cfg.Remote.AccessKey,
		)
	}
	return env
}

func firstLine(s string) string {
	s = strings.TrimSpace(s)
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		return s[:i]
	}
	return s
}
