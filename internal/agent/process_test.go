package agent

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewProcessProviderValidation(t *testing.T) {
	_, err := NewProcessProvider(ProcessConfig{})
	assert.ErrorContains(t, err, "agent binary is required")

	_, err = NewProcessProvider(ProcessConfig{
		Binary: "browser-agent",
		Remote: &RemoteGrid{Endpoint: "https://grid.example.com"},
	})
	assert.ErrorContains(t, err, "remote grid")

	p, err := NewProcessProvider(ProcessConfig{Binary: "browser-agent"})
	require.NoError(t, err)
	assert.NotNil(t, p)
}

func TestProcessProviderAcquireHonorsContext(t *testing.T) {
	p, err := NewProcessProvider(ProcessConfig{Binary: "browser-agent"})
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = p.Acquire(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestProcessSessionEnviron(t *testing.T) {
	s := &processSession{cfg: ProcessConfig{
		Binary: "browser-agent",
		Remote: &RemoteGrid{
			Endpoint:  "https://grid.example.com/wd/hub",
			Username:  "qa-bot",
			AccessKey: "Zk8x2NvQ4rT6yU1wP3sD",
		},
	}}

	env := s.environ()
	assert.Contains(t, env, "GRID_ENDPOINT=https://grid.example.com/wd/hub")
	assert.Contains(t, env, "GRID_USERNAME=qa-bot")
	assert.Contains(t, env, "GRID_ACCESS_KEY=Zk8x2NvQ4rT6yU1wP3sD")
}

func TestProcessSessionCloseIdempotent(t *testing.T) {
	s := &processSession{cfg: ProcessConfig{Binary: "browser-agent"}}
	require.NoError(t, s.Close())
	require.NoError(t, s.Close())

	_, err := s.Run(context.Background(), "do something")
	assert.ErrorContains(t, err, "already closed")
}

func TestProcessSessionRunMissingBinary(t *testing.T) {
	p, err := NewProcessProvider(ProcessConfig{Binary: "definitely-not-a-real-binary-xyz"})
	require.NoError(t, err)

	sess, err := p.Acquire(context.Background())
	require.NoError(t, err)
	defer sess.Close() //nolint:errcheck

	_, err = sess.Run(context.Background(), "navigate somewhere")
	assert.ErrorContains(t, err, "agent process failed")
}
