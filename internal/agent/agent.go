// Package agent defines the boundary to the external browser-automation
// agent: a provider that hands out one session per task, and the session's
// run/teardown contract. The orchestrator never assumes more than what is
// declared here.
package agent

import "context"

// Provider acquires fresh automation sessions. Each session is scoped to a
// single task and never reused; the provider's own configuration (headless
// flag, remote grid credentials) is read-only during a run.
type Provider interface {
	// Acquire starts a new automation session. The returned session must be
	// closed by the caller regardless of how the run turns out.
	Acquire(ctx context.Context) (Session, error)
}

// Session is one instance of the browser-driving agent, bound to one task's
// lifetime.
type Session interface {
	// Run executes the natural-language instruction and reports the outcome.
	Run(ctx context.Context, instruction string) (*Outcome, error)

	// Close tears the session down. Close is idempotent; calling it on an
	// already-closed session returns nil.
	Close() error
}
