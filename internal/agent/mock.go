package agent

import (
	"context"
	"sync"
	"sync/atomic"
)

// MockProvider is a scriptable in-memory provider for tests. Outcomes are
// consumed in acquisition order; once the script runs out, sessions report a
// plain successful outcome.
type MockProvider struct {
	mu       sync.Mutex
	script   []MockBehavior
	next     int
	sessions []*MockSession

	// open tracks concurrently open sessions; maxOpen records the high-water
	// mark so tests can assert concurrency bounds.
	open    atomic.Int32
	maxOpen atomic.Int32
}

// MockBehavior scripts one session's lifecycle.
type MockBehavior struct {
	// AcquireErr, when set, fails the Acquire call itself.
	AcquireErr error
	// RunErr, when set, fails the session's Run call.
	RunErr error
	// Outcome is returned from Run when RunErr is nil.
	Outcome *Outcome
	// CloseErr is returned from the first Close call.
	CloseErr error
	// BeforeReturn, when set, runs inside Run before it returns. Tests use it
	// to hold sessions open and observe interleaving.
	BeforeReturn func()
}

// NewMockProvider builds a provider that plays back the given behaviors.
func NewMockProvider(script ...MockBehavior) *MockProvider {
	return &MockProvider{script: script}
}

// Acquire hands out the next scripted session.
func (p *MockProvider) Acquire(ctx context.Context) (Session, error) {
	p.mu.Lock()
	var b MockBehavior
	if p.next < len(p.script) {
		b = p.script[p.next]
	}
	p.next++
	if b.AcquireErr != nil {
		p.mu.Unlock()
		return nil, b.AcquireErr
	}
	s := &MockSession{provider: p, behavior: b}
	p.sessions = append(p.sessions, s)
	p.mu.Unlock()

	n := p.open.Add(1)
	for {
		max := p.maxOpen.Load()
		if n <= max || p.maxOpen.CompareAndSwap(max, n) {
			break
		}
	}
	return s, nil
}

// Sessions returns every session handed out so far, in acquisition order.
func (p *MockProvider) Sessions() []*MockSession {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]*MockSession, len(p.sessions))
	copy(out, p.sessions)
	return out
}

// MaxOpen reports the highest number of sessions that were open at once.
func (p *MockProvider) MaxOpen() int {
	return int(p.maxOpen.Load())
}

// MockSession is the session double handed out by MockProvider.
type MockSession struct {
	provider *MockProvider
	behavior MockBehavior

	mu          sync.Mutex
	closed      bool
	closeCalls  int
	instruction string
	ran         bool
}

// Run plays back the scripted outcome or error.
func (s *MockSession) Run(ctx context.Context, instruction string) (*Outcome, error) {
	s.mu.Lock()
	s.instruction = instruction
	s.ran = true
	s.mu.Unlock()

	if s.behavior.BeforeReturn != nil {
		s.behavior.BeforeReturn()
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if s.behavior.RunErr != nil {
		return nil, s.behavior.RunErr
	}
	if s.behavior.Outcome != nil {
		return s.behavior.Outcome, nil
	}
	return &Outcome{Done: true, FinalResult: "completed " + instruction}, nil
}

// Close records the call and decrements the provider's open-session gauge on
// the first invocation only, mirroring the idempotent Close contract.
func (s *MockSession) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closeCalls++
	if s.closed {
		return nil
	}
	s.closed = true
	s.provider.open.Add(-1)
	return s.behavior.CloseErr
}

// CloseCalls reports how many times Close was invoked.
func (s *MockSession) CloseCalls() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.closeCalls
}

// Instruction returns the instruction the session was run with.
func (s *MockSession) Instruction() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.instruction
}

// Ran reports whether Run was invoked on this session.
func (s *MockSession) Ran() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.ran
}
