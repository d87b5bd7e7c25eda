package orchestration

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/webagentaa/webagent/internal/agent"
	"github.com/webagentaa/webagent/internal/models"
)

func makeTasks(names ...string) []models.TaskDescriptor {
	tasks := make([]models.TaskDescriptor, 0, len(names))
	for _, n := range names {
		tasks = append(tasks, descriptor(n))
	}
	return tasks
}

func doneOutcome(msg string) agent.MockBehavior {
	return agent.MockBehavior{Outcome: &agent.Outcome{Done: true, FinalResult: msg}}
}

func TestRunSequentialOrderAndNumbering(t *testing.T) {
	provider := agent.NewMockProvider(doneOutcome("ok"), doneOutcome("ok"), doneOutcome("ok"))
	r := NewRunner(provider)

	results := r.Run(context.Background(), makeTasks("a", "b", "c"))

	require.Len(t, results, 3)
	for i, want := range []string{"a", "b", "c"} {
		assert.Equal(t, want, results[i].Scenario)
		assert.Equal(t, i+1, results[i].TaskNumber)
		assert.True(t, results[i].Success)
	}
}

func TestRunSequentialFailureIsolation(t *testing.T) {
	// 3 tasks, delay 0, task 2's session raises; tasks 1 and 3 unaffected.
	provider := agent.NewMockProvider(
		doneOutcome("first done"),
		agent.MockBehavior{RunErr: errors.New("ConnectionError: boom")},
		doneOutcome("third done"),
	)
	r := NewRunner(provider)

	results := r.Run(context.Background(), makeTasks("one", "two", "three"))

	require.Len(t, results, 3)
	assert.True(t, results[0].Success)
	assert.False(t, results[1].Success)
	assert.Contains(t, results[1].Error, "boom")
	assert.True(t, results[2].Success)

	// Every session was torn down exactly once.
	for _, s := range provider.Sessions() {
		assert.Equal(t, 1, s.CloseCalls())
	}
}

func TestRunSequentialDelayBetweenTasks(t *testing.T) {
	const delay = 30 * time.Millisecond
	provider := agent.NewMockProvider(doneOutcome("ok"), doneOutcome("ok"), doneOutcome("ok"))
	r := NewRunner(provider, WithTaskDelay(delay))

	start := time.Now()
	results := r.Run(context.Background(), makeTasks("a", "b", "c"))
	elapsed := time.Since(start)

	require.Len(t, results, 3)
	// At least (n-1)*d cumulative suspension between task starts.
	assert.GreaterOrEqual(t, elapsed, 2*delay)
}

func TestRunSequentialNoDelayAfterLastTask(t *testing.T) {
	provider := agent.NewMockProvider(doneOutcome("ok"))
	r := NewRunner(provider, WithTaskDelay(500*time.Millisecond))

	start := time.Now()
	r.Run(context.Background(), makeTasks("only"))
	assert.Less(t, time.Since(start), 250*time.Millisecond)
}

func TestRunParallelUnlimitedSingleBatch(t *testing.T) {
	// max_parallel=0, 5 tasks, all done with clean messages -> 5 passing
	// results in one batch.
	script := make([]agent.MockBehavior, 5)
	for i := range script {
		script[i] = doneOutcome("all good")
	}
	provider := agent.NewMockProvider(script...)
	r := NewRunner(provider, WithPolicy(PolicyParallel), WithMaxParallel(0), WithBatchPause(0))

	var batches int
	var mu sync.Mutex
	r.OnProgress(func(e ProgressEvent) {
		if e.EventType == EventBatchStart {
			mu.Lock()
			batches++
			mu.Unlock()
		}
	})

	results := r.Run(context.Background(), makeTasks("a", "b", "c", "d", "e"))

	require.Len(t, results, 5)
	for i, res := range results {
		assert.True(t, res.Success)
		assert.Equal(t, i+1, res.TaskNumber)
	}
	assert.Equal(t, 1, batches)
}

func TestRunParallelBatching(t *testing.T) {
	// 5 tasks with max_parallel=2 -> ceil(5/2)=3 batches, never more than 2
	// sessions open at once.
	script := make([]agent.MockBehavior, 5)
	for i := range script {
		script[i] = agent.MockBehavior{
			Outcome: &agent.Outcome{Done: true},
			BeforeReturn: func() {
				// Hold the session open briefly so batch-mates overlap.
				time.Sleep(10 * time.Millisecond)
			},
		}
	}

	provider := agent.NewMockProvider(script...)
	r := NewRunner(provider, WithPolicy(PolicyParallel), WithMaxParallel(2), WithBatchPause(0))

	var batches int
	var mu sync.Mutex
	r.OnProgress(func(e ProgressEvent) {
		if e.EventType == EventBatchStart {
			mu.Lock()
			batches++
			mu.Unlock()
		}
	})

	results := r.Run(context.Background(), makeTasks("a", "b", "c", "d", "e"))

	require.Len(t, results, 5)
	assert.Equal(t, 3, batches)
	assert.LessOrEqual(t, provider.MaxOpen(), 2)
}

func TestRunParallelPreservesInputOrder(t *testing.T) {
	// First task finishes last; results still come back in input order.
	script := []agent.MockBehavior{
		{Outcome: &agent.Outcome{Done: true}, BeforeReturn: func() { time.Sleep(40 * time.Millisecond) }},
		{Outcome: &agent.Outcome{Done: true}},
		{Outcome: &agent.Outcome{Done: true}},
	}
	provider := agent.NewMockProvider(script...)
	r := NewRunner(provider, WithPolicy(PolicyParallel), WithMaxParallel(0), WithBatchPause(0))

	results := r.Run(context.Background(), makeTasks("slow", "fast", "faster"))

	require.Len(t, results, 3)
	assert.Equal(t, []string{"slow", "fast", "faster"},
		[]string{results[0].Scenario, results[1].Scenario, results[2].Scenario})
}

func TestRunParallelFailureDoesNotCancelSiblings(t *testing.T) {
	script := []agent.MockBehavior{
		{RunErr: errors.New("boom")},
		doneOutcome("fine"),
		doneOutcome("fine"),
		{AcquireErr: errors.New("no grid slot")},
	}
	provider := agent.NewMockProvider(script...)
	r := NewRunner(provider, WithPolicy(PolicyParallel), WithMaxParallel(0), WithBatchPause(0))

	results := r.Run(context.Background(), makeTasks("w", "x", "y", "z"))

	require.Len(t, results, 4)
	assert.False(t, results[0].Success)
	assert.True(t, results[1].Success)
	assert.True(t, results[2].Success)
	assert.False(t, results[3].Success)
}

func TestRunParallelBatchPause(t *testing.T) {
	const pause = 30 * time.Millisecond
	script := make([]agent.MockBehavior, 4)
	for i := range script {
		script[i] = doneOutcome("ok")
	}
	provider := agent.NewMockProvider(script...)
	r := NewRunner(provider, WithPolicy(PolicyParallel), WithMaxParallel(2), WithBatchPause(pause))

	start := time.Now()
	r.Run(context.Background(), makeTasks("a", "b", "c", "d"))

	// One pause between the two batches, none after the last.
	assert.GreaterOrEqual(t, time.Since(start), pause)
}

func TestRunResultCountMatchesInputBothPolicies(t *testing.T) {
	for _, policy := range []Policy{PolicySequential, PolicyParallel} {
		script := make([]agent.MockBehavior, 6)
		for i := range script {
			if i%2 == 0 {
				script[i] = doneOutcome("ok")
			} else {
				script[i] = agent.MockBehavior{RunErr: errors.New("boom")}
			}
		}
		provider := agent.NewMockProvider(script...)
		r := NewRunner(provider, WithPolicy(policy), WithMaxParallel(2), WithBatchPause(0))

		results := r.Run(context.Background(), makeTasks("a", "b", "c", "d", "e", "f"))
		assert.Len(t, results, 6, "policy %s", policy)
	}
}

func TestRunProgressEvents(t *testing.T) {
	provider := agent.NewMockProvider(doneOutcome("ok"), doneOutcome("ok"))
	r := NewRunner(provider)

	var mu sync.Mutex
	var events []EventType
	r.OnProgress(func(e ProgressEvent) {
		mu.Lock()
		events = append(events, e.EventType)
		mu.Unlock()
	})

	r.Run(context.Background(), makeTasks("a", "b"))

	assert.Equal(t, []EventType{
		EventRunStart,
		EventTaskStart, EventTaskComplete,
		EventTaskStart, EventTaskComplete,
		EventRunComplete,
	}, events)
}
