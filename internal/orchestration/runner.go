// Package orchestration schedules browser-automation tasks over an agent
// provider and turns whatever the agent reports into uniform result records.
package orchestration

import (
	"context"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/webagentaa/webagent/internal/agent"
	"github.com/webagentaa/webagent/internal/masking"
	"github.com/webagentaa/webagent/internal/models"
)

// Policy selects how a batch of tasks is executed.
type Policy string

const (
	// PolicySequential runs tasks strictly one at a time with an inter-task
	// delay. This is the default: it bounds external resource usage to one
	// session and lets the agent's environment settle between tasks.
	PolicySequential Policy = "sequential"

	// PolicyParallel runs tasks in consecutive batches of up to MaxParallel
	// concurrent sessions.
	PolicyParallel Policy = "parallel"
)

// defaultBatchPause is the settling pause between parallel batches.
const defaultBatchPause = 2 * time.Second

// EventType identifies a progress event.
type EventType string

const (
	EventRunStart      EventType = "run_start"
	EventRunComplete   EventType = "run_complete"
	EventTaskStart     EventType = "task_start"
	EventTaskComplete  EventType = "task_complete"
	EventBatchStart    EventType = "batch_start"
	EventBatchComplete EventType = "batch_complete"
	EventDelay         EventType = "delay"
)

// ProgressEvent is a progress update emitted while a run is in flight.
type ProgressEvent struct {
	EventType  EventType
	Scenario   string
	TaskNum    int
	TotalTasks int
	BatchNum   int
	Status     models.Status
	DurationMs int64
}

// ProgressListener receives progress updates.
type ProgressListener func(event ProgressEvent)

// Runner executes task descriptors against an agent provider under one of two
// policies and collects results in input order.
type Runner struct {
	provider agent.Provider
	masker   *masking.Masker

	policy      Policy
	taskDelay   time.Duration
	maxParallel int
	batchPause  time.Duration
	phrases     []string

	progressMu sync.Mutex
	listeners  []ProgressListener
}

// RunnerOption configures a Runner.
type RunnerOption func(*Runner)

// WithPolicy selects the execution policy.
func WithPolicy(p Policy) RunnerOption {
	return func(r *Runner) { r.policy = p }
}

// WithTaskDelay sets the pause between tasks under the sequential policy.
func WithTaskDelay(d time.Duration) RunnerOption {
	return func(r *Runner) { r.taskDelay = d }
}

// WithMaxParallel bounds concurrently in-flight sessions under the parallel
// policy. Zero means unlimited (one batch).
func WithMaxParallel(n int) RunnerOption {
	return func(r *Runner) { r.maxParallel = n }
}

// WithBatchPause overrides the settling pause between parallel batches.
func WithBatchPause(d time.Duration) RunnerOption {
	return func(r *Runner) { r.batchPause = d }
}

// WithMasker sets the sensitive-data masker applied to all agent-sourced text.
func WithMasker(m *masking.Masker) RunnerOption {
	return func(r *Runner) { r.masker = m }
}

// WithFailurePhrases replaces the completion-interpretation policy table.
func WithFailurePhrases(phrases []string) RunnerOption {
	return func(r *Runner) { r.phrases = phrases }
}

// NewRunner creates a runner over the given provider.
func NewRunner(provider agent.Provider, opts ...RunnerOption) *Runner {
	r := &Runner{
		provider:   provider,
		masker:     masking.NewMasker(),
		policy:     PolicySequential,
		batchPause: defaultBatchPause,
		phrases:    DefaultFailurePhrases,
	}
	for _, o := range opts {
		o(r)
	}
	return r
}

// OnProgress registers a progress listener.
func (r *Runner) OnProgress(listener ProgressListener) {
	r.progressMu.Lock()
	defer r.progressMu.Unlock()
	r.listeners = append(r.listeners, listener)
}

func (r *Runner) notifyProgress(event ProgressEvent) {
	r.progressMu.Lock()
	listeners := make([]ProgressListener, len(r.listeners))
	copy(listeners, r.listeners)
	r.progressMu.Unlock()

	for _, listener := range listeners {
		listener(event)
	}
}

// Run executes tasks under the configured policy. The returned slice has one
// result per input task, in input order, for both policies.
func (r *Runner) Run(ctx context.Context, tasks []models.TaskDescriptor) []models.TaskResult {
	start := time.Now()
	r.notifyProgress(ProgressEvent{EventType: EventRunStart, TotalTasks: len(tasks)})

	var results []models.TaskResult
	if r.policy == PolicyParallel {
		results = r.runParallel(ctx, tasks)
	} else {
		results = r.runSequential(ctx, tasks)
	}

	r.notifyProgress(ProgressEvent{
		EventType:  EventRunComplete,
		TotalTasks: len(tasks),
		DurationMs: time.Since(start).Milliseconds(),
	})
	return results
}

// runSequential executes tasks one at a time in input order, pausing
// taskDelay after every task except the last.
func (r *Runner) runSequential(ctx context.Context, tasks []models.TaskDescriptor) []models.TaskResult {
	results := make([]models.TaskResult, 0, len(tasks))

	for i, task := range tasks {
		results = append(results, r.runOne(ctx, task, i+1, len(tasks)))

		if i < len(tasks)-1 && r.taskDelay > 0 {
			r.notifyProgress(ProgressEvent{EventType: EventDelay, TaskNum: i + 1, TotalTasks: len(tasks), DurationMs: r.taskDelay.Milliseconds()})
			sleepCtx(ctx, r.taskDelay)
		}
	}
	return results
}

// runParallel executes tasks in consecutive batches of up to maxParallel.
// With maxParallel zero or >= len(tasks) everything launches as one batch.
// A task failure never cancels its siblings: the executor is total, so the
// batch join only collects outcomes. Results land at their input index.
func (r *Runner) runParallel(ctx context.Context, tasks []models.TaskDescriptor) []models.TaskResult {
	results := make([]models.TaskResult, len(tasks))

	batchSize := r.maxParallel
	if batchSize <= 0 || batchSize > len(tasks) {
		batchSize = len(tasks)
	}

	batchNum := 0
	for offset := 0; offset < len(tasks); offset += batchSize {
		end := offset + batchSize
		if end > len(tasks) {
			end = len(tasks)
		}
		batchNum++

		r.notifyProgress(ProgressEvent{EventType: EventBatchStart, BatchNum: batchNum, TotalTasks: len(tasks)})

		var g errgroup.Group
		for idx := offset; idx < end; idx++ {
			idx := idx
			g.Go(func() error {
				results[idx] = r.runOne(ctx, tasks[idx], idx+1, len(tasks))
				return nil
			})
		}
		// Never returns an error: runOne converts every failure into a result.
		_ = g.Wait()

		r.notifyProgress(ProgressEvent{EventType: EventBatchComplete, BatchNum: batchNum, TotalTasks: len(tasks)})

		if end < len(tasks) && r.batchPause > 0 {
			sleepCtx(ctx, r.batchPause)
		}
	}
	return results
}

// runOne wraps the executor with start/complete progress events.
func (r *Runner) runOne(ctx context.Context, task models.TaskDescriptor, taskNumber, total int) models.TaskResult {
	r.notifyProgress(ProgressEvent{
		EventType:  EventTaskStart,
		Scenario:   task.ScenarioName,
		TaskNum:    taskNumber,
		TotalTasks: total,
	})

	result := r.executeTask(ctx, task, taskNumber)

	r.notifyProgress(ProgressEvent{
		EventType:  EventTaskComplete,
		Scenario:   task.ScenarioName,
		TaskNum:    taskNumber,
		TotalTasks: total,
		Status:     result.Status(),
		DurationMs: result.DurationMs,
	})
	return result
}

// sleepCtx pauses for d or until ctx is done, whichever comes first.
func sleepCtx(ctx context.Context, d time.Duration) {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
	case <-t.C:
	}
}
