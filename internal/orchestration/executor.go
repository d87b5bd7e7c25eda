package orchestration

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/webagentaa/webagent/internal/agent"
	"github.com/webagentaa/webagent/internal/models"
)

const timestampLayout = "15:04:05"

// executeTask runs exactly one task end to end: acquire a fresh session,
// invoke it, interpret the outcome, normalize the step history, and tear the
// session down no matter what happened. It never returns an error; every
// failure path becomes a result with Success=false and a masked reason.
func (r *Runner) executeTask(ctx context.Context, task models.TaskDescriptor, taskNumber int) models.TaskResult {
	start := time.Now()

	result := models.TaskResult{
		TaskNumber: taskNumber,
		Scenario:   task.ScenarioName,
		Category:   task.Category,
		Priority:   task.Priority,
		Prompt:     task.PromptText,
	}
	result.Logs = append(result.Logs,
		logLine(start, "Test execution started"),
		logLine(start, "Scenario: "+task.ScenarioName),
		logLine(start, "Category: "+task.Category),
		logLine(start, "Priority: "+task.Priority),
	)

	outcome, runErr := r.runSession(ctx, task.PromptText)

	end := time.Now()
	result.DurationMs = end.Sub(start).Milliseconds()

	if runErr != nil {
		masked := r.masker.Mask(runErr.Error())
		result.Success = false
		result.Error = masked
		// Partial step history is discarded on failure, not partially reported.
		result.Steps = nil
		result.Logs = append(result.Logs,
			logLine(end, "ERROR: "+masked),
			logLine(end, "Status: FAILED - Exception occurred"),
		)
		return result
	}

	result.Steps = r.normalizeSteps(outcome.History)
	for _, step := range result.Steps {
		result.Logs = append(result.Logs, logLine(start, fmt.Sprintf("Step %d: %s", step.StepNumber, step.Action)))
	}
	result.Logs = append(result.Logs,
		logLine(end, "Test execution completed"),
		logLine(end, fmt.Sprintf("Duration: %.2f seconds", end.Sub(start).Seconds())),
	)

	success, reason := r.interpretCompletion(outcome)
	result.Success = success
	if success {
		result.Logs = append(result.Logs, logLine(end, "Status: PASSED"))
		return result
	}

	result.Error = reason
	if outcome.FinalResult != "" {
		result.Logs = append(result.Logs, logLine(end, "Final result: "+r.masker.Mask(outcome.FinalResult)))
	}
	result.Logs = append(result.Logs, logLine(end, "Status: FAILED - "+reason))
	return result
}

// runSession owns the session lifecycle for one task: acquire, run, and a
// guaranteed teardown. A teardown failure is logged as a warning and never
// alters the task's outcome.
func (r *Runner) runSession(ctx context.Context, instruction string) (*agent.Outcome, error) {
	session, err := r.provider.Acquire(ctx)
	if err != nil {
		return nil, fmt.Errorf("acquiring session: %w", err)
	}
	defer func() {
		if cerr := session.Close(); cerr != nil {
			slog.Warn("session cleanup failed", "error", r.masker.Mask(cerr.Error()))
		}
	}()

	outcome, err := session.Run(ctx, instruction)
	if err != nil {
		return nil, err
	}
	if outcome == nil {
		return nil, fmt.Errorf("agent returned no outcome")
	}
	return outcome, nil
}

// interpretCompletion applies the completion policy: a "done" claim is
// downgraded to failure when the final message carries a failure phrase.
func (r *Runner) interpretCompletion(outcome *agent.Outcome) (bool, string) {
	if !outcome.Done {
		return false, "Task not completed"
	}
	if phrase, found := matchFailurePhrase(outcome.FinalResult, r.phrases); found {
		return false, fmt.Sprintf("agent reported completion but the final message indicates failure (matched %q)", phrase)
	}
	return true, ""
}

// normalizeSteps converts the agent's loose step history into ordered,
// masked step records. Step numbers are 1-based sequence positions.
func (r *Runner) normalizeSteps(history []agent.HistoryStep) []models.StepRecord {
	if len(history) == 0 {
		return nil
	}
	steps := make([]models.StepRecord, 0, len(history))
	for i, h := range history {
		action, details := agent.ExtractAction(h)
		steps = append(steps, models.StepRecord{
			StepNumber:    i + 1,
			Action:        action,
			ActionDetails: r.masker.Mask(details),
			Thought:       r.masker.Mask(h.Thought),
			Result:        r.masker.Mask(h.Result),
			ModelOutput:   r.masker.Mask(h.ModelOutput),
		})
	}
	return steps
}

func logLine(t time.Time, message string) string {
	return "[" + t.Format(timestampLayout) + "] " + message
}
