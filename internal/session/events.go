// Package session records run events as newline-delimited JSON so a finished
// run can be replayed as a timeline.
package session

import "time"

// EventType identifies the kind of run event.
type EventType string

const (
	EventRunStart      EventType = "run_start"
	EventRunComplete   EventType = "run_complete"
	EventTaskStart     EventType = "task_start"
	EventTaskComplete  EventType = "task_complete"
	EventBatchStart    EventType = "batch_start"
	EventBatchComplete EventType = "batch_complete"
	EventDelay         EventType = "delay"
	EventError         EventType = "error"
)

// Event is a single timestamped entry in a run log.
type Event struct {
	Timestamp time.Time      `json:"timestamp"`
	Type      EventType      `json:"type"`
	Data      map[string]any `json:"data,omitempty"`
}

// NewEvent creates an event with the current timestamp.
func NewEvent(t EventType, data map[string]any) Event {
	return Event{
		Timestamp: time.Now().UTC(),
		Type:      t,
		Data:      data,
	}
}

// RunStartData returns event data for a run start.
func RunStartData(runID, mode string, taskCount int) map[string]any {
	return map[string]any{
		"run_id":     runID,
		"mode":       mode,
		"task_count": taskCount,
	}
}

// RunCompleteData returns event data for a run end.
func RunCompleteData(total, passed, failed int, durationMs int64) map[string]any {
	return map[string]any{
		"total":       total,
		"passed":      passed,
		"failed":      failed,
		"duration_ms": durationMs,
	}
}

// TaskStartData returns event data for a task start.
func TaskStartData(scenario string, taskNum, totalTasks int) map[string]any {
	return map[string]any{
		"scenario":    scenario,
		"task_num":    taskNum,
		"total_tasks": totalTasks,
	}
}

// TaskCompleteData returns event data for a task completion.
func TaskCompleteData(scenario, status string, taskNum int, durationMs int64) map[string]any {
	return map[string]any{
		"scenario":    scenario,
		"status":      status,
		"task_num":    taskNum,
		"duration_ms": durationMs,
	}
}

// BatchData returns event data for batch boundaries under the parallel policy.
func BatchData(batchNum int) map[string]any {
	return map[string]any{
		"batch_num": batchNum,
	}
}
