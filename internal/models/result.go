package models

// Status represents the outcome status of an executed task.
type Status string

const (
	StatusPassed Status = "passed"
	StatusFailed Status = "failed"
)

// StepRecord is one observed action taken by the automation session during a
// task. Records are appended in order as the session reports its history and
// are never mutated afterwards.
type StepRecord struct {
	StepNumber    int    `json:"step_number"`
	Action        string `json:"action"`
	ActionDetails string `json:"action_details,omitempty"`
	Thought       string `json:"thought,omitempty"`
	Result        string `json:"result,omitempty"`
	ModelOutput   string `json:"model_output,omitempty"`
}

// TaskResult is the normalized outcome record for one executed task.
//
// Invariant: Success == false exactly when Error is non-empty. The executor is
// the only producer and enforces this; consumers (reports, summaries) rely on
// it and never re-derive pass/fail.
type TaskResult struct {
	TaskNumber int          `json:"task_number"`
	Scenario   string       `json:"scenario"`
	Category   string       `json:"category"`
	Priority   string       `json:"priority"`
	Prompt     string       `json:"prompt"`
	Success    bool         `json:"success"`
	Error      string       `json:"error,omitempty"`
	DurationMs int64        `json:"duration_ms"`
	Logs       []string     `json:"logs,omitempty"`
	Steps      []StepRecord `json:"steps,omitempty"`
}

// Status maps the success flag onto a Status value.
func (r *TaskResult) Status() Status {
	if r.Success {
		return StatusPassed
	}
	return StatusFailed
}
