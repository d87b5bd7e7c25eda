package models

// TaskDescriptor is one row of the task sheet: a natural-language browser
// instruction plus scheduling metadata. Descriptors are created by the sheet
// reader and treated as read-only afterwards.
type TaskDescriptor struct {
	ScenarioName string `json:"scenario_name"`
	PromptText   string `json:"prompt_text"`
	Category     string `json:"category"`
	Priority     string `json:"priority"`
	Active       bool   `json:"active"`
}
