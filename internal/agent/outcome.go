package agent

// Outcome is what a session reports after running an instruction. The agent's
// step representation is heterogeneous across agent versions, so history
// entries carry their fields loosely and consumers probe for each shape.
type Outcome struct {
	Done        bool          `json:"done"`
	FinalResult string        `json:"final_result,omitempty"`
	History     []HistoryStep `json:"history,omitempty"`
}

// HistoryStep is one entry of the agent's step trace. Every field is
// optional. Action is either absent, a plain string, or a nested payload whose
// discriminant names the action kind; ExtractAction handles all three.
type HistoryStep struct {
	Action      any    `json:"action,omitempty"`
	Result      string `json:"result,omitempty"`
	ModelOutput string `json:"model_output,omitempty"`
	Thought     string `json:"thought,omitempty"`
}
