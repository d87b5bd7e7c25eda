package agent

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/santhosh-tekuri/jsonschema/v6"
)

// outcomeSchema is the structural contract for the JSON document the agent
// process writes on stdout. It is loose: only the completion flag
// is required, and history entries may carry their action payload in any
// shape. Anything that violates this schema is a malformed agent response and
// surfaces as an execution error, not a crash.
const outcomeSchema = `{
  "$schema": "https://json-schema.org/draft/2020-12/schema",
  "type": "object",
  "required": ["done"],
  "properties": {
    "done": {"type": "boolean"},
    "final_result": {"type": "string"},
    "history": {
      "type": "array",
      "items": {
        "type": "object",
        "properties": {
          "action": {},
          "result": {"type": "string"},
          "model_output": {"type": "string"},
          "thought": {"type": "string"}
        }
      }
    }
  }
}`

var compiledOutcomeSchema = mustCompileOutcomeSchema()

func mustCompileOutcomeSchema() *jsonschema.Schema {
	doc, err := jsonschema.UnmarshalJSON(bytes.NewReader([]byte(outcomeSchema)))
	if err != nil {
		panic(fmt.Sprintf("agent: parsing outcome schema: %v", err))
	}
	c := jsonschema.NewCompiler()
	if err := c.AddResource("outcome.json", doc); err != nil {
		panic(fmt.Sprintf("agent: registering outcome schema: %v", err))
	}
	s, err := c.Compile("outcome.json")
	if err != nil {
		panic(fmt.Sprintf("agent: compiling outcome schema: %v", err))
	}
	return s
}

// ParseOutcome validates and decodes the agent's outcome document.
func ParseOutcome(data []byte) (*Outcome, error) {
	doc, err := jsonschema.UnmarshalJSON(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("agent returned invalid JSON: %w", err)
	}
	if err := compiledOutcomeSchema.Validate(doc); err != nil {
		return nil, fmt.Errorf("agent outcome failed schema validation: %w", err)
	}

	var out Outcome
	if err := json.Unmarshal(data, &out); err != nil {
		return nil, fmt.Errorf("decoding agent outcome: %w", err)
	}
	return &out, nil
}
