package agent

import (
	"regexp"
	"sort"
	"strings"

	"github.com/go-viper/mapstructure/v2"
)

// ActionUnknown is the label used when no classification rule matches.
const ActionUnknown = "N/A"

// actionPayload captures the discriminant fields an action payload may carry.
// Agents disagree on the field name, so both are probed.
type actionPayload struct {
	Type    string         `mapstructure:"type"`
	Name    string         `mapstructure:"name"`
	Details map[string]any `mapstructure:",remain"`
}

// verbRule maps a word-boundary pattern over the step's result text to an
// action label. Rules are evaluated in order; the first match wins.
type verbRule struct {
	pattern *regexp.Regexp
	label   string
}

var verbRules = []verbRule{
	{regexp.MustCompile(`(?i)\bclick(?:ed|ing)?\b`), "click"},
	{regexp.MustCompile(`(?i)\bscroll(?:ed|ing)?\b`), "scroll"},
	{regexp.MustCompile(`(?i)\b(?:navigat(?:e|ed|ing)|go(?:ing)? to)\b`), "navigate"},
	{regexp.MustCompile(`(?i)\bwait(?:ed|ing)?\b`), "wait"},
	{regexp.MustCompile(`(?i)\bswitch(?:ed|ing)?\b.{0,20}\btab\b`), "switch_tab"},
	{regexp.MustCompile(`(?i)\b(?:input|typ(?:e|ed|ing)|enter(?:ed|ing)?)\b`), "input"},
	{regexp.MustCompile(`(?i)\bsearch(?:ed|ing)?\b`), "search"},
	{regexp.MustCompile(`(?i)\bextract(?:ed|ing)?\b`), "extract"},
	{regexp.MustCompile(`(?i)\bdone\b`), "done"},
}

// ExtractAction derives a best-effort action label and detail string for one
// history step. Preference order: the nested payload's discriminant (with
// generic "Model"/"Action" suffixes stripped), then a verb scan over the
// result text, then ActionUnknown. This is classification over an untyped
// external shape, not a strict parse.
func ExtractAction(step HistoryStep) (label, details string) {
	switch v := step.Action.(type) {
	case nil:
		// fall through to the verb scan
	case string:
		if name := normalizeActionName(v); name != "" {
			return name, ""
		}
	case map[string]any:
		if name, det, ok := classifyPayload(v); ok {
			return name, det
		}
	}

	for _, rule := range verbRules {
		if rule.pattern.MatchString(step.Result) {
			return rule.label, ""
		}
	}
	return ActionUnknown, ""
}

// classifyPayload inspects a nested action payload for a discriminant label.
// A payload with exactly one key uses that key as the label and its value as
// the details; otherwise the "type"/"name" fields are probed.
func classifyPayload(raw map[string]any) (label, details string, ok bool) {
	if len(raw) == 1 {
		for k, v := range raw {
			if name := normalizeActionName(k); name != "" {
				return name, stringifyDetails(v), true
			}
		}
	}

	var p actionPayload
	if err := mapstructure.Decode(raw, &p); err != nil {
		return "", "", false
	}
	discriminant := p.Type
	if discriminant == "" {
		discriminant = p.Name
	}
	if name := normalizeActionName(discriminant); name != "" {
		return name, stringifyDetails(p.Details), true
	}
	return "", "", false
}

// normalizeActionName strips the generic "Model"/"Action" suffixes agents
// append to their payload type names, e.g. "ClickElementAction" -> "ClickElement".
func normalizeActionName(name string) string {
	name = strings.TrimSpace(name)
	for _, suffix := range []string{"Model", "Action"} {
		name = strings.TrimSuffix(name, suffix)
	}
	return strings.TrimSpace(name)
}

func stringifyDetails(v any) string {
	switch d := v.(type) {
	case nil:
		return ""
	case string:
		return d
	case map[string]any:
		if len(d) == 0 {
			return ""
		}
		parts := make([]string, 0, len(d))
		for k, val := range d {
			if s, ok := val.(string); ok {
				parts = append(parts, k+"="+s)
			}
		}
		sort.Strings(parts)
		return strings.Join(parts, " ")
	default:
		return ""
	}
}
