// Package masking redacts secret-like substrings from free text pulled out of
// the automation session (thoughts, step results, model output, error
// messages) before it is logged, stored, or rendered into a report.
package masking

import (
	"regexp"
	"strings"
)

// RedactionToken replaces every masked value. It contains no run of twenty or
// more word characters, so re-masking already-masked text is a no-op.
const RedactionToken = "***REDACTED***"

var (
	// JSON-shaped access key values, e.g. "accessKey": "abc123...".
	accessKeyJSON = regexp.MustCompile(`(?i)"accessKey"\s*:\s*"[^"]*"`)

	// key=value or key: value assignments where the key looks like an API key
	// and the value is a long opaque token.
	keyAssignment = regexp.MustCompile(`(?i)\b(access[_-]?key|api[_-]?key|secret[_-]?key|auth[_-]?token|secret|token|password|credential)\b(\s*[:=]\s*)['"]?\w{20,}['"]?`)
)

// Masker applies literal and pattern substitutions over free text. The zero
// value masks only pattern-shaped secrets; configured literals are added with
// NewMasker. Mask is pure, total, and idempotent.
type Masker struct {
	literals []string
}

// NewMasker builds a masker that redacts each non-empty secret literal in
// addition to the built-in patterns. Literal replacement runs before pattern
// replacement so a pattern can never consume part of a configured literal.
func NewMasker(secrets ...string) *Masker {
	m := &Masker{}
	for _, s := range secrets {
		if s != "" {
			m.literals = append(m.literals, s)
		}
	}
	return m
}

// Mask returns text with all configured literals and secret-shaped patterns
// replaced by the redaction token. Empty input is returned unchanged.
func (m *Masker) Mask(text string) string {
	if text == "" {
		return text
	}
	for _, lit := range m.literals {
		text = strings.ReplaceAll(text, lit, RedactionToken)
	}
	text = accessKeyJSON.ReplaceAllString(text, `"accessKey": "`+RedactionToken+`"`)
	text = keyAssignment.ReplaceAllString(text, "${1}${2}"+RedactionToken)
	return text
}

// MaskAll masks every string in texts, returning a new slice.
func (m *Masker) MaskAll(texts []string) []string {
	if texts == nil {
		return nil
	}
	out := make([]string, len(texts))
	for i, t := range texts {
		out[i] = m.Mask(t)
	}
	return out
}
