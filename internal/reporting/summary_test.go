package reporting

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/webagentaa/webagent/internal/models"
)

func TestFormatConsoleSummary(t *testing.T) {
	summary, results := sampleRun()

	out := FormatConsoleSummary(summary, results)

	assert.Contains(t, out, "TEST EXECUTION SUMMARY")
	assert.Contains(t, out, "Total Tasks:  2")
	assert.Contains(t, out, "Passed:       1")
	assert.Contains(t, out, "Failed:       1")
	assert.Contains(t, out, "Pass Rate:    50.0%")
	assert.Contains(t, out, "Failed Tasks:")
	assert.Contains(t, out, "#2 Checkout: Task not completed")
}

func TestFormatConsoleSummaryAllPassed(t *testing.T) {
	results := []models.TaskResult{
		{TaskNumber: 1, Scenario: "Login Flow", Success: true},
	}
	summary := models.Summarize(results)

	out := FormatConsoleSummary(summary, results)

	assert.Contains(t, out, "Pass Rate:    100.0%")
	assert.NotContains(t, out, "Failed Tasks:")
}

func TestFormatMarkdownSummary(t *testing.T) {
	summary, results := sampleRun()

	out := FormatMarkdownSummary(summary, results)

	assert.Contains(t, out, "## 🧪 Browser Test Results")
	assert.Contains(t, out, "❌ Failed")
	assert.Contains(t, out, "| 1 | Login Flow | Auth | High | ✅ |")
	assert.Contains(t, out, "| 2 | Checkout | Payments | High | ❌ |")
	assert.Contains(t, out, "### Failed Task Details")
	assert.Contains(t, out, "> Task not completed")
	assert.Contains(t, out, "run-123")
}

func TestFormatMarkdownSummaryPassedStatus(t *testing.T) {
	results := []models.TaskResult{
		{TaskNumber: 1, Scenario: "Login Flow", Category: "Auth", Priority: "High", Success: true},
	}
	summary := models.Summarize(results)

	out := FormatMarkdownSummary(summary, results)

	assert.Contains(t, out, "✅ Passed")
	assert.NotContains(t, out, "### Failed Task Details")
}

func TestFormatDuration(t *testing.T) {
	tests := []struct {
		d    time.Duration
		want string
	}{
		{500 * time.Millisecond, "500ms"},
		{13300 * time.Millisecond, "13.3s"},
		{61 * time.Second, "1m1s"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, formatDuration(tt.d))
	}
}
