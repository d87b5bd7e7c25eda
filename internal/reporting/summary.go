package reporting

import (
	"fmt"
	"strings"
	"time"

	"github.com/webagentaa/webagent/internal/models"
)

// formatDuration formats a duration in a consistent, human-readable way.
func formatDuration(d time.Duration) string {
	if d < time.Second {
		return fmt.Sprintf("%dms", d.Milliseconds())
	}
	return d.Truncate(100 * time.Millisecond).String()
}

// FormatConsoleSummary renders the end-of-run summary block printed to the
// terminal after every run.
func FormatConsoleSummary(summary models.RunSummary, results []models.TaskResult) string {
	var b strings.Builder

	duration := time.Duration(summary.DurationMs) * time.Millisecond

	b.WriteString(strings.Repeat("=", 60) + "\n")
	b.WriteString("TEST EXECUTION SUMMARY\n")
	b.WriteString(strings.Repeat("=", 60) + "\n")
	b.WriteString(fmt.Sprintf("Total Tasks:  %d\n", summary.Total))
	b.WriteString(fmt.Sprintf("Passed:       %d\n", summary.Passed))
	b.WriteString(fmt.Sprintf("Failed:       %d\n", summary.Failed))
	b.WriteString(fmt.Sprintf("Pass Rate:    %.1f%%\n", summary.PassRate))
	b.WriteString(fmt.Sprintf("Duration:     %s\n", formatDuration(duration)))

	if summary.Failed > 0 {
		b.WriteString("\nFailed Tasks:\n")
		for _, r := range results {
			if r.Success {
				continue
			}
			b.WriteString(fmt.Sprintf("  #%d %s: %s\n", r.TaskNumber, r.Scenario, r.Error))
		}
	}
	b.WriteString(strings.Repeat("=", 60) + "\n")

	return b.String()
}

// FormatMarkdownSummary formats a run as a markdown comment suitable for
// posting on GitHub PRs.
func FormatMarkdownSummary(summary models.RunSummary, results []models.TaskResult) string {
	var b strings.Builder

	duration := time.Duration(summary.DurationMs) * time.Millisecond

	b.WriteString("## 🧪 Browser Test Results\n\n")

	statusIcon := "✅ Passed"
	if summary.Failed > 0 {
		statusIcon = "❌ Failed"
	}
	b.WriteString(fmt.Sprintf("**Status:** %s | **Pass Rate:** %.1f%% | **Duration:** %s\n\n",
		statusIcon, summary.PassRate, formatDuration(duration)))

	b.WriteString(fmt.Sprintf("- **Tasks:** %d total, %d passed, %d failed\n\n",
		summary.Total, summary.Passed, summary.Failed))

	b.WriteString("### Task Results\n\n")
	b.WriteString("| # | Scenario | Category | Priority | Status |\n")
	b.WriteString("|---|----------|----------|----------|--------|\n")

	for _, r := range results {
		icon := "✅"
		if !r.Success {
			icon = "❌"
		}
		b.WriteString(fmt.Sprintf("| %d | %s | %s | %s | %s |\n",
			r.TaskNumber, r.Scenario, r.Category, r.Priority, icon))
	}
	b.WriteString("\n")

	if summary.Failed > 0 {
		b.WriteString("### Failed Task Details\n\n")
		for _, r := range results {
			if r.Success {
				continue
			}
			b.WriteString(fmt.Sprintf("#### %s\n\n", r.Scenario))
			b.WriteString(fmt.Sprintf("> %s\n\n", r.Error))
		}
	}

	b.WriteString("---\n\n")
	b.WriteString(fmt.Sprintf("**Run:** %s | **Generated:** %s\n",
		summary.RunID, summary.Timestamp.Format(time.RFC3339)))

	return b.String()
}
