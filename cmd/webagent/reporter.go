package main

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/mattn/go-runewidth"
	"golang.org/x/term"

	"github.com/webagentaa/webagent/internal/models"
	"github.com/webagentaa/webagent/internal/orchestration"
	"github.com/webagentaa/webagent/internal/spinner"
)

// terminalWidth returns the current terminal width, falling back to 100
// columns for pipes and CI output.
func terminalWidth() int {
	if w, _, err := term.GetSize(int(os.Stdout.Fd())); err == nil && w > 0 {
		return w
	}
	return 100
}

// fitLine truncates s to the terminal width, ellipsis included, so progress
// lines never wrap mid-run.
func fitLine(s string) string {
	return runewidth.Truncate(s, terminalWidth(), "…")
}

func verboseProgressListener(event orchestration.ProgressEvent) {
	switch event.EventType {
	case orchestration.EventRunStart:
		fmt.Printf("Starting run with %d task(s)...\n\n", event.TotalTasks)
	case orchestration.EventTaskStart:
		fmt.Println(fitLine(fmt.Sprintf("[%d/%d] Running: %s", event.TaskNum, event.TotalTasks, event.Scenario)))
	case orchestration.EventTaskComplete:
		duration := time.Duration(event.DurationMs) * time.Millisecond
		fmt.Println(fitLine(fmt.Sprintf("[%d/%d] %s: %s (%v)", event.TaskNum, event.TotalTasks, event.Scenario, event.Status, duration)))
	case orchestration.EventBatchStart:
		fmt.Printf("Batch %d starting...\n", event.BatchNum)
	case orchestration.EventBatchComplete:
		fmt.Printf("Batch %d complete.\n\n", event.BatchNum)
	case orchestration.EventDelay:
		duration := time.Duration(event.DurationMs) * time.Millisecond
		fmt.Printf("  waiting %v before next task...\n", duration)
	case orchestration.EventRunComplete:
		duration := time.Duration(event.DurationMs) * time.Millisecond
		fmt.Printf("Run completed in %v\n", duration)
	}
}

func simpleProgressListener(event orchestration.ProgressEvent) {
	if event.EventType != orchestration.EventTaskComplete {
		return
	}
	status := "✓"
	if event.Status != models.StatusPassed {
		status = "✗"
	}
	fmt.Println(fitLine(fmt.Sprintf("%s [%d/%d] %s", status, event.TaskNum, event.TotalTasks, event.Scenario)))
}

// spinnerProgressListener shows a live spinner per task. Only safe under the
// sequential policy where a single task is in flight at a time.
func spinnerProgressListener() orchestration.ProgressListener {
	var stop func()
	return func(event orchestration.ProgressEvent) {
		switch event.EventType {
		case orchestration.EventTaskStart:
			stop = spinner.Start(os.Stdout, fitLine(fmt.Sprintf("[%d/%d] %s", event.TaskNum, event.TotalTasks, event.Scenario)))
		case orchestration.EventTaskComplete:
			if stop != nil {
				stop()
				stop = nil
			}
		}
	}
}

// printTaskTable renders the task listing used by "tasks" and "run --dry-run".
func printTaskTable(w io.Writer, tasks []models.TaskDescriptor) {
	fmt.Fprintf(w, "%-4s %-40s %-15s %-10s\n", "#", "Scenario", "Category", "Priority")
	fmt.Fprintln(w, "────────────────────────────────────────────────────────────────────────")
	for i, task := range tasks {
		fmt.Fprintf(w, "%-4d %-40s %-15s %-10s\n", i+1,
			runewidth.Truncate(task.ScenarioName, 40, "…"),
			runewidth.Truncate(task.Category, 15, "…"),
			task.Priority)
	}
}
