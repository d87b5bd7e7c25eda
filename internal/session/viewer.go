package session

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"
)

// LogFile represents a run log file on disk.
type LogFile struct {
	Path      string
	Name      string
	Size      int64
	ModTime   time.Time
	NumEvents int
}

// ListLogs finds .jsonl run log files in dir, newest first.
func ListLogs(dir string) ([]LogFile, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("reading run log directory: %w", err)
	}

	var files []LogFile
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		if !strings.HasSuffix(e.Name(), "-run.jsonl") {
			continue
		}
		info, err := e.Info()
		if err != nil {
			continue
		}

		path := filepath.Join(dir, e.Name())
		n, _ := countLines(path) //nolint:errcheck
		files = append(files, LogFile{
			Path:      path,
			Name:      e.Name(),
			Size:      info.Size(),
			ModTime:   info.ModTime(),
			NumEvents: n,
		})
	}

	sort.Slice(files, func(i, j int) bool {
		return files[i].ModTime.After(files[j].ModTime)
	})

	return files, nil
}

func countLines(path string) (int, error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, err
	}
	defer f.Close() //nolint:errcheck
	n := 0
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		n++
	}
	return n, scanner.Err()
}

// ReadEvents parses all events from a run log file.
func ReadEvents(path string) ([]Event, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening run log: %w", err)
	}
	defer f.Close() //nolint:errcheck

	var events []Event
	scanner := bufio.NewScanner(f)
	// Increase buffer for large lines.
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		var ev Event
		if err := json.Unmarshal(scanner.Bytes(), &ev); err != nil {
			continue // skip malformed lines
		}
		events = append(events, ev)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading run log: %w", err)
	}
	return events, nil
}

// RenderTimeline writes a human-readable run timeline to w.
//
//nolint:errcheck // display-only writes; errors are not actionable
func RenderTimeline(w io.Writer, events []Event) {
	if len(events) == 0 {
		fmt.Fprintln(w, "No events found.")
		return
	}

	fmt.Fprintln(w, "═══════════════════════════════════════════════════════")
	fmt.Fprintln(w, " RUN TIMELINE")
	fmt.Fprintln(w, "═══════════════════════════════════════════════════════")
	fmt.Fprintln(w)

	start := events[0].Timestamp
	for _, ev := range events {
		elapsed := ev.Timestamp.Sub(start)
		ts := formatElapsed(elapsed)

		switch ev.Type {
		case EventRunStart:
			runID, _ := ev.Data["run_id"].(string) //nolint:errcheck
			mode, _ := ev.Data["mode"].(string)    //nolint:errcheck
			taskCount := jsonNumber(ev.Data["task_count"])
			fmt.Fprintf(w, "[%s] 🚀 Run started  id=%s  mode=%s  tasks=%d\n", ts, runID, mode, taskCount)

		case EventTaskStart:
			scenario, _ := ev.Data["scenario"].(string) //nolint:errcheck
			num := jsonNumber(ev.Data["task_num"])
			total := jsonNumber(ev.Data["total_tasks"])
			fmt.Fprintf(w, "[%s] ▶  Task %d/%d: %s\n", ts, num, total, scenario)

		case EventTaskComplete:
			scenario, _ := ev.Data["scenario"].(string) //nolint:errcheck
			status, _ := ev.Data["status"].(string)     //nolint:errcheck
			dur := jsonNumber(ev.Data["duration_ms"])
			icon := "✓"
			if status != "passed" {
				icon = "✗"
			}
			fmt.Fprintf(w, "[%s] %s  Task complete: %s [%s] (%dms)\n", ts, icon, scenario, status, dur)

		case EventBatchStart:
			fmt.Fprintf(w, "[%s] 📦 Batch %d started\n", ts, jsonNumber(ev.Data["batch_num"]))

		case EventBatchComplete:
			fmt.Fprintf(w, "[%s] 📦 Batch %d complete\n", ts, jsonNumber(ev.Data["batch_num"]))

		case EventDelay:
			fmt.Fprintf(w, "[%s] ⏳ Waiting before next task\n", ts)

		case EventError:
			msg, _ := ev.Data["message"].(string) //nolint:errcheck
			fmt.Fprintf(w, "[%s] ❌ Error: %s\n", ts, msg)

		case EventRunComplete:
			total := jsonNumber(ev.Data["total"])
			passed := jsonNumber(ev.Data["passed"])
			failed := jsonNumber(ev.Data["failed"])
			dur := jsonNumber(ev.Data["duration_ms"])
			fmt.Fprintf(w, "[%s] 🏁 Run complete  %d/%d passed  %d failed  (%dms)\n",
				ts, passed, total, failed, dur)

		default:
			fmt.Fprintf(w, "[%s] %s %v\n", ts, ev.Type, ev.Data)
		}
	}
	fmt.Fprintln(w)
}

func formatElapsed(d time.Duration) string {
	if d < time.Second {
		return fmt.Sprintf("%6dms", d.Milliseconds())
	}
	return fmt.Sprintf("%6.1fs", d.Seconds())
}

// jsonNumber extracts a number from a JSON-decoded interface{} (float64 or json.Number).
func jsonNumber(v any) int {
	switch n := v.(type) {
	case float64:
		return int(n)
	case int:
		return n
	case json.Number:
		i, _ := n.Int64() //nolint:errcheck
		return int(i)
	}
	return 0
}
