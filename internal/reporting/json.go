package reporting

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/webagentaa/webagent/internal/models"
)

// JSONReport is the machine-readable run report written next to the HTML one.
type JSONReport struct {
	GeneratedAt time.Time           `json:"generated_at"`
	Summary     models.RunSummary   `json:"summary"`
	Tasks       []models.TaskResult `json:"tasks"`
}

// WriteJSONReport writes a timestamped JSON report into dir, prunes older
// json_report_* files, and refreshes the stable json-report.json copy that
// dashboards point at. Returns the timestamped report path.
func WriteJSONReport(summary models.RunSummary, results []models.TaskResult, dir string) (string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("creating reports directory: %w", err)
	}

	pruneReports(dir, "json_report_*.json")

	report := JSONReport{
		GeneratedAt: time.Now(),
		Summary:     summary,
		Tasks:       results,
	}
	data, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return "", fmt.Errorf("marshaling JSON report: %w", err)
	}
	data = append(data, '\n')

	path := filepath.Join(dir, fmt.Sprintf("json_report_%s.json", report.GeneratedAt.Format("20060102_150405")))
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("writing JSON report: %w", err)
	}

	// Stable name for consumers that always want the latest report.
	latest := filepath.Join(dir, "json-report.json")
	if err := os.WriteFile(latest, data, 0o644); err != nil {
		return "", fmt.Errorf("writing latest JSON report copy: %w", err)
	}

	return path, nil
}

// WriteResultsFile writes the results JSON to an explicit path, for callers
// that want the document somewhere other than the reports directory.
func WriteResultsFile(summary models.RunSummary, results []models.TaskResult, path string) error {
	report := JSONReport{
		GeneratedAt: time.Now(),
		Summary:     summary,
		Tasks:       results,
	}
	data, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling results: %w", err)
	}
	data = append(data, '\n')
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing results: %w", err)
	}
	return nil
}

// pruneReports deletes files in dir matching pattern, keeping the directory to
// a single generation of reports. Deletion failures are non-fatal.
func pruneReports(dir, pattern string) {
	matches, err := filepath.Glob(filepath.Join(dir, pattern))
	if err != nil {
		return
	}
	for _, m := range matches {
		_ = os.Remove(m) //nolint:errcheck
	}
}
