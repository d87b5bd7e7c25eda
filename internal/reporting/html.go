package reporting

import (
	"fmt"
	"html/template"
	"os"
	"path/filepath"
	"time"

	"github.com/webagentaa/webagent/internal/models"
)

// displayOutputLimit bounds model output length in the HTML report. The
// stored record keeps the full text; truncation is display-only.
const displayOutputLimit = 300

var reportTemplate = template.Must(template.New("report").Funcs(template.FuncMap{
	"truncate": truncateForDisplay,
}).Parse(`<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="UTF-8">
<meta name="viewport" content="width=device-width, initial-scale=1.0">
<title>Test Execution Report - {{.Stamp}}</title>
<style>
  * { margin: 0; padding: 0; box-sizing: border-box; }
  body { font-family: 'Segoe UI', Tahoma, sans-serif; background: #f3f4f6; padding: 20px; }
  .container { max-width: 1200px; margin: 0 auto; background: white; border-radius: 10px; overflow: hidden; box-shadow: 0 4px 12px rgba(0,0,0,0.15); }
  .header { background: #4f46e5; color: white; padding: 24px; text-align: center; }
  .summary { display: grid; grid-template-columns: repeat(auto-fit, minmax(160px, 1fr)); gap: 16px; padding: 24px; background: #f9fafb; }
  .card { background: white; padding: 18px; border-radius: 8px; text-align: center; box-shadow: 0 1px 3px rgba(0,0,0,0.1); }
  .card h3 { color: #6b7280; font-size: 0.8em; text-transform: uppercase; }
  .card .value { font-size: 2em; font-weight: bold; }
  .card.passed .value { color: #10b981; }
  .card.failed .value { color: #ef4444; }
  .results { padding: 24px; }
  .task { border: 1px solid #e5e7eb; border-radius: 8px; margin-bottom: 16px; overflow: hidden; }
  .task.passed { border-left: 5px solid #10b981; }
  .task.failed { border-left: 5px solid #ef4444; }
  .task-header { padding: 14px; background: #f9fafb; display: flex; justify-content: space-between; }
  .badge { padding: 3px 10px; border-radius: 10px; font-size: 0.8em; color: white; }
  .badge.passed { background: #10b981; }
  .badge.failed { background: #ef4444; }
  .task-body { padding: 14px; }
  .prompt { background: #eef2ff; padding: 10px; border-radius: 6px; margin-bottom: 10px; }
  .step { border-top: 1px solid #f3f4f6; padding: 8px 0; font-size: 0.9em; }
  .step .action { font-weight: bold; color: #4f46e5; }
  .error { background: #fef2f2; color: #b91c1c; padding: 10px; border-radius: 6px; margin-top: 10px; }
  .logs { background: #111827; color: #d1d5db; font-family: monospace; font-size: 0.8em; padding: 10px; border-radius: 6px; margin-top: 10px; }
  .log-entry { white-space: pre-wrap; }
</style>
</head>
<body>
<div class="container">
  <div class="header">
    <h1>Test Execution Report</h1>
    <p>Generated {{.Stamp}} · run {{.Summary.RunID}}</p>
  </div>
  <div class="summary">
    <div class="card total"><h3>Total</h3><div class="value">{{.Summary.Total}}</div></div>
    <div class="card passed"><h3>Passed</h3><div class="value">{{.Summary.Passed}}</div></div>
    <div class="card failed"><h3>Failed</h3><div class="value">{{.Summary.Failed}}</div></div>
    <div class="card rate"><h3>Pass Rate</h3><div class="value">{{printf "%.1f" .Summary.PassRate}}%</div></div>
  </div>
  <div class="results">
  {{range .Tasks}}
    <div class="task {{if .Success}}passed{{else}}failed{{end}}">
      <div class="task-header">
        <div><strong>#{{.TaskNumber}} {{.Scenario}}</strong> <small>{{.Category}} · {{.Priority}}</small></div>
        <span class="badge {{if .Success}}passed{{else}}failed{{end}}">{{if .Success}}PASSED{{else}}FAILED{{end}}</span>
      </div>
      <div class="task-body">
        <div class="prompt">{{.Prompt}}</div>
        {{range .Steps}}
        <div class="step">
          <span class="action">Step {{.StepNumber}}: {{.Action}}</span>
          {{if .ActionDetails}}<span> ({{.ActionDetails}})</span>{{end}}
          {{if .Result}}<div><strong>Result:</strong> {{.Result}}</div>{{end}}
          {{if .ModelOutput}}<div><strong>Model Output:</strong> {{truncate .ModelOutput}}</div>{{end}}
        </div>
        {{end}}
        {{if not .Success}}<div class="error"><strong>Error:</strong> {{.Error}}</div>{{end}}
        {{if .Logs}}
        <div class="logs">
          {{range .Logs}}<div class="log-entry">{{.}}</div>{{end}}
        </div>
        {{end}}
      </div>
    </div>
  {{end}}
  </div>
</div>
</body>
</html>
`))

type htmlReportData struct {
	Stamp   string
	Summary models.RunSummary
	Tasks   []models.TaskResult
}

// WriteHTMLReport renders the run into a timestamped HTML report inside dir,
// pruning older test_report_* files and refreshing the index.html redirect.
// Returns the report path.
func WriteHTMLReport(summary models.RunSummary, results []models.TaskResult, dir string) (string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("creating reports directory: %w", err)
	}

	pruneReports(dir, "test_report_*.html")

	stamp := time.Now().Format("20060102_150405")
	path := filepath.Join(dir, fmt.Sprintf("test_report_%s.html", stamp))

	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("creating HTML report: %w", err)
	}
	defer f.Close() //nolint:errcheck

	data := htmlReportData{Stamp: stamp, Summary: summary, Tasks: results}
	if err := reportTemplate.Execute(f, data); err != nil {
		return "", fmt.Errorf("rendering HTML report: %w", err)
	}

	if err := writeReportIndex(dir, filepath.Base(path)); err != nil {
		return "", err
	}
	return path, nil
}

// writeReportIndex refreshes index.html so it always redirects to the latest
// report.
func writeReportIndex(dir, reportName string) error {
	content := fmt.Sprintf(`<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="UTF-8">
<meta http-equiv="refresh" content="0; url=%s">
<title>Redirecting to Latest Report...</title>
</head>
<body>
<p>Redirecting to latest report...</p>
<p>If not redirected, <a href="%s">click here</a>.</p>
</body>
</html>
`, reportName, reportName)

	if err := os.WriteFile(filepath.Join(dir, "index.html"), []byte(content), 0o644); err != nil {
		return fmt.Errorf("writing report index: %w", err)
	}
	return nil
}

func truncateForDisplay(s string) string {
	runes := []rune(s)
	if len(runes) <= displayOutputLimit {
		return s
	}
	return string(runes[:displayOutputLimit]) + "..."
}
