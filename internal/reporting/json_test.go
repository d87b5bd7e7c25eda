package reporting

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteJSONReport(t *testing.T) {
	summary, results := sampleRun()
	dir := t.TempDir()

	path, err := WriteJSONReport(summary, results, dir)
	require.NoError(t, err)
	assert.FileExists(t, path)

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	var report JSONReport
	require.NoError(t, json.Unmarshal(data, &report))
	assert.Equal(t, "run-123", report.Summary.RunID)
	require.Len(t, report.Tasks, 2)
	assert.Equal(t, "Login Flow", report.Tasks[0].Scenario)

	// Stable copy matches the timestamped file.
	latest, err := os.ReadFile(filepath.Join(dir, "json-report.json"))
	require.NoError(t, err)
	assert.Equal(t, data, latest)
}

func TestWriteResultsFile(t *testing.T) {
	summary, results := sampleRun()
	path := filepath.Join(t.TempDir(), "results.json")

	require.NoError(t, WriteResultsFile(summary, results, path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	var report JSONReport
	require.NoError(t, json.Unmarshal(data, &report))
	assert.Equal(t, 2, report.Summary.Total)
	require.Len(t, report.Tasks, 2)
}

func TestWriteJSONReportPrunesOldReports(t *testing.T) {
	summary, results := sampleRun()
	dir := t.TempDir()

	stale := filepath.Join(dir, "json_report_19990101_000000.json")
	require.NoError(t, os.WriteFile(stale, []byte("{}"), 0o644))
	unrelated := filepath.Join(dir, "notes.json")
	require.NoError(t, os.WriteFile(unrelated, []byte("{}"), 0o644))

	_, err := WriteJSONReport(summary, results, dir)
	require.NoError(t, err)

	assert.NoFileExists(t, stale)
	assert.FileExists(t, unrelated)
}
