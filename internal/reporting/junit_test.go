package reporting

import (
	"encoding/xml"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/webagentaa/webagent/internal/models"
)

func sampleRun() (models.RunSummary, []models.TaskResult) {
	results := []models.TaskResult{
		{
			TaskNumber: 1,
			Scenario:   "Login Flow",
			Category:   "Auth",
			Priority:   "High",
			Success:    true,
			DurationMs: 4200,
		},
		{
			TaskNumber: 2,
			Scenario:   "Checkout",
			Category:   "Payments",
			Priority:   "High",
			Success:    false,
			Error:      "Task not completed",
			DurationMs: 9100,
		},
	}
	summary := models.Summarize(results)
	summary.RunID = "run-123"
	summary.Timestamp = time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	summary.DurationMs = 13300
	return summary, results
}

func TestConvertToJUnit(t *testing.T) {
	summary, results := sampleRun()

	suites := ConvertToJUnit(summary, results)

	assert.Equal(t, 2, suites.Tests)
	assert.Equal(t, 1, suites.Failures)
	require.Len(t, suites.TestSuites, 1)

	suite := suites.TestSuites[0]
	assert.Equal(t, "webagent", suite.Name)
	require.Len(t, suite.TestCases, 2)

	passed := suite.TestCases[0]
	assert.Equal(t, "Login Flow", passed.Name)
	assert.Equal(t, "Auth", passed.Classname)
	assert.Nil(t, passed.Failure)
	assert.InDelta(t, 4.2, passed.Time, 0.001)

	failed := suite.TestCases[1]
	assert.Equal(t, "Checkout", failed.Name)
	require.NotNil(t, failed.Failure)
	assert.Equal(t, "Task not completed", failed.Failure.Message)
	assert.Equal(t, "TaskFailure", failed.Failure.Type)
	assert.Contains(t, failed.Failure.Body, "Task #2")

	require.Len(t, suite.Properties, 1)
	assert.Equal(t, "run_id", suite.Properties[0].Name)
	assert.Equal(t, "run-123", suite.Properties[0].Value)
}

func TestWriteJUnit(t *testing.T) {
	summary, results := sampleRun()
	path := filepath.Join(t.TempDir(), "junit.xml")

	err := WriteJUnit(ConvertToJUnit(summary, results), path)
	require.NoError(t, err)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), xml.Header)

	var parsed JUnitTestSuites
	require.NoError(t, xml.Unmarshal(data, &parsed))
	assert.Equal(t, 2, parsed.Tests)
	assert.Equal(t, 1, parsed.Failures)
}
