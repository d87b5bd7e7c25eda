// Package reporting renders finished run results for humans and CI. It only
// formats what the orchestrator produced; success and failure are never
// re-derived here.
package reporting

import (
	"encoding/xml"
	"fmt"
	"os"
	"time"

	"github.com/webagentaa/webagent/internal/models"
)

// JUnit XML schema types

// JUnitTestSuites is the top-level container.
type JUnitTestSuites struct {
	XMLName    xml.Name         `xml:"testsuites"`
	Tests      int              `xml:"tests,attr"`
	Failures   int              `xml:"failures,attr"`
	Time       float64          `xml:"time,attr"`
	TestSuites []JUnitTestSuite `xml:"testsuite"`
}

// JUnitTestSuite maps to one run.
type JUnitTestSuite struct {
	XMLName    xml.Name        `xml:"testsuite"`
	Name       string          `xml:"name,attr"`
	Tests      int             `xml:"tests,attr"`
	Failures   int             `xml:"failures,attr"`
	Time       float64         `xml:"time,attr"`
	Timestamp  string          `xml:"timestamp,attr"`
	Properties []JUnitProperty `xml:"properties>property,omitempty"`
	TestCases  []JUnitTestCase `xml:"testcase"`
}

// JUnitTestCase maps to one executed task.
type JUnitTestCase struct {
	XMLName   xml.Name      `xml:"testcase"`
	Name      string        `xml:"name,attr"`
	Classname string        `xml:"classname,attr"`
	Time      float64       `xml:"time,attr"`
	Failure   *JUnitFailure `xml:"failure,omitempty"`
}

// JUnitFailure carries the task's failure reason.
type JUnitFailure struct {
	Message string `xml:"message,attr"`
	Type    string `xml:"type,attr"`
	Body    string `xml:",chardata"`
}

// JUnitProperty is a key-value metadata entry.
type JUnitProperty struct {
	Name  string `xml:"name,attr"`
	Value string `xml:"value,attr"`
}

// ConvertToJUnit converts run results to JUnit XML format. Each task maps to
// one test case, its category used as the classname so CI groups tasks the
// way the sheet does.
func ConvertToJUnit(summary models.RunSummary, results []models.TaskResult) *JUnitTestSuites {
	suite := JUnitTestSuite{
		Name:      "webagent",
		Tests:     summary.Total,
		Failures:  summary.Failed,
		Time:      float64(summary.DurationMs) / 1000.0,
		Timestamp: summary.Timestamp.Format(time.RFC3339),
		Properties: []JUnitProperty{
			{Name: "run_id", Value: summary.RunID},
		},
	}

	for i := range results {
		r := &results[i]
		tc := JUnitTestCase{
			Name:      r.Scenario,
			Classname: r.Category,
			Time:      float64(r.DurationMs) / 1000.0,
		}
		if !r.Success {
			tc.Failure = &JUnitFailure{
				Message: r.Error,
				Type:    "TaskFailure",
				Body:    fmt.Sprintf("Task #%d (%s) failed: %s", r.TaskNumber, r.Scenario, r.Error),
			}
		}
		suite.TestCases = append(suite.TestCases, tc)
	}

	return &JUnitTestSuites{
		Tests:      summary.Total,
		Failures:   summary.Failed,
		Time:       float64(summary.DurationMs) / 1000.0,
		TestSuites: []JUnitTestSuite{suite},
	}
}

// WriteJUnit marshals the suites to path with an XML header.
func WriteJUnit(suites *JUnitTestSuites, path string) error {
	data, err := xml.MarshalIndent(suites, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling JUnit XML: %w", err)
	}
	content := append([]byte(xml.Header), data...)
	content = append(content, '\n')
	if err := os.WriteFile(path, content, 0o644); err != nil {
		return fmt.Errorf("writing JUnit report: %w", err)
	}
	return nil
}
