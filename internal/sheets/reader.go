// Package sheets loads task descriptors from spreadsheet files. Two formats
// are supported: XLSX workbooks (the task sheet exported from the tracking
// spreadsheet) and plain CSV with the same five logical columns.
package sheets

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/webagentaa/webagent/internal/models"
)

// Expected column layout, in order: Scenario Name, Prompt Text, Category,
// Priority, Active.
const columnCount = 5

// Options controls how a task sheet is read.
type Options struct {
	// SheetName selects the worksheet in an XLSX workbook. Ignored for CSV.
	// Empty means the workbook's first sheet.
	SheetName string

	// StartRow is the 1-based row the task data starts at, header excluded.
	// Values below 2 are treated as 2 (row 1 is the header).
	StartRow int

	// ActiveOnly drops rows whose Active column is not "yes".
	ActiveOnly bool
}

// Load reads task descriptors from path, choosing the parser by file
// extension (.xlsx or .csv). Rows with fewer than five columns or an empty
// prompt are skipped, matching upstream filtering.
func Load(path string, opts Options) ([]models.TaskDescriptor, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".xlsx":
		return LoadXLSX(path, opts)
	case ".csv":
		return LoadCSV(path, opts)
	default:
		return nil, fmt.Errorf("unsupported task sheet format %q (want .xlsx or .csv)", filepath.Ext(path))
	}
}

// LoadXLSX reads tasks from an XLSX workbook.
func LoadXLSX(path string, opts Options) ([]models.TaskDescriptor, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("opening task sheet %s: %w", path, err)
	}
	defer f.Close() //nolint:errcheck

	sheet := opts.SheetName
	if sheet == "" {
		sheet = f.GetSheetName(0)
	}

	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("reading sheet %q from %s: %w", sheet, path, err)
	}

	startRow := opts.StartRow
	if startRow < 2 {
		startRow = 2
	}
	if len(rows) < startRow {
		return nil, nil
	}

	return parseRows(rows[startRow-1:], opts.ActiveOnly), nil
}

// parseRows converts raw cell rows into descriptors, applying the upstream
// skip rules.
func parseRows(rows [][]string, activeOnly bool) []models.TaskDescriptor {
	var tasks []models.TaskDescriptor
	for _, row := range rows {
		if len(row) < columnCount {
			continue
		}
		if strings.TrimSpace(row[1]) == "" {
			continue
		}
		task := models.TaskDescriptor{
			ScenarioName: row[0],
			PromptText:   row[1],
			Category:     row[2],
			Priority:     row[3],
			Active:       strings.EqualFold(strings.TrimSpace(row[4]), "yes"),
		}
		if activeOnly && !task.Active {
			continue
		}
		tasks = append(tasks, task)
	}
	return tasks
}
