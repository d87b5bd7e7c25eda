package sheets

import (
	"encoding/csv"
	"fmt"
	"os"

	"github.com/webagentaa/webagent/internal/models"
)

// LoadCSV reads tasks from a CSV file with the same five-column layout as the
// XLSX sheet. The first row is the header; StartRow counts from the top of
// the file just like the XLSX path.
func LoadCSV(path string, opts Options) ([]models.TaskDescriptor, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("csv: open %s: %w", path, err)
	}
	defer f.Close() //nolint:errcheck

	reader := csv.NewReader(f)
	reader.FieldsPerRecord = -1
	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("csv: parse %s: %w", path, err)
	}

	startRow := opts.StartRow
	if startRow < 2 {
		startRow = 2
	}
	if len(records) < startRow {
		return nil, nil
	}

	return parseRows(records[startRow-1:], opts.ActiveOnly), nil
}
