package orchestration

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/webagentaa/webagent/internal/models"
)

// TaskFilter narrows a task list before scheduling. Zero values mean "no
// constraint"; Active defaults to requiring active tasks unless IncludeInactive
// is set.
type TaskFilter struct {
	Category        string
	Priority        string
	ScenarioGlobs   []string
	IncludeInactive bool
}

// Apply returns the tasks matching every configured constraint, preserving
// input order.
func (f TaskFilter) Apply(tasks []models.TaskDescriptor) ([]models.TaskDescriptor, error) {
	var out []models.TaskDescriptor
	for _, task := range tasks {
		if !f.IncludeInactive && !task.Active {
			continue
		}
		if f.Category != "" && !strings.EqualFold(task.Category, f.Category) {
			continue
		}
		if f.Priority != "" && !strings.EqualFold(task.Priority, f.Priority) {
			continue
		}
		if len(f.ScenarioGlobs) > 0 {
			ok, err := matchesAny(task.ScenarioName, f.ScenarioGlobs)
			if err != nil {
				return nil, err
			}
			if !ok {
				continue
			}
		}
		out = append(out, task)
	}
	return out, nil
}

// matchesAny reports whether name matches any of the glob patterns.
func matchesAny(name string, patterns []string) (bool, error) {
	for _, p := range patterns {
		ok, err := filepath.Match(p, name)
		if err != nil {
			return false, fmt.Errorf("invalid scenario filter pattern %q: %w", p, err)
		}
		if ok {
			return true, nil
		}
	}
	return false, nil
}
