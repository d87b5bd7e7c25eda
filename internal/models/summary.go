package models

import "time"

// RunSummary aggregates pass/fail counts over an ordered list of task results.
type RunSummary struct {
	RunID      string    `json:"run_id"`
	Timestamp  time.Time `json:"timestamp"`
	Total      int       `json:"total"`
	Passed     int       `json:"passed"`
	Failed     int       `json:"failed"`
	PassRate   float64   `json:"pass_rate"`
	DurationMs int64     `json:"duration_ms"`
}

// Summarize computes aggregate counts from results. Pass rate is a percentage
// in [0, 100]; an empty result list yields a zero summary.
func Summarize(results []TaskResult) RunSummary {
	s := RunSummary{Total: len(results)}
	for i := range results {
		if results[i].Success {
			s.Passed++
		} else {
			s.Failed++
		}
		s.DurationMs += results[i].DurationMs
	}
	if s.Total > 0 {
		s.PassRate = float64(s.Passed) / float64(s.Total) * 100
	}
	return s
}
