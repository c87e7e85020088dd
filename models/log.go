package models

import "time"

// Processing statuses recorded in the log.
const (
	StatusCompleted = "completed"
	StatusFailed    = "failed"
)

// LogEntry records one save attempt. Entries are append-only; the JSON
// field set and names are part of the durable log format.
type LogEntry struct {
	URL         string `json:"url"`
	Status      string `json:"status"`
	ProcessedAt string `json:"processed_at"`
	OutputFile  string `json:"output_file,omitempty"`
	Error       string `json:"error,omitempty"`
}

// ProcessingLog is the durable audit record of every save attempt across
// runs. The aggregate counts are always recomputed from Resources, never
// tracked incrementally.
type ProcessingLog struct {
	LastUpdated    string     `json:"last_updated"`
	TotalProcessed int        `json:"total_processed"`
	Successful     int        `json:"successful"`
	Failed         int        `json:"failed"`
	Resources      []LogEntry `json:"resources"`
}

// Recount rebuilds the derived counts from the entry sequence.
func (l *ProcessingLog) Recount(now time.Time) {
	l.TotalProcessed = len(l.Resources)
	l.Successful = 0
	l.Failed = 0
	for _, e := range l.Resources {
		switch e.Status {
		case StatusCompleted:
			l.Successful++
		case StatusFailed:
			l.Failed++
		}
	}
	l.LastUpdated = now.Format(time.RFC3339)
}

// RunStats holds per-execution counters. Not persisted.
type RunStats struct {
	Total      int
	Successful int
	Failed     int
	StartTime  time.Time
	EndTime    time.Time
}

// Elapsed returns the run duration.
func (s RunStats) Elapsed() time.Duration {
	return s.EndTime.Sub(s.StartTime)
}
