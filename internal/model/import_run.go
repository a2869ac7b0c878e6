package model

import "time"

// ImportRun records the outcome of one catalog ingestion, persisted for
// audit and reporting.
type ImportRun struct {
	StartedAt  time.Time
	FinishedAt time.Time
	SourceFile string
	ID         int64
	Total      int
	Inserted   int
	Updated    int
	Skipped    int
	Errors     int
}
