package models

import "time"

// RowError locates a failure inside a tabular import.
type RowError struct {
	Row    int    `json:"row"`
	Field  string `json:"field,omitempty"`
	Value  string `json:"value,omitempty"`
	Reason string `json:"reason"`
}

// ImportResult summarises a committed import run.
type ImportResult struct {
	RunID              string        `json:"run_id"`
	FileName           string        `json:"file_name"`
	RowsProcessed      int           `json:"rows_processed"`
	SubjectsCreated    int           `json:"subjects_created"`
	SubjectsReused     int           `json:"subjects_reused"`
	AssignmentsCreated int           `json:"assignments_created"`
	AssignmentsSkipped int           `json:"assignments_skipped"`
	Duration           time.Duration `json:"-"`
	DurationMillis     int64         `json:"duration_ms"`
}
