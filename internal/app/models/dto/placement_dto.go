package dto

import "github.com/tanmay/placementdesk/internal/pkg/csvio"

// IngestResult reports the outcome of one CSV import: how many rows were
// actually inserted, and every row that was excluded with the reason —
// validation failures, parse errors, and duplicate registration numbers.
type IngestResult struct {
	InsertedCount int                `json:"insertedCount" example:"42"`
	Skipped       []csvio.SkippedRow `json:"skipped,omitempty"`
}

// StatsQuery carries the filter parameters accepted by the stats and export
// endpoints.
type StatsQuery struct {
	Search string `form:"search"`
	Branch string `form:"branch"`
	Batch  string `form:"batch"`
	Bucket string `form:"bucket"`
}
