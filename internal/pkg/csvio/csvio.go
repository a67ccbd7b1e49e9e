// Package csvio implements decoding and encoding of placement records as CSV
// text. Decode is a pure transformation: no storage or network side effects,
// input row order is preserved, and rows that cannot be used are reported
// rather than aborting the whole file.
package csvio

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/tanmay/placementdesk/internal/app/models"
)

// Canonical column order for encoding and for header recognition.
var columns = []string{"name", "regNo", "batch", "company", "package", "branch", "placedDate"}

// SkipReason classifies why a row was excluded from a decode.
type SkipReason string

const (
	SkipReasonParseError    SkipReason = "PARSE_ERROR"
	SkipReasonMissingFields SkipReason = "MISSING_REQUIRED_FIELDS"
	SkipReasonDuplicate     SkipReason = "DUPLICATE_REG_NO"
)

// SkippedRow records one excluded row. Row is the 1-based data row number
// (the header row is not counted).
type SkippedRow struct {
	Row    int        `json:"row"`
	Reason SkipReason `json:"reason"`
}

// DecodeStats summarizes a decode pass. RecordRows maps each returned record
// to its 1-based data row number, so later pipeline stages can report skips
// against the original file.
type DecodeStats struct {
	TotalRows  int
	RecordRows []int
	Skipped    []SkippedRow
}

// ErrEmptyInput is returned when the input has no header row.
var ErrEmptyInput = errors.New("csv input is empty")

// Decode reads CSV text with a header row and returns the valid placement
// records in input order. The header defines the column-to-field mapping;
// unrecognized columns are ignored and missing columns leave the field empty.
// Rows with unparsable CSV syntax and rows missing any required field are
// dropped and reported in the stats, never as an error.
func Decode(r io.Reader) ([]models.PlacementRecord, DecodeStats, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, DecodeStats{}, ErrEmptyInput
		}
		return nil, DecodeStats{}, fmt.Errorf("failed to read csv header: %w", err)
	}

	// Map field name -> column index, matching header names case-insensitively.
	index := make(map[string]int, len(columns))
	for i, col := range header {
		name := strings.TrimSpace(col)
		for _, known := range columns {
			if strings.EqualFold(name, known) {
				index[known] = i
			}
		}
	}

	var (
		records []models.PlacementRecord
		stats   DecodeStats
	)
	for {
		row, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		stats.TotalRows++
		if err != nil {
			stats.Skipped = append(stats.Skipped, SkippedRow{Row: stats.TotalRows, Reason: SkipReasonParseError})
			continue
		}

		field := func(name string) string {
			i, ok := index[name]
			if !ok || i >= len(row) {
				return ""
			}
			return strings.TrimSpace(row[i])
		}

		record := models.PlacementRecord{
			Name:       field("name"),
			RegNo:      field("regNo"),
			Batch:      field("batch"),
			Company:    field("company"),
			Package:    field("package"),
			Branch:     field("branch"),
			PlacedDate: field("placedDate"),
		}
		if !record.Valid() {
			stats.Skipped = append(stats.Skipped, SkippedRow{Row: stats.TotalRows, Reason: SkipReasonMissingFields})
			continue
		}
		records = append(records, record)
		stats.RecordRows = append(stats.RecordRows, stats.TotalRows)
	}

	return records, stats, nil
}

// Encode writes records as CSV with the canonical header
// name,regNo,batch,company,package,branch,placedDate. Row order is preserved
// and values round-trip through Decode.
func Encode(w io.Writer, records []models.PlacementRecord) error {
	cw := csv.NewWriter(w)

	if err := cw.Write(columns); err != nil {
		return fmt.Errorf("failed to write csv header: %w", err)
	}
	for _, record := range records {
		row := []string{
			record.Name,
			record.RegNo,
			record.Batch,
			record.Company,
			record.Package,
			record.Branch,
			record.PlacedDate,
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("failed to write csv row: %w", err)
		}
	}

	cw.Flush()
	return cw.Error()
}
