package csvio

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tanmay/placementdesk/internal/app/models"
)

func TestDecode_ValidRows(t *testing.T) {
	input := "name,regNo,batch,company,package,branch,placedDate\n" +
		"John,R100,2024,Acme,12,CSE,2024-05-01\n" +
		"Jane,R101,2024,TCS Ltd,8.5,ECE,2024-06-10\n"

	records, stats, err := Decode(strings.NewReader(input))
	require.NoError(t, err)

	require.Len(t, records, 2)
	assert.Equal(t, 2, stats.TotalRows)
	assert.Empty(t, stats.Skipped)
	assert.Equal(t, []int{1, 2}, stats.RecordRows)

	assert.Equal(t, "John", records[0].Name)
	assert.Equal(t, "R100", records[0].RegNo)
	assert.Equal(t, "12", records[0].Package)
	assert.Equal(t, "TCS Ltd", records[1].Company)
	assert.Equal(t, "2024-06-10", records[1].PlacedDate)
}

func TestDecode_DropsRowsMissingRequiredFields(t *testing.T) {
	input := "name,regNo,batch,company,package,branch,placedDate\n" +
		"John,R100,2024,Acme,12,CSE,2024-05-01\n" +
		",,,,,,\n"

	records, stats, err := Decode(strings.NewReader(input))
	require.NoError(t, err)

	require.Len(t, records, 1)
	assert.Equal(t, "John", records[0].Name)

	require.Len(t, stats.Skipped, 1)
	assert.Equal(t, 2, stats.Skipped[0].Row)
	assert.Equal(t, SkipReasonMissingFields, stats.Skipped[0].Reason)
}

func TestDecode_WhitespaceOnlyFieldIsMissing(t *testing.T) {
	input := "name,regNo,batch,company,package,branch,placedDate\n" +
		"John,R100,2024,   ,12,CSE,2024-05-01\n"

	records, stats, err := Decode(strings.NewReader(input))
	require.NoError(t, err)
	assert.Empty(t, records)
	require.Len(t, stats.Skipped, 1)
	assert.Equal(t, SkipReasonMissingFields, stats.Skipped[0].Reason)
}

func TestDecode_SkipsMalformedRowsAndContinues(t *testing.T) {
	input := "name,regNo,batch,company,package,branch,placedDate\n" +
		"John,R100,2024,Acme,12,CSE,2024-05-01\n" +
		"Bro\"ken,R10,2024,Acme,12,CSE,2024-05-01\n" +
		"Jane,R101,2024,Initech,9,ECE,2024-06-10\n"

	records, stats, err := Decode(strings.NewReader(input))
	require.NoError(t, err)

	require.Len(t, records, 2)
	assert.Equal(t, "John", records[0].Name)
	assert.Equal(t, "Jane", records[1].Name)

	require.Len(t, stats.Skipped, 1)
	assert.Equal(t, SkipReasonParseError, stats.Skipped[0].Reason)
}

func TestDecode_HeaderMapping(t *testing.T) {
	// Reordered columns, an unrecognized column, and a missing one (placedDate).
	input := "regNo,name,extra,company,branch,batch,package\n" +
		"R100,John,ignored,Acme,CSE,2024,12\n"

	records, stats, err := Decode(strings.NewReader(input))
	require.NoError(t, err)

	// placedDate column is absent, so the row is invalid and dropped.
	assert.Empty(t, records)
	require.Len(t, stats.Skipped, 1)
	assert.Equal(t, SkipReasonMissingFields, stats.Skipped[0].Reason)
}

func TestDecode_EmptyInput(t *testing.T) {
	_, _, err := Decode(strings.NewReader(""))
	assert.ErrorIs(t, err, ErrEmptyInput)
}

func TestEncode_RoundTrip(t *testing.T) {
	original := []models.PlacementRecord{
		{Name: "John", RegNo: "R100", Batch: "2024", Company: "Acme, Inc", Package: "12", Branch: "CSE", PlacedDate: "2024-05-01"},
		{Name: `Jane "JJ"`, RegNo: "R101", Batch: "2023", Company: "TCS Ltd", Package: "8.5", Branch: "ECE", PlacedDate: "2024-06-10"},
	}

	var buf bytes.Buffer
	require.NoError(t, Encode(&buf, original))

	header := strings.SplitN(buf.String(), "\n", 2)[0]
	assert.Equal(t, "name,regNo,batch,company,package,branch,placedDate", header)

	decoded, stats, err := Decode(&buf)
	require.NoError(t, err)
	require.Empty(t, stats.Skipped)
	require.Len(t, decoded, len(original))

	// Decoded records carry no ids; field values and order must match.
	for i := range original {
		assert.Equal(t, original[i], decoded[i])
	}
}
