package services

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tanmay/placementdesk/internal/app/models"
	"github.com/tanmay/placementdesk/internal/pkg/apperrors"
	"github.com/tanmay/placementdesk/internal/pkg/csvio"
)

// fakeInserter simulates the duplicate-skipping bulk insert of the real
// repository, keyed on registration number.
type fakeInserter struct {
	stored   map[string]models.PlacementRecord
	failWith error
}

func newFakeInserter() *fakeInserter {
	return &fakeInserter{stored: make(map[string]models.PlacementRecord)}
}

func (f *fakeInserter) InsertBatch(ctx context.Context, records []models.PlacementRecord) (int, []int, error) {
	if f.failWith != nil {
		return 0, nil, f.failWith
	}

	inserted := 0
	var duplicates []int
	for i, record := range records {
		if _, exists := f.stored[record.RegNo]; exists {
			duplicates = append(duplicates, i)
			continue
		}
		f.stored[record.RegNo] = record
		inserted++
	}
	return inserted, duplicates, nil
}

const validCSV = "name,regNo,batch,company,package,branch,placedDate\n" +
	"John,R100,2024,Acme,12,CSE,2024-05-01\n" +
	"Jane,R101,2024,TCS Ltd,8.5,ECE,2024-06-10\n"

func TestIngestCSV_InsertsAllValidRows(t *testing.T) {
	repo := newFakeInserter()
	svc := NewIngestService(repo, nil, zerolog.Nop())

	result, err := svc.IngestCSV(context.Background(), strings.NewReader(validCSV))
	require.NoError(t, err)

	assert.Equal(t, 2, result.InsertedCount)
	assert.Empty(t, result.Skipped)
	assert.Len(t, repo.stored, 2)
}

func TestIngestCSV_DropsInvalidRowsSilentlyFromCount(t *testing.T) {
	input := "name,regNo,batch,company,package,branch,placedDate\n" +
		"John,R100,2024,Acme,12,CSE,2024-05-01\n" +
		",,,,,,\n"

	repo := newFakeInserter()
	svc := NewIngestService(repo, nil, zerolog.Nop())

	result, err := svc.IngestCSV(context.Background(), strings.NewReader(input))
	require.NoError(t, err)

	assert.Equal(t, 1, result.InsertedCount)
	require.Len(t, result.Skipped, 1)
	assert.Equal(t, 2, result.Skipped[0].Row)
	assert.Equal(t, csvio.SkipReasonMissingFields, result.Skipped[0].Reason)
	assert.Len(t, repo.stored, 1)
}

func TestIngestCSV_ReingestIsIdempotent(t *testing.T) {
	repo := newFakeInserter()
	svc := NewIngestService(repo, nil, zerolog.Nop())

	first, err := svc.IngestCSV(context.Background(), strings.NewReader(validCSV))
	require.NoError(t, err)
	require.Equal(t, 2, first.InsertedCount)

	second, err := svc.IngestCSV(context.Background(), strings.NewReader(validCSV))
	require.NoError(t, err)

	assert.Equal(t, 0, second.InsertedCount, "every row is a duplicate on the second run")
	require.Len(t, second.Skipped, 2)
	assert.Equal(t, csvio.SkipReasonDuplicate, second.Skipped[0].Reason)
	assert.Equal(t, 1, second.Skipped[0].Row)
	assert.Equal(t, csvio.SkipReasonDuplicate, second.Skipped[1].Reason)
	assert.Equal(t, 2, second.Skipped[1].Row)
	assert.Len(t, repo.stored, 2, "stored record count unchanged")
}

func TestIngestCSV_DuplicateRowNumbersSkipInvalidRows(t *testing.T) {
	repo := newFakeInserter()
	svc := NewIngestService(repo, nil, zerolog.Nop())

	_, err := svc.IngestCSV(context.Background(), strings.NewReader(
		"name,regNo,batch,company,package,branch,placedDate\nJohn,R100,2024,Acme,12,CSE,2024-05-01\n"))
	require.NoError(t, err)

	// Row 2 is invalid, row 3 collides with the stored R100; the duplicate
	// must be reported against row 3, not row 2.
	input := "name,regNo,batch,company,package,branch,placedDate\n" +
		"Jane,R101,2024,Initech,9,ECE,2024-06-10\n" +
		",,,,,,\n" +
		"John,R100,2024,Acme,12,CSE,2024-05-01\n"

	result, err := svc.IngestCSV(context.Background(), strings.NewReader(input))
	require.NoError(t, err)

	assert.Equal(t, 1, result.InsertedCount)
	require.Len(t, result.Skipped, 2)
	assert.Equal(t, csvio.SkippedRow{Row: 2, Reason: csvio.SkipReasonMissingFields}, result.Skipped[0])
	assert.Equal(t, csvio.SkippedRow{Row: 3, Reason: csvio.SkipReasonDuplicate}, result.Skipped[1])
}

func TestIngestCSV_EmptyUpload(t *testing.T) {
	svc := NewIngestService(newFakeInserter(), nil, zerolog.Nop())

	_, err := svc.IngestCSV(context.Background(), strings.NewReader(""))
	assert.ErrorIs(t, err, apperrors.ErrEmptyUpload)
}

func TestIngestCSV_PersistenceFailureIsGeneric(t *testing.T) {
	repo := newFakeInserter()
	repo.failWith = errors.New("connection reset")
	svc := NewIngestService(repo, nil, zerolog.Nop())

	result, err := svc.IngestCSV(context.Background(), strings.NewReader(validCSV))
	assert.Nil(t, result, "no partial results on persistence failure")
	assert.ErrorIs(t, err, apperrors.ErrStorageUnavailable)
}
