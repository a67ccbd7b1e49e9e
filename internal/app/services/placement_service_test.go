package services

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tanmay/placementdesk/internal/app/dataset"
	"github.com/tanmay/placementdesk/internal/app/models"
	"github.com/tanmay/placementdesk/internal/app/repositories"
	"github.com/tanmay/placementdesk/internal/pkg/apperrors"
	"github.com/tanmay/placementdesk/internal/pkg/csvio"
)

// fakeReader is an in-memory persistence collaborator.
type fakeReader struct {
	records  []models.PlacementRecord
	fetchErr error
}

func (f *fakeReader) GetAll(ctx context.Context) ([]models.PlacementRecord, error) {
	if f.fetchErr != nil {
		return nil, f.fetchErr
	}
	return f.records, nil
}

func (f *fakeReader) DeleteByID(ctx context.Context, id string) (*models.PlacementRecord, error) {
	for i, record := range f.records {
		if record.ID == id {
			f.records = append(f.records[:i], f.records[i+1:]...)
			return &record, nil
		}
	}
	return nil, repositories.ErrPlacementNotFound
}

func testRecords() []models.PlacementRecord {
	return []models.PlacementRecord{
		{ID: "a", Name: "John", RegNo: "R100", Batch: "2024", Company: "TCS Ltd", Package: "8", Branch: "CSE", PlacedDate: "2024-05-01"},
		{ID: "b", Name: "Jane", RegNo: "R101", Batch: "2024", Company: "Acme", Package: "12", Branch: "CSE", PlacedDate: "2024-05-02"},
		{ID: "c", Name: "Ravi", RegNo: "R102", Batch: "2023", Company: "Initech", Package: "6", Branch: "ECE", PlacedDate: "2023-06-01"},
	}
}

func TestGetAll_ReturnsEveryRecord(t *testing.T) {
	repo := &fakeReader{records: testRecords()}
	svc := NewPlacementService(repo, nil, zerolog.Nop())

	records, err := svc.GetAll(context.Background())
	require.NoError(t, err)
	assert.Len(t, records, 3)
}

func TestGetAll_FetchFailureIsWrapped(t *testing.T) {
	repo := &fakeReader{fetchErr: errors.New("connection refused")}
	svc := NewPlacementService(repo, nil, zerolog.Nop())

	_, err := svc.GetAll(context.Background())
	assert.ErrorIs(t, err, apperrors.ErrFetchFailed)
}

func TestDelete_RemovesAndReturnsRecord(t *testing.T) {
	repo := &fakeReader{records: testRecords()}
	svc := NewPlacementService(repo, nil, zerolog.Nop())

	record, err := svc.Delete(context.Background(), "b")
	require.NoError(t, err)
	assert.Equal(t, "Jane", record.Name)
	assert.Len(t, repo.records, 2)
}

func TestDelete_UnknownIDFailsWithoutStateChange(t *testing.T) {
	repo := &fakeReader{records: testRecords()}
	svc := NewPlacementService(repo, nil, zerolog.Nop())

	_, err := svc.Delete(context.Background(), "missing")
	assert.ErrorIs(t, err, apperrors.ErrRecordNotFound)
	assert.Len(t, repo.records, 3, "store record count unchanged")
}

func TestStats_OverFilteredView(t *testing.T) {
	repo := &fakeReader{records: testRecords()}
	svc := NewPlacementService(repo, nil, zerolog.Nop())

	stats, err := svc.Stats(context.Background(), dataset.Filter{Branch: "CSE"})
	require.NoError(t, err)

	assert.Equal(t, 2, stats.Total)
	assert.Equal(t, dataset.GroupStat{Count: 2, AvgPackage: 10.00}, stats.ByBranch["CSE"])
	assert.NotContains(t, stats.ByBranch, "ECE")
}

func TestExportCSV_RoundTripsFilteredView(t *testing.T) {
	repo := &fakeReader{records: testRecords()}
	svc := NewPlacementService(repo, nil, zerolog.Nop())

	csvData, err := svc.ExportCSV(context.Background(), dataset.Filter{Batch: "2024"})
	require.NoError(t, err)

	decoded, stats, err := csvio.Decode(bytes.NewReader(csvData))
	require.NoError(t, err)
	require.Empty(t, stats.Skipped)
	require.Len(t, decoded, 2)
	assert.Equal(t, "John", decoded[0].Name)
	assert.Equal(t, "R101", decoded[1].RegNo)
}

func TestExportCSV_EmptyViewStillHasHeader(t *testing.T) {
	repo := &fakeReader{}
	svc := NewPlacementService(repo, nil, zerolog.Nop())

	csvData, err := svc.ExportCSV(context.Background(), dataset.Filter{})
	require.NoError(t, err)
	assert.Equal(t, "name,regNo,batch,company,package,branch,placedDate\n", string(csvData))
}
