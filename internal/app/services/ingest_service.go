package services

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/rs/zerolog"

	"github.com/tanmay/placementdesk/internal/app/models"
	"github.com/tanmay/placementdesk/internal/app/models/dto"
	"github.com/tanmay/placementdesk/internal/pkg/apperrors"
	"github.com/tanmay/placementdesk/internal/pkg/cache"
	"github.com/tanmay/placementdesk/internal/pkg/csvio"
	"github.com/tanmay/placementdesk/internal/pkg/dberrors"
)

// PlacementInserter is the persistence collaborator for bulk ingestion.
type PlacementInserter interface {
	InsertBatch(ctx context.Context, records []models.PlacementRecord) (inserted int, duplicates []int, err error)
}

// IngestService runs the CSV ingestion pipeline: parse, validate, bulk
// upsert with duplicate skipping.
type IngestService struct {
	repo   PlacementInserter
	cache  *cache.DatasetCache
	logger zerolog.Logger
}

// NewIngestService creates a new ingest service instance
func NewIngestService(repo PlacementInserter, datasetCache *cache.DatasetCache, logger zerolog.Logger) *IngestService {
	return &IngestService{
		repo:   repo,
		cache:  datasetCache,
		logger: logger,
	}
}

// IngestCSV decodes CSV text and persists every valid row, skipping rows
// that collide with existing registration numbers. The result lists the
// inserted count and every excluded row with its reason. Any non-duplicate
// persistence error fails the whole batch atomically.
func (s *IngestService) IngestCSV(ctx context.Context, r io.Reader) (*dto.IngestResult, error) {
	records, stats, err := csvio.Decode(r)
	if err != nil {
		if errors.Is(err, csvio.ErrEmptyInput) {
			return nil, apperrors.ErrEmptyUpload
		}
		return nil, apperrors.NewCustomError(apperrors.ErrCSVHeaderInvalid, err.Error())
	}

	result := &dto.IngestResult{Skipped: stats.Skipped}

	inserted, duplicates, err := s.repo.InsertBatch(ctx, records)
	if err != nil {
		s.logger.Error().Err(err).Int("rows", len(records)).Msg("Bulk insert failed, batch rolled back")
		// ON CONFLICT absorbs reg_no collisions; a unique violation here means
		// a different constraint fired (e.g. a concurrent id collision).
		if dberrors.IsUniqueViolation(err) {
			return nil, fmt.Errorf("%w: %v", apperrors.ErrDuplicateRegNo, err)
		}
		return nil, fmt.Errorf("%w: %v", apperrors.ErrStorageUnavailable, err)
	}
	result.InsertedCount = inserted

	for _, i := range duplicates {
		result.Skipped = append(result.Skipped, csvio.SkippedRow{
			Row:    stats.RecordRows[i],
			Reason: csvio.SkipReasonDuplicate,
		})
	}

	if inserted > 0 {
		if err := s.cache.Invalidate(ctx); err != nil {
			s.logger.Warn().Err(err).Msg("Failed to invalidate dataset cache after ingest")
		}
	}

	s.logger.Info().
		Int("totalRows", stats.TotalRows).
		Int("inserted", inserted).
		Int("skipped", len(result.Skipped)).
		Msg("CSV ingestion completed")

	return result, nil
}
