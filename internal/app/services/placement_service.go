package services

import (
	"bytes"
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/tanmay/placementdesk/internal/app/dataset"
	"github.com/tanmay/placementdesk/internal/app/models"
	"github.com/tanmay/placementdesk/internal/app/repositories"
	"github.com/tanmay/placementdesk/internal/pkg/apperrors"
	"github.com/tanmay/placementdesk/internal/pkg/cache"
	"github.com/tanmay/placementdesk/internal/pkg/csvio"
)

// PlacementReader is the persistence collaborator for reads and deletes.
type PlacementReader interface {
	GetAll(ctx context.Context) ([]models.PlacementRecord, error)
	DeleteByID(ctx context.Context, id string) (*models.PlacementRecord, error)
}

// PlacementService handles placement record queries, deletion, derived
// statistics, and CSV export.
type PlacementService struct {
	repo   PlacementReader
	cache  *cache.DatasetCache
	logger zerolog.Logger
}

// NewPlacementService creates a new placement service instance
func NewPlacementService(repo PlacementReader, datasetCache *cache.DatasetCache, logger zerolog.Logger) *PlacementService {
	return &PlacementService{
		repo:   repo,
		cache:  datasetCache,
		logger: logger,
	}
}

// GetAll returns the complete current record set, read through the dataset
// cache when one is configured. A cache failure falls back to the store.
func (s *PlacementService) GetAll(ctx context.Context) ([]models.PlacementRecord, error) {
	records, err := s.cache.Get(ctx)
	if err == nil {
		return records, nil
	}
	if !errors.Is(err, cache.ErrCacheMiss) {
		s.logger.Warn().Err(err).Msg("Dataset cache read failed, falling back to database")
	}

	records, err = s.repo.GetAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", apperrors.ErrFetchFailed, err)
	}

	if err := s.cache.Set(ctx, records); err != nil {
		s.logger.Warn().Err(err).Msg("Failed to populate dataset cache")
	}
	return records, nil
}

// Delete removes one record by identifier and returns it. Unknown ids fail
// with ErrRecordNotFound and leave the store unchanged.
func (s *PlacementService) Delete(ctx context.Context, id string) (*models.PlacementRecord, error) {
	record, err := s.repo.DeleteByID(ctx, id)
	if err != nil {
		if errors.Is(err, repositories.ErrPlacementNotFound) {
			return nil, apperrors.ErrRecordNotFound
		}
		return nil, fmt.Errorf("%w: %v", apperrors.ErrStorageUnavailable, err)
	}

	if err := s.cache.Invalidate(ctx); err != nil {
		s.logger.Warn().Err(err).Msg("Failed to invalidate dataset cache after delete")
	}

	s.logger.Info().Str("id", id).Str("regNo", record.RegNo).Msg("Placement record deleted")
	return record, nil
}

// FilteredView returns the records passing the filter, preserving original
// relative order.
func (s *PlacementService) FilteredView(ctx context.Context, filter dataset.Filter) ([]models.PlacementRecord, error) {
	records, err := s.GetAll(ctx)
	if err != nil {
		return nil, err
	}
	return filter.Apply(records), nil
}

// Stats computes the derived statistics over the filtered view.
func (s *PlacementService) Stats(ctx context.Context, filter dataset.Filter) (*dataset.Statistics, error) {
	filtered, err := s.FilteredView(ctx, filter)
	if err != nil {
		return nil, err
	}
	stats := dataset.Aggregate(filtered)
	return &stats, nil
}

// ExportCSV encodes the filtered view as CSV text.
func (s *PlacementService) ExportCSV(ctx context.Context, filter dataset.Filter) ([]byte, error) {
	filtered, err := s.FilteredView(ctx, filter)
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	if err := csvio.Encode(&buf, filtered); err != nil {
		return nil, fmt.Errorf("%w: %v", apperrors.ErrExportFailed, err)
	}
	return buf.Bytes(), nil
}
