package repositories

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/tanmay/placementdesk/internal/app/models"
)

// Placement error types
var (
	ErrPlacementNotFound = errors.New("placement record not found")
)

// PlacementRepository handles database operations for placement records
type PlacementRepository struct {
	db *pgxpool.Pool
}

// NewPlacementRepository creates a new placement repository
func NewPlacementRepository(db *pgxpool.Pool) *PlacementRepository {
	return &PlacementRepository{
		db: db,
	}
}

// InsertBatch persists records inside one transaction, assigning new ids and
// silently skipping rows whose registration number collides with an existing
// record. It returns the number of rows actually inserted and the 0-based
// positions of the duplicate rows. Any other database error rolls the whole
// batch back.
func (r *PlacementRepository) InsertBatch(ctx context.Context, records []models.PlacementRecord) (int, []int, error) {
	if len(records) == 0 {
		return 0, nil, nil
	}

	query := `
		INSERT INTO placements (id, name, reg_no, batch, company, package, branch, placed_date)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT (reg_no) DO NOTHING
	`

	tx, err := r.db.Begin(ctx)
	if err != nil {
		return 0, nil, fmt.Errorf("failed to start transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	batch := &pgx.Batch{}
	for i := range records {
		record := &records[i]
		record.ID = uuid.NewString()
		batch.Queue(query,
			record.ID,
			record.Name,
			record.RegNo,
			record.Batch,
			record.Company,
			record.Package,
			record.Branch,
			record.PlacedDate,
		)
	}

	results := tx.SendBatch(ctx, batch)

	inserted := 0
	var duplicates []int
	for i := range records {
		cmdTag, err := results.Exec()
		if err != nil {
			_ = results.Close()
			return 0, nil, fmt.Errorf("failed to insert placement row %d: %w", i+1, err)
		}
		if cmdTag.RowsAffected() == 0 {
			// ON CONFLICT DO NOTHING swallowed the row.
			duplicates = append(duplicates, i)
			records[i].ID = ""
		} else {
			inserted++
		}
	}
	if err := results.Close(); err != nil {
		return 0, nil, fmt.Errorf("failed to close batch results: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return 0, nil, fmt.Errorf("failed to commit placement batch: %w", err)
	}

	return inserted, duplicates, nil
}

// GetAll retrieves the complete current record set in insertion order.
func (r *PlacementRepository) GetAll(ctx context.Context) ([]models.PlacementRecord, error) {
	query := `
		SELECT id, name, reg_no, batch, company, package, branch, placed_date
		FROM placements
		ORDER BY created_at, id
	`

	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var records []models.PlacementRecord
	for rows.Next() {
		var record models.PlacementRecord
		if err := rows.Scan(
			&record.ID,
			&record.Name,
			&record.RegNo,
			&record.Batch,
			&record.Company,
			&record.Package,
			&record.Branch,
			&record.PlacedDate,
		); err != nil {
			return nil, err
		}
		records = append(records, record)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return records, nil
}

// DeleteByID deletes a record by its identifier and returns the deleted
// record. Deleting an unknown id returns ErrPlacementNotFound.
func (r *PlacementRepository) DeleteByID(ctx context.Context, id string) (*models.PlacementRecord, error) {
	query := `
		DELETE FROM placements
		WHERE id = $1
		RETURNING id, name, reg_no, batch, company, package, branch, placed_date
	`

	var record models.PlacementRecord
	err := r.db.QueryRow(ctx, query, id).Scan(
		&record.ID,
		&record.Name,
		&record.RegNo,
		&record.Batch,
		&record.Company,
		&record.Package,
		&record.Branch,
		&record.PlacedDate,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrPlacementNotFound
		}
		return nil, fmt.Errorf("error deleting placement record: %w", err)
	}

	return &record, nil
}

// Count returns the total number of stored records.
func (r *PlacementRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	if err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM placements`).Scan(&count); err != nil {
		return 0, fmt.Errorf("error counting placement records: %w", err)
	}
	return count, nil
}
