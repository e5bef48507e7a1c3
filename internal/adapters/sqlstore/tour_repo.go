package sqlstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/example/stockroom/internal/db"
	"github.com/example/stockroom/internal/ports/secondary"
)

const tourColumns = "id, origin_country, destination_country, nights, price, created_at, updated_at"

// TourRepository implements secondary.TourRepository.
type TourRepository struct {
	db  *db.DB
	now func() time.Time
}

// NewTourRepository creates a new tour repository.
func NewTourRepository(database *db.DB) *TourRepository {
	return &TourRepository{db: database, now: utcNow}
}

// Create persists a new tour. A non-zero ID is inserted as given.
func (r *TourRepository) Create(ctx context.Context, tour *secondary.TourRecord) error {
	now := r.now()

	if tour.ID != 0 {
		_, err := r.db.ExecContext(ctx,
			"INSERT INTO tours (id, origin_country, destination_country, nights, price, created_at, updated_at) VALUES (?, ?, ?, ?, ?, ?, ?)",
			tour.ID, tour.OriginCountry, tour.DestinationCountry, tour.Nights, tour.Price, now, now,
		)
		if err != nil {
			return fmt.Errorf("failed to create tour: %w", err)
		}
		if err := r.db.SyncSequence(ctx, "tours"); err != nil {
			return err
		}
	} else {
		id, err := r.db.InsertID(ctx,
			"INSERT INTO tours (origin_country, destination_country, nights, price, created_at, updated_at) VALUES (?, ?, ?, ?, ?, ?)",
			tour.OriginCountry, tour.DestinationCountry, tour.Nights, tour.Price, now, now,
		)
		if err != nil {
			return fmt.Errorf("failed to create tour: %w", err)
		}
		tour.ID = id
	}

	tour.CreatedAt = now
	tour.UpdatedAt = now
	return nil
}

// GetByID retrieves a tour by its ID.
func (r *TourRepository) GetByID(ctx context.Context, id int64) (*secondary.TourRecord, error) {
	record := &secondary.TourRecord{}
	err := r.db.QueryRowContext(ctx, "SELECT "+tourColumns+" FROM tours WHERE id = ?", id).
		Scan(&record.ID, &record.OriginCountry, &record.DestinationCountry, &record.Nights, &record.Price, &record.CreatedAt, &record.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("tour %d: %w", id, secondary.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get tour: %w", err)
	}
	return record, nil
}

// Update overwrites every editable column and bumps updated_at.
func (r *TourRepository) Update(ctx context.Context, tour *secondary.TourRecord) error {
	now := r.now()

	result, err := r.db.ExecContext(ctx,
		"UPDATE tours SET origin_country = ?, destination_country = ?, nights = ?, price = ?, updated_at = ? WHERE id = ?",
		tour.OriginCountry, tour.DestinationCountry, tour.Nights, tour.Price, now, tour.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update tour: %w", err)
	}
	if err := expectRow(result, "tour", tour.ID); err != nil {
		return err
	}

	tour.UpdatedAt = now
	return nil
}

// Delete removes a tour.
func (r *TourRepository) Delete(ctx context.Context, id int64) error {
	result, err := r.db.ExecContext(ctx, "DELETE FROM tours WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("failed to delete tour: %w", err)
	}
	return expectRow(result, "tour", id)
}

// List retrieves tours in id order, optionally searching both countries.
func (r *TourRepository) List(ctx context.Context, filters secondary.TourFilters) ([]*secondary.TourRecord, error) {
	query := "SELECT " + tourColumns + " FROM tours"
	var args []any

	if filters.Search != "" {
		pattern := likePattern(filters.Search)
		query += " WHERE " + likeClause("origin_country") + " OR " + likeClause("destination_country")
		args = append(args, pattern, pattern)
	}
	query += " ORDER BY id ASC"

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list tours: %w", err)
	}
	defer rows.Close()

	var tours []*secondary.TourRecord
	for rows.Next() {
		record := &secondary.TourRecord{}
		if err := rows.Scan(&record.ID, &record.OriginCountry, &record.DestinationCountry, &record.Nights, &record.Price, &record.CreatedAt, &record.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan tour: %w", err)
		}
		tours = append(tours, record)
	}

	return tours, rows.Err()
}

// Ensure TourRepository implements the interface
var _ secondary.TourRepository = (*TourRepository)(nil)
