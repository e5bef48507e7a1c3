package app

import (
	"context"
	"fmt"
	"strconv"

	"github.com/example/stockroom/internal/core/form"
	"github.com/example/stockroom/internal/core/tour"
	"github.com/example/stockroom/internal/ports/primary"
	"github.com/example/stockroom/internal/ports/secondary"
)

// TourServiceImpl implements the TourService interface.
type TourServiceImpl struct {
	tourRepo  secondary.TourRepository
	logWriter secondary.LogWriter
}

// NewTourService creates a new TourService with injected dependencies.
func NewTourService(tourRepo secondary.TourRepository, logWriter secondary.LogWriter) *TourServiceImpl {
	return &TourServiceImpl{
		tourRepo:  tourRepo,
		logWriter: logWriter,
	}
}

// ListTours retrieves tours, optionally searching both countries.
func (s *TourServiceImpl) ListTours(ctx context.Context, query string) ([]*primary.Tour, error) {
	records, err := s.tourRepo.List(ctx, secondary.TourFilters{Search: query})
	if err != nil {
		return nil, fmt.Errorf("failed to list tours: %w", err)
	}

	tours := make([]*primary.Tour, len(records))
	for i, r := range records {
		tours[i] = recordToTour(r)
	}
	return tours, nil
}

// GetTour retrieves a tour by ID.
func (s *TourServiceImpl) GetTour(ctx context.Context, id int64) (*primary.Tour, error) {
	record, err := s.tourRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return recordToTour(record), nil
}

// CreateTour validates and persists a new tour.
func (s *TourServiceImpl) CreateTour(ctx context.Context, data form.Data) (*primary.Tour, error) {
	cleaned, errs := tour.Form.Bind(data)
	if errs.Any() {
		return nil, primary.NewValidationError(errs)
	}

	record := cleanedToTour(cleaned)
	if err := s.tourRepo.Create(ctx, record); err != nil {
		return nil, fmt.Errorf("failed to create tour: %w", err)
	}

	created := recordToTour(record)
	if s.logWriter != nil {
		_ = s.logWriter.LogCreate(ctx, tour.EntityType, strconv.FormatInt(record.ID, 10), created.String())
	}
	return created, nil
}

// UpdateTour validates data and overwrites the tour.
func (s *TourServiceImpl) UpdateTour(ctx context.Context, id int64, data form.Data) (*primary.Tour, error) {
	existing, err := s.tourRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	cleaned, errs := tour.Form.Bind(data)
	if errs.Any() {
		return nil, primary.NewValidationError(errs)
	}

	record := cleanedToTour(cleaned)
	record.ID = id
	record.CreatedAt = existing.CreatedAt
	if err := s.tourRepo.Update(ctx, record); err != nil {
		return nil, fmt.Errorf("failed to update tour: %w", err)
	}

	updated := recordToTour(record)
	if s.logWriter != nil {
		msg := changeMessage(tour.Form, recordToTour(existing).FormData(), updated.FormData())
		_ = s.logWriter.LogUpdate(ctx, tour.EntityType, strconv.FormatInt(id, 10), updated.String(), msg)
	}
	return updated, nil
}

// DeleteTour removes a tour.
func (s *TourServiceImpl) DeleteTour(ctx context.Context, id int64) error {
	existing, err := s.tourRepo.GetByID(ctx, id)
	if err != nil {
		return err
	}

	if err := s.tourRepo.Delete(ctx, id); err != nil {
		return err
	}

	if s.logWriter != nil {
		_ = s.logWriter.LogDelete(ctx, tour.EntityType, strconv.FormatInt(id, 10), recordToTour(existing).String())
	}
	return nil
}

// Helper methods

func recordToTour(r *secondary.TourRecord) *primary.Tour {
	return &primary.Tour{
		ID:                 r.ID,
		OriginCountry:      r.OriginCountry,
		DestinationCountry: r.DestinationCountry,
		Nights:             r.Nights,
		Price:              r.Price,
		CreatedAt:          r.CreatedAt,
		UpdatedAt:          r.UpdatedAt,
	}
}

func cleanedToTour(c form.Cleaned) *secondary.TourRecord {
	return &secondary.TourRecord{
		OriginCountry:      c.String("origin_country"),
		DestinationCountry: c.String("destination_country"),
		Nights:             c.Int("nights"),
		Price:              c.Int("price"),
	}
}

// Ensure TourServiceImpl implements the interface.
var _ primary.TourService = (*TourServiceImpl)(nil)
