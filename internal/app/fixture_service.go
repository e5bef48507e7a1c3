package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/example/stockroom/internal/core/form"
	"github.com/example/stockroom/internal/core/product"
	"github.com/example/stockroom/internal/core/tour"
	"github.com/example/stockroom/internal/ports/primary"
	"github.com/example/stockroom/internal/ports/secondary"
)

// fixtureObject is one entry of a fixture document.
type fixtureObject struct {
	Model  string         `yaml:"model"`
	PK     int64          `yaml:"pk,omitempty"`
	Fields map[string]any `yaml:"fields"`
}

// FixtureServiceImpl implements the FixtureService interface.
type FixtureServiceImpl struct {
	tourRepo    secondary.TourRepository
	productRepo secondary.ProductRepository
}

// NewFixtureService creates a new FixtureService with injected dependencies.
func NewFixtureService(tourRepo secondary.TourRepository, productRepo secondary.ProductRepository) *FixtureServiceImpl {
	return &FixtureServiceImpl{
		tourRepo:    tourRepo,
		productRepo: productRepo,
	}
}

// Dump writes tours then products as one YAML sequence.
func (s *FixtureServiceImpl) Dump(ctx context.Context, w io.Writer) (*primary.FixtureSummary, error) {
	summary := &primary.FixtureSummary{Counts: map[string]int{}}
	var objects []fixtureObject

	tours, err := s.tourRepo.List(ctx, secondary.TourFilters{})
	if err != nil {
		return nil, fmt.Errorf("failed to list tours: %w", err)
	}
	for _, t := range tours {
		objects = append(objects, fixtureObject{
			Model: tour.ModelLabel,
			PK:    t.ID,
			Fields: map[string]any{
				"origin_country":      t.OriginCountry,
				"destination_country": t.DestinationCountry,
				"nights":              t.Nights,
				"price":               t.Price,
				"created_at":          t.CreatedAt.Format(time.RFC3339),
				"updated_at":          t.UpdatedAt.Format(time.RFC3339),
			},
		})
		summary.Counts[tour.ModelLabel]++
	}

	products, err := s.productRepo.List(ctx, secondary.ProductFilters{})
	if err != nil {
		return nil, fmt.Errorf("failed to list products: %w", err)
	}
	for _, p := range products {
		objects = append(objects, fixtureObject{
			Model: product.ModelLabel,
			PK:    p.ID,
			Fields: map[string]any{
				"name":       p.Name,
				"sku":        p.SKU,
				"price":      p.Price,
				"quantity":   p.Quantity,
				"supplier":   p.Supplier,
				"created_at": p.CreatedAt.Format(time.RFC3339),
				"updated_at": p.UpdatedAt.Format(time.RFC3339),
			},
		})
		summary.Counts[product.ModelLabel]++
	}

	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(objects); err != nil {
		return nil, fmt.Errorf("failed to encode fixtures: %w", err)
	}
	if err := enc.Close(); err != nil {
		return nil, fmt.Errorf("failed to encode fixtures: %w", err)
	}

	return summary, nil
}

// Load reads a fixture document and upserts every object by primary key.
// Loading stops at the first invalid object; objects before it stay applied.
func (s *FixtureServiceImpl) Load(ctx context.Context, r io.Reader) (*primary.FixtureSummary, error) {
	var objects []fixtureObject
	if err := yaml.NewDecoder(r).Decode(&objects); err != nil {
		if errors.Is(err, io.EOF) {
			return &primary.FixtureSummary{Counts: map[string]int{}}, nil
		}
		return nil, fmt.Errorf("failed to parse fixtures: %w", err)
	}

	summary := &primary.FixtureSummary{Counts: map[string]int{}}
	for i, obj := range objects {
		var err error
		switch obj.Model {
		case tour.ModelLabel:
			err = s.loadTour(ctx, obj)
		case product.ModelLabel:
			err = s.loadProduct(ctx, obj)
		default:
			err = fmt.Errorf("unknown model %q", obj.Model)
		}
		if err != nil {
			return summary, fmt.Errorf("object %d (%s pk=%d): %w", i+1, obj.Model, obj.PK, err)
		}
		summary.Counts[obj.Model]++
	}

	return summary, nil
}

func (s *FixtureServiceImpl) loadTour(ctx context.Context, obj fixtureObject) error {
	cleaned, errs := tour.Form.Bind(fieldsToData(obj.Fields))
	if errs.Any() {
		return primary.NewValidationError(errs)
	}

	record := cleanedToTour(cleaned)
	record.ID = obj.PK
	if obj.PK != 0 {
		existing, err := s.tourRepo.GetByID(ctx, obj.PK)
		switch {
		case err == nil:
			record.CreatedAt = existing.CreatedAt
			return s.tourRepo.Update(ctx, record)
		case !errors.Is(err, secondary.ErrNotFound):
			return err
		}
	}
	return s.tourRepo.Create(ctx, record)
}

func (s *FixtureServiceImpl) loadProduct(ctx context.Context, obj fixtureObject) error {
	cleaned, errs := product.Form.Bind(fieldsToData(obj.Fields))
	if errs.Any() {
		return primary.NewValidationError(errs)
	}

	record := cleanedToProduct(cleaned)
	record.ID = obj.PK
	if obj.PK != 0 {
		existing, err := s.productRepo.GetByID(ctx, obj.PK)
		switch {
		case err == nil:
			record.CreatedAt = existing.CreatedAt
			return s.productRepo.Update(ctx, record)
		case !errors.Is(err, secondary.ErrNotFound):
			return err
		}
	}
	return s.productRepo.Create(ctx, record)
}

func fieldsToData(fields map[string]any) form.Data {
	data := make(form.Data, len(fields))
	for k, v := range fields {
		data[k] = form.Format(v)
	}
	return data
}

// Ensure FixtureServiceImpl implements the interface.
var _ primary.FixtureService = (*FixtureServiceImpl)(nil)
