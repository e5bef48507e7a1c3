package app

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/example/stockroom/internal/core/form"
	"github.com/example/stockroom/internal/core/product"
	"github.com/example/stockroom/internal/ports/primary"
	"github.com/example/stockroom/internal/ports/secondary"
)

// ProductServiceImpl implements the ProductService interface.
type ProductServiceImpl struct {
	productRepo       secondary.ProductRepository
	logWriter         secondary.LogWriter
	lowStockThreshold int
}

// NewProductService creates a new ProductService with injected dependencies.
// logWriter may be nil.
func NewProductService(productRepo secondary.ProductRepository, logWriter secondary.LogWriter, lowStockThreshold int) *ProductServiceImpl {
	return &ProductServiceImpl{
		productRepo:       productRepo,
		logWriter:         logWriter,
		lowStockThreshold: lowStockThreshold,
	}
}

// ListProducts returns products matching query by name or SKU.
func (s *ProductServiceImpl) ListProducts(ctx context.Context, query string) ([]*primary.Product, error) {
	records, err := s.productRepo.List(ctx, secondary.ProductFilters{Search: query})
	if err != nil {
		return nil, fmt.Errorf("failed to list products: %w", err)
	}

	products := make([]*primary.Product, len(records))
	for i, r := range records {
		products[i] = s.recordToProduct(r)
	}
	return products, nil
}

// GetProduct retrieves a product by ID.
func (s *ProductServiceImpl) GetProduct(ctx context.Context, id int64) (*primary.Product, error) {
	record, err := s.productRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return s.recordToProduct(record), nil
}

// CreateProduct validates and persists a new product.
func (s *ProductServiceImpl) CreateProduct(ctx context.Context, data form.Data) (*primary.Product, error) {
	cleaned, errs := product.Form.Bind(data)
	if errs.Any() {
		return nil, primary.NewValidationError(errs)
	}

	record := cleanedToProduct(cleaned)
	if err := s.checkSKU(ctx, 0, record.SKU); err != nil {
		return nil, err
	}

	if err := s.productRepo.Create(ctx, record); err != nil {
		if errors.Is(err, secondary.ErrDuplicate) {
			return nil, primary.FieldError("sku", product.MsgDuplicateSKU)
		}
		return nil, fmt.Errorf("failed to create product: %w", err)
	}

	if s.logWriter != nil {
		_ = s.logWriter.LogCreate(ctx, product.EntityType, strconv.FormatInt(record.ID, 10), record.Name)
	}

	return s.recordToProduct(record), nil
}

// UpdateProduct validates data and overwrites the product.
func (s *ProductServiceImpl) UpdateProduct(ctx context.Context, id int64, data form.Data) (*primary.Product, error) {
	existing, err := s.productRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	cleaned, errs := product.Form.Bind(data)
	if errs.Any() {
		return nil, primary.NewValidationError(errs)
	}

	record := cleanedToProduct(cleaned)
	record.ID = id
	record.CreatedAt = existing.CreatedAt
	if err := s.checkSKU(ctx, id, record.SKU); err != nil {
		return nil, err
	}

	if err := s.productRepo.Update(ctx, record); err != nil {
		if errors.Is(err, secondary.ErrDuplicate) {
			return nil, primary.FieldError("sku", product.MsgDuplicateSKU)
		}
		return nil, fmt.Errorf("failed to update product: %w", err)
	}

	if s.logWriter != nil {
		before := s.recordToProduct(existing).FormData()
		after := s.recordToProduct(record).FormData()
		_ = s.logWriter.LogUpdate(ctx, product.EntityType, strconv.FormatInt(id, 10), record.Name, changeMessage(product.Form, before, after))
	}

	return s.recordToProduct(record), nil
}

// DeleteProduct removes a product.
func (s *ProductServiceImpl) DeleteProduct(ctx context.Context, id int64) error {
	existing, err := s.productRepo.GetByID(ctx, id)
	if err != nil {
		return err
	}

	if err := s.productRepo.Delete(ctx, id); err != nil {
		return err
	}

	if s.logWriter != nil {
		_ = s.logWriter.LogDelete(ctx, product.EntityType, strconv.FormatInt(id, 10), existing.Name)
	}
	return nil
}

// Helper methods

// checkSKU reports a field error when sku belongs to another product.
// The unique constraint still decides races between concurrent writers.
func (s *ProductServiceImpl) checkSKU(ctx context.Context, id int64, sku string) error {
	var ownerID int64
	owner, err := s.productRepo.GetBySKU(ctx, sku)
	switch {
	case err == nil:
		ownerID = owner.ID
	case !errors.Is(err, secondary.ErrNotFound):
		return fmt.Errorf("failed to check sku: %w", err)
	}

	result := product.CanSaveProduct(product.SaveProductContext{ProductID: id, SKU: sku, SKUOwnerID: ownerID})
	if !result.Allowed {
		return primary.FieldError("sku", result.Reason)
	}
	return nil
}

func (s *ProductServiceImpl) recordToProduct(r *secondary.ProductRecord) *primary.Product {
	return &primary.Product{
		ID:        r.ID,
		Name:      r.Name,
		SKU:       r.SKU,
		Price:     r.Price,
		Quantity:  r.Quantity,
		Supplier:  r.Supplier,
		LowStock:  product.IsLowStock(r.Quantity, s.lowStockThreshold),
		CreatedAt: r.CreatedAt,
		UpdatedAt: r.UpdatedAt,
	}
}

func cleanedToProduct(c form.Cleaned) *secondary.ProductRecord {
	return &secondary.ProductRecord{
		Name:     c.String("name"),
		SKU:      c.String("sku"),
		Price:    c.Float("price"),
		Quantity: c.Int("quantity"),
		Supplier: c.String("supplier"),
	}
}

// Ensure ProductServiceImpl implements the interface.
var _ primary.ProductService = (*ProductServiceImpl)(nil)
