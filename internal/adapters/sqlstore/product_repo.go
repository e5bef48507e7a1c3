// Package sqlstore contains database/sql implementations of repository interfaces.
// Queries are written with ? placeholders; db.DB rebinds them per dialect.
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

const productColumns = "id, name, sku, price, quantity, supplier, created_at, updated_at"

// ProductRepository implements secondary.ProductRepository.
type ProductRepository struct {
	db  *db.DB
	now func() time.Time
}

// NewProductRepository creates a new product repository.
func NewProductRepository(database *db.DB) *ProductRepository {
	return &ProductRepository{db: database, now: utcNow}
}

// Create persists a new product. A non-zero ID is inserted as given.
func (r *ProductRepository) Create(ctx context.Context, product *secondary.ProductRecord) error {
	now := r.now()

	if product.ID != 0 {
		_, err := r.db.ExecContext(ctx,
			"INSERT INTO products (id, name, sku, price, quantity, supplier, created_at, updated_at) VALUES (?, ?, ?, ?, ?, ?, ?, ?)",
			product.ID, product.Name, product.SKU, product.Price, product.Quantity, product.Supplier, now, now,
		)
		if err != nil {
			return productWriteError(product.SKU, "create", err)
		}
		if err := r.db.SyncSequence(ctx, "products"); err != nil {
			return err
		}
	} else {
		id, err := r.db.InsertID(ctx,
			"INSERT INTO products (name, sku, price, quantity, supplier, created_at, updated_at) VALUES (?, ?, ?, ?, ?, ?, ?)",
			product.Name, product.SKU, product.Price, product.Quantity, product.Supplier, now, now,
		)
		if err != nil {
			return productWriteError(product.SKU, "create", err)
		}
		product.ID = id
	}

	product.CreatedAt = now
	product.UpdatedAt = now
	return nil
}

// GetByID retrieves a product by its ID.
func (r *ProductRepository) GetByID(ctx context.Context, id int64) (*secondary.ProductRecord, error) {
	row := r.db.QueryRowContext(ctx, "SELECT "+productColumns+" FROM products WHERE id = ?", id)
	record, err := scanProduct(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("product %d: %w", id, secondary.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get product: %w", err)
	}
	return record, nil
}

// GetBySKU retrieves a product by its SKU.
func (r *ProductRepository) GetBySKU(ctx context.Context, sku string) (*secondary.ProductRecord, error) {
	row := r.db.QueryRowContext(ctx, "SELECT "+productColumns+" FROM products WHERE sku = ?", sku)
	record, err := scanProduct(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("product with sku %q: %w", sku, secondary.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get product: %w", err)
	}
	return record, nil
}

// Update overwrites every editable column and bumps updated_at.
func (r *ProductRepository) Update(ctx context.Context, product *secondary.ProductRecord) error {
	now := r.now()

	result, err := r.db.ExecContext(ctx,
		"UPDATE products SET name = ?, sku = ?, price = ?, quantity = ?, supplier = ?, updated_at = ? WHERE id = ?",
		product.Name, product.SKU, product.Price, product.Quantity, product.Supplier, now, product.ID,
	)
	if err != nil {
		return productWriteError(product.SKU, "update", err)
	}
	if err := expectRow(result, "product", product.ID); err != nil {
		return err
	}

	product.UpdatedAt = now
	return nil
}

// Delete removes a product.
func (r *ProductRepository) Delete(ctx context.Context, id int64) error {
	result, err := r.db.ExecContext(ctx, "DELETE FROM products WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("failed to delete product: %w", err)
	}
	return expectRow(result, "product", id)
}

// List retrieves products ordered by name, optionally searching name and SKU.
func (r *ProductRepository) List(ctx context.Context, filters secondary.ProductFilters) ([]*secondary.ProductRecord, error) {
	query := "SELECT " + productColumns + " FROM products"
	var args []any

	if filters.Search != "" {
		pattern := likePattern(filters.Search)
		query += " WHERE " + likeClause("name") + " OR " + likeClause("sku")
		args = append(args, pattern, pattern)
	}
	query += " ORDER BY name ASC, id ASC"

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list products: %w", err)
	}
	defer rows.Close()

	var products []*secondary.ProductRecord
	for rows.Next() {
		record, err := scanProduct(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan product: %w", err)
		}
		products = append(products, record)
	}

	return products, rows.Err()
}

func scanProduct(s scanner) (*secondary.ProductRecord, error) {
	record := &secondary.ProductRecord{}
	err := s.Scan(&record.ID, &record.Name, &record.SKU, &record.Price, &record.Quantity,
		&record.Supplier, &record.CreatedAt, &record.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return record, nil
}

func productWriteError(sku, op string, err error) error {
	if db.IsUniqueViolation(err) {
		return fmt.Errorf("product with sku %q: %w", sku, secondary.ErrDuplicate)
	}
	return fmt.Errorf("failed to %s product: %w", op, err)
}

// Ensure ProductRepository implements the interface
var _ secondary.ProductRepository = (*ProductRepository)(nil)
