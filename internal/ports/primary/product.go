package primary

import (
	"context"
	"time"

	"github.com/example/stockroom/internal/core/form"
)

// ProductService defines the primary port for inventory products.
type ProductService interface {
	// ListProducts returns products whose name or SKU contains query
	// (case-insensitive), or all products when query is empty.
	ListProducts(ctx context.Context, query string) ([]*Product, error)

	// GetProduct retrieves a product by ID.
	GetProduct(ctx context.Context, id int64) (*Product, error)

	// CreateProduct validates data against the product form and persists it.
	CreateProduct(ctx context.Context, data form.Data) (*Product, error)

	// UpdateProduct validates data and overwrites the product's fields.
	UpdateProduct(ctx context.Context, id int64, data form.Data) (*Product, error)

	// DeleteProduct removes a product.
	DeleteProduct(ctx context.Context, id int64) error
}

// Product represents a product at the port boundary.
type Product struct {
	ID        int64
	Name      string
	SKU       string
	Price     float64
	Quantity  int
	Supplier  string
	LowStock  bool
	CreatedAt time.Time
	UpdatedAt time.Time
}

// FormData renders the product as raw form values, for pre-populating an update form.
func (p *Product) FormData() form.Data {
	return form.Data{
		"name":     p.Name,
		"sku":      p.SKU,
		"price":    form.Format(p.Price),
		"quantity": form.Format(p.Quantity),
		"supplier": p.Supplier,
	}
}

func (p *Product) String() string {
	return p.Name
}
