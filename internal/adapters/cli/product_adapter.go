package cli

import (
	"context"
	"fmt"
	"io"

	"github.com/example/stockroom/internal/core/form"
	"github.com/example/stockroom/internal/ports/primary"
)

// ProductAdapter translates CLI operations to ProductService calls.
type ProductAdapter struct {
	service primary.ProductService
	out     io.Writer
}

// NewProductAdapter creates a new ProductAdapter with the given service.
func NewProductAdapter(service primary.ProductService, out io.Writer) *ProductAdapter {
	return &ProductAdapter{
		service: service,
		out:     out,
	}
}

// List prints products matching search as a table.
func (a *ProductAdapter) List(ctx context.Context, search string) error {
	products, err := a.service.ListProducts(ctx, search)
	if err != nil {
		return fmt.Errorf("failed to list products: %w", err)
	}

	if len(products) == 0 {
		fmt.Fprintln(a.out, "No products found")
		return nil
	}

	t := NewTable(a.out, "ID", "NAME", "SKU", "PRICE", "QTY", "SUPPLIER", "")
	for _, p := range products {
		flag := ""
		if p.LowStock {
			flag = lowStock
		}
		t.AppendRow([]any{p.ID, p.Name, p.SKU, fmt.Sprintf("%.2f", p.Price), p.Quantity, p.Supplier, flag})
	}
	t.Render()
	return nil
}

// Create validates data and stores a new product.
func (a *ProductAdapter) Create(ctx context.Context, data form.Data) error {
	p, err := a.service.CreateProduct(ctx, data)
	if err != nil {
		return DescribeError(err)
	}

	fmt.Fprintf(a.out, "%s Created product %d: %s (%s)\n", okMark, p.ID, p.Name, p.SKU)
	return nil
}

// Show prints one product.
func (a *ProductAdapter) Show(ctx context.Context, id int64) (*primary.Product, error) {
	p, err := a.service.GetProduct(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get product %d: %w", id, err)
	}

	fmt.Fprintf(a.out, "\nProduct:  %d\n", p.ID)
	fmt.Fprintf(a.out, "Name:     %s\n", p.Name)
	fmt.Fprintf(a.out, "SKU:      %s\n", p.SKU)
	fmt.Fprintf(a.out, "Price:    %.2f\n", p.Price)
	if p.LowStock {
		fmt.Fprintf(a.out, "Quantity: %d %s\n", p.Quantity, lowStock)
	} else {
		fmt.Fprintf(a.out, "Quantity: %d\n", p.Quantity)
	}
	if p.Supplier != "" {
		fmt.Fprintf(a.out, "Supplier: %s\n", p.Supplier)
	}
	fmt.Fprintf(a.out, "Created:  %s\n", p.CreatedAt.Format("2006-01-02 15:04"))
	fmt.Fprintf(a.out, "Updated:  %s\n", p.UpdatedAt.Format("2006-01-02 15:04"))
	fmt.Fprintln(a.out)

	return p, nil
}

// Update applies the non-empty values in changes on top of the stored product.
func (a *ProductAdapter) Update(ctx context.Context, id int64, changes form.Data) error {
	current, err := a.service.GetProduct(ctx, id)
	if err != nil {
		return fmt.Errorf("failed to get product %d: %w", id, err)
	}

	p, err := a.service.UpdateProduct(ctx, id, overlay(current.FormData(), changes))
	if err != nil {
		return DescribeError(err)
	}

	fmt.Fprintf(a.out, "%s Product %d updated\n", okMark, p.ID)
	return nil
}

// Delete removes a product.
func (a *ProductAdapter) Delete(ctx context.Context, id int64) error {
	p, err := a.service.GetProduct(ctx, id)
	if err != nil {
		return fmt.Errorf("failed to get product %d: %w", id, err)
	}

	if err := a.service.DeleteProduct(ctx, id); err != nil {
		return err
	}

	fmt.Fprintf(a.out, "%s Deleted product %d: %s\n", okMark, p.ID, p.Name)
	return nil
}
