package db

import (
	"context"
	"fmt"
	"time"
)

// SeedResult reports how many rows SeedFixtures inserted per table.
type SeedResult struct {
	Tours    int
	Products int
}

// SeedFixtures populates empty tour and product tables with the sample data
// used throughout the lessons. Tables that already hold rows are left alone.
func SeedFixtures(ctx context.Context, database *DB) (*SeedResult, error) {
	now := time.Now().UTC()
	result := &SeedResult{}

	empty, err := tableEmpty(ctx, database, "tours")
	if err != nil {
		return nil, err
	}
	if empty {
		tours := []struct {
			origin, destination string
			nights, price       int
		}{
			{"Portugal", "Spain", 5, 450},
			{"France", "Italy", 7, 890},
			{"Germany", "Austria", 3, 320},
			{"Japan", "South Korea", 10, 2100},
		}
		for _, t := range tours {
			if _, err := database.ExecContext(ctx,
				"INSERT INTO tours (origin_country, destination_country, nights, price, created_at, updated_at) VALUES (?, ?, ?, ?, ?, ?)",
				t.origin, t.destination, t.nights, t.price, now, now,
			); err != nil {
				return nil, fmt.Errorf("seed tours: %w", err)
			}
			result.Tours++
		}
	}

	empty, err = tableEmpty(ctx, database, "products")
	if err != nil {
		return nil, err
	}
	if empty {
		products := []struct {
			name, sku, supplier string
			price               float64
			quantity            int
		}{
			{"Wireless Mouse", "SKU001", "Acme Peripherals", 24.99, 42},
			{"Mechanical Keyboard", "SKU002", "Acme Peripherals", 89.50, 7},
			{"USB-C Hub", "SKU003", "Portline", 39.00, 15},
			{"27\" Monitor", "SKU004", "Viewtek", 279.99, 3},
			{"Laptop Stand", "SKU005", "Deskwise", 45.00, 0},
		}
		for _, p := range products {
			if _, err := database.ExecContext(ctx,
				"INSERT INTO products (name, sku, price, quantity, supplier, created_at, updated_at) VALUES (?, ?, ?, ?, ?, ?, ?)",
				p.name, p.sku, p.price, p.quantity, p.supplier, now, now,
			); err != nil {
				return nil, fmt.Errorf("seed products: %w", err)
			}
			result.Products++
		}
	}

	return result, nil
}

func tableEmpty(ctx context.Context, database *DB, table string) (bool, error) {
	var n int
	if err := database.QueryRowContext(ctx, "SELECT COUNT(*) FROM "+table).Scan(&n); err != nil {
		return false, fmt.Errorf("failed to count %s: %w", table, err)
	}
	return n == 0, nil
}
