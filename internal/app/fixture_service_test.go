package app

import (
	"bytes"
	"context"
	"strings"
	"testing"

	qt "github.com/frankban/quicktest"

	"github.com/example/stockroom/internal/adapters/sqlstore"
	"github.com/example/stockroom/internal/core/product"
	"github.com/example/stockroom/internal/core/tour"
	"github.com/example/stockroom/internal/ports/secondary"
)

func TestFixtures_RoundTrip(t *testing.T) {
	c := qt.New(t)
	ctx := context.Background()

	src := newTestDB(t)
	_, err := src.Exec(`INSERT INTO tours (origin_country, destination_country, nights, price, created_at, updated_at)
		VALUES ('Portugal', 'Spain', 5, 450, CURRENT_TIMESTAMP, CURRENT_TIMESTAMP)`)
	c.Assert(err, qt.IsNil)
	_, err = src.Exec(`INSERT INTO products (name, sku, price, quantity, supplier, created_at, updated_at)
		VALUES ('Wireless Mouse', 'SKU001', 24.99, 42, 'Acme', CURRENT_TIMESTAMP, CURRENT_TIMESTAMP)`)
	c.Assert(err, qt.IsNil)

	dumper := NewFixtureService(sqlstore.NewTourRepository(src), sqlstore.NewProductRepository(src))
	var buf bytes.Buffer
	summary, err := dumper.Dump(ctx, &buf)
	c.Assert(err, qt.IsNil)
	c.Assert(summary.Total(), qt.Equals, 2)
	c.Assert(buf.String(), qt.Contains, "model: tours.tour")
	c.Assert(buf.String(), qt.Contains, "sku: SKU001")

	dst := newTestDB(t)
	tours := sqlstore.NewTourRepository(dst)
	products := sqlstore.NewProductRepository(dst)
	loader := NewFixtureService(tours, products)

	summary, err = loader.Load(ctx, &buf)
	c.Assert(err, qt.IsNil)
	c.Assert(summary.Counts, qt.DeepEquals, map[string]int{tour.ModelLabel: 1, product.ModelLabel: 1})

	got, err := products.GetBySKU(ctx, "SKU001")
	c.Assert(err, qt.IsNil)
	c.Assert(got.ID, qt.Equals, int64(1))
	c.Assert(got.Price, qt.Equals, 24.99)
	c.Assert(got.Quantity, qt.Equals, 42)

	loadedTour, err := tours.GetByID(ctx, 1)
	c.Assert(err, qt.IsNil)
	c.Assert(loadedTour.DestinationCountry, qt.Equals, "Spain")
}

func TestFixtures_LoadUpdatesExistingPK(t *testing.T) {
	c := qt.New(t)
	ctx := context.Background()

	repo := newMockProductRepository()
	c.Assert(repo.Create(ctx, &secondary.ProductRecord{ID: 7, Name: "Old", SKU: "X-7", Price: 1, Quantity: 1, Supplier: "S"}), qt.IsNil)

	service := NewFixtureService(newMockTourRepository(), repo)
	_, err := service.Load(ctx, strings.NewReader(`
- model: inventory.product
  pk: 7
  fields:
    name: New
    sku: X-7
    price: 2
    quantity: 9
    supplier: S
`))
	c.Assert(err, qt.IsNil)
	c.Assert(repo.products, qt.HasLen, 1)
	c.Assert(repo.products[7].Name, qt.Equals, "New")
	c.Assert(repo.products[7].Quantity, qt.Equals, 9)
}

func TestFixtures_LoadErrors(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr string
	}{
		{
			name:    "unknown model",
			input:   "- model: shop.widget\n  pk: 1\n  fields: {}\n",
			wantErr: `object 1 \(shop.widget pk=1\): unknown model "shop.widget"`,
		},
		{
			name:    "invalid fields",
			input:   "- model: tours.tour\n  pk: 2\n  fields:\n    origin_country: Chile\n",
			wantErr: `object 1 \(tours.tour pk=2\): validation failed: .*`,
		},
		{
			name:    "not yaml",
			input:   "{{{",
			wantErr: "failed to parse fixtures: .*",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := qt.New(t)
			service := NewFixtureService(newMockTourRepository(), newMockProductRepository())
			_, err := service.Load(context.Background(), strings.NewReader(tt.input))
			c.Assert(err, qt.ErrorMatches, tt.wantErr)
		})
	}
}

func TestFixtures_LoadEmpty(t *testing.T) {
	c := qt.New(t)
	service := NewFixtureService(newMockTourRepository(), newMockProductRepository())

	summary, err := service.Load(context.Background(), strings.NewReader(""))
	c.Assert(err, qt.IsNil)
	c.Assert(summary.Total(), qt.Equals, 0)
}
