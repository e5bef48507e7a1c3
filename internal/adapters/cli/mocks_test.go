package cli

import (
	"context"
	"sort"
	"strings"

	"github.com/example/stockroom/internal/core/form"
	"github.com/example/stockroom/internal/ports/primary"
	"github.com/example/stockroom/internal/ports/secondary"
)

// mockProductService implements primary.ProductService for testing.
// Create stores whatever it receives unless createErr is set.
type mockProductService struct {
	products  map[int64]*primary.Product
	nextID    int64
	createErr error
	updateErr error

	// Track calls for verification
	lastSearch string
	lastData   form.Data
}

func newMockProductService(products ...*primary.Product) *mockProductService {
	m := &mockProductService{products: map[int64]*primary.Product{}, nextID: 1}
	for _, p := range products {
		m.products[p.ID] = p
		if p.ID >= m.nextID {
			m.nextID = p.ID + 1
		}
	}
	return m
}

func (m *mockProductService) ListProducts(ctx context.Context, query string) ([]*primary.Product, error) {
	m.lastSearch = query
	var out []*primary.Product
	for _, p := range m.products {
		if query == "" || strings.Contains(strings.ToLower(p.Name), strings.ToLower(query)) {
			out = append(out, p)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (m *mockProductService) GetProduct(ctx context.Context, id int64) (*primary.Product, error) {
	p, ok := m.products[id]
	if !ok {
		return nil, secondary.ErrNotFound
	}
	return p, nil
}

func (m *mockProductService) CreateProduct(ctx context.Context, data form.Data) (*primary.Product, error) {
	m.lastData = data
	if m.createErr != nil {
		return nil, m.createErr
	}
	p := &primary.Product{ID: m.nextID, Name: data["name"], SKU: data["sku"], Supplier: data["supplier"]}
	m.nextID++
	m.products[p.ID] = p
	return p, nil
}

func (m *mockProductService) UpdateProduct(ctx context.Context, id int64, data form.Data) (*primary.Product, error) {
	m.lastData = data
	if m.updateErr != nil {
		return nil, m.updateErr
	}
	p, ok := m.products[id]
	if !ok {
		return nil, secondary.ErrNotFound
	}
	p.Name = data["name"]
	p.SKU = data["sku"]
	return p, nil
}

func (m *mockProductService) DeleteProduct(ctx context.Context, id int64) error {
	if _, ok := m.products[id]; !ok {
		return secondary.ErrNotFound
	}
	delete(m.products, id)
	return nil
}

// mockTourService implements primary.TourService for testing.
type mockTourService struct {
	tours  map[int64]*primary.Tour
	nextID int64

	lastSearch string
	lastData   form.Data
}

func newMockTourService(tours ...*primary.Tour) *mockTourService {
	m := &mockTourService{tours: map[int64]*primary.Tour{}, nextID: 1}
	for _, t := range tours {
		m.tours[t.ID] = t
		if t.ID >= m.nextID {
			m.nextID = t.ID + 1
		}
	}
	return m
}

func (m *mockTourService) ListTours(ctx context.Context, query string) ([]*primary.Tour, error) {
	m.lastSearch = query
	var out []*primary.Tour
	for _, t := range m.tours {
		out = append(out, t)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (m *mockTourService) GetTour(ctx context.Context, id int64) (*primary.Tour, error) {
	t, ok := m.tours[id]
	if !ok {
		return nil, secondary.ErrNotFound
	}
	return t, nil
}

func (m *mockTourService) CreateTour(ctx context.Context, data form.Data) (*primary.Tour, error) {
	m.lastData = data
	t := &primary.Tour{ID: m.nextID, OriginCountry: data["origin_country"], DestinationCountry: data["destination_country"]}
	m.nextID++
	m.tours[t.ID] = t
	return t, nil
}

func (m *mockTourService) UpdateTour(ctx context.Context, id int64, data form.Data) (*primary.Tour, error) {
	m.lastData = data
	t, ok := m.tours[id]
	if !ok {
		return nil, secondary.ErrNotFound
	}
	t.OriginCountry = data["origin_country"]
	t.DestinationCountry = data["destination_country"]
	return t, nil
}

func (m *mockTourService) DeleteTour(ctx context.Context, id int64) error {
	if _, ok := m.tours[id]; !ok {
		return secondary.ErrNotFound
	}
	delete(m.tours, id)
	return nil
}

var (
	_ primary.ProductService = (*mockProductService)(nil)
	_ primary.TourService    = (*mockTourService)(nil)
)
