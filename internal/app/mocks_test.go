package app

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/example/stockroom/internal/ports/secondary"
)

// ============================================================================
// Mock Implementations
// ============================================================================

// mockProductRepository implements secondary.ProductRepository for testing.
type mockProductRepository struct {
	products   map[int64]*secondary.ProductRecord
	nextID     int64
	lastFilter secondary.ProductFilters
	createErr  error
	updateErr  error
}

func newMockProductRepository() *mockProductRepository {
	return &mockProductRepository{products: make(map[int64]*secondary.ProductRecord), nextID: 1}
}

func (m *mockProductRepository) Create(ctx context.Context, p *secondary.ProductRecord) error {
	if m.createErr != nil {
		return m.createErr
	}
	if p.ID == 0 {
		p.ID = m.nextID
	}
	if p.ID >= m.nextID {
		m.nextID = p.ID + 1
	}
	p.CreatedAt = time.Now()
	p.UpdatedAt = p.CreatedAt
	cp := *p
	m.products[p.ID] = &cp
	return nil
}

func (m *mockProductRepository) GetByID(ctx context.Context, id int64) (*secondary.ProductRecord, error) {
	if p, ok := m.products[id]; ok {
		cp := *p
		return &cp, nil
	}
	return nil, fmt.Errorf("product %d: %w", id, secondary.ErrNotFound)
}

func (m *mockProductRepository) GetBySKU(ctx context.Context, sku string) (*secondary.ProductRecord, error) {
	for _, p := range m.products {
		if p.SKU == sku {
			cp := *p
			return &cp, nil
		}
	}
	return nil, fmt.Errorf("product %q: %w", sku, secondary.ErrNotFound)
}

func (m *mockProductRepository) Update(ctx context.Context, p *secondary.ProductRecord) error {
	if m.updateErr != nil {
		return m.updateErr
	}
	if _, ok := m.products[p.ID]; !ok {
		return fmt.Errorf("product %d: %w", p.ID, secondary.ErrNotFound)
	}
	p.UpdatedAt = time.Now()
	cp := *p
	m.products[p.ID] = &cp
	return nil
}

func (m *mockProductRepository) Delete(ctx context.Context, id int64) error {
	if _, ok := m.products[id]; !ok {
		return fmt.Errorf("product %d: %w", id, secondary.ErrNotFound)
	}
	delete(m.products, id)
	return nil
}

func (m *mockProductRepository) List(ctx context.Context, filters secondary.ProductFilters) ([]*secondary.ProductRecord, error) {
	m.lastFilter = filters
	var out []*secondary.ProductRecord
	q := strings.ToLower(filters.Search)
	for _, p := range m.products {
		if q == "" || strings.Contains(strings.ToLower(p.Name), q) || strings.Contains(strings.ToLower(p.SKU), q) {
			cp := *p
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

// mockTourRepository implements secondary.TourRepository for testing.
type mockTourRepository struct {
	tours  map[int64]*secondary.TourRecord
	nextID int64
}

func newMockTourRepository() *mockTourRepository {
	return &mockTourRepository{tours: make(map[int64]*secondary.TourRecord), nextID: 1}
}

func (m *mockTourRepository) Create(ctx context.Context, t *secondary.TourRecord) error {
	if t.ID == 0 {
		t.ID = m.nextID
	}
	if t.ID >= m.nextID {
		m.nextID = t.ID + 1
	}
	cp := *t
	m.tours[t.ID] = &cp
	return nil
}

func (m *mockTourRepository) GetByID(ctx context.Context, id int64) (*secondary.TourRecord, error) {
	if t, ok := m.tours[id]; ok {
		cp := *t
		return &cp, nil
	}
	return nil, fmt.Errorf("tour %d: %w", id, secondary.ErrNotFound)
}

func (m *mockTourRepository) Update(ctx context.Context, t *secondary.TourRecord) error {
	if _, ok := m.tours[t.ID]; !ok {
		return fmt.Errorf("tour %d: %w", t.ID, secondary.ErrNotFound)
	}
	cp := *t
	m.tours[t.ID] = &cp
	return nil
}

func (m *mockTourRepository) Delete(ctx context.Context, id int64) error {
	if _, ok := m.tours[id]; !ok {
		return fmt.Errorf("tour %d: %w", id, secondary.ErrNotFound)
	}
	delete(m.tours, id)
	return nil
}

func (m *mockTourRepository) List(ctx context.Context, filters secondary.TourFilters) ([]*secondary.TourRecord, error) {
	var out []*secondary.TourRecord
	for _, t := range m.tours {
		cp := *t
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

// mockUserRepository implements secondary.UserRepository for testing.
type mockUserRepository struct {
	users  map[int64]*secondary.UserRecord
	nextID int64
}

func newMockUserRepository() *mockUserRepository {
	return &mockUserRepository{users: make(map[int64]*secondary.UserRecord), nextID: 1}
}

func (m *mockUserRepository) Create(ctx context.Context, u *secondary.UserRecord) error {
	for _, existing := range m.users {
		if existing.Username == u.Username {
			return fmt.Errorf("user %q: %w", u.Username, secondary.ErrDuplicate)
		}
	}
	u.ID = m.nextID
	m.nextID++
	cp := *u
	m.users[u.ID] = &cp
	return nil
}

func (m *mockUserRepository) GetByID(ctx context.Context, id int64) (*secondary.UserRecord, error) {
	if u, ok := m.users[id]; ok {
		cp := *u
		return &cp, nil
	}
	return nil, fmt.Errorf("user %d: %w", id, secondary.ErrNotFound)
}

func (m *mockUserRepository) GetByUsername(ctx context.Context, username string) (*secondary.UserRecord, error) {
	for _, u := range m.users {
		if u.Username == username {
			cp := *u
			return &cp, nil
		}
	}
	return nil, fmt.Errorf("user %q: %w", username, secondary.ErrNotFound)
}

func (m *mockUserRepository) List(ctx context.Context) ([]*secondary.UserRecord, error) {
	var out []*secondary.UserRecord
	for _, u := range m.users {
		cp := *u
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Username < out[j].Username })
	return out, nil
}

func (m *mockUserRepository) UpdatePassword(ctx context.Context, id int64, hash string) error {
	u, ok := m.users[id]
	if !ok {
		return fmt.Errorf("user %d: %w", id, secondary.ErrNotFound)
	}
	u.PasswordHash = hash
	return nil
}

func (m *mockUserRepository) UpdateLastLogin(ctx context.Context, id int64, at time.Time) error {
	u, ok := m.users[id]
	if !ok {
		return fmt.Errorf("user %d: %w", id, secondary.ErrNotFound)
	}
	u.LastLogin = &at
	return nil
}

// mockSessionRepository implements secondary.SessionRepository for testing.
type mockSessionRepository struct {
	sessions map[string]*secondary.SessionRecord
}

func newMockSessionRepository() *mockSessionRepository {
	return &mockSessionRepository{sessions: make(map[string]*secondary.SessionRecord)}
}

func (m *mockSessionRepository) Create(ctx context.Context, s *secondary.SessionRecord) error {
	cp := *s
	m.sessions[s.ID] = &cp
	return nil
}

func (m *mockSessionRepository) GetByID(ctx context.Context, id string) (*secondary.SessionRecord, error) {
	if s, ok := m.sessions[id]; ok {
		cp := *s
		return &cp, nil
	}
	return nil, fmt.Errorf("session: %w", secondary.ErrNotFound)
}

func (m *mockSessionRepository) Delete(ctx context.Context, id string) error {
	delete(m.sessions, id)
	return nil
}

func (m *mockSessionRepository) DeleteByUser(ctx context.Context, userID int64) error {
	for id, s := range m.sessions {
		if s.UserID == userID {
			delete(m.sessions, id)
		}
	}
	return nil
}

func (m *mockSessionRepository) DeleteExpired(ctx context.Context, now time.Time) (int64, error) {
	var n int64
	for id, s := range m.sessions {
		if s.ExpiresAt.Before(now) {
			delete(m.sessions, id)
			n++
		}
	}
	return n, nil
}

// logEntry is one call recorded by mockLogWriter.
type logEntry struct {
	action, entityType, entityID, repr, message string
}

// mockLogWriter implements secondary.LogWriter for testing.
type mockLogWriter struct {
	entries []logEntry
}

func (m *mockLogWriter) LogCreate(ctx context.Context, entityType, entityID, repr string) error {
	m.entries = append(m.entries, logEntry{"create", entityType, entityID, repr, ""})
	return nil
}

func (m *mockLogWriter) LogUpdate(ctx context.Context, entityType, entityID, repr, changeMessage string) error {
	m.entries = append(m.entries, logEntry{"update", entityType, entityID, repr, changeMessage})
	return nil
}

func (m *mockLogWriter) LogDelete(ctx context.Context, entityType, entityID, repr string) error {
	m.entries = append(m.entries, logEntry{"delete", entityType, entityID, repr, ""})
	return nil
}

var (
	_ secondary.ProductRepository = (*mockProductRepository)(nil)
	_ secondary.TourRepository    = (*mockTourRepository)(nil)
	_ secondary.UserRepository    = (*mockUserRepository)(nil)
	_ secondary.SessionRepository = (*mockSessionRepository)(nil)
	_ secondary.LogWriter         = (*mockLogWriter)(nil)
)
