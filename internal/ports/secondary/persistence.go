// Package secondary defines the secondary ports (driven adapters) for the application.
// These are the interfaces through which the application drives external systems.
package secondary

import (
	"context"
	"time"
)

// ProductRepository defines the secondary port for product persistence.
type ProductRepository interface {
	// Create persists a new product and fills in its ID and timestamps.
	Create(ctx context.Context, product *ProductRecord) error

	// GetByID retrieves a product by its ID.
	GetByID(ctx context.Context, id int64) (*ProductRecord, error)

	// GetBySKU retrieves a product by its SKU.
	GetBySKU(ctx context.Context, sku string) (*ProductRecord, error)

	// Update updates an existing product and refreshes UpdatedAt.
	Update(ctx context.Context, product *ProductRecord) error

	// Delete removes a product from persistence.
	Delete(ctx context.Context, id int64) error

	// List retrieves products matching the given filters, ordered by name.
	List(ctx context.Context, filters ProductFilters) ([]*ProductRecord, error)
}

// ProductRecord represents a product as stored in persistence.
type ProductRecord struct {
	ID        int64
	Name      string
	SKU       string
	Price     float64
	Quantity  int
	Supplier  string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// ProductFilters contains filter options for querying products.
type ProductFilters struct {
	// Search matches name or SKU, case-insensitively.
	Search string
}

// TourRepository defines the secondary port for tour persistence.
type TourRepository interface {
	Create(ctx context.Context, tour *TourRecord) error
	GetByID(ctx context.Context, id int64) (*TourRecord, error)
	Update(ctx context.Context, tour *TourRecord) error
	Delete(ctx context.Context, id int64) error
	List(ctx context.Context, filters TourFilters) ([]*TourRecord, error)
}

// TourRecord represents a tour as stored in persistence.
type TourRecord struct {
	ID                 int64
	OriginCountry      string
	DestinationCountry string
	Nights             int
	Price              int
	CreatedAt          time.Time
	UpdatedAt          time.Time
}

// TourFilters contains filter options for querying tours.
type TourFilters struct {
	// Search matches origin or destination country, case-insensitively.
	Search string
}

// UserRepository defines the secondary port for credential records.
type UserRepository interface {
	Create(ctx context.Context, user *UserRecord) error
	GetByID(ctx context.Context, id int64) (*UserRecord, error)
	GetByUsername(ctx context.Context, username string) (*UserRecord, error)
	List(ctx context.Context) ([]*UserRecord, error)

	// UpdatePassword replaces the stored password hash.
	UpdatePassword(ctx context.Context, id int64, passwordHash string) error

	// UpdateLastLogin records a successful login.
	UpdateLastLogin(ctx context.Context, id int64, at time.Time) error
}

// UserRecord represents a user as stored in persistence.
type UserRecord struct {
	ID           int64
	Username     string
	Email        string
	PasswordHash string
	IsStaff      bool
	IsSuperuser  bool
	IsActive     bool
	DateJoined   time.Time
	LastLogin    *time.Time
}

// SessionRepository defines the secondary port for server-side sessions.
type SessionRepository interface {
	Create(ctx context.Context, session *SessionRecord) error
	GetByID(ctx context.Context, id string) (*SessionRecord, error)
	Delete(ctx context.Context, id string) error

	// DeleteByUser removes every session belonging to a user.
	DeleteByUser(ctx context.Context, userID int64) error

	// DeleteExpired removes sessions that expired before now and reports how many.
	DeleteExpired(ctx context.Context, now time.Time) (int64, error)
}

// SessionRecord represents a login session.
type SessionRecord struct {
	ID        string
	UserID    int64
	CreatedAt time.Time
	ExpiresAt time.Time
}
