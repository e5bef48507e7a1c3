package primary

import (
	"context"
	"strconv"
	"time"

	"github.com/example/stockroom/internal/core/form"
	"github.com/example/stockroom/internal/core/tour"
)

// TourService defines the primary port for tours.
type TourService interface {
	// ListTours returns tours whose origin or destination contains query, or all tours.
	ListTours(ctx context.Context, query string) ([]*Tour, error)

	GetTour(ctx context.Context, id int64) (*Tour, error)
	CreateTour(ctx context.Context, data form.Data) (*Tour, error)
	UpdateTour(ctx context.Context, id int64, data form.Data) (*Tour, error)
	DeleteTour(ctx context.Context, id int64) error
}

// Tour represents a tour at the port boundary.
type Tour struct {
	ID                 int64
	OriginCountry      string
	DestinationCountry string
	Nights             int
	Price              int
	CreatedAt          time.Time
	UpdatedAt          time.Time
}

// FormData renders the tour as raw form values.
func (t *Tour) FormData() form.Data {
	return form.Data{
		"origin_country":      t.OriginCountry,
		"destination_country": t.DestinationCountry,
		"nights":              strconv.Itoa(t.Nights),
		"price":               strconv.Itoa(t.Price),
	}
}

func (t *Tour) String() string {
	return tour.Describe(strconv.FormatInt(t.ID, 10), t.OriginCountry, t.DestinationCountry)
}
