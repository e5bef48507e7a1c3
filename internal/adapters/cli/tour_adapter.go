package cli

import (
	"context"
	"fmt"
	"io"

	"github.com/example/stockroom/internal/core/form"
	"github.com/example/stockroom/internal/ports/primary"
)

// TourAdapter translates CLI operations to TourService calls.
type TourAdapter struct {
	service primary.TourService
	out     io.Writer
}

func NewTourAdapter(service primary.TourService, out io.Writer) *TourAdapter {
	return &TourAdapter{
		service: service,
		out:     out,
	}
}

// List prints tours matching search as a table.
func (a *TourAdapter) List(ctx context.Context, search string) error {
	tours, err := a.service.ListTours(ctx, search)
	if err != nil {
		return fmt.Errorf("failed to list tours: %w", err)
	}

	if len(tours) == 0 {
		fmt.Fprintln(a.out, "No tours found")
		return nil
	}

	t := NewTable(a.out, "ID", "ORIGIN", "DESTINATION", "NIGHTS", "PRICE")
	for _, tr := range tours {
		t.AppendRow([]any{tr.ID, tr.OriginCountry, tr.DestinationCountry, tr.Nights, tr.Price})
	}
	t.Render()
	return nil
}

func (a *TourAdapter) Create(ctx context.Context, data form.Data) error {
	tr, err := a.service.CreateTour(ctx, data)
	if err != nil {
		return DescribeError(err)
	}

	fmt.Fprintf(a.out, "%s Created tour %s\n", okMark, tr)
	return nil
}

func (a *TourAdapter) Show(ctx context.Context, id int64) (*primary.Tour, error) {
	tr, err := a.service.GetTour(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get tour %d: %w", id, err)
	}

	fmt.Fprintf(a.out, "\nTour:        %s\n", tr)
	fmt.Fprintf(a.out, "Nights:      %d\n", tr.Nights)
	fmt.Fprintf(a.out, "Price:       %d\n", tr.Price)
	fmt.Fprintf(a.out, "Created:     %s\n", tr.CreatedAt.Format("2006-01-02 15:04"))
	fmt.Fprintln(a.out)

	return tr, nil
}

// Update applies the non-empty values in changes on top of the stored tour.
func (a *TourAdapter) Update(ctx context.Context, id int64, changes form.Data) error {
	current, err := a.service.GetTour(ctx, id)
	if err != nil {
		return fmt.Errorf("failed to get tour %d: %w", id, err)
	}

	tr, err := a.service.UpdateTour(ctx, id, overlay(current.FormData(), changes))
	if err != nil {
		return DescribeError(err)
	}

	fmt.Fprintf(a.out, "%s Tour %s updated\n", okMark, tr)
	return nil
}

func (a *TourAdapter) Delete(ctx context.Context, id int64) error {
	tr, err := a.service.GetTour(ctx, id)
	if err != nil {
		return fmt.Errorf("failed to get tour %d: %w", id, err)
	}

	if err := a.service.DeleteTour(ctx, id); err != nil {
		return err
	}

	fmt.Fprintf(a.out, "%s Deleted tour %s\n", okMark, tr)
	return nil
}
