package cli

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	qt "github.com/frankban/quicktest"
	"github.com/google/go-cmp/cmp"

	"github.com/example/stockroom/internal/core/form"
	"github.com/example/stockroom/internal/ports/primary"
)

func newTestShell() (*Shell, *mockTourService, *mockProductService, *bytes.Buffer) {
	tours := newMockTourService(&primary.Tour{ID: 1, OriginCountry: "Portugal", DestinationCountry: "Spain", Nights: 5, Price: 450})
	products := newMockProductService()
	var buf bytes.Buffer
	shell := NewShell(NewTourAdapter(tours, &buf), NewProductAdapter(products, &buf), &buf)
	return shell, tours, products, &buf
}

func TestSplitArgs(t *testing.T) {
	tests := []struct {
		line string
		want []string
	}{
		{"", nil},
		{"  tour   list ", []string{"tour", "list"}},
		{`product create name="USB-C Hub" sku=H-1`, []string{"product", "create", "name=USB-C Hub", "sku=H-1"}},
		{`tour list 'South Korea'`, []string{"tour", "list", "South Korea"}},
		{`product create supplier=""`, []string{"product", "create", "supplier="}},
	}

	for _, tt := range tests {
		t.Run(tt.line, func(t *testing.T) {
			got, err := splitArgs(tt.line)
			qt.Assert(t, err, qt.IsNil)
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("splitArgs mismatch (-want +got):\n%s", diff)
			}
		})
	}

	_, err := splitArgs(`name="open`)
	qt.Assert(t, err, qt.ErrorMatches, "unterminated quote")
}

func TestShell_TourCommands(t *testing.T) {
	c := qt.New(t)
	shell, tours, _, buf := newTestShell()
	ctx := context.Background()

	c.Assert(shell.Execute(ctx, "tour list"), qt.IsNil)
	c.Assert(buf.String(), qt.Contains, "Portugal")

	buf.Reset()
	c.Assert(shell.Execute(ctx, "tour show 1"), qt.IsNil)
	c.Assert(buf.String(), qt.Contains, "1 from Portugal to Spain")

	c.Assert(shell.Execute(ctx, "tour create origin_country=France destination_country=Italy nights=7 price=890"), qt.IsNil)
	c.Assert(tours.lastData, qt.DeepEquals, form.Data{
		"origin_country": "France", "destination_country": "Italy", "nights": "7", "price": "890",
	})

	c.Assert(shell.Execute(ctx, "tour update 1 destination_country=France"), qt.IsNil)
	c.Assert(tours.lastData["origin_country"], qt.Equals, "Portugal")
	c.Assert(tours.lastData["destination_country"], qt.Equals, "France")

	buf.Reset()
	c.Assert(shell.Execute(ctx, "tour delete 2"), qt.IsNil)
	c.Assert(buf.String(), qt.Contains, "Deleted tour 2 from France to Italy")
}

func TestShell_ProductCommands(t *testing.T) {
	c := qt.New(t)
	shell, _, products, buf := newTestShell()
	ctx := context.Background()

	c.Assert(shell.Execute(ctx, `product create name="USB-C Hub" sku=H-1 price=39 quantity=15`), qt.IsNil)
	c.Assert(products.lastData["name"], qt.Equals, "USB-C Hub")
	c.Assert(buf.String(), qt.Contains, "Created product 1: USB-C Hub (H-1)")

	c.Assert(shell.Execute(ctx, "products list hub"), qt.IsNil)
	c.Assert(products.lastSearch, qt.Equals, "hub")
}

func TestShell_Errors(t *testing.T) {
	shell, _, _, _ := newTestShell()
	ctx := context.Background()

	tests := []struct {
		line    string
		wantErr string
	}{
		{"launch", `unknown command "launch" \(try help\)`},
		{"tour fly", `unknown action "fly" \(try help\)`},
		{"tour show", "missing id"},
		{"tour show abc", `invalid id "abc"`},
		{"tour delete 0", `invalid id "0"`},
		{"tour update 1", "nothing to update: give at least one field=value"},
		{"tour create nights", `expected field=value, got "nights"`},
		{"tour show 99", "failed to get tour 99: not found"},
	}

	for _, tt := range tests {
		t.Run(tt.line, func(t *testing.T) {
			qt.Assert(t, shell.Execute(ctx, tt.line), qt.ErrorMatches, tt.wantErr)
		})
	}
}

func TestShell_HelpAndQuit(t *testing.T) {
	c := qt.New(t)
	shell, _, _, buf := newTestShell()
	ctx := context.Background()

	c.Assert(shell.Execute(ctx, "   "), qt.IsNil)
	c.Assert(buf.Len(), qt.Equals, 0)

	c.Assert(shell.Execute(ctx, "help"), qt.IsNil)
	c.Assert(strings.HasPrefix(buf.String(), "Commands:"), qt.IsTrue)

	for _, line := range []string{"exit", "quit", "EXIT"} {
		c.Assert(errors.Is(shell.Execute(ctx, line), ErrQuit), qt.IsTrue, qt.Commentf("line %q", line))
	}
}
