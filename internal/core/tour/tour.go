// Package tour contains the declarations for travel tours.
// Tours carry no rules beyond their field types.
package tour

import (
	"fmt"

	"github.com/example/stockroom/internal/core/admin"
	"github.com/example/stockroom/internal/core/form"
)

// EntityType names tours in the admin log.
const EntityType = "tour"

// ModelLabel identifies tours in fixture files.
const ModelLabel = "tours.tour"

// Form maps submitted tour fields onto the tours table.
var Form = form.Form{
	Name: "tour",
	Fields: []form.Field{
		{Name: "origin_country", Label: "Origin country", Column: "origin_country", Kind: form.Text, Required: true, MaxLength: 64},
		{Name: "destination_country", Label: "Destination country", Column: "destination_country", Kind: form.Text, Required: true, MaxLength: 64},
		{Name: "nights", Label: "Nights", Column: "nights", Kind: form.Int, Required: true, Min: form.MinValue(0)},
		{Name: "price", Label: "Price", Column: "price", Kind: form.Int, Required: true, Min: form.MinValue(0)},
	},
}

// Admin registers tours with the admin site.
var Admin = &admin.ModelAdmin{
	Name:              "tour",
	VerboseName:       "tour",
	VerboseNamePlural: "tours",
	Table:             "tours",
	Form:              Form,
	ListDisplay:       []string{"id", "origin_country", "destination_country", "nights", "price"},
	SearchFields:      []string{"origin_country", "destination_country"},
	ListFilter:        []string{"origin_country", "destination_country"},
	Ordering:          []string{"id"},
	Timestamps:        true,
	Repr: func(values map[string]any) string {
		return Describe(form.Format(values["id"]), form.Format(values["origin_country"]), form.Format(values["destination_country"]))
	},
}

// Describe renders a tour the way listings and the shell print it.
func Describe(id, origin, destination string) string {
	return fmt.Sprintf("%s from %s to %s", id, origin, destination)
}
