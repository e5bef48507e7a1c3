// Package product contains the pure business logic for inventory products.
// Guards are pure functions that evaluate preconditions without side effects.
package product

import (
	"fmt"

	"github.com/example/stockroom/internal/core/admin"
	"github.com/example/stockroom/internal/core/form"
)

// DefaultLowStockThreshold is used when no threshold is configured.
const DefaultLowStockThreshold = 10

// EntityType names products in the admin log.
const EntityType = "product"

// ModelLabel identifies products in fixture files.
const ModelLabel = "inventory.product"

// Form maps submitted product fields onto the products table.
var Form = form.Form{
	Name: "product",
	Fields: []form.Field{
		{Name: "name", Label: "Name", Column: "name", Kind: form.Text, Required: true, MaxLength: 200},
		{Name: "sku", Label: "SKU", Column: "sku", Kind: form.Text, Required: true, MaxLength: 50},
		{Name: "price", Label: "Price", Column: "price", Kind: form.Float, Required: true, Min: form.MinValue(0), DecimalPlaces: 2},
		{Name: "quantity", Label: "Quantity", Column: "quantity", Kind: form.Int, Required: true, Min: form.MinValue(0)},
		{Name: "supplier", Label: "Supplier", Column: "supplier", Kind: form.Text, Required: true, MaxLength: 200},
	},
}

// Admin registers products with the admin site.
var Admin = &admin.ModelAdmin{
	Name:              "product",
	VerboseName:       "product",
	VerboseNamePlural: "products",
	Table:             "products",
	Form:              Form,
	ListDisplay:       []string{"name", "sku", "price", "quantity", "supplier", "updated_at"},
	SearchFields:      []string{"name", "sku"},
	ListFilter:        []string{"supplier"},
	Ordering:          []string{"name"},
	Unique:            []string{"sku"},
	Timestamps:        true,
	Repr: func(values map[string]any) string {
		return form.Format(values["name"])
	},
}

// MsgDuplicateSKU is the field error reported on sku when it is taken.
var MsgDuplicateSKU = Admin.DuplicateMessage("sku")

// IsLowStock reports whether quantity is strictly below threshold.
func IsLowStock(quantity, threshold int) bool {
	return quantity < threshold
}

// GuardResult represents the outcome of a guard evaluation.
type GuardResult struct {
	Allowed bool
	Reason  string
}

// Error converts the guard result to an error if not allowed.
func (r GuardResult) Error() error {
	if r.Allowed {
		return nil
	}
	return fmt.Errorf("%s", r.Reason)
}

// SaveProductContext provides context for create and update guards.
type SaveProductContext struct {
	ProductID  int64 // 0 when creating
	SKU        string
	SKUOwnerID int64 // id of the product already holding SKU, 0 if none
}

// CanSaveProduct evaluates whether a product may be written.
// Rules:
// - SKU must not belong to a different product
func CanSaveProduct(ctx SaveProductContext) GuardResult {
	if ctx.SKUOwnerID != 0 && ctx.SKUOwnerID != ctx.ProductID {
		return GuardResult{
			Allowed: false,
			Reason:  MsgDuplicateSKU,
		}
	}

	return GuardResult{Allowed: true}
}
