package primary

import (
	"context"
	"time"

	"github.com/example/stockroom/internal/core/admin"
	"github.com/example/stockroom/internal/core/form"
)

// AdminService defines the primary port for the generic admin site.
// Unknown model names are reported as not found.
type AdminService interface {
	// Models lists the registered models in registration order.
	Models() []*admin.ModelAdmin

	// Changelist lists a model's rows, searched and filtered.
	Changelist(ctx context.Context, model string, req ChangelistRequest) (*Changelist, error)

	GetObject(ctx context.Context, model string, id int64) (*AdminObject, error)
	AddObject(ctx context.Context, model string, data form.Data) (*AdminObject, error)
	ChangeObject(ctx context.Context, model string, id int64, data form.Data) (*AdminObject, error)
	DeleteObject(ctx context.Context, model string, id int64) (*AdminObject, error)

	// RecentActions returns the newest admin log entries.
	RecentActions(ctx context.Context, limit int) ([]*AdminAction, error)
}

// ChangelistRequest carries the changelist query string.
type ChangelistRequest struct {
	Search  string
	Filters map[string]string
}

// Changelist is a rendered-ready admin listing.
type Changelist struct {
	Model   *admin.ModelAdmin
	Columns []AdminColumn
	Rows    []*AdminListRow
	Filters []AdminFilter
	Search  string
	Total   int
}

// AdminColumn is a changelist header.
type AdminColumn struct {
	Name  string
	Label string
}

// AdminListRow is one changelist row with cells in column order.
type AdminListRow struct {
	ID    int64
	Repr  string
	Cells []string
}

// AdminFilter is one sidebar filter with its choices.
type AdminFilter struct {
	Column   string
	Label    string
	Choices  []string
	Selected string
}

// AdminObject is one row loaded into its model's form.
type AdminObject struct {
	Model *admin.ModelAdmin
	ID    int64
	Repr  string
	Data  form.Data
}

// AdminAction is an admin log entry at the port boundary.
type AdminAction struct {
	Username      string
	EntityType    string
	EntityID      string
	ObjectRepr    string
	Action        string
	ChangeMessage string
	CreatedAt     time.Time
}
