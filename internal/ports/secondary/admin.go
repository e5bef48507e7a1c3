package secondary

import "context"

// AdminTable describes a table the generic admin store may touch.
// Column names come from registered admin configuration, never from requests.
type AdminTable struct {
	Name       string
	Columns    []string
	Timestamps bool
}

// AdminQuery selects rows for a changelist.
type AdminQuery struct {
	Search        string
	SearchColumns []string
	Filters       map[string]string
	Ordering      []string // column names, a leading "-" sorts descending
}

// AdminRow is one row of an admin table keyed by column name.
type AdminRow struct {
	ID     int64
	Values map[string]any
}

// AdminRepository is a table-generic store used by the admin site.
type AdminRepository interface {
	List(ctx context.Context, table AdminTable, query AdminQuery) ([]*AdminRow, error)
	Get(ctx context.Context, table AdminTable, id int64) (*AdminRow, error)

	// Count returns the number of rows in table, ignoring any search or filter.
	Count(ctx context.Context, table AdminTable) (int, error)

	// Distinct returns the distinct values of column, for filter sidebars.
	Distinct(ctx context.Context, table AdminTable, column string) ([]string, error)

	// Exists reports whether another row (id != excludeID) holds value in column.
	Exists(ctx context.Context, table AdminTable, column string, value any, excludeID int64) (bool, error)

	Insert(ctx context.Context, table AdminTable, values map[string]any) (int64, error)
	Update(ctx context.Context, table AdminTable, id int64, values map[string]any) error
	Delete(ctx context.Context, table AdminTable, id int64) error
}
