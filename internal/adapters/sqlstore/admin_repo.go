package sqlstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"regexp"
	"sort"
	"strings"
	"time"

	"github.com/example/stockroom/internal/core/form"
	"github.com/example/stockroom/internal/db"
	"github.com/example/stockroom/internal/ports/secondary"
)

var identifierPattern = regexp.MustCompile(`^[a-z_][a-z0-9_]*$`)

// AdminRepository implements secondary.AdminRepository over any table
// described by an AdminTable.
type AdminRepository struct {
	db  *db.DB
	now func() time.Time
}

// NewAdminRepository creates a new generic admin repository.
func NewAdminRepository(database *db.DB) *AdminRepository {
	return &AdminRepository{db: database, now: utcNow}
}

// List selects rows with search, equality filters and ordering applied.
func (r *AdminRepository) List(ctx context.Context, table secondary.AdminTable, query secondary.AdminQuery) ([]*secondary.AdminRow, error) {
	if err := checkTable(table); err != nil {
		return nil, err
	}

	stmt := "SELECT " + strings.Join(table.Columns, ", ") + " FROM " + table.Name
	var (
		where []string
		args  []any
	)

	if query.Search != "" && len(query.SearchColumns) > 0 {
		pattern := likePattern(query.Search)
		var ors []string
		for _, col := range query.SearchColumns {
			if err := checkColumn(table, col); err != nil {
				return nil, err
			}
			ors = append(ors, likeClause(col))
			args = append(args, pattern)
		}
		where = append(where, "("+strings.Join(ors, " OR ")+")")
	}

	filterCols := make([]string, 0, len(query.Filters))
	for col := range query.Filters {
		filterCols = append(filterCols, col)
	}
	sort.Strings(filterCols)
	for _, col := range filterCols {
		if err := checkColumn(table, col); err != nil {
			return nil, err
		}
		where = append(where, col+" = ?")
		args = append(args, query.Filters[col])
	}

	if len(where) > 0 {
		stmt += " WHERE " + strings.Join(where, " AND ")
	}

	order := make([]string, 0, len(query.Ordering)+1)
	for _, o := range query.Ordering {
		col, dir := strings.TrimPrefix(o, "-"), "ASC"
		if strings.HasPrefix(o, "-") {
			dir = "DESC"
		}
		if err := checkColumn(table, col); err != nil {
			return nil, err
		}
		order = append(order, col+" "+dir)
	}
	order = append(order, "id ASC")
	stmt += " ORDER BY " + strings.Join(order, ", ")

	rows, err := r.db.QueryContext(ctx, stmt, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list %s: %w", table.Name, err)
	}
	defer rows.Close()

	var out []*secondary.AdminRow
	for rows.Next() {
		row, err := scanAdminRow(rows, table.Columns)
		if err != nil {
			return nil, fmt.Errorf("failed to scan %s: %w", table.Name, err)
		}
		out = append(out, row)
	}
	return out, rows.Err()
}

// Get retrieves one row by id.
func (r *AdminRepository) Get(ctx context.Context, table secondary.AdminTable, id int64) (*secondary.AdminRow, error) {
	if err := checkTable(table); err != nil {
		return nil, err
	}

	rows, err := r.db.QueryContext(ctx,
		"SELECT "+strings.Join(table.Columns, ", ")+" FROM "+table.Name+" WHERE id = ?", id)
	if err != nil {
		return nil, fmt.Errorf("failed to get %s: %w", table.Name, err)
	}
	defer rows.Close()

	if !rows.Next() {
		if err := rows.Err(); err != nil {
			return nil, err
		}
		return nil, fmt.Errorf("%s %d: %w", table.Name, id, secondary.ErrNotFound)
	}
	return scanAdminRow(rows, table.Columns)
}

// Count returns the total number of rows in table.
func (r *AdminRepository) Count(ctx context.Context, table secondary.AdminTable) (int, error) {
	var n int
	if err := r.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM "+table.Name).Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count %s: %w", table.Name, err)
	}
	return n, nil
}

// Distinct returns the sorted distinct values of column.
func (r *AdminRepository) Distinct(ctx context.Context, table secondary.AdminTable, column string) ([]string, error) {
	if err := checkColumn(table, column); err != nil {
		return nil, err
	}

	rows, err := r.db.QueryContext(ctx,
		"SELECT DISTINCT "+column+" FROM "+table.Name+" ORDER BY "+column+" ASC")
	if err != nil {
		return nil, fmt.Errorf("failed to list %s values: %w", column, err)
	}
	defer rows.Close()

	var values []string
	for rows.Next() {
		var v any
		if err := rows.Scan(&v); err != nil {
			return nil, fmt.Errorf("failed to scan %s value: %w", column, err)
		}
		values = append(values, form.Format(normalize(v)))
	}
	return values, rows.Err()
}

// Exists reports whether a row other than excludeID holds value in column.
func (r *AdminRepository) Exists(ctx context.Context, table secondary.AdminTable, column string, value any, excludeID int64) (bool, error) {
	if err := checkColumn(table, column); err != nil {
		return false, err
	}

	var n int
	err := r.db.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM "+table.Name+" WHERE "+column+" = ? AND id <> ?", value, excludeID,
	).Scan(&n)
	if err != nil {
		return false, fmt.Errorf("failed to check %s: %w", column, err)
	}
	return n > 0, nil
}

// Insert adds a row and returns its id. Timestamps are set when the table has them.
func (r *AdminRepository) Insert(ctx context.Context, table secondary.AdminTable, values map[string]any) (int64, error) {
	cols, args, err := writableColumns(table, values)
	if err != nil {
		return 0, err
	}
	if table.Timestamps {
		now := r.now()
		cols = append(cols, "created_at", "updated_at")
		args = append(args, now, now)
	}

	placeholders := strings.TrimSuffix(strings.Repeat("?, ", len(cols)), ", ")
	id, err := r.db.InsertID(ctx,
		"INSERT INTO "+table.Name+" ("+strings.Join(cols, ", ")+") VALUES ("+placeholders+")", args...)
	if err != nil {
		if db.IsUniqueViolation(err) {
			return 0, fmt.Errorf("%s: %w", table.Name, secondary.ErrDuplicate)
		}
		return 0, fmt.Errorf("failed to insert into %s: %w", table.Name, err)
	}
	return id, nil
}

// Update overwrites the given columns of one row.
func (r *AdminRepository) Update(ctx context.Context, table secondary.AdminTable, id int64, values map[string]any) error {
	cols, args, err := writableColumns(table, values)
	if err != nil {
		return err
	}
	if table.Timestamps {
		cols = append(cols, "updated_at")
		args = append(args, r.now())
	}
	if len(cols) == 0 {
		return fmt.Errorf("no columns to update")
	}

	sets := make([]string, len(cols))
	for i, col := range cols {
		sets[i] = col + " = ?"
	}
	args = append(args, id)

	result, err := r.db.ExecContext(ctx,
		"UPDATE "+table.Name+" SET "+strings.Join(sets, ", ")+" WHERE id = ?", args...)
	if err != nil {
		if db.IsUniqueViolation(err) {
			return fmt.Errorf("%s: %w", table.Name, secondary.ErrDuplicate)
		}
		return fmt.Errorf("failed to update %s: %w", table.Name, err)
	}
	return expectRow(result, table.Name, id)
}

// Delete removes one row.
func (r *AdminRepository) Delete(ctx context.Context, table secondary.AdminTable, id int64) error {
	if err := checkTable(table); err != nil {
		return err
	}
	result, err := r.db.ExecContext(ctx, "DELETE FROM "+table.Name+" WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("failed to delete from %s: %w", table.Name, err)
	}
	return expectRow(result, table.Name, id)
}

func checkTable(table secondary.AdminTable) error {
	if !identifierPattern.MatchString(table.Name) {
		return fmt.Errorf("invalid table name %q", table.Name)
	}
	if len(table.Columns) == 0 {
		return fmt.Errorf("table %s has no columns", table.Name)
	}
	for _, col := range table.Columns {
		if !identifierPattern.MatchString(col) {
			return fmt.Errorf("invalid column name %q", col)
		}
	}
	return nil
}

func checkColumn(table secondary.AdminTable, column string) error {
	if err := checkTable(table); err != nil {
		return err
	}
	for _, col := range table.Columns {
		if col == column {
			return nil
		}
	}
	return fmt.Errorf("unknown column %q for table %s", column, table.Name)
}

// writableColumns returns the value columns in sorted order, rejecting
// unknown and managed columns.
func writableColumns(table secondary.AdminTable, values map[string]any) ([]string, []any, error) {
	if err := checkTable(table); err != nil {
		return nil, nil, err
	}

	cols := make([]string, 0, len(values))
	for col := range values {
		switch col {
		case "id", "created_at", "updated_at":
			return nil, nil, fmt.Errorf("column %q is managed by the store", col)
		}
		if err := checkColumn(table, col); err != nil {
			return nil, nil, err
		}
		cols = append(cols, col)
	}
	sort.Strings(cols)

	args := make([]any, len(cols))
	for i, col := range cols {
		args[i] = values[col]
	}
	return cols, args, nil
}

func scanAdminRow(rows *sql.Rows, columns []string) (*secondary.AdminRow, error) {
	raw := make([]any, len(columns))
	ptrs := make([]any, len(columns))
	for i := range raw {
		ptrs[i] = &raw[i]
	}
	if err := rows.Scan(ptrs...); err != nil {
		return nil, err
	}

	row := &secondary.AdminRow{Values: make(map[string]any, len(columns))}
	for i, col := range columns {
		v := normalize(raw[i])
		row.Values[col] = v
		if col == "id" {
			id, err := toInt64(v)
			if err != nil {
				return nil, err
			}
			row.ID = id
		}
	}
	return row, nil
}

// normalize turns driver byte slices into strings.
func normalize(v any) any {
	if b, ok := v.([]byte); ok {
		return string(b)
	}
	return v
}

func toInt64(v any) (int64, error) {
	switch x := v.(type) {
	case int64:
		return x, nil
	case int32:
		return int64(x), nil
	case int:
		return int64(x), nil
	case uint64:
		return int64(x), nil
	case string:
		var n int64
		if _, err := fmt.Sscan(x, &n); err != nil {
			return 0, fmt.Errorf("invalid id %q: %w", x, err)
		}
		return n, nil
	default:
		return 0, errors.New("unexpected id type")
	}
}

// Ensure AdminRepository implements the interface
var _ secondary.AdminRepository = (*AdminRepository)(nil)
