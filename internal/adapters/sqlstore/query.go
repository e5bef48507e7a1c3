package sqlstore

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/example/stockroom/internal/db"
	"github.com/example/stockroom/internal/ports/secondary"
)

// scanner is satisfied by *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

func utcNow() time.Time {
	return time.Now().UTC()
}

// likePattern wraps s for a case-insensitive substring match.
func likePattern(s string) string {
	return "%" + db.EscapeLike(s) + "%"
}

func likeClause(column string) string {
	return "LOWER(" + column + ") LIKE LOWER(?) ESCAPE '!'"
}

// expectRow turns a write that touched no rows into ErrNotFound.
func expectRow(result sql.Result, entity string, id int64) error {
	n, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check affected rows: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("%s %d: %w", entity, id, secondary.ErrNotFound)
	}
	return nil
}
