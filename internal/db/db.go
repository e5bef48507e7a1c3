package db

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	_ "github.com/jackc/pgx/v5/stdlib"
	_ "github.com/mattn/go-sqlite3"
)

// DefaultSQLitePath is the database file used when no DSN is configured.
const DefaultSQLitePath = "stockroom.db"

// DB is a *sql.DB that knows its dialect. Queries are written with ?
// placeholders and rebound on the way to the driver.
type DB struct {
	*sql.DB
	Dialect Dialect
}

// Open connects to the configured backend.
// For SQLite the parent directory of the database file is created if needed.
func Open(driver, dsn string) (*DB, error) {
	dialect, err := ParseDialect(driver)
	if err != nil {
		return nil, err
	}

	switch dialect {
	case SQLite:
		if dsn == "" {
			dsn = DefaultSQLitePath
		}
		if path := sqlitePath(dsn); path != "" {
			if dir := filepath.Dir(path); dir != "." {
				if err := os.MkdirAll(dir, 0755); err != nil {
					return nil, fmt.Errorf("failed to create database directory: %w", err)
				}
			}
		}
	case MySQL:
		if dsn == "" {
			return nil, fmt.Errorf("mysql requires a DSN")
		}
		if !strings.Contains(dsn, "parseTime=") {
			dsn += dsnSeparator(dsn) + "parseTime=true"
		}
		// Report matched rather than changed rows so updates can detect missing ids.
		if !strings.Contains(dsn, "clientFoundRows=") {
			dsn += dsnSeparator(dsn) + "clientFoundRows=true"
		}
	case Postgres:
		if dsn == "" {
			return nil, fmt.Errorf("postgres requires a DSN")
		}
	}

	sqlDB, err := sql.Open(dialect.DriverName(), dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if dialect == SQLite {
		// A single connection keeps :memory: databases alive and serialises writers.
		sqlDB.SetMaxOpenConns(1)
		sqlDB.SetConnMaxLifetime(0)

		if _, err := sqlDB.Exec("PRAGMA foreign_keys = ON"); err != nil {
			sqlDB.Close()
			return nil, fmt.Errorf("failed to enable foreign keys: %w", err)
		}
	}

	return &DB{DB: sqlDB, Dialect: dialect}, nil
}

// ExecContext executes a statement written with ? placeholders.
func (d *DB) ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error) {
	return d.DB.ExecContext(ctx, d.Dialect.Rebind(query), args...)
}

// QueryContext runs a query written with ? placeholders.
func (d *DB) QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error) {
	return d.DB.QueryContext(ctx, d.Dialect.Rebind(query), args...)
}

// QueryRowContext runs a single-row query written with ? placeholders.
func (d *DB) QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row {
	return d.DB.QueryRowContext(ctx, d.Dialect.Rebind(query), args...)
}

// InsertID runs an INSERT and returns the generated id column.
func (d *DB) InsertID(ctx context.Context, query string, args ...any) (int64, error) {
	if d.Dialect.SupportsReturning() {
		var id int64
		if err := d.QueryRowContext(ctx, query+" RETURNING id", args...).Scan(&id); err != nil {
			return 0, err
		}
		return id, nil
	}

	result, err := d.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, err
	}
	return result.LastInsertId()
}

// SyncSequence moves a postgres id sequence past rows inserted with explicit ids.
// SQLite and MySQL track this themselves.
func (d *DB) SyncSequence(ctx context.Context, table string) error {
	if d.Dialect != Postgres {
		return nil
	}
	_, err := d.ExecContext(ctx, fmt.Sprintf(
		"SELECT setval(pg_get_serial_sequence('%s', 'id'), COALESCE((SELECT MAX(id) FROM %s), 1))", table, table))
	if err != nil {
		return fmt.Errorf("failed to sync %s id sequence: %w", table, err)
	}
	return nil
}

func sqlitePath(dsn string) string {
	if dsn == ":memory:" || strings.Contains(dsn, "mode=memory") {
		return ""
	}
	path := strings.TrimPrefix(dsn, "file:")
	if i := strings.IndexByte(path, '?'); i >= 0 {
		path = path[:i]
	}
	return path
}

func dsnSeparator(dsn string) string {
	if strings.Contains(dsn, "?") {
		return "&"
	}
	return "?"
}
