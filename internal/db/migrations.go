package db

import (
	"context"
	"database/sql"
	"fmt"
	"io"
)

// Migration represents a database migration
type Migration struct {
	Version int
	Name    string
	Up      func(ctx context.Context, tx *sql.Tx, d Dialect) error
}

// MigrationState pairs a migration with whether it has been applied.
type MigrationState struct {
	Migration
	Applied bool
}

// migrations is the list of all migrations in order
var migrations = []Migration{
	{
		Version: 1,
		Name:    "create_tours_table",
		Up:      createTables("tours"),
	},
	{
		Version: 2,
		Name:    "create_products_table",
		Up:      createTables("products"),
	},
	{
		Version: 3,
		Name:    "create_auth_tables",
		Up:      createTables("users", "sessions"),
	},
	{
		Version: 4,
		Name:    "create_admin_log_table",
		Up:      createTables("admin_log"),
	},
}

// Migrations returns the ordered migration list.
func Migrations() []Migration {
	out := make([]Migration, len(migrations))
	copy(out, migrations)
	return out
}

// LatestVersion is the version a fully migrated database reports.
func LatestVersion() int {
	if len(migrations) == 0 {
		return 0
	}
	return migrations[len(migrations)-1].Version
}

// Migrate brings the schema up to date. A database with no recorded version
// receives the full schema in one transaction and every migration is marked
// as applied; otherwise pending migrations run one transaction each.
// Progress lines are written to out.
func Migrate(ctx context.Context, database *DB, out io.Writer) error {
	if out == nil {
		out = io.Discard
	}

	if _, err := database.ExecContext(ctx, schemaVersionDDL[database.Dialect]); err != nil {
		return fmt.Errorf("failed to create schema_version table: %w", err)
	}

	currentVersion, err := CurrentVersion(ctx, database)
	if err != nil {
		return err
	}

	if currentVersion == 0 {
		return installFresh(ctx, database, out)
	}

	for _, migration := range migrations {
		if migration.Version <= currentVersion {
			continue
		}

		fmt.Fprintf(out, "Running migration %d: %s\n", migration.Version, migration.Name)

		tx, err := database.BeginTx(ctx, nil)
		if err != nil {
			return fmt.Errorf("failed to begin transaction for migration %d: %w", migration.Version, err)
		}

		if err := migration.Up(ctx, tx, database.Dialect); err != nil {
			tx.Rollback()
			return fmt.Errorf("migration %d failed: %w", migration.Version, err)
		}

		if err := recordVersion(ctx, tx, database.Dialect, migration.Version); err != nil {
			tx.Rollback()
			return err
		}

		if err := tx.Commit(); err != nil {
			return fmt.Errorf("failed to commit migration %d: %w", migration.Version, err)
		}

		fmt.Fprintf(out, "✓ Migration %d completed\n", migration.Version)
	}

	return nil
}

// CurrentVersion returns the highest applied migration version.
func CurrentVersion(ctx context.Context, database *DB) (int, error) {
	var currentVersion int
	err := database.QueryRowContext(ctx, "SELECT COALESCE(MAX(version), 0) FROM schema_version").Scan(&currentVersion)
	if err != nil {
		return 0, fmt.Errorf("failed to get current schema version: %w", err)
	}
	return currentVersion, nil
}

// Status lists every migration with its applied flag.
func Status(ctx context.Context, database *DB) ([]MigrationState, error) {
	if _, err := database.ExecContext(ctx, schemaVersionDDL[database.Dialect]); err != nil {
		return nil, fmt.Errorf("failed to create schema_version table: %w", err)
	}

	rows, err := database.QueryContext(ctx, "SELECT version FROM schema_version")
	if err != nil {
		return nil, fmt.Errorf("failed to read schema_version: %w", err)
	}
	defer rows.Close()

	applied := map[int]bool{}
	for rows.Next() {
		var v int
		if err := rows.Scan(&v); err != nil {
			return nil, fmt.Errorf("failed to scan schema version: %w", err)
		}
		applied[v] = true
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	states := make([]MigrationState, len(migrations))
	for i, m := range migrations {
		states[i] = MigrationState{Migration: m, Applied: applied[m.Version]}
	}
	return states, nil
}

func installFresh(ctx context.Context, database *DB, out io.Writer) error {
	fmt.Fprintln(out, "Creating schema for a fresh install")

	tx, err := database.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin schema transaction: %w", err)
	}

	for _, stmt := range SchemaStatements(database.Dialect) {
		if _, err := tx.ExecContext(ctx, stmt); err != nil {
			tx.Rollback()
			return fmt.Errorf("failed to create schema: %w", err)
		}
	}

	for _, m := range migrations {
		if err := recordVersion(ctx, tx, database.Dialect, m.Version); err != nil {
			tx.Rollback()
			return err
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit schema: %w", err)
	}

	fmt.Fprintf(out, "✓ Schema created at version %d\n", LatestVersion())
	return nil
}

func recordVersion(ctx context.Context, tx *sql.Tx, d Dialect, version int) error {
	_, err := tx.ExecContext(ctx, d.Rebind("INSERT INTO schema_version (version) VALUES (?)"), version)
	if err != nil {
		return fmt.Errorf("failed to record migration %d: %w", version, err)
	}
	return nil
}

// createTables returns a migration step creating the named tables from the
// authoritative DDL.
func createTables(names ...string) func(context.Context, *sql.Tx, Dialect) error {
	return func(ctx context.Context, tx *sql.Tx, d Dialect) error {
		for _, name := range names {
			stmts := tableStatements(d, name)
			if len(stmts) == 0 {
				return fmt.Errorf("no DDL for table %s in dialect %s", name, d)
			}
			for _, stmt := range stmts {
				if _, err := tx.ExecContext(ctx, stmt); err != nil {
					return fmt.Errorf("failed to create %s: %w", name, err)
				}
			}
		}
		return nil
	}
}
