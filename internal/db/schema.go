package db

import "strings"

// tableDDL holds the CREATE statements for one table in every dialect.
// Each dialect entry may contain several statements (indexes follow the table).
type tableDDL struct {
	name       string
	statements map[Dialect][]string
}

// Tables are listed in dependency order.
//
// # Keeping Schema in Sync
//
// This is the single source of truth for the schema. Migrations create tables
// by name from this list and tests load SchemaSQL(SQLite) via GetSchemaSQL.
// When adding a column, add a migration that alters the table and update the
// DDL here so fresh installs and migrated installs end up identical.
var tables = []tableDDL{
	{
		name: "tours",
		statements: map[Dialect][]string{
			SQLite: {`CREATE TABLE IF NOT EXISTS tours (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	origin_country TEXT NOT NULL,
	destination_country TEXT NOT NULL,
	nights INTEGER NOT NULL DEFAULT 0,
	price INTEGER NOT NULL DEFAULT 0,
	created_at DATETIME NOT NULL,
	updated_at DATETIME NOT NULL
)`},
			Postgres: {`CREATE TABLE IF NOT EXISTS tours (
	id BIGSERIAL PRIMARY KEY,
	origin_country VARCHAR(64) NOT NULL,
	destination_country VARCHAR(64) NOT NULL,
	nights INTEGER NOT NULL DEFAULT 0,
	price INTEGER NOT NULL DEFAULT 0,
	created_at TIMESTAMPTZ NOT NULL,
	updated_at TIMESTAMPTZ NOT NULL
)`},
			MySQL: {`CREATE TABLE IF NOT EXISTS tours (
	id BIGINT AUTO_INCREMENT PRIMARY KEY,
	origin_country VARCHAR(64) NOT NULL,
	destination_country VARCHAR(64) NOT NULL,
	nights INT NOT NULL DEFAULT 0,
	price INT NOT NULL DEFAULT 0,
	created_at DATETIME(6) NOT NULL,
	updated_at DATETIME(6) NOT NULL
) ENGINE=InnoDB`},
		},
	},
	{
		name: "products",
		statements: map[Dialect][]string{
			SQLite: {
				`CREATE TABLE IF NOT EXISTS products (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	name TEXT NOT NULL,
	sku TEXT NOT NULL UNIQUE,
	price REAL NOT NULL DEFAULT 0,
	quantity INTEGER NOT NULL DEFAULT 0,
	supplier TEXT NOT NULL DEFAULT '',
	created_at DATETIME NOT NULL,
	updated_at DATETIME NOT NULL
)`,
				`CREATE INDEX IF NOT EXISTS idx_products_name ON products(name)`,
			},
			Postgres: {
				`CREATE TABLE IF NOT EXISTS products (
	id BIGSERIAL PRIMARY KEY,
	name VARCHAR(200) NOT NULL,
	sku VARCHAR(50) NOT NULL UNIQUE,
	price DOUBLE PRECISION NOT NULL DEFAULT 0,
	quantity INTEGER NOT NULL DEFAULT 0,
	supplier VARCHAR(200) NOT NULL DEFAULT '',
	created_at TIMESTAMPTZ NOT NULL,
	updated_at TIMESTAMPTZ NOT NULL
)`,
				`CREATE INDEX IF NOT EXISTS idx_products_name ON products(name)`,
			},
			MySQL: {`CREATE TABLE IF NOT EXISTS products (
	id BIGINT AUTO_INCREMENT PRIMARY KEY,
	name VARCHAR(200) NOT NULL,
	sku VARCHAR(50) NOT NULL,
	price DOUBLE NOT NULL DEFAULT 0,
	quantity INT NOT NULL DEFAULT 0,
	supplier VARCHAR(200) NOT NULL DEFAULT '',
	created_at DATETIME(6) NOT NULL,
	updated_at DATETIME(6) NOT NULL,
	UNIQUE KEY uq_products_sku (sku),
	KEY idx_products_name (name)
) ENGINE=InnoDB`},
		},
	},
	{
		name: "users",
		statements: map[Dialect][]string{
			SQLite: {`CREATE TABLE IF NOT EXISTS users (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	username TEXT NOT NULL UNIQUE,
	email TEXT NOT NULL DEFAULT '',
	password_hash TEXT NOT NULL,
	is_staff INTEGER NOT NULL DEFAULT 0,
	is_superuser INTEGER NOT NULL DEFAULT 0,
	is_active INTEGER NOT NULL DEFAULT 1,
	date_joined DATETIME NOT NULL,
	last_login DATETIME
)`},
			Postgres: {`CREATE TABLE IF NOT EXISTS users (
	id BIGSERIAL PRIMARY KEY,
	username VARCHAR(150) NOT NULL UNIQUE,
	email VARCHAR(254) NOT NULL DEFAULT '',
	password_hash VARCHAR(128) NOT NULL,
	is_staff BOOLEAN NOT NULL DEFAULT FALSE,
	is_superuser BOOLEAN NOT NULL DEFAULT FALSE,
	is_active BOOLEAN NOT NULL DEFAULT TRUE,
	date_joined TIMESTAMPTZ NOT NULL,
	last_login TIMESTAMPTZ
)`},
			MySQL: {`CREATE TABLE IF NOT EXISTS users (
	id BIGINT AUTO_INCREMENT PRIMARY KEY,
	username VARCHAR(150) NOT NULL,
	email VARCHAR(254) NOT NULL DEFAULT '',
	password_hash VARCHAR(128) NOT NULL,
	is_staff BOOLEAN NOT NULL DEFAULT FALSE,
	is_superuser BOOLEAN NOT NULL DEFAULT FALSE,
	is_active BOOLEAN NOT NULL DEFAULT TRUE,
	date_joined DATETIME(6) NOT NULL,
	last_login DATETIME(6) NULL,
	UNIQUE KEY uq_users_username (username)
) ENGINE=InnoDB`},
		},
	},
	{
		name: "sessions",
		statements: map[Dialect][]string{
			SQLite: {
				`CREATE TABLE IF NOT EXISTS sessions (
	id TEXT PRIMARY KEY,
	user_id INTEGER NOT NULL,
	created_at DATETIME NOT NULL,
	expires_at DATETIME NOT NULL,
	FOREIGN KEY (user_id) REFERENCES users(id) ON DELETE CASCADE
)`,
				`CREATE INDEX IF NOT EXISTS idx_sessions_expires ON sessions(expires_at)`,
			},
			Postgres: {
				`CREATE TABLE IF NOT EXISTS sessions (
	id VARCHAR(64) PRIMARY KEY,
	user_id BIGINT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
	created_at TIMESTAMPTZ NOT NULL,
	expires_at TIMESTAMPTZ NOT NULL
)`,
				`CREATE INDEX IF NOT EXISTS idx_sessions_expires ON sessions(expires_at)`,
			},
			MySQL: {`CREATE TABLE IF NOT EXISTS sessions (
	id VARCHAR(64) PRIMARY KEY,
	user_id BIGINT NOT NULL,
	created_at DATETIME(6) NOT NULL,
	expires_at DATETIME(6) NOT NULL,
	KEY idx_sessions_expires (expires_at),
	CONSTRAINT fk_sessions_user FOREIGN KEY (user_id) REFERENCES users(id) ON DELETE CASCADE
) ENGINE=InnoDB`},
		},
	},
	{
		name: "admin_log",
		statements: map[Dialect][]string{
			SQLite: {`CREATE TABLE IF NOT EXISTS admin_log (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	user_id INTEGER,
	entity_type TEXT NOT NULL,
	entity_id TEXT NOT NULL,
	object_repr TEXT NOT NULL DEFAULT '',
	action TEXT NOT NULL CHECK(action IN ('create', 'update', 'delete')),
	change_message TEXT NOT NULL DEFAULT '',
	created_at DATETIME NOT NULL,
	FOREIGN KEY (user_id) REFERENCES users(id) ON DELETE SET NULL
)`},
			Postgres: {`CREATE TABLE IF NOT EXISTS admin_log (
	id BIGSERIAL PRIMARY KEY,
	user_id BIGINT REFERENCES users(id) ON DELETE SET NULL,
	entity_type VARCHAR(64) NOT NULL,
	entity_id VARCHAR(64) NOT NULL,
	object_repr VARCHAR(200) NOT NULL DEFAULT '',
	action VARCHAR(16) NOT NULL CHECK(action IN ('create', 'update', 'delete')),
	change_message TEXT NOT NULL DEFAULT '',
	created_at TIMESTAMPTZ NOT NULL
)`},
			MySQL: {`CREATE TABLE IF NOT EXISTS admin_log (
	id BIGINT AUTO_INCREMENT PRIMARY KEY,
	user_id BIGINT NULL,
	entity_type VARCHAR(64) NOT NULL,
	entity_id VARCHAR(64) NOT NULL,
	object_repr VARCHAR(200) NOT NULL DEFAULT '',
	action VARCHAR(16) NOT NULL,
	change_message TEXT NOT NULL,
	created_at DATETIME(6) NOT NULL,
	CONSTRAINT fk_admin_log_user FOREIGN KEY (user_id) REFERENCES users(id) ON DELETE SET NULL
) ENGINE=InnoDB`},
		},
	},
}

// schemaVersionDDL tracks applied migrations.
var schemaVersionDDL = map[Dialect]string{
	SQLite: `CREATE TABLE IF NOT EXISTS schema_version (
	version INTEGER PRIMARY KEY,
	applied_at DATETIME DEFAULT CURRENT_TIMESTAMP
)`,
	Postgres: `CREATE TABLE IF NOT EXISTS schema_version (
	version INTEGER PRIMARY KEY,
	applied_at TIMESTAMPTZ DEFAULT CURRENT_TIMESTAMP
)`,
	MySQL: `CREATE TABLE IF NOT EXISTS schema_version (
	version INT PRIMARY KEY,
	applied_at DATETIME DEFAULT CURRENT_TIMESTAMP
) ENGINE=InnoDB`,
}

// SchemaStatements returns the complete schema for a fresh install.
func SchemaStatements(d Dialect) []string {
	var out []string
	for _, t := range tables {
		out = append(out, t.statements[d]...)
	}
	return out
}

// SchemaSQL returns the complete schema as one script.
func SchemaSQL(d Dialect) string {
	return strings.Join(SchemaStatements(d), ";\n\n") + ";\n"
}

// GetSchemaSQL returns the authoritative SQLite schema for use by tests.
// Tests should use this instead of hardcoding their own schema to prevent drift.
func GetSchemaSQL() string {
	return SchemaSQL(SQLite)
}

func tableStatements(d Dialect, name string) []string {
	for _, t := range tables {
		if t.name == name {
			return t.statements[d]
		}
	}
	return nil
}
