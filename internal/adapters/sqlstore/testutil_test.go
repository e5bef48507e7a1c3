// Package sqlstore_test contains integration tests for the SQL repositories.
//
// # Schema Protection
//
// This file is the SINGLE POINT where the database schema is loaded for tests.
// All test setup functions use db.GetSchemaSQL() to ensure tests run against
// the authoritative schema, preventing drift between test and production.
//
// DO NOT hardcode CREATE TABLE statements in test files. Instead, use
// setupTestDB() and the seed* helpers.
package sqlstore_test

import (
	"context"
	"testing"
	"time"

	"github.com/example/stockroom/internal/db"
)

// setupTestDB creates an in-memory database with the authoritative schema.
func setupTestDB(t *testing.T) *db.DB {
	t.Helper()

	testDB, err := db.Open("sqlite3", ":memory:")
	if err != nil {
		t.Fatalf("failed to open test db: %v", err)
	}

	if _, err := testDB.Exec(db.GetSchemaSQL()); err != nil {
		t.Fatalf("failed to create schema: %v", err)
	}

	t.Cleanup(func() {
		testDB.Close()
	})

	return testDB
}

// seedProduct inserts a product and returns its ID.
func seedProduct(t *testing.T, database *db.DB, name, sku string, quantity int) int64 {
	t.Helper()
	now := time.Now().UTC()
	id, err := database.InsertID(context.Background(),
		"INSERT INTO products (name, sku, price, quantity, supplier, created_at, updated_at) VALUES (?, ?, ?, ?, ?, ?, ?)",
		name, sku, 9.99, quantity, "Acme", now, now)
	if err != nil {
		t.Fatalf("failed to seed product: %v", err)
	}
	return id
}

// seedUser inserts a user and returns its ID.
func seedUser(t *testing.T, database *db.DB, username string) int64 {
	t.Helper()
	id, err := database.InsertID(context.Background(),
		"INSERT INTO users (username, email, password_hash, is_staff, is_superuser, is_active, date_joined) VALUES (?, '', 'x', 0, 0, 1, ?)",
		username, time.Now().UTC())
	if err != nil {
		t.Fatalf("failed to seed user: %v", err)
	}
	return id
}
