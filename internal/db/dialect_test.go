package db

import (
	"errors"
	"fmt"
	"testing"

	qt "github.com/frankban/quicktest"
	"github.com/go-sql-driver/mysql"
	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"
)

func TestParseDialect(t *testing.T) {
	c := qt.New(t)

	for input, want := range map[string]Dialect{
		"":           SQLite,
		"sqlite":     SQLite,
		"SQLite3":    SQLite,
		"postgres":   Postgres,
		"postgresql": Postgres,
		"pgx":        Postgres,
		"mysql":      MySQL,
		"mariadb":    MySQL,
	} {
		got, err := ParseDialect(input)
		c.Assert(err, qt.IsNil, qt.Commentf("input %q", input))
		c.Assert(got, qt.Equals, want, qt.Commentf("input %q", input))
	}

	_, err := ParseDialect("oracle")
	c.Assert(err, qt.ErrorMatches, `unsupported database driver "oracle"`)
}

func TestDialect_Rebind(t *testing.T) {
	c := qt.New(t)

	query := "SELECT * FROM products WHERE name = ? AND note = 'what?' AND sku = ?"

	c.Assert(SQLite.Rebind(query), qt.Equals, query)
	c.Assert(MySQL.Rebind(query), qt.Equals, query)
	c.Assert(Postgres.Rebind(query), qt.Equals,
		"SELECT * FROM products WHERE name = $1 AND note = 'what?' AND sku = $2")
}

func TestDialect_DriverName(t *testing.T) {
	c := qt.New(t)
	c.Assert(SQLite.DriverName(), qt.Equals, "sqlite3")
	c.Assert(Postgres.DriverName(), qt.Equals, "pgx")
	c.Assert(MySQL.DriverName(), qt.Equals, "mysql")
	c.Assert(MySQL.SupportsReturning(), qt.IsFalse)
	c.Assert(Postgres.SupportsReturning(), qt.IsTrue)
}

func TestIsUniqueViolation(t *testing.T) {
	c := qt.New(t)

	c.Assert(IsUniqueViolation(nil), qt.IsFalse)
	c.Assert(IsUniqueViolation(errors.New("boom")), qt.IsFalse)

	pgErr := &pgconn.PgError{Code: pgerrcode.UniqueViolation}
	c.Assert(IsUniqueViolation(fmt.Errorf("insert: %w", pgErr)), qt.IsTrue)
	c.Assert(IsUniqueViolation(&pgconn.PgError{Code: pgerrcode.NotNullViolation}), qt.IsFalse)

	myErr := &mysql.MySQLError{Number: 1062, Message: "Duplicate entry"}
	c.Assert(IsUniqueViolation(fmt.Errorf("insert: %w", myErr)), qt.IsTrue)
	c.Assert(IsUniqueViolation(&mysql.MySQLError{Number: 1048}), qt.IsFalse)
}

func TestIsUniqueViolation_SQLite(t *testing.T) {
	c := qt.New(t)
	database := openMemory(t)

	_, err := database.Exec(`CREATE TABLE t (code TEXT UNIQUE)`)
	c.Assert(err, qt.IsNil)
	_, err = database.Exec(`INSERT INTO t (code) VALUES ('a')`)
	c.Assert(err, qt.IsNil)

	_, err = database.Exec(`INSERT INTO t (code) VALUES ('a')`)
	c.Assert(err, qt.IsNotNil)
	c.Assert(IsUniqueViolation(err), qt.IsTrue)
}

func TestEscapeLike(t *testing.T) {
	c := qt.New(t)
	c.Assert(EscapeLike("50%_off!"), qt.Equals, "50!%!_off!!")
	c.Assert(EscapeLike("plain"), qt.Equals, "plain")
}
