package services_test

import (
	"testing"

	"github.com/jmoiron/sqlx"
	"github.com/shopspring/decimal"

	"ecommerceapi/internal/repos"
)

func memdb(t *testing.T) *sqlx.DB {
	t.Helper()
	db, err := repos.OpenDB(repos.DriverSQLite, ":memory:", true)
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

func userID(t *testing.T, db *sqlx.DB, email string) int64 {
	t.Helper()
	u, err := repos.NewUserRepo(db).ByEmail(email)
	if err != nil {
		t.Fatalf("seed user %s: %v", email, err)
	}
	return u.ID
}

func productID(t *testing.T, db *sqlx.DB, name string) int64 {
	t.Helper()
	var id int64
	if err := db.Get(&id, `SELECT id FROM products WHERE name = ?`, name); err != nil {
		t.Fatalf("seed product %s: %v", name, err)
	}
	return id
}

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func count(t *testing.T, db *sqlx.DB, query string, args ...any) int {
	t.Helper()
	var n int
	if err := db.Get(&n, query, args...); err != nil {
		t.Fatal(err)
	}
	return n
}
