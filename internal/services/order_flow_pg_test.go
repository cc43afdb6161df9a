package services_test

import (
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"ecommerceapi/internal/domain"
	"ecommerceapi/internal/repos"
)

// pgdb opens TEST_PG_DSN; the tests are skipped without it.
func pgdb(t *testing.T) *sqlx.DB {
	t.Helper()
	dsn := os.Getenv("TEST_PG_DSN")
	if dsn == "" {
		t.Skip("TEST_PG_DSN not set")
	}
	db, err := repos.OpenDB(repos.DriverPostgres, dsn, false)
	if err != nil {
		t.Fatalf("open postgres: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

// pgUser creates a throwaway account so runs against a shared database don't collide.
func pgUser(t *testing.T, db *sqlx.DB) int64 {
	t.Helper()
	id, err := repos.NewUserRepo(db).Create("Teste", uuid.NewString()+"@loja.test", "x")
	if err != nil {
		t.Fatal(err)
	}
	return id
}

func pgProduct(t *testing.T, db *sqlx.DB, name string) domain.Product {
	t.Helper()
	var p domain.Product
	if err := db.Get(&p, db.Rebind(`SELECT id, name, description, price, image_url, COALESCE(created_at, '') AS created_at FROM products WHERE name = ?`), name); err != nil {
		t.Fatalf("product %s: %v", name, err)
	}
	return p
}

func TestPostgres_OrderFlow(t *testing.T) {
	db := pgdb(t)
	uid := pgUser(t, db)
	p1 := pgProduct(t, db, "Camiseta Básica")
	p2 := pgProduct(t, db, "Tênis Corrida")

	carts := repos.NewCartRepo(db)
	for _, it := range []domain.CartItem{
		{ClientID: uid, ProductID: p1.ID, UnitPrice: dec("10"), Quantity: 2, TotalValue: dec("20")},
		{ClientID: uid, ProductID: p2.ID, UnitPrice: dec("5"), Quantity: 1, TotalValue: dec("5")},
	} {
		if _, err := carts.Upsert(it); err != nil {
			t.Fatal(err)
		}
	}

	svc := orderSvc(db)
	placed, err := svc.Place(uid, dec("25"))
	if err != nil {
		t.Fatal(err)
	}
	lines, err := svc.Details(placed.Order.ID, uid)
	if err != nil {
		t.Fatal(err)
	}
	if len(lines) != 2 || !placed.ServerTotal.Equal(dec("25")) {
		t.Fatalf("details=%d server total=%s", len(lines), placed.ServerTotal)
	}
	left, err := carts.Lines(uid)
	if err != nil {
		t.Fatal(err)
	}
	if len(left) != 0 {
		t.Fatalf("cart should be empty, has %d lines", len(left))
	}
	hist, err := svc.History(uid)
	if err != nil || len(hist) != 1 {
		t.Fatalf("history: %+v err=%v", hist, err)
	}
}

// An add racing a checkout waits for it and then lands as a fresh line.
func TestPostgres_CheckoutLocksCartLines(t *testing.T) {
	db := pgdb(t)
	uid := pgUser(t, db)
	p := pgProduct(t, db, "Mochila Urbana")
	carts := repos.NewCartRepo(db)
	if _, err := carts.Upsert(domain.CartItem{ClientID: uid, ProductID: p.ID, UnitPrice: p.Price, Quantity: 2, TotalValue: p.Price.Mul(dec("2"))}); err != nil {
		t.Fatal(err)
	}

	tx, err := db.Beginx()
	if err != nil {
		t.Fatal(err)
	}
	defer func() { _ = tx.Rollback() }()
	locked := carts.WithTx(tx)
	items, err := locked.ItemsForUpdate(uid)
	if err != nil || len(items) != 1 {
		t.Fatalf("items=%v err=%v", items, err)
	}

	done := make(chan error, 1)
	go func() {
		_, err := carts.Upsert(domain.CartItem{ClientID: uid, ProductID: p.ID, UnitPrice: p.Price, Quantity: 3, TotalValue: p.Price.Mul(dec("3"))})
		done <- err
	}()

	select {
	case err := <-done:
		t.Fatalf("add did not wait for the checkout lock (err=%v)", err)
	case <-time.After(300 * time.Millisecond):
	}

	if err := locked.DeleteConsumed(items); err != nil {
		t.Fatal(err)
	}
	if err := tx.Commit(); err != nil {
		t.Fatal(err)
	}
	if err := <-done; err != nil {
		t.Fatal(err)
	}

	left, err := carts.Lines(uid)
	if err != nil {
		t.Fatal(err)
	}
	if len(left) != 1 || left[0].Quantity != 3 {
		t.Fatalf("want one fresh line with qty 3, got %+v", left)
	}
}
