package repos_test

import (
	"errors"
	"testing"

	"github.com/jmoiron/sqlx"
	"github.com/shopspring/decimal"

	"ecommerceapi/internal/domain"
	"ecommerceapi/internal/repos"
)

func openMem(t *testing.T, seedDemo bool) *sqlx.DB {
	t.Helper()
	db, err := repos.OpenDB(repos.DriverSQLite, ":memory:", seedDemo)
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

func TestOpenDB_DemoAccountsOptIn(t *testing.T) {
	for _, tc := range []struct {
		seed  bool
		users int
	}{{false, 0}, {true, 2}} {
		db := openMem(t, tc.seed)
		var users, products int
		if err := db.Get(&users, `SELECT COUNT(*) FROM users`); err != nil {
			t.Fatal(err)
		}
		if err := db.Get(&products, `SELECT COUNT(*) FROM products`); err != nil {
			t.Fatal(err)
		}
		if users != tc.users || products != 4 {
			t.Fatalf("seedDemo=%v: users=%d products=%d", tc.seed, users, products)
		}
	}
}

func TestOpenDB_UnknownDriver(t *testing.T) {
	if _, err := repos.OpenDB("mysql", "x", false); err == nil {
		t.Fatal("expected error for unsupported driver")
	}
}

func TestProductSearch_WildcardsMatchLiterally(t *testing.T) {
	db := openMem(t, false)
	db.MustExec(`INSERT INTO products(name, price) VALUES ('kit_a', 1), ('kitXa', 1), ('50% off', 1)`)
	prods := repos.NewProductRepo(db)

	names := func(q string) []string {
		t.Helper()
		ps, err := prods.Search(q, 20, 0)
		if err != nil {
			t.Fatal(err)
		}
		var out []string
		for _, p := range ps {
			out = append(out, p.Name)
		}
		return out
	}

	if got := names("kit_a"); len(got) != 1 || got[0] != "kit_a" {
		t.Fatalf("underscore search: %v", got)
	}
	if got := names("5%f"); len(got) != 0 {
		t.Fatalf("percent must not act as a wildcard: %v", got)
	}
	if got := names("50%"); len(got) != 1 || got[0] != "50% off" {
		t.Fatalf("percent search: %v", got)
	}
	if got := names("KIT"); len(got) != 2 {
		t.Fatalf("case-insensitive search: %v", got)
	}
}

func TestCartDeleteConsumed_ChangedLineIsKept(t *testing.T) {
	db := openMem(t, true)
	var uid, pid int64
	if err := db.Get(&uid, `SELECT id FROM users WHERE email = 'maria@loja.test'`); err != nil {
		t.Fatal(err)
	}
	if err := db.Get(&pid, `SELECT id FROM products WHERE name = 'Camiseta Básica'`); err != nil {
		t.Fatal(err)
	}
	carts := repos.NewCartRepo(db)
	price := decimal.RequireFromString("49.90")
	if _, err := carts.Upsert(domain.CartItem{ClientID: uid, ProductID: pid, UnitPrice: price, Quantity: 2, TotalValue: price.Mul(decimal.NewFromInt(2))}); err != nil {
		t.Fatal(err)
	}

	items, err := carts.ItemsForUpdate(uid)
	if err != nil || len(items) != 1 || items[0].Quantity != 2 {
		t.Fatalf("items=%+v err=%v", items, err)
	}
	if _, err := carts.Increment(uid, pid); err != nil {
		t.Fatal(err)
	}

	if err := carts.DeleteConsumed(items); !errors.Is(err, repos.ErrCartChanged) {
		t.Fatalf("want ErrCartChanged, got %v", err)
	}
	cur, err := carts.Find(uid, pid)
	if err != nil || cur.Quantity != 3 {
		t.Fatalf("line must survive with qty 3: %+v err=%v", cur, err)
	}

	items, _ = carts.ItemsForUpdate(uid)
	if err := carts.DeleteConsumed(items); err != nil {
		t.Fatal(err)
	}
	if _, err := carts.Find(uid, pid); err == nil {
		t.Fatal("line should be gone")
	}
}
