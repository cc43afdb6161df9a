package repos

import (
	"fmt"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"golang.org/x/crypto/bcrypt"
	_ "modernc.org/sqlite"

	applog "ecommerceapi/internal/log"
)

const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

// OpenDB connects, creates the schema and seeds the catalog. Demo accounts
// (known password) are only created when seedDemo is set. Seeding is
// idempotent and safe on every start.
func OpenDB(driver, dsn string, seedDemo bool) (*sqlx.DB, error) {
	var schema string
	switch driver {
	case DriverSQLite:
		schema = sqliteSchema
	case DriverPostgres:
		schema = postgresSchema
	default:
		return nil, fmt.Errorf("unsupported DB_DRIVER %q", driver)
	}

	db, err := sqlx.Open(driver, dsn)
	if err != nil {
		return nil, err
	}
	if driver == DriverSQLite {
		// one connection: serialised writes, and ":memory:" stays a single database
		db.SetMaxOpenConns(1)
	}
	if err = db.Ping(); err != nil {
		db.Close()
		return nil, err
	}

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("schema: %w", err)
	}
	if err := seedProducts(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("seed products: %w", err)
	}
	if seedDemo {
		if err := seedUsers(db); err != nil {
			db.Close()
			return nil, fmt.Errorf("seed users: %w", err)
		}
	}
	return db, nil
}

// InTx runs fn inside one transaction; any error rolls everything back.
func InTx(db *sqlx.DB, fn func(tx *sqlx.Tx) error) error {
	tx, err := db.Beginx()
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	if err := fn(tx); err != nil {
		return err
	}
	return tx.Commit()
}

const sqliteSchema = `
PRAGMA foreign_keys = ON;

CREATE TABLE IF NOT EXISTS users(
  id INTEGER PRIMARY KEY AUTOINCREMENT,
  name TEXT NOT NULL,
  email TEXT NOT NULL UNIQUE,
  password_hash TEXT NOT NULL,
  created_at TEXT DEFAULT CURRENT_TIMESTAMP
);
CREATE UNIQUE INDEX IF NOT EXISTS idx_users_email_nocase ON users(LOWER(email));

CREATE TABLE IF NOT EXISTS products(
  id INTEGER PRIMARY KEY AUTOINCREMENT,
  name TEXT NOT NULL,
  description TEXT NOT NULL DEFAULT '',
  price NUMERIC NOT NULL CHECK (price >= 0),
  image_url TEXT NOT NULL DEFAULT '',
  created_at TEXT DEFAULT CURRENT_TIMESTAMP
);
CREATE INDEX IF NOT EXISTS idx_products_name ON products(LOWER(name));

CREATE TABLE IF NOT EXISTS cart_items(
  id INTEGER PRIMARY KEY AUTOINCREMENT,
  client_id INTEGER NOT NULL REFERENCES users(id) ON DELETE CASCADE,
  product_id INTEGER NOT NULL REFERENCES products(id) ON DELETE RESTRICT,
  unit_price NUMERIC NOT NULL,
  qty INTEGER NOT NULL CHECK (qty >= 1),
  total_value NUMERIC NOT NULL,
  UNIQUE (client_id, product_id)
);

CREATE TABLE IF NOT EXISTS orders(
  id INTEGER PRIMARY KEY AUTOINCREMENT,
  user_id INTEGER NOT NULL REFERENCES users(id) ON DELETE RESTRICT,
  total_value NUMERIC NOT NULL,
  order_date TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_orders_user_date ON orders(user_id, order_date);

CREATE TABLE IF NOT EXISTS order_details(
  id INTEGER PRIMARY KEY AUTOINCREMENT,
  order_id INTEGER NOT NULL REFERENCES orders(id) ON DELETE CASCADE,
  product_id INTEGER NOT NULL REFERENCES products(id) ON DELETE RESTRICT,
  price NUMERIC NOT NULL,
  qty INTEGER NOT NULL,
  total_value NUMERIC NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_order_details_order ON order_details(order_id);
`

const postgresSchema = `
CREATE TABLE IF NOT EXISTS users(
  id BIGSERIAL PRIMARY KEY,
  name TEXT NOT NULL,
  email TEXT NOT NULL UNIQUE,
  password_hash TEXT NOT NULL,
  created_at TEXT DEFAULT to_char(now() AT TIME ZONE 'UTC', 'YYYY-MM-DD HH24:MI:SS')
);
CREATE UNIQUE INDEX IF NOT EXISTS idx_users_email_nocase ON users(LOWER(email));

CREATE TABLE IF NOT EXISTS products(
  id BIGSERIAL PRIMARY KEY,
  name TEXT NOT NULL,
  description TEXT NOT NULL DEFAULT '',
  price NUMERIC(12,2) NOT NULL CHECK (price >= 0),
  image_url TEXT NOT NULL DEFAULT '',
  created_at TEXT DEFAULT to_char(now() AT TIME ZONE 'UTC', 'YYYY-MM-DD HH24:MI:SS')
);
CREATE INDEX IF NOT EXISTS idx_products_name ON products(LOWER(name));

CREATE TABLE IF NOT EXISTS cart_items(
  id BIGSERIAL PRIMARY KEY,
  client_id BIGINT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
  product_id BIGINT NOT NULL REFERENCES products(id) ON DELETE RESTRICT,
  unit_price NUMERIC(12,2) NOT NULL,
  qty INTEGER NOT NULL CHECK (qty >= 1),
  total_value NUMERIC(14,2) NOT NULL,
  UNIQUE (client_id, product_id)
);

CREATE TABLE IF NOT EXISTS orders(
  id BIGSERIAL PRIMARY KEY,
  user_id BIGINT NOT NULL REFERENCES users(id) ON DELETE RESTRICT,
  total_value NUMERIC(14,2) NOT NULL,
  order_date TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_orders_user_date ON orders(user_id, order_date);

CREATE TABLE IF NOT EXISTS order_details(
  id BIGSERIAL PRIMARY KEY,
  order_id BIGINT NOT NULL REFERENCES orders(id) ON DELETE CASCADE,
  product_id BIGINT NOT NULL REFERENCES products(id) ON DELETE RESTRICT,
  price NUMERIC(12,2) NOT NULL,
  qty INTEGER NOT NULL,
  total_value NUMERIC(14,2) NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_order_details_order ON order_details(order_id);
`

func seedProducts(db *sqlx.DB) error {
	var n int
	if err := db.Get(&n, `SELECT COUNT(*) FROM products`); err != nil {
		return err
	}
	if n > 0 {
		return nil
	}

	applog.Info(nil, "db.seed", map[string]any{"table": "products"})

	return InTx(db, func(tx *sqlx.Tx) error {
		_, err := tx.Exec(`INSERT INTO products(name,description,price,image_url) VALUES
		  ('Camiseta Básica','Camiseta 100% algodão',49.90,'/images/camiseta.jpg'),
		  ('Tênis Corrida','Tênis leve para corrida',299.00,'/images/tenis.jpg'),
		  ('Mochila Urbana','Mochila 20L com compartimento para notebook',189.50,'/images/mochila.jpg'),
		  ('Garrafa Térmica','Garrafa inox 750ml',79.90,'/images/garrafa.jpg')`)
		return err
	})
}

// seedUsers ensures the demo accounts exist (idempotent).
func seedUsers(db *sqlx.DB) error {
	type u struct {
		Email, Name, Hash string
	}
	mk := func(email, name, raw string) (u, error) {
		h, err := bcrypt.GenerateFromPassword([]byte(raw), bcrypt.DefaultCost)
		return u{Email: email, Name: name, Hash: string(h)}, err
	}

	var users []u
	for _, x := range [][2]string{
		{"maria@loja.test", "Maria"},
		{"joao@loja.test", "João"},
	} {
		usr, err := mk(x[0], x[1], "Passw0rd!")
		if err != nil {
			return err
		}
		users = append(users, usr)
	}

	applog.Info(nil, "db.seed", map[string]any{"table": "users", "accounts": len(users)})
	return InTx(db, func(tx *sqlx.Tx) error {
		for _, x := range users {
			if _, err := tx.Exec(tx.Rebind(`
				INSERT INTO users(name,email,password_hash)
				VALUES(?,?,?)
				ON CONFLICT(email) DO NOTHING
			`), x.Name, x.Email, x.Hash); err != nil {
				return err
			}
		}
		return nil
	})
}
