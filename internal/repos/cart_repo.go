package repos

import (
	"database/sql"
	"errors"
	"fmt"

	"ecommerceapi/internal/domain"

	"github.com/jmoiron/sqlx"
	"github.com/shopspring/decimal"
)

// ErrCartChanged means a cart line moved under a running checkout.
var ErrCartChanged = errors.New("cart changed during checkout")

type CartRepo struct{ db sqlx.Ext }

func NewCartRepo(db sqlx.Ext) *CartRepo { return &CartRepo{db: db} }

// WithTx binds the repo to a transaction.
func (r *CartRepo) WithTx(tx *sqlx.Tx) *CartRepo { return &CartRepo{db: tx} }

// CartLine is the cart view joined with product display fields.
type CartLine struct {
	ID          int64           `db:"id" json:"id"`
	UnitPrice   decimal.Decimal `db:"unit_price" json:"preco"`
	TotalValue  decimal.Decimal `db:"total_value" json:"valorTotal"`
	Quantity    int             `db:"qty" json:"quantidade"`
	ProductID   int64           `db:"product_id" json:"produtoId"`
	ProductName string          `db:"name" json:"produtoNome"`
	ImageURL    string          `db:"image_url" json:"urlImagem"`
}

const cartItemCols = `id, client_id, product_id, unit_price, qty, total_value`

func (r *CartRepo) Lines(userID int64) ([]CartLine, error) {
	rows := []CartLine{}
	err := sqlx.Select(r.db, &rows, r.db.Rebind(`
	  SELECT ci.id, ci.unit_price, ci.total_value, ci.qty, p.id AS product_id, p.name, p.image_url
	  FROM cart_items ci JOIN products p ON p.id = ci.product_id
	  WHERE ci.client_id = ?
	  ORDER BY ci.id
	`), userID)
	return rows, err
}

// Upsert inserts the line or, when (client, product) exists, adds the
// quantity and re-prices it from the stored unit price. One statement, so
// concurrent adds neither duplicate rows nor lose increments.
func (r *CartRepo) Upsert(it domain.CartItem) (domain.CartItem, error) {
	var out domain.CartItem
	err := sqlx.Get(r.db, &out, r.db.Rebind(`
		INSERT INTO cart_items(client_id, product_id, unit_price, qty, total_value)
		VALUES(?,?,?,?,?)
		ON CONFLICT(client_id, product_id) DO UPDATE SET
		  qty = cart_items.qty + excluded.qty,
		  total_value = ROUND(cart_items.unit_price * (cart_items.qty + excluded.qty), 2)
		RETURNING `+cartItemCols), it.ClientID, it.ProductID, it.UnitPrice, it.Quantity, it.TotalValue)
	return out, err
}

func (r *CartRepo) Increment(userID, productID int64) (bool, error) {
	return r.affected(r.db.Exec(r.db.Rebind(`
		UPDATE cart_items
		SET qty = qty + 1, total_value = ROUND(unit_price * (qty + 1), 2)
		WHERE client_id = ? AND product_id = ?
	`), userID, productID))
}

// Decrement only touches lines with more than one unit.
func (r *CartRepo) Decrement(userID, productID int64) (bool, error) {
	return r.affected(r.db.Exec(r.db.Rebind(`
		UPDATE cart_items
		SET qty = qty - 1, total_value = ROUND(unit_price * (qty - 1), 2)
		WHERE client_id = ? AND product_id = ? AND qty > 1
	`), userID, productID))
}

func (r *CartRepo) Remove(userID, productID int64) (bool, error) {
	return r.affected(r.db.Exec(r.db.Rebind(`DELETE FROM cart_items WHERE client_id = ? AND product_id = ?`), userID, productID))
}

// ItemsForUpdate reads the user's lines inside a transaction. On Postgres the
// rows are locked so concurrent merges wait for the transaction to finish.
func (r *CartRepo) ItemsForUpdate(userID int64) ([]domain.CartItem, error) {
	q := `SELECT ` + cartItemCols + ` FROM cart_items WHERE client_id = ? ORDER BY id`
	if r.db.DriverName() == DriverPostgres {
		q += ` FOR UPDATE`
	}
	var out []domain.CartItem
	err := sqlx.Select(r.db, &out, r.db.Rebind(q), userID)
	return out, err
}

// DeleteConsumed removes exactly the lines that were read, as they were read.
// A line whose quantity changed in the meantime is left alone and reported
// as ErrCartChanged.
func (r *CartRepo) DeleteConsumed(items []domain.CartItem) error {
	for _, it := range items {
		ok, err := r.affected(r.db.Exec(r.db.Rebind(`DELETE FROM cart_items WHERE id = ? AND qty = ?`), it.ID, it.Quantity))
		if err != nil {
			return err
		}
		if !ok {
			return fmt.Errorf("%w: line %d", ErrCartChanged, it.ID)
		}
	}
	return nil
}

func (r *CartRepo) affected(res sql.Result, err error) (bool, error) {
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

func (r *CartRepo) Find(userID, productID int64) (domain.CartItem, error) {
	var it domain.CartItem
	err := sqlx.Get(r.db, &it, r.db.Rebind(`SELECT `+cartItemCols+` FROM cart_items WHERE client_id = ? AND product_id = ?`), userID, productID)
	return it, err
}
