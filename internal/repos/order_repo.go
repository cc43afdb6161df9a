package repos

import (
	"ecommerceapi/internal/domain"

	"github.com/jmoiron/sqlx"
	"github.com/shopspring/decimal"
)

type OrderRepo struct{ db sqlx.Ext }

func NewOrderRepo(db sqlx.Ext) *OrderRepo { return &OrderRepo{db: db} }

func (r *OrderRepo) WithTx(tx *sqlx.Tx) *OrderRepo { return &OrderRepo{db: tx} }

// ---------- History list ----------
type OrderSummary struct {
	ID         int64           `db:"id" json:"id"`
	TotalValue decimal.Decimal `db:"total_value" json:"pedidoTotal"`
	OrderDate  string          `db:"order_date" json:"dataPedido"`
}

// ---------- Line items joined with product display fields ----------
type OrderDetailLine struct {
	ID           int64           `db:"id" json:"id"`
	Quantity     int             `db:"qty" json:"quantidade"`
	Subtotal     decimal.Decimal `db:"total_value" json:"subTotal"`
	ProductName  string          `db:"name" json:"produtoNome"`
	ProductImage string          `db:"image_url" json:"produtoImagem"`
	ProductPrice decimal.Decimal `db:"price" json:"produtoPreco"`
}

// Create inserts a new order header and returns its generated id.
func (r *OrderRepo) Create(o domain.Order) (int64, error) {
	var id int64
	err := sqlx.Get(r.db, &id, r.db.Rebind(`
	  INSERT INTO orders(user_id, total_value, order_date)
	  VALUES(?, ?, ?)
	  RETURNING id
	`), o.UserID, o.TotalValue, o.OrderDate)
	return id, err
}

// InsertDetail inserts a single line item.
func (r *OrderRepo) InsertDetail(d domain.OrderDetail) error {
	_, err := r.db.Exec(r.db.Rebind(`
	  INSERT INTO order_details(order_id, product_id, price, qty, total_value)
	  VALUES(?, ?, ?, ?, ?)
	`), d.OrderID, d.ProductID, d.Price, d.Quantity, d.TotalValue)
	return err
}

func (r *OrderRepo) Get(orderID int64) (domain.Order, error) {
	var o domain.Order
	err := sqlx.Get(r.db, &o, r.db.Rebind(`SELECT id, user_id, total_value, order_date FROM orders WHERE id = ?`), orderID)
	return o, err
}

// Details uses the current catalog price for display; the frozen price stays in order_details.price.
func (r *OrderRepo) Details(orderID int64) ([]OrderDetailLine, error) {
	out := []OrderDetailLine{}
	err := sqlx.Select(r.db, &out, r.db.Rebind(`
		SELECT od.id, od.qty, od.total_value, p.name, p.image_url, p.price
		FROM order_details od
		JOIN products p ON p.id = od.product_id
		WHERE od.order_id = ?
		ORDER BY od.id
	`), orderID)
	return out, err
}

// ListByUser returns a user's orders, newest first.
func (r *OrderRepo) ListByUser(userID int64) ([]OrderSummary, error) {
	out := []OrderSummary{}
	err := sqlx.Select(r.db, &out, r.db.Rebind(`
		SELECT id, total_value, order_date
		FROM orders
		WHERE user_id = ?
		ORDER BY order_date DESC, id DESC
	`), userID)
	return out, err
}
