package domain

import "github.com/shopspring/decimal"

func init() {
	// money goes over the wire as JSON numbers, not strings
	decimal.MarshalJSONWithoutQuotes = true
}

// TimeLayout is fixed-width UTC so stored dates sort lexicographically.
const TimeLayout = "2006-01-02T15:04:05.000000Z"

type User struct {
	ID    int64  `db:"id"`
	Name  string `db:"name"`
	Email string `db:"email"`
	Hash  string `db:"password_hash"`
}

type Product struct {
	ID          int64           `db:"id" json:"id"`
	Name        string          `db:"name" json:"nome"`
	Description string          `db:"description" json:"descricao"`
	Price       decimal.Decimal `db:"price" json:"preco"`
	ImageURL    string          `db:"image_url" json:"urlImagem"`
	CreatedAt   string          `db:"created_at" json:"-"`
}

// CartItem is a pending line; TotalValue tracks UnitPrice × Quantity.
type CartItem struct {
	ID         int64           `db:"id" json:"id"`
	ClientID   int64           `db:"client_id" json:"clienteId"`
	ProductID  int64           `db:"product_id" json:"produtoId"`
	UnitPrice  decimal.Decimal `db:"unit_price" json:"precoUnitario"`
	Quantity   int             `db:"qty" json:"quantidade"`
	TotalValue decimal.Decimal `db:"total_value" json:"valorTotal"`
}

type Order struct {
	ID         int64           `db:"id" json:"id"`
	UserID     int64           `db:"user_id" json:"usuarioId"`
	TotalValue decimal.Decimal `db:"total_value" json:"valorTotal"`
	OrderDate  string          `db:"order_date" json:"dataPedido"`
}

// OrderDetail is frozen at order creation and never updated.
type OrderDetail struct {
	ID         int64           `db:"id"`
	OrderID    int64           `db:"order_id"`
	ProductID  int64           `db:"product_id"`
	Price      decimal.Decimal `db:"price"`
	Quantity   int             `db:"qty"`
	TotalValue decimal.Decimal `db:"total_value"`
}
