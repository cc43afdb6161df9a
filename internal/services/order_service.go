package services

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"ecommerceapi/internal/domain"
	"ecommerceapi/internal/repos"

	"github.com/jmoiron/sqlx"
	"github.com/shopspring/decimal"
)

type OrderService struct {
	DB     *sqlx.DB
	Carts  *repos.CartRepo
	Orders *repos.OrderRepo
	now    func() time.Time
}

func NewOrderService(db *sqlx.DB, carts *repos.CartRepo, orders *repos.OrderRepo) *OrderService {
	return &OrderService{DB: db, Carts: carts, Orders: orders, now: time.Now}
}

type Placed struct {
	Order       domain.Order
	Details     []domain.OrderDetail
	ServerTotal decimal.Decimal
}

// Place converts the user's cart into an order. Header, details and the
// removal of the consumed cart lines commit together or not at all.
// clientTotal is stored as sent; zero stores the sum of the cart lines.
func (s *OrderService) Place(userID int64, clientTotal decimal.Decimal) (Placed, error) {
	now := time.Now
	if s.now != nil {
		now = s.now
	}
	var out Placed

	err := repos.InTx(s.DB, func(tx *sqlx.Tx) error {
		carts := s.Carts.WithTx(tx)
		orders := s.Orders.WithTx(tx)

		items, err := carts.ItemsForUpdate(userID)
		if err != nil {
			return fmt.Errorf("load cart: %w", err)
		}
		if len(items) == 0 {
			return ErrCartEmpty
		}

		serverTotal := decimal.Zero
		for _, it := range items {
			serverTotal = serverTotal.Add(it.TotalValue)
		}
		total := clientTotal
		if total.IsZero() {
			total = serverTotal
		}

		o := domain.Order{UserID: userID, TotalValue: total, OrderDate: now().UTC().Format(domain.TimeLayout)}
		if o.ID, err = orders.Create(o); err != nil {
			return fmt.Errorf("create order: %w", err)
		}

		details := make([]domain.OrderDetail, 0, len(items))
		for _, it := range items {
			d := domain.OrderDetail{
				OrderID:    o.ID,
				ProductID:  it.ProductID,
				Price:      it.UnitPrice,
				Quantity:   it.Quantity,
				TotalValue: it.TotalValue,
			}
			if err := orders.InsertDetail(d); err != nil {
				return fmt.Errorf("insert order detail: %w", err)
			}
			details = append(details, d)
		}

		if err := carts.DeleteConsumed(items); err != nil {
			return fmt.Errorf("clear cart: %w", err)
		}
		out = Placed{Order: o, Details: details, ServerTotal: serverTotal}
		return nil
	})
	if err != nil {
		return Placed{}, err
	}
	return out, nil
}

// Details returns the line items of an order owned by userID. Orders of
// other users are reported as not found.
func (s *OrderService) Details(orderID, userID int64) ([]repos.OrderDetailLine, error) {
	o, err := s.Orders.Get(orderID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrOrderNotFound
		}
		return nil, err
	}
	if o.UserID != userID {
		return nil, ErrOrderNotFound
	}
	lines, err := s.Orders.Details(orderID)
	if err != nil {
		return nil, err
	}
	if len(lines) == 0 {
		return nil, ErrOrderNotFound
	}
	return lines, nil
}

// History lists the user's orders newest first; none is ErrOrderNotFound.
func (s *OrderService) History(userID int64) ([]repos.OrderSummary, error) {
	orders, err := s.Orders.ListByUser(userID)
	if err != nil {
		return nil, err
	}
	if len(orders) == 0 {
		return nil, ErrOrderNotFound
	}
	return orders, nil
}
