package services

import (
	"database/sql"
	"errors"
	"fmt"

	"ecommerceapi/internal/domain"
	"ecommerceapi/internal/repos"
	"ecommerceapi/internal/validate"

	"github.com/jmoiron/sqlx"
	"github.com/shopspring/decimal"
)

type CartService struct {
	DB    *sqlx.DB
	Carts *repos.CartRepo
	Prods *repos.ProductRepo
	Users *repos.UserRepo
}

func NewCartService(db *sqlx.DB, carts *repos.CartRepo, prods *repos.ProductRepo, users *repos.UserRepo) *CartService {
	return &CartService{DB: db, Carts: carts, Prods: prods, Users: users}
}

// View lists the user's cart; an unknown user is ErrUserNotFound, an empty cart is not an error.
func (s *CartService) View(userID int64) ([]repos.CartLine, error) {
	if _, err := s.Users.ByID(userID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("lookup user: %w", err)
	}
	return s.Carts.Lines(userID)
}

type AddResult struct {
	Item         domain.CartItem
	CatalogPrice decimal.Decimal
	Merged       bool
}

// PriceMismatch reports a stored unit price that differs from the catalog.
func (r AddResult) PriceMismatch() bool { return !r.Item.UnitPrice.Equal(r.CatalogPrice) }

// Add inserts the line or increments an existing one. A new line keeps the
// caller's unit price while its total is priced from the catalog; merges
// re-price from the stored unit price.
func (s *CartService) Add(it domain.CartItem) (AddResult, error) {
	if !validate.Qty(it.Quantity) {
		return AddResult{}, ErrInvalidQuantity
	}
	if it.UnitPrice.IsNegative() {
		return AddResult{}, ErrInvalidQuantity
	}
	if _, err := s.Users.ByID(it.ClientID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return AddResult{}, ErrUserNotFound
		}
		return AddResult{}, fmt.Errorf("lookup user: %w", err)
	}
	p, err := s.Prods.Get(it.ProductID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return AddResult{}, ErrProductNotFound
		}
		return AddResult{}, fmt.Errorf("lookup product: %w", err)
	}

	it.TotalValue = p.Price.Mul(decimal.NewFromInt(int64(it.Quantity))).Round(2)
	out, err := s.Carts.Upsert(it)
	if err != nil {
		return AddResult{}, fmt.Errorf("upsert cart item: %w", err)
	}
	return AddResult{Item: out, CatalogPrice: p.Price, Merged: out.Quantity > it.Quantity}, nil
}

// UpdateQuantity applies an action verb to the user's line for productID.
// removed is true when the line no longer exists afterwards.
func (s *CartService) UpdateQuantity(userID, productID int64, rawAction string) (removed bool, err error) {
	err = repos.InTx(s.DB, func(tx *sqlx.Tx) error {
		carts := s.Carts.WithTx(tx)
		if _, err := carts.Find(userID, productID); err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return ErrCartItemNotFound
			}
			return err
		}

		action, ok := domain.ParseCartAction(rawAction)
		if !ok {
			return ErrInvalidAction
		}

		var (
			changed bool
			err     error
		)
		switch action {
		case domain.ActionIncrease:
			changed, err = carts.Increment(userID, productID)
		case domain.ActionDecrease:
			if changed, err = carts.Decrement(userID, productID); err == nil && !changed {
				// last unit: the line goes away
				changed, err = carts.Remove(userID, productID)
				removed = changed
			}
		case domain.ActionDelete:
			changed, err = carts.Remove(userID, productID)
			removed = changed
		}
		if err != nil {
			return err
		}
		if !changed {
			return ErrCartItemNotFound
		}
		return nil
	})
	return removed, err
}
