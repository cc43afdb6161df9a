package services

import "errors"

var (
	ErrUserNotFound     = errors.New("user not found")
	ErrProductNotFound  = errors.New("product not found")
	ErrCartItemNotFound = errors.New("cart item not found")
	ErrCartEmpty        = errors.New("cart empty")
	ErrOrderNotFound    = errors.New("order not found")
	ErrInvalidAction    = errors.New("invalid cart action")
	ErrInvalidQuantity  = errors.New("invalid quantity")
	ErrBadCreds         = errors.New("invalid email or password")
	ErrEmailTaken       = errors.New("email already registered")
	ErrInvalidToken     = errors.New("invalid or expired token")
)
