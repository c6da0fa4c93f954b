package errors

import (
	"errors"
)

var (
	ErrNotAuthenticated      = errors.New("authentication required")
	ErrTokenInvalid          = errors.New("invalid token")
	ErrEmptyCart             = errors.New("your cart is empty")
	ErrConfirmationDeclined  = errors.New("confirmation declined")
	ErrCartItemNotFound      = errors.New("cart item not found")
	ErrCheckoutAlreadyActive = errors.New("checkout already in progress")
)
