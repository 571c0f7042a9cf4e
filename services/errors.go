package services

import "errors"

var (
	ErrInvalidInput    = errors.New("invalid input")
	ErrInvalidUser     = errors.New("invalid user id given")
	ErrInvalidProduct  = errors.New("invalid product id found")
	ErrProductNotFound = errors.New("product does not exist")
	ErrCartNotFound    = errors.New("cart not found")
	ErrItemNotInCart   = errors.New("item not found in cart")
	ErrOrderNotFound   = errors.New("order does not exist")
	ErrAccountNotFound = errors.New("account does not exist")
	ErrEmailTaken      = errors.New("email already registered")

	// ErrNoMoreRecords marks an empty page. It is a normal outcome, not a failure.
	ErrNoMoreRecords = errors.New("no more records")
)
