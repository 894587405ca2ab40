package domain

import "errors"

var (
	// ErrNotFound indicates the requested entity was not found.
	ErrNotFound = errors.New("not found")
	// ErrInvalidProduct marks a catalog record that breaks a product invariant.
	ErrInvalidProduct = errors.New("invalid product")
	// ErrEmptyCart is returned when an order is placed with nothing in the cart.
	ErrEmptyCart = errors.New("cart is empty")
)
