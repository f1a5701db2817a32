// Package services implements the application's business operations on top
// of the repositories: catalog reads/writes, the purchase flow with its
// stock adjustment, and user registration with session-token issuance.
package services

import "errors"

var (
	// ErrInvalidID marks an identifier that is not a valid ObjectID hex.
	ErrInvalidID = errors.New("invalid id")

	// ErrUnknownProduct marks a purchase against a product id that matches
	// no tool; the order insert has been rolled back when this is returned.
	ErrUnknownProduct = errors.New("unknown product")

	// ErrBadQuantity marks an order body whose orderQuantity is missing or
	// not coercible to an integer.
	ErrBadQuantity = errors.New("invalid order quantity")
)
