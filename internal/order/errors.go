package order

import "errors"

var (
	// ErrNotFound is returned when an order id matches no row.
	ErrNotFound = errors.New("order not found")
	// ErrValidation covers malformed or missing input, caught before any stock mutation.
	ErrValidation = errors.New("invalid order request")
	// ErrInvalidReference means a line item names a malformed or nonexistent product.
	ErrInvalidReference = errors.New("invalid product reference")
	// ErrInsufficientStock means a guarded decrement found inadequate stock.
	ErrInsufficientStock = errors.New("insufficient stock")
	// ErrInvalidTransition rejects a disallowed status change.
	ErrInvalidTransition = errors.New("invalid status transition")
)

// IsBusinessError reports whether err is one of the business-rule failures that
// map to a 4xx response; anything else is treated as a persistence failure.
func IsBusinessError(err error) bool {
	return errors.Is(err, ErrValidation) ||
		errors.Is(err, ErrInvalidReference) ||
		errors.Is(err, ErrInsufficientStock) ||
		errors.Is(err, ErrInvalidTransition)
}
