package domain

import "errors"

// Sentinel errors for the ledger domain. Use errors.Is() to check these.
var (
	// ErrEmptySale indicates a sale was submitted without lines.
	ErrEmptySale = errors.New("sale has no items")

	// ErrInvalidQuantity indicates a line quantity that is not positive.
	ErrInvalidQuantity = errors.New("quantity must be greater than zero")

	// ErrUnknownProduct indicates a line names a product that does not exist.
	ErrUnknownProduct = errors.New("unknown product")

	// ErrInsufficientStock indicates the requested quantity exceeds stock.
	ErrInsufficientStock = errors.New("insufficient stock")

	// ErrSaleNotFound indicates the requested sale does not exist.
	ErrSaleNotFound = errors.New("sale not found")

	// ErrInvalidSale indicates an imported sale violates domain constraints.
	ErrInvalidSale = errors.New("invalid sale")
)

// RejectReason labels a commit failure for metrics. Unrecognized errors are
// reported as "internal".
func RejectReason(err error) string {
	switch {
	case errors.Is(err, ErrEmptySale):
		return "empty"
	case errors.Is(err, ErrInvalidQuantity):
		return "invalid_quantity"
	case errors.Is(err, ErrUnknownProduct):
		return "unknown_product"
	case errors.Is(err, ErrInsufficientStock):
		return "insufficient_stock"
	default:
		return "internal"
	}
}
