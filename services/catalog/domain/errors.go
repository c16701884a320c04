package domain

import "errors"

// Sentinel errors for the catalog domain. Use errors.Is() to check these.
var (
	// ErrProductNotFound indicates the requested product does not exist.
	ErrProductNotFound = errors.New("product not found")

	// ErrInvalidProduct indicates a product or draft violates domain constraints.
	ErrInvalidProduct = errors.New("invalid product")

	// ErrInvalidImport indicates an imported file could not be turned into products.
	ErrInvalidImport = errors.New("invalid product import")
)
