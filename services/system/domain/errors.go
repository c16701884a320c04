package domain

import "errors"

// Sentinel errors for the system domain. Use errors.Is() to check these.
var (
	// ErrInvalidSettings indicates settings that violate domain constraints.
	ErrInvalidSettings = errors.New("invalid settings")

	// ErrInvalidImport indicates an import document that does not match its kind.
	ErrInvalidImport = errors.New("invalid import")

	// ErrUnknownImportKind indicates an import kind other than backup, products or sales.
	ErrUnknownImportKind = errors.New("unknown import kind")
)
