package domain

import "errors"

// Sentinel errors for the report domain. Use errors.Is() to check these.
var (
	// ErrInvalidWindow indicates an unknown reporting window.
	ErrInvalidWindow = errors.New("invalid report window")

	// ErrInvalidExport indicates an unknown report kind or a kind that has no
	// rendering in the requested format.
	ErrInvalidExport = errors.New("invalid report export")
)
