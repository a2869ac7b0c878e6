// Package common provides shared utilities and types used across the application.
package common

import "errors"

// Common application errors.
var (
	// Catalog errors.
	ErrNotFound       = errors.New("not found")
	ErrDuplicateEntry = errors.New("duplicate entry")

	// Ingestion errors.
	ErrRowRejected = errors.New("row rejected")
)
