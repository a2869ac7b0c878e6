// Package storage provides the SQLite-backed canonical wine catalog.
package storage

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/cellarist/decanter/internal/model"
)

// Validation errors.
var (
	ErrNilContext     = errors.New("context cannot be nil")
	ErrEmptyString    = errors.New("string parameter cannot be empty")
	ErrNilParameter   = errors.New("parameter cannot be nil")
	ErrEmptyPredicate = errors.New("predicate cannot be empty")
	ErrUnknownField   = errors.New("unknown catalog field")
	ErrInvalidWine    = errors.New("invalid wine record")
)

// validateContext ensures the context is not nil.
func validateContext(ctx context.Context) error {
	if ctx == nil {
		return ErrNilContext
	}
	return nil
}

// validateString ensures a string parameter is not empty.
func validateString(s string, paramName string) error {
	if strings.TrimSpace(s) == "" {
		return fmt.Errorf("%w: %s", ErrEmptyString, paramName)
	}
	return nil
}

// validateWine validates a record before it is written.
func validateWine(wine *model.Wine) error {
	if wine == nil {
		return fmt.Errorf("%w: wine", ErrNilParameter)
	}
	if err := wine.Validate(); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidWine, err)
	}
	return nil
}

// validateImportRun validates an import run before it is recorded.
func validateImportRun(run *model.ImportRun) error {
	if run == nil {
		return fmt.Errorf("%w: run", ErrNilParameter)
	}
	if strings.TrimSpace(run.SourceFile) == "" {
		return fmt.Errorf("%w: run.SourceFile", ErrEmptyString)
	}
	return nil
}
