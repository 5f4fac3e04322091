package domain

import (
	"errors"
	"fmt"
)

// Common errors
var (
	ErrNotFound       = errors.New("record not found")
	ErrInvalidID      = errors.New("invalid id")
	ErrStoreQuery     = errors.New("store query failed")
	ErrNotImplemented = errors.New("not implemented")
)

// FetchError describes a failed fetch against the document store.
// Err is either ErrNotFound-derived, ErrMalformedExercise, or the store's cause.
type FetchError struct {
	Op  string
	ID  string
	Err error
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("%s %q: %v", e.Op, e.ID, e.Err)
}

func (e *FetchError) Unwrap() error {
	return e.Err
}

// NewStoreQueryError wraps a store-level cause so that it matches ErrStoreQuery
func NewStoreQueryError(op, id string, cause error) *FetchError {
	return &FetchError{Op: op, ID: id, Err: fmt.Errorf("%w: %w", ErrStoreQuery, cause)}
}
