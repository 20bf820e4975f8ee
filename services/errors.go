package services

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrNotFound — the token resolved to no record.
	ErrNotFound = errors.New("proposal not found")
	// ErrInvalidState — the proposal already left pending.
	ErrInvalidState = errors.New("proposal already responded to")
	// ErrStoreUnavailable — the persistence layer failed; safe to retry.
	ErrStoreUnavailable = errors.New("store unavailable")
)

// ValidationError names every missing or invalid field so the client can
// highlight all of them in one round trip.
type ValidationError struct {
	Fields []string
}

func (e *ValidationError) Error() string {
	return "missing or invalid fields: " + strings.Join(e.Fields, ", ")
}

func storeFailure(err error) error {
	return fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
}
