package service

import (
	"errors"
	"sort"
	"strings"
)

var (
	// ErrSchemaUnavailable means the form schema could not be loaded or is
	// malformed. Callers treat it as a configuration failure.
	ErrSchemaUnavailable = errors.New("form schema unavailable")
	// ErrStorage wraps failures of the submission store.
	ErrStorage = errors.New("submission storage failed")
)

// ValidationError carries every rejected field with its messages.
type ValidationError struct {
	Fields map[string][]string
}

func (e *ValidationError) Error() string {
	names := make([]string, 0, len(e.Fields))
	for name := range e.Fields {
		names = append(names, name)
	}
	sort.Strings(names)
	return "validation failed: " + strings.Join(names, ", ")
}

func newValidationError(field string, msgs ...string) *ValidationError {
	return &ValidationError{Fields: map[string][]string{field: msgs}}
}
