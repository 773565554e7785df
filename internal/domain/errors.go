package domain

import (
	"errors"
	"maps"
	"slices"
	"strings"
)

// Sentinel errors. Adapters map them to transport status codes with
// errors.Is, so wrap rather than replace them.
var (
	ErrNotFound    = errors.New("not found")
	ErrValidation  = errors.New("validation error")
	ErrConflict    = errors.New("conflict")
	ErrUnavailable = errors.New("unavailable")
	ErrRateLimited = errors.New("rate limited")
)

// MsgRequired is the message for a missing mandatory field.
const MsgRequired = "is required"

// ValidationError carries one message per invalid field. It matches
// ErrValidation under errors.Is; use errors.As to read Fields.
type ValidationError struct {
	Fields map[string]string
}

// NewValidationError reports a single invalid field.
func NewValidationError(field, msg string) *ValidationError {
	return &ValidationError{Fields: map[string]string{field: msg}}
}

// Error lists the fields in name order so messages are stable.
func (e *ValidationError) Error() string {
	var b strings.Builder
	b.WriteString(ErrValidation.Error())
	for i, field := range slices.Sorted(maps.Keys(e.Fields)) {
		if i == 0 {
			b.WriteString(": ")
		} else {
			b.WriteString("; ")
		}
		b.WriteString(field + ": " + e.Fields[field])
	}
	return b.String()
}

func (e *ValidationError) Unwrap() error {
	return ErrValidation
}

// FieldErrors accumulates validation failures. The zero value is ready to
// use.
type FieldErrors struct {
	fields map[string]string
}

// Add records msg for field. A later message for the same field wins.
func (f *FieldErrors) Add(field, msg string) {
	if f.fields == nil {
		f.fields = make(map[string]string)
	}
	f.fields[field] = msg
}

// Err returns a *ValidationError holding every recorded field, or nil when
// nothing was recorded.
func (f *FieldErrors) Err() error {
	if len(f.fields) == 0 {
		return nil
	}
	return &ValidationError{Fields: maps.Clone(f.fields)}
}
