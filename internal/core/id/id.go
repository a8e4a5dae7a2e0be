// Package id provides UUIDv7 generation for invoices, positions and cost objects.
// UUIDv7 is time-ordered, so ids sort in creation order.
package id

import (
	"github.com/google/uuid"
)

// ID is the identifier type used by persisted entities.
type ID = uuid.UUID

// New generates a new UUIDv7.
func New() ID {
	v, err := uuid.NewV7()
	if err != nil {
		// V7 only fails when the random source does
		return uuid.New()
	}
	return v
}

// NewString returns a fresh id in canonical text form.
// Draft positions use text ids because they never reach storage as keys.
func NewString() string {
	return New().String()
}

// Parse converts string to ID with validation.
func Parse(s string) (ID, error) {
	return uuid.Parse(s)
}

// MustParse converts string to ID, panics on error.
// Use only for constants and tests.
func MustParse(s string) ID {
	return uuid.MustParse(s)
}

// Nil returns zero-value UUID.
func Nil() ID {
	return uuid.Nil
}

// IsNil checks if ID is zero-value.
func IsNil(v ID) bool {
	return v == uuid.Nil
}
