// Package id provides UUIDv7 row identifiers for stored records.
// These are storage keys; the human-readable numbers come from package numerator.
package id

import (
	"github.com/google/uuid"
)

// ID is a type alias for UUID, used as primary key of orders and customers.
type ID = uuid.UUID

// New generates a new UUIDv7 (time-ordered UUID).
// Time ordering keeps B-tree inserts local in PostgreSQL.
func New() ID {
	id, err := uuid.NewV7()
	if err != nil {
		// Fallback to V4 if V7 fails (should never happen)
		return uuid.New()
	}
	return id
}

// Parse converts string to ID with validation.
func Parse(s string) (ID, error) {
	return uuid.Parse(s)
}

// IsNil checks if ID is zero-value.
func IsNil(id ID) bool {
	return id == uuid.Nil
}
