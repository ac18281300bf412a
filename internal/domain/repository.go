// Package domain provides core business logic interfaces and types.
package domain

import (
	"context"
)

// --- Filter & Pagination ---

// ListFilter contains filtering options for list operations.
type ListFilter struct {
	// Prefix restricts results to numbers starting with it (usually a period key)
	Prefix string

	// Pagination
	Limit  int
	Offset int
}

// DefaultListFilter returns sensible defaults.
func DefaultListFilter() ListFilter {
	return ListFilter{Limit: 50}
}

// Normalize clamps pagination to sane bounds.
func (f ListFilter) Normalize() ListFilter {
	if f.Limit <= 0 || f.Limit > 500 {
		f.Limit = DefaultListFilter().Limit
	}
	if f.Offset < 0 {
		f.Offset = 0
	}
	return f
}

// ListResult contains paginated results.
type ListResult[T any] struct {
	Items      []T   `json:"items"`
	TotalCount int64 `json:"totalCount"`
	Limit      int   `json:"limit"`
	Offset     int   `json:"offset"`
}

// --- Repository Interfaces ---

// NumberedRepository persists records identified by an issued number.
//
// Implementations must reject a second record with the same number, or with
// the same (period key, sequence) pair, with apperror.CodeDuplicate. That
// constraint is what makes concurrent allocation from a stale snapshot safe.
type NumberedRepository[T any] interface {
	// Numbers returns the issued numbers starting with prefix: the pool snapshot.
	Numbers(ctx context.Context, prefix string) ([]string, error)

	// Create inserts entity.
	Create(ctx context.Context, entity T) error

	// GetByNumber retrieves entity by its issued number.
	GetByNumber(ctx context.Context, number string) (T, error)

	// List retrieves entities ordered by number.
	List(ctx context.Context, filter ListFilter) (ListResult[T], error)
}
