// Package tx provides transaction management abstractions.
// Domain services depend on these interfaces, not on a specific database.
package tx

import (
	"context"
)

// Manager defines the contract for transaction management.
//
// The issuing services rely on it to keep read-pool -> allocate -> persist
// atomic: the pool read and the insert of the new identifier share one
// transaction, and a failed insert rolls the whole attempt back.
type Manager interface {
	// RunInTransaction executes fn within a transaction.
	// If fn returns an error, the transaction is rolled back.
	// If fn succeeds, the transaction is committed.
	//
	// Nested calls reuse the existing transaction from context.
	RunInTransaction(ctx context.Context, fn func(ctx context.Context) error) error
}

// Locker serializes allocations that share a period key.
//
// Lock blocks until the caller owns key or ctx is done. The returned release
// func must be called exactly once; lockers bound to a transaction may release
// on commit/rollback and return a no-op.
type Locker interface {
	Lock(ctx context.Context, key string) (release func(), err error)
}
