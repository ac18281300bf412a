package postgres

import (
	"context"
	"errors"
	"fmt"

	"pxc/internal/core/tx"
)

var _ tx.Locker = (*AdvisoryLocker)(nil)

// ErrNoTransaction is returned when a transaction-scoped lock is requested
// outside RunInTransaction.
var ErrNoTransaction = errors.New("advisory lock requires an active transaction")

// AdvisoryLocker serializes issuers with pg_advisory_xact_lock.
//
// The lock belongs to the transaction in ctx and is released by PostgreSQL
// on commit or rollback, so the returned release func does nothing.
type AdvisoryLocker struct {
	txm *TxManager
}

// NewAdvisoryLocker creates a locker bound to txm's transactions.
func NewAdvisoryLocker(txm *TxManager) *AdvisoryLocker {
	return &AdvisoryLocker{txm: txm}
}

// Lock implements tx.Locker.
func (l *AdvisoryLocker) Lock(ctx context.Context, key string) (func(), error) {
	t := l.txm.GetTx(ctx)
	if t == nil {
		return nil, ErrNoTransaction
	}
	if _, err := t.Exec(ctx, "SELECT pg_advisory_xact_lock(hashtext($1))", key); err != nil {
		return nil, fmt.Errorf("advisory lock %q: %w", key, err)
	}
	return func() {}, nil
}
