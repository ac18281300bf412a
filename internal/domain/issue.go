package domain

import (
	"context"
	"time"

	"pxc/internal/core/apperror"
	"pxc/internal/core/tx"
	"pxc/pkg/logger"
)

// IssuerConfig configures an Issuer.
type IssuerConfig struct {
	// TxManager wraps each attempt in a transaction
	TxManager tx.Manager

	// Locker serializes attempts per period key. Nil disables locking;
	// the store's uniqueness constraint still catches collisions.
	Locker tx.Locker

	// MaxAttempts bounds retries after a uniqueness violation (default 5)
	MaxAttempts int

	// Backoff is multiplied by the attempt number between retries (default 10ms)
	Backoff time.Duration

	// EntityName for lock names, logs and error messages
	EntityName string
}

// Issuer runs the read-pool -> allocate -> persist cycle for one entity kind.
//
// Each attempt runs in its own transaction while holding the period lock.
// A DUPLICATE_ENTRY from persistence means another writer won the race with
// the same snapshot: the attempt is rolled back and repeated with a fresh
// read. Any other error is returned as is.
type Issuer struct {
	cfg IssuerConfig
}

// NewIssuer creates an Issuer.
func NewIssuer(cfg IssuerConfig) *Issuer {
	if cfg.MaxAttempts <= 0 {
		cfg.MaxAttempts = 5
	}
	if cfg.Backoff < 0 {
		cfg.Backoff = 0
	} else if cfg.Backoff == 0 {
		cfg.Backoff = 10 * time.Millisecond
	}
	return &Issuer{cfg: cfg}
}

// Issue repeats attempt until it persists or fails for a reason other than a
// uniqueness violation. periodKey is re-evaluated per attempt so a retry that
// crosses midnight locks and reads the new period.
func (i *Issuer) Issue(
	ctx context.Context,
	periodKey func() string,
	attempt func(ctx context.Context, periodKey string) error,
) error {
	var lastErr error
	for n := 1; n <= i.cfg.MaxAttempts; n++ {
		key := periodKey()
		err := i.runAttempt(ctx, key, attempt)
		if err == nil {
			if n > 1 {
				logger.Info(ctx, "identifier issued after retry",
					"entity", i.cfg.EntityName, "period", key, "attempt", n)
			}
			return nil
		}
		if !apperror.IsDuplicate(err) {
			return err
		}

		lastErr = err
		logger.Warn(ctx, "identifier collision, retrying with fresh snapshot",
			"entity", i.cfg.EntityName, "period", key, "attempt", n, "error", err)

		if n == i.cfg.MaxAttempts {
			break
		}
		if err := sleep(ctx, i.cfg.Backoff*time.Duration(n)); err != nil {
			return err
		}
	}

	return apperror.NewConflict("could not allocate a unique "+i.cfg.EntityName+" number").
		WithDetail("entity", i.cfg.EntityName).
		WithDetail("attempts", i.cfg.MaxAttempts).
		WithCause(lastErr)
}

func (i *Issuer) runAttempt(ctx context.Context, key string, attempt func(ctx context.Context, periodKey string) error) error {
	release := func() {}
	err := i.cfg.TxManager.RunInTransaction(ctx, func(ctx context.Context) error {
		if i.cfg.Locker != nil {
			r, err := i.cfg.Locker.Lock(ctx, i.cfg.EntityName+":"+key)
			if err != nil {
				return err
			}
			release = r
		}
		return attempt(ctx, key)
	})
	// Released after commit so the next writer sees this attempt's insert.
	release()
	return err
}

func sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
