package postgres

import (
	"context"
	"fmt"

	"pxc/pkg/logger"
)

// schema creates the issued-number tables. Both tables keep number and
// (period_key, sequence) unique; the issuer relies on either violation
// to detect a lost allocation race.
var schema = []string{
	`CREATE TABLE IF NOT EXISTS orders (
		id          UUID PRIMARY KEY,
		number      TEXT NOT NULL,
		period_key  TEXT NOT NULL,
		sequence    BIGINT NOT NULL CHECK (sequence > 0),
		full_name   TEXT NOT NULL,
		phone       TEXT NOT NULL,
		total       NUMERIC(14, 2) NOT NULL DEFAULT 0,
		created_at  TIMESTAMPTZ NOT NULL DEFAULT now(),
		CONSTRAINT orders_number_key UNIQUE (number),
		CONSTRAINT orders_period_key_sequence_key UNIQUE (period_key, sequence)
	)`,
	`CREATE TABLE IF NOT EXISTS customers (
		id          UUID PRIMARY KEY,
		number      TEXT NOT NULL,
		period_key  TEXT NOT NULL,
		sequence    BIGINT NOT NULL CHECK (sequence > 0),
		full_name   TEXT NOT NULL,
		phone       TEXT NOT NULL DEFAULT '',
		email       TEXT,
		created_at  TIMESTAMPTZ NOT NULL DEFAULT now(),
		CONSTRAINT customers_number_key UNIQUE (number),
		CONSTRAINT customers_period_key_sequence_key UNIQUE (period_key, sequence)
	)`,
	`CREATE INDEX IF NOT EXISTS orders_period_key_idx ON orders (period_key)`,
	`CREATE INDEX IF NOT EXISTS customers_period_key_idx ON customers (period_key)`,
}

// Migrate creates missing tables and indexes. Safe to run on every start.
func Migrate(ctx context.Context, txm *TxManager) error {
	return txm.RunInTransaction(ctx, func(ctx context.Context) error {
		q := txm.GetQuerier(ctx)
		for i, stmt := range schema {
			if _, err := q.Exec(ctx, stmt); err != nil {
				return fmt.Errorf("migrate step %d: %w", i, err)
			}
		}
		logger.Info(ctx, "schema up to date", "statements", len(schema))
		return nil
	})
}
