package issue_repo_test

import (
	"context"
	"os"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pxc/internal/core/apperror"
	"pxc/internal/core/id"
	"pxc/internal/core/numerator"
	"pxc/internal/core/tx"
	"pxc/internal/domain"
	"pxc/internal/domain/orders"
	"pxc/internal/infrastructure/storage/postgres"
	"pxc/internal/infrastructure/storage/postgres/issue_repo"
)

// setupDB connects to TEST_DATABASE_URL or skips the test.
func setupDB(t *testing.T) *postgres.TxManager {
	t.Helper()
	dsn := os.Getenv("TEST_DATABASE_URL")
	if dsn == "" {
		t.Skip("TEST_DATABASE_URL not set")
	}
	ctx := context.Background()

	pool, err := postgres.NewPool(ctx, postgres.DefaultPoolConfig(dsn))
	require.NoError(t, err)
	t.Cleanup(pool.Close)

	txm := postgres.NewTxManager(pool)
	require.NoError(t, postgres.Migrate(ctx, txm))
	_, err = pool.Exec(ctx, "TRUNCATE orders, customers")
	require.NoError(t, err)
	return txm
}

func newOrderService(txm *postgres.TxManager, locker tx.Locker) *orders.Service {
	gen := numerator.New(numerator.WithClock(func() time.Time {
		return time.Date(2025, 6, 1, 4, 0, 0, 0, time.UTC)
	}))
	return orders.NewService(issue_repo.NewOrderRepo(txm), gen, domain.NewIssuer(domain.IssuerConfig{
		TxManager:   txm,
		Locker:      locker,
		MaxAttempts: 20,
		Backoff:     time.Millisecond,
		EntityName:  "order",
	}))
}

func TestOrderRepo_Postgres_CreateAndGet(t *testing.T) {
	txm := setupDB(t)
	repo := issue_repo.NewOrderRepo(txm)
	svc := newOrderService(txm, postgres.NewAdvisoryLocker(txm))
	ctx := context.Background()

	o, err := svc.Create(ctx, orders.CreateInput{FullName: "John Doe", Phone: "01700000999"})
	require.NoError(t, err)
	assert.Equal(t, "25060101JD999", o.Number)

	got, err := repo.GetByNumber(ctx, o.Number)
	require.NoError(t, err)
	assert.Equal(t, o.ID, got.ID)
	assert.True(t, o.Total.Equal(got.Total))

	_, err = repo.GetByNumber(ctx, "25060199ZZ000")
	assert.True(t, apperror.IsNotFound(err))

	// Same slot, different metadata.
	dup := *o
	dup.Number = "25060101AB123"
	err = repo.Create(ctx, &dup)
	assert.True(t, apperror.IsDuplicate(err))
}

func TestOrderRepo_Postgres_ReadOnly(t *testing.T) {
	txm := setupDB(t)
	repo := issue_repo.NewOrderRepo(txm)
	svc := newOrderService(txm, postgres.NewAdvisoryLocker(txm))
	ctx := context.Background()

	o, err := svc.Create(ctx, orders.CreateInput{FullName: "John Doe", Phone: "01700000999"})
	require.NoError(t, err)

	err = txm.ReadOnly(ctx, func(ctx context.Context) error {
		// Reads nest into the outer read-only transaction.
		if _, err := repo.GetByNumber(ctx, o.Number); err != nil {
			return err
		}
		next := *o
		next.ID = id.New()
		next.Number = "25060102JD999"
		next.Sequence = 2
		return repo.Create(ctx, &next)
	})
	require.Error(t, err)
	assert.True(t, apperror.HasCode(err, apperror.CodeDatabase))

	result, err := repo.List(ctx, domain.ListFilter{Prefix: "250601"})
	require.NoError(t, err)
	assert.Equal(t, int64(1), result.TotalCount)
	assert.Len(t, result.Items, 1)
}

func TestOrderRepo_Postgres_Concurrent(t *testing.T) {
	for _, tc := range []struct {
		name   string
		locker func(*postgres.TxManager) tx.Locker
	}{
		{"advisory lock", func(txm *postgres.TxManager) tx.Locker { return postgres.NewAdvisoryLocker(txm) }},
		{"constraint only", func(*postgres.TxManager) tx.Locker { return nil }},
	} {
		t.Run(tc.name, func(t *testing.T) {
			txm := setupDB(t)
			svc := newOrderService(txm, tc.locker(txm))
			ctx := context.Background()

			const n = 10
			var wg sync.WaitGroup
			for i := 0; i < n; i++ {
				wg.Add(1)
				go func() {
					defer wg.Done()
					_, err := svc.Create(ctx, orders.CreateInput{FullName: "John Doe", Phone: "01700000999"})
					assert.NoError(t, err)
				}()
			}
			wg.Wait()

			result, err := svc.List(ctx, domain.ListFilter{Prefix: "250601", Limit: 100})
			require.NoError(t, err)
			require.Len(t, result.Items, n)
			seen := map[int64]bool{}
			for _, o := range result.Items {
				assert.False(t, seen[o.Sequence], "sequence %d issued twice", o.Sequence)
				seen[o.Sequence] = true
			}
			for seq := int64(1); seq <= n; seq++ {
				assert.True(t, seen[seq], "sequence %d missing", seq)
			}
		})
	}
}
