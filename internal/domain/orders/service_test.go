package orders_test

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pxc/internal/core/apperror"
	"pxc/internal/core/id"
	"pxc/internal/core/numerator"
	"pxc/internal/core/types"
	"pxc/internal/domain"
	"pxc/internal/domain/orders"
	"pxc/internal/infrastructure/storage/memory"
)

var june1 = time.Date(2025, 6, 1, 4, 0, 0, 0, time.UTC)

func newService(repo orders.Repository, locker *memory.Locker) *orders.Service {
	gen := numerator.New(numerator.WithClock(func() time.Time { return june1 }))
	cfg := domain.IssuerConfig{
		TxManager:   memory.TxManager{},
		MaxAttempts: 5,
		Backoff:     time.Microsecond,
		EntityName:  "order",
	}
	if locker != nil {
		cfg.Locker = locker
	}
	return orders.NewService(repo, gen, domain.NewIssuer(cfg))
}

func TestService_Create(t *testing.T) {
	svc := newService(memory.NewOrderRepo(), memory.NewLocker())
	ctx := context.Background()

	o, err := svc.Create(ctx, orders.CreateInput{FullName: " Jane   Doe ", Phone: "01812349999", Total: types.MustMoney("12.50")})
	require.NoError(t, err)
	assert.Equal(t, "25060101JD999", o.Number)
	assert.Equal(t, "250601", o.PeriodKey)
	assert.Equal(t, int64(1), o.Sequence)
	assert.Equal(t, "Jane Doe", o.FullName)
	assert.False(t, id.IsNil(o.ID))

	o, err = svc.Create(ctx, orders.CreateInput{FullName: "Madonna", Phone: "01712345678"})
	require.NoError(t, err)
	assert.Equal(t, "25060102MX678", o.Number)

	got, err := svc.GetByNumber(ctx, "25060102MX678")
	require.NoError(t, err)
	assert.Equal(t, o.ID, got.ID)
}

func TestService_Create_InvalidInput(t *testing.T) {
	repo := memory.NewOrderRepo()
	svc := newService(repo, nil)
	ctx := context.Background()

	_, err := svc.Create(ctx, orders.CreateInput{FullName: "  ", Phone: "01812349999"})
	assert.True(t, apperror.IsInvalidInput(err))

	_, err = svc.Create(ctx, orders.CreateInput{FullName: "Jane Doe", Phone: "99"})
	assert.True(t, apperror.IsInvalidInput(err))

	_, err = svc.Create(ctx, orders.CreateInput{FullName: "Jane Doe", Phone: "999", Total: types.MustMoney("-1")})
	appErr, ok := apperror.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, apperror.CodeValidation, appErr.Code)

	numbers, err := repo.Numbers(ctx, "")
	require.NoError(t, err)
	assert.Empty(t, numbers, "no partial issuance")
}

func TestService_GetByNumber_NotFound(t *testing.T) {
	svc := newService(memory.NewOrderRepo(), nil)
	_, err := svc.GetByNumber(context.Background(), "25060101JD999")
	assert.True(t, apperror.IsNotFound(err))
}

func TestService_Create_Parallel(t *testing.T) {
	repo := memory.NewOrderRepo()
	svc := newService(repo, memory.NewLocker())
	ctx := context.Background()

	const n = 30
	var wg sync.WaitGroup
	numbers := make(chan string, n)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			o, err := svc.Create(ctx, orders.CreateInput{FullName: "Jane Doe", Phone: "01812349999"})
			if assert.NoError(t, err) {
				numbers <- o.Number
			}
		}()
	}
	wg.Wait()
	close(numbers)

	seen := map[string]bool{}
	for num := range numbers {
		assert.False(t, seen[num], "duplicate %s", num)
		seen[num] = true
	}
	assert.Len(t, seen, n)
	assert.True(t, seen["25060130JD999"])
}

// staleSnapshotRepo holds the first two pool reads until both callers have
// read, so both allocate from the same stale snapshot.
type staleSnapshotRepo struct {
	orders.Repository

	barrier    sync.WaitGroup
	mu         sync.Mutex
	reads      int
	duplicates atomic.Int32
}

func newStaleSnapshotRepo() *staleSnapshotRepo {
	r := &staleSnapshotRepo{Repository: memory.NewOrderRepo()}
	r.barrier.Add(2)
	return r
}

func (r *staleSnapshotRepo) Numbers(ctx context.Context, prefix string) ([]string, error) {
	numbers, err := r.Repository.Numbers(ctx, prefix)

	r.mu.Lock()
	r.reads++
	held := r.reads <= 2
	r.mu.Unlock()

	if held {
		r.barrier.Done()
		r.barrier.Wait()
	}
	return numbers, err
}

func (r *staleSnapshotRepo) Create(ctx context.Context, o *orders.Order) error {
	err := r.Repository.Create(ctx, o)
	if apperror.IsDuplicate(err) {
		r.duplicates.Add(1)
	}
	return err
}

func TestService_Create_StaleSnapshotRejectedAtPersistence(t *testing.T) {
	repo := newStaleSnapshotRepo()
	// No locker: the race must be caught by the store, not the allocator.
	svc := newService(repo, nil)
	ctx := context.Background()

	inputs := []orders.CreateInput{
		{FullName: "Jane Doe", Phone: "01812349999"},
		{FullName: "John Roe", Phone: "01700000111"},
	}
	results := make([]*orders.Order, len(inputs))
	var wg sync.WaitGroup
	for i, in := range inputs {
		wg.Add(1)
		go func(i int, in orders.CreateInput) {
			defer wg.Done()
			o, err := svc.Create(ctx, in)
			assert.NoError(t, err)
			results[i] = o
		}(i, in)
	}
	wg.Wait()
	require.NotNil(t, results[0])
	require.NotNil(t, results[1])

	assert.Equal(t, int32(1), repo.duplicates.Load(), "second persist must hit the uniqueness constraint")
	assert.Equal(t, 3, repo.reads, "loser retries with a fresh snapshot")

	seqs := []int64{results[0].Sequence, results[1].Sequence}
	assert.ElementsMatch(t, []int64{1, 2}, seqs)
	assert.NotEqual(t, results[0].Number, results[1].Number)
}

func TestService_Create_WidensPast99(t *testing.T) {
	repo := memory.NewOrderRepo()
	ctx := context.Background()
	require.NoError(t, repo.Create(ctx, &orders.Order{Number: "25060199AB111", PeriodKey: "250601", Sequence: 99}))

	svc := newService(repo, nil)
	o, err := svc.Create(ctx, orders.CreateInput{FullName: "Jane Doe", Phone: "01812349999"})
	require.NoError(t, err)
	assert.Equal(t, "250601100JD999", o.Number)

	o, err = svc.Create(ctx, orders.CreateInput{FullName: "Jane Doe", Phone: "01812349999"})
	require.NoError(t, err)
	assert.Equal(t, "250601101JD999", o.Number)
}

func TestService_Create_CorruptPoolNotRetried(t *testing.T) {
	repo := memory.NewOrderRepo()
	ctx := context.Background()
	require.NoError(t, repo.Create(ctx, &orders.Order{Number: "250601x1AB111", PeriodKey: "250601", Sequence: 0}))

	svc := newService(repo, nil)
	_, err := svc.Create(ctx, orders.CreateInput{FullName: "Jane Doe", Phone: "01812349999"})
	assert.True(t, apperror.IsCorruptPool(err))
}

func TestService_Create_PinnedGeneratorExhaustsRetries(t *testing.T) {
	repo := memory.NewOrderRepo()
	gen := &numerator.MockGenerator{
		PeriodKeyFunc: func(numerator.Kind) string { return "250601" },
		GenerateOrderIDFunc: func(existing []string, fullName, phone string) (string, error) {
			return "25060101JD999", nil
		},
	}
	svc := orders.NewService(repo, gen, domain.NewIssuer(domain.IssuerConfig{
		TxManager:   memory.TxManager{},
		MaxAttempts: 3,
		Backoff:     time.Microsecond,
		EntityName:  "order",
	}))
	ctx := context.Background()

	_, err := svc.Create(ctx, orders.CreateInput{FullName: "Jane Doe", Phone: "01812349999"})
	require.NoError(t, err)

	_, err = svc.Create(ctx, orders.CreateInput{FullName: "Jane Doe", Phone: "01812349999"})
	appErr, ok := apperror.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, apperror.CodeConflict, appErr.Code)
}

func TestService_List(t *testing.T) {
	svc := newService(memory.NewOrderRepo(), nil)
	ctx := context.Background()
	for i := 0; i < 3; i++ {
		_, err := svc.Create(ctx, orders.CreateInput{FullName: "Jane Doe", Phone: "01812349999"})
		require.NoError(t, err)
	}

	res, err := svc.List(ctx, domain.ListFilter{Prefix: "250601"})
	require.NoError(t, err)
	assert.Equal(t, int64(3), res.TotalCount)
	assert.Equal(t, 50, res.Limit)
	assert.Equal(t, "25060101JD999", res.Items[0].Number)
}
