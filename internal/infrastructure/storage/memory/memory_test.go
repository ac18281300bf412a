package memory

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pxc/internal/core/apperror"
	"pxc/internal/domain"
	"pxc/internal/domain/orders"
)

func order(number, period string, seq int64) *orders.Order {
	return &orders.Order{Number: number, PeriodKey: period, Sequence: seq}
}

func TestOrderRepo_UniqueNumber(t *testing.T) {
	repo := NewOrderRepo()
	ctx := context.Background()

	require.NoError(t, repo.Create(ctx, order("25060101JD999", "250601", 1)))

	err := repo.Create(ctx, order("25060101JD999", "250601", 1))
	assert.True(t, apperror.IsDuplicate(err))
}

func TestOrderRepo_UniqueSequenceAcrossMetadata(t *testing.T) {
	repo := NewOrderRepo()
	ctx := context.Background()

	require.NoError(t, repo.Create(ctx, order("25060101JD999", "250601", 1)))

	// Same slot, different initials: still a collision.
	err := repo.Create(ctx, order("25060101AB123", "250601", 1))
	assert.True(t, apperror.IsDuplicate(err))

	require.NoError(t, repo.Create(ctx, order("25060201AB123", "250602", 1)))
}

func TestOrderRepo_NumbersAndList(t *testing.T) {
	repo := NewOrderRepo()
	ctx := context.Background()
	for i, n := range []string{"25060102JD999", "25060101JD999", "25053101JD999"} {
		require.NoError(t, repo.Create(ctx, order(n, n[:6], int64(i+1))))
	}

	numbers, err := repo.Numbers(ctx, "250601")
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"25060101JD999", "25060102JD999"}, numbers)

	res, err := repo.List(ctx, domain.ListFilter{Prefix: "250601", Limit: 1, Offset: 1})
	require.NoError(t, err)
	assert.Equal(t, int64(2), res.TotalCount)
	require.Len(t, res.Items, 1)
	assert.Equal(t, "25060102JD999", res.Items[0].Number)

	res, err = repo.List(ctx, domain.ListFilter{Offset: 10})
	require.NoError(t, err)
	assert.Empty(t, res.Items)
}

func TestOrderRepo_GetByNumber(t *testing.T) {
	repo := NewOrderRepo()
	ctx := context.Background()

	_, err := repo.GetByNumber(ctx, "nope")
	assert.True(t, apperror.IsNotFound(err))
}

func TestLocker_SerializesSameKey(t *testing.T) {
	l := NewLocker()
	ctx := context.Background()

	var inside, maxInside atomic.Int32
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			release, err := l.Lock(ctx, "order:250601")
			if !assert.NoError(t, err) {
				return
			}
			n := inside.Add(1)
			for {
				m := maxInside.Load()
				if n <= m || maxInside.CompareAndSwap(m, n) {
					break
				}
			}
			time.Sleep(time.Millisecond)
			inside.Add(-1)
			release()
		}()
	}
	wg.Wait()

	assert.Equal(t, int32(1), maxInside.Load())
	assert.Empty(t, l.locks)
}

func TestLocker_ContextCancel(t *testing.T) {
	l := NewLocker()
	release, err := l.Lock(context.Background(), "k")
	require.NoError(t, err)
	defer release()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()
	_, err = l.Lock(ctx, "k")
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}
