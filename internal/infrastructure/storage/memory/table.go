// Package memory provides map-backed repositories, transaction manager and
// locker. It enforces the same uniqueness rules as the Postgres schema and
// backs local runs without a database as well as the concurrency tests.
package memory

import (
	"context"
	"sort"
	"strconv"
	"strings"
	"sync"

	"pxc/internal/core/apperror"
	"pxc/internal/domain"
)

// keyFunc extracts number, period key and sequence of a record.
type keyFunc[T any] func(T) (number, periodKey string, seq int64)

// table stores records of one kind with UNIQUE(number) and UNIQUE(period_key, sequence).
type table[T any] struct {
	entity string
	keys   keyFunc[T]

	mu       sync.RWMutex
	byNumber map[string]T
	bySeq    map[string]string
}

func newTable[T any](entity string, keys keyFunc[T]) *table[T] {
	return &table[T]{
		entity:   entity,
		keys:     keys,
		byNumber: make(map[string]T),
		bySeq:    make(map[string]string),
	}
}

func seqKey(periodKey string, seq int64) string {
	return periodKey + "/" + strconv.FormatInt(seq, 10)
}

func (t *table[T]) Numbers(ctx context.Context, prefix string) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	t.mu.RLock()
	defer t.mu.RUnlock()

	out := make([]string, 0, len(t.byNumber))
	for number := range t.byNumber {
		if strings.HasPrefix(number, prefix) {
			out = append(out, number)
		}
	}
	return out, nil
}

func (t *table[T]) Create(ctx context.Context, rec T) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	number, periodKey, seq := t.keys(rec)

	t.mu.Lock()
	defer t.mu.Unlock()

	if _, exists := t.byNumber[number]; exists {
		return apperror.NewDuplicate(t.entity, "number", number)
	}
	sk := seqKey(periodKey, seq)
	if _, exists := t.bySeq[sk]; exists {
		return apperror.NewDuplicate(t.entity, "sequence", sk)
	}
	t.byNumber[number] = rec
	t.bySeq[sk] = number
	return nil
}

func (t *table[T]) GetByNumber(ctx context.Context, number string) (T, error) {
	var zero T
	if err := ctx.Err(); err != nil {
		return zero, err
	}
	t.mu.RLock()
	defer t.mu.RUnlock()

	rec, ok := t.byNumber[number]
	if !ok {
		return zero, apperror.NewNotFound(t.entity, number)
	}
	return rec, nil
}

func (t *table[T]) List(ctx context.Context, filter domain.ListFilter) (domain.ListResult[T], error) {
	filter = filter.Normalize()
	numbers, err := t.Numbers(ctx, filter.Prefix)
	if err != nil {
		return domain.ListResult[T]{}, err
	}
	sort.Strings(numbers)

	result := domain.ListResult[T]{
		Items:      []T{},
		TotalCount: int64(len(numbers)),
		Limit:      filter.Limit,
		Offset:     filter.Offset,
	}
	if filter.Offset >= len(numbers) {
		return result, nil
	}
	end := min(filter.Offset+filter.Limit, len(numbers))

	t.mu.RLock()
	defer t.mu.RUnlock()
	for _, number := range numbers[filter.Offset:end] {
		if rec, ok := t.byNumber[number]; ok {
			result.Items = append(result.Items, rec)
		}
	}
	return result, nil
}
