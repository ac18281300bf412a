// Package issue_repo provides PostgreSQL repositories for records keyed by
// an issued number.
package issue_repo

import (
	"context"
	"fmt"
	"strings"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"

	"pxc/internal/core/apperror"
	"pxc/internal/domain"
	"pxc/internal/infrastructure/storage/postgres"
)

// BaseRepo implements domain.NumberedRepository over one table.
// Embed it in entity repositories.
type BaseRepo[T any] struct {
	txm        *postgres.TxManager
	tableName  string
	entityName string
	selectCols []string
	newFn      func() T
}

// NewBaseRepo creates a new base repository. Columns come from the "db"
// tags of the entity type.
func NewBaseRepo[T any](txm *postgres.TxManager, tableName, entityName string, newFn func() T) *BaseRepo[T] {
	return &BaseRepo[T]{
		txm:        txm,
		tableName:  tableName,
		entityName: entityName,
		selectCols: postgres.ExtractDBColumns[T](),
		newFn:      newFn,
	}
}

// Builder returns a new squirrel builder with PostgreSQL placeholder format.
func (r *BaseRepo[T]) Builder() squirrel.StatementBuilderType {
	return squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
}

func (r *BaseRepo[T]) querier(ctx context.Context) postgres.Querier {
	return r.txm.GetQuerier(ctx)
}

// dbError marks a driver failure that has no domain meaning.
func dbError(op string, err error) error {
	return apperror.NewDatabase(fmt.Errorf("%s: %w", op, err))
}

// prefixPattern builds a LIKE pattern matching values that start with prefix.
func prefixPattern(prefix string) string {
	escaped := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(prefix)
	return escaped + "%"
}

func (r *BaseRepo[T]) numbersQuery(prefix string) squirrel.SelectBuilder {
	q := r.Builder().
		Select("number").
		From(r.tableName)
	if prefix != "" {
		q = q.Where(squirrel.Like{"number": prefixPattern(prefix)})
	}
	return q
}

// Numbers returns issued numbers starting with prefix.
func (r *BaseRepo[T]) Numbers(ctx context.Context, prefix string) ([]string, error) {
	sql, args, err := r.numbersQuery(prefix).ToSql()
	if err != nil {
		return nil, fmt.Errorf("build numbers query: %w", err)
	}

	var numbers []string
	if err := pgxscan.Select(ctx, r.querier(ctx), &numbers, sql, args...); err != nil {
		return nil, dbError("select "+r.tableName+" numbers", err)
	}
	return numbers, nil
}

func (r *BaseRepo[T]) insertQuery(entity T) (squirrel.InsertBuilder, string, error) {
	data := postgres.StructToMap(entity)
	if len(data) == 0 {
		return squirrel.InsertBuilder{}, "", fmt.Errorf("no db tags found in entity")
	}

	// Filter to only include columns that exist in DB
	filtered := make(map[string]any, len(r.selectCols))
	for _, col := range r.selectCols {
		if val, ok := data[col]; ok {
			filtered[col] = val
		}
	}
	number, _ := data["number"].(string)

	return r.Builder().Insert(r.tableName).SetMap(filtered), number, nil
}

// Create inserts a new entity. A unique violation is returned as
// apperror.CodeDuplicate.
func (r *BaseRepo[T]) Create(ctx context.Context, entity T) error {
	q, number, err := r.insertQuery(entity)
	if err != nil {
		return err
	}

	sql, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("build insert: %w", err)
	}

	if _, err := r.querier(ctx).Exec(ctx, sql, args...); err != nil {
		if mapped := postgres.MapError(err, r.entityName, number); mapped != err {
			return mapped
		}
		return dbError("insert "+r.tableName, err)
	}
	return nil
}

func (r *BaseRepo[T]) baseSelect() squirrel.SelectBuilder {
	return r.Builder().
		Select(r.selectCols...).
		From(r.tableName)
}

// GetByNumber retrieves entity by its issued number.
func (r *BaseRepo[T]) GetByNumber(ctx context.Context, number string) (T, error) {
	entity := r.newFn()

	sql, args, err := r.baseSelect().
		Where(squirrel.Eq{"number": number}).
		Limit(1).
		ToSql()
	if err != nil {
		return entity, fmt.Errorf("build query: %w", err)
	}

	err = r.txm.ReadOnly(ctx, func(ctx context.Context) error {
		if err := pgxscan.Get(ctx, r.querier(ctx), entity, sql, args...); err != nil {
			if pgxscan.NotFound(err) {
				return apperror.NewNotFound(r.entityName, number)
			}
			return dbError("get by number", err)
		}
		return nil
	})
	return entity, err
}

func (r *BaseRepo[T]) listQueries(filter domain.ListFilter) (count, page squirrel.SelectBuilder) {
	q := r.baseSelect()
	if filter.Prefix != "" {
		q = q.Where(squirrel.Like{"number": prefixPattern(filter.Prefix)})
	}

	count = r.Builder().
		Select("COUNT(*)").
		FromSelect(q, "sub")

	page = q.OrderBy("number")
	if filter.Limit > 0 {
		page = page.Limit(uint64(filter.Limit))
	}
	if filter.Offset > 0 {
		page = page.Offset(uint64(filter.Offset))
	}
	return count, page
}

// List retrieves entities ordered by number.
func (r *BaseRepo[T]) List(ctx context.Context, filter domain.ListFilter) (domain.ListResult[T], error) {
	result := domain.ListResult[T]{
		Items:  []T{},
		Limit:  filter.Limit,
		Offset: filter.Offset,
	}
	countQ, pageQ := r.listQueries(filter)

	countSQL, countArgs, err := countQ.ToSql()
	if err != nil {
		return result, fmt.Errorf("build count query: %w", err)
	}
	sql, args, err := pageQ.ToSql()
	if err != nil {
		return result, fmt.Errorf("build query: %w", err)
	}

	// Count and page share one snapshot.
	err = r.txm.ReadOnly(ctx, func(ctx context.Context) error {
		querier := r.querier(ctx)
		if err := querier.QueryRow(ctx, countSQL, countArgs...).Scan(&result.TotalCount); err != nil {
			return dbError("count", err)
		}
		if err := pgxscan.Select(ctx, querier, &result.Items, sql, args...); err != nil {
			return dbError("list", err)
		}
		return nil
	})
	return result, err
}
