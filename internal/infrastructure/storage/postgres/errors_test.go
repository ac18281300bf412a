package postgres

import (
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"

	"pxc/internal/core/apperror"
)

func TestMapError_UniqueViolation(t *testing.T) {
	tests := []struct {
		constraint string
		wantField  string
	}{
		{"orders_number_key", "number"},
		{"orders_period_key_sequence_key", "sequence"},
		{"customers_pkey", "id"},
	}

	for _, tt := range tests {
		t.Run(tt.constraint, func(t *testing.T) {
			pgErr := &pgconn.PgError{Code: pgUniqueViolation, ConstraintName: tt.constraint}
			err := MapError(fmt.Errorf("exec: %w", pgErr), "order", "25060101MX678")

			assert.True(t, apperror.IsDuplicate(err))
			appErr, ok := apperror.AsAppError(err)
			if assert.True(t, ok) {
				assert.Equal(t, tt.wantField, appErr.Details["field"])
				assert.Equal(t, "25060101MX678", appErr.Details["value"])
			}
			assert.True(t, errors.Is(err, pgErr))
		})
	}
}

func TestMapError_Passthrough(t *testing.T) {
	plain := errors.New("connection reset")
	assert.Same(t, plain, MapError(plain, "order", "x"))

	other := &pgconn.PgError{Code: "40001"}
	assert.Equal(t, error(other), MapError(other, "order", "x"))
}

func TestMapError_ForeignKey(t *testing.T) {
	err := MapError(&pgconn.PgError{Code: pgForeignKeyViolation}, "order", "x")
	assert.Equal(t, apperror.CodeConflict, err.(*apperror.AppError).Code)
}
