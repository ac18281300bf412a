package postgres

import (
	"errors"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"

	"pxc/internal/core/apperror"
)

// PostgreSQL error codes the repositories translate.
const (
	pgUniqueViolation     = "23505"
	pgForeignKeyViolation = "23503"
)

// MapError translates driver errors into application errors.
// A unique violation becomes CodeDuplicate so the issuer can retry the
// allocation; everything else is returned unchanged.
func MapError(err error, entity, value string) error {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return err
	}

	switch pgErr.Code {
	case pgUniqueViolation:
		return apperror.NewDuplicate(entity, constraintField(pgErr.ConstraintName), value).
			WithCause(err)
	case pgForeignKeyViolation:
		return apperror.NewConflict("referenced record does not exist").
			WithDetail("entity", entity).
			WithCause(err)
	}
	return err
}

// constraintField names the column behind a unique constraint.
// Constraints follow the default <table>_<columns>_key naming.
func constraintField(constraint string) string {
	switch {
	case strings.HasSuffix(constraint, "_sequence_key"):
		return "sequence"
	case strings.HasSuffix(constraint, "_number_key"):
		return "number"
	case strings.HasSuffix(constraint, "_pkey"):
		return "id"
	}
	return "number"
}
