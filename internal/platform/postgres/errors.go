package postgres

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/phrazzld/scry-match/internal/store"
)

// SQLSTATE codes the stores care about.
const (
	uniqueViolationCode     = "23505"
	foreignKeyViolationCode = "23503"
	checkViolationCode      = "23514"
	notNullViolationCode    = "23502"
)

// constraintViolations name the integrity errors that mean a rejected row.
var constraintViolations = map[string]string{
	foreignKeyViolationCode: "foreign key violation",
	checkViolationCode:      "check constraint violation",
	notNullViolationCode:    "not null violation",
}

// MapError translates driver errors into store sentinels, keeping the
// original error in the chain. Errors without a mapping are returned as is.
func MapError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("%w: %w", store.ErrNotFound, err)
	}

	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return err
	}
	if pgErr.Code == uniqueViolationCode {
		return fmt.Errorf("%w: %s: %w", store.ErrDuplicate, pgErr.ConstraintName, err)
	}
	if kind, ok := constraintViolations[pgErr.Code]; ok {
		target := pgErr.ConstraintName
		if pgErr.Code == notNullViolationCode {
			target = pgErr.ColumnName
		}
		return fmt.Errorf("%w: %s (%s): %w", store.ErrInvalidEntity, kind, target, err)
	}
	return err
}

// IsUniqueViolation reports whether err carries a unique constraint violation.
func IsUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == uniqueViolationCode
}
