// Package postgres provides PostgreSQL implementations of the store
// interfaces.
package postgres

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"

	"github.com/gratitudeapp/gratitude-api/internal/store"
)

// PostgreSQL error codes.
const (
	uniqueViolationCode     = "23505"
	foreignKeyViolationCode = "23503"
	notNullViolationCode    = "23502"
	checkViolationCode      = "23514"
)

// MapError maps a database error to the appropriate store sentinel,
// wrapping the original error to preserve context. Unique violations are
// further narrowed by constraint name so callers learn which field
// collided.
func MapError(err error) error {
	if err == nil {
		return nil
	}

	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("%w: %v", store.ErrNotFound, err)
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case uniqueViolationCode:
			return fmt.Errorf("%w: %v", uniqueSentinel(pgErr.ConstraintName), err)
		case foreignKeyViolationCode:
			return fmt.Errorf("%w: foreign key violation (%s): %v",
				store.ErrInvalidEntity, pgErr.ConstraintName, err)
		case notNullViolationCode:
			return fmt.Errorf("%w: not null violation (%s): %v",
				store.ErrInvalidEntity, pgErr.ColumnName, err)
		case checkViolationCode:
			return fmt.Errorf("%w: check constraint violation (%s): %v",
				store.ErrInvalidEntity, pgErr.ConstraintName, err)
		}
	}

	return err
}

// uniqueSentinel picks the field-specific duplicate sentinel for a unique
// constraint name, falling back to the generic ErrDuplicate.
func uniqueSentinel(constraint string) error {
	switch {
	case strings.Contains(constraint, "username"):
		return store.ErrUsernameExists
	case strings.Contains(constraint, "email"):
		return store.ErrEmailExists
	case strings.Contains(constraint, "title"):
		return store.ErrTitleExists
	default:
		return store.ErrDuplicate
	}
}

// IsUniqueViolation reports whether err is a unique constraint violation.
func IsUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == uniqueViolationCode
}

// IsForeignKeyViolation reports whether err is a foreign key violation.
func IsForeignKeyViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == foreignKeyViolationCode
}
