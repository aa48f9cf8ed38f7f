package dbx

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/mahaztechenterprise/lunar-auth-provider/internal/common"
)

// Postgres SQLSTATE codes we translate.
const (
	pgUniqueViolation     = "23505"
	pgForeignKeyViolation = "23503"
)

// WrapError translates a driver error into the repository error set:
// sql.ErrNoRows becomes common.ErrorNotFound, unique violations
// common.ErrAlreadyExists, foreign key violations common.ErrConstraint.
// Everything else is wrapped as "db error". A nil err stays nil.
func WrapError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, sql.ErrNoRows) {
		return common.ErrorNotFound
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case pgUniqueViolation:
			return fmt.Errorf("%w: %s", common.ErrAlreadyExists, pgErr.ConstraintName)
		case pgForeignKeyViolation:
			return fmt.Errorf("%w: %s", common.ErrConstraint, pgErr.ConstraintName)
		}
	}
	return fmt.Errorf("db error: %w", err)
}
