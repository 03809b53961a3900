package postgres

import (
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"

	"github.com/iho/sharefund/internal/domain"
)

const (
	pgErrDeadlock             = "40P01"
	pgErrSerializationFailure = "40001"
	pgErrForeignKeyViolation  = "23503"
)

// mapError translates PostgreSQL failures into domain errors.
func mapError(err error) error {
	if err == nil {
		return nil
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case pgErrDeadlock, pgErrSerializationFailure:
			return fmt.Errorf("%w: %s", domain.ErrTransientConflict, pgErr.Message)
		case pgErrForeignKeyViolation:
			return fmt.Errorf("%w: %s", domain.ErrProjectNotFound, pgErr.ConstraintName)
		}
	}

	return err
}
