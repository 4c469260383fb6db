package repository

import (
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"
)

// ErrStaleReference is returned when a contact write points at a company or
// department that was deleted after it was resolved.
var ErrStaleReference = errors.New("referenced organization no longer exists")

const pgForeignKeyViolation = "23503"

// mapWriteError wraps err with op and translates constraint violations into
// repository sentinels.
func mapWriteError(op string, err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == pgForeignKeyViolation {
		return fmt.Errorf("%s: %w (%s)", op, ErrStaleReference, pgErr.ConstraintName)
	}
	return fmt.Errorf("%s: %w", op, err)
}
