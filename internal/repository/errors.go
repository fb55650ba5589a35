package repository

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/lib/pq"
)

// ErrUniqueViolation reports that an insert or update collided with a unique
// constraint. Callers translate it into a domain conflict.
var ErrUniqueViolation = errors.New("unique constraint violation")

const pqUniqueViolation = "23505"

// wrap annotates driver errors with the failing operation. sql.ErrNoRows is
// returned untouched so callers can compare it directly.
func wrap(op string, err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, sql.ErrNoRows) {
		return err
	}
	var pqErr *pq.Error
	if errors.As(err, &pqErr) && string(pqErr.Code) == pqUniqueViolation {
		return fmt.Errorf("%s: %w (%s)", op, ErrUniqueViolation, pqErr.Constraint)
	}
	return fmt.Errorf("%s: %w", op, err)
}
