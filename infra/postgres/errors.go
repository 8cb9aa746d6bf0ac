package postgres

import (
	"database/sql"
	"errors"
	"fmt"
	"storefront/domain"

	"github.com/lib/pq"
)

const (
	uniqueViolation           = "23505"
	foreignKeyViolation       = "23503"
	invalidTextRepresentation = "22P02"
)

// translate maps driver errors onto domain sentinels. A malformed uuid can
// never match a row, so it reads as not found.
func translate(op string, err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("%s: %w", op, domain.ErrNotFound)
	}

	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		switch pqErr.Code {
		case uniqueViolation:
			return fmt.Errorf("%s: %w: %s", op, domain.ErrConflict, pqErr.Constraint)
		case foreignKeyViolation:
			return fmt.Errorf("%s: %w: %s", op, domain.ErrInvalidReference, pqErr.Constraint)
		case invalidTextRepresentation:
			return fmt.Errorf("%s: %w", op, domain.ErrNotFound)
		}
	}

	return fmt.Errorf("%s: %w", op, err)
}

// isForeignKeyViolation reports whether a delete was blocked by rows that
// still reference the target.
func isForeignKeyViolation(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == foreignKeyViolation
}
