package postgres

import (
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/oksasatya/sneakerhub-api/internal/domain/repository"
)

const (
	pgUniqueViolation     = "23505"
	pgForeignKeyViolation = "23503"
	pgInvalidTextRepr     = "22P02"
)

// mapError translates driver errors into repository sentinels.
func mapError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, pgx.ErrNoRows) {
		return repository.ErrNotFound
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case pgUniqueViolation:
			return fmt.Errorf("%w: %s", repository.ErrDuplicate, pgErr.ConstraintName)
		case pgForeignKeyViolation:
			if strings.HasPrefix(pgErr.Message, "update or delete") {
				return fmt.Errorf("%w: %s", repository.ErrInUse, pgErr.ConstraintName)
			}
			return fmt.Errorf("%w: %s", repository.ErrInvalidReference, pgErr.ConstraintName)
		case pgInvalidTextRepr:
			// malformed uuid in a lookup
			return repository.ErrNotFound
		}
	}
	return err
}
