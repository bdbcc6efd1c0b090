package application

import (
	"errors"
	"fmt"
	"strings"

	"github.com/sirupsen/logrus"

	repo "github.com/oksasatya/sneakerhub-api/internal/domain/repository"
)

const (
	DefaultPageLimit = 10
	MaxPageLimit     = 100
)

// Page is one page of a listing together with the unpaged total.
type Page[T any] struct {
	Items []T
	Total int64
	Page  int
	Limit int
}

// normalizeQuery clamps page and limit into accepted bounds.
func normalizeQuery(q repo.ListQuery) repo.ListQuery {
	if q.Page < 1 {
		q.Page = 1
	}
	if q.Limit < 1 {
		q.Limit = DefaultPageLimit
	}
	if q.Limit > MaxPageLimit {
		q.Limit = MaxPageLimit
	}
	return q
}

// mapRepoError turns repository sentinels into application errors and logs anything unexpected.
func mapRepoError(logger *logrus.Logger, op string, err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, repo.ErrNotFound):
		return ErrNotFound
	case errors.Is(err, repo.ErrDuplicate):
		if strings.Contains(err.Error(), "slug") {
			return fmt.Errorf("%w: slug already in use", ErrConflict)
		}
		return ErrConflict
	case errors.Is(err, repo.ErrInvalidReference):
		return ErrInvalidReference
	case errors.Is(err, repo.ErrInUse):
		return fmt.Errorf("%w: still referenced by other records", ErrConflict)
	}
	logger.WithError(err).WithField("op", op).Error("catalog store failure")
	return fmt.Errorf("%w: %s", ErrStorageUnavailable, op)
}
