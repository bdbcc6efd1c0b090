package repository

import (
	"context"
	"math"

	"github.com/oksasatya/sneakerhub-api/internal/domain/entity"
)

// ListQuery is a paginated, optionally filtered listing request.
type ListQuery struct {
	Page   int
	Limit  int
	Search string
}

// Offset returns the number of rows to skip for Page. It saturates at math.MaxInt
// instead of overflowing, which yields an empty page.
func (q ListQuery) Offset() int {
	if q.Page <= 1 || q.Limit <= 0 {
		return 0
	}
	if q.Page-1 > math.MaxInt/q.Limit {
		return math.MaxInt
	}
	return (q.Page - 1) * q.Limit
}

type BrandRepository interface {
	Create(ctx context.Context, b *entity.Brand) error
	GetByID(ctx context.Context, id string) (*entity.Brand, error)
	List(ctx context.Context, q ListQuery) ([]entity.Brand, int64, error)
	Update(ctx context.Context, b *entity.Brand) error
	Delete(ctx context.Context, id string) (*entity.Brand, error)
}

type CategoryRepository interface {
	Create(ctx context.Context, c *entity.Category) error
	GetByID(ctx context.Context, id string) (*entity.Category, error)
	List(ctx context.Context, q ListQuery) ([]entity.Category, int64, error)
	Update(ctx context.Context, c *entity.Category) error
	Delete(ctx context.Context, id string) (*entity.Category, error)
}

// SneakerFilter narrows sneaker listings. IDs, when set, restrict results to those rows (search hits).
type SneakerFilter struct {
	ListQuery
	BrandID    string
	CategoryID string
	IsReady    *bool
	IDs        []string
}

type SneakerRepository interface {
	Create(ctx context.Context, s *entity.Sneaker) error
	GetByID(ctx context.Context, id string) (*entity.Sneaker, error)
	GetBySlug(ctx context.Context, slug string) (*entity.Sneaker, error)
	List(ctx context.Context, f SneakerFilter) ([]entity.Sneaker, int64, error)
	Update(ctx context.Context, s *entity.Sneaker) error
	Delete(ctx context.Context, id string) (*entity.Sneaker, error)
}
