package postgres

import (
	"context"
	"strconv"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/oksasatya/sneakerhub-api/internal/domain/entity"
	"github.com/oksasatya/sneakerhub-api/internal/domain/repository"
)

const sneakerColumns = `id::text, name, description, price, image, is_ready, brand_id::text, category_id::text,
	slug, created_by::text, created_at, updated_at`

type SneakerRepository struct {
	pool *pgxpool.Pool
}

func NewSneakerRepository(pool *pgxpool.Pool) *SneakerRepository {
	return &SneakerRepository{pool: pool}
}

func scanSneaker(row pgx.Row) (*entity.Sneaker, error) {
	s := &entity.Sneaker{}
	if err := row.Scan(&s.ID, &s.Name, &s.Description, &s.Price, &s.Image, &s.IsReady, &s.BrandID, &s.CategoryID,
		&s.Slug, &s.CreatedBy, &s.CreatedAt, &s.UpdatedAt); err != nil {
		return nil, mapError(err)
	}
	return s, nil
}

func (r *SneakerRepository) Create(ctx context.Context, s *entity.Sneaker) error {
	row := r.pool.QueryRow(ctx, `
		INSERT INTO sneakers (name, description, price, image, is_ready, brand_id, category_id, slug, created_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING id::text, created_at, updated_at
	`, s.Name, s.Description, s.Price, s.Image, s.IsReady, s.BrandID, s.CategoryID, s.Slug, s.CreatedBy)
	return mapError(row.Scan(&s.ID, &s.CreatedAt, &s.UpdatedAt))
}

func (r *SneakerRepository) GetByID(ctx context.Context, id string) (*entity.Sneaker, error) {
	return scanSneaker(r.pool.QueryRow(ctx, `SELECT `+sneakerColumns+` FROM sneakers WHERE id = $1`, id))
}

func (r *SneakerRepository) GetBySlug(ctx context.Context, slug string) (*entity.Sneaker, error) {
	return scanSneaker(r.pool.QueryRow(ctx, `SELECT `+sneakerColumns+` FROM sneakers WHERE slug = $1`, slug))
}

func sneakerWhere(f repository.SneakerFilter) *whereBuilder {
	w := &whereBuilder{}
	if f.Search != "" {
		w.add(`name ILIKE ?`, "%"+escapeLike(f.Search)+"%")
	}
	if f.BrandID != "" {
		w.add(`brand_id::text = ?`, f.BrandID)
	}
	if f.CategoryID != "" {
		w.add(`category_id::text = ?`, f.CategoryID)
	}
	if f.IsReady != nil {
		w.add(`is_ready = ?`, *f.IsReady)
	}
	if f.IDs != nil {
		w.add(`id::text = ANY(?)`, f.IDs)
	}
	return w
}

// sneakerOrder keeps search hits in the order the index ranked them; plain listings are newest first.
// The id set is always the last argument sneakerWhere adds.
func sneakerOrder(f repository.SneakerFilter, w *whereBuilder) string {
	if f.IDs != nil {
		return ` ORDER BY array_position($` + strconv.Itoa(len(w.args)) + `::text[], id::text), id `
	}
	return ` ORDER BY created_at DESC, id `
}

func (r *SneakerRepository) List(ctx context.Context, f repository.SneakerFilter) ([]entity.Sneaker, int64, error) {
	w := sneakerWhere(f)
	where := w.String()

	var total int64
	if err := r.pool.QueryRow(ctx, `SELECT count(*) FROM sneakers`+where, w.args...).Scan(&total); err != nil {
		return nil, 0, mapError(err)
	}

	args := append(append([]any{}, w.args...), f.Limit, f.Offset())
	rows, err := r.pool.Query(ctx, `SELECT `+sneakerColumns+` FROM sneakers`+where+
		sneakerOrder(f, w)+pageClause(len(w.args)), args...)
	if err != nil {
		return nil, 0, mapError(err)
	}
	defer rows.Close()

	items := make([]entity.Sneaker, 0, f.Limit)
	for rows.Next() {
		s, err := scanSneaker(rows)
		if err != nil {
			return nil, 0, err
		}
		items = append(items, *s)
	}
	return items, total, mapError(rows.Err())
}

func (r *SneakerRepository) Update(ctx context.Context, s *entity.Sneaker) error {
	row := r.pool.QueryRow(ctx, `
		UPDATE sneakers
		SET name = $2, description = $3, price = $4, image = $5, is_ready = $6,
			brand_id = $7, category_id = $8, slug = $9, updated_at = now()
		WHERE id = $1
		RETURNING updated_at
	`, s.ID, s.Name, s.Description, s.Price, s.Image, s.IsReady, s.BrandID, s.CategoryID, s.Slug)
	return mapError(row.Scan(&s.UpdatedAt))
}

func (r *SneakerRepository) Delete(ctx context.Context, id string) (*entity.Sneaker, error) {
	return scanSneaker(r.pool.QueryRow(ctx, `DELETE FROM sneakers WHERE id = $1 RETURNING `+sneakerColumns, id))
}

var _ repository.SneakerRepository = (*SneakerRepository)(nil)
