package postgres

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/oksasatya/sneakerhub-api/internal/domain/entity"
	"github.com/oksasatya/sneakerhub-api/internal/domain/repository"
)

const brandColumns = `id::text, name, icon, created_at, updated_at`

type BrandRepository struct {
	pool *pgxpool.Pool
}

func NewBrandRepository(pool *pgxpool.Pool) *BrandRepository {
	return &BrandRepository{pool: pool}
}

func scanBrand(row pgx.Row) (*entity.Brand, error) {
	b := &entity.Brand{}
	if err := row.Scan(&b.ID, &b.Name, &b.Icon, &b.CreatedAt, &b.UpdatedAt); err != nil {
		return nil, mapError(err)
	}
	return b, nil
}

func (r *BrandRepository) Create(ctx context.Context, b *entity.Brand) error {
	row := r.pool.QueryRow(ctx, `
		INSERT INTO brands (name, icon) VALUES ($1, $2)
		RETURNING id::text, created_at, updated_at
	`, b.Name, b.Icon)
	return mapError(row.Scan(&b.ID, &b.CreatedAt, &b.UpdatedAt))
}

func (r *BrandRepository) GetByID(ctx context.Context, id string) (*entity.Brand, error) {
	return scanBrand(r.pool.QueryRow(ctx, `SELECT `+brandColumns+` FROM brands WHERE id = $1`, id))
}

func (r *BrandRepository) List(ctx context.Context, q repository.ListQuery) ([]entity.Brand, int64, error) {
	where, args := nameSearch(q.Search)

	var total int64
	if err := r.pool.QueryRow(ctx, `SELECT count(*) FROM brands`+where, args...).Scan(&total); err != nil {
		return nil, 0, mapError(err)
	}

	rows, err := r.pool.Query(ctx, `SELECT `+brandColumns+` FROM brands`+where+
		` ORDER BY created_at DESC, id `+pageClause(len(args)), append(args, q.Limit, q.Offset())...)
	if err != nil {
		return nil, 0, mapError(err)
	}
	defer rows.Close()

	items := make([]entity.Brand, 0, q.Limit)
	for rows.Next() {
		b, err := scanBrand(rows)
		if err != nil {
			return nil, 0, err
		}
		items = append(items, *b)
	}
	return items, total, mapError(rows.Err())
}

func (r *BrandRepository) Update(ctx context.Context, b *entity.Brand) error {
	row := r.pool.QueryRow(ctx, `
		UPDATE brands SET name = $2, icon = $3, updated_at = now()
		WHERE id = $1
		RETURNING updated_at
	`, b.ID, b.Name, b.Icon)
	return mapError(row.Scan(&b.UpdatedAt))
}

func (r *BrandRepository) Delete(ctx context.Context, id string) (*entity.Brand, error) {
	return scanBrand(r.pool.QueryRow(ctx, `DELETE FROM brands WHERE id = $1 RETURNING `+brandColumns, id))
}

var _ repository.BrandRepository = (*BrandRepository)(nil)
