package postgres

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/oksasatya/sneakerhub-api/internal/domain/entity"
	"github.com/oksasatya/sneakerhub-api/internal/domain/repository"
)

const categoryColumns = `id::text, name, description, icon, created_at, updated_at`

type CategoryRepository struct {
	pool *pgxpool.Pool
}

func NewCategoryRepository(pool *pgxpool.Pool) *CategoryRepository {
	return &CategoryRepository{pool: pool}
}

func scanCategory(row pgx.Row) (*entity.Category, error) {
	c := &entity.Category{}
	if err := row.Scan(&c.ID, &c.Name, &c.Description, &c.Icon, &c.CreatedAt, &c.UpdatedAt); err != nil {
		return nil, mapError(err)
	}
	return c, nil
}

func (r *CategoryRepository) Create(ctx context.Context, c *entity.Category) error {
	row := r.pool.QueryRow(ctx, `
		INSERT INTO categories (name, description, icon) VALUES ($1, $2, $3)
		RETURNING id::text, created_at, updated_at
	`, c.Name, c.Description, c.Icon)
	return mapError(row.Scan(&c.ID, &c.CreatedAt, &c.UpdatedAt))
}

func (r *CategoryRepository) GetByID(ctx context.Context, id string) (*entity.Category, error) {
	return scanCategory(r.pool.QueryRow(ctx, `SELECT `+categoryColumns+` FROM categories WHERE id = $1`, id))
}

func (r *CategoryRepository) List(ctx context.Context, q repository.ListQuery) ([]entity.Category, int64, error) {
	where, args := nameSearch(q.Search)

	var total int64
	if err := r.pool.QueryRow(ctx, `SELECT count(*) FROM categories`+where, args...).Scan(&total); err != nil {
		return nil, 0, mapError(err)
	}

	rows, err := r.pool.Query(ctx, `SELECT `+categoryColumns+` FROM categories`+where+
		` ORDER BY created_at DESC, id `+pageClause(len(args)), append(args, q.Limit, q.Offset())...)
	if err != nil {
		return nil, 0, mapError(err)
	}
	defer rows.Close()

	items := make([]entity.Category, 0, q.Limit)
	for rows.Next() {
		c, err := scanCategory(rows)
		if err != nil {
			return nil, 0, err
		}
		items = append(items, *c)
	}
	return items, total, mapError(rows.Err())
}

func (r *CategoryRepository) Update(ctx context.Context, c *entity.Category) error {
	row := r.pool.QueryRow(ctx, `
		UPDATE categories SET name = $2, description = $3, icon = $4, updated_at = now()
		WHERE id = $1
		RETURNING updated_at
	`, c.ID, c.Name, c.Description, c.Icon)
	return mapError(row.Scan(&c.UpdatedAt))
}

func (r *CategoryRepository) Delete(ctx context.Context, id string) (*entity.Category, error) {
	return scanCategory(r.pool.QueryRow(ctx, `DELETE FROM categories WHERE id = $1 RETURNING `+categoryColumns, id))
}

var _ repository.CategoryRepository = (*CategoryRepository)(nil)
