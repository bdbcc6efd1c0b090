package postgres

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/oksasatya/sneakerhub-api/internal/domain/entity"
	"github.com/oksasatya/sneakerhub-api/internal/domain/repository"
)

const userColumns = `id::text, full_name, username, email, password_hash, role, profile_picture,
	is_active, otp_hash, otp_expiration, created_at, updated_at`

type UserRepository struct {
	pool *pgxpool.Pool
}

func NewUserRepository(pool *pgxpool.Pool) *UserRepository {
	return &UserRepository{pool: pool}
}

func scanUser(row pgx.Row) (*entity.User, error) {
	u := &entity.User{}
	var role string
	var otp *string
	if err := row.Scan(&u.ID, &u.FullName, &u.Username, &u.Email, &u.Password, &role, &u.ProfilePicture,
		&u.IsActive, &otp, &u.OTPExpiration, &u.CreatedAt, &u.UpdatedAt); err != nil {
		return nil, mapError(err)
	}
	u.Role = entity.Role(role)
	if otp != nil {
		u.OTP = *otp
	}
	return u, nil
}

func nullable(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func (r *UserRepository) Create(ctx context.Context, u *entity.User) error {
	row := r.pool.QueryRow(ctx, `
		INSERT INTO users (full_name, username, email, password_hash, role, profile_picture, is_active, otp_hash, otp_expiration)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING id::text, created_at, updated_at
	`, u.FullName, u.Username, u.Email, u.Password, string(u.Role), u.ProfilePicture, u.IsActive, nullable(u.OTP), u.OTPExpiration)

	return mapError(row.Scan(&u.ID, &u.CreatedAt, &u.UpdatedAt))
}

func (r *UserRepository) GetByID(ctx context.Context, id string) (*entity.User, error) {
	return scanUser(r.pool.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE id = $1`, id))
}

func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*entity.User, error) {
	return scanUser(r.pool.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE email = $1`, email))
}

func (r *UserRepository) GetByIdentifier(ctx context.Context, identifier string) (*entity.User, error) {
	return scanUser(r.pool.QueryRow(ctx, `
		SELECT `+userColumns+`
		FROM users
		WHERE email = $1 OR username = $1
		ORDER BY (email = $1) DESC
		LIMIT 1
	`, identifier))
}

func (r *UserRepository) UsernameExists(ctx context.Context, username string) (bool, error) {
	var exists bool
	err := r.pool.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM users WHERE username = $1)`, username).Scan(&exists)
	return exists, mapError(err)
}

func (r *UserRepository) Activate(ctx context.Context, id string) (*entity.User, error) {
	return scanUser(r.pool.QueryRow(ctx, `
		UPDATE users
		SET is_active = TRUE, otp_hash = NULL, otp_expiration = NULL, updated_at = now()
		WHERE id = $1 AND is_active = FALSE
		RETURNING `+userColumns, id))
}

func (r *UserRepository) ReplaceOTP(ctx context.Context, id, otpHash string, expiresAt time.Time) error {
	res, err := r.pool.Exec(ctx, `
		UPDATE users
		SET otp_hash = $2, otp_expiration = $3, updated_at = now()
		WHERE id = $1 AND is_active = FALSE
	`, id, otpHash, expiresAt)
	if err != nil {
		return mapError(err)
	}
	if res.RowsAffected() == 0 {
		return repository.ErrNotFound
	}
	return nil
}

var _ repository.UserRepository = (*UserRepository)(nil)
