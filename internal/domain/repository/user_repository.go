package repository

import (
	"context"
	"errors"
	"time"

	"github.com/oksasatya/sneakerhub-api/internal/domain/entity"
)

var (
	// ErrNotFound is returned when no row matches.
	ErrNotFound = errors.New("not found")
	// ErrDuplicate is returned when a unique constraint is violated.
	ErrDuplicate = errors.New("duplicate key")
	// ErrInvalidReference is returned when a referenced row does not exist.
	ErrInvalidReference = errors.New("invalid reference")
	// ErrInUse is returned when a row cannot be deleted because other rows reference it.
	ErrInUse = errors.New("row is referenced")
)

// UserRepository defines the interface for user-related database operations.
type UserRepository interface {
	Create(ctx context.Context, u *entity.User) error
	GetByID(ctx context.Context, id string) (*entity.User, error)
	GetByEmail(ctx context.Context, email string) (*entity.User, error)
	// GetByIdentifier matches identifier against email OR username in a single lookup.
	GetByIdentifier(ctx context.Context, identifier string) (*entity.User, error)
	UsernameExists(ctx context.Context, username string) (bool, error)
	// Activate flips a pending user to active and clears its OTP. It returns ErrNotFound
	// when the user does not exist or is already active, so only one caller can win.
	Activate(ctx context.Context, id string) (*entity.User, error)
	// ReplaceOTP stores a fresh challenge for a pending user; ErrNotFound if absent or active.
	ReplaceOTP(ctx context.Context, id, otpHash string, expiresAt time.Time) error
}
