package main

import (
	"context"
	"errors"
	"strings"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/sneakerhub-api/config"
	"github.com/oksasatya/sneakerhub-api/internal/domain/entity"
	repo "github.com/oksasatya/sneakerhub-api/internal/domain/repository"
	pginfra "github.com/oksasatya/sneakerhub-api/internal/infrastructure/postgres"
	"github.com/oksasatya/sneakerhub-api/pkg/helpers"
	"github.com/oksasatya/sneakerhub-api/pkg/validation"
)

// seed creates the first admin account; an existing email is left untouched.
func main() {
	_ = godotenv.Load()
	cfg := config.Load()
	logger := helpers.NewLogger(cfg.AppName+"-seed", cfg.Env, cfg.LogLevel)

	if !validation.IsComplexPassword(cfg.SeedAdminPassword) {
		logger.Fatal("SEED_ADMIN_PASSWORD must have 6+ characters, an uppercase letter and a digit")
	}

	ctx := context.Background()
	pool, err := pginfra.NewPool(ctx, cfg.PostgresDSN(), pginfra.PoolOptions{MaxConns: 2})
	if err != nil {
		logger.Fatalf("failed to connect to postgres: %v", err)
	}
	defer pool.Close()
	if err := pginfra.Migrate(cfg.PostgresDSN(), cfg.MigrationsDir, logger); err != nil {
		logger.Fatalf("migration failed: %v", err)
	}

	users := pginfra.NewUserRepository(pool)
	email := strings.ToLower(strings.TrimSpace(cfg.SeedAdminEmail))
	if existing, err := users.GetByEmail(ctx, email); err == nil {
		logger.WithField("id", existing.ID).Info("admin already seeded")
		return
	} else if !errors.Is(err, repo.ErrNotFound) {
		logger.Fatalf("lookup admin: %v", err)
	}

	hash, err := helpers.NewPasswordHasher(cfg.BcryptCost).Hash(cfg.SeedAdminPassword)
	if err != nil {
		logger.Fatalf("failed to hash password: %v", err)
	}
	admin := &entity.User{
		FullName: "Administrator",
		Username: cfg.SeedAdminUsername,
		Email:    email,
		Password: hash,
		Role:     entity.RoleAdmin,
		IsActive: true,
	}
	if err := users.Create(ctx, admin); err != nil {
		logger.Fatalf("failed to seed admin: %v", err)
	}
	logger.WithFields(logrus.Fields{"id": admin.ID, "email": admin.Email, "username": admin.Username}).Info("seeded admin")
}
