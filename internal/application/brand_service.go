package application

import (
	"context"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/oksasatya/sneakerhub-api/internal/domain/entity"
	repo "github.com/oksasatya/sneakerhub-api/internal/domain/repository"
)

type BrandInput struct {
	Name string `json:"name" binding:"required"`
	Icon string `json:"icon" binding:"required"`
}

// BrandUpdate is a partial update; empty fields keep their value.
type BrandUpdate struct {
	Name string `json:"name"`
	Icon string `json:"icon"`
}

type BrandService struct {
	Repo   repo.BrandRepository
	Logger *logrus.Logger
}

func NewBrandService(r repo.BrandRepository, logger *logrus.Logger) *BrandService {
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	return &BrandService{Repo: r, Logger: logger}
}

func (s *BrandService) Create(ctx context.Context, in BrandInput) (*entity.Brand, error) {
	b := &entity.Brand{Name: strings.TrimSpace(in.Name), Icon: strings.TrimSpace(in.Icon)}
	if b.Name == "" {
		return nil, newValidationError("name", "is required")
	}
	if err := s.Repo.Create(ctx, b); err != nil {
		return nil, mapRepoError(s.Logger, "create brand", err)
	}
	return b, nil
}

func (s *BrandService) Get(ctx context.Context, id string) (*entity.Brand, error) {
	b, err := s.Repo.GetByID(ctx, id)
	if err != nil {
		return nil, mapRepoError(s.Logger, "get brand", err)
	}
	return b, nil
}

// List returns brands newest first, filtered by a case-insensitive name match.
func (s *BrandService) List(ctx context.Context, q repo.ListQuery) (*Page[entity.Brand], error) {
	q = normalizeQuery(q)
	items, total, err := s.Repo.List(ctx, q)
	if err != nil {
		return nil, mapRepoError(s.Logger, "list brands", err)
	}
	return &Page[entity.Brand]{Items: items, Total: total, Page: q.Page, Limit: q.Limit}, nil
}

func (s *BrandService) Update(ctx context.Context, id string, in BrandUpdate) (*entity.Brand, error) {
	b, err := s.Repo.GetByID(ctx, id)
	if err != nil {
		return nil, mapRepoError(s.Logger, "get brand", err)
	}
	if name := strings.TrimSpace(in.Name); name != "" {
		b.Name = name
	}
	if icon := strings.TrimSpace(in.Icon); icon != "" {
		b.Icon = icon
	}
	if err := s.Repo.Update(ctx, b); err != nil {
		return nil, mapRepoError(s.Logger, "update brand", err)
	}
	return b, nil
}

func (s *BrandService) Delete(ctx context.Context, id string) (*entity.Brand, error) {
	b, err := s.Repo.Delete(ctx, id)
	if err != nil {
		return nil, mapRepoError(s.Logger, "delete brand", err)
	}
	return b, nil
}
