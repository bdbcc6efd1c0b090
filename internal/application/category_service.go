package application

import (
	"context"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/oksasatya/sneakerhub-api/internal/domain/entity"
	repo "github.com/oksasatya/sneakerhub-api/internal/domain/repository"
)

type CategoryInput struct {
	Name        string `json:"name" binding:"required"`
	Description string `json:"description" binding:"required"`
	Icon        string `json:"icon" binding:"required"`
}

type CategoryUpdate struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Icon        string `json:"icon"`
}

type CategoryService struct {
	Repo   repo.CategoryRepository
	Logger *logrus.Logger
}

func NewCategoryService(r repo.CategoryRepository, logger *logrus.Logger) *CategoryService {
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	return &CategoryService{Repo: r, Logger: logger}
}

func (s *CategoryService) Create(ctx context.Context, in CategoryInput) (*entity.Category, error) {
	c := &entity.Category{
		Name:        strings.TrimSpace(in.Name),
		Description: strings.TrimSpace(in.Description),
		Icon:        strings.TrimSpace(in.Icon),
	}
	if c.Name == "" {
		return nil, newValidationError("name", "is required")
	}
	if err := s.Repo.Create(ctx, c); err != nil {
		return nil, mapRepoError(s.Logger, "create category", err)
	}
	return c, nil
}

func (s *CategoryService) Get(ctx context.Context, id string) (*entity.Category, error) {
	c, err := s.Repo.GetByID(ctx, id)
	if err != nil {
		return nil, mapRepoError(s.Logger, "get category", err)
	}
	return c, nil
}

func (s *CategoryService) List(ctx context.Context, q repo.ListQuery) (*Page[entity.Category], error) {
	q = normalizeQuery(q)
	items, total, err := s.Repo.List(ctx, q)
	if err != nil {
		return nil, mapRepoError(s.Logger, "list categories", err)
	}
	return &Page[entity.Category]{Items: items, Total: total, Page: q.Page, Limit: q.Limit}, nil
}

func (s *CategoryService) Update(ctx context.Context, id string, in CategoryUpdate) (*entity.Category, error) {
	c, err := s.Repo.GetByID(ctx, id)
	if err != nil {
		return nil, mapRepoError(s.Logger, "get category", err)
	}
	if v := strings.TrimSpace(in.Name); v != "" {
		c.Name = v
	}
	if v := strings.TrimSpace(in.Description); v != "" {
		c.Description = v
	}
	if v := strings.TrimSpace(in.Icon); v != "" {
		c.Icon = v
	}
	if err := s.Repo.Update(ctx, c); err != nil {
		return nil, mapRepoError(s.Logger, "update category", err)
	}
	return c, nil
}

func (s *CategoryService) Delete(ctx context.Context, id string) (*entity.Category, error) {
	c, err := s.Repo.Delete(ctx, id)
	if err != nil {
		return nil, mapRepoError(s.Logger, "delete category", err)
	}
	return c, nil
}
