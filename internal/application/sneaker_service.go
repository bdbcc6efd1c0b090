package application

import (
	"context"
	"errors"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/oksasatya/sneakerhub-api/internal/domain/entity"
	repo "github.com/oksasatya/sneakerhub-api/internal/domain/repository"
	"github.com/oksasatya/sneakerhub-api/pkg/helpers"
)

// SneakerIndex is the full-text search side of the catalog. Writes are best-effort.
type SneakerIndex interface {
	Index(ctx context.Context, s *entity.Sneaker) error
	Remove(ctx context.Context, id string) error
	// Search returns matching sneaker ids, best match first, at most size of them.
	Search(ctx context.Context, query string, size int) ([]string, error)
}

// MaxSearchHits bounds how many index hits are intersected with the relational filters.
const MaxSearchHits = 500

type SneakerInput struct {
	Name        string  `json:"name" binding:"required"`
	Description string  `json:"description" binding:"required"`
	Price       float64 `json:"price" binding:"required,gt=0"`
	Image       string  `json:"image" binding:"required"`
	IsReady     *bool   `json:"isReady" binding:"required"`
	Brand       string  `json:"brand" binding:"required,uuid"`
	Category    string  `json:"category" binding:"required,uuid"`
	Slug        string  `json:"slug"`
}

// SneakerUpdate is a partial update; nil or empty fields keep their value.
type SneakerUpdate struct {
	Name        string   `json:"name"`
	Description string   `json:"description"`
	Price       *float64 `json:"price" binding:"omitempty,gt=0"`
	Image       string   `json:"image"`
	IsReady     *bool    `json:"isReady"`
	Brand       string   `json:"brand" binding:"omitempty,uuid"`
	Category    string   `json:"category" binding:"omitempty,uuid"`
	Slug        string   `json:"slug"`
}

type SneakerListInput struct {
	repo.ListQuery
	Brand    string
	Category string
	IsReady  *bool
}

type SneakerService struct {
	Repo   repo.SneakerRepository
	Index  SneakerIndex // optional
	Media  ObjectStore  // optional; used to drop the image of a deleted sneaker
	Logger *logrus.Logger
}

func NewSneakerService(r repo.SneakerRepository, index SneakerIndex, media ObjectStore, logger *logrus.Logger) *SneakerService {
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	return &SneakerService{Repo: r, Index: index, Media: media, Logger: logger}
}

// Create stores a sneaker owned by createdBy. The slug defaults to the slugified name.
func (s *SneakerService) Create(ctx context.Context, createdBy string, in SneakerInput) (*entity.Sneaker, error) {
	sn := &entity.Sneaker{
		Name:        strings.TrimSpace(in.Name),
		Description: strings.TrimSpace(in.Description),
		Price:       in.Price,
		Image:       strings.TrimSpace(in.Image),
		BrandID:     in.Brand,
		CategoryID:  in.Category,
		Slug:        entity.Slugify(in.Slug),
		CreatedBy:   createdBy,
	}
	if in.IsReady != nil {
		sn.IsReady = *in.IsReady
	}
	if sn.Name == "" {
		return nil, newValidationError("name", "is required")
	}
	if sn.Price <= 0 {
		return nil, newValidationError("price", "must be greater than 0")
	}
	if sn.Slug == "" {
		sn.Slug = entity.Slugify(sn.Name)
	}
	if err := s.Repo.Create(ctx, sn); err != nil {
		return nil, mapRepoError(s.Logger, "create sneaker", err)
	}
	s.index(ctx, sn)
	return sn, nil
}

func (s *SneakerService) Get(ctx context.Context, id string) (*entity.Sneaker, error) {
	sn, err := s.Repo.GetByID(ctx, id)
	if err != nil {
		return nil, mapRepoError(s.Logger, "get sneaker", err)
	}
	return sn, nil
}

func (s *SneakerService) GetBySlug(ctx context.Context, slug string) (*entity.Sneaker, error) {
	sn, err := s.Repo.GetBySlug(ctx, slug)
	if err != nil {
		return nil, mapRepoError(s.Logger, "get sneaker by slug", err)
	}
	return sn, nil
}

// List applies the relational filters; a search term goes through the index when one is
// configured and reachable, otherwise through a case-insensitive name match.
func (s *SneakerService) List(ctx context.Context, in SneakerListInput) (*Page[entity.Sneaker], error) {
	f := repo.SneakerFilter{
		ListQuery:  normalizeQuery(in.ListQuery),
		BrandID:    in.Brand,
		CategoryID: in.Category,
		IsReady:    in.IsReady,
	}
	f.Search = strings.TrimSpace(f.Search)
	if f.Search != "" && s.Index != nil {
		ids, err := s.Index.Search(ctx, f.Search, MaxSearchHits)
		if err != nil {
			s.Logger.WithError(err).Warn("sneaker index search failed, falling back to postgres")
		} else {
			f.IDs = ids
			if f.IDs == nil {
				f.IDs = []string{}
			}
			f.Search = ""
		}
	}
	items, total, err := s.Repo.List(ctx, f)
	if err != nil {
		return nil, mapRepoError(s.Logger, "list sneakers", err)
	}
	return &Page[entity.Sneaker]{Items: items, Total: total, Page: f.Page, Limit: f.Limit}, nil
}

func (s *SneakerService) Update(ctx context.Context, id string, in SneakerUpdate) (*entity.Sneaker, error) {
	sn, err := s.Repo.GetByID(ctx, id)
	if err != nil {
		return nil, mapRepoError(s.Logger, "get sneaker", err)
	}
	if v := strings.TrimSpace(in.Name); v != "" {
		sn.Name = v
	}
	if v := strings.TrimSpace(in.Description); v != "" {
		sn.Description = v
	}
	if in.Price != nil {
		if *in.Price <= 0 {
			return nil, newValidationError("price", "must be greater than 0")
		}
		sn.Price = *in.Price
	}
	if v := strings.TrimSpace(in.Image); v != "" {
		sn.Image = v
	}
	if in.IsReady != nil {
		sn.IsReady = *in.IsReady
	}
	if in.Brand != "" {
		sn.BrandID = in.Brand
	}
	if in.Category != "" {
		sn.CategoryID = in.Category
	}
	if v := entity.Slugify(in.Slug); v != "" {
		sn.Slug = v
	}
	if err := s.Repo.Update(ctx, sn); err != nil {
		return nil, mapRepoError(s.Logger, "update sneaker", err)
	}
	s.index(ctx, sn)
	return sn, nil
}

// Delete removes the sneaker, then its index document and stored image.
func (s *SneakerService) Delete(ctx context.Context, id string) (*entity.Sneaker, error) {
	sn, err := s.Repo.Delete(ctx, id)
	if err != nil {
		return nil, mapRepoError(s.Logger, "delete sneaker", err)
	}
	if s.Index != nil {
		if err := s.Index.Remove(ctx, sn.ID); err != nil {
			s.Logger.WithError(err).WithField("sneaker_id", sn.ID).Warn("sneaker index remove failed")
		}
	}
	if s.Media != nil && sn.Image != "" {
		if err := s.Media.Delete(ctx, sn.Image); err != nil && !isMissingObject(err) {
			s.Logger.WithError(err).WithField("sneaker_id", sn.ID).Warn("sneaker image remove failed")
		}
	}
	return sn, nil
}

func (s *SneakerService) index(ctx context.Context, sn *entity.Sneaker) {
	if s.Index == nil {
		return
	}
	if err := s.Index.Index(ctx, sn); err != nil {
		s.Logger.WithError(err).WithField("sneaker_id", sn.ID).Warn("sneaker index failed")
	}
}

// isMissingObject reports images that are already gone or were never stored by us.
func isMissingObject(err error) bool {
	return errors.Is(err, helpers.ErrObjectNotFound) || errors.Is(err, helpers.ErrForeignObject)
}
