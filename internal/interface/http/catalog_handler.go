package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/sneakerhub-api/internal/application"
	"github.com/oksasatya/sneakerhub-api/internal/domain/entity"
	repo "github.com/oksasatya/sneakerhub-api/internal/domain/repository"
	"github.com/oksasatya/sneakerhub-api/pkg/response"
)

type listRequest struct {
	Page   int    `form:"page" binding:"omitempty,min=1,max=1000000"`
	Limit  int    `form:"limit" binding:"omitempty,min=1,max=100"`
	Search string `form:"search"`
}

func (r listRequest) query() repo.ListQuery {
	return repo.ListQuery{Page: r.Page, Limit: r.Limit, Search: r.Search}
}

type BrandUsecase interface {
	Create(ctx context.Context, in application.BrandInput) (*entity.Brand, error)
	Get(ctx context.Context, id string) (*entity.Brand, error)
	List(ctx context.Context, q repo.ListQuery) (*application.Page[entity.Brand], error)
	Update(ctx context.Context, id string, in application.BrandUpdate) (*entity.Brand, error)
	Delete(ctx context.Context, id string) (*entity.Brand, error)
}

type BrandHandler struct {
	Svc    BrandUsecase
	Logger *logrus.Logger
}

func NewBrandHandler(svc BrandUsecase, logger *logrus.Logger) *BrandHandler {
	return &BrandHandler{Svc: svc, Logger: logger}
}

func (h *BrandHandler) Create(c *gin.Context) {
	var in application.BrandInput
	if !bindJSON(c, &in) {
		return
	}
	b, err := h.Svc.Create(c.Request.Context(), in)
	if err != nil {
		writeError(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusCreated, b, "Success create brand", nil)
}

func (h *BrandHandler) FindAll(c *gin.Context) {
	var req listRequest
	if !bindQuery(c, &req) {
		return
	}
	page, err := h.Svc.List(c.Request.Context(), req.query())
	if err != nil {
		writeError(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusOK, page.Items, "Success find all brands", response.NewPagination(page.Total, page.Page, page.Limit))
}

func (h *BrandHandler) FindOne(c *gin.Context) {
	b, err := h.Svc.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeError(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusOK, b, "Success find one brand", nil)
}

func (h *BrandHandler) Update(c *gin.Context) {
	var in application.BrandUpdate
	if !bindJSON(c, &in) {
		return
	}
	b, err := h.Svc.Update(c.Request.Context(), c.Param("id"), in)
	if err != nil {
		writeError(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusOK, b, "Success update brand", nil)
}

func (h *BrandHandler) Remove(c *gin.Context) {
	b, err := h.Svc.Delete(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeError(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusOK, b, "Success remove brand", nil)
}

type CategoryUsecase interface {
	Create(ctx context.Context, in application.CategoryInput) (*entity.Category, error)
	Get(ctx context.Context, id string) (*entity.Category, error)
	List(ctx context.Context, q repo.ListQuery) (*application.Page[entity.Category], error)
	Update(ctx context.Context, id string, in application.CategoryUpdate) (*entity.Category, error)
	Delete(ctx context.Context, id string) (*entity.Category, error)
}

type CategoryHandler struct {
	Svc    CategoryUsecase
	Logger *logrus.Logger
}

func NewCategoryHandler(svc CategoryUsecase, logger *logrus.Logger) *CategoryHandler {
	return &CategoryHandler{Svc: svc, Logger: logger}
}

func (h *CategoryHandler) Create(c *gin.Context) {
	var in application.CategoryInput
	if !bindJSON(c, &in) {
		return
	}
	cat, err := h.Svc.Create(c.Request.Context(), in)
	if err != nil {
		writeError(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusCreated, cat, "Success create category", nil)
}

func (h *CategoryHandler) FindAll(c *gin.Context) {
	var req listRequest
	if !bindQuery(c, &req) {
		return
	}
	page, err := h.Svc.List(c.Request.Context(), req.query())
	if err != nil {
		writeError(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusOK, page.Items, "Success find all categories", response.NewPagination(page.Total, page.Page, page.Limit))
}

func (h *CategoryHandler) FindOne(c *gin.Context) {
	cat, err := h.Svc.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeError(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusOK, cat, "Success find one category", nil)
}

func (h *CategoryHandler) Update(c *gin.Context) {
	var in application.CategoryUpdate
	if !bindJSON(c, &in) {
		return
	}
	cat, err := h.Svc.Update(c.Request.Context(), c.Param("id"), in)
	if err != nil {
		writeError(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusOK, cat, "Success update category", nil)
}

func (h *CategoryHandler) Remove(c *gin.Context) {
	cat, err := h.Svc.Delete(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeError(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusOK, cat, "Success remove category", nil)
}
