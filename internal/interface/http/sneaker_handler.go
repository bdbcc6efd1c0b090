package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/sneakerhub-api/internal/application"
	"github.com/oksasatya/sneakerhub-api/internal/domain/entity"
	"github.com/oksasatya/sneakerhub-api/internal/interface/middleware"
	"github.com/oksasatya/sneakerhub-api/pkg/response"
)

type SneakerUsecase interface {
	Create(ctx context.Context, createdBy string, in application.SneakerInput) (*entity.Sneaker, error)
	Get(ctx context.Context, id string) (*entity.Sneaker, error)
	GetBySlug(ctx context.Context, slug string) (*entity.Sneaker, error)
	List(ctx context.Context, in application.SneakerListInput) (*application.Page[entity.Sneaker], error)
	Update(ctx context.Context, id string, in application.SneakerUpdate) (*entity.Sneaker, error)
	Delete(ctx context.Context, id string) (*entity.Sneaker, error)
}

type SneakerHandler struct {
	Svc    SneakerUsecase
	Logger *logrus.Logger
}

func NewSneakerHandler(svc SneakerUsecase, logger *logrus.Logger) *SneakerHandler {
	return &SneakerHandler{Svc: svc, Logger: logger}
}

type sneakerListRequest struct {
	listRequest
	Brand    string `form:"brand" binding:"omitempty,uuid"`
	Category string `form:"category" binding:"omitempty,uuid"`
	IsReady  *bool  `form:"isReady"`
}

func (h *SneakerHandler) Create(c *gin.Context) {
	var in application.SneakerInput
	if !bindJSON(c, &in) {
		return
	}
	sn, err := h.Svc.Create(c.Request.Context(), c.GetString(middleware.CtxUserIDKey), in)
	if err != nil {
		writeError(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusCreated, sn, "Success create a product", nil)
}

func (h *SneakerHandler) FindAll(c *gin.Context) {
	var req sneakerListRequest
	if !bindQuery(c, &req) {
		return
	}
	page, err := h.Svc.List(c.Request.Context(), application.SneakerListInput{
		ListQuery: req.query(),
		Brand:     req.Brand,
		Category:  req.Category,
		IsReady:   req.IsReady,
	})
	if err != nil {
		writeError(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusOK, page.Items, "Success find all products", response.NewPagination(page.Total, page.Page, page.Limit))
}

func (h *SneakerHandler) FindOne(c *gin.Context) {
	sn, err := h.Svc.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeError(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusOK, sn, "Success find one product", nil)
}

func (h *SneakerHandler) FindBySlug(c *gin.Context) {
	sn, err := h.Svc.GetBySlug(c.Request.Context(), c.Param("slug"))
	if err != nil {
		writeError(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusOK, sn, "Success get product by slug", nil)
}

func (h *SneakerHandler) Update(c *gin.Context) {
	var in application.SneakerUpdate
	if !bindJSON(c, &in) {
		return
	}
	sn, err := h.Svc.Update(c.Request.Context(), c.Param("id"), in)
	if err != nil {
		writeError(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusOK, sn, "Success update a product", nil)
}

func (h *SneakerHandler) Remove(c *gin.Context) {
	sn, err := h.Svc.Delete(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeError(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusOK, sn, "Success delete a product", nil)
}
