package handlers

import (
	"context"
	"mime/multipart"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/sneakerhub-api/internal/application"
	"github.com/oksasatya/sneakerhub-api/pkg/response"
)

type MediaUsecase interface {
	UploadSingle(ctx context.Context, u application.Upload) (string, error)
	UploadMultiple(ctx context.Context, uploads []application.Upload) ([]string, error)
	Remove(ctx context.Context, url string) error
}

type MediaHandler struct {
	Svc    MediaUsecase
	Logger *logrus.Logger
}

func NewMediaHandler(svc MediaUsecase, logger *logrus.Logger) *MediaHandler {
	return &MediaHandler{Svc: svc, Logger: logger}
}

// maxMediaBody caps a multipart request: every file at its limit plus form overhead.
const maxMediaBody = application.MaxUploadFiles*application.MaxUploadSize + 1<<20

type removeMediaRequest struct {
	FileURL string `json:"fileUrl" binding:"required"`
}

type uploadResult struct {
	URL string `json:"url"`
}

func openUpload(fh *multipart.FileHeader) (application.Upload, multipart.File, error) {
	f, err := fh.Open()
	if err != nil {
		return application.Upload{}, nil, err
	}
	return application.Upload{
		Filename:    fh.Filename,
		ContentType: fh.Header.Get("Content-Type"),
		Size:        fh.Size,
		Body:        f,
	}, f, nil
}

// UploadSingle POST /api/media/upload-single (form field "file")
func (h *MediaHandler) UploadSingle(c *gin.Context) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxMediaBody)
	fh, err := c.FormFile("file")
	if err != nil {
		response.Error[any](c, http.StatusBadRequest, "invalid payload", map[string]string{"file": "is required"})
		return
	}
	up, f, err := openUpload(fh)
	if err != nil {
		response.Error[any](c, http.StatusBadRequest, "invalid payload", map[string]string{"file": "cannot be read"})
		return
	}
	defer func() { _ = f.Close() }()

	url, err := h.Svc.UploadSingle(c.Request.Context(), up)
	if err != nil {
		writeError(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusOK, uploadResult{URL: url}, "Success upload a file", nil)
}

// UploadMultiple POST /api/media/upload-multiple (form field "files")
func (h *MediaHandler) UploadMultiple(c *gin.Context) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxMediaBody)
	form, err := c.MultipartForm()
	if err != nil || len(form.File["files"]) == 0 {
		response.Error[any](c, http.StatusBadRequest, "invalid payload", map[string]string{"files": "is required"})
		return
	}

	headers := form.File["files"]
	uploads := make([]application.Upload, 0, len(headers))
	for _, fh := range headers {
		up, f, err := openUpload(fh)
		if err != nil {
			response.Error[any](c, http.StatusBadRequest, "invalid payload", map[string]string{"files": "cannot be read"})
			return
		}
		defer func() { _ = f.Close() }()
		uploads = append(uploads, up)
	}

	urls, err := h.Svc.UploadMultiple(c.Request.Context(), uploads)
	if err != nil {
		writeError(c, h.Logger, err)
		return
	}
	out := make([]uploadResult, 0, len(urls))
	for _, u := range urls {
		out = append(out, uploadResult{URL: u})
	}
	response.Success(c, http.StatusOK, out, "Success upload files", nil)
}

// Remove DELETE /api/media/remove
func (h *MediaHandler) Remove(c *gin.Context) {
	var req removeMediaRequest
	if !bindJSON(c, &req) {
		return
	}
	if err := h.Svc.Remove(c.Request.Context(), req.FileURL); err != nil {
		writeError(c, h.Logger, err)
		return
	}
	response.Success[any](c, http.StatusOK, nil, "Success remove file", nil)
}
