package application

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path"
	"strings"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/sneakerhub-api/pkg/helpers"
)

// ObjectStore persists uploaded files and addresses them by URL.
type ObjectStore interface {
	Upload(ctx context.Context, objectPath, contentType string, r io.Reader) (string, error)
	Delete(ctx context.Context, url string) error
}

const (
	MaxUploadSize  = 5 << 20
	MaxUploadFiles = 10
	mediaPrefix    = "media"
)

var allowedMediaTypes = map[string]string{
	"image/jpeg": ".jpg",
	"image/png":  ".png",
	"image/webp": ".webp",
	"image/gif":  ".gif",
}

// Upload is one file received from a client.
type Upload struct {
	Filename    string
	ContentType string
	Size        int64
	Body        io.Reader
}

type MediaService struct {
	Store  ObjectStore
	Logger *logrus.Logger
}

func NewMediaService(store ObjectStore, logger *logrus.Logger) *MediaService {
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	return &MediaService{Store: store, Logger: logger}
}

func checkUpload(field string, u Upload) (string, error) {
	ct := strings.ToLower(strings.TrimSpace(strings.SplitN(u.ContentType, ";", 2)[0]))
	defExt, ok := allowedMediaTypes[ct]
	if !ok {
		return "", newValidationError(field, "must be a jpeg, png, webp or gif image")
	}
	if u.Size <= 0 {
		return "", newValidationError(field, "is empty")
	}
	if u.Size > MaxUploadSize {
		return "", newValidationError(field, fmt.Sprintf("must be at most %d MB", MaxUploadSize>>20))
	}
	ext := strings.ToLower(path.Ext(u.Filename))
	if ext == "" || len(ext) > 5 {
		ext = defExt
	}
	return ext, nil
}

// objectPath names an object media/<uuid><ext>.
func objectPath(ext string) string {
	return path.Join(mediaPrefix, uuid.NewString()+ext)
}

// UploadSingle stores one image and returns its URL.
func (s *MediaService) UploadSingle(ctx context.Context, u Upload) (string, error) {
	if s.Store == nil {
		return "", ErrStorageUnavailable
	}
	ext, err := checkUpload("file", u)
	if err != nil {
		return "", err
	}
	url, err := s.Store.Upload(ctx, objectPath(ext), u.ContentType, u.Body)
	if err != nil {
		s.Logger.WithError(err).WithField("filename", u.Filename).Error("media upload failed")
		return "", ErrStorageUnavailable
	}
	return url, nil
}

// UploadMultiple validates every file before storing any of them; on a storage failure
// the files already stored by this call are removed again.
func (s *MediaService) UploadMultiple(ctx context.Context, uploads []Upload) ([]string, error) {
	if s.Store == nil {
		return nil, ErrStorageUnavailable
	}
	if len(uploads) == 0 {
		return nil, newValidationError("files", "is required")
	}
	if len(uploads) > MaxUploadFiles {
		return nil, newValidationError("files", fmt.Sprintf("must contain at most %d files", MaxUploadFiles))
	}
	exts := make([]string, len(uploads))
	for i, u := range uploads {
		ext, err := checkUpload("files", u)
		if err != nil {
			return nil, err
		}
		exts[i] = ext
	}

	urls := make([]string, 0, len(uploads))
	for i, u := range uploads {
		url, err := s.Store.Upload(ctx, objectPath(exts[i]), u.ContentType, u.Body)
		if err != nil {
			s.Logger.WithError(err).WithField("filename", u.Filename).Error("media upload failed")
			s.rollback(ctx, urls)
			return nil, ErrStorageUnavailable
		}
		urls = append(urls, url)
	}
	return urls, nil
}

func (s *MediaService) rollback(ctx context.Context, urls []string) {
	for _, url := range urls {
		if err := s.Store.Delete(ctx, url); err != nil {
			s.Logger.WithError(err).WithField("url", url).Warn("media rollback failed")
		}
	}
}

// Remove deletes a previously uploaded file by URL.
func (s *MediaService) Remove(ctx context.Context, url string) error {
	if s.Store == nil {
		return ErrStorageUnavailable
	}
	url = strings.TrimSpace(url)
	if url == "" {
		return newValidationError("fileUrl", "is required")
	}
	err := s.Store.Delete(ctx, url)
	switch {
	case err == nil:
		return nil
	case errors.Is(err, helpers.ErrObjectNotFound):
		return ErrNotFound
	case errors.Is(err, helpers.ErrForeignObject):
		return newValidationError("fileUrl", "is not a stored media file")
	}
	s.Logger.WithError(err).WithField("url", url).Error("media remove failed")
	return ErrStorageUnavailable
}
