package helpers

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"cloud.google.com/go/storage"
	"google.golang.org/api/option"
)

// NewGCSClient creates a Google Cloud Storage client. If credsPath is empty, ADC is used.
func NewGCSClient(ctx context.Context, credsPath string) (*storage.Client, error) {
	if credsPath == "" {
		return storage.NewClient(ctx)
	}
	return storage.NewClient(ctx, option.WithCredentialsFile(credsPath))
}

// GCSStore puts and removes objects in a single bucket.
type GCSStore struct {
	Client *storage.Client
	Bucket string
}

func NewGCSStore(client *storage.Client, bucket string) *GCSStore {
	return &GCSStore{Client: client, Bucket: bucket}
}

// Upload copies r into objectPath and returns the object's public URL.
func (s *GCSStore) Upload(ctx context.Context, objectPath, contentType string, r io.Reader) (string, error) {
	wc := s.Client.Bucket(s.Bucket).Object(objectPath).NewWriter(ctx)
	wc.ContentType = contentType
	wc.ChunkSize = 0 // disable chunking for small files
	if _, err := io.Copy(wc, r); err != nil {
		_ = wc.Close()
		return "", err
	}
	if err := wc.Close(); err != nil {
		return "", err
	}
	return PublicURL(s.Bucket, objectPath), nil
}

// Delete removes the object behind a URL produced by Upload.
func (s *GCSStore) Delete(ctx context.Context, url string) error {
	objectPath, ok := ObjectPathFromURL(s.Bucket, url)
	if !ok {
		return fmt.Errorf("%w: %s", ErrForeignObject, url)
	}
	err := s.Client.Bucket(s.Bucket).Object(objectPath).Delete(ctx)
	if errors.Is(err, storage.ErrObjectNotExist) {
		return ErrObjectNotFound
	}
	return err
}

var (
	ErrObjectNotFound = errors.New("object not found")
	// ErrForeignObject is returned for URLs that do not point into the configured bucket.
	ErrForeignObject = errors.New("url is not an object of this bucket")
)

// PublicURL builds a public URL for an object (assuming public read access or signed URLs)
func PublicURL(bucket, objectPath string) string {
	return fmt.Sprintf("https://storage.googleapis.com/%s/%s", bucket, objectPath)
}

// ObjectPathFromURL is the inverse of PublicURL.
func ObjectPathFromURL(bucket, url string) (string, bool) {
	prefix := PublicURL(bucket, "")
	if !strings.HasPrefix(url, prefix) {
		return "", false
	}
	p := strings.TrimPrefix(url, prefix)
	if p == "" || strings.Contains(p, "..") {
		return "", false
	}
	return p, true
}
