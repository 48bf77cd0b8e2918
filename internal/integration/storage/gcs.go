package storage

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"
	gcs "google.golang.org/api/storage/v1"

	"github.com/pantry-ledger/backend/internal/application/adapter"
)

const defaultGCSPublicURL = "https://storage.googleapis.com"

// GCSStorage stores receipts as objects in a Google Cloud Storage bucket.
type GCSStorage struct {
	service       *gcs.Service
	bucket        string
	publicBaseURL string
}

// NewGCSStorage creates a bucket-backed receipt store. Extra client options
// (credentials file, endpoint) are passed through to the storage service.
func NewGCSStorage(ctx context.Context, bucket, publicBaseURL string, opts ...option.ClientOption) (*GCSStorage, error) {
	if bucket == "" {
		return nil, errors.New("gcs receipt storage requires a bucket")
	}

	service, err := gcs.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create storage client: %w", err)
	}

	if publicBaseURL == "" {
		publicBaseURL = defaultGCSPublicURL + "/" + bucket
	}

	return &GCSStorage{
		service:       service,
		bucket:        bucket,
		publicBaseURL: strings.TrimRight(publicBaseURL, "/"),
	}, nil
}

// Put uploads data as object key and returns its public URL.
func (s *GCSStorage) Put(ctx context.Context, key string, data []byte, contentType string) (string, error) {
	object := &gcs.Object{
		Name:        key,
		ContentType: contentType,
	}

	_, err := s.service.Objects.Insert(s.bucket, object).
		Media(bytes.NewReader(data), googleapi.ContentType(contentType)).
		Context(ctx).
		Do()
	if err != nil {
		return "", fmt.Errorf("failed to upload receipt to bucket %s: %w", s.bucket, err)
	}

	return s.publicBaseURL + "/" + escapeKey(key), nil
}

// Delete removes object key. A missing object is not an error.
func (s *GCSStorage) Delete(ctx context.Context, key string) error {
	err := s.service.Objects.Delete(s.bucket, key).Context(ctx).Do()
	if err != nil {
		var apiErr *googleapi.Error
		if errors.As(err, &apiErr) && apiErr.Code == http.StatusNotFound {
			return nil
		}
		return fmt.Errorf("failed to delete receipt from bucket %s: %w", s.bucket, err)
	}
	return nil
}

func escapeKey(key string) string {
	parts := strings.Split(key, "/")
	for i, p := range parts {
		parts[i] = url.PathEscape(p)
	}
	return strings.Join(parts, "/")
}

var _ adapter.ReceiptStorage = (*GCSStorage)(nil)
