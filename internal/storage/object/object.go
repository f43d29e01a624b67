// Package object implements storage.Storage against the hosted object
// store's REST API. Product images live in a single public bucket.
package object

import (
	"context"
	"fmt"
	"net/http"

	"github.com/Emmanation-Designs/Gibson-Collections/internal/storage"
	apperrors "github.com/Emmanation-Designs/Gibson-Collections/pkg/errors"
	"github.com/Emmanation-Designs/Gibson-Collections/pkg/httpclient"
)

const bucket = "product-images"

// Doer abstracts the HTTP client used to reach the object store.
type Doer interface {
	Do(ctx context.Context, req *http.Request) (*http.Response, error)
}

// Storage implements storage.Storage over the object store's REST API.
type Storage struct {
	baseURL string
	apiKey  string
	http    Doer
}

// New creates an object store client for the given base URL and API key.
func New(baseURL, apiKey string, doer Doer) *Storage {
	return &Storage{baseURL: baseURL, apiKey: apiKey, http: doer}
}

// Upload stores the object under its key and returns the public URL.
func (s *Storage) Upload(ctx context.Context, input *storage.UploadInput) (*storage.UploadResult, error) {
	url := fmt.Sprintf("%s/storage/v1/object/%s/%s", s.baseURL, bucket, input.Key)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, input.Data)
	if err != nil {
		return nil, fmt.Errorf("create upload request: %w", err)
	}
	req.Header.Set("apikey", s.apiKey)
	req.Header.Set("Authorization", "Bearer "+s.apiKey)
	req.Header.Set("Content-Type", input.ContentType)
	if input.Size > 0 {
		req.ContentLength = input.Size
	}

	resp, err := s.http.Do(ctx, req)
	if err != nil {
		return nil, apperrors.Unavailable(fmt.Sprintf("object store unreachable: %v", err))
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		return nil, httpclient.ParseResponseError(resp, "object store")
	}

	publicURL, err := s.GetURL(ctx, input.Key)
	if err != nil {
		return nil, err
	}
	return &storage.UploadResult{Key: input.Key, URL: publicURL}, nil
}

// Delete removes the object by key.
func (s *Storage) Delete(ctx context.Context, key string) error {
	url := fmt.Sprintf("%s/storage/v1/object/%s/%s", s.baseURL, bucket, key)

	req, err := http.NewRequestWithContext(ctx, http.MethodDelete, url, nil)
	if err != nil {
		return fmt.Errorf("create delete request: %w", err)
	}
	req.Header.Set("apikey", s.apiKey)
	req.Header.Set("Authorization", "Bearer "+s.apiKey)

	resp, err := s.http.Do(ctx, req)
	if err != nil {
		return apperrors.Unavailable(fmt.Sprintf("object store unreachable: %v", err))
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusNoContent {
		return httpclient.ParseResponseError(resp, "object store")
	}
	return nil
}

// GetURL returns the public URL for the key. The bucket is public, so
// no request is needed to resolve it.
func (s *Storage) GetURL(_ context.Context, key string) (string, error) {
	return fmt.Sprintf("%s/storage/v1/object/public/%s/%s", s.baseURL, bucket, key), nil
}
