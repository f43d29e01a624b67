package memory

import (
	"context"
	"fmt"
	"sync"

	"github.com/Emmanation-Designs/Gibson-Collections/internal/storage"
)

// objectEntry stores metadata about an uploaded object in memory.
type objectEntry struct {
	Key         string
	ContentType string
	Size        int64
	URL         string
}

// Storage implements storage.Storage using an in-memory map. It keeps
// metadata only, which is enough for tests and local development.
type Storage struct {
	mu      sync.RWMutex
	objects map[string]*objectEntry
	baseURL string
}

// New creates a new in-memory storage instance.
func New(baseURL string) *Storage {
	return &Storage{
		objects: make(map[string]*objectEntry),
		baseURL: baseURL,
	}
}

// Upload stores object metadata in memory and returns the generated URL.
func (s *Storage) Upload(_ context.Context, input *storage.UploadInput) (*storage.UploadResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	url := fmt.Sprintf("%s/product-images/%s", s.baseURL, input.Key)

	s.objects[input.Key] = &objectEntry{
		Key:         input.Key,
		ContentType: input.ContentType,
		Size:        input.Size,
		URL:         url,
	}

	return &storage.UploadResult{
		Key: input.Key,
		URL: url,
	}, nil
}

// Delete removes object metadata from memory.
func (s *Storage) Delete(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.objects[key]; !exists {
		return fmt.Errorf("object not found: %s", key)
	}

	delete(s.objects, key)
	return nil
}

// GetURL returns the URL for the given key.
func (s *Storage) GetURL(_ context.Context, key string) (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	entry, exists := s.objects[key]
	if !exists {
		return "", fmt.Errorf("object not found: %s", key)
	}

	return entry.URL, nil
}
