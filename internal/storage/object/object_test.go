package object

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Emmanation-Designs/Gibson-Collections/internal/storage"
	apperrors "github.com/Emmanation-Designs/Gibson-Collections/pkg/errors"
	"github.com/Emmanation-Designs/Gibson-Collections/pkg/httpclient"
)

func testStorage(t *testing.T, handler http.HandlerFunc) *Storage {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	cfg := httpclient.DefaultConfig()
	cfg.MaxRetries = 0
	cfg.Timeout = 2 * time.Second
	return New(srv.URL, "store-key", httpclient.New(cfg))
}

func TestStorage_Upload(t *testing.T) {
	var gotBody string
	s := testStorage(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/storage/v1/object/product-images/img-1.jpg", r.URL.Path)
		assert.Equal(t, "image/jpeg", r.Header.Get("Content-Type"))
		assert.Equal(t, "store-key", r.Header.Get("apikey"))

		body, _ := io.ReadAll(r.Body)
		gotBody = string(body)
		w.WriteHeader(http.StatusOK)
	})

	res, err := s.Upload(context.Background(), &storage.UploadInput{
		Key:         "img-1.jpg",
		ContentType: "image/jpeg",
		Size:        4,
		Data:        strings.NewReader("data"),
	})
	require.NoError(t, err)
	assert.Equal(t, "data", gotBody)
	assert.Equal(t, "img-1.jpg", res.Key)
	assert.Contains(t, res.URL, "/storage/v1/object/public/product-images/img-1.jpg")
}

func TestStorage_Upload_Unreachable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close()

	cfg := httpclient.DefaultConfig()
	cfg.MaxRetries = 0
	s := New(srv.URL, "store-key", httpclient.New(cfg))

	_, err := s.Upload(context.Background(), &storage.UploadInput{
		Key:  "img-1.jpg",
		Data: strings.NewReader("data"),
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, apperrors.ErrServiceUnavail)
}

func TestStorage_Delete(t *testing.T) {
	s := testStorage(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodDelete, r.Method)
		assert.Equal(t, "/storage/v1/object/product-images/img-1.jpg", r.URL.Path)
		w.WriteHeader(http.StatusNoContent)
	})

	assert.NoError(t, s.Delete(context.Background(), "img-1.jpg"))
}

func TestStorage_GetURL(t *testing.T) {
	s := New("https://store.example.com", "store-key", nil)

	url, err := s.GetURL(context.Background(), "img-1.jpg")
	require.NoError(t, err)
	assert.Equal(t, "https://store.example.com/storage/v1/object/public/product-images/img-1.jpg", url)
}
