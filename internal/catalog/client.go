// Package catalog talks to the remote catalog service over its REST
// API. The storefront never owns product rows; it reads the listing,
// and administrators create and delete entries through the same API.
package catalog

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"

	"github.com/Emmanation-Designs/Gibson-Collections/internal/domain"
	apperrors "github.com/Emmanation-Designs/Gibson-Collections/pkg/errors"
	"github.com/Emmanation-Designs/Gibson-Collections/pkg/httpclient"
)

// Doer abstracts the HTTP client so the breaker-wrapped client and the
// plain retrying client are interchangeable.
type Doer interface {
	Do(ctx context.Context, req *http.Request) (*http.Response, error)
}

// Client is a catalog REST API client. Every request carries the
// project API key both as the apikey header and as a bearer token,
// which is the auth scheme the catalog service expects.
type Client struct {
	baseURL string
	apiKey  string
	http    Doer
}

// NewClient creates a catalog client for the given base URL and API key.
func NewClient(baseURL, apiKey string, doer Doer) *Client {
	return &Client{baseURL: baseURL, apiKey: apiKey, http: doer}
}

func (c *Client) newRequest(ctx context.Context, method, path string, body io.Reader) (*http.Request, error) {
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return nil, fmt.Errorf("create catalog request: %w", err)
	}
	req.Header.Set("apikey", c.apiKey)
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	return req, nil
}

// List fetches the full product listing, newest first. Transport
// failures surface as retryable unavailability, never as empty data.
func (c *Client) List(ctx context.Context) ([]domain.Product, error) {
	req, err := c.newRequest(ctx, http.MethodGet, "/rest/v1/products?select=*&order=created_at.desc", nil)
	if err != nil {
		return nil, err
	}

	resp, err := c.http.Do(ctx, req)
	if err != nil {
		return nil, apperrors.Unavailable(fmt.Sprintf("catalog unreachable: %v", err))
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return nil, httpclient.ParseResponseError(resp, "catalog")
	}

	var products []domain.Product
	if err := json.NewDecoder(resp.Body).Decode(&products); err != nil {
		return nil, fmt.Errorf("decode catalog listing: %w", err)
	}
	return products, nil
}

// Create inserts a product and returns the stored representation,
// including the server-assigned ID and creation time.
func (c *Client) Create(ctx context.Context, p domain.Product) (domain.Product, error) {
	payload, err := json.Marshal(p)
	if err != nil {
		return domain.Product{}, fmt.Errorf("marshal product: %w", err)
	}

	req, err := c.newRequest(ctx, http.MethodPost, "/rest/v1/products", bytes.NewReader(payload))
	if err != nil {
		return domain.Product{}, err
	}
	req.Header.Set("Prefer", "return=representation")

	resp, err := c.http.Do(ctx, req)
	if err != nil {
		return domain.Product{}, apperrors.Unavailable(fmt.Sprintf("catalog unreachable: %v", err))
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		return domain.Product{}, httpclient.ParseResponseError(resp, "catalog")
	}

	// The catalog returns the inserted rows as an array.
	var created []domain.Product
	if err := json.NewDecoder(resp.Body).Decode(&created); err != nil {
		return domain.Product{}, fmt.Errorf("decode created product: %w", err)
	}
	if len(created) == 0 {
		return domain.Product{}, fmt.Errorf("catalog returned no representation for created product")
	}
	return created[0], nil
}

// Delete removes a product by ID. Deleting an unknown ID is not an
// error at the catalog level.
func (c *Client) Delete(ctx context.Context, id string) error {
	path := "/rest/v1/products?id=eq." + url.QueryEscape(id)
	req, err := c.newRequest(ctx, http.MethodDelete, path, nil)
	if err != nil {
		return err
	}

	resp, err := c.http.Do(ctx, req)
	if err != nil {
		return apperrors.Unavailable(fmt.Sprintf("catalog unreachable: %v", err))
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusNoContent {
		return httpclient.ParseResponseError(resp, "catalog")
	}
	return nil
}
