package identity

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/Emmanation-Designs/Gibson-Collections/internal/domain"
	apperrors "github.com/Emmanation-Designs/Gibson-Collections/pkg/errors"
	"github.com/Emmanation-Designs/Gibson-Collections/pkg/httpclient"
)

// Doer abstracts the HTTP client used to reach the identity provider.
type Doer interface {
	Do(ctx context.Context, req *http.Request) (*http.Response, error)
}

// Client calls the identity provider's REST API.
type Client struct {
	baseURL string
	apiKey  string
	http    Doer
}

// NewClient creates an identity client for the given base URL and
// project API key.
func NewClient(baseURL, apiKey string, doer Doer) *Client {
	return &Client{baseURL: baseURL, apiKey: apiKey, http: doer}
}

func (c *Client) newRequest(ctx context.Context, method, path, accessToken string) (*http.Request, error) {
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, nil)
	if err != nil {
		return nil, fmt.Errorf("create identity request: %w", err)
	}
	req.Header.Set("apikey", c.apiKey)
	req.Header.Set("Authorization", "Bearer "+accessToken)
	return req, nil
}

// CurrentSession fetches the profile behind an access token, letting
// the provider confirm the token has not been revoked.
func (c *Client) CurrentSession(ctx context.Context, accessToken string) (*domain.UserProfile, error) {
	req, err := c.newRequest(ctx, http.MethodGet, "/auth/v1/user", accessToken)
	if err != nil {
		return nil, err
	}

	resp, err := c.http.Do(ctx, req)
	if err != nil {
		return nil, apperrors.Unavailable(fmt.Sprintf("identity provider unreachable: %v", err))
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return nil, httpclient.ParseResponseError(resp, "identity")
	}

	var profile struct {
		ID    string `json:"id"`
		Email string `json:"email"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&profile); err != nil {
		return nil, fmt.Errorf("decode identity profile: %w", err)
	}
	return &domain.UserProfile{ID: profile.ID, Email: profile.Email}, nil
}

// SignOut revokes the access token at the provider. The local session
// is cleared regardless of the outcome, so only transport failures are
// surfaced.
func (c *Client) SignOut(ctx context.Context, accessToken string) error {
	req, err := c.newRequest(ctx, http.MethodPost, "/auth/v1/logout", accessToken)
	if err != nil {
		return err
	}

	resp, err := c.http.Do(ctx, req)
	if err != nil {
		return apperrors.Unavailable(fmt.Sprintf("identity provider unreachable: %v", err))
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusNoContent {
		return httpclient.ParseResponseError(resp, "identity")
	}
	return nil
}
