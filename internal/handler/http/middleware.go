package http

import (
	"context"
	"net/http"
	"strings"

	"github.com/Emmanation-Designs/Gibson-Collections/internal/domain"
	"github.com/Emmanation-Designs/Gibson-Collections/pkg/httputil"
)

// contextKey is an unexported type for context keys to prevent collisions.
type contextKey string

const (
	shopperIDKey   contextKey = "shopper_id"
	profileKey     contextKey = "profile"
	accessTokenKey contextKey = "access_token"
)

// TokenVerifier validates bearer tokens into shopper profiles.
type TokenVerifier interface {
	Verify(tokenString string) (*domain.UserProfile, error)
}

// SessionSyncer records verified profiles on the shopper's store.
type SessionSyncer interface {
	SyncSession(ctx context.Context, shopperID string, profile *domain.UserProfile)
}

// ResolveShopper identifies the shopper behind a request. Signed-in
// shoppers present a bearer token, which is verified and keyed by its
// subject. Guests present an X-Session-ID header. A request with
// neither is rejected; a request with an invalid token is rejected
// rather than downgraded to a guest.
func ResolveShopper(verifier TokenVerifier, sessions SessionSyncer) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()

			if authHeader := r.Header.Get("Authorization"); authHeader != "" {
				parts := strings.SplitN(authHeader, " ", 2)
				if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
					httputil.WriteJSON(w, http.StatusUnauthorized, httputil.Response{
						Error: &httputil.ErrorResponse{Code: "UNAUTHORIZED", Message: "invalid authorization header format"},
					})
					return
				}

				profile, err := verifier.Verify(parts[1])
				if err != nil {
					httputil.WriteJSON(w, http.StatusUnauthorized, httputil.Response{
						Error: &httputil.ErrorResponse{Code: "UNAUTHORIZED", Message: "invalid or expired token"},
					})
					return
				}

				sessions.SyncSession(ctx, profile.ID, profile)

				ctx = context.WithValue(ctx, shopperIDKey, profile.ID)
				ctx = context.WithValue(ctx, profileKey, profile)
				ctx = context.WithValue(ctx, accessTokenKey, parts[1])
				next.ServeHTTP(w, r.WithContext(ctx))
				return
			}

			sessionID := r.Header.Get("X-Session-ID")
			if sessionID == "" {
				httputil.WriteJSON(w, http.StatusBadRequest, httputil.Response{
					Error: &httputil.ErrorResponse{Code: "INVALID_INPUT", Message: "X-Session-ID header is required for guest requests"},
				})
				return
			}

			ctx = context.WithValue(ctx, shopperIDKey, "guest:"+sessionID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// shopperIDFromContext extracts the resolved shopper ID.
func shopperIDFromContext(ctx context.Context) (string, bool) {
	id, ok := ctx.Value(shopperIDKey).(string)
	return id, ok && id != ""
}

// profileFromContext extracts the verified profile, nil for guests.
func profileFromContext(ctx context.Context) *domain.UserProfile {
	profile, _ := ctx.Value(profileKey).(*domain.UserProfile)
	return profile
}

// accessTokenFromContext extracts the raw bearer token, empty for guests.
func accessTokenFromContext(ctx context.Context) string {
	token, _ := ctx.Value(accessTokenKey).(string)
	return token
}

// ContentTypeJSON enforces that requests with a body have Content-Type: application/json.
func ContentTypeJSON(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.ContentLength > 0 || r.Method == http.MethodPost || r.Method == http.MethodPut || r.Method == http.MethodPatch {
			ct := r.Header.Get("Content-Type")
			if ct != "" && !strings.HasPrefix(ct, "application/json") {
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusUnsupportedMediaType)
				_, _ = w.Write([]byte(`{"error":{"code":"UNSUPPORTED_MEDIA_TYPE","message":"Content-Type must be application/json"}}`))
				return
			}
		}
		next.ServeHTTP(w, r)
	})
}
