// Package identity validates shopper sessions against the external
// identity provider. Tokens are verified locally with the shared HMAC
// secret; sign-out and session introspection go over the provider's
// REST API.
package identity

import (
	"fmt"

	"github.com/golang-jwt/jwt/v5"

	"github.com/Emmanation-Designs/Gibson-Collections/internal/domain"
	apperrors "github.com/Emmanation-Designs/Gibson-Collections/pkg/errors"
)

// Verifier validates bearer tokens issued by the identity provider.
type Verifier struct {
	secret []byte
}

// NewVerifier creates a verifier for tokens signed with the given
// shared secret.
func NewVerifier(secret string) *Verifier {
	return &Verifier{secret: []byte(secret)}
}

// Verify parses and validates a bearer token and returns the profile
// it carries. Any validation failure, including expiry and a wrong
// signing method, maps to an unauthorized error.
func (v *Verifier) Verify(tokenString string) (*domain.UserProfile, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return v.secret, nil
	})
	if err != nil || !token.Valid {
		return nil, apperrors.Unauthorized(fmt.Sprintf("invalid or expired token: %v", err))
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil, apperrors.Unauthorized("invalid token claims")
	}

	sub, _ := claims["sub"].(string)
	if sub == "" {
		return nil, apperrors.Unauthorized("token missing subject")
	}
	email, _ := claims["email"].(string)

	return &domain.UserProfile{ID: sub, Email: email}, nil
}
