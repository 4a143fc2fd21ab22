package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/bastiongames/bastion/internal/api/apierr"
	"github.com/bastiongames/bastion/internal/model"
	"github.com/bastiongames/bastion/internal/services/token"
)

type contextKey string

const claimsContextKey contextKey = "claims"

// Auth creates authentication middleware. It validates the bearer access
// token (expiry enforced) and stores the verified claims in the request
// context.
func Auth(tokens *token.Service) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			raw := extractToken(r)
			if raw == "" {
				apierr.WriteError(w, apierr.NewUnauthorizedError())
				return
			}

			claims, err := tokens.ValidateToken(raw, true)
			if err != nil {
				apierr.WriteError(w, err)
				return
			}

			ctx := context.WithValue(r.Context(), claimsContextKey, claims)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequirePermission creates middleware that rejects requests whose token
// snapshot does not carry the named permission. Must run after Auth.
func RequirePermission(name string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			claims := GetClaims(r.Context())
			if claims == nil {
				apierr.WriteError(w, apierr.NewUnauthorizedError())
				return
			}
			if !claims.HasPermission(name) {
				apierr.WriteError(w, model.ErrPermissionDenied)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// extractToken extracts the access token from the request
func extractToken(r *http.Request) string {
	// Check Authorization header first
	authHeader := r.Header.Get("Authorization")
	if strings.HasPrefix(authHeader, "Bearer ") {
		return strings.TrimPrefix(authHeader, "Bearer ")
	}

	// Fall back to cookie
	cookie, err := r.Cookie("access_token")
	if err == nil {
		return cookie.Value
	}

	return ""
}

// GetClaims returns the verified token claims from the request context
func GetClaims(ctx context.Context) *token.AccessClaims {
	claims, _ := ctx.Value(claimsContextKey).(*token.AccessClaims)
	return claims
}

// MustGetPlayerID returns the authenticated player's id or panics
func MustGetPlayerID(ctx context.Context) model.PlayerID {
	claims := GetClaims(ctx)
	if claims == nil {
		panic("no claims in context - auth middleware not applied?")
	}
	id, err := claims.PlayerID()
	if err != nil {
		panic("claims subject is not a player id")
	}
	return id
}
