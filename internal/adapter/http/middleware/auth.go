package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/teolin/gobank/internal/infrastructure/auth"
	"github.com/teolin/gobank/internal/usecase"
)

// ContextKey is the type for context keys.
type ContextKey string

const (
	// ClaimsContextKey is the context key for the verified token claims.
	ClaimsContextKey ContextKey = "claims"
)

// AuthMiddleware verifies the Bearer token on every request and rejects
// tokens that have been revoked.
type AuthMiddleware struct {
	jwtManager *auth.JWTManager
	revoker    usecase.TokenRevoker
}

// NewAuthMiddleware creates a new AuthMiddleware.
func NewAuthMiddleware(jwtManager *auth.JWTManager, revoker usecase.TokenRevoker) *AuthMiddleware {
	return &AuthMiddleware{jwtManager: jwtManager, revoker: revoker}
}

// Wrap wraps an http.Handler with bearer token authentication.
func (m *AuthMiddleware) Wrap(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		authHeader := r.Header.Get("Authorization")
		if authHeader == "" {
			unauthorized(w, "missing authorization header")
			return
		}

		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || parts[0] != "Bearer" {
			unauthorized(w, "invalid authorization header format")
			return
		}

		claims, err := m.jwtManager.Verify(parts[1])
		if err != nil {
			unauthorized(w, "invalid or expired token")
			return
		}

		if m.revoker != nil {
			revoked, err := m.revoker.IsRevoked(r.Context(), claims.ID)
			if err != nil {
				http.Error(w, `{"error":"token check failed"}`, http.StatusInternalServerError)
				return
			}
			if revoked {
				unauthorized(w, "token revoked")
				return
			}
		}

		ctx := context.WithValue(r.Context(), ClaimsContextKey, claims)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func unauthorized(w http.ResponseWriter, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	w.Write([]byte(`{"error":"` + msg + `"}`))
}

// ClaimsFromContext extracts the verified token claims from context.
func ClaimsFromContext(ctx context.Context) (*auth.Claims, bool) {
	claims, ok := ctx.Value(ClaimsContextKey).(*auth.Claims)
	return claims, ok
}

// CallerID extracts the authenticated user id from context.
func CallerID(ctx context.Context) (int64, bool) {
	claims, ok := ClaimsFromContext(ctx)
	if !ok {
		return 0, false
	}
	return claims.UserID, true
}
