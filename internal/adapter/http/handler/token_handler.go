package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/teolin/gobank/internal/adapter/http/dto"
	"github.com/teolin/gobank/internal/adapter/http/middleware"
	"github.com/teolin/gobank/internal/domain"
	"github.com/teolin/gobank/internal/infrastructure/auth"
	"github.com/teolin/gobank/internal/usecase"
)

// Authenticator defines credential verification needed by TokenHandler.
type Authenticator interface {
	Authenticate(ctx context.Context, email, password string) (*domain.User, error)
}

// TokenHandler issues and revokes bearer tokens.
type TokenHandler struct {
	userUC     Authenticator
	jwtManager *auth.JWTManager
	revoker    usecase.TokenRevoker
}

// NewTokenHandler creates a new TokenHandler.
func NewTokenHandler(userUC Authenticator, jwtManager *auth.JWTManager, revoker usecase.TokenRevoker) *TokenHandler {
	return &TokenHandler{userUC: userUC, jwtManager: jwtManager, revoker: revoker}
}

// Issue exchanges HTTP Basic credentials for a bearer token.
func (h *TokenHandler) Issue(w http.ResponseWriter, r *http.Request) {
	email, password, ok := r.BasicAuth()
	if !ok {
		w.Header().Set("WWW-Authenticate", `Basic realm="gobank"`)
		writeError(w, http.StatusUnauthorized, "basic credentials required", "")
		return
	}

	user, err := h.userUC.Authenticate(r.Context(), email, password)
	if err != nil {
		writeError(w, mapDomainError(err), "invalid credentials", "")
		return
	}

	token, claims, err := h.jwtManager.Generate(user)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to generate token", err.Error())
		return
	}

	writeJSON(w, http.StatusCreated, dto.TokenResponse{
		Token:     token,
		ExpiresAt: claims.ExpiresAt.Time,
	})
}

// Revoke invalidates the presented bearer token for the remainder of its
// lifetime.
func (h *TokenHandler) Revoke(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.ClaimsFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized", "")
		return
	}

	ttl := time.Until(claims.ExpiresAt.Time)
	if err := h.revoker.Revoke(r.Context(), claims.ID, ttl); err != nil {
		writeError(w, http.StatusInternalServerError, "failed to revoke token", err.Error())
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
