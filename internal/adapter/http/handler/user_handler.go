package handler

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/teolin/gobank/internal/adapter/http/dto"
	"github.com/teolin/gobank/internal/domain"
	"github.com/teolin/gobank/internal/infrastructure/metrics"
	"github.com/teolin/gobank/internal/usecase"
)

// UserService defines the behavior needed by UserHandler.
type UserService interface {
	Register(ctx context.Context, input usecase.RegisterInput) (*usecase.RegisterResult, error)
	GetUser(ctx context.Context, id int64) (*domain.User, error)
	ChangeEmail(ctx context.Context, userID int64, newEmail string) (*domain.User, error)
	ChangePassword(ctx context.Context, userID int64, oldPassword, newPassword string) (*domain.User, error)
}

// UserHandler handles user-related HTTP requests.
type UserHandler struct {
	userUC  UserService
	metrics *metrics.Metrics
}

// NewUserHandler creates a new UserHandler.
func NewUserHandler(userUC UserService, m *metrics.Metrics) *UserHandler {
	return &UserHandler{userUC: userUC, metrics: m}
}

// Register creates a new user with their account and genesis record.
func (h *UserHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req dto.RegisterUserRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	result, err := h.userUC.Register(r.Context(), req.ToUseCaseInput())
	if err != nil {
		writeError(w, mapDomainError(err), "failed to register user", err.Error())
		return
	}

	if h.metrics != nil {
		h.metrics.AccountsOpened.Inc()
	}

	writeJSON(w, http.StatusCreated, dto.RegisterFromResult(result))
}

// Get retrieves a user by id. Callers may only read themselves.
func (h *UserHandler) Get(w http.ResponseWriter, r *http.Request) {
	userID, ok := authorizeUserPath(w, r)
	if !ok {
		return
	}

	user, err := h.userUC.GetUser(r.Context(), userID)
	if err != nil {
		writeError(w, mapDomainError(err), "failed to get user", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, dto.UserFromDomain(user))
}

// ChangeEmail updates the caller's email address.
func (h *UserHandler) ChangeEmail(w http.ResponseWriter, r *http.Request) {
	userID, ok := authorizeUserPath(w, r)
	if !ok {
		return
	}

	var req dto.ChangeEmailRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	user, err := h.userUC.ChangeEmail(r.Context(), userID, req.NewEmail)
	if err != nil {
		writeError(w, mapDomainError(err), "failed to change email", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, dto.UserFromDomain(user))
}

// ChangePassword updates the caller's password.
func (h *UserHandler) ChangePassword(w http.ResponseWriter, r *http.Request) {
	userID, ok := authorizeUserPath(w, r)
	if !ok {
		return
	}

	var req dto.ChangePasswordRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	user, err := h.userUC.ChangePassword(r.Context(), userID, req.OldPassword, req.NewPassword)
	if err != nil {
		writeError(w, mapDomainError(err), "failed to change password", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, dto.UserFromDomain(user))
}

