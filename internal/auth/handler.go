package auth

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/balcao/balcao/internal/platform/httpx"
	"github.com/balcao/balcao/internal/rbac"
	"github.com/balcao/balcao/internal/shared"
)

// Handler wires HTTP endpoints for authentication flows.
type Handler struct {
	logger    *slog.Logger
	service   *Service
	validator *validator.Validate
}

// NewHandler constructs a Handler instance.
func NewHandler(logger *slog.Logger, service *Service) *Handler {
	return &Handler{
		logger:    logger,
		service:   service,
		validator: httpx.NewValidator(),
	}
}

// MountPublic registers routes reachable without a token.
func (h *Handler) MountPublic(r chi.Router) {
	r.Post("/login", h.handleLogin)
}

// MountProtected registers routes that expect the Gate upstream.
func (h *Handler) MountProtected(r chi.Router) {
	r.Get("/me", h.handleMe)
	r.Post("/logout", h.handleLogout)
}

func (h *Handler) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.RespondError(w, err, false)
		return
	}
	if err := httpx.ValidateStruct(h.validator, req); err != nil {
		httpx.RespondError(w, err, false)
		return
	}
	user, token, expiresAt, err := h.service.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, shared.ErrInvalidCredentials) {
			httpx.Problem(w, http.StatusUnauthorized, shared.CodeUnauthorized, "e-mail ou senha inválidos", nil)
			return
		}
		h.logger.Error("login", slog.Any("error", err))
		httpx.RespondError(w, err, false)
		return
	}
	httpx.JSON(w, http.StatusOK, loginResponse{Token: token, ExpiresAt: expiresAt, User: user})
}

func (h *Handler) handleMe(w http.ResponseWriter, r *http.Request) {
	principal, ok := rbac.PrincipalFromContext(r.Context())
	if !ok {
		httpx.RespondError(w, shared.ErrUnauthorized, false)
		return
	}
	user, err := h.service.CurrentUser(r.Context(), principal)
	if err != nil {
		if !isAuthFailure(err) {
			h.logger.Error("load current user", slog.Any("error", err))
		}
		httpx.RespondError(w, err, false)
		return
	}
	httpx.JSON(w, http.StatusOK, user)
}

func (h *Handler) handleLogout(w http.ResponseWriter, r *http.Request) {
	principal, ok := rbac.PrincipalFromContext(r.Context())
	if !ok {
		httpx.RespondError(w, shared.ErrUnauthorized, false)
		return
	}
	if err := h.service.Logout(r.Context(), principal); err != nil {
		h.logger.Error("revoke token", slog.Any("error", err))
		httpx.RespondError(w, err, false)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func isAuthFailure(err error) bool {
	return errors.Is(err, shared.ErrUnauthorized) || errors.Is(err, shared.ErrInvalidCredentials)
}
