package settings

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/balcao/balcao/internal/platform/httpx"
	"github.com/balcao/balcao/internal/rbac"
)

type Handler struct {
	service   *Service
	validator *validator.Validate
	errors    httpx.ErrorWriter
	rbac      rbac.Middleware
}

func NewHandler(service *Service, errs httpx.ErrorWriter, rbac rbac.Middleware) *Handler {
	return &Handler{service: service, validator: httpx.NewValidator(), errors: errs, rbac: rbac}
}

// MountRoutes registers /api/config. Only admins write.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Get("/", h.List)
	r.Get("/{chave}", h.Show)
	r.With(h.rbac.RequireRole(rbac.RoleAdmin)).Put("/{chave}", h.Update)
}

func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	items, err := h.service.List(r.Context())
	if err != nil {
		h.errors.Write(w, r, "list settings", err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"data": items})
}

func (h *Handler) Show(w http.ResponseWriter, r *http.Request) {
	setting, err := h.service.Get(r.Context(), chi.URLParam(r, "chave"))
	if err != nil {
		h.errors.Write(w, r, "get setting", err)
		return
	}
	httpx.JSON(w, http.StatusOK, setting)
}

func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	principal, _ := rbac.PrincipalFromContext(r.Context())
	var req UpdateRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		h.errors.Write(w, r, "update setting", err)
		return
	}
	if err := httpx.ValidateStruct(h.validator, req); err != nil {
		h.errors.Write(w, r, "update setting", err)
		return
	}
	setting, err := h.service.Set(r.Context(), chi.URLParam(r, "chave"), req, principal.ID)
	if err != nil {
		h.errors.Write(w, r, "update setting", err)
		return
	}
	httpx.JSON(w, http.StatusOK, setting)
}
