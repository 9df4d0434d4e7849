package users

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/balcao/balcao/internal/platform/httpx"
	"github.com/balcao/balcao/internal/rbac"
	rootshared "github.com/balcao/balcao/internal/shared"
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

// MountRoutes registers /api/users for admins.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Use(h.rbac.RequireRole(rbac.RoleAdmin))
	r.Get("/", h.List)
	r.Post("/", h.Create)
	r.Get("/{id}", h.Show)
	r.Put("/{id}", h.Update)
	r.Put("/{id}/password", h.SetPassword)
}

func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	req := ListRequest{
		PageRequest: rootshared.ParsePageRequest(q),
		Search:      strings.TrimSpace(q.Get("busca")),
		Role:        rbac.Role(q.Get("perfil")),
	}
	if req.Role != "" && !req.Role.Valid() {
		h.errors.Write(w, r, "list users", rootshared.Validation("filtro inválido", map[string]string{"perfil": "perfil desconhecido"}))
		return
	}
	items, total, err := h.service.List(r.Context(), req)
	if err != nil {
		h.errors.Write(w, r, "list users", err)
		return
	}
	httpx.JSON(w, http.StatusOK, rootshared.NewPage(items, req.PageRequest, total))
}

func (h *Handler) Show(w http.ResponseWriter, r *http.Request) {
	id, err := httpx.UUIDParam(r, "id")
	if err != nil {
		h.errors.Write(w, r, "get user", err)
		return
	}
	user, err := h.service.Get(r.Context(), id)
	if err != nil {
		h.errors.Write(w, r, "get user", err)
		return
	}
	httpx.JSON(w, http.StatusOK, user)
}

func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	principal, _ := rbac.PrincipalFromContext(r.Context())
	var req CreateRequest
	if err := h.decode(r, &req); err != nil {
		h.errors.Write(w, r, "create user", err)
		return
	}
	user, err := h.service.Create(r.Context(), req, principal.ID)
	if err != nil {
		h.errors.Write(w, r, "create user", err)
		return
	}
	httpx.JSON(w, http.StatusCreated, user)
}

func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	principal, _ := rbac.PrincipalFromContext(r.Context())
	id, err := httpx.UUIDParam(r, "id")
	if err != nil {
		h.errors.Write(w, r, "update user", err)
		return
	}
	var req UpdateRequest
	if err := h.decode(r, &req); err != nil {
		h.errors.Write(w, r, "update user", err)
		return
	}
	user, err := h.service.Update(r.Context(), id, req, principal.ID)
	if err != nil {
		h.errors.Write(w, r, "update user", err)
		return
	}
	httpx.JSON(w, http.StatusOK, user)
}

func (h *Handler) SetPassword(w http.ResponseWriter, r *http.Request) {
	principal, _ := rbac.PrincipalFromContext(r.Context())
	id, err := httpx.UUIDParam(r, "id")
	if err != nil {
		h.errors.Write(w, r, "set password", err)
		return
	}
	var req PasswordRequest
	if err := h.decode(r, &req); err != nil {
		h.errors.Write(w, r, "set password", err)
		return
	}
	if err := h.service.SetPassword(r.Context(), id, req, principal.ID); err != nil {
		h.errors.Write(w, r, "set password", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) decode(r *http.Request, target any) error {
	if err := httpx.DecodeJSON(r, target); err != nil {
		return err
	}
	return httpx.ValidateStruct(h.validator, target)
}
