package customers

import (
	"net/http"
	"strconv"
	"strings"

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

func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	req := ListCustomersRequest{
		PageRequest: rootshared.ParsePageRequest(q),
		Search:      strings.TrimSpace(q.Get("busca")),
	}
	if raw := q.Get("ativo"); raw != "" {
		active, err := strconv.ParseBool(raw)
		if err != nil {
			h.errors.Write(w, r, "list customers", rootshared.Validation("filtro inválido", map[string]string{"ativo": "deve ser true ou false"}))
			return
		}
		req.IsActive = &active
	}
	items, total, err := h.service.List(r.Context(), req)
	if err != nil {
		h.errors.Write(w, r, "list customers", err)
		return
	}
	httpx.JSON(w, http.StatusOK, rootshared.NewPage(items, req.PageRequest, total))
}

func (h *Handler) Show(w http.ResponseWriter, r *http.Request) {
	id, err := httpx.UUIDParam(r, "id")
	if err != nil {
		h.errors.Write(w, r, "get customer", err)
		return
	}
	customer, err := h.service.Get(r.Context(), id)
	if err != nil {
		h.errors.Write(w, r, "get customer", err)
		return
	}
	httpx.JSON(w, http.StatusOK, customer)
}

func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	req, err := h.decode(r)
	if err != nil {
		h.errors.Write(w, r, "create customer", err)
		return
	}
	customer, err := h.service.Create(r.Context(), req)
	if err != nil {
		h.errors.Write(w, r, "create customer", err)
		return
	}
	httpx.JSON(w, http.StatusCreated, customer)
}

func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := httpx.UUIDParam(r, "id")
	if err != nil {
		h.errors.Write(w, r, "update customer", err)
		return
	}
	req, err := h.decode(r)
	if err != nil {
		h.errors.Write(w, r, "update customer", err)
		return
	}
	customer, err := h.service.Update(r.Context(), id, req)
	if err != nil {
		h.errors.Write(w, r, "update customer", err)
		return
	}
	httpx.JSON(w, http.StatusOK, customer)
}

func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := httpx.UUIDParam(r, "id")
	if err != nil {
		h.errors.Write(w, r, "delete customer", err)
		return
	}
	if err := h.service.Delete(r.Context(), id); err != nil {
		h.errors.Write(w, r, "delete customer", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) decode(r *http.Request) (CustomerRequest, error) {
	var req CustomerRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		return CustomerRequest{}, err
	}
	return req, httpx.ValidateStruct(h.validator, req)
}
