package suppliers

import (
	"net/http"

	"github.com/go-playground/validator/v10"

	"github.com/balcao/balcao/internal/masterdata/shared"
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
	filters, err := shared.ParseListFilters(r)
	if err != nil {
		h.errors.Write(w, r, "list suppliers", err)
		return
	}
	items, total, err := h.service.List(r.Context(), filters)
	if err != nil {
		h.errors.Write(w, r, "list suppliers", err)
		return
	}
	httpx.JSON(w, http.StatusOK, rootshared.NewPage(items, filters.PageRequest, total))
}

func (h *Handler) Show(w http.ResponseWriter, r *http.Request) {
	id, err := httpx.UUIDParam(r, "id")
	if err != nil {
		h.errors.Write(w, r, "get supplier", err)
		return
	}
	supplier, err := h.service.Get(r.Context(), id)
	if err != nil {
		h.errors.Write(w, r, "get supplier", err)
		return
	}
	httpx.JSON(w, http.StatusOK, supplier)
}

func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	form, err := h.decode(r)
	if err != nil {
		h.errors.Write(w, r, "create supplier", err)
		return
	}
	created, err := h.service.Create(r.Context(), form)
	if err != nil {
		h.errors.Write(w, r, "create supplier", err)
		return
	}
	httpx.JSON(w, http.StatusCreated, created)
}

func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := httpx.UUIDParam(r, "id")
	if err != nil {
		h.errors.Write(w, r, "update supplier", err)
		return
	}
	form, err := h.decode(r)
	if err != nil {
		h.errors.Write(w, r, "update supplier", err)
		return
	}
	updated, err := h.service.Update(r.Context(), id, form)
	if err != nil {
		h.errors.Write(w, r, "update supplier", err)
		return
	}
	httpx.JSON(w, http.StatusOK, updated)
}

func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := httpx.UUIDParam(r, "id")
	if err != nil {
		h.errors.Write(w, r, "delete supplier", err)
		return
	}
	if err := h.service.Delete(r.Context(), id); err != nil {
		h.errors.Write(w, r, "delete supplier", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) decode(r *http.Request) (SupplierForm, error) {
	var form SupplierForm
	if err := httpx.DecodeJSON(r, &form); err != nil {
		return SupplierForm{}, err
	}
	return form, httpx.ValidateStruct(h.validator, form)
}
