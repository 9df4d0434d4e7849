package orders

import (
	"net/http"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/balcao/balcao/internal/platform/httpx"
	"github.com/balcao/balcao/internal/rbac"
	rootshared "github.com/balcao/balcao/internal/shared"
)

// IdempotencyHeader carries an optional client generated request key.
const IdempotencyHeader = "Idempotency-Key"

type Handler struct {
	service   *Service
	validator *validator.Validate
	errors    httpx.ErrorWriter
	rbac      rbac.Middleware
}

func NewHandler(service *Service, errs httpx.ErrorWriter, rbac rbac.Middleware) *Handler {
	return &Handler{service: service, validator: httpx.NewValidator(), errors: errs, rbac: rbac}
}

func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	principal, _ := rbac.PrincipalFromContext(r.Context())
	var req CreateOrderRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		h.errors.Write(w, r, "create order", err)
		return
	}
	if err := httpx.ValidateStruct(h.validator, req); err != nil {
		h.errors.Write(w, r, "create order", err)
		return
	}
	key := strings.TrimSpace(r.Header.Get(IdempotencyHeader))
	order, err := h.service.Create(r.Context(), req, principal.ID, key)
	if err != nil {
		h.errors.Write(w, r, "create order", err)
		return
	}
	httpx.JSON(w, http.StatusCreated, order)
}

func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	principal, _ := rbac.PrincipalFromContext(r.Context())
	req, err := parseListRequest(r)
	if err != nil {
		h.errors.Write(w, r, "list orders", err)
		return
	}
	items, total, err := h.service.List(r.Context(), req, principal)
	if err != nil {
		h.errors.Write(w, r, "list orders", err)
		return
	}
	httpx.JSON(w, http.StatusOK, rootshared.NewPage(items, req.PageRequest, total))
}

func (h *Handler) Show(w http.ResponseWriter, r *http.Request) {
	principal, _ := rbac.PrincipalFromContext(r.Context())
	id, err := httpx.UUIDParam(r, "id")
	if err != nil {
		h.errors.Write(w, r, "get order", err)
		return
	}
	order, err := h.service.Get(r.Context(), id, principal)
	if err != nil {
		h.errors.Write(w, r, "get order", err)
		return
	}
	httpx.JSON(w, http.StatusOK, order)
}

func (h *Handler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	principal, _ := rbac.PrincipalFromContext(r.Context())
	id, err := httpx.UUIDParam(r, "id")
	if err != nil {
		h.errors.Write(w, r, "update order status", err)
		return
	}
	var req UpdateStatusRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		h.errors.Write(w, r, "update order status", err)
		return
	}
	if err := httpx.ValidateStruct(h.validator, req); err != nil {
		h.errors.Write(w, r, "update order status", err)
		return
	}
	order, err := h.service.UpdateStatus(r.Context(), id, req.Status, principal.ID)
	if err != nil {
		h.errors.Write(w, r, "update order status", err)
		return
	}
	httpx.JSON(w, http.StatusOK, order)
}

func parseListRequest(r *http.Request) (ListOrdersRequest, error) {
	q := r.URL.Query()
	req := ListOrdersRequest{PageRequest: rootshared.ParsePageRequest(q)}
	if raw := q.Get("status"); raw != "" {
		status := Status(raw)
		if !status.Valid() {
			return req, rootshared.Validation("filtro inválido", map[string]string{"status": "status desconhecido"})
		}
		req.Status = &status
	}
	for param, dest := range map[string]**uuid.UUID{"cliente_id": &req.CustomerID, "vendedor_id": &req.SellerID} {
		raw := q.Get(param)
		if raw == "" {
			continue
		}
		id, err := uuid.Parse(raw)
		if err != nil {
			return req, rootshared.Validation("filtro inválido", map[string]string{param: "uuid inválido"})
		}
		*dest = &id
	}
	var err error
	if req.DateFrom, err = httpx.DateQuery(r, "data_inicio"); err != nil {
		return req, err
	}
	if req.DateTo, err = httpx.DateQuery(r, "data_fim"); err != nil {
		return req, err
	}
	return req, nil
}
