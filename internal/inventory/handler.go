package inventory

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/balcao/balcao/internal/platform/httpx"
	"github.com/balcao/balcao/internal/rbac"
	rootshared "github.com/balcao/balcao/internal/shared"
)

// Handler wires HTTP endpoints for the stock ledger.
type Handler struct {
	service   *Service
	validator *validator.Validate
	errors    httpx.ErrorWriter
	rbac      rbac.Middleware
}

// NewHandler constructs the inventory handler.
func NewHandler(service *Service, errs httpx.ErrorWriter, rbac rbac.Middleware) *Handler {
	return &Handler{service: service, validator: httpx.NewValidator(), errors: errs, rbac: rbac}
}

func (h *Handler) RecordMovement(w http.ResponseWriter, r *http.Request) {
	principal, _ := rbac.PrincipalFromContext(r.Context())
	var req MovementRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		h.errors.Write(w, r, "record movement", err)
		return
	}
	if err := httpx.ValidateStruct(h.validator, req); err != nil {
		h.errors.Write(w, r, "record movement", err)
		return
	}
	result, err := h.service.RecordMovement(r.Context(), req, principal.ID)
	if err != nil {
		h.errors.Write(w, r, "record movement", err)
		return
	}
	httpx.JSON(w, http.StatusCreated, result)
}

func (h *Handler) ListStock(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	filter := StockFilter{
		PageRequest: rootshared.ParsePageRequest(q),
		Search:      strings.TrimSpace(q.Get("busca")),
	}
	if raw := q.Get("abaixo_minimo"); raw != "" {
		below, err := strconv.ParseBool(raw)
		if err != nil {
			h.errors.Write(w, r, "list stock", rootshared.Validation("filtro inválido", map[string]string{"abaixo_minimo": "deve ser true ou false"}))
			return
		}
		filter.BelowMinimum = below
	}
	items, total, err := h.service.ListStock(r.Context(), filter)
	if err != nil {
		h.errors.Write(w, r, "list stock", err)
		return
	}
	httpx.JSON(w, http.StatusOK, rootshared.NewPage(items, filter.PageRequest, total))
}

func (h *Handler) ShowStock(w http.ResponseWriter, r *http.Request) {
	productID, err := httpx.UUIDParam(r, "produto_id")
	if err != nil {
		h.errors.Write(w, r, "get stock", err)
		return
	}
	stock, err := h.service.GetStock(r.Context(), productID)
	if err != nil {
		h.errors.Write(w, r, "get stock", err)
		return
	}
	httpx.JSON(w, http.StatusOK, stock)
}

func (h *Handler) ListMovements(w http.ResponseWriter, r *http.Request) {
	productID, err := httpx.UUIDParam(r, "produto_id")
	if err != nil {
		h.errors.Write(w, r, "list movements", err)
		return
	}
	movements, err := h.service.ListMovements(r.Context(), productID)
	if err != nil {
		h.errors.Write(w, r, "list movements", err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"data": movements})
}

func (h *Handler) SetMinimum(w http.ResponseWriter, r *http.Request) {
	principal, _ := rbac.PrincipalFromContext(r.Context())
	productID, err := httpx.UUIDParam(r, "produto_id")
	if err != nil {
		h.errors.Write(w, r, "set minimum", err)
		return
	}
	var req MinimumRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		h.errors.Write(w, r, "set minimum", err)
		return
	}
	if err := httpx.ValidateStruct(h.validator, req); err != nil {
		h.errors.Write(w, r, "set minimum", err)
		return
	}
	stock, err := h.service.SetMinimum(r.Context(), productID, *req.Minimum, principal.ID)
	if err != nil {
		h.errors.Write(w, r, "set minimum", err)
		return
	}
	httpx.JSON(w, http.StatusOK, stock)
}

func (h *Handler) Verify(w http.ResponseWriter, r *http.Request) {
	productID, err := httpx.UUIDParam(r, "produto_id")
	if err != nil {
		h.errors.Write(w, r, "verify stock", err)
		return
	}
	v, err := h.service.Verify(r.Context(), productID)
	if err != nil {
		h.errors.Write(w, r, "verify stock", err)
		return
	}
	httpx.JSON(w, http.StatusOK, v)
}
