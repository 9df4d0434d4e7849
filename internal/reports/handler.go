package reports

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/balcao/balcao/internal/platform/httpx"
	"github.com/balcao/balcao/internal/rbac"
	rootshared "github.com/balcao/balcao/internal/shared"
)

type Handler struct {
	service *Service
	errors  httpx.ErrorWriter
	rbac    rbac.Middleware
}

func NewHandler(service *Service, errs httpx.ErrorWriter, rbac rbac.Middleware) *Handler {
	return &Handler{service: service, errors: errs, rbac: rbac}
}

// MountRoutes registers /api/reports for elevated roles.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Use(h.rbac.RequireElevated())
	r.Get("/sales-summary", h.SalesSummary)
	r.Get("/top-products", h.TopProducts)
	r.Get("/low-stock", h.LowStock)
}

func parsePeriod(r *http.Request) (Period, error) {
	var (
		p   Period
		err error
	)
	if p.From, err = httpx.DateQuery(r, "data_inicio"); err != nil {
		return p, err
	}
	if p.To, err = httpx.DateQuery(r, "data_fim"); err != nil {
		return p, err
	}
	return p, nil
}

func (h *Handler) SalesSummary(w http.ResponseWriter, r *http.Request) {
	period, err := parsePeriod(r)
	if err != nil {
		h.errors.Write(w, r, "sales summary", err)
		return
	}
	summary, err := h.service.SalesSummary(r.Context(), period)
	if err != nil {
		h.errors.Write(w, r, "sales summary", err)
		return
	}
	httpx.JSON(w, http.StatusOK, summary)
}

func (h *Handler) TopProducts(w http.ResponseWriter, r *http.Request) {
	period, err := parsePeriod(r)
	if err != nil {
		h.errors.Write(w, r, "top products", err)
		return
	}
	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		if limit, err = strconv.Atoi(raw); err != nil || limit < 1 {
			h.errors.Write(w, r, "top products", rootshared.Validation("limite inválido", map[string]string{"limit": "inteiro positivo"}))
			return
		}
	}
	items, err := h.service.TopProducts(r.Context(), period, limit)
	if err != nil {
		h.errors.Write(w, r, "top products", err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"periodo": period, "data": items})
}

func (h *Handler) LowStock(w http.ResponseWriter, r *http.Request) {
	items, err := h.service.LowStock(r.Context())
	if err != nil {
		h.errors.Write(w, r, "low stock", err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"data": items})
}
