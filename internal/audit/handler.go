package audit

import (
	"encoding/csv"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

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

// MountRoutes registers /api/audit for admins.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Use(h.rbac.RequireRole(rbac.RoleAdmin))
	r.Get("/", h.Timeline)
	r.Get("/export.csv", h.Export)
}

func (h *Handler) Timeline(w http.ResponseWriter, r *http.Request) {
	filters, err := parseFilters(r)
	if err != nil {
		h.errors.Write(w, r, "audit timeline", err)
		return
	}
	result, err := h.service.Timeline(r.Context(), filters)
	if err != nil {
		h.errors.Write(w, r, "audit timeline", err)
		return
	}
	httpx.JSON(w, http.StatusOK, result)
}

func (h *Handler) Export(w http.ResponseWriter, r *http.Request) {
	filters, err := parseFilters(r)
	if err != nil {
		h.errors.Write(w, r, "audit export", err)
		return
	}
	rows, err := h.service.Export(r.Context(), filters)
	if err != nil {
		h.errors.Write(w, r, "audit export", err)
		return
	}
	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="auditoria.csv"`)
	writer := csv.NewWriter(w)
	_ = writer.Write([]string{"data", "usuario", "acao", "entidade", "entidade_id"})
	for _, row := range rows {
		actor := row.ActorName
		if actor == "" && row.ActorID != nil {
			actor = row.ActorID.String()
		}
		_ = writer.Write([]string{row.OccurredAt.UTC().Format(time.RFC3339), actor, row.Action, row.Entity, row.EntityID})
	}
	writer.Flush()
}

func parseFilters(r *http.Request) (TimelineFilters, error) {
	q := r.URL.Query()
	filters := TimelineFilters{
		Entity: strings.TrimSpace(q.Get("entidade")),
		Action: strings.TrimSpace(q.Get("acao")),
	}
	from, err := httpx.DateQuery(r, "data_inicio")
	if err != nil {
		return filters, err
	}
	if from != nil {
		filters.From = *from
	}
	to, err := httpx.DateQuery(r, "data_fim")
	if err != nil {
		return filters, err
	}
	if to != nil {
		filters.To = to.Add(24 * time.Hour)
	}
	if raw := q.Get("usuario_id"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			return filters, rootshared.Validation("filtro inválido", map[string]string{"usuario_id": "deve ser um UUID"})
		}
		filters.ActorID = &id
	}
	filters.Page, _ = strconv.Atoi(q.Get("page"))
	filters.PageSize, _ = strconv.Atoi(q.Get("limit"))
	return filters, nil
}
