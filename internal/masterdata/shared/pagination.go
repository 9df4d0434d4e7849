package shared

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/google/uuid"

	rootshared "github.com/balcao/balcao/internal/shared"
)

// ListFilters represents standard list page filters
type ListFilters struct {
	rootshared.PageRequest
	Search   string
	SortBy   string
	SortDir  string
	IsActive *bool

	// Entity specific filters
	CategoryID *uuid.UUID
}

// ParseListFilters reads busca, ativo, sort, dir, page and limit.
func ParseListFilters(r *http.Request) (ListFilters, error) {
	q := r.URL.Query()
	filters := ListFilters{
		PageRequest: rootshared.ParsePageRequest(q),
		Search:      strings.TrimSpace(q.Get("busca")),
		SortBy:      q.Get("sort"),
		SortDir:     strings.ToLower(q.Get("dir")),
	}
	if raw := q.Get("ativo"); raw != "" {
		active, err := strconv.ParseBool(raw)
		if err != nil {
			return ListFilters{}, rootshared.Validation("filtro inválido", map[string]string{"ativo": "deve ser true ou false"})
		}
		filters.IsActive = &active
	}
	if raw := q.Get("categoria_id"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			return ListFilters{}, rootshared.Validation("filtro inválido", map[string]string{"categoria_id": "identificador inválido"})
		}
		filters.CategoryID = &id
	}
	return filters, nil
}

// SortDirection normalises dir to ASC or DESC.
func SortDirection(dir string) string {
	if dir == "desc" {
		return "DESC"
	}
	return "ASC"
}
