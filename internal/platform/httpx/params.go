package httpx

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/balcao/balcao/internal/shared"
)

// UUIDParam parses the named chi URL parameter as a UUID.
func UUIDParam(r *http.Request, name string) (uuid.UUID, error) {
	id, err := uuid.Parse(chi.URLParam(r, name))
	if err != nil {
		return uuid.Nil, shared.Validation("identificador inválido", map[string]string{name: "deve ser um UUID"})
	}
	return id, nil
}

// DateQuery parses an optional YYYY-MM-DD or RFC 3339 query value.
func DateQuery(r *http.Request, name string) (*time.Time, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return nil, nil
	}
	for _, layout := range []string{time.DateOnly, time.RFC3339} {
		if t, err := time.Parse(layout, raw); err == nil {
			return &t, nil
		}
	}
	return nil, shared.Validation("data inválida", map[string]string{name: "use AAAA-MM-DD"})
}
