package customers

import (
	"github.com/go-chi/chi/v5"
)

// MountRoutes registers the client endpoints. Any authenticated user may
// register customers at the counter; deactivation is elevated.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Get("/", h.List)
	r.Get("/{id}", h.Show)
	r.Post("/", h.Create)
	r.Put("/{id}", h.Update)
	r.With(h.rbac.RequireElevated()).Delete("/{id}", h.Delete)
}
