package orders

import "github.com/go-chi/chi/v5"

// MountRoutes registers the sales endpoints. Any role may sell; status
// changes are elevated.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Get("/", h.List)
	r.Post("/", h.Create)
	r.Get("/{id}", h.Show)
	r.With(h.rbac.RequireElevated()).Put("/{id}/status", h.UpdateStatus)
}
