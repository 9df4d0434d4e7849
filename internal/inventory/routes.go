package inventory

import "github.com/go-chi/chi/v5"

// MountRoutes registers the stock endpoints. Reads are open to any
// authenticated user; writes are elevated.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Get("/", h.ListStock)
	r.Get("/{produto_id}", h.ShowStock)
	r.Get("/{produto_id}/movements", h.ListMovements)
	r.Get("/{produto_id}/verify", h.Verify)
	r.Group(func(r chi.Router) {
		r.Use(h.rbac.RequireElevated())
		r.Post("/movement", h.RecordMovement)
		r.Put("/{produto_id}/minimum", h.SetMinimum)
	})
}
