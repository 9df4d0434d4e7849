// Package masterdata groups the catalog: categories, suppliers and products.
package masterdata

import (
	"github.com/go-chi/chi/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/balcao/balcao/internal/masterdata/categories"
	"github.com/balcao/balcao/internal/masterdata/products"
	"github.com/balcao/balcao/internal/masterdata/suppliers"
	"github.com/balcao/balcao/internal/platform/httpx"
	"github.com/balcao/balcao/internal/rbac"
)

// Module holds the catalog handlers.
type Module struct {
	Categories *categories.Handler
	Suppliers  *suppliers.Handler
	Products   *products.Handler
}

// NewModule wires repositories, services and handlers on pool.
func NewModule(pool *pgxpool.Pool, errs httpx.ErrorWriter, rbac rbac.Middleware) *Module {
	return &Module{
		Categories: categories.NewHandler(categories.NewService(categories.NewRepository(pool)), errs, rbac),
		Suppliers:  suppliers.NewHandler(suppliers.NewService(suppliers.NewRepository(pool)), errs, rbac),
		Products:   products.NewHandler(products.NewService(products.NewRepository(pool)), errs, rbac),
	}
}

// MountRoutes registers the catalog under r.
func (m *Module) MountRoutes(r chi.Router) {
	r.Route("/categories", m.Categories.MountRoutes)
	r.Route("/suppliers", m.Suppliers.MountRoutes)
	r.Route("/products", m.Products.MountRoutes)
}
