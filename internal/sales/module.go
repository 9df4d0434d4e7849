// Package sales groups customers and orders.
package sales

import (
	"log/slog"

	"github.com/go-chi/chi/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/balcao/balcao/internal/platform/httpx"
	"github.com/balcao/balcao/internal/rbac"
	"github.com/balcao/balcao/internal/sales/customers"
	"github.com/balcao/balcao/internal/sales/orders"
)

// Deps are the collaborators of order creation.
type Deps struct {
	Pool        *pgxpool.Pool
	Idempotency orders.IdempotencyStore
	Audit       orders.AuditRecorder
	Metrics     orders.Recorder
	Logger      *slog.Logger
	Errors      httpx.ErrorWriter
	RBAC        rbac.Middleware
}

// Module holds the sales handlers.
type Module struct {
	Customers *customers.Handler
	Orders    *orders.Handler
}

func NewModule(deps Deps) *Module {
	orderService := orders.NewService(orders.NewRepository(deps.Pool), deps.Idempotency, deps.Audit, deps.Metrics, deps.Logger)
	return &Module{
		Customers: customers.NewHandler(customers.NewService(customers.NewRepository(deps.Pool)), deps.Errors, deps.RBAC),
		Orders:    orders.NewHandler(orderService, deps.Errors, deps.RBAC),
	}
}

// MountRoutes registers /clients and /sales under r.
func (m *Module) MountRoutes(r chi.Router) {
	r.Route("/clients", m.Customers.MountRoutes)
	r.Route("/sales", m.Orders.MountRoutes)
}
