package app

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/httprate"

	"github.com/balcao/balcao/internal/audit"
	"github.com/balcao/balcao/internal/auth"
	"github.com/balcao/balcao/internal/inventory"
	"github.com/balcao/balcao/internal/masterdata"
	"github.com/balcao/balcao/internal/observability"
	"github.com/balcao/balcao/internal/platform/httpx"
	"github.com/balcao/balcao/internal/reports"
	"github.com/balcao/balcao/internal/sales"
	"github.com/balcao/balcao/internal/settings"
	"github.com/balcao/balcao/internal/shared"
	"github.com/balcao/balcao/internal/users"
)

// Pinger reports whether a backing store is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

// RouterParams groups dependencies for building the HTTP router.
type RouterParams struct {
	Logger  *slog.Logger
	Config  *Config
	Metrics *observability.Metrics
	DB      Pinger

	Gate             *auth.Gate
	AuthHandler      *auth.Handler
	MasterData       *masterdata.Module
	Sales            *sales.Module
	InventoryHandler *inventory.Handler
	SettingsHandler  *settings.Handler
	ReportsHandler   *reports.Handler
	UsersHandler     *users.Handler
	AuditHandler     *audit.Handler
}

// NewRouter constructs the chi.Router with the API defaults.
func NewRouter(params RouterParams) http.Handler {
	r := chi.NewRouter()

	for _, mw := range MiddlewareStack(MiddlewareConfig{
		Logger:  params.Logger,
		Config:  params.Config,
		Metrics: params.Metrics,
	}) {
		r.Use(mw)
	}

	r.Use(chimw.Logger)

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		httpx.Problem(w, http.StatusNotFound, shared.CodeNotFound, "rota não encontrada", nil)
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		httpx.Problem(w, http.StatusMethodNotAllowed, shared.CodeValidation, "método não permitido", nil)
	})

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		if params.DB != nil {
			ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
			defer cancel()
			if err := params.DB.Ping(ctx); err != nil {
				params.Logger.Error("health check", slog.Any("error", err))
				httpx.JSON(w, http.StatusServiceUnavailable, map[string]string{"status": "unavailable"})
				return
			}
		}
		httpx.JSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	if params.Metrics != nil {
		r.Method(http.MethodGet, "/metrics", params.Metrics.Handler())
	}

	loginLimit := 10
	if params.Config != nil {
		loginLimit = params.Config.LoginRateLimitPerMinute
	}

	r.Route("/api", func(r chi.Router) {
		r.Route("/auth", func(r chi.Router) {
			r.Group(func(r chi.Router) {
				r.Use(rateLimiter(loginLimit))
				params.AuthHandler.MountPublic(r)
			})
			r.Group(func(r chi.Router) {
				r.Use(params.Gate.Middleware)
				params.AuthHandler.MountProtected(r)
			})
		})

		r.Group(func(r chi.Router) {
			r.Use(params.Gate.Middleware)
			if params.MasterData != nil {
				params.MasterData.MountRoutes(r)
			}
			if params.Sales != nil {
				params.Sales.MountRoutes(r)
			}
			if params.InventoryHandler != nil {
				r.Route("/stock", params.InventoryHandler.MountRoutes)
			}
			if params.SettingsHandler != nil {
				r.Route("/config", params.SettingsHandler.MountRoutes)
			}
			if params.ReportsHandler != nil {
				r.Route("/reports", params.ReportsHandler.MountRoutes)
			}
			if params.UsersHandler != nil {
				r.Route("/users", params.UsersHandler.MountRoutes)
			}
			if params.AuditHandler != nil {
				r.Route("/audit", params.AuditHandler.MountRoutes)
			}
		})
	})

	return r
}

// rateLimiter limits requests per client IP and answers with the error
// envelope.
func rateLimiter(perMinute int) func(http.Handler) http.Handler {
	return httprate.Limit(perMinute, time.Minute,
		httprate.WithKeyFuncs(httprate.KeyByIP),
		httprate.WithLimitHandler(func(w http.ResponseWriter, r *http.Request) {
			httpx.Problem(w, http.StatusTooManyRequests, codeRateLimited, "muitas requisições, tente novamente em instantes", nil)
		}),
	)
}

const codeRateLimited = "RATE_LIMITED"
