package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/shopspring/decimal"

	"github.com/balcao/balcao/internal/app"
	"github.com/balcao/balcao/internal/audit"
	"github.com/balcao/balcao/internal/auth"
	"github.com/balcao/balcao/internal/inventory"
	"github.com/balcao/balcao/internal/masterdata"
	"github.com/balcao/balcao/internal/observability"
	"github.com/balcao/balcao/internal/platform/cache"
	"github.com/balcao/balcao/internal/platform/db"
	"github.com/balcao/balcao/internal/platform/httpx"
	"github.com/balcao/balcao/internal/rbac"
	"github.com/balcao/balcao/internal/reports"
	"github.com/balcao/balcao/internal/sales"
	"github.com/balcao/balcao/internal/settings"
	"github.com/balcao/balcao/internal/shared"
	"github.com/balcao/balcao/internal/users"
	"github.com/balcao/balcao/migrations"
)

const usage = "usage: balcao [serve|migrate]"

func main() {
	if app.InTestMode() {
		slog.Default().Info("test mode detected, skipping runtime startup")
		return
	}

	decimal.MarshalJSONWithoutQuotes = true

	command := "serve"
	if len(os.Args) > 1 {
		command = os.Args[1]
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := app.LoadConfig()
	if err != nil {
		slog.Default().Error("load config", slog.Any("error", err))
		os.Exit(1)
	}
	logger := app.NewLogger(cfg)

	switch command {
	case "serve":
		err = serve(ctx, stop, cfg, logger)
	case "migrate":
		err = migrate(ctx, cfg, logger)
	default:
		fmt.Fprintln(os.Stderr, usage)
		os.Exit(2)
	}
	if err != nil {
		logger.Error(command, slog.Any("error", err))
		os.Exit(1)
	}
}

func poolOptions(cfg *app.Config) db.PoolOptions {
	return db.PoolOptions{
		DSN:             cfg.PGDSN,
		MaxConns:        cfg.PGMaxConns,
		MaxConnLifetime: cfg.PGMaxConnLifetime,
		MaxConnIdleTime: cfg.PGMaxConnIdleTime,
		ApplicationName: app.ServiceName,
	}
}

func migrate(ctx context.Context, cfg *app.Config, logger *slog.Logger) error {
	pool, err := db.New(ctx, poolOptions(cfg))
	if err != nil {
		return err
	}
	defer pool.Close()
	return db.Migrate(ctx, pool, migrations.Files, logger)
}

func serve(ctx context.Context, stop context.CancelFunc, cfg *app.Config, logger *slog.Logger) error {
	pool, err := db.New(ctx, poolOptions(cfg))
	if err != nil {
		return err
	}
	defer pool.Close()

	redisClient, err := cache.New(ctx, cache.Options{Addr: cfg.RedisAddr, Password: cfg.RedisPassword, DB: cfg.RedisDB})
	if err != nil {
		return err
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			logger.Warn("redis close", slog.Any("error", err))
		}
	}()

	tokens := auth.NewTokenIssuer(cfg.JWTSecret, cfg.JWTIssuer, cfg.JWTTTL)
	authService := auth.NewService(auth.NewRepository(pool), tokens, auth.NewRedisRevocationList(redisClient))
	authHandler := auth.NewHandler(logger, authService)
	gate := auth.NewGate(authService, logger)

	auditLogger := shared.NewAuditLogger(pool)
	idempotencyStore := shared.NewIdempotencyStore(pool, cfg.IdempotencyRetention)
	go idempotencyStore.RunCleanup(ctx, cfg.IdempotencyCleanupInterval, logger)
	metrics := observability.NewMetrics()
	errs := httpx.ErrorWriter{Logger: logger, ExposeInternal: cfg.IsDevelopment()}
	rbacMiddleware := rbac.Middleware{Logger: logger}

	salesModule := sales.NewModule(sales.Deps{
		Pool:        pool,
		Idempotency: idempotencyStore,
		Audit:       auditLogger,
		Metrics:     metrics,
		Logger:      logger,
		Errors:      errs,
		RBAC:        rbacMiddleware,
	})

	inventoryService := inventory.NewService(inventory.NewRepository(pool), auditLogger, metrics, logger)
	settingsService := settings.NewService(settings.NewRepository(pool), auditLogger, logger)
	reportsService := reports.NewService(reports.NewRepository(pool))
	usersService := users.NewService(users.NewRepository(pool), auditLogger, logger)
	auditService := audit.NewService(audit.NewRepository(pool))

	router := app.NewRouter(app.RouterParams{
		Logger:           logger,
		Config:           cfg,
		Metrics:          metrics,
		DB:               pool,
		Gate:             gate,
		AuthHandler:      authHandler,
		MasterData:       masterdata.NewModule(pool, errs, rbacMiddleware),
		Sales:            salesModule,
		InventoryHandler: inventory.NewHandler(inventoryService, errs, rbacMiddleware),
		SettingsHandler:  settings.NewHandler(settingsService, errs, rbacMiddleware),
		ReportsHandler:   reports.NewHandler(reportsService, errs, rbacMiddleware),
		UsersHandler:     users.NewHandler(usersService, errs, rbacMiddleware),
		AuditHandler:     audit.NewHandler(auditService, errs, rbacMiddleware),
	})

	server := &http.Server{
		Addr:         cfg.AppAddr,
		Handler:      router,
		ReadTimeout:  cfg.AppReadTimeout,
		WriteTimeout: cfg.AppWriteTimeout,
	}

	go func() {
		logger.Info("starting http server", slog.String("addr", cfg.AppAddr))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("http server", slog.Any("error", err))
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("graceful shutdown: %w", err)
	}
	return nil
}
