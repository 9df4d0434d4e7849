package app

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/balcao/balcao/internal/auth"
	"github.com/balcao/balcao/internal/observability"
	"github.com/balcao/balcao/internal/platform/httpx"
	"github.com/balcao/balcao/internal/rbac"
	"github.com/balcao/balcao/internal/reports"
	"github.com/balcao/balcao/internal/shared"
)

type noUsers struct{}

func (noUsers) FindByEmail(ctx context.Context, email string) (*auth.User, error) {
	return nil, shared.ErrNotFound
}

func (noUsers) FindByID(ctx context.Context, id uuid.UUID) (*auth.User, error) {
	return nil, shared.ErrNotFound
}

type pingFunc func(ctx context.Context) error

func (f pingFunc) Ping(ctx context.Context) error { return f(ctx) }

type emptyReports struct{}

func (emptyReports) SalesTotals(ctx context.Context, p reports.Period) (reports.Totals, error) {
	return reports.Totals{}, nil
}
func (emptyReports) PaymentBreakdown(ctx context.Context, p reports.Period) ([]reports.PaymentTotal, error) {
	return nil, nil
}
func (emptyReports) StatusBreakdown(ctx context.Context, p reports.Period) ([]reports.StatusTotal, error) {
	return nil, nil
}
func (emptyReports) TopProducts(ctx context.Context, p reports.Period, limit int) ([]reports.ProductSales, error) {
	return nil, nil
}
func (emptyReports) LowStock(ctx context.Context) ([]reports.LowStockItem, error) { return nil, nil }

func newTestRouter(t *testing.T, cfg *Config, db Pinger) (http.Handler, *auth.TokenIssuer) {
	t.Helper()
	logger := NewLogger(cfg)
	tokens := auth.NewTokenIssuer("router-test-secret", "balcao", time.Hour)
	authService := auth.NewService(noUsers{}, tokens, nil)
	rbacMW := rbac.Middleware{Logger: logger}
	return NewRouter(RouterParams{
		Logger:         logger,
		Config:         cfg,
		Metrics:        observability.NewMetrics(),
		DB:             db,
		Gate:           auth.NewGate(authService, logger),
		AuthHandler:    auth.NewHandler(logger, authService),
		ReportsHandler: reports.NewHandler(reports.NewService(emptyReports{}), httpx.ErrorWriter{Logger: logger}, rbacMW),
	}), tokens
}

func testConfig() *Config {
	return &Config{AppEnv: "test", LogFormat: "json", RateLimitPerMinute: 1000, LoginRateLimitPerMinute: 2, AppRequestTimeout: time.Second}
}

func do(h http.Handler, method, path, body, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.RemoteAddr = "10.0.0.1:5000"
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	res := httptest.NewRecorder()
	h.ServeHTTP(res, req)
	return res
}

func TestHealthAndMetrics(t *testing.T) {
	h, _ := newTestRouter(t, testConfig(), pingFunc(func(context.Context) error { return nil }))

	res := do(h, http.MethodGet, "/healthz", "", "")
	require.Equal(t, http.StatusOK, res.Code)
	require.Contains(t, res.Body.String(), `"ok"`)
	require.Equal(t, "nosniff", res.Header().Get("X-Content-Type-Options"))

	res = do(h, http.MethodGet, "/metrics", "", "")
	require.Equal(t, http.StatusOK, res.Code)
	require.Contains(t, res.Body.String(), "balcao_http_requests_total")

	down, _ := newTestRouter(t, testConfig(), pingFunc(func(context.Context) error { return errors.New("refused") }))
	res = do(down, http.MethodGet, "/healthz", "", "")
	require.Equal(t, http.StatusServiceUnavailable, res.Code)
}

func TestAPIRequiresBearerToken(t *testing.T) {
	h, tokens := newTestRouter(t, testConfig(), nil)

	res := do(h, http.MethodGet, "/api/reports/low-stock", "", "")
	require.Equal(t, http.StatusUnauthorized, res.Code)
	require.Contains(t, res.Body.String(), shared.CodeUnauthorized)

	res = do(h, http.MethodGet, "/api/reports/low-stock", "", "garbage")
	require.Equal(t, http.StatusUnauthorized, res.Code)

	token, _, err := tokens.Issue(&auth.User{ID: uuid.New(), Role: rbac.RoleSeller})
	require.NoError(t, err)
	res = do(h, http.MethodGet, "/api/reports/low-stock", "", token)
	require.Equal(t, http.StatusForbidden, res.Code)

	token, _, err = tokens.Issue(&auth.User{ID: uuid.New(), Role: rbac.RoleAdmin})
	require.NoError(t, err)
	res = do(h, http.MethodGet, "/api/reports/low-stock", "", token)
	require.Equal(t, http.StatusOK, res.Code, res.Body.String())
}

func TestUnknownRouteUsesErrorEnvelope(t *testing.T) {
	h, _ := newTestRouter(t, testConfig(), nil)
	res := do(h, http.MethodGet, "/nada", "", "")
	require.Equal(t, http.StatusNotFound, res.Code)
	require.Contains(t, res.Body.String(), `"error"`)
}

func TestLoginIsRateLimited(t *testing.T) {
	h, _ := newTestRouter(t, testConfig(), nil)
	body := `{"email":"ninguem@loja.test","senha":"segredo123"}`
	for i := 0; i < 2; i++ {
		res := do(h, http.MethodPost, "/api/auth/login", body, "")
		require.Equal(t, http.StatusUnauthorized, res.Code)
	}
	res := do(h, http.MethodPost, "/api/auth/login", body, "")
	require.Equal(t, http.StatusTooManyRequests, res.Code)
	require.Contains(t, res.Body.String(), codeRateLimited)
}
