package settings

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sort"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/balcao/balcao/internal/platform/httpx"
	"github.com/balcao/balcao/internal/rbac"
	rootshared "github.com/balcao/balcao/internal/shared"
)

type memoryRepo struct {
	items map[string]Setting
}

func (m *memoryRepo) List(ctx context.Context) ([]Setting, error) {
	out := []Setting{}
	for _, s := range m.items {
		out = append(out, s)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Key < out[j].Key })
	return out, nil
}

func (m *memoryRepo) Get(ctx context.Context, key string) (*Setting, error) {
	s, ok := m.items[key]
	if !ok {
		return nil, notFound(key)
	}
	return &s, nil
}

func (m *memoryRepo) Upsert(ctx context.Context, key, value string, description *string, actor uuid.UUID) (*Setting, error) {
	s := m.items[key]
	s.Key = key
	s.Value = value
	if description != nil {
		s.Description = *description
	}
	s.UpdatedBy = &actor
	s.UpdatedAt = time.Now()
	m.items[key] = s
	return &s, nil
}

type auditSpy struct{ entries []rootshared.AuditLog }

func (a *auditSpy) Record(ctx context.Context, log rootshared.AuditLog) error {
	a.entries = append(a.entries, log)
	return nil
}

func newTestRouter(svc *Service, role rbac.Role) http.Handler {
	h := NewHandler(svc, httpx.ErrorWriter{}, rbac.Middleware{})
	r := chi.NewRouter()
	r.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
			ctx := rbac.ContextWithPrincipal(req.Context(), rbac.Principal{ID: uuid.New(), Role: role})
			next.ServeHTTP(w, req.WithContext(ctx))
		})
	})
	r.Route("/api/config", h.MountRoutes)
	return r
}

func send(h http.Handler, method, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	res := httptest.NewRecorder()
	h.ServeHTTP(res, req)
	return res
}

func TestSettingsUpsert(t *testing.T) {
	repo := &memoryRepo{items: map[string]Setting{}}
	audit := &auditSpy{}
	svc := NewService(repo, audit, nil)
	admin := newTestRouter(svc, rbac.RoleAdmin)

	res := send(admin, http.MethodPut, "/api/config/loja.nome", `{"valor":"Balcão Centro","descricao":"Nome fantasia"}`)
	require.Equal(t, http.StatusOK, res.Code, res.Body.String())

	res = send(admin, http.MethodPut, "/api/config/loja.nome", `{"valor":"Balcão Sul"}`)
	require.Equal(t, http.StatusOK, res.Code)
	require.Contains(t, res.Body.String(), `"descricao":"Nome fantasia"`)
	require.Contains(t, res.Body.String(), `"valor":"Balcão Sul"`)

	res = send(admin, http.MethodPut, "/api/config/vazio", `{"valor":""}`)
	require.Equal(t, http.StatusOK, res.Code, res.Body.String())

	res = send(admin, http.MethodGet, "/api/config", "")
	require.Equal(t, http.StatusOK, res.Code)
	require.Contains(t, res.Body.String(), "loja.nome")
	require.Len(t, audit.entries, 3)
	require.Equal(t, "loja.nome", audit.entries[0].EntityID)
}

func TestSettingsRejects(t *testing.T) {
	svc := NewService(&memoryRepo{items: map[string]Setting{}}, nil, nil)
	admin := newTestRouter(svc, rbac.RoleAdmin)
	manager := newTestRouter(svc, rbac.RoleManager)

	res := send(manager, http.MethodPut, "/api/config/loja.nome", `{"valor":"x"}`)
	require.Equal(t, http.StatusForbidden, res.Code)

	res = send(admin, http.MethodPut, "/api/config/Loja-Nome", `{"valor":"x"}`)
	require.Equal(t, http.StatusBadRequest, res.Code)
	require.Contains(t, res.Body.String(), `"chave"`)

	res = send(admin, http.MethodPut, "/api/config/"+strings.Repeat("a", 101), `{"valor":"x"}`)
	require.Equal(t, http.StatusBadRequest, res.Code)

	res = send(admin, http.MethodPut, "/api/config/loja.nome", `{}`)
	require.Equal(t, http.StatusBadRequest, res.Code)

	res = send(manager, http.MethodGet, "/api/config/nao.existe", "")
	require.Equal(t, http.StatusNotFound, res.Code)
}
