package categories

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/balcao/balcao/internal/masterdata/shared"
	"github.com/balcao/balcao/internal/platform/httpx"
	"github.com/balcao/balcao/internal/rbac"
	rootshared "github.com/balcao/balcao/internal/shared"
)

type memoryRepo struct {
	mu    sync.Mutex
	items map[uuid.UUID]Category
}

func newMemoryRepo() *memoryRepo {
	return &memoryRepo{items: map[uuid.UUID]Category{}}
}

func (m *memoryRepo) List(ctx context.Context, filters shared.ListFilters) ([]Category, int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []Category
	for _, c := range m.items {
		if filters.Search != "" && !strings.Contains(strings.ToLower(c.Name), strings.ToLower(filters.Search)) {
			continue
		}
		out = append(out, c)
	}
	return out, len(out), nil
}

func (m *memoryRepo) Get(ctx context.Context, id uuid.UUID) (Category, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	c, ok := m.items[id]
	if !ok {
		return Category{}, shared.NotFound("categoria")
	}
	return c, nil
}

func (m *memoryRepo) Create(ctx context.Context, category Category) (Category, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, existing := range m.items {
		if strings.EqualFold(existing.Name, category.Name) {
			return Category{}, rootshared.Conflict("categoria: registro duplicado")
		}
	}
	category.ID = uuid.New()
	category.CreatedAt = time.Now()
	category.UpdatedAt = category.CreatedAt
	m.items[category.ID] = category
	return category, nil
}

func (m *memoryRepo) Update(ctx context.Context, id uuid.UUID, category Category) (Category, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	existing, ok := m.items[id]
	if !ok {
		return Category{}, shared.NotFound("categoria")
	}
	category.ID = id
	category.CreatedAt = existing.CreatedAt
	category.UpdatedAt = time.Now()
	m.items[id] = category
	return category, nil
}

func (m *memoryRepo) Delete(ctx context.Context, id uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.items[id]; !ok {
		return shared.NotFound("categoria")
	}
	delete(m.items, id)
	return nil
}

func newTestRouter(repo Repository, role rbac.Role) http.Handler {
	h := NewHandler(NewService(repo), httpx.ErrorWriter{}, rbac.Middleware{})
	r := chi.NewRouter()
	r.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
			ctx := rbac.ContextWithPrincipal(req.Context(), rbac.Principal{ID: uuid.New(), Role: role})
			next.ServeHTTP(w, req.WithContext(ctx))
		})
	})
	r.Route("/api/categories", h.MountRoutes)
	return r
}

func send(h http.Handler, method, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	res := httptest.NewRecorder()
	h.ServeHTTP(res, req)
	return res
}

func TestCategoryCRUD(t *testing.T) {
	repo := newMemoryRepo()
	h := newTestRouter(repo, rbac.RoleManager)

	res := send(h, http.MethodPost, "/api/categories", `{"nome":"Bebidas","descricao":"Refrigerantes e sucos"}`)
	require.Equal(t, http.StatusCreated, res.Code, res.Body.String())
	require.Contains(t, res.Body.String(), `"ativo":true`)

	var id uuid.UUID
	for k := range repo.items {
		id = k
	}

	res = send(h, http.MethodGet, "/api/categories/"+id.String(), "")
	require.Equal(t, http.StatusOK, res.Code)
	require.Contains(t, res.Body.String(), "Bebidas")

	res = send(h, http.MethodPut, "/api/categories/"+id.String(), `{"nome":"Bebidas frias","ativo":false}`)
	require.Equal(t, http.StatusOK, res.Code, res.Body.String())
	require.False(t, repo.items[id].IsActive)

	res = send(h, http.MethodGet, "/api/categories?busca=frias", "")
	require.Equal(t, http.StatusOK, res.Code)
	require.Contains(t, res.Body.String(), `"total":1`)

	res = send(h, http.MethodDelete, "/api/categories/"+id.String(), "")
	require.Equal(t, http.StatusNoContent, res.Code)

	res = send(h, http.MethodGet, "/api/categories/"+id.String(), "")
	require.Equal(t, http.StatusNotFound, res.Code)
	require.Contains(t, res.Body.String(), rootshared.CodeNotFound)
}

func TestCategoryErrors(t *testing.T) {
	repo := newMemoryRepo()
	h := newTestRouter(repo, rbac.RoleAdmin)

	res := send(h, http.MethodPost, "/api/categories", `{"nome":"  "}`)
	require.Equal(t, http.StatusBadRequest, res.Code)
	require.Contains(t, res.Body.String(), rootshared.CodeValidation)

	res = send(h, http.MethodPost, "/api/categories", `{"descricao":"sem nome"}`)
	require.Equal(t, http.StatusBadRequest, res.Code)
	require.Contains(t, res.Body.String(), `"nome"`)

	require.Equal(t, http.StatusCreated, send(h, http.MethodPost, "/api/categories", `{"nome":"Limpeza"}`).Code)
	res = send(h, http.MethodPost, "/api/categories", `{"nome":"limpeza"}`)
	require.Equal(t, http.StatusConflict, res.Code)

	res = send(h, http.MethodGet, "/api/categories/not-a-uuid", "")
	require.Equal(t, http.StatusBadRequest, res.Code)
}

func TestSellerCannotWriteCategories(t *testing.T) {
	h := newTestRouter(newMemoryRepo(), rbac.RoleSeller)

	res := send(h, http.MethodPost, "/api/categories", `{"nome":"Bebidas"}`)
	require.Equal(t, http.StatusForbidden, res.Code)
	require.Contains(t, res.Body.String(), rootshared.CodeForbidden)

	res = send(h, http.MethodGet, "/api/categories", "")
	require.Equal(t, http.StatusOK, res.Code)
	require.Contains(t, res.Body.String(), `"data":[]`)
}
