package products

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
	mu      sync.Mutex
	items   map[uuid.UUID]Product
	minimum map[uuid.UUID]int
}

func newMemoryRepo() *memoryRepo {
	return &memoryRepo{items: map[uuid.UUID]Product{}, minimum: map[uuid.UUID]int{}}
}

func (m *memoryRepo) List(ctx context.Context, filters shared.ListFilters) ([]Product, int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []Product
	for _, p := range m.items {
		if filters.IsActive != nil && p.IsActive != *filters.IsActive {
			continue
		}
		if filters.CategoryID != nil && (p.CategoryID == nil || *p.CategoryID != *filters.CategoryID) {
			continue
		}
		out = append(out, p)
	}
	return out, len(out), nil
}

func (m *memoryRepo) Get(ctx context.Context, id uuid.UUID) (Product, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.items[id]
	if !ok {
		return Product{}, shared.NotFound("produto")
	}
	return p, nil
}

func (m *memoryRepo) Create(ctx context.Context, p Product, minimumStock *int) (Product, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, existing := range m.items {
		if existing.Code == p.Code {
			return Product{}, rootshared.Conflict("produto: registro duplicado")
		}
	}
	p.ID = uuid.New()
	p.CreatedAt = time.Now()
	p.UpdatedAt = p.CreatedAt
	m.items[p.ID] = p
	if minimumStock != nil {
		m.minimum[p.ID] = *minimumStock
	}
	return p, nil
}

func (m *memoryRepo) Update(ctx context.Context, id uuid.UUID, p Product) (Product, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	existing, ok := m.items[id]
	if !ok {
		return Product{}, shared.NotFound("produto")
	}
	p.ID = id
	p.CreatedAt = existing.CreatedAt
	p.UpdatedAt = time.Now()
	m.items[id] = p
	return p, nil
}

func (m *memoryRepo) Deactivate(ctx context.Context, id uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.items[id]
	if !ok {
		return shared.NotFound("produto")
	}
	p.IsActive = false
	m.items[id] = p
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
	r.Route("/api/products", h.MountRoutes)
	return r
}

func send(h http.Handler, method, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	res := httptest.NewRecorder()
	h.ServeHTTP(res, req)
	return res
}

func TestProductCreateWithMinimumStock(t *testing.T) {
	repo := newMemoryRepo()
	h := newTestRouter(repo, rbac.RoleManager)

	res := send(h, http.MethodPost, "/api/products", `{"codigo":" BEB-001 ","nome":"Refrigerante","preco_venda":9.999,"unidade":"cx","estoque_minimo":12}`)
	require.Equal(t, http.StatusCreated, res.Code, res.Body.String())
	require.Contains(t, res.Body.String(), `"codigo":"BEB-001"`)
	require.Contains(t, res.Body.String(), `"unidade":"CX"`)
	require.Contains(t, res.Body.String(), `"ativo":true`)

	require.Len(t, repo.items, 1)
	for id, p := range repo.items {
		require.Equal(t, "10", p.SalePrice.String())
		require.True(t, p.CostPrice.IsZero())
		require.Equal(t, 12, repo.minimum[id])
	}

	res = send(h, http.MethodPost, "/api/products", `{"codigo":"AGUA","nome":"Água","preco_venda":"2.50"}`)
	require.Equal(t, http.StatusCreated, res.Code, res.Body.String())
	require.Contains(t, res.Body.String(), `"unidade":"UN"`)
	require.Len(t, repo.minimum, 1)

	res = send(h, http.MethodPost, "/api/products", `{"codigo":"AGUA","nome":"Outra","preco_venda":1}`)
	require.Equal(t, http.StatusConflict, res.Code)
}

func TestProductValidation(t *testing.T) {
	h := newTestRouter(newMemoryRepo(), rbac.RoleAdmin)

	res := send(h, http.MethodPost, "/api/products", `{"codigo":"X","nome":"Sem preço"}`)
	require.Equal(t, http.StatusBadRequest, res.Code)
	require.Contains(t, res.Body.String(), `"preco_venda"`)

	res = send(h, http.MethodPost, "/api/products", `{"codigo":"X","nome":"Negativo","preco_venda":-1,"preco_custo":-2}`)
	require.Equal(t, http.StatusBadRequest, res.Code)
	require.Contains(t, res.Body.String(), `"preco_custo"`)

	res = send(h, http.MethodPost, "/api/products", `{"codigo":"X","nome":"Mínimo","preco_venda":1,"estoque_minimo":-1}`)
	require.Equal(t, http.StatusBadRequest, res.Code)
	require.Contains(t, res.Body.String(), `"estoque_minimo"`)

	res = send(h, http.MethodPost, "/api/products", `{"codigo":"  ","nome":"Vazio","preco_venda":1}`)
	require.Equal(t, http.StatusBadRequest, res.Code)
	require.Contains(t, res.Body.String(), `"codigo"`)
}

func TestProductSoftDelete(t *testing.T) {
	repo := newMemoryRepo()
	manager := newTestRouter(repo, rbac.RoleManager)
	seller := newTestRouter(repo, rbac.RoleSeller)

	require.Equal(t, http.StatusCreated, send(manager, http.MethodPost, "/api/products", `{"codigo":"P1","nome":"Produto","preco_venda":5}`).Code)
	var id uuid.UUID
	for k := range repo.items {
		id = k
	}

	res := send(seller, http.MethodDelete, "/api/products/"+id.String(), "")
	require.Equal(t, http.StatusForbidden, res.Code)

	res = send(manager, http.MethodDelete, "/api/products/"+id.String(), "")
	require.Equal(t, http.StatusNoContent, res.Code)

	res = send(seller, http.MethodGet, "/api/products/"+id.String(), "")
	require.Equal(t, http.StatusOK, res.Code)
	require.Contains(t, res.Body.String(), `"ativo":false`)

	res = send(seller, http.MethodGet, "/api/products?ativo=true", "")
	require.Equal(t, http.StatusOK, res.Code)
	require.Contains(t, res.Body.String(), `"total":0`)

	res = send(seller, http.MethodGet, "/api/products?categoria_id=abc", "")
	require.Equal(t, http.StatusBadRequest, res.Code)
}
