package orders

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/balcao/balcao/internal/platform/httpx"
	"github.com/balcao/balcao/internal/rbac"
	rootshared "github.com/balcao/balcao/internal/shared"
)

func newTestRouter(f *fixture, principal rbac.Principal) http.Handler {
	h := NewHandler(f.svc, httpx.ErrorWriter{}, rbac.Middleware{})
	r := chi.NewRouter()
	r.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
			next.ServeHTTP(w, req.WithContext(rbac.ContextWithPrincipal(req.Context(), principal)))
		})
	})
	r.Route("/api/sales", h.MountRoutes)
	return r
}

func send(h http.Handler, method, path, body string, headers ...string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	for i := 0; i+1 < len(headers); i += 2 {
		req.Header.Set(headers[i], headers[i+1])
	}
	res := httptest.NewRecorder()
	h.ServeHTTP(res, req)
	return res
}

func TestCreateSaleEndpoint(t *testing.T) {
	f := newFixture()
	h := newTestRouter(f, rbac.Principal{ID: f.seller, Role: rbac.RoleSeller})

	body := fmt.Sprintf(`{"cliente_id":%q,"forma_pagamento":"dinheiro","desconto":"3.00",
		"itens":[{"produto_id":%q,"quantidade":2,"preco_unitario":"17.50"}]}`, f.customer, f.productA)
	res := send(h, http.MethodPost, "/api/sales", body, IdempotencyHeader, "k-1")
	require.Equal(t, http.StatusCreated, res.Code, res.Body.String())

	var created Order
	require.NoError(t, json.Unmarshal(res.Body.Bytes(), &created))
	require.Equal(t, 1, created.Number)
	require.Equal(t, "32", created.Total.String())
	require.Equal(t, StatusPending, created.Status)
	require.NotContains(t, res.Body.String(), `"itens"`)

	res = send(h, http.MethodPost, "/api/sales", body, IdempotencyHeader, "k-1")
	require.Equal(t, http.StatusConflict, res.Code)
	require.Contains(t, res.Body.String(), rootshared.CodeConflict)

	res = send(h, http.MethodGet, "/api/sales/"+created.ID.String(), "")
	require.Equal(t, http.StatusOK, res.Code)
	require.Contains(t, res.Body.String(), `"itens"`)
	require.Contains(t, res.Body.String(), "Produto A")
}

func TestCreateSaleEndpointErrors(t *testing.T) {
	f := newFixture()
	h := newTestRouter(f, rbac.Principal{ID: f.seller, Role: rbac.RoleSeller})

	res := send(h, http.MethodPost, "/api/sales", fmt.Sprintf(`{"cliente_id":%q,"forma_pagamento":"pix","itens":[]}`, f.customer))
	require.Equal(t, http.StatusBadRequest, res.Code)
	require.Contains(t, res.Body.String(), rootshared.CodeValidation)

	missing := uuid.New()
	res = send(h, http.MethodPost, "/api/sales", fmt.Sprintf(`{"cliente_id":%q,"forma_pagamento":"pix","itens":[{"produto_id":%q,"quantidade":1}]}`, f.customer, missing))
	require.Equal(t, http.StatusBadRequest, res.Code)
	require.Contains(t, res.Body.String(), rootshared.CodeProductNotFound)
	require.Contains(t, res.Body.String(), missing.String())

	res = send(h, http.MethodPost, "/api/sales", `{"cliente_id":`)
	require.Equal(t, http.StatusBadRequest, res.Code)
	require.Empty(t, f.repo.orders)
}

func TestStatusEndpointRequiresElevatedRole(t *testing.T) {
	f := newFixture()
	seller := newTestRouter(f, rbac.Principal{ID: f.seller, Role: rbac.RoleSeller})
	manager := newTestRouter(f, rbac.Principal{ID: uuid.New(), Role: rbac.RoleManager})

	body := fmt.Sprintf(`{"cliente_id":%q,"forma_pagamento":"pix","itens":[{"produto_id":%q,"quantidade":1}]}`, f.customer, f.productB)
	res := send(seller, http.MethodPost, "/api/sales", body)
	require.Equal(t, http.StatusCreated, res.Code, res.Body.String())
	var created Order
	require.NoError(t, json.Unmarshal(res.Body.Bytes(), &created))

	path := "/api/sales/" + created.ID.String() + "/status"
	res = send(seller, http.MethodPut, path, `{"status":"confirmada"}`)
	require.Equal(t, http.StatusForbidden, res.Code)

	res = send(manager, http.MethodPut, path, `{"status":"extraviada"}`)
	require.Equal(t, http.StatusBadRequest, res.Code)

	res = send(manager, http.MethodPut, path, `{"status":"cancelada"}`)
	require.Equal(t, http.StatusOK, res.Code, res.Body.String())
	require.Contains(t, res.Body.String(), `"status":"cancelada"`)

	res = send(manager, http.MethodGet, "/api/sales?status=cancelada", "")
	require.Equal(t, http.StatusOK, res.Code)
	require.Contains(t, res.Body.String(), `"total":1`)

	res = send(manager, http.MethodGet, "/api/sales?data_inicio=ontem", "")
	require.Equal(t, http.StatusBadRequest, res.Code)
}
