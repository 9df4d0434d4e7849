package rbac

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

func okHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})
}

func TestRequireRole(t *testing.T) {
	mw := Middleware{}
	handler := mw.RequireElevated()(okHandler())

	cases := []struct {
		name   string
		role   Role
		anon   bool
		status int
	}{
		{name: "admin", role: RoleAdmin, status: http.StatusNoContent},
		{name: "manager", role: RoleManager, status: http.StatusNoContent},
		{name: "seller", role: RoleSeller, status: http.StatusForbidden},
		{name: "anonymous", anon: true, status: http.StatusUnauthorized},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPut, "/api/sales/1/status", nil)
			if !tc.anon {
				req = req.WithContext(ContextWithPrincipal(req.Context(), Principal{ID: uuid.New(), Role: tc.role}))
			}
			rr := httptest.NewRecorder()
			handler.ServeHTTP(rr, req)
			require.Equal(t, tc.status, rr.Code)
		})
	}
}

func TestRoleHelpers(t *testing.T) {
	require.True(t, RoleAdmin.Valid())
	require.False(t, Role("root").Valid())
	require.True(t, RoleManager.Elevated())
	require.False(t, RoleSeller.Elevated())
}
