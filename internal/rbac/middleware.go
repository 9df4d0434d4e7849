package rbac

import (
	"log/slog"
	"net/http"

	"github.com/balcao/balcao/internal/platform/httpx"
	"github.com/balcao/balcao/internal/shared"
)

// Middleware wires role checks for HTTP handlers. It expects an upstream
// gate to have stored the Principal in the request context.
type Middleware struct {
	Logger *slog.Logger
}

// RequireAuthenticated rejects requests without a principal.
func (m Middleware) RequireAuthenticated(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, ok := PrincipalFromContext(r.Context()); !ok {
			httpx.Problem(w, http.StatusUnauthorized, shared.CodeUnauthorized, "não autenticado", nil)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// RequireRole ensures the current user has one of the given roles.
func (m Middleware) RequireRole(roles ...Role) func(http.Handler) http.Handler {
	allowed := make(map[Role]struct{}, len(roles))
	for _, role := range roles {
		allowed[role] = struct{}{}
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			p, ok := PrincipalFromContext(r.Context())
			if !ok {
				httpx.Problem(w, http.StatusUnauthorized, shared.CodeUnauthorized, "não autenticado", nil)
				return
			}
			if len(allowed) == 0 {
				next.ServeHTTP(w, r)
				return
			}
			if _, ok := allowed[p.Role]; !ok {
				if m.Logger != nil {
					m.Logger.Warn("rbac denied", slog.String("user_id", p.ID.String()), slog.String("role", string(p.Role)), slog.String("path", r.URL.Path))
				}
				httpx.Problem(w, http.StatusForbidden, shared.CodeForbidden, "acesso negado para o perfil "+string(p.Role), nil)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// RequireElevated is RequireRole(admin, gerente).
func (m Middleware) RequireElevated() func(http.Handler) http.Handler {
	return m.RequireRole(RoleAdmin, RoleManager)
}
