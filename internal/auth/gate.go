package auth

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/balcao/balcao/internal/platform/httpx"
	"github.com/balcao/balcao/internal/rbac"
	"github.com/balcao/balcao/internal/shared"
)

// Gate authenticates bearer tokens and stores the principal in context.
type Gate struct {
	service *Service
	logger  *slog.Logger
}

// NewGate constructs a Gate.
func NewGate(service *Service, logger *slog.Logger) *Gate {
	return &Gate{service: service, logger: logger}
}

// Middleware rejects requests without a valid, unrevoked bearer token.
func (g *Gate) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		raw, ok := bearerToken(r)
		if !ok {
			httpx.Problem(w, http.StatusUnauthorized, shared.CodeUnauthorized, "token de acesso ausente", nil)
			return
		}
		principal, err := g.service.Resolve(r.Context(), raw)
		if err != nil {
			if g.logger != nil && !isAuthFailure(err) {
				g.logger.Error("resolve token", slog.Any("error", err))
			}
			httpx.RespondError(w, err, false)
			return
		}
		next.ServeHTTP(w, r.WithContext(rbac.ContextWithPrincipal(r.Context(), principal)))
	})
}

func bearerToken(r *http.Request) (string, bool) {
	header := strings.TrimSpace(r.Header.Get("Authorization"))
	scheme, token, found := strings.Cut(header, " ")
	if !found || !strings.EqualFold(scheme, "Bearer") {
		return "", false
	}
	token = strings.TrimSpace(token)
	return token, token != ""
}
