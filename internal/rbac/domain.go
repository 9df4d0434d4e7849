package rbac

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Role is the coarse permission level of a user.
type Role string

const (
	RoleAdmin   Role = "admin"
	RoleManager Role = "gerente"
	RoleSeller  Role = "vendedor"
)

// Valid reports whether r is a known role.
func (r Role) Valid() bool {
	switch r {
	case RoleAdmin, RoleManager, RoleSeller:
		return true
	}
	return false
}

// Elevated reports whether r may change sales status, stock and catalog.
func (r Role) Elevated() bool {
	return r == RoleAdmin || r == RoleManager
}

// Principal describes the authenticated actor.
type Principal struct {
	ID        uuid.UUID
	Role      Role
	TokenID   string
	ExpiresAt time.Time
}

type principalContextKey struct{}

// ContextWithPrincipal stores the principal in context.
func ContextWithPrincipal(ctx context.Context, p Principal) context.Context {
	return context.WithValue(ctx, principalContextKey{}, p)
}

// PrincipalFromContext extracts the principal from context.
func PrincipalFromContext(ctx context.Context) (Principal, bool) {
	p, ok := ctx.Value(principalContextKey{}).(Principal)
	return p, ok && p.ID != uuid.Nil
}
