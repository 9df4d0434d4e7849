// Package users manages the accounts that sign in to the API.
package users

import (
	"time"

	"github.com/google/uuid"

	"github.com/balcao/balcao/internal/rbac"
	rootshared "github.com/balcao/balcao/internal/shared"
)

// User is an account as shown to administrators.
type User struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"nome"`
	Email     string    `json:"email"`
	Role      rbac.Role `json:"perfil"`
	IsActive  bool      `json:"ativo"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// CreateRequest is the body of POST /api/users.
type CreateRequest struct {
	Name     string    `json:"nome" validate:"required,max=150"`
	Email    string    `json:"email" validate:"required,email,max=200"`
	Password string    `json:"senha" validate:"required,min=6,max=72"`
	Role     rbac.Role `json:"perfil" validate:"required,oneof=admin gerente vendedor"`
}

// UpdateRequest is the body of PUT /api/users/{id}.
type UpdateRequest struct {
	Name     string    `json:"nome" validate:"required,max=150"`
	Email    string    `json:"email" validate:"required,email,max=200"`
	Role     rbac.Role `json:"perfil" validate:"required,oneof=admin gerente vendedor"`
	IsActive *bool     `json:"ativo" validate:"required"`
}

// PasswordRequest is the body of PUT /api/users/{id}/password.
type PasswordRequest struct {
	Password string `json:"senha" validate:"required,min=6,max=72"`
}

// ListRequest filters the user listing.
type ListRequest struct {
	rootshared.PageRequest
	Search string
	Role   rbac.Role
}
