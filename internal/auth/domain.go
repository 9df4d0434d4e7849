package auth

import (
	"time"

	"github.com/google/uuid"

	"github.com/balcao/balcao/internal/rbac"
)

// User represents an authenticated user account.
type User struct {
	ID           uuid.UUID `json:"id"`
	Name         string    `json:"nome"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	Role         rbac.Role `json:"perfil"`
	IsActive     bool      `json:"ativo"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

type loginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"senha" validate:"required,min=6"`
}

type loginResponse struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expira_em"`
	User      *User     `json:"usuario"`
}
