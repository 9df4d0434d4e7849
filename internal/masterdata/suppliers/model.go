package suppliers

import (
	"time"

	"github.com/google/uuid"
)

// Supplier represents a supplier entity
type Supplier struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"nome"`
	CNPJ      string    `json:"cnpj"`
	Email     string    `json:"email"`
	Phone     string    `json:"telefone"`
	Address   string    `json:"endereco"`
	Contact   string    `json:"contato"`
	IsActive  bool      `json:"ativo"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// SupplierForm is the create/update payload.
type SupplierForm struct {
	Name     string `json:"nome" validate:"required,max=200"`
	CNPJ     string `json:"cnpj" validate:"omitempty,max=20"`
	Email    string `json:"email" validate:"omitempty,email,max=200"`
	Phone    string `json:"telefone" validate:"omitempty,max=30"`
	Address  string `json:"endereco" validate:"max=500"`
	Contact  string `json:"contato" validate:"max=150"`
	IsActive *bool  `json:"ativo"`
}
