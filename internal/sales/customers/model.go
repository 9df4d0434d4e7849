package customers

import (
	"time"

	"github.com/google/uuid"
)

type Customer struct {
	ID         uuid.UUID `json:"id"`
	Name       string    `json:"nome"`
	Document   string    `json:"cpf_cnpj"`
	Email      string    `json:"email"`
	Phone      string    `json:"telefone"`
	Address    string    `json:"endereco"`
	City       string    `json:"cidade"`
	State      string    `json:"estado"`
	PostalCode string    `json:"cep"`
	IsActive   bool      `json:"ativo"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}
