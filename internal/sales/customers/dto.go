package customers

import rootshared "github.com/balcao/balcao/internal/shared"

type CustomerRequest struct {
	Name       string `json:"nome" validate:"required,max=200"`
	Document   string `json:"cpf_cnpj" validate:"omitempty,max=20"`
	Email      string `json:"email" validate:"omitempty,email,max=200"`
	Phone      string `json:"telefone" validate:"omitempty,max=30"`
	Address    string `json:"endereco" validate:"max=500"`
	City       string `json:"cidade" validate:"max=100"`
	State      string `json:"estado" validate:"omitempty,len=2,alpha"`
	PostalCode string `json:"cep" validate:"omitempty,max=10"`
	IsActive   *bool  `json:"ativo"`
}

type ListCustomersRequest struct {
	rootshared.PageRequest
	Search   string
	IsActive *bool
}
