package customers

import (
	"context"
	"strings"

	"github.com/google/uuid"

	rootshared "github.com/balcao/balcao/internal/shared"
)

// ErrCustomerNotFound is returned for unknown customer ids.
var ErrCustomerNotFound = rootshared.NotFound("", "cliente não encontrado")

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func (s *Service) Create(ctx context.Context, req CustomerRequest) (*Customer, error) {
	c, err := normalize(req)
	if err != nil {
		return nil, err
	}
	return s.repo.Create(ctx, c)
}

func (s *Service) Update(ctx context.Context, id uuid.UUID, req CustomerRequest) (*Customer, error) {
	c, err := normalize(req)
	if err != nil {
		return nil, err
	}
	return s.repo.Update(ctx, id, c)
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (*Customer, error) {
	return s.repo.Get(ctx, id)
}

func (s *Service) List(ctx context.Context, req ListCustomersRequest) ([]Customer, int, error) {
	return s.repo.List(ctx, req)
}

// Delete deactivates the customer; existing sales keep the reference.
func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	return s.repo.Deactivate(ctx, id)
}

func normalize(req CustomerRequest) (Customer, error) {
	c := Customer{
		Name:       strings.TrimSpace(req.Name),
		Document:   digits(req.Document),
		Email:      strings.ToLower(strings.TrimSpace(req.Email)),
		Phone:      strings.TrimSpace(req.Phone),
		Address:    strings.TrimSpace(req.Address),
		City:       strings.TrimSpace(req.City),
		State:      strings.ToUpper(strings.TrimSpace(req.State)),
		PostalCode: digits(req.PostalCode),
		IsActive:   true,
	}
	if req.IsActive != nil {
		c.IsActive = *req.IsActive
	}
	details := map[string]string{}
	if c.Name == "" {
		details["nome"] = "campo obrigatório"
	}
	// CPF has 11 digits, CNPJ 14.
	if c.Document != "" && len(c.Document) != 11 && len(c.Document) != 14 {
		details["cpf_cnpj"] = "deve ter 11 (CPF) ou 14 (CNPJ) dígitos"
	}
	if c.PostalCode != "" && len(c.PostalCode) != 8 {
		details["cep"] = "deve ter 8 dígitos"
	}
	if len(details) > 0 {
		return Customer{}, rootshared.Validation("dados inválidos", details)
	}
	return c, nil
}

func digits(v string) string {
	var b strings.Builder
	for _, r := range v {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}
