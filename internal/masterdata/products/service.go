package products

import (
	"context"

	"github.com/google/uuid"

	"github.com/balcao/balcao/internal/masterdata/shared"
)

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func (s *Service) List(ctx context.Context, filters shared.ListFilters) ([]Product, int, error) {
	return s.repo.List(ctx, filters)
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (Product, error) {
	return s.repo.Get(ctx, id)
}

func (s *Service) Create(ctx context.Context, form ProductForm) (Product, error) {
	product, err := normalize(form)
	if err != nil {
		return Product{}, err
	}
	return s.repo.Create(ctx, product, form.MinimumStock)
}

// Update replaces the product's catalog data. estoque_minimo is ignored
// here; the stock module owns the minimum once the row exists.
func (s *Service) Update(ctx context.Context, id uuid.UUID, form ProductForm) (Product, error) {
	product, err := normalize(form)
	if err != nil {
		return Product{}, err
	}
	return s.repo.Update(ctx, id, product)
}

// Delete deactivates the product so order lines keep their reference.
func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	return s.repo.Deactivate(ctx, id)
}
