package suppliers

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

func (s *Service) List(ctx context.Context, filters shared.ListFilters) ([]Supplier, int, error) {
	return s.repo.List(ctx, filters)
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (Supplier, error) {
	return s.repo.Get(ctx, id)
}

func (s *Service) Create(ctx context.Context, form SupplierForm) (Supplier, error) {
	supplier, err := normalize(form)
	if err != nil {
		return Supplier{}, err
	}
	return s.repo.Create(ctx, supplier)
}

func (s *Service) Update(ctx context.Context, id uuid.UUID, form SupplierForm) (Supplier, error) {
	supplier, err := normalize(form)
	if err != nil {
		return Supplier{}, err
	}
	return s.repo.Update(ctx, id, supplier)
}

// Delete deactivates the supplier; products keep their reference.
func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	return s.repo.Deactivate(ctx, id)
}
