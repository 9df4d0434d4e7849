package categories

import (
	"context"
	"strings"

	"github.com/google/uuid"

	"github.com/balcao/balcao/internal/masterdata/shared"
)

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func (s *Service) List(ctx context.Context, filters shared.ListFilters) ([]Category, int, error) {
	return s.repo.List(ctx, filters)
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (Category, error) {
	return s.repo.Get(ctx, id)
}

func (s *Service) Create(ctx context.Context, form CategoryForm) (Category, error) {
	c := form.toCategory()
	c.Name = strings.TrimSpace(c.Name)
	if err := shared.RequireText(map[string]string{"nome": c.Name}); err != nil {
		return Category{}, err
	}
	return s.repo.Create(ctx, c)
}

func (s *Service) Update(ctx context.Context, id uuid.UUID, form CategoryForm) (Category, error) {
	c := form.toCategory()
	c.Name = strings.TrimSpace(c.Name)
	if err := shared.RequireText(map[string]string{"nome": c.Name}); err != nil {
		return Category{}, err
	}
	return s.repo.Update(ctx, id, c)
}

func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	return s.repo.Delete(ctx, id)
}
