package audit

import (
	"context"
	"time"

	rootshared "github.com/balcao/balcao/internal/shared"
)

const (
	defaultPageSize  = 20
	maxPageSize      = 50
	defaultDateRange = 7 * 24 * time.Hour
	maxDateRange     = 90 * 24 * time.Hour
)

// Service reads the audit timeline.
type Service struct {
	repo Repository
	now  func() time.Time
}

// NewService builds a Service.
func NewService(repo Repository) *Service {
	return &Service{repo: repo, now: time.Now}
}

// normalize fills the default window and rejects ranges the timeline does
// not serve.
func (s *Service) normalize(f TimelineFilters) (TimelineFilters, error) {
	if f.To.IsZero() {
		f.To = s.now()
	}
	if f.From.IsZero() {
		f.From = f.To.Add(-defaultDateRange)
	}
	if f.To.Before(f.From) {
		return f, rootshared.Validation("período inválido", map[string]string{"data_fim": "deve ser posterior a data_inicio"})
	}
	if f.To.Sub(f.From) > maxDateRange {
		return f, rootshared.Validation("período inválido", map[string]string{"data_inicio": "intervalo máximo de 90 dias"})
	}
	return f, nil
}

// Timeline returns one page, newest first. It fetches one extra row to
// learn whether a next page exists.
func (s *Service) Timeline(ctx context.Context, filters TimelineFilters) (Result, error) {
	filters, err := s.normalize(filters)
	if err != nil {
		return Result{}, err
	}
	pageSize := filters.PageSize
	if pageSize <= 0 {
		pageSize = defaultPageSize
	}
	if pageSize > maxPageSize {
		pageSize = maxPageSize
	}
	page := filters.Page
	if page <= 0 {
		page = 1
	}
	rows, err := s.repo.Window(ctx, filters, pageSize+1, (page-1)*pageSize)
	if err != nil {
		return Result{}, err
	}
	hasNext := len(rows) > pageSize
	if hasNext {
		rows = rows[:pageSize]
	}
	return Result{Data: rows, Paging: PagingInfo{Page: page, PageSize: pageSize, HasNext: hasNext}}, nil
}

// Export returns the whole filtered window, oldest first.
func (s *Service) Export(ctx context.Context, filters TimelineFilters) ([]Entry, error) {
	filters, err := s.normalize(filters)
	if err != nil {
		return nil, err
	}
	return s.repo.All(ctx, filters)
}
