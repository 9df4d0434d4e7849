package reports

import (
	"context"
	"strconv"

	"github.com/shopspring/decimal"
	"golang.org/x/sync/singleflight"

	rootshared "github.com/balcao/balcao/internal/shared"
)

const (
	defaultTopLimit = 10
	maxTopLimit     = 100
)

// Service builds reports. Identical requests in flight share one query;
// nothing is cached once they return.
type Service struct {
	repo  Repository
	group singleflight.Group
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func (s *Service) do(ctx context.Context, key string, fn func(context.Context) (any, error)) (any, error) {
	// fn runs detached; each caller still returns on its own cancellation.
	shared := context.WithoutCancel(ctx)
	ch := s.group.DoChan(key, func() (any, error) {
		return fn(shared)
	})
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case res := <-ch:
		return res.Val, res.Err
	}
}

func validatePeriod(p Period) error {
	if p.From != nil && p.To != nil && p.To.Before(*p.From) {
		return rootshared.Validation("período inválido", map[string]string{"data_fim": "anterior a data_inicio"})
	}
	return nil
}

// SalesSummary totals non-cancelled sales and breaks them down.
func (s *Service) SalesSummary(ctx context.Context, period Period) (*SalesSummary, error) {
	if err := validatePeriod(period); err != nil {
		return nil, err
	}
	v, err := s.do(ctx, "sales-summary:"+period.key(), func(ctx context.Context) (any, error) {
		totals, err := s.repo.SalesTotals(ctx, period)
		if err != nil {
			return nil, err
		}
		byPayment, err := s.repo.PaymentBreakdown(ctx, period)
		if err != nil {
			return nil, err
		}
		byStatus, err := s.repo.StatusBreakdown(ctx, period)
		if err != nil {
			return nil, err
		}
		summary := &SalesSummary{
			Period:        period,
			Totals:        totals,
			AverageTicket: decimal.Zero,
			ByPayment:     byPayment,
			ByStatus:      byStatus,
		}
		if totals.Count > 0 {
			summary.AverageTicket = totals.Net.Div(decimal.NewFromInt(int64(totals.Count))).Round(2)
		}
		return summary, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(*SalesSummary), nil
}

// TopProducts ranks products by revenue. limit defaults to 10, capped at 100.
func (s *Service) TopProducts(ctx context.Context, period Period, limit int) ([]ProductSales, error) {
	if err := validatePeriod(period); err != nil {
		return nil, err
	}
	if limit <= 0 {
		limit = defaultTopLimit
	}
	if limit > maxTopLimit {
		limit = maxTopLimit
	}
	v, err := s.do(ctx, "top-products:"+period.key()+":"+strconv.Itoa(limit), func(ctx context.Context) (any, error) {
		return s.repo.TopProducts(ctx, period, limit)
	})
	if err != nil {
		return nil, err
	}
	return v.([]ProductSales), nil
}

// LowStock lists active products below their minimum.
func (s *Service) LowStock(ctx context.Context) ([]LowStockItem, error) {
	v, err := s.do(ctx, "low-stock", func(ctx context.Context) (any, error) {
		return s.repo.LowStock(ctx)
	})
	if err != nil {
		return nil, err
	}
	return v.([]LowStockItem), nil
}
