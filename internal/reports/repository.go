package reports

import (
	"context"
	"strconv"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/balcao/balcao/internal/platform/db"
)

type Repository interface {
	SalesTotals(ctx context.Context, period Period) (Totals, error)
	PaymentBreakdown(ctx context.Context, period Period) ([]PaymentTotal, error)
	StatusBreakdown(ctx context.Context, period Period) ([]StatusTotal, error)
	TopProducts(ctx context.Context, period Period, limit int) ([]ProductSales, error)
	LowStock(ctx context.Context) ([]LowStockItem, error)
}

type repository struct {
	pool *pgxpool.Pool
}

func NewRepository(pool *pgxpool.Pool) Repository {
	return &repository{pool: pool}
}

func periodWhere(period Period, excludeCancelled bool) *db.Where {
	var where db.Where
	if excludeCancelled {
		where.Raw(`v.status <> 'cancelada'`)
	}
	if period.From != nil {
		where.Add(`v.created_at >= ?`, *period.From)
	}
	if period.To != nil {
		where.Add(`v.created_at < ?`, period.To.Add(24*time.Hour))
	}
	return &where
}

func (r *repository) SalesTotals(ctx context.Context, period Period) (Totals, error) {
	where := periodWhere(period, true)
	var t Totals
	err := r.pool.QueryRow(ctx, `SELECT COUNT(*), COALESCE(SUM(v.subtotal), 0), COALESCE(SUM(v.desconto), 0), COALESCE(SUM(v.total), 0)
		FROM vendas v`+where.SQL(), where.Args()...).Scan(&t.Count, &t.Gross, &t.Discounts, &t.Net)
	return t, err
}

func (r *repository) PaymentBreakdown(ctx context.Context, period Period) ([]PaymentTotal, error) {
	where := periodWhere(period, true)
	rows, err := r.pool.Query(ctx, `SELECT v.forma_pagamento, COUNT(*), COALESCE(SUM(v.total), 0)
		FROM vendas v`+where.SQL()+` GROUP BY v.forma_pagamento ORDER BY 3 DESC`, where.Args()...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := []PaymentTotal{}
	for rows.Next() {
		var p PaymentTotal
		if err := rows.Scan(&p.Method, &p.Count, &p.Total); err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

func (r *repository) StatusBreakdown(ctx context.Context, period Period) ([]StatusTotal, error) {
	where := periodWhere(period, false)
	rows, err := r.pool.Query(ctx, `SELECT v.status, COUNT(*), COALESCE(SUM(v.total), 0)
		FROM vendas v`+where.SQL()+` GROUP BY v.status ORDER BY v.status`, where.Args()...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := []StatusTotal{}
	for rows.Next() {
		var s StatusTotal
		if err := rows.Scan(&s.Status, &s.Count, &s.Total); err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

func (r *repository) TopProducts(ctx context.Context, period Period, limit int) ([]ProductSales, error) {
	where := periodWhere(period, true)
	args := append(where.Args(), limit)
	rows, err := r.pool.Query(ctx, `SELECT i.produto_id, i.produto_codigo, i.produto_nome, SUM(i.quantidade), SUM(i.subtotal)
		FROM itens_venda i JOIN vendas v ON v.id = i.venda_id`+where.SQL()+`
		GROUP BY i.produto_id, i.produto_codigo, i.produto_nome
		ORDER BY 5 DESC, 4 DESC
		LIMIT $`+strconv.Itoa(len(args)), args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := []ProductSales{}
	for rows.Next() {
		var p ProductSales
		if err := rows.Scan(&p.ProductID, &p.ProductCode, &p.ProductName, &p.Quantity, &p.Revenue); err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

func (r *repository) LowStock(ctx context.Context) ([]LowStockItem, error) {
	rows, err := r.pool.Query(ctx, `SELECT p.id, p.codigo, p.nome, e.quantidade_atual, e.quantidade_minima
		FROM estoque e JOIN produtos p ON p.id = e.produto_id
		WHERE p.ativo AND e.quantidade_atual < e.quantidade_minima
		ORDER BY e.quantidade_minima - e.quantidade_atual DESC, p.nome`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := []LowStockItem{}
	for rows.Next() {
		var item LowStockItem
		if err := rows.Scan(&item.ProductID, &item.ProductCode, &item.ProductName, &item.Quantity, &item.Minimum); err != nil {
			return nil, err
		}
		item.Shortage = item.Minimum - item.Quantity
		out = append(out, item)
	}
	return out, rows.Err()
}
