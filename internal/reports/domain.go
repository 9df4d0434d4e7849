// Package reports aggregates sales and stock figures for managers.
package reports

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Period bounds a report. Nil ends are open; To is inclusive of its day.
type Period struct {
	From *time.Time `json:"data_inicio"`
	To   *time.Time `json:"data_fim"`
}

func (p Period) key() string {
	format := func(t *time.Time) string {
		if t == nil {
			return "-"
		}
		return t.Format(time.RFC3339)
	}
	return format(p.From) + "/" + format(p.To)
}

// Totals are the sums over non-cancelled sales in a period.
type Totals struct {
	Count     int             `json:"quantidade_vendas"`
	Gross     decimal.Decimal `json:"total_bruto"`
	Discounts decimal.Decimal `json:"total_descontos"`
	Net       decimal.Decimal `json:"total_liquido"`
}

// PaymentTotal groups non-cancelled sales by payment method.
type PaymentTotal struct {
	Method string          `json:"forma_pagamento"`
	Count  int             `json:"quantidade"`
	Total  decimal.Decimal `json:"total"`
}

// StatusTotal groups every sale by status, cancelled included.
type StatusTotal struct {
	Status string          `json:"status"`
	Count  int             `json:"quantidade"`
	Total  decimal.Decimal `json:"total"`
}

// SalesSummary is the response of the sales-summary report.
type SalesSummary struct {
	Period        Period          `json:"periodo"`
	Totals        Totals          `json:"totais"`
	AverageTicket decimal.Decimal `json:"ticket_medio"`
	ByPayment     []PaymentTotal  `json:"por_forma_pagamento"`
	ByStatus      []StatusTotal   `json:"por_status"`
}

// ProductSales ranks products by revenue.
type ProductSales struct {
	ProductID   uuid.UUID       `json:"produto_id"`
	ProductCode string          `json:"produto_codigo"`
	ProductName string          `json:"produto_nome"`
	Quantity    decimal.Decimal `json:"quantidade"`
	Revenue     decimal.Decimal `json:"receita"`
}

// LowStockItem is a product whose stock is under its minimum.
type LowStockItem struct {
	ProductID   uuid.UUID `json:"produto_id"`
	ProductCode string    `json:"produto_codigo"`
	ProductName string    `json:"produto_nome"`
	Quantity    int       `json:"quantidade_atual"`
	Minimum     int       `json:"quantidade_minima"`
	Shortage    int       `json:"falta"`
}
