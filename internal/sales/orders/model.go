package orders

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type PaymentMethod string

const (
	PaymentCash         PaymentMethod = "dinheiro"
	PaymentDebitCard    PaymentMethod = "cartao_debito"
	PaymentCreditCard   PaymentMethod = "cartao_credito"
	PaymentPix          PaymentMethod = "pix"
	PaymentBankTransfer PaymentMethod = "transferencia"
)

type Status string

const (
	StatusPending   Status = "pendente"
	StatusConfirmed Status = "confirmada"
	StatusDelivered Status = "entregue"
	StatusCancelled Status = "cancelada"
)

// Valid reports whether s is a known status.
func (s Status) Valid() bool {
	switch s {
	case StatusPending, StatusConfirmed, StatusDelivered, StatusCancelled:
		return true
	}
	return false
}

// Order is a recorded sale.
type Order struct {
	ID              uuid.UUID       `json:"id"`
	Number          int             `json:"numero"`
	CustomerID      uuid.UUID       `json:"cliente_id"`
	SellerID        uuid.UUID       `json:"vendedor_id"`
	Subtotal        decimal.Decimal `json:"subtotal"`
	Discount        decimal.Decimal `json:"desconto"`
	Surcharge       decimal.Decimal `json:"acrescimo"`
	Shipping        decimal.Decimal `json:"valor_frete"`
	Total           decimal.Decimal `json:"total"`
	PaymentMethod   PaymentMethod   `json:"forma_pagamento"`
	Notes           string          `json:"observacoes"`
	DeliveryAddress string          `json:"endereco_entrega"`
	Status          Status          `json:"status"`
	CreatedAt       time.Time       `json:"created_at"`
	UpdatedAt       time.Time       `json:"updated_at"`
	Lines           []Line          `json:"itens,omitempty"`
}

// Line is one product snapshot within an order.
type Line struct {
	ID          uuid.UUID       `json:"id"`
	OrderID     uuid.UUID       `json:"venda_id"`
	ProductID   uuid.UUID       `json:"produto_id"`
	ProductName string          `json:"produto_nome"`
	ProductCode string          `json:"produto_codigo"`
	Quantity    decimal.Decimal `json:"quantidade"`
	UnitPrice   decimal.Decimal `json:"preco_unitario"`
	Discount    decimal.Decimal `json:"desconto_item"`
	Subtotal    decimal.Decimal `json:"subtotal"`
	Position    int             `json:"ordem"`
}

// OrderWithDetails adds display names for listings.
type OrderWithDetails struct {
	Order
	CustomerName string `json:"cliente_nome"`
	SellerName   string `json:"vendedor_nome"`
}

// Product is the catalog data an order line needs.
type Product struct {
	ID        uuid.UUID
	Code      string
	Name      string
	SalePrice decimal.Decimal
	IsActive  bool
}
