package orders

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	rootshared "github.com/balcao/balcao/internal/shared"
)

type CreateOrderRequest struct {
	CustomerID      uuid.UUID           `json:"cliente_id" validate:"required"`
	Items           []CreateLineRequest `json:"itens" validate:"required,min=1,dive"`
	PaymentMethod   PaymentMethod       `json:"forma_pagamento" validate:"required,oneof=dinheiro cartao_debito cartao_credito pix transferencia"`
	Discount        *decimal.Decimal    `json:"desconto"`
	Surcharge       *decimal.Decimal    `json:"acrescimo"`
	Shipping        *decimal.Decimal    `json:"valor_frete"`
	Notes           string              `json:"observacoes" validate:"max=2000"`
	DeliveryAddress string              `json:"endereco_entrega" validate:"max=500"`
}

type CreateLineRequest struct {
	ProductID uuid.UUID        `json:"produto_id" validate:"required"`
	Quantity  decimal.Decimal  `json:"quantidade"`
	UnitPrice *decimal.Decimal `json:"preco_unitario"`
	Discount  *decimal.Decimal `json:"desconto_item"`
}

type UpdateStatusRequest struct {
	Status Status `json:"status" validate:"required,oneof=pendente confirmada entregue cancelada"`
}

type ListOrdersRequest struct {
	rootshared.PageRequest
	Status     *Status
	CustomerID *uuid.UUID
	SellerID   *uuid.UUID
	DateFrom   *time.Time
	DateTo     *time.Time
}
