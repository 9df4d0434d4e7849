package products

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type ProductForm struct {
	Code         string           `json:"codigo" validate:"required,max=50"`
	Name         string           `json:"nome" validate:"required,max=200"`
	Description  string           `json:"descricao" validate:"max=2000"`
	CategoryID   *uuid.UUID       `json:"categoria_id"`
	SupplierID   *uuid.UUID       `json:"fornecedor_id"`
	CostPrice    *decimal.Decimal `json:"preco_custo"`
	SalePrice    *decimal.Decimal `json:"preco_venda"`
	Unit         string           `json:"unidade" validate:"max=10"`
	IsActive     *bool            `json:"ativo"`
	MinimumStock *int             `json:"estoque_minimo" validate:"omitempty,gte=0"`
}
