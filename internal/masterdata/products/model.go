package products

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Product represents a product entity
type Product struct {
	ID          uuid.UUID       `json:"id"`
	Code        string          `json:"codigo"`
	Name        string          `json:"nome"`
	Description string          `json:"descricao"`
	CategoryID  *uuid.UUID      `json:"categoria_id"`
	SupplierID  *uuid.UUID      `json:"fornecedor_id"`
	CostPrice   decimal.Decimal `json:"preco_custo"`
	SalePrice   decimal.Decimal `json:"preco_venda"`
	Unit        string          `json:"unidade"`
	IsActive    bool            `json:"ativo"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
}
