package products

import (
	"strings"

	"github.com/shopspring/decimal"

	"github.com/balcao/balcao/internal/masterdata/shared"
	rootshared "github.com/balcao/balcao/internal/shared"
)

const defaultUnit = "UN"

func normalize(form ProductForm) (Product, error) {
	p := Product{
		Code:        strings.TrimSpace(form.Code),
		Name:        strings.TrimSpace(form.Name),
		Description: strings.TrimSpace(form.Description),
		CategoryID:  form.CategoryID,
		SupplierID:  form.SupplierID,
		Unit:        strings.ToUpper(strings.TrimSpace(form.Unit)),
		IsActive:    true,
	}
	if p.Unit == "" {
		p.Unit = defaultUnit
	}
	if form.IsActive != nil {
		p.IsActive = *form.IsActive
	}
	if err := shared.RequireText(map[string]string{"codigo": p.Code, "nome": p.Name}); err != nil {
		return Product{}, err
	}

	details := map[string]string{}
	switch {
	case form.SalePrice == nil:
		details["preco_venda"] = "campo obrigatório"
	case form.SalePrice.IsNegative():
		details["preco_venda"] = "não pode ser negativo"
	default:
		p.SalePrice = form.SalePrice.Round(2)
	}
	if form.CostPrice != nil {
		if form.CostPrice.IsNegative() {
			details["preco_custo"] = "não pode ser negativo"
		} else {
			p.CostPrice = form.CostPrice.Round(2)
		}
	} else {
		p.CostPrice = decimal.Zero
	}
	if len(details) > 0 {
		return Product{}, rootshared.Validation("dados inválidos", details)
	}
	return p, nil
}
