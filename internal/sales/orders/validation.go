package orders

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/balcao/balcao/internal/sales/shared"
	rootshared "github.com/balcao/balcao/internal/shared"
)

var paymentMethods = map[PaymentMethod]struct{}{
	PaymentCash: {}, PaymentDebitCard: {}, PaymentCreditCard: {}, PaymentPix: {}, PaymentBankTransfer: {},
}

// validateCreate checks everything that does not need the store.
func validateCreate(req CreateOrderRequest) error {
	details := map[string]string{}
	if req.CustomerID == uuid.Nil {
		details["cliente_id"] = "campo obrigatório"
	}
	if _, ok := paymentMethods[req.PaymentMethod]; !ok {
		details["forma_pagamento"] = "deve ser um de: dinheiro cartao_debito cartao_credito pix transferencia"
	}
	if len(req.Items) == 0 {
		details["itens"] = "informe ao menos um item"
	}
	for i, item := range req.Items {
		prefix := fmt.Sprintf("itens[%d].", i)
		if item.ProductID == uuid.Nil {
			details[prefix+"produto_id"] = "campo obrigatório"
		}
		switch {
		case !item.Quantity.IsPositive():
			details[prefix+"quantidade"] = "deve ser maior que 0"
		case !shared.HasAtMostPlaces(item.Quantity, shared.QuantityPlaces):
			details[prefix+"quantidade"] = "máximo de 3 casas decimais"
		}
		checkMoney(details, prefix+"preco_unitario", item.UnitPrice)
		checkMoney(details, prefix+"desconto_item", item.Discount)
	}
	checkMoney(details, "desconto", req.Discount)
	checkMoney(details, "acrescimo", req.Surcharge)
	checkMoney(details, "valor_frete", req.Shipping)

	if len(details) > 0 {
		return rootshared.Validation("dados da venda inválidos", details)
	}
	return nil
}

func checkMoney(details map[string]string, field string, v *decimal.Decimal) {
	if v == nil {
		return
	}
	switch {
	case v.IsNegative():
		details[field] = "não pode ser negativo"
	case !shared.HasAtMostPlaces(*v, shared.MoneyPlaces):
		details[field] = "máximo de 2 casas decimais"
	}
}
