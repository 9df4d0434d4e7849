// Package shared holds the money arithmetic used by sales orders.
package shared

import "github.com/shopspring/decimal"

// MoneyPlaces is the number of decimal places kept for monetary values.
const MoneyPlaces = 2

// QuantityPlaces is the number of decimal places allowed for quantities.
const QuantityPlaces = 3

// LineSubtotal returns unitPrice*quantity - discount rounded to cents.
func LineSubtotal(unitPrice, quantity, discount decimal.Decimal) decimal.Decimal {
	return unitPrice.Mul(quantity).Sub(discount).Round(MoneyPlaces)
}

// OrderTotal returns subtotal - discount + surcharge + shipping.
func OrderTotal(subtotal, discount, surcharge, shipping decimal.Decimal) decimal.Decimal {
	return subtotal.Sub(discount).Add(surcharge).Add(shipping).Round(MoneyPlaces)
}

// HasAtMostPlaces reports whether d has no digits beyond places.
func HasAtMostPlaces(d decimal.Decimal, places int32) bool {
	return d.Equal(d.Truncate(places))
}

// OrZero dereferences d, treating nil as zero.
func OrZero(d *decimal.Decimal) decimal.Decimal {
	if d == nil {
		return decimal.Zero
	}
	return *d
}
