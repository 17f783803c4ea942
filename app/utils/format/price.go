package format

import (
	"github.com/leekchan/accounting"
	"github.com/shopspring/decimal"
)

// Prices are Dominican pesos, formatted like es-DO: RD$1,250.00.
var peso = accounting.Accounting{Symbol: "RD$", Precision: 2, Thousand: ",", Decimal: "."}

func Price(amount decimal.Decimal) string {
	return peso.FormatMoneyDecimal(amount)
}

// NullablePrice formats amount, or returns "" when the product has no price.
func NullablePrice(amount decimal.NullDecimal) string {
	if !amount.Valid {
		return ""
	}
	return Price(amount.Decimal)
}

// PriceInput renders amount for an <input type="number"> value.
func PriceInput(amount decimal.NullDecimal) string {
	if !amount.Valid {
		return ""
	}
	return amount.Decimal.StringFixed(2)
}
