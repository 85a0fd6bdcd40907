package service

import "github.com/shopspring/decimal"

func lineTotal(price float64, quantity int) decimal.Decimal {
	return decimal.NewFromFloat(price).Mul(decimal.NewFromInt(int64(quantity)))
}

// toAmount rounds to cents for storage in NUMERIC(14,2) columns.
func toAmount(d decimal.Decimal) float64 {
	return d.Round(2).InexactFloat64()
}
