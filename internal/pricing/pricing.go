// Package pricing converts base-currency prices into a target currency.
package pricing

import "github.com/shopspring/decimal"

// Scale is the number of fraction digits kept on every price.
const Scale = 2

// Convert returns base*rate rounded to two decimals, ties away from zero.
func Convert(base, rate decimal.Decimal) decimal.Decimal {
	return base.Mul(rate).Round(Scale)
}

// Normalize rounds a user supplied price to the stored scale.
func Normalize(price decimal.Decimal) decimal.Decimal {
	return price.Round(Scale)
}
