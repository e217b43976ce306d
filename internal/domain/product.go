package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// CodeLength is the exact length of a product business code.
const CodeLength = 10

// Product is a catalog entry. PriceBase is in EUR; PriceConverted holds the
// USD price computed once at creation and is nil until then.
type Product struct {
	ID             int64
	Code           string
	Name           string
	PriceBase      decimal.Decimal
	PriceConverted *decimal.Decimal
	Available      bool
	CreatedAt      time.Time
}
