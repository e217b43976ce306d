// Package exchange obtains currency exchange rates relative to EUR from an
// external provider, caching them for a bounded time.
package exchange

import (
	"context"

	"github.com/shopspring/decimal"

	"productsmgmt/internal/domain"
)

// Provider fetches the current mid rate for a currency. Implementations
// perform exactly one remote call per invocation.
type Provider interface {
	MidRate(ctx context.Context, currency domain.Currency) (decimal.Decimal, error)
}

// Cache stores rates keyed by currency for a configured TTL.
type Cache interface {
	Get(ctx context.Context, currency domain.Currency) (decimal.Decimal, bool, error)
	Set(ctx context.Context, currency domain.Currency, rate decimal.Decimal) error
}
