package exchange

import (
	"context"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"productsmgmt/internal/domain"
)

// DefaultCacheTTL is how long a fetched rate is served without refetching.
const DefaultCacheTTL = time.Hour

type cachedRate struct {
	rate      decimal.Decimal
	timestamp time.Time
}

// MemoryCache is a process local rate cache.
type MemoryCache struct {
	mu    sync.RWMutex
	rates map[domain.Currency]cachedRate
	ttl   time.Duration
	now   func() time.Time
}

func NewMemoryCache(ttl time.Duration) *MemoryCache {
	if ttl <= 0 {
		ttl = DefaultCacheTTL
	}
	return &MemoryCache{
		rates: make(map[domain.Currency]cachedRate),
		ttl:   ttl,
		now:   time.Now,
	}
}

func (c *MemoryCache) Get(_ context.Context, currency domain.Currency) (decimal.Decimal, bool, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	entry, ok := c.rates[currency]
	if !ok || c.now().Sub(entry.timestamp) > c.ttl {
		return decimal.Zero, false, nil
	}
	return entry.rate, true, nil
}

func (c *MemoryCache) Set(_ context.Context, currency domain.Currency, rate decimal.Decimal) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.rates[currency] = cachedRate{rate: rate, timestamp: c.now()}
	return nil
}
