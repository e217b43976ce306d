package exchange

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/singleflight"

	"productsmgmt/internal/domain"
	"productsmgmt/internal/logging"
	"productsmgmt/internal/metrics"
)

const maxAttempts = 2

// DefaultRetryDelay is the pause between the first failed fetch and the retry.
const DefaultRetryDelay = 2 * time.Second

// fetchTimeout bounds a shared fetch, which outlives any single caller.
const fetchTimeout = 30 * time.Second

// Gateway resolves exchange rates: cache first, then the provider with one
// delayed retry. Concurrent misses for the same currency share one fetch.
type Gateway struct {
	provider   Provider
	cache      Cache
	retryDelay time.Duration
	timeout    time.Duration
	logger     *logrus.Logger
	metrics    *metrics.Metrics
	flights    singleflight.Group
}

func NewGateway(provider Provider, cache Cache, retryDelay time.Duration, logger *logrus.Logger, m *metrics.Metrics) *Gateway {
	if retryDelay < 0 {
		retryDelay = 0
	}
	return &Gateway{
		provider:   provider,
		cache:      cache,
		retryDelay: retryDelay,
		timeout:    fetchTimeout,
		logger:     logging.OrDiscard(logger),
		metrics:    m,
	}
}

// Rate returns the EUR based rate for currency. Provider failures surface as
// domain.ErrRateUnavailable once the retry is exhausted.
func (g *Gateway) Rate(ctx context.Context, currency domain.Currency) (decimal.Decimal, error) {
	if !currency.Supported() {
		return decimal.Zero, domain.Errorf(domain.ErrInvalidInput, "unsupported currency %q", string(currency))
	}
	if rate, ok := g.cached(ctx, currency); ok {
		return rate, nil
	}

	// the shared fetch is detached from ctx; a caller stops waiting only on
	// its own cancellation
	ch := g.flights.DoChan(string(currency), func() (any, error) {
		fetchCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), g.timeout)
		defer cancel()
		return g.fetch(fetchCtx, currency)
	})
	select {
	case <-ctx.Done():
		return decimal.Zero, domain.Errorf(domain.ErrRateUnavailable, "failed to fetch exchange rate for currency: %s: %v", string(currency), ctx.Err())
	case res := <-ch:
		if res.Err != nil {
			return decimal.Zero, res.Err
		}
		if res.Shared {
			g.logger.WithField("currency", currency).Debug("exchange: joined in-flight rate fetch")
		}
		return res.Val.(decimal.Decimal), nil
	}
}

func (g *Gateway) cached(ctx context.Context, currency domain.Currency) (decimal.Decimal, bool) {
	if g.cache == nil {
		return decimal.Zero, false
	}
	rate, ok, err := g.cache.Get(ctx, currency)
	if err != nil {
		g.logger.WithError(err).WithField("currency", currency).Warn("exchange: rate cache read failed")
		ok = false
	}
	g.metrics.RateCache(ok)
	return rate, ok
}

func (g *Gateway) fetch(ctx context.Context, currency domain.Currency) (decimal.Decimal, error) {
	code := string(currency)
	for attempt := 1; attempt <= maxAttempts; attempt++ {
		g.logger.WithFields(logrus.Fields{"currency": code, "attempt": attempt}).Info("exchange: fetching rate")

		rate, err := g.provider.MidRate(ctx, currency)
		if err == nil {
			g.metrics.RateFetch(code, "success")
			g.store(ctx, currency, rate)
			return rate, nil
		}

		g.metrics.RateFetch(code, "error")
		g.logger.WithError(err).WithFields(logrus.Fields{"currency": code, "attempt": attempt}).Warn("exchange: rate fetch failed")

		if attempt == maxAttempts {
			break
		}
		timer := time.NewTimer(g.retryDelay)
		select {
		case <-ctx.Done():
			timer.Stop()
			return decimal.Zero, domain.Errorf(domain.ErrRateUnavailable, "failed to fetch exchange rate for currency: %s: %v", code, ctx.Err())
		case <-timer.C:
		}
	}
	g.logger.WithField("currency", code).Error("exchange: rate unavailable after retry")
	return decimal.Zero, domain.Errorf(domain.ErrRateUnavailable, "failed to fetch exchange rate for currency: %s", code)
}

func (g *Gateway) store(ctx context.Context, currency domain.Currency, rate decimal.Decimal) {
	if g.cache == nil {
		return
	}
	if err := g.cache.Set(ctx, currency, rate); err != nil {
		g.logger.WithError(err).WithField("currency", currency).Warn("exchange: rate cache write failed")
	}
}
