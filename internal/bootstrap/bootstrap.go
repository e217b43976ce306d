// Package bootstrap assembles the catalog service from configuration; the
// api, seed and importer binaries share it.
package bootstrap

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/sirupsen/logrus"

	"productsmgmt/internal/config"
	"productsmgmt/internal/db"
	"productsmgmt/internal/exchange"
	"productsmgmt/internal/metrics"
	productrepo "productsmgmt/internal/repository/product"
	productsvc "productsmgmt/internal/service/product"
)

// RateCache picks the cache backend named in cfg. The returned close func
// releases any connection it opened and is never nil.
func RateCache(ctx context.Context, cfg config.Config, logger *logrus.Logger) (exchange.Cache, func(), error) {
	switch cfg.RateCache.Backend {
	case "redis":
		client, err := db.ConnectRedis(ctx, cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
		if err != nil {
			return nil, func() {}, fmt.Errorf("connect redis: %w", err)
		}
		logger.WithField("addr", cfg.Redis.Addr).Info("rate cache: redis")
		return exchange.NewRedisCache(client, cfg.RateCache.TTL), func() { _ = client.Close() }, nil
	default:
		logger.WithField("ttl", cfg.RateCache.TTL).Info("rate cache: in-memory")
		return exchange.NewMemoryCache(cfg.RateCache.TTL), func() {}, nil
	}
}

// CatalogService wires repository, exchange gateway and service together.
func CatalogService(ctx context.Context, cfg config.Config, pool *pgxpool.Pool, logger *logrus.Logger, m *metrics.Metrics) (*productsvc.Service, func(), error) {
	cache, closeCache, err := RateCache(ctx, cfg, logger)
	if err != nil {
		return nil, closeCache, err
	}
	hnb := exchange.NewHNBClient(cfg.Exchange.BaseURL, cfg.Exchange.URIPath, cfg.Exchange.Timeout)
	gateway := exchange.NewGateway(hnb, cache, cfg.Exchange.RetryDelay, logger, m)
	repo := productrepo.NewPostgres(pool, logger)
	return productsvc.New(repo, gateway, logger, m), closeCache, nil
}
