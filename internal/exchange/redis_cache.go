package exchange

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"

	"productsmgmt/internal/domain"
)

const redisKeyPrefix = "exchange-rate:"

// RedisCache shares rates between instances; expiry is left to Redis.
type RedisCache struct {
	client redis.Cmdable
	ttl    time.Duration
}

func NewRedisCache(client redis.Cmdable, ttl time.Duration) *RedisCache {
	if ttl <= 0 {
		ttl = DefaultCacheTTL
	}
	return &RedisCache{client: client, ttl: ttl}
}

func (c *RedisCache) Get(ctx context.Context, currency domain.Currency) (decimal.Decimal, bool, error) {
	raw, err := c.client.Get(ctx, redisKeyPrefix+string(currency)).Result()
	if errors.Is(err, redis.Nil) {
		return decimal.Zero, false, nil
	}
	if err != nil {
		return decimal.Zero, false, fmt.Errorf("redis get rate: %w", err)
	}
	rate, err := decimal.NewFromString(raw)
	if err != nil {
		return decimal.Zero, false, fmt.Errorf("redis rate %q: %w", raw, err)
	}
	return rate, true, nil
}

func (c *RedisCache) Set(ctx context.Context, currency domain.Currency, rate decimal.Decimal) error {
	if err := c.client.Set(ctx, redisKeyPrefix+string(currency), rate.String(), c.ttl).Err(); err != nil {
		return fmt.Errorf("redis set rate: %w", err)
	}
	return nil
}
