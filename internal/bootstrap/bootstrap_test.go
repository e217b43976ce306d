package bootstrap

import (
	"context"
	"testing"
	"time"

	"productsmgmt/internal/config"
	"productsmgmt/internal/exchange"
	"productsmgmt/internal/logging"
)

func TestRateCacheMemory(t *testing.T) {
	cfg := config.Config{RateCache: config.RateCacheConfig{Backend: "memory", TTL: time.Minute}}

	cache, closeFn, err := RateCache(context.Background(), cfg, logging.Discard())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	defer closeFn()
	if _, ok := cache.(*exchange.MemoryCache); !ok {
		t.Fatalf("expected memory cache, got %T", cache)
	}
}

func TestRateCacheRedisUnreachable(t *testing.T) {
	cfg := config.Config{
		RateCache: config.RateCacheConfig{Backend: "redis", TTL: time.Minute},
		Redis:     config.RedisConfig{Addr: "127.0.0.1:1"},
	}
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	_, closeFn, err := RateCache(ctx, cfg, logging.Discard())
	if err == nil {
		t.Fatalf("expected error for unreachable redis")
	}
	closeFn()
}
