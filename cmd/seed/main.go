package main

import (
	"context"
	"log"

	"productsmgmt/internal/bootstrap"
	"productsmgmt/internal/config"
	"productsmgmt/internal/db"
	"productsmgmt/internal/logging"
	"productsmgmt/internal/seed"
)

func main() {
	cfg, err := config.FromEnv()
	if err != nil {
		log.Fatalf("load config: %v", err)
	}
	logger := logging.New(cfg.Log.Level, cfg.Log.Format)

	ctx := context.Background()
	pool, err := db.Connect(ctx, cfg.DBConnString)
	if err != nil {
		logger.Fatalf("connect db: %v", err)
	}
	defer pool.Close()

	svc, closeCache, err := bootstrap.CatalogService(ctx, cfg, pool, logger, nil)
	if err != nil {
		logger.Fatalf("init catalog: %v", err)
	}
	defer closeCache()

	n, err := seed.Apply(ctx, svc, logger)
	if err != nil {
		logger.Fatalf("seed apply: %v", err)
	}

	logger.Infof("seed applied, %d product(s) created", n)
}
