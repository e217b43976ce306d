package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"productsmgmt/internal/bootstrap"
	"productsmgmt/internal/config"
	"productsmgmt/internal/db"
	"productsmgmt/internal/importer"
	"productsmgmt/internal/logging"
)

func main() {
	var filePath string
	flag.StringVar(&filePath, "file", "", "Path to a product CSV (code,name,priceInBase,available)")
	flag.Parse()

	if filePath == "" {
		flag.Usage()
		os.Exit(2)
	}

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

	f, err := os.Open(filePath)
	if err != nil {
		logger.Fatalf("open file: %v", err)
	}
	defer f.Close()

	start := time.Now()
	res, err := importer.NewCSVImporter(f, svc, logger).Run(ctx)
	if err != nil {
		logger.Fatalf("import failed after %d product(s): %v", res.Created, err)
	}

	fmt.Printf("Imported %d products (%d duplicate, %d rejected) in %s\n",
		res.Created, res.Duplicates, res.Rejected, time.Since(start).Truncate(time.Millisecond))
}
