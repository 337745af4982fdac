// One-shot ingestion job for cron. Exits 0 on success, 1 on any failure.
package main

import (
	"context"

	"RouletteSync/internal/config"
	"RouletteSync/internal/database"
	"RouletteSync/internal/service"
	"RouletteSync/internal/upstream"

	"github.com/sirupsen/logrus"
)

func main() {
	logger := logrus.New()
	logger.SetLevel(logrus.InfoLevel)

	cfg, err := config.Load()
	if err != nil {
		logger.Fatalf("load config: %v", err)
	}

	db, err := database.Open(&cfg.Database, logger)
	if err != nil {
		logger.Fatalf("connect to postgres: %v", err)
	}
	if err := database.Migrate(db); err != nil {
		logger.Fatalf("migrate schema: %v", err)
	}

	source := upstream.NewClient(&cfg.Upstream, logger)
	svc := service.NewIngestService(db, logger, source)

	res, err := svc.Ingest(context.Background())
	if err != nil {
		logger.Fatalf("roulette ingest failed: %v", err)
	}
	logger.Infof("roulette ingest done, processed %d events", res.Processed)
}
