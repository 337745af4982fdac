// One-shot retention job for cron. Exits 0 on success, 1 on any failure.
package main

import (
	"context"

	"RouletteSync/internal/config"
	"RouletteSync/internal/database"
	"RouletteSync/internal/service"

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

	svc := service.NewPruneService(db, logger, cfg.Retention.Months)

	res, err := svc.Prune(context.Background())
	if err != nil {
		logger.Fatalf("roulette prune failed: %v", err)
	}
	logger.Infof("roulette prune done, deleted %d events", res.Deleted)
}
