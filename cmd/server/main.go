package main

import (
	"fmt"

	"RouletteSync/internal/api"
	"RouletteSync/internal/config"
	"RouletteSync/internal/database"
	"RouletteSync/internal/service"
	"RouletteSync/internal/upstream"

	"github.com/gin-contrib/pprof"
	"github.com/gin-gonic/gin"
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
	logger.Info("postgres connected, schema checked")

	source := upstream.NewClient(&cfg.Upstream, logger)
	ingestSvc := service.NewIngestService(db, logger, source)
	pruneSvc := service.NewPruneService(db, logger, cfg.Retention.Months)

	gin.SetMode(cfg.Server.Mode)
	r := gin.Default()
	pprof.Register(r)

	handler := api.NewRouletteHandler(ingestSvc, pruneSvc, logger)
	r.POST("/ingest/roulette", handler.IngestHandler)
	r.POST("/prune/roulette", handler.PruneHandler)
	r.GET("/healthz", handler.Healthz)

	logger.Infof("listening on :%d", cfg.Server.Port)
	if err := r.Run(fmt.Sprintf(":%d", cfg.Server.Port)); err != nil {
		logger.Fatalf("server stopped: %v", err)
	}
}
