package api

import (
	"fmt"
	"net/http"

	"RouletteSync/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

// RouletteHandler exposes the ingest and prune triggers over HTTP. Failures
// return an opaque 500; internal detail stays in the logs and the error log
// table.
type RouletteHandler struct {
	ingest *service.IngestService
	prune  *service.PruneService
	logger *logrus.Logger
}

func NewRouletteHandler(ingest *service.IngestService, prune *service.PruneService, logger *logrus.Logger) *RouletteHandler {
	return &RouletteHandler{
		ingest: ingest,
		prune:  prune,
		logger: logger,
	}
}

// IngestHandler triggers one ingestion run
// @Summary Ingest settled roulette rounds from the upstream history API
// @Success 200 {object} map[string]interface{}
// @Failure 500 {object} map[string]string
// @Router /ingest/roulette [post]
func (h *RouletteHandler) IngestHandler(c *gin.Context) {
	res, err := h.ingest.Ingest(c.Request.Context())
	if err != nil {
		h.logger.Errorf("roulette ingest failed: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":         fmt.Sprintf("ingested %d roulette events", res.Processed),
		"processedEvents": res.Processed,
	})
}

// PruneHandler triggers one retention run
// @Summary Delete roulette rounds older than the retention window
// @Success 200 {object} map[string]interface{}
// @Failure 500 {object} map[string]string
// @Router /prune/roulette [post]
func (h *RouletteHandler) PruneHandler(c *gin.Context) {
	res, err := h.prune.Prune(c.Request.Context())
	if err != nil {
		h.logger.Errorf("roulette prune failed: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":       fmt.Sprintf("pruned %d roulette events", res.Deleted),
		"deletedEvents": res.Deleted,
	})
}

// Healthz reports liveness.
func (h *RouletteHandler) Healthz(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
