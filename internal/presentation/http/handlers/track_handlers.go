// Package handlers provides HTTP request handlers for the presentation layer.
package handlers

import (
	"net/http"

	"github.com/beaconworks/beacon-go/internal/application/services"
	"github.com/beaconworks/beacon-go/internal/infrastructure/observability/logging"
	"github.com/gin-gonic/gin"
)

// TrackHandlers contains the public ingestion endpoint handlers.
type TrackHandlers struct {
	ingestionService *services.IngestionService
	logger           *logging.ChanneledLogger
}

// NewTrackHandlers creates track handlers with injected dependencies.
func NewTrackHandlers(ingestionService *services.IngestionService, logger *logging.ChanneledLogger) *TrackHandlers {
	return &TrackHandlers{
		ingestionService: ingestionService,
		logger:           logger,
	}
}

type trackRequest struct {
	Events []services.IncomingEvent `json:"events" binding:"required"`
}

// PostTrack handles POST /api/v1/track - ingests a batch of tracking events.
func (h *TrackHandlers) PostTrack(c *gin.Context) {
	var req trackRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	processed, err := h.ingestionService.ProcessBatch(req.Events)
	if err != nil {
		h.logger.Analytics().Error("Batch ingestion failed", "error", err.Error())
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to process events"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "processed": processed})
}

// GetTrack handles GET /api/v1/track - liveness probe for the capture client.
func (h *TrackHandlers) GetTrack(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
