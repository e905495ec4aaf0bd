package handlers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/beaconworks/beacon-go/internal/application/services"
	"github.com/beaconworks/beacon-go/internal/domain/analytics"
	"github.com/beaconworks/beacon-go/internal/infrastructure/observability/logging"
	"github.com/gin-gonic/gin"
)

// AnalyticsHandlers contains the admin analytics endpoint handlers.
type AnalyticsHandlers struct {
	heatmapService *services.HeatmapService
	statsService   *services.StatsService
	logger         *logging.ChanneledLogger
}

// NewAnalyticsHandlers creates analytics handlers with injected dependencies.
func NewAnalyticsHandlers(heatmapService *services.HeatmapService, statsService *services.StatsService, logger *logging.ChanneledLogger) *AnalyticsHandlers {
	return &AnalyticsHandlers{
		heatmapService: heatmapService,
		statsService:   statsService,
		logger:         logger,
	}
}

// GetHeatmap handles GET /api/v1/analytics/heatmap - aggregated pointer density for a page.
func (h *AnalyticsHandlers) GetHeatmap(c *gin.Context) {
	page := c.Query("page")
	if page == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "page query parameter is required"})
		return
	}

	eventType := c.DefaultQuery("type", analytics.EventTypeClick)
	filter, ok := parseEventFilter(c)
	if !ok {
		return
	}

	cells, err := h.heatmapService.GetHeatmap(page, eventType, filter)
	if err != nil {
		h.logger.Analytics().Error("Heatmap aggregation failed", "error", err.Error(), "page", page)
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"heatmapData": cells})
}

// GetScrollDepth handles GET /api/v1/analytics/scroll - scroll depth buckets for a page.
func (h *AnalyticsHandlers) GetScrollDepth(c *gin.Context) {
	page := c.Query("page")
	if page == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "page query parameter is required"})
		return
	}

	filter, ok := parseEventFilter(c)
	if !ok {
		return
	}

	buckets, err := h.heatmapService.GetScrollDepth(page, filter)
	if err != nil {
		h.logger.Analytics().Error("Scroll depth aggregation failed", "error", err.Error(), "page", page)
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"scrollData": buckets})
}

// GetStats handles GET /api/v1/analytics/stats - session KPIs for a window.
func (h *AnalyticsHandlers) GetStats(c *gin.Context) {
	var start, end time.Time
	var ok bool
	if start, ok = parseTimeParam(c, "from"); !ok {
		return
	}
	if end, ok = parseTimeParam(c, "to"); !ok {
		return
	}

	stats, err := h.statsService.GetSessionStats(start, end)
	if err != nil {
		h.logger.Analytics().Error("Stats computation failed", "error", err.Error())
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, stats)
}

// GetTrackedPages handles GET /api/v1/analytics/pages - pages with recorded events.
func (h *AnalyticsHandlers) GetTrackedPages(c *gin.Context) {
	limit := 0
	if raw := c.Query("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid limit"})
			return
		}
		limit = parsed
	}

	pages, err := h.statsService.GetTrackedPages(limit)
	if err != nil {
		h.logger.Analytics().Error("Tracked pages listing failed", "error", err.Error())
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list tracked pages"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"pages": pages})
}

// parseEventFilter reads the shared device/from/to/limit query params.
// On a bad value it writes the 400 itself and reports false.
func parseEventFilter(c *gin.Context) (analytics.EventFilter, bool) {
	var filter analytics.EventFilter

	if device := c.Query("device"); device != "" {
		filter.Device = &device
	}
	if raw := c.Query("limit"); raw != "" {
		limit, err := strconv.Atoi(raw)
		if err != nil || limit < 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid limit"})
			return filter, false
		}
		filter.Limit = limit
	}

	from, ok := parseTimeParam(c, "from")
	if !ok {
		return filter, false
	}
	if !from.IsZero() {
		filter.From = &from
	}
	to, ok := parseTimeParam(c, "to")
	if !ok {
		return filter, false
	}
	if !to.IsZero() {
		filter.To = &to
	}

	return filter, true
}

func parseTimeParam(c *gin.Context, name string) (time.Time, bool) {
	raw := c.Query(name)
	if raw == "" {
		return time.Time{}, true
	}
	t, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid " + name + " timestamp, expected RFC3339"})
		return time.Time{}, false
	}
	return t, true
}
