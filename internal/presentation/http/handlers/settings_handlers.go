package handlers

import (
	"net/http"

	"github.com/beaconworks/beacon-go/internal/application/services"
	"github.com/beaconworks/beacon-go/internal/domain/settings"
	"github.com/beaconworks/beacon-go/internal/infrastructure/observability/logging"
	"github.com/gin-gonic/gin"
)

// SettingsHandlers contains the site settings handlers.
type SettingsHandlers struct {
	settingsService *services.SettingsService
	logger          *logging.ChanneledLogger
}

// NewSettingsHandlers creates settings handlers with injected dependencies.
func NewSettingsHandlers(settingsService *services.SettingsService, logger *logging.ChanneledLogger) *SettingsHandlers {
	return &SettingsHandlers{
		settingsService: settingsService,
		logger:          logger,
	}
}

// GetSettings handles GET /api/v1/settings - public typed site settings.
func (h *SettingsHandlers) GetSettings(c *gin.Context) {
	current, err := h.settingsService.Get()
	if err != nil {
		h.logger.Content().Error("Settings read failed", "error", err.Error())
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load settings"})
		return
	}
	c.JSON(http.StatusOK, current)
}

// PutSettings handles PUT /api/v1/admin/settings - replace the site settings.
func (h *SettingsHandlers) PutSettings(c *gin.Context) {
	var updated settings.SiteSettings
	if err := c.ShouldBindJSON(&updated); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid settings payload"})
		return
	}

	saved, err := h.settingsService.Update(updated)
	if err != nil {
		h.logger.Content().Error("Settings update failed", "error", err.Error())
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to save settings"})
		return
	}
	c.JSON(http.StatusOK, saved)
}
