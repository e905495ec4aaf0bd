package services

import (
	"fmt"

	"github.com/beaconworks/beacon-go/internal/domain/settings"
	"github.com/beaconworks/beacon-go/internal/infrastructure/observability/logging"
)

// SettingsService exposes the typed site settings over the key-value store.
type SettingsService struct {
	settingsRepo settings.Repository
	logger       *logging.ChanneledLogger
}

// NewSettingsService creates a new settings service.
func NewSettingsService(settingsRepo settings.Repository, logger *logging.ChanneledLogger) *SettingsService {
	return &SettingsService{
		settingsRepo: settingsRepo,
		logger:       logger,
	}
}

// Get returns the current site settings with defaults applied.
func (s *SettingsService) Get() (settings.SiteSettings, error) {
	stored, err := s.settingsRepo.GetAll()
	if err != nil {
		return settings.Defaults(), fmt.Errorf("failed to load settings: %w", err)
	}
	return settings.FromStored(stored), nil
}

// Update persists the full typed settings. Partial updates are handled
// by the caller reading first; the store always receives the complete
// allow-listed set.
func (s *SettingsService) Update(updated settings.SiteSettings) (settings.SiteSettings, error) {
	if err := s.settingsRepo.SetMany(updated.ToStored()); err != nil {
		return settings.Defaults(), fmt.Errorf("failed to save settings: %w", err)
	}
	s.logger.Content().Info("Site settings updated")
	return updated, nil
}
