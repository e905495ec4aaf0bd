package services

import (
	"fmt"
	"time"

	"github.com/beaconworks/beacon-go/internal/domain/analytics"
	"github.com/beaconworks/beacon-go/internal/infrastructure/observability/logging"
	"github.com/beaconworks/beacon-go/internal/infrastructure/observability/performance"
	"github.com/beaconworks/beacon-go/pkg/config"
)

// StatsService computes session summary metrics for the admin dashboard.
type StatsService struct {
	sessionRepo analytics.SessionRepository
	eventRepo   analytics.EventRepository
	logger      *logging.ChanneledLogger
	perfTracker *performance.Tracker
}

// NewStatsService creates a new stats service.
func NewStatsService(sessionRepo analytics.SessionRepository, eventRepo analytics.EventRepository, logger *logging.ChanneledLogger, perfTracker *performance.Tracker) *StatsService {
	return &StatsService{
		sessionRepo: sessionRepo,
		eventRepo:   eventRepo,
		logger:      logger,
		perfTracker: perfTracker,
	}
}

// GetSessionStats summarizes sessions in the given window. Zero values
// for start and end select the default reporting window ending now.
func (s *StatsService) GetSessionStats(start, end time.Time) (analytics.SessionStats, error) {
	marker := s.perfTracker.StartOperation("compute_session_stats")
	defer marker.Complete()

	if end.IsZero() {
		end = time.Now().UTC()
	}
	if start.IsZero() {
		start = end.AddDate(0, 0, -config.StatsDefaultWindowDays)
	}
	if start.After(end) {
		return analytics.SessionStats{}, fmt.Errorf("stats window start %s is after end %s", start.Format(time.RFC3339), end.Format(time.RFC3339))
	}

	sessions, err := s.sessionRepo.FindInRange(start, end)
	if err != nil {
		return analytics.SessionStats{}, fmt.Errorf("failed to load sessions for stats: %w", err)
	}

	stats := analytics.ComputeSessionStats(sessions)
	marker.AddMetadata("sessions", stats.TotalSessions)
	return stats, nil
}

// GetTrackedPages lists the pages with recorded interaction events,
// busiest first.
func (s *StatsService) GetTrackedPages(limit int) ([]analytics.PageEventCount, error) {
	marker := s.perfTracker.StartOperation("list_tracked_pages")
	defer marker.Complete()

	if limit <= 0 {
		limit = 100
	}
	pages, err := s.eventRepo.CountByPage(limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list tracked pages: %w", err)
	}
	return pages, nil
}
