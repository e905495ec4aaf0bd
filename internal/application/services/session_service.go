package services

import (
	"fmt"
	"time"

	"github.com/beaconworks/beacon-go/internal/domain/analytics"
	"github.com/beaconworks/beacon-go/internal/infrastructure/observability/logging"
	"github.com/beaconworks/beacon-go/internal/infrastructure/observability/performance"
	"github.com/beaconworks/beacon-go/pkg/config"
)

// SessionService owns session lifecycle maintenance, chiefly the idle
// session sweeper.
type SessionService struct {
	sessionRepo analytics.SessionRepository
	logger      *logging.ChanneledLogger
	perfTracker *performance.Tracker
}

// NewSessionService creates a new session service.
func NewSessionService(sessionRepo analytics.SessionRepository, logger *logging.ChanneledLogger, perfTracker *performance.Tracker) *SessionService {
	return &SessionService{
		sessionRepo: sessionRepo,
		logger:      logger,
		perfTracker: perfTracker,
	}
}

// GetByID returns a single session.
func (s *SessionService) GetByID(id string) (*analytics.Session, error) {
	if id == "" {
		return nil, fmt.Errorf("session ID cannot be empty")
	}
	session, err := s.sessionRepo.FindByID(id)
	if err != nil {
		return nil, fmt.Errorf("failed to get session %s: %w", id, err)
	}
	return session, nil
}

// CloseIdleSessions stamps an end time on sessions idle past the
// configured timeout. Returns the number closed.
func (s *SessionService) CloseIdleSessions() (int, error) {
	marker := s.perfTracker.StartOperation("close_idle_sessions")
	defer marker.Complete()

	cutoff := time.Now().UTC().Add(-config.SessionIdleTimeout)
	closed, err := s.sessionRepo.CloseIdleBefore(cutoff)
	if err != nil {
		return 0, fmt.Errorf("failed to close idle sessions: %w", err)
	}

	marker.AddMetadata("closed", closed)
	if closed > 0 {
		s.logger.Analytics().Info("Closed idle sessions", "count", closed)
	}
	return closed, nil
}

// StartSweeper runs the idle session sweep on an interval until stop is
// closed.
func (s *SessionService) StartSweeper(stop <-chan struct{}) {
	go func() {
		ticker := time.NewTicker(config.SessionSweepInterval)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				if _, err := s.CloseIdleSessions(); err != nil {
					s.logger.Analytics().Error("Session sweep failed", "error", err.Error())
				}
			case <-stop:
				return
			}
		}
	}()
}
