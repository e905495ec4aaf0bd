// Package services provides application-level services that orchestrate
// business logic and coordinate between repositories and domain entities.
package services

import (
	"time"

	"github.com/beaconworks/beacon-go/internal/domain/analytics"
	"github.com/beaconworks/beacon-go/internal/infrastructure/messaging"
	"github.com/beaconworks/beacon-go/internal/infrastructure/observability/logging"
	"github.com/beaconworks/beacon-go/internal/infrastructure/observability/performance"
	"github.com/beaconworks/beacon-go/internal/infrastructure/security"
)

// IncomingEvent is one tracking event as posted by the capture client.
type IncomingEvent struct {
	Type           string    `json:"type" binding:"required"`
	SessionID      string    `json:"sessionId" binding:"required"`
	VisitorID      string    `json:"visitorId"`
	Page           string    `json:"page"`
	X              *int      `json:"x"`
	Y              *int      `json:"y"`
	ViewportW      int       `json:"viewportWidth"`
	ViewportH      int       `json:"viewportHeight"`
	PageHeight     int       `json:"pageHeight"`
	ScrollDepth    *int      `json:"scrollDepth"`
	TargetTag      string    `json:"targetTag"`
	TargetID       string    `json:"targetId"`
	TargetClass    string    `json:"targetClass"`
	TargetText     string    `json:"targetText"`
	Device         string    `json:"device"`
	Browser        string    `json:"browser"`
	BrowserVersion string    `json:"browserVersion"`
	OS             string    `json:"os"`
	OSVersion      string    `json:"osVersion"`
	ScreenWidth    int       `json:"screenWidth"`
	ScreenHeight   int       `json:"screenHeight"`
	Referrer       string    `json:"referrer"`
	EntryPage      string    `json:"entryPage"`
	UTMSource      string    `json:"utmSource"`
	UTMMedium      string    `json:"utmMedium"`
	UTMCampaign    string    `json:"utmCampaign"`
	UTMTerm        string    `json:"utmTerm"`
	UTMContent     string    `json:"utmContent"`
	Timestamp      time.Time `json:"timestamp"`
}

// IngestionService processes tracking event batches. Each batch is
// partitioned into session starts, page views and interactions so a
// failure in one partition never blocks the others.
type IngestionService struct {
	sessionRepo  analytics.SessionRepository
	eventRepo    analytics.EventRepository
	pageViewRepo analytics.PageViewRepository
	broadcaster  *messaging.Broadcaster
	logger       *logging.ChanneledLogger
	perfTracker  *performance.Tracker
}

// NewIngestionService creates a new ingestion service.
func NewIngestionService(
	sessionRepo analytics.SessionRepository,
	eventRepo analytics.EventRepository,
	pageViewRepo analytics.PageViewRepository,
	broadcaster *messaging.Broadcaster,
	logger *logging.ChanneledLogger,
	perfTracker *performance.Tracker,
) *IngestionService {
	return &IngestionService{
		sessionRepo:  sessionRepo,
		eventRepo:    eventRepo,
		pageViewRepo: pageViewRepo,
		broadcaster:  broadcaster,
		logger:       logger,
		perfTracker:  perfTracker,
	}
}

// ProcessBatch ingests a batch of tracking events and returns the
// number successfully processed.
func (s *IngestionService) ProcessBatch(events []IncomingEvent) (int, error) {
	marker := s.perfTracker.StartOperation("ingest_batch")
	defer marker.Complete()
	marker.AddMetadata("batchSize", len(events))

	if len(events) == 0 {
		return 0, nil
	}

	var sessions, pageViews, interactions []IncomingEvent
	for _, event := range events {
		if event.SessionID == "" {
			s.logger.Analytics().Warn("Skipping event without session ID", "type", event.Type)
			continue
		}
		switch event.Type {
		case "session":
			sessions = append(sessions, event)
		case "pageview":
			pageViews = append(pageViews, event)
		case analytics.EventTypeClick, analytics.EventTypeMove, analytics.EventTypeScroll, analytics.EventTypeRageClick:
			interactions = append(interactions, event)
		default:
			s.logger.Analytics().Warn("Skipping event with unknown type", "type", event.Type, "sessionId", event.SessionID)
		}
	}

	processed := 0
	processed += s.processSessions(sessions)
	processed += s.processPageViews(pageViews)
	processed += s.processInteractions(interactions)

	marker.AddMetadata("processed", processed)

	if s.broadcaster != nil && processed > 0 {
		s.broadcaster.Publish(messaging.LiveEvent{
			Type:      "batch",
			SessionID: events[0].SessionID,
			Page:      events[0].Page,
			Count:     processed,
		})
	}

	return processed, nil
}

// processSessions upserts session rows. A duplicate session event is
// not an error; the first writer wins and later writers are ignored.
func (s *IngestionService) processSessions(events []IncomingEvent) int {
	processed := 0
	for _, event := range events {
		at := eventTime(event)
		session := &analytics.Session{
			ID:             event.SessionID,
			VisitorID:      nullableString(event.VisitorID),
			Device:         normalizeDevice(event.Device),
			Browser:        event.Browser,
			BrowserVersion: event.BrowserVersion,
			OS:             event.OS,
			OSVersion:      event.OSVersion,
			ScreenWidth:    event.ScreenWidth,
			ScreenHeight:   event.ScreenHeight,
			EntryPage:      entryPage(event),
			Referrer:       event.Referrer,
			UTMSource:      event.UTMSource,
			UTMMedium:      event.UTMMedium,
			UTMCampaign:    event.UTMCampaign,
			UTMTerm:        event.UTMTerm,
			UTMContent:     event.UTMContent,
			StartedAt:      at,
			LastActivityAt: at,
		}
		created, err := s.sessionRepo.Upsert(session)
		if err != nil {
			s.logger.Analytics().Error("Failed to upsert session",
				"error", err.Error(), "sessionId", event.SessionID)
			continue
		}
		if !created {
			s.logger.Analytics().Debug("Duplicate session event ignored", "sessionId", event.SessionID)
		}
		processed++
	}
	return processed
}

func (s *IngestionService) processPageViews(events []IncomingEvent) int {
	processed := 0
	for _, event := range events {
		if event.Page == "" {
			s.logger.Analytics().Warn("Skipping pageview without page", "sessionId", event.SessionID)
			continue
		}
		at := eventTime(event)
		view := &analytics.PageView{
			ID:        security.GenerateULID(),
			SessionID: event.SessionID,
			Page:      event.Page,
			Referrer:  event.Referrer,
			CreatedAt: at,
		}
		if err := s.pageViewRepo.Store(view); err != nil {
			s.logger.Analytics().Error("Failed to store page view",
				"error", err.Error(), "sessionId", event.SessionID, "page", event.Page)
			continue
		}
		if err := s.sessionRepo.RecordPageView(event.SessionID, event.Page, at); err != nil {
			// Page view row already landed; the session counters catch
			// up on the next event.
			s.logger.Analytics().Warn("Failed to update session for page view",
				"error", err.Error(), "sessionId", event.SessionID)
		}
		processed++
	}
	return processed
}

func (s *IngestionService) processInteractions(events []IncomingEvent) int {
	processed := 0
	for _, event := range events {
		at := eventTime(event)
		stored := &analytics.InteractionEvent{
			ID:             security.GenerateULID(),
			SessionID:      event.SessionID,
			Page:           event.Page,
			EventType:      event.Type,
			X:              event.X,
			Y:              event.Y,
			ViewportWidth:  event.ViewportW,
			ViewportHeight: event.ViewportH,
			PageHeight:     event.PageHeight,
			ScrollDepth:    event.ScrollDepth,
			TargetTag:      event.TargetTag,
			TargetID:       event.TargetID,
			TargetClass:    event.TargetClass,
			TargetText:     event.TargetText,
			Device:         normalizeDevice(event.Device),
			CreatedAt:      at,
		}
		if err := s.eventRepo.Store(stored); err != nil {
			s.logger.Analytics().Error("Failed to store interaction event",
				"error", err.Error(), "sessionId", event.SessionID, "type", event.Type)
			continue
		}
		if err := s.sessionRepo.RecordInteraction(event.SessionID, event.Type, event.ScrollDepth, at); err != nil {
			s.logger.Analytics().Warn("Failed to update session counters",
				"error", err.Error(), "sessionId", event.SessionID)
		}
		processed++
	}
	return processed
}

func entryPage(event IncomingEvent) string {
	if event.EntryPage != "" {
		return event.EntryPage
	}
	if event.Page != "" {
		return event.Page
	}
	return "/"
}

func normalizeDevice(device string) string {
	switch device {
	case analytics.DeviceDesktop, analytics.DeviceTablet, analytics.DeviceMobile:
		return device
	default:
		return analytics.DeviceUnknown
	}
}

func eventTime(event IncomingEvent) time.Time {
	if event.Timestamp.IsZero() {
		return time.Now().UTC()
	}
	return event.Timestamp.UTC()
}

func nullableString(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
