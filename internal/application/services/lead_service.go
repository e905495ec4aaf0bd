package services

import (
	"fmt"
	"time"

	"github.com/beaconworks/beacon-go/internal/domain/analytics"
	"github.com/beaconworks/beacon-go/internal/domain/leads"
	"github.com/beaconworks/beacon-go/internal/infrastructure/email"
	"github.com/beaconworks/beacon-go/internal/infrastructure/observability/logging"
	"github.com/beaconworks/beacon-go/internal/infrastructure/observability/performance"
	"github.com/beaconworks/beacon-go/internal/infrastructure/security"
	"github.com/beaconworks/beacon-go/pkg/config"
)

// CaptureLeadRequest is the public lead capture payload.
type CaptureLeadRequest struct {
	Email      string `json:"email" binding:"required"`
	Name       string `json:"name"`
	Company    string `json:"company"`
	Phone      string `json:"phone"`
	Source     string `json:"source"`
	SourcePage string `json:"sourcePage"`
	SessionID  string `json:"sessionId"`
}

// LeadService orchestrates lead capture, scoring and admin management.
type LeadService struct {
	leadRepo     leads.Repository
	sessionRepo  analytics.SessionRepository
	emailService email.Service
	logger       *logging.ChanneledLogger
	perfTracker  *performance.Tracker
}

// NewLeadService creates a new lead service. emailService may be nil
// when notifications are disabled.
func NewLeadService(
	leadRepo leads.Repository,
	sessionRepo analytics.SessionRepository,
	emailService email.Service,
	logger *logging.ChanneledLogger,
	perfTracker *performance.Tracker,
) *LeadService {
	return &LeadService{
		leadRepo:     leadRepo,
		sessionRepo:  sessionRepo,
		emailService: emailService,
		logger:       logger,
		perfTracker:  perfTracker,
	}
}

// Capture validates, scores and stores a new lead. Captures are
// idempotent on email: a repeat submission keeps the original score and
// only re-points the session link. The referenced session, when found,
// is marked converted.
func (s *LeadService) Capture(req CaptureLeadRequest) (*leads.Lead, error) {
	marker := s.perfTracker.StartOperation("capture_lead")
	defer marker.Complete()

	normalizedEmail := leads.NormalizeEmail(req.Email)
	if !leads.ValidEmail(normalizedEmail) {
		return nil, fmt.Errorf("invalid email address")
	}

	sessionID := nullableString(req.SessionID)

	existing, err := s.leadRepo.FindByEmail(normalizedEmail)
	if err != nil {
		return nil, fmt.Errorf("failed to look up lead by email: %w", err)
	}
	if existing != nil {
		// First-touch scoring: the original score stands.
		if err := s.leadRepo.UpdateSessionLink(existing.ID, sessionID, time.Now().UTC()); err != nil {
			s.logger.Leads().Warn("Failed to update session link on duplicate lead",
				"error", err.Error(), "leadId", existing.ID)
		}
		s.markSessionConverted(req.SessionID)
		s.logger.Leads().Info("Duplicate lead capture", "leadId", existing.ID, "email", normalizedEmail)
		return existing, nil
	}

	// A missing or unknown session degrades scoring, never blocks capture.
	var signals *leads.SessionSignals
	var session *analytics.Session
	if req.SessionID != "" {
		session, err = s.sessionRepo.FindByID(req.SessionID)
		if err != nil {
			s.logger.Leads().Warn("Failed to resolve session for lead",
				"error", err.Error(), "sessionId", req.SessionID)
		}
		if session != nil {
			signals = &leads.SessionSignals{
				PageCount:       session.PageCount,
				DurationSeconds: session.DurationSeconds,
				MaxScrollDepth:  session.MaxScrollDepth,
				RageClickCount:  session.RageClickCount,
			}
		}
	}

	result := leads.ScoreLead(normalizedEmail, req.Name, req.Company, signals)

	now := time.Now().UTC()
	lead := &leads.Lead{
		ID:             security.GenerateULID(),
		Email:          normalizedEmail,
		Name:           req.Name,
		Company:        req.Company,
		Phone:          req.Phone,
		Source:         req.Source,
		SourcePage:     req.SourcePage,
		SessionID:      sessionID,
		Score:          result.Score,
		ScoreReasons:   result.Reasons,
		Classification: result.Classification,
		Status:         leads.StatusNew,
		CreatedAt:      now,
	}
	if session != nil {
		lead.PagesViewed = session.PageCount
		lead.TimeOnSiteSeconds = session.DurationSeconds
		lead.ScrollDepthAvg = session.MaxScrollDepth
	}

	if err := s.leadRepo.Store(lead); err != nil {
		return nil, fmt.Errorf("failed to store lead: %w", err)
	}

	s.markSessionConverted(req.SessionID)

	marker.AddMetadata("score", result.Score)
	marker.AddMetadata("classification", result.Classification)
	s.logger.Leads().Info("Lead captured",
		"leadId", lead.ID,
		"email", normalizedEmail,
		"score", result.Score,
		"classification", result.Classification,
	)

	s.notify(lead)
	return lead, nil
}

// GetByID returns a single lead.
func (s *LeadService) GetByID(id string) (*leads.Lead, error) {
	if id == "" {
		return nil, fmt.Errorf("lead ID cannot be empty")
	}
	lead, err := s.leadRepo.FindByID(id)
	if err != nil {
		return nil, fmt.Errorf("failed to get lead %s: %w", id, err)
	}
	return lead, nil
}

// UpdateStatus moves a lead through its pipeline states.
func (s *LeadService) UpdateStatus(id, status string) (*leads.Lead, error) {
	if id == "" {
		return nil, fmt.Errorf("lead ID cannot be empty")
	}
	if !leads.ValidStatus(status) {
		return nil, fmt.Errorf("invalid lead status: %s", status)
	}

	existing, err := s.leadRepo.FindByID(id)
	if err != nil {
		return nil, fmt.Errorf("failed to verify lead %s exists: %w", id, err)
	}
	if existing == nil {
		return nil, fmt.Errorf("lead %s not found", id)
	}

	if err := s.leadRepo.UpdateStatus(id, status, time.Now().UTC()); err != nil {
		return nil, fmt.Errorf("failed to update lead %s status: %w", id, err)
	}

	s.logger.Leads().Info("Lead status updated", "leadId", id, "from", existing.Status, "to", status)
	return s.leadRepo.FindByID(id)
}

// List returns a page of leads plus the total match count.
func (s *LeadService) List(filter leads.ListFilter) ([]*leads.Lead, int, error) {
	if filter.PageSize <= 0 {
		filter.PageSize = config.LeadPageSize
	}
	items, total, err := s.leadRepo.List(filter)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list leads: %w", err)
	}
	return items, total, nil
}

func (s *LeadService) markSessionConverted(sessionID string) {
	if sessionID == "" {
		return
	}
	if err := s.sessionRepo.MarkConverted(sessionID, "lead_capture"); err != nil {
		s.logger.Leads().Warn("Failed to mark session converted",
			"error", err.Error(), "sessionId", sessionID)
	}
}

// notify sends the new-lead email off the request path.
func (s *LeadService) notify(lead *leads.Lead) {
	if s.emailService == nil || !config.EmailNotification || config.LeadNotifyEmail == "" {
		return
	}
	go func(lead *leads.Lead) {
		if err := s.emailService.SendLeadNotification(config.LeadNotifyEmail, lead); err != nil {
			s.logger.Leads().Error("Lead notification failed", "error", err.Error(), "leadId", lead.ID)
		}
	}(lead)
}
