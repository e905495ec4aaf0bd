package services

import (
	"errors"
	"testing"
	"time"

	"github.com/beaconworks/beacon-go/internal/domain/analytics"
	"github.com/beaconworks/beacon-go/internal/domain/leads"
	"github.com/beaconworks/beacon-go/internal/infrastructure/observability/performance"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeLeadRepo struct {
	byEmail      map[string]*leads.Lead
	byID         map[string]*leads.Lead
	sessionLinks map[string]*string
	statuses     map[string]string
	failFind     bool
}

func newFakeLeadRepo() *fakeLeadRepo {
	return &fakeLeadRepo{
		byEmail:      make(map[string]*leads.Lead),
		byID:         make(map[string]*leads.Lead),
		sessionLinks: make(map[string]*string),
		statuses:     make(map[string]string),
	}
}

func (f *fakeLeadRepo) FindByID(id string) (*leads.Lead, error) {
	return f.byID[id], nil
}

func (f *fakeLeadRepo) FindByEmail(email string) (*leads.Lead, error) {
	if f.failFind {
		return nil, errors.New("db down")
	}
	return f.byEmail[email], nil
}

func (f *fakeLeadRepo) Store(lead *leads.Lead) error {
	f.byEmail[lead.Email] = lead
	f.byID[lead.ID] = lead
	return nil
}

func (f *fakeLeadRepo) UpdateSessionLink(id string, sessionID *string, at time.Time) error {
	f.sessionLinks[id] = sessionID
	return nil
}

func (f *fakeLeadRepo) UpdateStatus(id, status string, at time.Time) error {
	f.statuses[id] = status
	if lead, ok := f.byID[id]; ok {
		lead.Status = status
	}
	return nil
}

func (f *fakeLeadRepo) List(filter leads.ListFilter) ([]*leads.Lead, int, error) {
	var out []*leads.Lead
	for _, lead := range f.byID {
		out = append(out, lead)
	}
	return out, len(out), nil
}

func newTestLeadService(t *testing.T, leadRepo *fakeLeadRepo, sessionRepo *fakeSessionRepo) *LeadService {
	t.Helper()
	return NewLeadService(leadRepo, sessionRepo, nil, newTestLogger(t), performance.NewTracker())
}

func seedSession(repo *fakeSessionRepo, id string, pages, duration, scroll, rage int) {
	repo.sessions[id] = &analytics.Session{
		ID:              id,
		PageCount:       pages,
		DurationSeconds: duration,
		MaxScrollDepth:  scroll,
		RageClickCount:  rage,
	}
}

func TestCaptureScoresWithSessionSignals(t *testing.T) {
	leadRepo := newFakeLeadRepo()
	sessionRepo := newFakeSessionRepo()
	seedSession(sessionRepo, "sess-1", 5, 400, 80, 0)
	svc := newTestLeadService(t, leadRepo, sessionRepo)

	lead, err := svc.Capture(CaptureLeadRequest{
		Email:     " Jane@Acme.IO ",
		Name:      "Jane Doe",
		Company:   "Acme",
		SessionID: "sess-1",
	})

	require.NoError(t, err)
	assert.Equal(t, "jane@acme.io", lead.Email)
	// 50 base + 20 business TLD + 10 name + 15 company + 15 pages + 10
	// duration + 10 scroll = 130, clamped.
	assert.Equal(t, 100, lead.Score)
	assert.Equal(t, leads.ClassificationHot, lead.Classification)
	assert.Equal(t, leads.StatusNew, lead.Status)

	// Behavioral snapshot is copied, not referenced.
	assert.Equal(t, 5, lead.PagesViewed)
	assert.Equal(t, 400, lead.TimeOnSiteSeconds)
	assert.Equal(t, 80, lead.ScrollDepthAvg)

	// The referenced session converts.
	assert.True(t, sessionRepo.sessions["sess-1"].Converted)
	assert.Equal(t, "lead_capture", sessionRepo.converted["sess-1"])
}

func TestCaptureWithoutSessionDegradesGracefully(t *testing.T) {
	leadRepo := newFakeLeadRepo()
	sessionRepo := newFakeSessionRepo()
	svc := newTestLeadService(t, leadRepo, sessionRepo)

	lead, err := svc.Capture(CaptureLeadRequest{Email: "test@gmail.com"})

	require.NoError(t, err)
	assert.Equal(t, 50, lead.Score)
	assert.Equal(t, leads.ClassificationCold, lead.Classification)
	assert.Zero(t, lead.PagesViewed)
	assert.Nil(t, lead.SessionID)
}

func TestCaptureUnknownSessionStillCaptures(t *testing.T) {
	leadRepo := newFakeLeadRepo()
	sessionRepo := newFakeSessionRepo()
	svc := newTestLeadService(t, leadRepo, sessionRepo)

	lead, err := svc.Capture(CaptureLeadRequest{
		Email:     "test@gmail.com",
		SessionID: "never-seen",
	})

	require.NoError(t, err)
	assert.Equal(t, 50, lead.Score)
	require.NotNil(t, lead.SessionID)
	assert.Equal(t, "never-seen", *lead.SessionID)
}

func TestCaptureDuplicateEmailKeepsOriginalScore(t *testing.T) {
	leadRepo := newFakeLeadRepo()
	sessionRepo := newFakeSessionRepo()
	seedSession(sessionRepo, "sess-1", 1, 10, 0, 0)
	seedSession(sessionRepo, "sess-2", 9, 900, 95, 0)
	svc := newTestLeadService(t, leadRepo, sessionRepo)

	first, err := svc.Capture(CaptureLeadRequest{Email: "test@gmail.com", SessionID: "sess-1"})
	require.NoError(t, err)

	second, err := svc.Capture(CaptureLeadRequest{Email: "Test@Gmail.com", SessionID: "sess-2"})
	require.NoError(t, err)

	// Same lead, original score, even though the second visit was far
	// more engaged.
	assert.Equal(t, first.ID, second.ID)
	assert.Equal(t, first.Score, second.Score)

	// The session link moves to the newest session.
	link := leadRepo.sessionLinks[first.ID]
	require.NotNil(t, link)
	assert.Equal(t, "sess-2", *link)
	assert.True(t, sessionRepo.sessions["sess-2"].Converted)
}

func TestCaptureRejectsInvalidEmail(t *testing.T) {
	svc := newTestLeadService(t, newFakeLeadRepo(), newFakeSessionRepo())

	_, err := svc.Capture(CaptureLeadRequest{Email: "not-an-email"})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid email")
}

func TestUpdateStatusTransitions(t *testing.T) {
	leadRepo := newFakeLeadRepo()
	sessionRepo := newFakeSessionRepo()
	svc := newTestLeadService(t, leadRepo, sessionRepo)

	lead, err := svc.Capture(CaptureLeadRequest{Email: "test@gmail.com"})
	require.NoError(t, err)

	updated, err := svc.UpdateStatus(lead.ID, leads.StatusContacted)
	require.NoError(t, err)
	assert.Equal(t, leads.StatusContacted, updated.Status)
	assert.Equal(t, leads.StatusContacted, leadRepo.statuses[lead.ID])
}

func TestUpdateStatusRejectsUnknownStatus(t *testing.T) {
	svc := newTestLeadService(t, newFakeLeadRepo(), newFakeSessionRepo())

	_, err := svc.UpdateStatus("some-id", "archived")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid lead status")
}

func TestUpdateStatusUnknownLead(t *testing.T) {
	svc := newTestLeadService(t, newFakeLeadRepo(), newFakeSessionRepo())

	_, err := svc.UpdateStatus("missing", leads.StatusContacted)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "not found")
}
