package handlers

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/beaconworks/beacon-go/internal/application/services"
	"github.com/beaconworks/beacon-go/internal/domain/analytics"
	"github.com/beaconworks/beacon-go/internal/domain/leads"
	"github.com/beaconworks/beacon-go/internal/infrastructure/observability/logging"
	"github.com/beaconworks/beacon-go/internal/infrastructure/observability/performance"
)

type stubLeadRepo struct {
	byEmail map[string]*leads.Lead
	byID    map[string]*leads.Lead
}

func newStubLeadRepo() *stubLeadRepo {
	return &stubLeadRepo{
		byEmail: make(map[string]*leads.Lead),
		byID:    make(map[string]*leads.Lead),
	}
}

func (r *stubLeadRepo) FindByID(id string) (*leads.Lead, error)       { return r.byID[id], nil }
func (r *stubLeadRepo) FindByEmail(email string) (*leads.Lead, error) { return r.byEmail[email], nil }

func (r *stubLeadRepo) Store(lead *leads.Lead) error {
	r.byEmail[lead.Email] = lead
	r.byID[lead.ID] = lead
	return nil
}

func (r *stubLeadRepo) UpdateSessionLink(id string, sessionID *string, at time.Time) error {
	return nil
}

func (r *stubLeadRepo) UpdateStatus(id, status string, at time.Time) error { return nil }

func (r *stubLeadRepo) List(filter leads.ListFilter) ([]*leads.Lead, int, error) {
	return nil, 0, nil
}

type stubSessionRepo struct{}

func (r *stubSessionRepo) Upsert(session *analytics.Session) (bool, error) { return false, nil }
func (r *stubSessionRepo) FindByID(id string) (*analytics.Session, error)  { return nil, nil }
func (r *stubSessionRepo) RecordPageView(id, exitPage string, at time.Time) error {
	return nil
}
func (r *stubSessionRepo) RecordInteraction(id, eventType string, scrollDepth *int, at time.Time) error {
	return nil
}
func (r *stubSessionRepo) MarkConverted(id, conversionType string) error { return nil }
func (r *stubSessionRepo) FindInRange(start, end time.Time) ([]*analytics.Session, error) {
	return nil, nil
}
func (r *stubSessionRepo) CloseIdleBefore(cutoff time.Time) (int, error) { return 0, nil }

func newLeadTestRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	logger, err := logging.NewChanneledLogger(&logging.LoggerConfig{
		OutputToFile:    false,
		OutputToConsole: false,
		DefaultLevel:    slog.LevelError + 1,
	})
	require.NoError(t, err)

	svc := services.NewLeadService(newStubLeadRepo(), &stubSessionRepo{}, nil, logger, performance.NewTracker())
	h := NewLeadHandlers(svc, logger)

	router := gin.New()
	router.POST("/api/v1/leads", h.PostLead)
	return router
}

func postJSON(t *testing.T, router *gin.Engine, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestPostLeadReturnsScoredLead(t *testing.T) {
	router := newLeadTestRouter(t)

	w := postJSON(t, router, "/api/v1/leads", `{"email":"jane@acme.io"}`)
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Success bool `json:"success"`
		Lead    struct {
			ID             string `json:"id"`
			Email          string `json:"email"`
			Score          int    `json:"score"`
			Classification string `json:"classification"`
		} `json:"lead"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))

	assert.True(t, resp.Success)
	assert.NotEmpty(t, resp.Lead.ID)
	assert.Equal(t, "jane@acme.io", resp.Lead.Email)
	assert.Equal(t, 70, resp.Lead.Score)
	assert.Equal(t, leads.ClassificationWarm, resp.Lead.Classification)
}

func TestPostLeadRejectsInvalidEmail(t *testing.T) {
	router := newLeadTestRouter(t)

	w := postJSON(t, router, "/api/v1/leads", `{"email":"not-an-email"}`)
	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "invalid email address")
}
