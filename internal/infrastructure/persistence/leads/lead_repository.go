// Package leads provides the concrete SQL-based implementation of the lead
// repository.
package leads

import (
	"database/sql"
	"encoding/json"
	"time"

	"github.com/beaconworks/beacon-go/internal/domain/leads"
	"github.com/beaconworks/beacon-go/internal/infrastructure/observability/logging"
	"github.com/beaconworks/beacon-go/internal/infrastructure/persistence/database"
	"github.com/beaconworks/beacon-go/pkg/config"
)

// SQLLeadRepository is the SQL-based implementation of the lead Repository.
type SQLLeadRepository struct {
	db     *database.DB
	logger *logging.ChanneledLogger
}

// NewSQLLeadRepository creates a new instance of the repository.
func NewSQLLeadRepository(db *database.DB, logger *logging.ChanneledLogger) *SQLLeadRepository {
	return &SQLLeadRepository{db: db, logger: logger}
}

const leadColumns = `id, email, name, company, phone, source, source_page, session_id,
	ai_score, ai_score_reasons, ai_classification,
	pages_viewed, time_on_site_seconds, scroll_depth_avg,
	status, contacted_at, converted_at, created_at, updated_at`

// FindByID retrieves a Lead by its unique identifier.
func (r *SQLLeadRepository) FindByID(id string) (*leads.Lead, error) {
	query := `SELECT ` + leadColumns + ` FROM leads WHERE id = ?`

	row := r.db.QueryRow(query, id)
	lead, err := scanLead(row)
	if err != nil {
		r.logger.Database().Error("Failed to load lead by ID", "error", err.Error(), "id", id)
		return nil, err
	}
	return lead, nil
}

// FindByEmail retrieves a Lead by its normalized email address.
func (r *SQLLeadRepository) FindByEmail(email string) (*leads.Lead, error) {
	query := `SELECT ` + leadColumns + ` FROM leads WHERE email = ?`

	start := time.Now()
	row := r.db.QueryRow(query, email)
	lead, err := scanLead(row)
	if err != nil {
		r.logger.Database().Error("Failed to load lead by email", "error", err.Error(), "email", email)
		return nil, err
	}

	duration := time.Since(start)
	if duration > config.SlowQueryThreshold {
		r.logger.LogSlowQuery("SELECT ... FROM leads WHERE email = ?", duration, "leads")
	}
	return lead, nil
}

// Store saves a new Lead.
func (r *SQLLeadRepository) Store(lead *leads.Lead) error {
	const query = `
		INSERT INTO leads (
			id, email, name, company, phone, source, source_page, session_id,
			ai_score, ai_score_reasons, ai_classification,
			pages_viewed, time_on_site_seconds, scroll_depth_avg,
			status, created_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`

	reasons, err := json.Marshal(lead.ScoreReasons)
	if err != nil {
		return err
	}

	_, err = r.db.Exec(
		query,
		lead.ID,
		lead.Email,
		lead.Name,
		lead.Company,
		lead.Phone,
		lead.Source,
		lead.SourcePage,
		nullableString(lead.SessionID),
		lead.Score,
		string(reasons),
		lead.Classification,
		lead.PagesViewed,
		lead.TimeOnSiteSeconds,
		lead.ScrollDepthAvg,
		lead.Status,
		lead.CreatedAt.UTC().Format(time.RFC3339),
	)
	if err != nil {
		r.logger.Database().Error("Failed to store lead", "error", err.Error(), "email", lead.Email)
	}
	return err
}

// UpdateSessionLink re-points an existing lead at a newer session. Score and
// classification are deliberately left untouched.
func (r *SQLLeadRepository) UpdateSessionLink(id string, sessionID *string, at time.Time) error {
	const query = `UPDATE leads SET session_id = ?, updated_at = ? WHERE id = ?`

	_, err := r.db.Exec(query, nullableString(sessionID), at.UTC().Format(time.RFC3339), id)
	if err != nil {
		r.logger.Database().Error("Failed to update lead session link", "error", err.Error(), "id", id)
	}
	return err
}

// UpdateStatus applies an admin-driven status transition, stamping
// contacted_at / converted_at only on the matching transition.
func (r *SQLLeadRepository) UpdateStatus(id, status string, at time.Time) error {
	query := `UPDATE leads SET status = ?, updated_at = ?`
	stamp := at.UTC().Format(time.RFC3339)
	args := []any{status, stamp}

	switch status {
	case leads.StatusContacted:
		query += `, contacted_at = ?`
		args = append(args, stamp)
	case leads.StatusConverted:
		query += `, converted_at = ?`
		args = append(args, stamp)
	}

	query += ` WHERE id = ?`
	args = append(args, id)

	_, err := r.db.Exec(query, args...)
	if err != nil {
		r.logger.Database().Error("Failed to update lead status", "error", err.Error(), "id", id, "status", status)
	}
	return err
}

// List returns a page of leads plus the total row count for the filter.
func (r *SQLLeadRepository) List(filter leads.ListFilter) ([]*leads.Lead, int, error) {
	where := ` WHERE 1=1`
	args := []any{}
	if filter.Status != "" {
		where += ` AND status = ?`
		args = append(args, filter.Status)
	}
	if filter.Classification != "" {
		where += ` AND ai_classification = ?`
		args = append(args, filter.Classification)
	}

	var total int
	if err := r.db.QueryRow(`SELECT COUNT(*) FROM leads`+where, args...).Scan(&total); err != nil {
		r.logger.Database().Error("Failed to count leads", "error", err.Error())
		return nil, 0, err
	}

	pageSize := filter.PageSize
	if pageSize <= 0 {
		pageSize = config.LeadPageSize
	}
	page := filter.Page
	if page < 1 {
		page = 1
	}

	query := `SELECT ` + leadColumns + ` FROM leads` + where +
		` ORDER BY created_at DESC LIMIT ? OFFSET ?`
	args = append(args, pageSize, (page-1)*pageSize)

	rows, err := r.db.Query(query, args...)
	if err != nil {
		r.logger.Database().Error("Failed to list leads", "error", err.Error())
		return nil, 0, err
	}
	defer rows.Close()

	var result []*leads.Lead
	for rows.Next() {
		lead, err := scanLead(rows)
		if err != nil {
			return nil, 0, err
		}
		if lead != nil {
			result = append(result, lead)
		}
	}
	return result, total, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanLead(row rowScanner) (*leads.Lead, error) {
	var lead leads.Lead
	var name, company, phone, source, sourcePage, sessionID sql.NullString
	var reasonsJSON string
	var contactedAt, convertedAt, updatedAt sql.NullString
	var createdAt string

	err := row.Scan(
		&lead.ID,
		&lead.Email,
		&name,
		&company,
		&phone,
		&source,
		&sourcePage,
		&sessionID,
		&lead.Score,
		&reasonsJSON,
		&lead.Classification,
		&lead.PagesViewed,
		&lead.TimeOnSiteSeconds,
		&lead.ScrollDepthAvg,
		&lead.Status,
		&contactedAt,
		&convertedAt,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil // Not found
		}
		return nil, err
	}

	lead.Name = name.String
	lead.Company = company.String
	lead.Phone = phone.String
	lead.Source = source.String
	lead.SourcePage = sourcePage.String
	if sessionID.Valid {
		lead.SessionID = &sessionID.String
	}

	if err := json.Unmarshal([]byte(reasonsJSON), &lead.ScoreReasons); err != nil {
		lead.ScoreReasons = nil
	}

	if lead.CreatedAt, err = parseTimestamp(createdAt); err != nil {
		return nil, err
	}
	if t, ok := parseNullableTimestamp(contactedAt); ok {
		lead.ContactedAt = t
	}
	if t, ok := parseNullableTimestamp(convertedAt); ok {
		lead.ConvertedAt = t
	}
	if t, ok := parseNullableTimestamp(updatedAt); ok {
		lead.UpdatedAt = t
	}

	return &lead, nil
}

// parseTimestamp handles both RFC3339 and the legacy space-separated format
// that SQLite's CURRENT_TIMESTAMP default produces.
func parseTimestamp(value string) (time.Time, error) {
	t, err := time.Parse(time.RFC3339, value)
	if err == nil {
		return t, nil
	}
	return time.Parse("2006-01-02 15:04:05", value)
}

func parseNullableTimestamp(value sql.NullString) (*time.Time, bool) {
	if !value.Valid {
		return nil, false
	}
	t, err := parseTimestamp(value.String)
	if err != nil {
		return nil, false
	}
	return &t, true
}

func nullableString(s *string) any {
	if s == nil || *s == "" {
		return nil
	}
	return *s
}
