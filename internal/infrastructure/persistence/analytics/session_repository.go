// Package analytics provides the concrete SQL-based implementations of the
// tracking repositories (Session, InteractionEvent, PageView).
package analytics

import (
	"database/sql"
	"time"

	"github.com/beaconworks/beacon-go/internal/domain/analytics"
	"github.com/beaconworks/beacon-go/internal/infrastructure/observability/logging"
	"github.com/beaconworks/beacon-go/internal/infrastructure/persistence/database"
	"github.com/beaconworks/beacon-go/pkg/config"
)

// SQLSessionRepository is the SQL-based implementation of the SessionRepository.
type SQLSessionRepository struct {
	db     *database.DB
	logger *logging.ChanneledLogger
}

// NewSQLSessionRepository creates a new instance of the repository.
func NewSQLSessionRepository(db *database.DB, logger *logging.ChanneledLogger) *SQLSessionRepository {
	return &SQLSessionRepository{db: db, logger: logger}
}

const sessionColumns = `id, visitor_id, device, browser, browser_version, os, os_version,
	screen_width, screen_height, entry_page, exit_page, page_count, duration_seconds,
	max_scroll_depth, click_count, rage_click_count, referrer, utm_source, utm_medium,
	utm_campaign, utm_term, utm_content, converted, conversion_type,
	started_at, last_activity_at, ended_at`

// Upsert inserts a session row, ignoring duplicates by id so the first write
// wins. Returns whether a new row was created.
func (r *SQLSessionRepository) Upsert(session *analytics.Session) (bool, error) {
	const query = `
		INSERT INTO sessions (
			id, visitor_id, device, browser, browser_version, os, os_version,
			screen_width, screen_height, entry_page, exit_page, page_count,
			referrer, utm_source, utm_medium, utm_campaign, utm_term, utm_content,
			started_at, last_activity_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO NOTHING`

	start := time.Now()
	result, err := r.db.Exec(
		query,
		session.ID,
		nullableString(session.VisitorID),
		session.Device,
		session.Browser,
		session.BrowserVersion,
		session.OS,
		session.OSVersion,
		session.ScreenWidth,
		session.ScreenHeight,
		session.EntryPage,
		session.EntryPage, // exit page starts at the entry page
		1,                 // the entry navigation
		session.Referrer,
		session.UTMSource,
		session.UTMMedium,
		session.UTMCampaign,
		session.UTMTerm,
		session.UTMContent,
		session.StartedAt.UTC().Format(time.RFC3339),
		session.LastActivityAt.UTC().Format(time.RFC3339),
	)
	if err != nil {
		r.logger.Database().Error("Failed to upsert session", "error", err.Error(), "sessionId", session.ID)
		return false, err
	}
	r.observeQuery("INSERT INTO sessions ... ON CONFLICT DO NOTHING", start)

	affected, err := result.RowsAffected()
	if err != nil {
		return false, err
	}
	return affected > 0, nil
}

// FindByID retrieves a Session by its unique identifier.
func (r *SQLSessionRepository) FindByID(id string) (*analytics.Session, error) {
	query := `SELECT ` + sessionColumns + ` FROM sessions WHERE id = ?`

	row := r.db.QueryRow(query, id)
	session, err := scanSession(row)
	if err != nil {
		r.logger.Database().Error("Failed to load session", "error", err.Error(), "sessionId", id)
		return nil, err
	}
	return session, nil
}

// RecordPageView stamps exit page, last activity, and navigation count.
func (r *SQLSessionRepository) RecordPageView(id, exitPage string, at time.Time) error {
	const query = `
		UPDATE sessions SET
			exit_page = ?,
			page_count = page_count + 1,
			last_activity_at = ?,
			duration_seconds = CAST((julianday(?) - julianday(started_at)) * 86400 AS INTEGER)
		WHERE id = ?`

	stamp := at.UTC().Format(time.RFC3339)
	_, err := r.db.Exec(query, exitPage, stamp, stamp, id)
	if err != nil {
		r.logger.Database().Error("Failed to record page view on session", "error", err.Error(), "sessionId", id)
	}
	return err
}

// RecordInteraction folds an interaction event into the session counters.
func (r *SQLSessionRepository) RecordInteraction(id, eventType string, scrollDepth *int, at time.Time) error {
	query := `
		UPDATE sessions SET
			last_activity_at = ?,
			duration_seconds = CAST((julianday(?) - julianday(started_at)) * 86400 AS INTEGER)`
	stamp := at.UTC().Format(time.RFC3339)
	args := []any{stamp, stamp}

	switch eventType {
	case analytics.EventTypeClick:
		query += `, click_count = click_count + 1`
	case analytics.EventTypeRageClick:
		query += `, click_count = click_count + 1, rage_click_count = rage_click_count + 1`
	case analytics.EventTypeScroll:
		if scrollDepth != nil {
			query += `, max_scroll_depth = MAX(max_scroll_depth, ?)`
			args = append(args, *scrollDepth)
		}
	}

	query += ` WHERE id = ?`
	args = append(args, id)

	_, err := r.db.Exec(query, args...)
	if err != nil {
		r.logger.Database().Error("Failed to record interaction on session",
			"error", err.Error(), "sessionId", id, "eventType", eventType)
	}
	return err
}

// MarkConverted flags the session as converted. Once set it is never unset.
func (r *SQLSessionRepository) MarkConverted(id, conversionType string) error {
	const query = `
		UPDATE sessions SET converted = 1, conversion_type = ?
		WHERE id = ? AND converted = 0`

	_, err := r.db.Exec(query, conversionType, id)
	if err != nil {
		r.logger.Database().Error("Failed to mark session converted", "error", err.Error(), "sessionId", id)
	}
	return err
}

// FindInRange retrieves all sessions started within the window.
func (r *SQLSessionRepository) FindInRange(start, end time.Time) ([]*analytics.Session, error) {
	query := `SELECT ` + sessionColumns + `
		FROM sessions
		WHERE started_at >= ? AND started_at < ?
		ORDER BY started_at DESC`

	begin := time.Now()
	rows, err := r.db.Query(query, start.UTC().Format(time.RFC3339), end.UTC().Format(time.RFC3339))
	if err != nil {
		r.logger.Database().Error("Failed to load sessions in range", "error", err.Error())
		return nil, err
	}
	defer rows.Close()

	var sessions []*analytics.Session
	for rows.Next() {
		session, err := scanSessionFromRows(rows)
		if err != nil {
			return nil, err
		}
		sessions = append(sessions, session)
	}
	r.observeQuery("SELECT ... FROM sessions WHERE started_at range", begin)
	return sessions, rows.Err()
}

// CloseIdleBefore stamps ended_at on open sessions idle past the cutoff.
func (r *SQLSessionRepository) CloseIdleBefore(cutoff time.Time) (int, error) {
	const query = `
		UPDATE sessions SET ended_at = last_activity_at
		WHERE ended_at IS NULL AND last_activity_at < ?`

	result, err := r.db.Exec(query, cutoff.UTC().Format(time.RFC3339))
	if err != nil {
		r.logger.Database().Error("Failed to close idle sessions", "error", err.Error())
		return 0, err
	}
	affected, err := result.RowsAffected()
	return int(affected), err
}

func (r *SQLSessionRepository) observeQuery(query string, start time.Time) {
	duration := time.Since(start)
	if duration > config.SlowQueryThreshold {
		r.logger.LogSlowQuery(query, duration, "sessions")
	}
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanSession(row rowScanner) (*analytics.Session, error) {
	var session analytics.Session
	var visitorID, browser, browserVersion, osName, osVersion sql.NullString
	var referrer, utmSource, utmMedium, utmCampaign, utmTerm, utmContent sql.NullString
	var conversionType sql.NullString
	var startedAt, lastActivityAt string
	var endedAt sql.NullString

	err := row.Scan(
		&session.ID,
		&visitorID,
		&session.Device,
		&browser,
		&browserVersion,
		&osName,
		&osVersion,
		&session.ScreenWidth,
		&session.ScreenHeight,
		&session.EntryPage,
		&session.ExitPage,
		&session.PageCount,
		&session.DurationSeconds,
		&session.MaxScrollDepth,
		&session.ClickCount,
		&session.RageClickCount,
		&referrer,
		&utmSource,
		&utmMedium,
		&utmCampaign,
		&utmTerm,
		&utmContent,
		&session.Converted,
		&conversionType,
		&startedAt,
		&lastActivityAt,
		&endedAt,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil // Not found
		}
		return nil, err
	}

	if visitorID.Valid {
		session.VisitorID = &visitorID.String
	}
	session.Browser = browser.String
	session.BrowserVersion = browserVersion.String
	session.OS = osName.String
	session.OSVersion = osVersion.String
	session.Referrer = referrer.String
	session.UTMSource = utmSource.String
	session.UTMMedium = utmMedium.String
	session.UTMCampaign = utmCampaign.String
	session.UTMTerm = utmTerm.String
	session.UTMContent = utmContent.String
	if conversionType.Valid {
		session.ConversionType = &conversionType.String
	}

	if session.StartedAt, err = parseTimestamp(startedAt); err != nil {
		return nil, err
	}
	if session.LastActivityAt, err = parseTimestamp(lastActivityAt); err != nil {
		return nil, err
	}
	if endedAt.Valid {
		ended, err := parseTimestamp(endedAt.String)
		if err != nil {
			return nil, err
		}
		session.EndedAt = &ended
	}

	return &session, nil
}

func scanSessionFromRows(rows *sql.Rows) (*analytics.Session, error) {
	session, err := scanSession(rows)
	if err != nil {
		return nil, err
	}
	if session == nil {
		return nil, sql.ErrNoRows
	}
	return session, nil
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

func nullableString(s *string) any {
	if s == nil || *s == "" {
		return nil
	}
	return *s
}
