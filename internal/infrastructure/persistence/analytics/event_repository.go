package analytics

import (
	"database/sql"
	"time"

	"github.com/beaconworks/beacon-go/internal/domain/analytics"
	"github.com/beaconworks/beacon-go/internal/infrastructure/observability/logging"
	"github.com/beaconworks/beacon-go/internal/infrastructure/persistence/database"
	"github.com/beaconworks/beacon-go/pkg/config"
)

// SQLEventRepository is the SQL-based implementation of the EventRepository.
type SQLEventRepository struct {
	db     *database.DB
	logger *logging.ChanneledLogger
}

// NewSQLEventRepository creates a new instance of the repository.
func NewSQLEventRepository(db *database.DB, logger *logging.ChanneledLogger) *SQLEventRepository {
	return &SQLEventRepository{db: db, logger: logger}
}

// Store appends one interaction event. Events are immutable once written.
func (r *SQLEventRepository) Store(event *analytics.InteractionEvent) error {
	const query = `
		INSERT INTO interaction_events (
			id, session_id, page, event_type, x, y,
			viewport_width, viewport_height, page_height, scroll_depth,
			target_tag, target_id, target_class, target_text, device, created_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`

	_, err := r.db.Exec(
		query,
		event.ID,
		event.SessionID,
		event.Page,
		event.EventType,
		nullableInt(event.X),
		nullableInt(event.Y),
		event.ViewportWidth,
		event.ViewportHeight,
		event.PageHeight,
		nullableInt(event.ScrollDepth),
		event.TargetTag,
		event.TargetID,
		event.TargetClass,
		event.TargetText,
		event.Device,
		event.CreatedAt.UTC().Format(time.RFC3339),
	)
	if err != nil {
		r.logger.Database().Error("Failed to store interaction event",
			"error", err.Error(), "sessionId", event.SessionID, "eventType", event.EventType)
	}
	return err
}

// FindFiltered retrieves interaction events matching the filter, capped at
// filter.Limit rows. Rows beyond the cap are silently not scanned.
func (r *SQLEventRepository) FindFiltered(filter analytics.EventFilter) ([]*analytics.InteractionEvent, error) {
	query := `
		SELECT id, session_id, page, event_type, x, y,
		       viewport_width, viewport_height, page_height, scroll_depth,
		       target_tag, target_id, target_class, target_text, device, created_at
		FROM interaction_events
		WHERE page = ? AND event_type = ?`
	args := []any{filter.Page, filter.EventType}

	if filter.Device != nil && *filter.Device != "" {
		query += ` AND device = ?`
		args = append(args, *filter.Device)
	}
	if filter.From != nil {
		query += ` AND created_at >= ?`
		args = append(args, filter.From.UTC().Format(time.RFC3339))
	}
	if filter.To != nil {
		query += ` AND created_at < ?`
		args = append(args, filter.To.UTC().Format(time.RFC3339))
	}

	query += ` ORDER BY created_at DESC`
	if filter.Limit > 0 {
		query += ` LIMIT ?`
		args = append(args, filter.Limit)
	}

	start := time.Now()
	rows, err := r.db.Query(query, args...)
	if err != nil {
		r.logger.Database().Error("Failed to load interaction events",
			"error", err.Error(), "page", filter.Page, "eventType", filter.EventType)
		return nil, err
	}
	defer rows.Close()

	var events []*analytics.InteractionEvent
	for rows.Next() {
		event, err := scanEvent(rows)
		if err != nil {
			return nil, err
		}
		events = append(events, event)
	}

	duration := time.Since(start)
	if duration > config.SlowQueryThreshold {
		r.logger.LogSlowQuery("SELECT ... FROM interaction_events filtered", duration, "interaction_events")
	}
	return events, rows.Err()
}

// CountByPage returns event volume per page path, descending.
func (r *SQLEventRepository) CountByPage(limit int) ([]analytics.PageEventCount, error) {
	query := `
		SELECT page, COUNT(*) AS event_count
		FROM interaction_events
		GROUP BY page
		ORDER BY event_count DESC`
	args := []any{}
	if limit > 0 {
		query += ` LIMIT ?`
		args = append(args, limit)
	}

	rows, err := r.db.Query(query, args...)
	if err != nil {
		r.logger.Database().Error("Failed to count events by page", "error", err.Error())
		return nil, err
	}
	defer rows.Close()

	var counts []analytics.PageEventCount
	for rows.Next() {
		var pc analytics.PageEventCount
		if err := rows.Scan(&pc.Path, &pc.EventCount); err != nil {
			return nil, err
		}
		counts = append(counts, pc)
	}
	return counts, rows.Err()
}

func scanEvent(rows *sql.Rows) (*analytics.InteractionEvent, error) {
	var event analytics.InteractionEvent
	var x, y, scrollDepth sql.NullInt64
	var targetTag, targetID, targetClass, targetText sql.NullString
	var createdAt string

	err := rows.Scan(
		&event.ID,
		&event.SessionID,
		&event.Page,
		&event.EventType,
		&x,
		&y,
		&event.ViewportWidth,
		&event.ViewportHeight,
		&event.PageHeight,
		&scrollDepth,
		&targetTag,
		&targetID,
		&targetClass,
		&targetText,
		&event.Device,
		&createdAt,
	)
	if err != nil {
		return nil, err
	}

	if x.Valid {
		v := int(x.Int64)
		event.X = &v
	}
	if y.Valid {
		v := int(y.Int64)
		event.Y = &v
	}
	if scrollDepth.Valid {
		v := int(scrollDepth.Int64)
		event.ScrollDepth = &v
	}
	event.TargetTag = targetTag.String
	event.TargetID = targetID.String
	event.TargetClass = targetClass.String
	event.TargetText = targetText.String

	if event.CreatedAt, err = parseTimestamp(createdAt); err != nil {
		return nil, err
	}
	return &event, nil
}

func nullableInt(v *int) any {
	if v == nil {
		return nil
	}
	return *v
}
