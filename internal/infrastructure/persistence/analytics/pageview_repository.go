package analytics

import (
	"time"

	"github.com/beaconworks/beacon-go/internal/domain/analytics"
	"github.com/beaconworks/beacon-go/internal/infrastructure/observability/logging"
	"github.com/beaconworks/beacon-go/internal/infrastructure/persistence/database"
)

// SQLPageViewRepository is the SQL-based implementation of the PageViewRepository.
type SQLPageViewRepository struct {
	db     *database.DB
	logger *logging.ChanneledLogger
}

// NewSQLPageViewRepository creates a new instance of the repository.
func NewSQLPageViewRepository(db *database.DB, logger *logging.ChanneledLogger) *SQLPageViewRepository {
	return &SQLPageViewRepository{db: db, logger: logger}
}

// Store appends one page view record.
func (r *SQLPageViewRepository) Store(view *analytics.PageView) error {
	const query = `
		INSERT INTO page_views (id, session_id, page, referrer, created_at)
		VALUES (?, ?, ?, ?, ?)`

	_, err := r.db.Exec(
		query,
		view.ID,
		view.SessionID,
		view.Page,
		view.Referrer,
		view.CreatedAt.UTC().Format(time.RFC3339),
	)
	if err != nil {
		r.logger.Database().Error("Failed to store page view",
			"error", err.Error(), "sessionId", view.SessionID, "page", view.Page)
	}
	return err
}
