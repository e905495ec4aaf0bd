package analytics

import "time"

// EventFilter narrows interaction event reads for aggregation.
type EventFilter struct {
	Page      string
	EventType string
	Device    *string
	From      *time.Time
	To        *time.Time
	Limit     int
}

// SessionRepository defines the operations for persisting Session entities.
type SessionRepository interface {
	// Upsert inserts a session row; an existing id is a no-op (first writer
	// wins). Returns whether a new row was created.
	Upsert(session *Session) (bool, error)

	FindByID(id string) (*Session, error)

	// RecordPageView stamps exit page and last activity for a navigation.
	RecordPageView(id, exitPage string, at time.Time) error

	// RecordInteraction folds an interaction into the session counters:
	// click/rage_click counts, monotonic max scroll depth, last activity.
	RecordInteraction(id, eventType string, scrollDepth *int, at time.Time) error

	MarkConverted(id, conversionType string) error

	FindInRange(start, end time.Time) ([]*Session, error)

	// CloseIdleBefore stamps ended_at on open sessions whose last activity
	// predates the cutoff. Returns the number of sessions closed.
	CloseIdleBefore(cutoff time.Time) (int, error)
}

// EventRepository defines the contract for storing and retrieving raw
// interaction events.
type EventRepository interface {
	Store(event *InteractionEvent) error
	FindFiltered(filter EventFilter) ([]*InteractionEvent, error)
	CountByPage(limit int) ([]PageEventCount, error)
}

// PageViewRepository defines the contract for storing page view records.
type PageViewRepository interface {
	Store(view *PageView) error
}
