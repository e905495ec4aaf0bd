// Package leads defines the captured-contact entity, its repository
// interface, and the heuristic qualification scoring engine.
package leads

import (
	"regexp"
	"strings"
	"time"
)

// Lead statuses. Transitions are admin-driven; the only automatic value is
// the initial "new".
const (
	StatusNew       = "new"
	StatusContacted = "contacted"
	StatusQualified = "qualified"
	StatusConverted = "converted"
	StatusLost      = "lost"
	StatusSpam      = "spam"
)

// Classifications derived from score. "spam" exists in the data model but is
// never assigned by the scoring engine; it is reserved for manual tagging.
const (
	ClassificationHot  = "hot"
	ClassificationWarm = "warm"
	ClassificationCold = "cold"
	ClassificationSpam = "spam"
)

// Lead is a captured contact with its qualification score and a behavioral
// snapshot copied from the referenced session at creation time.
type Lead struct {
	ID             string   `json:"id"`
	Email          string   `json:"email"`
	Name           string   `json:"name,omitempty"`
	Company        string   `json:"company,omitempty"`
	Phone          string   `json:"phone,omitempty"`
	Source         string   `json:"source,omitempty"`
	SourcePage     string   `json:"sourcePage,omitempty"`
	SessionID      *string  `json:"sessionId,omitempty"`
	Score          int      `json:"aiScore"`
	ScoreReasons   []string `json:"aiScoreReasons"`
	Classification string   `json:"aiClassification"`

	// Behavioral snapshot, not a live link to the session.
	PagesViewed       int `json:"pagesViewed"`
	TimeOnSiteSeconds int `json:"timeOnSiteSeconds"`
	ScrollDepthAvg    int `json:"scrollDepthAvg"`

	Status      string     `json:"status"`
	ContactedAt *time.Time `json:"contactedAt,omitempty"`
	ConvertedAt *time.Time `json:"convertedAt,omitempty"`
	CreatedAt   time.Time  `json:"createdAt"`
	UpdatedAt   *time.Time `json:"updatedAt,omitempty"`
}

// ListFilter narrows admin lead listings.
type ListFilter struct {
	Status         string
	Classification string
	Page           int
	PageSize       int
}

// Repository defines the operations for persisting Lead entities.
type Repository interface {
	FindByID(id string) (*Lead, error)
	FindByEmail(email string) (*Lead, error)
	Store(lead *Lead) error

	// UpdateSessionLink re-points an existing lead at a newer session without
	// touching its score or classification.
	UpdateSessionLink(id string, sessionID *string, at time.Time) error

	UpdateStatus(id, status string, at time.Time) error
	List(filter ListFilter) ([]*Lead, int, error)
}

var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// NormalizeEmail lower-cases and trims an address for identity comparison.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// ValidEmail reports whether the address passes the RFC-lite syntax check.
func ValidEmail(email string) bool {
	return emailPattern.MatchString(email)
}

// ValidStatus reports whether s is one of the admitted lead statuses.
func ValidStatus(s string) bool {
	switch s {
	case StatusNew, StatusContacted, StatusQualified, StatusConverted, StatusLost, StatusSpam:
		return true
	}
	return false
}
