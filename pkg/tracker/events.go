// Package tracker is an embeddable behavioral tracking client. It batches
// interaction events, detects rage clicks, tracks scroll depth, and ships
// everything to a beacon ingestion endpoint.
package tracker

import "time"

// Event types emitted by the client. These match what the ingestion
// endpoint accepts.
const (
	EventTypeSession   = "session"
	EventTypePageView  = "pageview"
	EventTypeClick     = "click"
	EventTypeMove      = "move"
	EventTypeScroll    = "scroll"
	EventTypeRageClick = "rage_click"
)

// Event is a single tracking event on the wire.
type Event struct {
	Type        string    `json:"type"`
	SessionID   string    `json:"sessionId"`
	VisitorID   string    `json:"visitorId,omitempty"`
	Page        string    `json:"page,omitempty"`
	X           *int      `json:"x,omitempty"`
	Y           *int      `json:"y,omitempty"`
	ViewportW   int       `json:"viewportWidth,omitempty"`
	ViewportH   int       `json:"viewportHeight,omitempty"`
	ScrollDepth *int      `json:"scrollDepth,omitempty"`
	Device      string    `json:"device,omitempty"`
	Browser     string    `json:"browser,omitempty"`
	OS          string    `json:"os,omitempty"`
	Referrer    string    `json:"referrer,omitempty"`
	EntryPage   string    `json:"entryPage,omitempty"`
	Timestamp   time.Time `json:"timestamp"`
}

func intPtr(v int) *int { return &v }
