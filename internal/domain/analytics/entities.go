// Package analytics defines the behavioral tracking entities and the
// interfaces for accessing them. These repositories abstract the data
// persistence details, ensuring the core application is clean and decoupled
// from the database.
package analytics

import "time"

// Event type discriminators used on the wire and in storage.
const (
	EventTypeClick     = "click"
	EventTypeMove      = "move"
	EventTypeScroll    = "scroll"
	EventTypeRageClick = "rage_click"
)

// Device classifications.
const (
	DeviceDesktop = "desktop"
	DeviceTablet  = "tablet"
	DeviceMobile  = "mobile"
	DeviceUnknown = "unknown"
)

// Session represents one continuous visit by a browser instance, bounded by a
// 30-minute inactivity timeout. The owning visitor identifier is a long-lived
// pseudonymous correlation key with no row of its own.
type Session struct {
	ID              string     `json:"id"`
	VisitorID       *string    `json:"visitorId,omitempty"`
	Device          string     `json:"device"`
	Browser         string     `json:"browser"`
	BrowserVersion  string     `json:"browserVersion"`
	OS              string     `json:"os"`
	OSVersion       string     `json:"osVersion"`
	ScreenWidth     int        `json:"screenWidth"`
	ScreenHeight    int        `json:"screenHeight"`
	EntryPage       string     `json:"entryPage"`
	ExitPage        string     `json:"exitPage"`
	PageCount       int        `json:"pageCount"`
	DurationSeconds int        `json:"durationSeconds"`
	MaxScrollDepth  int        `json:"maxScrollDepth"`
	ClickCount      int        `json:"clickCount"`
	RageClickCount  int        `json:"rageClickCount"`
	Referrer        string     `json:"referrer"`
	UTMSource       string     `json:"utmSource"`
	UTMMedium       string     `json:"utmMedium"`
	UTMCampaign     string     `json:"utmCampaign"`
	UTMTerm         string     `json:"utmTerm"`
	UTMContent      string     `json:"utmContent"`
	Converted       bool       `json:"converted"`
	ConversionType  *string    `json:"conversionType,omitempty"`
	StartedAt       time.Time  `json:"startedAt"`
	LastActivityAt  time.Time  `json:"lastActivityAt"`
	EndedAt         *time.Time `json:"endedAt,omitempty"`
}

// InteractionEvent is one raw behavioral signal. Immutable once written.
type InteractionEvent struct {
	ID             string    `json:"id"`
	SessionID      string    `json:"sessionId"`
	Page           string    `json:"page"`
	EventType      string    `json:"eventType"`
	X              *int      `json:"x,omitempty"`
	Y              *int      `json:"y,omitempty"`
	ViewportWidth  int       `json:"viewportWidth"`
	ViewportHeight int       `json:"viewportHeight"`
	PageHeight     int       `json:"pageHeight"`
	ScrollDepth    *int      `json:"scrollDepth,omitempty"`
	TargetTag      string    `json:"targetTag,omitempty"`
	TargetID       string    `json:"targetId,omitempty"`
	TargetClass    string    `json:"targetClass,omitempty"`
	TargetText     string    `json:"targetText,omitempty"`
	Device         string    `json:"device"`
	CreatedAt      time.Time `json:"createdAt"`
}

// PageView records one navigation within a session. Append-only.
type PageView struct {
	ID        string    `json:"id"`
	SessionID string    `json:"sessionId"`
	Page      string    `json:"page"`
	Referrer  string    `json:"referrer,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
}

// PageEventCount pairs a page path with its interaction event volume.
type PageEventCount struct {
	Path       string `json:"path"`
	EventCount int    `json:"eventCount"`
}
