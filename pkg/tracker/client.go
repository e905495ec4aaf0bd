package tracker

import (
	"sync"
	"time"
)

const moveThrottle = 100 * time.Millisecond

// Config holds the knobs for a tracking Client. Endpoint is required
// unless a custom Transport is supplied.
type Config struct {
	Endpoint   string
	UserAgent  string
	Referrer   string
	TrackMoves bool
	Store      Store
	Transport  Transport
}

// Client is the top-level tracking client. It owns the event batcher,
// session identity, rage click detection and scroll depth tracking.
type Client struct {
	mu       sync.Mutex
	batcher  *Batcher
	identity *Identity
	rage     *RageDetector
	scroll   *ScrollTracker
	info     ClientInfo

	referrer   string
	entryPage  string
	page       string
	viewportW  int
	viewportH  int
	trackMoves bool
	lastMove   time.Time

	now func() time.Time
}

// New creates a Client from the given config.
func New(cfg Config, opts ...BatcherOption) *Client {
	transport := cfg.Transport
	if transport == nil {
		transport = NewHTTPTransport(cfg.Endpoint)
	}
	return &Client{
		batcher:    NewBatcher(transport, opts...),
		identity:   NewIdentity(cfg.Store),
		rage:       NewRageDetector(),
		scroll:     NewScrollTracker(),
		info:       ClassifyUserAgent(cfg.UserAgent),
		referrer:   cfg.Referrer,
		trackMoves: cfg.TrackMoves,
		now:        time.Now,
	}
}

// SetViewport records the viewport dimensions stamped on position events.
func (c *Client) SetViewport(width, height int) {
	c.mu.Lock()
	c.viewportW = width
	c.viewportH = height
	c.mu.Unlock()
}

// Navigate records a page view. The first navigation of a session emits
// a session event carrying the full client metadata; that event stands
// in for the entry page view. Later navigations emit pageview events.
func (c *Client) Navigate(page string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	at := c.now().UTC()
	sessionID, isNew := c.identity.Touch(at)
	c.page = page
	c.scroll.Reset()

	if isNew {
		c.entryPage = page
		c.batcher.Enqueue(Event{
			Type:      EventTypeSession,
			SessionID: sessionID,
			VisitorID: c.identity.VisitorID(),
			Page:      page,
			EntryPage: page,
			Referrer:  c.referrer,
			Device:    c.info.Device,
			Browser:   c.info.Browser,
			OS:        c.info.OS,
			Timestamp: at,
		})
		return
	}

	c.batcher.Enqueue(Event{
		Type:      EventTypePageView,
		SessionID: sessionID,
		Page:      page,
		Timestamp: at,
	})
}

// Click records a click at viewport coordinates. A burst of rapid
// clicks turns the triggering click into a rage click event.
func (c *Client) Click(x, y int) {
	c.mu.Lock()
	defer c.mu.Unlock()

	at := c.now().UTC()
	sessionID := c.touchSession(at)

	eventType := EventTypeClick
	if c.rage.Observe(at) {
		eventType = EventTypeRageClick
	}

	c.batcher.Enqueue(Event{
		Type:      eventType,
		SessionID: sessionID,
		Page:      c.page,
		X:         intPtr(x),
		Y:         intPtr(y),
		ViewportW: c.viewportW,
		ViewportH: c.viewportH,
		Timestamp: at,
	})
}

// Move records a pointer position. Moves are throttled and off by
// default since they dominate event volume.
func (c *Client) Move(x, y int) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.trackMoves {
		return
	}
	at := c.now().UTC()
	if at.Sub(c.lastMove) < moveThrottle {
		return
	}
	c.lastMove = at

	sessionID := c.touchSession(at)
	c.batcher.Enqueue(Event{
		Type:      EventTypeMove,
		SessionID: sessionID,
		Page:      c.page,
		X:         intPtr(x),
		Y:         intPtr(y),
		ViewportW: c.viewportW,
		ViewportH: c.viewportH,
		Timestamp: at,
	})
}

// Scroll records the current scroll percentage, emitting only new
// per-page high-water marks.
func (c *Client) Scroll(depth int) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.scroll.Observe(depth) {
		return
	}
	at := c.now().UTC()
	sessionID := c.touchSession(at)
	c.batcher.Enqueue(Event{
		Type:        EventTypeScroll,
		SessionID:   sessionID,
		Page:        c.page,
		ScrollDepth: intPtr(c.scroll.Max()),
		Timestamp:   at,
	})
}

// Flush forces delivery of everything queued.
func (c *Client) Flush() {
	c.batcher.Flush()
}

// Close flushes pending events and shuts the client down.
func (c *Client) Close() {
	c.batcher.Close()
}

// touchSession keeps the session alive, emitting a fresh session event
// when the idle timeout rolled it over mid-page.
func (c *Client) touchSession(at time.Time) string {
	sessionID, isNew := c.identity.Touch(at)
	if isNew {
		c.entryPage = c.page
		c.batcher.Enqueue(Event{
			Type:      EventTypeSession,
			SessionID: sessionID,
			VisitorID: c.identity.VisitorID(),
			Page:      c.page,
			EntryPage: c.page,
			Referrer:  c.referrer,
			Device:    c.info.Device,
			Browser:   c.info.Browser,
			OS:        c.info.OS,
			Timestamp: at,
		})
	}
	return sessionID
}
