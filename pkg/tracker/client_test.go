package tracker

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T, transport Transport, trackMoves bool) (*Client, *time.Time) {
	t.Helper()
	c := New(Config{
		UserAgent:  "Mozilla/5.0 (Windows NT 10.0; Win64; x64) Chrome/120.0.0.0 Safari/537.36",
		Referrer:   "https://example.com",
		TrackMoves: trackMoves,
		Transport:  transport,
	}, WithIdleFlush(time.Hour), WithMaxFlush(time.Hour))

	now := time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC)
	c.now = func() time.Time { return now }
	return c, &now
}

func allEvents(transport *captureTransport) []Event {
	var events []Event
	for _, batch := range transport.sent() {
		events = append(events, batch...)
	}
	return events
}

// waitForEvents flushes and polls until the transport has received n
// events. Session sends run on their own goroutine, so tests
// synchronize on the transport rather than on the call that queued
// the event.
func waitForEvents(t *testing.T, c *Client, transport *captureTransport, n int) []Event {
	t.Helper()
	var events []Event
	require.Eventually(t, func() bool {
		c.Flush()
		events = allEvents(transport)
		return len(events) == n
	}, time.Second, 5*time.Millisecond)
	return events
}

func TestClientFirstNavigationEmitsSessionEvent(t *testing.T) {
	transport := &captureTransport{}
	c, _ := newTestClient(t, transport, false)

	c.Navigate("/welcome")

	// Session events flush on their own, without an explicit Flush.
	var events []Event
	require.Eventually(t, func() bool {
		events = allEvents(transport)
		return len(events) == 1
	}, time.Second, 5*time.Millisecond)
	assert.Equal(t, EventTypeSession, events[0].Type)
	assert.Equal(t, "/welcome", events[0].EntryPage)
	assert.Equal(t, "https://example.com", events[0].Referrer)
	assert.Equal(t, DeviceDesktop, events[0].Device)
	assert.Equal(t, "Chrome", events[0].Browser)
	assert.NotEmpty(t, events[0].SessionID)
	assert.NotEmpty(t, events[0].VisitorID)
}

func TestClientLaterNavigationsEmitPageViews(t *testing.T) {
	transport := &captureTransport{}
	c, now := newTestClient(t, transport, false)

	c.Navigate("/")
	*now = now.Add(time.Minute)
	c.Navigate("/about")

	events := waitForEvents(t, c, transport, 2)
	assert.Equal(t, EventTypeSession, events[0].Type)
	assert.Equal(t, EventTypePageView, events[1].Type)
	assert.Equal(t, "/about", events[1].Page)
	assert.Equal(t, events[0].SessionID, events[1].SessionID)
}

func TestClientSessionRollsOverAfterIdleTimeout(t *testing.T) {
	transport := &captureTransport{}
	c, now := newTestClient(t, transport, false)

	c.Navigate("/")
	firstSession := waitForEvents(t, c, transport, 1)[0].SessionID

	*now = now.Add(31 * time.Minute)
	c.Navigate("/back-again")

	events := waitForEvents(t, c, transport, 2)
	assert.Equal(t, EventTypeSession, events[1].Type)
	assert.NotEqual(t, firstSession, events[1].SessionID)
	assert.Equal(t, "/back-again", events[1].EntryPage)
	// The visitor identity survives the session rollover.
	assert.Equal(t, events[0].VisitorID, events[1].VisitorID)
}

func TestClientRapidClicksBecomeRageClick(t *testing.T) {
	transport := &captureTransport{}
	c, now := newTestClient(t, transport, false)

	c.Navigate("/pricing")
	c.SetViewport(1920, 1080)

	c.Click(100, 200)
	*now = now.Add(300 * time.Millisecond)
	c.Click(102, 201)
	*now = now.Add(300 * time.Millisecond)
	c.Click(104, 202)

	events := waitForEvents(t, c, transport, 4)
	assert.Equal(t, EventTypeClick, events[1].Type)
	assert.Equal(t, EventTypeClick, events[2].Type)
	assert.Equal(t, EventTypeRageClick, events[3].Type)
	assert.Equal(t, "/pricing", events[3].Page)
	require.NotNil(t, events[3].X)
	assert.Equal(t, 104, *events[3].X)
	assert.Equal(t, 1920, events[3].ViewportW)
}

func TestClientScrollEmitsOnlyNewMaxima(t *testing.T) {
	transport := &captureTransport{}
	c, _ := newTestClient(t, transport, false)

	c.Navigate("/post")
	for _, depth := range []int{10, 30, 20, 50} {
		c.Scroll(depth)
	}

	events := waitForEvents(t, c, transport, 4) // session + three scroll maxima
	depths := []int{}
	for _, ev := range events[1:] {
		require.NotNil(t, ev.ScrollDepth)
		depths = append(depths, *ev.ScrollDepth)
	}
	assert.Equal(t, []int{10, 30, 50}, depths)
}

func TestClientMovesDisabledByDefault(t *testing.T) {
	transport := &captureTransport{}
	c, _ := newTestClient(t, transport, false)

	c.Navigate("/")
	c.Move(10, 10)

	events := waitForEvents(t, c, transport, 1)
	assert.Equal(t, EventTypeSession, events[0].Type)
}

func TestClientMoveThrottle(t *testing.T) {
	transport := &captureTransport{}
	c, now := newTestClient(t, transport, true)

	c.Navigate("/")
	c.Move(10, 10)
	*now = now.Add(50 * time.Millisecond) // inside throttle window
	c.Move(20, 20)
	*now = now.Add(100 * time.Millisecond)
	c.Move(30, 30)

	events := waitForEvents(t, c, transport, 3) // session + two surviving moves
	assert.Equal(t, EventTypeMove, events[1].Type)
	assert.Equal(t, EventTypeMove, events[2].Type)
	require.NotNil(t, events[2].X)
	assert.Equal(t, 30, *events[2].X)
}

func TestClientNavigateDoesNotAwaitDelivery(t *testing.T) {
	transport := newBlockingTransport()
	c, _ := newTestClient(t, transport, false)

	done := make(chan struct{})
	go func() {
		c.Navigate("/welcome")
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("navigation blocked on session delivery")
	}

	select {
	case <-transport.started:
	case <-time.After(time.Second):
		t.Fatal("session flush never reached the transport")
	}

	// Interactions stay responsive while the session send is in flight.
	clicked := make(chan struct{})
	go func() {
		c.Click(10, 10)
		close(clicked)
	}()
	select {
	case <-clicked:
	case <-time.After(time.Second):
		t.Fatal("click blocked behind the session delivery")
	}

	close(transport.release)
	require.Eventually(t, func() bool {
		return len(transport.sent()) >= 1
	}, time.Second, 5*time.Millisecond)
	assert.Equal(t, EventTypeSession, transport.sent()[0][0].Type)
}
