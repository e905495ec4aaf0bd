package tracker

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// captureTransport records batches and can be told to fail.
type captureTransport struct {
	mu      sync.Mutex
	batches [][]Event
	fail    bool
}

func (t *captureTransport) Send(ctx context.Context, events []Event) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.fail {
		return errors.New("transport down")
	}
	batch := make([]Event, len(events))
	copy(batch, events)
	t.batches = append(t.batches, batch)
	return nil
}

func (t *captureTransport) setFail(fail bool) {
	t.mu.Lock()
	t.fail = fail
	t.mu.Unlock()
}

func (t *captureTransport) sent() [][]Event {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.batches
}

// Long timers so tests control flushing explicitly.
func newTestBatcher(transport Transport, opts ...BatcherOption) *Batcher {
	base := []BatcherOption{
		WithIdleFlush(time.Hour),
		WithMaxFlush(time.Hour),
	}
	return NewBatcher(transport, append(base, opts...)...)
}

func TestBatcherFlushSendsQueuedEvents(t *testing.T) {
	transport := &captureTransport{}
	b := newTestBatcher(transport)

	b.Enqueue(Event{Type: EventTypeClick, SessionID: "s1"})
	b.Enqueue(Event{Type: EventTypeScroll, SessionID: "s1"})
	assert.Equal(t, 2, b.Pending())

	b.Flush()

	batches := transport.sent()
	require.Len(t, batches, 1)
	require.Len(t, batches[0], 2)
	assert.Equal(t, EventTypeClick, batches[0][0].Type)
	assert.Equal(t, EventTypeScroll, batches[0][1].Type)
	assert.Equal(t, 0, b.Pending())
}

func TestBatcherSessionEventFlushesImmediately(t *testing.T) {
	transport := &captureTransport{}
	b := newTestBatcher(transport)

	b.Enqueue(Event{Type: EventTypeSession, SessionID: "s1"})

	require.Eventually(t, func() bool {
		return len(transport.sent()) == 1
	}, time.Second, 5*time.Millisecond)
	assert.Equal(t, EventTypeSession, transport.sent()[0][0].Type)
}

// blockingTransport holds every Send open until released, so tests can
// observe what the batcher does while a delivery is in flight.
type blockingTransport struct {
	mu      sync.Mutex
	batches [][]Event
	started chan struct{}
	release chan struct{}
	once    sync.Once
}

func newBlockingTransport() *blockingTransport {
	return &blockingTransport{
		started: make(chan struct{}),
		release: make(chan struct{}),
	}
}

func (t *blockingTransport) Send(ctx context.Context, events []Event) error {
	t.once.Do(func() { close(t.started) })
	<-t.release
	t.mu.Lock()
	defer t.mu.Unlock()
	batch := make([]Event, len(events))
	copy(batch, events)
	t.batches = append(t.batches, batch)
	return nil
}

func (t *blockingTransport) sent() [][]Event {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.batches
}

func TestBatcherSessionEnqueueDoesNotAwaitDelivery(t *testing.T) {
	transport := newBlockingTransport()
	b := newTestBatcher(transport)

	done := make(chan struct{})
	go func() {
		b.Enqueue(Event{Type: EventTypeSession, SessionID: "s1"})
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("session enqueue blocked on delivery")
	}
	select {
	case <-transport.started:
	case <-time.After(time.Second):
		t.Fatal("session flush never reached the transport")
	}

	// The queue stays usable while the delivery is held open.
	b.Enqueue(Event{Type: EventTypeClick, SessionID: "s1"})
	assert.Equal(t, 1, b.Pending())

	close(transport.release)
	require.Eventually(t, func() bool {
		return len(transport.sent()) == 1
	}, time.Second, 5*time.Millisecond)
}

func TestBatcherRetryPreservesOrder(t *testing.T) {
	transport := &captureTransport{}
	b := newTestBatcher(transport)

	transport.setFail(true)
	b.Enqueue(Event{Type: EventTypeClick, SessionID: "s1", Page: "/a"})
	b.Flush()
	assert.Empty(t, transport.sent())
	assert.Equal(t, 1, b.Pending())

	b.Enqueue(Event{Type: EventTypeClick, SessionID: "s1", Page: "/b"})
	transport.setFail(false)
	b.Flush()

	batches := transport.sent()
	require.Len(t, batches, 1)
	require.Len(t, batches[0], 2)
	assert.Equal(t, "/a", batches[0][0].Page)
	assert.Equal(t, "/b", batches[0][1].Page)
}

func TestBatcherQueueCapDropsOldest(t *testing.T) {
	transport := &captureTransport{}
	b := newTestBatcher(transport, WithMaxQueue(3))

	for _, page := range []string{"/1", "/2", "/3", "/4"} {
		b.Enqueue(Event{Type: EventTypeClick, SessionID: "s1", Page: page})
	}

	assert.Equal(t, 3, b.Pending())
	b.Flush()

	batches := transport.sent()
	require.Len(t, batches, 1)
	assert.Equal(t, "/2", batches[0][0].Page)
	assert.Equal(t, "/4", batches[0][2].Page)
}

func TestBatcherCloseFlushesAndStops(t *testing.T) {
	transport := &captureTransport{}
	b := newTestBatcher(transport)

	b.Enqueue(Event{Type: EventTypeClick, SessionID: "s1"})
	b.Close()

	require.Len(t, transport.sent(), 1)

	// Enqueue after close is dropped.
	b.Enqueue(Event{Type: EventTypeClick, SessionID: "s1"})
	assert.Equal(t, 0, b.Pending())
}

func TestBatcherFlushOnEmptyQueueIsNoop(t *testing.T) {
	transport := &captureTransport{}
	b := newTestBatcher(transport)

	b.Flush()
	assert.Empty(t, transport.sent())
}

func TestBatcherStampsMissingTimestamps(t *testing.T) {
	transport := &captureTransport{}
	fixed := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	b := newTestBatcher(transport, withClock(func() time.Time { return fixed }))

	b.Enqueue(Event{Type: EventTypeClick, SessionID: "s1"})
	b.Flush()

	batches := transport.sent()
	require.Len(t, batches, 1)
	assert.Equal(t, fixed, batches[0][0].Timestamp)
}
