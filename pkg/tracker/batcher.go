package tracker

import (
	"context"
	"sync"
	"time"
)

const (
	defaultIdleFlush = 2 * time.Second
	defaultMaxFlush  = 10 * time.Second
	defaultMaxQueue  = 1000
	sendTimeout      = 15 * time.Second
)

// Batcher accumulates events and flushes them to its Transport. A flush
// happens when the queue has been idle for the idle interval, when the
// oldest queued event has waited the max interval, when a session event
// is enqueued, or on Close. Failed batches are re-queued at the front of
// the queue; the queue is capped and drops oldest events on overflow.
type Batcher struct {
	mu        sync.Mutex
	transport Transport
	queue     []Event
	maxQueue  int
	idleAfter time.Duration
	maxAfter  time.Duration

	idleTimer *time.Timer
	maxTimer  *time.Timer
	flushing  bool
	closed    bool

	now func() time.Time
}

// BatcherOption configures a Batcher.
type BatcherOption func(*Batcher)

// WithIdleFlush sets how long the queue must be idle before flushing.
func WithIdleFlush(d time.Duration) BatcherOption {
	return func(b *Batcher) { b.idleAfter = d }
}

// WithMaxFlush sets the longest any event may wait before a forced flush.
func WithMaxFlush(d time.Duration) BatcherOption {
	return func(b *Batcher) { b.maxAfter = d }
}

// WithMaxQueue caps the number of events held across retries.
func WithMaxQueue(n int) BatcherOption {
	return func(b *Batcher) { b.maxQueue = n }
}

func withClock(now func() time.Time) BatcherOption {
	return func(b *Batcher) { b.now = now }
}

// NewBatcher creates a Batcher delivering through the given transport.
func NewBatcher(transport Transport, opts ...BatcherOption) *Batcher {
	b := &Batcher{
		transport: transport,
		maxQueue:  defaultMaxQueue,
		idleAfter: defaultIdleFlush,
		maxAfter:  defaultMaxFlush,
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Enqueue adds an event to the queue. Session events trigger an
// immediate flush so server-side session rows exist before any
// interaction events arrive. The flush runs on its own goroutine;
// Enqueue never awaits delivery.
func (b *Batcher) Enqueue(event Event) {
	b.mu.Lock()
	if b.closed {
		b.mu.Unlock()
		return
	}
	if event.Timestamp.IsZero() {
		event.Timestamp = b.now().UTC()
	}
	b.push(event)

	if event.Type == EventTypeSession {
		b.mu.Unlock()
		go b.Flush()
		return
	}

	b.resetIdleTimer()
	if b.maxTimer == nil {
		b.maxTimer = time.AfterFunc(b.maxAfter, b.Flush)
	}
	b.mu.Unlock()
}

// Flush sends everything currently queued. On transport failure the
// batch is returned to the front of the queue for the next attempt.
func (b *Batcher) Flush() {
	b.mu.Lock()
	if b.flushing || len(b.queue) == 0 {
		b.mu.Unlock()
		return
	}
	b.flushing = true
	batch := b.queue
	b.queue = nil
	b.stopTimers()
	b.mu.Unlock()

	ctx, cancel := context.WithTimeout(context.Background(), sendTimeout)
	err := b.transport.Send(ctx, batch)
	cancel()

	b.mu.Lock()
	b.flushing = false
	if err != nil {
		// Retry batch goes first so delivery order is preserved.
		b.queue = append(batch, b.queue...)
		b.trim()
		if !b.closed {
			b.resetIdleTimer()
			if b.maxTimer == nil {
				b.maxTimer = time.AfterFunc(b.maxAfter, b.Flush)
			}
		}
	}
	b.mu.Unlock()
}

// Close flushes any remaining events and stops the batcher.
func (b *Batcher) Close() {
	b.mu.Lock()
	if b.closed {
		b.mu.Unlock()
		return
	}
	b.closed = true
	b.stopTimers()
	b.mu.Unlock()
	b.Flush()
}

// Pending returns the number of queued events.
func (b *Batcher) Pending() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.queue)
}

// push appends under lock, dropping the oldest events on overflow.
func (b *Batcher) push(event Event) {
	b.queue = append(b.queue, event)
	b.trim()
}

func (b *Batcher) trim() {
	if over := len(b.queue) - b.maxQueue; over > 0 {
		b.queue = b.queue[over:]
	}
}

func (b *Batcher) resetIdleTimer() {
	if b.idleTimer != nil {
		b.idleTimer.Stop()
	}
	b.idleTimer = time.AfterFunc(b.idleAfter, b.Flush)
}

func (b *Batcher) stopTimers() {
	if b.idleTimer != nil {
		b.idleTimer.Stop()
		b.idleTimer = nil
	}
	if b.maxTimer != nil {
		b.maxTimer.Stop()
		b.maxTimer = nil
	}
}
