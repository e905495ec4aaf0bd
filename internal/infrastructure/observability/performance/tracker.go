// Package performance provides performance tracking for Beacon operations.
package performance

import (
	"fmt"
	"sync"
	"time"
)

// Tracker manages performance markers and provides metrics aggregation
type Tracker struct {
	markers    map[string]*Marker
	maxMarkers int
	mu         sync.RWMutex
	started    time.Time
}

// NewTracker creates a new performance tracker
func NewTracker() *Tracker {
	return &Tracker{
		markers:    make(map[string]*Marker),
		maxMarkers: 10000,
		started:    time.Now(),
	}
}

// StartOperation creates and tracks a new performance marker for an operation
func (t *Tracker) StartOperation(operation string) *Marker {
	marker := &Marker{
		Operation: operation,
		StartTime: time.Now(),
		Metadata:  make(map[string]any),
		Success:   true, // Assume success until proven otherwise
	}

	markerID := fmt.Sprintf("%s_%d", operation, time.Now().UnixNano())

	t.mu.Lock()
	if len(t.markers) >= t.maxMarkers {
		t.evictOldestLocked()
	}
	t.markers[markerID] = marker
	t.mu.Unlock()

	return marker
}

// OperationCount returns the number of retained markers
func (t *Tracker) OperationCount() int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return len(t.markers)
}

// Uptime returns how long the tracker has been running
func (t *Tracker) Uptime() time.Duration {
	return time.Since(t.started)
}

func (t *Tracker) evictOldestLocked() {
	var oldestID string
	var oldestTime time.Time
	for id, m := range t.markers {
		if oldestID == "" || m.StartTime.Before(oldestTime) {
			oldestID = id
			oldestTime = m.StartTime
		}
	}
	if oldestID != "" {
		delete(t.markers, oldestID)
	}
}
