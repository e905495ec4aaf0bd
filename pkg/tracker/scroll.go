package tracker

// ScrollTracker reports scroll depth as a monotonically increasing
// percentage per page. Scrolling back up never produces an event; a
// navigation resets the high-water mark.
type ScrollTracker struct {
	maxDepth int
}

// NewScrollTracker creates a tracker with no depth recorded yet.
func NewScrollTracker() *ScrollTracker {
	return &ScrollTracker{maxDepth: -1}
}

// Observe takes the current scroll percentage and reports whether it
// sets a new high-water mark worth emitting.
func (s *ScrollTracker) Observe(depth int) bool {
	if depth < 0 {
		depth = 0
	}
	if depth > 100 {
		depth = 100
	}
	if depth > s.maxDepth {
		s.maxDepth = depth
		return true
	}
	return false
}

// Max returns the deepest point reached on the current page, or 0 when
// nothing has been observed.
func (s *ScrollTracker) Max() int {
	if s.maxDepth < 0 {
		return 0
	}
	return s.maxDepth
}

// Reset clears the high-water mark for a new page.
func (s *ScrollTracker) Reset() {
	s.maxDepth = -1
}
