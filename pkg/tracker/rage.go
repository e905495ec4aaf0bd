package tracker

import "time"

const (
	rageWindow    = 1000 * time.Millisecond
	rageThreshold = 3
)

// RageDetector classifies rapid click bursts. When the threshold number
// of clicks lands inside the sliding window, the triggering click is
// reported as a rage click and the window resets so a sustained burst
// does not fire repeatedly.
type RageDetector struct {
	window    time.Duration
	threshold int
	clicks    []time.Time
}

// NewRageDetector creates a detector with the default window and threshold.
func NewRageDetector() *RageDetector {
	return &RageDetector{
		window:    rageWindow,
		threshold: rageThreshold,
	}
}

// Observe records a click at the given instant and reports whether it
// completes a rage burst.
func (d *RageDetector) Observe(at time.Time) bool {
	cutoff := at.Add(-d.window)
	kept := d.clicks[:0]
	for _, t := range d.clicks {
		if t.After(cutoff) {
			kept = append(kept, t)
		}
	}
	d.clicks = append(kept, at)

	if len(d.clicks) >= d.threshold {
		d.clicks = d.clicks[:0]
		return true
	}
	return false
}
