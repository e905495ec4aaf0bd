package analytics

import (
	"math"
	"sort"
)

// The virtual canvas all pointer coordinates are normalized onto before
// bucketing. Rendering happens against the same reference dimensions.
const (
	ReferenceWidth  = 1920
	ReferenceHeight = 1080
)

// HeatmapCell is one aggregated grid cell of click/move density. X and Y are
// integer percentages (0-100) on the reference canvas.
type HeatmapCell struct {
	X     int `json:"x"`
	Y     int `json:"y"`
	Count int `json:"count"`
}

// ScrollBucket counts the sessions whose maximum scroll depth fell into a
// 10-point-wide bin.
type ScrollBucket struct {
	Depth    int `json:"depth"`
	Sessions int `json:"sessions"`
}

// AggregateHeatmap buckets pointer events into reference-canvas percentage
// cells. Events without coordinates or with unusable viewport dimensions are
// skipped. No interpolation or smoothing is applied; that is a rendering
// concern.
func AggregateHeatmap(events []*InteractionEvent) []HeatmapCell {
	type cell struct{ x, y int }
	counts := make(map[cell]int)

	for _, ev := range events {
		if ev.X == nil || ev.Y == nil {
			continue
		}
		if ev.ViewportWidth <= 0 {
			continue
		}
		docHeight := ev.PageHeight
		if docHeight <= 0 {
			docHeight = ev.ViewportHeight
		}
		if docHeight <= 0 {
			continue
		}

		// Scale raw page-pixel coordinates onto the reference canvas, then
		// reduce to integer percentages on each axis.
		scaledX := *ev.X * ReferenceWidth / ev.ViewportWidth
		scaledY := *ev.Y * ReferenceHeight / docHeight

		c := cell{
			x: clampPercent(scaledX * 100 / ReferenceWidth),
			y: clampPercent(scaledY * 100 / ReferenceHeight),
		}
		counts[c]++
	}

	cells := make([]HeatmapCell, 0, len(counts))
	for c, n := range counts {
		cells = append(cells, HeatmapCell{X: c.x, Y: c.y, Count: n})
	}
	sort.Slice(cells, func(i, j int) bool {
		if cells[i].Count != cells[j].Count {
			return cells[i].Count > cells[j].Count
		}
		if cells[i].Y != cells[j].Y {
			return cells[i].Y < cells[j].Y
		}
		return cells[i].X < cells[j].X
	})
	return cells
}

// AggregateScrollDepth groups raw scroll events by session, takes each
// session's maximum depth, and buckets that maximum into 10-point-wide bins.
// The per-session max step matters: bucketing raw events directly would count
// a session once per bucket boundary it scrolled past.
func AggregateScrollDepth(events []*InteractionEvent) []ScrollBucket {
	maxBySession := make(map[string]int)
	for _, ev := range events {
		if ev.ScrollDepth == nil {
			continue
		}
		depth := clampPercent(*ev.ScrollDepth)
		if current, ok := maxBySession[ev.SessionID]; !ok || depth > current {
			maxBySession[ev.SessionID] = depth
		}
	}

	bucketCounts := make(map[int]int)
	for _, depth := range maxBySession {
		bucket := (depth / 10) * 10
		bucketCounts[bucket]++
	}

	buckets := make([]ScrollBucket, 0, len(bucketCounts))
	for depth, sessions := range bucketCounts {
		buckets = append(buckets, ScrollBucket{Depth: depth, Sessions: sessions})
	}
	sort.Slice(buckets, func(i, j int) bool { return buckets[i].Depth < buckets[j].Depth })
	return buckets
}

// SessionStats summarizes sessions over a reporting window. All percentages
// are rounded to one decimal place.
type SessionStats struct {
	TotalSessions   int            `json:"totalSessions"`
	UniqueVisitors  int            `json:"uniqueVisitors"`
	AvgDuration     float64        `json:"avgDuration"`
	AvgPageViews    float64        `json:"avgPageViews"`
	BounceRate      float64        `json:"bounceRate"`
	ConversionRate  float64        `json:"conversionRate"`
	DeviceBreakdown map[string]int `json:"deviceBreakdown"`
}

// ComputeSessionStats derives summary KPIs from a set of sessions. An empty
// set is a valid input and yields zero-filled metrics, never an error.
func ComputeSessionStats(sessions []*Session) SessionStats {
	stats := SessionStats{DeviceBreakdown: make(map[string]int)}
	stats.TotalSessions = len(sessions)
	if len(sessions) == 0 {
		return stats
	}

	visitors := make(map[string]struct{})
	var bounced, converted, totalDuration, totalPages int

	for _, s := range sessions {
		if s.VisitorID != nil && *s.VisitorID != "" {
			visitors[*s.VisitorID] = struct{}{}
		}
		if s.PageCount <= 1 {
			bounced++
		}
		if s.Converted {
			converted++
		}
		totalDuration += s.DurationSeconds
		totalPages += s.PageCount

		device := s.Device
		if device == "" {
			device = DeviceUnknown
		}
		stats.DeviceBreakdown[device]++
	}

	n := float64(len(sessions))
	stats.UniqueVisitors = len(visitors)
	stats.AvgDuration = round1(float64(totalDuration) / n)
	stats.AvgPageViews = round1(float64(totalPages) / n)
	stats.BounceRate = round1(float64(bounced) / n * 100)
	stats.ConversionRate = round1(float64(converted) / n * 100)
	return stats
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}

func clampPercent(v int) int {
	if v < 0 {
		return 0
	}
	if v > 100 {
		return 100
	}
	return v
}
