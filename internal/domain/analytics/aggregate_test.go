package analytics

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func scrollEvent(sessionID string, depth int) *InteractionEvent {
	return &InteractionEvent{
		ID:          sessionID + "-" + time.Now().Format("150405.000000000"),
		SessionID:   sessionID,
		EventType:   EventTypeScroll,
		ScrollDepth: &depth,
	}
}

func clickEvent(x, y, viewportW, pageH int) *InteractionEvent {
	return &InteractionEvent{
		SessionID:      "s1",
		EventType:      EventTypeClick,
		X:              &x,
		Y:              &y,
		ViewportWidth:  viewportW,
		ViewportHeight: pageH,
		PageHeight:     pageH,
	}
}

func TestAggregateScrollDepthPerSessionMax(t *testing.T) {
	// Session A peaks at 45, B at 48: both land in the 40 bucket.
	// Session C scrolls past 10 on its way to 90 and must be counted
	// once, in the 90 bucket only.
	events := []*InteractionEvent{
		scrollEvent("a", 20),
		scrollEvent("a", 45),
		scrollEvent("b", 48),
		scrollEvent("c", 10),
		scrollEvent("c", 90),
	}

	buckets := AggregateScrollDepth(events)

	require.Len(t, buckets, 2)
	assert.Equal(t, ScrollBucket{Depth: 40, Sessions: 2}, buckets[0])
	assert.Equal(t, ScrollBucket{Depth: 90, Sessions: 1}, buckets[1])
}

func TestAggregateScrollDepthClampsAndSkipsNil(t *testing.T) {
	over := 140
	events := []*InteractionEvent{
		{SessionID: "a", EventType: EventTypeScroll, ScrollDepth: &over},
		{SessionID: "b", EventType: EventTypeScroll}, // no depth recorded
	}

	buckets := AggregateScrollDepth(events)

	require.Len(t, buckets, 1)
	assert.Equal(t, ScrollBucket{Depth: 100, Sessions: 1}, buckets[0])
}

func TestAggregateScrollDepthEmpty(t *testing.T) {
	assert.Empty(t, AggregateScrollDepth(nil))
}

func TestAggregateHeatmapNormalizesToReferenceCanvas(t *testing.T) {
	// The same relative position on two very different viewports must
	// land in the same cell.
	events := []*InteractionEvent{
		clickEvent(958, 539, 1920, 1080), // mid-page on the reference canvas
		clickEvent(187, 333, 375, 667),   // the same relative spot on a phone viewport
	}

	cells := AggregateHeatmap(events)

	require.Len(t, cells, 1)
	assert.Equal(t, 49, cells[0].X)
	assert.Equal(t, 49, cells[0].Y)
	assert.Equal(t, 2, cells[0].Count)
}

func TestAggregateHeatmapSkipsUnusableEvents(t *testing.T) {
	x, y := 10, 10
	events := []*InteractionEvent{
		{SessionID: "a", EventType: EventTypeClick},                                      // no coordinates
		{SessionID: "a", EventType: EventTypeClick, X: &x, Y: &y},                        // no viewport
		{SessionID: "a", EventType: EventTypeClick, X: &x, Y: &y, ViewportWidth: 1920},   // no height
	}

	assert.Empty(t, AggregateHeatmap(events))
}

func TestAggregateHeatmapClampsOutOfRange(t *testing.T) {
	x, y := 4000, -50
	events := []*InteractionEvent{
		{SessionID: "a", EventType: EventTypeClick, X: &x, Y: &y, ViewportWidth: 1920, ViewportHeight: 1080, PageHeight: 1080},
	}

	cells := AggregateHeatmap(events)

	require.Len(t, cells, 1)
	assert.Equal(t, 100, cells[0].X)
	assert.Equal(t, 0, cells[0].Y)
}

func TestAggregateHeatmapSortsByCountDescending(t *testing.T) {
	events := []*InteractionEvent{
		clickEvent(0, 0, 1920, 1080),
		clickEvent(960, 540, 1920, 1080),
		clickEvent(960, 540, 1920, 1080),
	}

	cells := AggregateHeatmap(events)

	require.Len(t, cells, 2)
	assert.Equal(t, 2, cells[0].Count)
	assert.Equal(t, 1, cells[1].Count)
}

func TestComputeSessionStatsEmpty(t *testing.T) {
	stats := ComputeSessionStats(nil)

	assert.Equal(t, 0, stats.TotalSessions)
	assert.Equal(t, 0, stats.UniqueVisitors)
	assert.Zero(t, stats.AvgDuration)
	assert.Zero(t, stats.AvgPageViews)
	assert.Zero(t, stats.BounceRate)
	assert.Zero(t, stats.ConversionRate)
	assert.NotNil(t, stats.DeviceBreakdown)
	assert.Empty(t, stats.DeviceBreakdown)
}

func TestComputeSessionStats(t *testing.T) {
	visitor1 := "v1"
	visitor2 := "v2"
	sessions := []*Session{
		{ID: "a", VisitorID: &visitor1, Device: DeviceDesktop, PageCount: 1, DurationSeconds: 10},
		{ID: "b", VisitorID: &visitor1, Device: DeviceDesktop, PageCount: 4, DurationSeconds: 200, Converted: true},
		{ID: "c", VisitorID: &visitor2, Device: DeviceMobile, PageCount: 2, DurationSeconds: 100},
	}

	stats := ComputeSessionStats(sessions)

	assert.Equal(t, 3, stats.TotalSessions)
	assert.Equal(t, 2, stats.UniqueVisitors)
	assert.InDelta(t, 103.3, stats.AvgDuration, 0.001)
	assert.InDelta(t, 2.3, stats.AvgPageViews, 0.001)
	assert.InDelta(t, 33.3, stats.BounceRate, 0.001)
	assert.InDelta(t, 33.3, stats.ConversionRate, 0.001)
	assert.Equal(t, map[string]int{DeviceDesktop: 2, DeviceMobile: 1}, stats.DeviceBreakdown)
}

func TestComputeSessionStatsUnknownDeviceBucket(t *testing.T) {
	sessions := []*Session{
		{ID: "a", PageCount: 1},
	}

	stats := ComputeSessionStats(sessions)

	assert.Equal(t, 1, stats.DeviceBreakdown[DeviceUnknown])
	assert.Equal(t, 0, stats.UniqueVisitors)
}
