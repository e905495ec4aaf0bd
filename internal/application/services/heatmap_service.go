package services

import (
	"fmt"

	"github.com/beaconworks/beacon-go/internal/domain/analytics"
	"github.com/beaconworks/beacon-go/internal/infrastructure/observability/logging"
	"github.com/beaconworks/beacon-go/internal/infrastructure/observability/performance"
	"github.com/beaconworks/beacon-go/pkg/config"
)

// HeatmapService builds heatmap and scroll depth aggregations from raw
// interaction events.
type HeatmapService struct {
	eventRepo   analytics.EventRepository
	logger      *logging.ChanneledLogger
	perfTracker *performance.Tracker
}

// NewHeatmapService creates a new heatmap service.
func NewHeatmapService(eventRepo analytics.EventRepository, logger *logging.ChanneledLogger, perfTracker *performance.Tracker) *HeatmapService {
	return &HeatmapService{
		eventRepo:   eventRepo,
		logger:      logger,
		perfTracker: perfTracker,
	}
}

// GetHeatmap aggregates pointer events for a page into reference-canvas
// percentage cells. eventType must be click, move or rage_click.
func (s *HeatmapService) GetHeatmap(page, eventType string, filter analytics.EventFilter) ([]analytics.HeatmapCell, error) {
	marker := s.perfTracker.StartOperation("aggregate_heatmap")
	defer marker.Complete()

	if page == "" {
		return nil, fmt.Errorf("page cannot be empty")
	}
	switch eventType {
	case analytics.EventTypeClick, analytics.EventTypeMove, analytics.EventTypeRageClick:
	default:
		return nil, fmt.Errorf("unsupported heatmap event type: %s", eventType)
	}

	filter.Page = page
	filter.EventType = eventType
	if filter.Limit <= 0 || filter.Limit > config.HeatmapRowCap {
		filter.Limit = config.HeatmapRowCap
	}

	events, err := s.eventRepo.FindFiltered(filter)
	if err != nil {
		return nil, fmt.Errorf("failed to load events for heatmap: %w", err)
	}

	cells := analytics.AggregateHeatmap(events)
	marker.AddMetadata("events", len(events))
	marker.AddMetadata("cells", len(cells))
	return cells, nil
}

// GetScrollDepth aggregates per-session maximum scroll depth for a page
// into 10-point buckets.
func (s *HeatmapService) GetScrollDepth(page string, filter analytics.EventFilter) ([]analytics.ScrollBucket, error) {
	marker := s.perfTracker.StartOperation("aggregate_scroll_depth")
	defer marker.Complete()

	if page == "" {
		return nil, fmt.Errorf("page cannot be empty")
	}

	filter.Page = page
	filter.EventType = analytics.EventTypeScroll
	if filter.Limit <= 0 || filter.Limit > config.HeatmapRowCap {
		filter.Limit = config.HeatmapRowCap
	}

	events, err := s.eventRepo.FindFiltered(filter)
	if err != nil {
		return nil, fmt.Errorf("failed to load events for scroll depth: %w", err)
	}

	buckets := analytics.AggregateScrollDepth(events)
	marker.AddMetadata("events", len(events))
	marker.AddMetadata("buckets", len(buckets))
	return buckets, nil
}
