package catalog

import (
	"context"
	"strings"

	"github.com/heartmarshall/finhistory-backend/internal/demo"
	"github.com/heartmarshall/finhistory-backend/internal/domain"
)

// ListTimelines returns every timeline with its published-event aggregates,
// ordered by title.
func (s *Service) ListTimelines(ctx context.Context) ([]domain.TimelineSummary, error) {
	return readThrough(ctx, s, "list_timelines",
		func(ctx context.Context) ([]domain.TimelineSummary, error) {
			return s.timelines.List(ctx)
		},
		func(snap *demo.Snapshot) ([]domain.TimelineSummary, error) {
			return snapshotTimelines{snap: snap}.List(ctx)
		},
	)
}

// GetTimeline returns a timeline by slug with its published events in
// sequence order.
func (s *Service) GetTimeline(ctx context.Context, slug string) (*domain.TimelineDetail, error) {
	slug = strings.ToLower(strings.TrimSpace(slug))
	if slug == "" {
		return nil, domain.NewValidationError("slug", "required")
	}

	return readThrough(ctx, s, "get_timeline",
		func(ctx context.Context) (*domain.TimelineDetail, error) {
			return s.timelines.GetBySlug(ctx, slug)
		},
		func(snap *demo.Snapshot) (*domain.TimelineDetail, error) {
			return snapshotTimelines{snap: snap}.GetBySlug(ctx, slug)
		},
	)
}
