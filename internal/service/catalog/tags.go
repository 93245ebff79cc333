package catalog

import (
	"context"

	"github.com/heartmarshall/finhistory-backend/internal/demo"
	"github.com/heartmarshall/finhistory-backend/internal/domain"
)

// ListTags returns every tag ordered by slug. The demo snapshot only knows
// the tags derived from event categories.
func (s *Service) ListTags(ctx context.Context) ([]domain.Tag, error) {
	return readThrough(ctx, s, "list_tags",
		func(ctx context.Context) ([]domain.Tag, error) {
			return s.tags.List(ctx)
		},
		func(snap *demo.Snapshot) ([]domain.Tag, error) {
			return snap.Tags(), nil
		},
	)
}
