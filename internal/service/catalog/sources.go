package catalog

import (
	"context"

	"github.com/google/uuid"

	"github.com/heartmarshall/finhistory-backend/internal/demo"
	"github.com/heartmarshall/finhistory-backend/internal/domain"
)

// GetSource returns a source with its linked published events, most
// relevant first.
func (s *Service) GetSource(ctx context.Context, id uuid.UUID) (*domain.SourceDetail, error) {
	if id == uuid.Nil {
		return nil, domain.NewValidationError("id", "required")
	}

	return readThrough(ctx, s, "get_source",
		func(ctx context.Context) (*domain.SourceDetail, error) {
			return s.sources.GetDetail(ctx, id)
		},
		func(snap *demo.Snapshot) (*domain.SourceDetail, error) {
			return snap.SourceByID(id)
		},
	)
}
