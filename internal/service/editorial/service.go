// Package editorial implements the admin write operations. Writes go to the
// live store only: when it is not configured or unreachable they fail with
// domain.ErrUnavailable.
package editorial

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/heartmarshall/finhistory-backend/internal/availability"
	"github.com/heartmarshall/finhistory-backend/internal/domain"
)

type eventRepo interface {
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Event, error)
	SlugCandidates(ctx context.Context, base string) ([]string, error)
	Create(ctx context.Context, ev *domain.Event) (*domain.Event, error)
	Update(ctx context.Context, id uuid.UUID, params domain.EventUpdateParams) (*domain.Event, error)
	SetStatus(ctx context.Context, id uuid.UUID, status domain.EventStatus) (*domain.Event, error)

	AttachSource(ctx context.Context, link domain.EventSource) error
	DetachSource(ctx context.Context, eventID, sourceID uuid.UUID) error
	AttachTag(ctx context.Context, eventID, tagID uuid.UUID) error
	DetachTag(ctx context.Context, eventID, tagID uuid.UUID) error
}

type sourceRepo interface {
	Create(ctx context.Context, src *domain.Source) (*domain.Source, error)
}

type tagRepo interface {
	Create(ctx context.Context, t *domain.Tag) (*domain.Tag, error)
	UpsertBySlug(ctx context.Context, t *domain.Tag) (uuid.UUID, error)
}

type timelineRepo interface {
	Create(ctx context.Context, tl *domain.Timeline) (*domain.Timeline, error)
	AttachEvent(ctx context.Context, te domain.TimelineEvent) error
	UpdateEvent(ctx context.Context, te domain.TimelineEvent) error
	DetachEvent(ctx context.Context, timelineID, eventID uuid.UUID) error
}

type txManager interface {
	RunInTx(ctx context.Context, fn func(ctx context.Context) error) error
}

type liveStore interface {
	Configured() bool
}

// Service provides the editorial write operations.
type Service struct {
	store     liveStore
	events    eventRepo
	sources   sourceRepo
	tags      tagRepo
	timelines timelineRepo
	tx        txManager
	log       *slog.Logger
}

// NewService creates a new editorial service.
func NewService(
	log *slog.Logger,
	store liveStore,
	events eventRepo,
	sources sourceRepo,
	tags tagRepo,
	timelines timelineRepo,
	tx txManager,
) *Service {
	return &Service{
		store:     store,
		events:    events,
		sources:   sources,
		tags:      tags,
		timelines: timelines,
		tx:        tx,
		log:       log.With("service", "editorial"),
	}
}

// write runs fn in a transaction. An unconfigured store or a classified
// connectivity failure becomes domain.ErrUnavailable.
func (s *Service) write(ctx context.Context, op string, fn func(ctx context.Context) error) error {
	if !s.store.Configured() {
		return fmt.Errorf("%s: %w", op, domain.ErrUnavailable)
	}

	err := s.tx.RunInTx(ctx, fn)
	if err == nil {
		return nil
	}
	if domain.IsDataError(err) {
		return err
	}
	if sig := availability.Classify(err); sig != availability.SignatureNone {
		s.log.WarnContext(ctx, "write rejected, live store unavailable",
			slog.String("operation", op),
			slog.String("signature", sig.String()),
			slog.String("error", err.Error()),
		)
		return fmt.Errorf("%s: %w: %w", op, domain.ErrUnavailable, err)
	}
	return fmt.Errorf("%s: %w", op, err)
}
