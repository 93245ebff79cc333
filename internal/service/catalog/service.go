// Package catalog serves the public read operations. Every read is tried
// against the live store first and answered from the demo snapshot when the
// store is not configured or classified unavailable.
package catalog

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/heartmarshall/finhistory-backend/internal/availability"
	"github.com/heartmarshall/finhistory-backend/internal/demo"
	"github.com/heartmarshall/finhistory-backend/internal/domain"
)

type eventRepo interface {
	List(ctx context.Context, filter domain.EventFilter) (domain.EventPage, error)
	GetPublishedBySlug(ctx context.Context, slug string) (*domain.EventDetail, error)
	OnThisDay(ctx context.Context, month time.Month, day int) ([]domain.Event, error)
}

type sourceRepo interface {
	GetDetail(ctx context.Context, id uuid.UUID) (*domain.SourceDetail, error)
}

type tagRepo interface {
	List(ctx context.Context) ([]domain.Tag, error)
}

// timelineReader is implemented by the stored timeline repository and by
// the computed timelines of a demo snapshot.
type timelineReader interface {
	List(ctx context.Context) ([]domain.TimelineSummary, error)
	GetBySlug(ctx context.Context, slug string) (*domain.TimelineDetail, error)
}

type snapshotProvider interface {
	Snapshot(ctx context.Context) (*demo.Snapshot, error)
}

type liveStore interface {
	Configured() bool
}

type fallbackRecorder interface {
	FallbackServed(operation, signature string)
}

// Service provides the public catalog reads.
type Service struct {
	store     liveStore
	events    eventRepo
	sources   sourceRepo
	tags      tagRepo
	timelines timelineReader
	demo      snapshotProvider
	metrics   fallbackRecorder
	log       *slog.Logger
}

// NewService creates a new catalog service.
func NewService(
	log *slog.Logger,
	store liveStore,
	events eventRepo,
	sources sourceRepo,
	tags tagRepo,
	timelines timelineReader,
	demo snapshotProvider,
	metrics fallbackRecorder,
) *Service {
	return &Service{
		store:     store,
		events:    events,
		sources:   sources,
		tags:      tags,
		timelines: timelines,
		demo:      demo,
		metrics:   metrics,
		log:       log.With("service", "catalog"),
	}
}

// readThrough runs live unless the store is unconfigured, and answers from
// the snapshot when live fails with a classified unavailability. Any other
// live error is returned unchanged.
func readThrough[T any](
	ctx context.Context,
	s *Service,
	op string,
	live func(context.Context) (T, error),
	memory func(*demo.Snapshot) (T, error),
) (T, error) {
	if !s.store.Configured() {
		return fromSnapshot(ctx, s, op, memory)
	}

	out, err := live(ctx)
	if err == nil {
		return out, nil
	}

	sig := availability.Classify(err)
	if sig == availability.SignatureNone || domain.IsDataError(err) {
		var zero T
		return zero, err
	}

	s.log.WarnContext(ctx, "live store unavailable, serving demo snapshot",
		slog.String("operation", op),
		slog.String("signature", sig.String()),
		slog.String("error", err.Error()),
	)
	s.metrics.FallbackServed(op, sig.String())

	return fromSnapshot(ctx, s, op, memory)
}

func fromSnapshot[T any](ctx context.Context, s *Service, op string, memory func(*demo.Snapshot) (T, error)) (T, error) {
	snap, err := s.demo.Snapshot(ctx)
	if err != nil {
		var zero T
		return zero, fmt.Errorf("%s: demo snapshot: %w", op, err)
	}
	return memory(snap)
}

// snapshotTimelines adapts the computed timelines of a snapshot.
type snapshotTimelines struct {
	snap *demo.Snapshot
}

func (t snapshotTimelines) List(context.Context) ([]domain.TimelineSummary, error) {
	return t.snap.Timelines()
}

func (t snapshotTimelines) GetBySlug(_ context.Context, slug string) (*domain.TimelineDetail, error) {
	return t.snap.TimelineBySlug(slug)
}
