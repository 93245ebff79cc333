// Package ingest implements bulk import and ingestion job bookkeeping.
//
// Imports go to the live store inside a single transaction. When the store
// is not configured or unreachable, records are merged into the seed file
// on disk instead, so a later demo snapshot includes them.
package ingest

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/heartmarshall/finhistory-backend/internal/domain"
)

type sourceRepo interface {
	UpsertByURL(ctx context.Context, src *domain.Source) (uuid.UUID, error)
	IDsByURLs(ctx context.Context, urls []string) (map[string]uuid.UUID, error)
}

type eventRepo interface {
	UpsertBySlug(ctx context.Context, ev *domain.Event) (uuid.UUID, error)
	IDsBySlugs(ctx context.Context, slugs []string) (map[string]uuid.UUID, error)
	AttachSource(ctx context.Context, link domain.EventSource) error
	AttachTag(ctx context.Context, eventID, tagID uuid.UUID) error
}

type tagRepo interface {
	UpsertBySlug(ctx context.Context, t *domain.Tag) (uuid.UUID, error)
}

type jobRepo interface {
	GetByID(ctx context.Context, id uuid.UUID) (*domain.IngestionJob, error)
	List(ctx context.Context, limit, offset int) ([]domain.IngestionJob, error)
	Create(ctx context.Context, job *domain.IngestionJob) (*domain.IngestionJob, error)
	Update(ctx context.Context, id uuid.UUID, upd domain.IngestionJobUpdate) (*domain.IngestionJob, error)
	MarkStale(ctx context.Context, cutoff time.Time, reason string) (int, error)
}

type txManager interface {
	RunInTx(ctx context.Context, fn func(ctx context.Context) error) error
}

type liveStore interface {
	Configured() bool
}

type importRecorder interface {
	ImportFinished(mode string, failed bool, sources, events, links int)
	StaleJobsExpired(n int)
}

// Options configures the seed fallback and job limits.
type Options struct {
	SeedPath     string
	MainSeedName string
	MaxRecords   int
	StaleJobTTL  time.Duration
}

// Service provides bulk import and job bookkeeping.
type Service struct {
	store   liveStore
	sources sourceRepo
	events  eventRepo
	tags    tagRepo
	jobs    jobRepo
	tx      txManager
	metrics importRecorder
	opts    Options
	now     func() time.Time
	log     *slog.Logger
}

// NewService creates a new ingest service.
func NewService(
	log *slog.Logger,
	store liveStore,
	sources sourceRepo,
	events eventRepo,
	tags tagRepo,
	jobs jobRepo,
	tx txManager,
	metrics importRecorder,
	opts Options,
) *Service {
	return &Service{
		store:   store,
		sources: sources,
		events:  events,
		tags:    tags,
		jobs:    jobs,
		tx:      tx,
		metrics: metrics,
		opts:    opts,
		now:     time.Now,
		log:     log.With("service", "ingest"),
	}
}
