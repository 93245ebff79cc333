package rest

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/heartmarshall/finhistory-backend/internal/domain"
	"github.com/heartmarshall/finhistory-backend/internal/service/catalog"
	"github.com/heartmarshall/finhistory-backend/internal/service/editorial"
	"github.com/heartmarshall/finhistory-backend/internal/service/ingest"
)

// ---------------------------------------------------------------------------
// catalogService
// ---------------------------------------------------------------------------

var _ catalogService = &catalogMock{}

type catalogMock struct {
	ListEventsFunc      func(ctx context.Context, filter domain.EventFilter) (domain.EventPage, error)
	GetEventFunc        func(ctx context.Context, slug string) (*domain.EventDetail, error)
	EventsOnThisDayFunc func(ctx context.Context, input catalog.OnThisDayInput) ([]domain.Event, error)
	ListTimelinesFunc   func(ctx context.Context) ([]domain.TimelineSummary, error)
	ListTagsFunc        func(ctx context.Context) ([]domain.Tag, error)
	GetTimelineFunc     func(ctx context.Context, slug string) (*domain.TimelineDetail, error)
	GetSourceFunc       func(ctx context.Context, id uuid.UUID) (*domain.SourceDetail, error)
}

func (mock *catalogMock) ListEvents(ctx context.Context, filter domain.EventFilter) (domain.EventPage, error) {
	if mock.ListEventsFunc == nil {
		panic("catalogMock.ListEventsFunc: method is nil but catalogService.ListEvents was just called")
	}
	return mock.ListEventsFunc(ctx, filter)
}

func (mock *catalogMock) GetEvent(ctx context.Context, slug string) (*domain.EventDetail, error) {
	if mock.GetEventFunc == nil {
		panic("catalogMock.GetEventFunc: method is nil but catalogService.GetEvent was just called")
	}
	return mock.GetEventFunc(ctx, slug)
}

func (mock *catalogMock) EventsOnThisDay(ctx context.Context, input catalog.OnThisDayInput) ([]domain.Event, error) {
	if mock.EventsOnThisDayFunc == nil {
		panic("catalogMock.EventsOnThisDayFunc: method is nil but catalogService.EventsOnThisDay was just called")
	}
	return mock.EventsOnThisDayFunc(ctx, input)
}

func (mock *catalogMock) ListTimelines(ctx context.Context) ([]domain.TimelineSummary, error) {
	if mock.ListTimelinesFunc == nil {
		panic("catalogMock.ListTimelinesFunc: method is nil but catalogService.ListTimelines was just called")
	}
	return mock.ListTimelinesFunc(ctx)
}

func (mock *catalogMock) GetTimeline(ctx context.Context, slug string) (*domain.TimelineDetail, error) {
	if mock.GetTimelineFunc == nil {
		panic("catalogMock.GetTimelineFunc: method is nil but catalogService.GetTimeline was just called")
	}
	return mock.GetTimelineFunc(ctx, slug)
}

func (mock *catalogMock) ListTags(ctx context.Context) ([]domain.Tag, error) {
	if mock.ListTagsFunc == nil {
		panic("catalogMock.ListTagsFunc: method is nil but catalogService.ListTags was just called")
	}
	return mock.ListTagsFunc(ctx)
}

func (mock *catalogMock) GetSource(ctx context.Context, id uuid.UUID) (*domain.SourceDetail, error) {
	if mock.GetSourceFunc == nil {
		panic("catalogMock.GetSourceFunc: method is nil but catalogService.GetSource was just called")
	}
	return mock.GetSourceFunc(ctx, id)
}

// ---------------------------------------------------------------------------
// editorialService
// ---------------------------------------------------------------------------

var _ editorialService = &editorialMock{}

type editorialMock struct {
	CreateEventFunc         func(ctx context.Context, input editorial.CreateEventInput) (*domain.Event, error)
	UpdateEventFunc         func(ctx context.Context, input editorial.UpdateEventInput) (*domain.Event, error)
	PublishEventFunc        func(ctx context.Context, id uuid.UUID) (*domain.Event, error)
	ArchiveEventFunc        func(ctx context.Context, id uuid.UUID) (*domain.Event, error)
	CreateSourceFunc        func(ctx context.Context, input editorial.CreateSourceInput) (*domain.Source, error)
	CreateTagFunc           func(ctx context.Context, input editorial.CreateTagInput) (*domain.Tag, error)
	CreateTimelineFunc      func(ctx context.Context, input editorial.CreateTimelineInput) (*domain.Timeline, error)
	AttachSourceFunc        func(ctx context.Context, input editorial.AttachSourceInput) error
	DetachSourceFunc        func(ctx context.Context, eventID, sourceID uuid.UUID) error
	AttachTagFunc           func(ctx context.Context, eventID, tagID uuid.UUID) error
	DetachTagFunc           func(ctx context.Context, eventID, tagID uuid.UUID) error
	AttachTimelineEventFunc func(ctx context.Context, input editorial.TimelineEventInput) error
	UpdateTimelineEventFunc func(ctx context.Context, input editorial.TimelineEventInput) error
	DetachTimelineEventFunc func(ctx context.Context, timelineID, eventID uuid.UUID) error
}

func (mock *editorialMock) CreateEvent(ctx context.Context, input editorial.CreateEventInput) (*domain.Event, error) {
	if mock.CreateEventFunc == nil {
		panic("editorialMock.CreateEventFunc: method is nil but editorialService.CreateEvent was just called")
	}
	return mock.CreateEventFunc(ctx, input)
}

func (mock *editorialMock) UpdateEvent(ctx context.Context, input editorial.UpdateEventInput) (*domain.Event, error) {
	if mock.UpdateEventFunc == nil {
		panic("editorialMock.UpdateEventFunc: method is nil but editorialService.UpdateEvent was just called")
	}
	return mock.UpdateEventFunc(ctx, input)
}

func (mock *editorialMock) PublishEvent(ctx context.Context, id uuid.UUID) (*domain.Event, error) {
	if mock.PublishEventFunc == nil {
		panic("editorialMock.PublishEventFunc: method is nil but editorialService.PublishEvent was just called")
	}
	return mock.PublishEventFunc(ctx, id)
}

func (mock *editorialMock) ArchiveEvent(ctx context.Context, id uuid.UUID) (*domain.Event, error) {
	if mock.ArchiveEventFunc == nil {
		panic("editorialMock.ArchiveEventFunc: method is nil but editorialService.ArchiveEvent was just called")
	}
	return mock.ArchiveEventFunc(ctx, id)
}

func (mock *editorialMock) CreateSource(ctx context.Context, input editorial.CreateSourceInput) (*domain.Source, error) {
	if mock.CreateSourceFunc == nil {
		panic("editorialMock.CreateSourceFunc: method is nil but editorialService.CreateSource was just called")
	}
	return mock.CreateSourceFunc(ctx, input)
}

func (mock *editorialMock) CreateTag(ctx context.Context, input editorial.CreateTagInput) (*domain.Tag, error) {
	if mock.CreateTagFunc == nil {
		panic("editorialMock.CreateTagFunc: method is nil but editorialService.CreateTag was just called")
	}
	return mock.CreateTagFunc(ctx, input)
}

func (mock *editorialMock) CreateTimeline(ctx context.Context, input editorial.CreateTimelineInput) (*domain.Timeline, error) {
	if mock.CreateTimelineFunc == nil {
		panic("editorialMock.CreateTimelineFunc: method is nil but editorialService.CreateTimeline was just called")
	}
	return mock.CreateTimelineFunc(ctx, input)
}

func (mock *editorialMock) AttachSource(ctx context.Context, input editorial.AttachSourceInput) error {
	if mock.AttachSourceFunc == nil {
		panic("editorialMock.AttachSourceFunc: method is nil but editorialService.AttachSource was just called")
	}
	return mock.AttachSourceFunc(ctx, input)
}

func (mock *editorialMock) DetachSource(ctx context.Context, eventID, sourceID uuid.UUID) error {
	if mock.DetachSourceFunc == nil {
		panic("editorialMock.DetachSourceFunc: method is nil but editorialService.DetachSource was just called")
	}
	return mock.DetachSourceFunc(ctx, eventID, sourceID)
}

func (mock *editorialMock) AttachTag(ctx context.Context, eventID, tagID uuid.UUID) error {
	if mock.AttachTagFunc == nil {
		panic("editorialMock.AttachTagFunc: method is nil but editorialService.AttachTag was just called")
	}
	return mock.AttachTagFunc(ctx, eventID, tagID)
}

func (mock *editorialMock) DetachTag(ctx context.Context, eventID, tagID uuid.UUID) error {
	if mock.DetachTagFunc == nil {
		panic("editorialMock.DetachTagFunc: method is nil but editorialService.DetachTag was just called")
	}
	return mock.DetachTagFunc(ctx, eventID, tagID)
}

func (mock *editorialMock) AttachTimelineEvent(ctx context.Context, input editorial.TimelineEventInput) error {
	if mock.AttachTimelineEventFunc == nil {
		panic("editorialMock.AttachTimelineEventFunc: method is nil but editorialService.AttachTimelineEvent was just called")
	}
	return mock.AttachTimelineEventFunc(ctx, input)
}

func (mock *editorialMock) UpdateTimelineEvent(ctx context.Context, input editorial.TimelineEventInput) error {
	if mock.UpdateTimelineEventFunc == nil {
		panic("editorialMock.UpdateTimelineEventFunc: method is nil but editorialService.UpdateTimelineEvent was just called")
	}
	return mock.UpdateTimelineEventFunc(ctx, input)
}

func (mock *editorialMock) DetachTimelineEvent(ctx context.Context, timelineID, eventID uuid.UUID) error {
	if mock.DetachTimelineEventFunc == nil {
		panic("editorialMock.DetachTimelineEventFunc: method is nil but editorialService.DetachTimelineEvent was just called")
	}
	return mock.DetachTimelineEventFunc(ctx, timelineID, eventID)
}

// ---------------------------------------------------------------------------
// ingestService
// ---------------------------------------------------------------------------

var _ ingestService = &ingestMock{}

type ingestMock struct {
	ImportFunc    func(ctx context.Context, req ingest.ImportRequest) (*ingest.ImportResult, error)
	CreateJobFunc func(ctx context.Context, input ingest.CreateJobInput) (*domain.IngestionJob, error)
	UpdateJobFunc func(ctx context.Context, input ingest.UpdateJobInput) (*domain.IngestionJob, error)
	GetJobFunc    func(ctx context.Context, id uuid.UUID) (*domain.IngestionJob, error)
	ListJobsFunc  func(ctx context.Context, limit, offset int) ([]domain.IngestionJob, error)
}

func (mock *ingestMock) Import(ctx context.Context, req ingest.ImportRequest) (*ingest.ImportResult, error) {
	if mock.ImportFunc == nil {
		panic("ingestMock.ImportFunc: method is nil but ingestService.Import was just called")
	}
	return mock.ImportFunc(ctx, req)
}

func (mock *ingestMock) CreateJob(ctx context.Context, input ingest.CreateJobInput) (*domain.IngestionJob, error) {
	if mock.CreateJobFunc == nil {
		panic("ingestMock.CreateJobFunc: method is nil but ingestService.CreateJob was just called")
	}
	return mock.CreateJobFunc(ctx, input)
}

func (mock *ingestMock) UpdateJob(ctx context.Context, input ingest.UpdateJobInput) (*domain.IngestionJob, error) {
	if mock.UpdateJobFunc == nil {
		panic("ingestMock.UpdateJobFunc: method is nil but ingestService.UpdateJob was just called")
	}
	return mock.UpdateJobFunc(ctx, input)
}

func (mock *ingestMock) GetJob(ctx context.Context, id uuid.UUID) (*domain.IngestionJob, error) {
	if mock.GetJobFunc == nil {
		panic("ingestMock.GetJobFunc: method is nil but ingestService.GetJob was just called")
	}
	return mock.GetJobFunc(ctx, id)
}

func (mock *ingestMock) ListJobs(ctx context.Context, limit, offset int) ([]domain.IngestionJob, error) {
	if mock.ListJobsFunc == nil {
		panic("ingestMock.ListJobsFunc: method is nil but ingestService.ListJobs was just called")
	}
	return mock.ListJobsFunc(ctx, limit, offset)
}

// ---------------------------------------------------------------------------
// httpMetrics
// ---------------------------------------------------------------------------

var _ httpMetrics = &metricsMock{}

type observation struct {
	method string
	route  string
	status int
}

type metricsMock struct {
	mu       sync.Mutex
	observed []observation
}

func (m *metricsMock) ObserveHTTP(method, route string, status int, _ time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.observed = append(m.observed, observation{method: method, route: route, status: status})
}

func (m *metricsMock) Handler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Write([]byte("# metrics\n")) //nolint:errcheck
	})
}

func (m *metricsMock) observations() []observation {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]observation(nil), m.observed...)
}
