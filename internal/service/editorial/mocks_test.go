package editorial

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"github.com/heartmarshall/finhistory-backend/internal/domain"
)

var _ eventRepo = &eventRepoMock{}

type eventRepoMock struct {
	GetByIDFunc        func(ctx context.Context, id uuid.UUID) (*domain.Event, error)
	SlugCandidatesFunc func(ctx context.Context, base string) ([]string, error)
	CreateFunc         func(ctx context.Context, ev *domain.Event) (*domain.Event, error)
	UpdateFunc         func(ctx context.Context, id uuid.UUID, params domain.EventUpdateParams) (*domain.Event, error)
	SetStatusFunc      func(ctx context.Context, id uuid.UUID, status domain.EventStatus) (*domain.Event, error)
	AttachSourceFunc   func(ctx context.Context, link domain.EventSource) error
	DetachSourceFunc   func(ctx context.Context, eventID, sourceID uuid.UUID) error
	AttachTagFunc      func(ctx context.Context, eventID, tagID uuid.UUID) error
	DetachTagFunc      func(ctx context.Context, eventID, tagID uuid.UUID) error

	mu    sync.Mutex
	calls struct {
		Create       []*domain.Event
		SetStatus    []domain.EventStatus
		AttachSource []domain.EventSource
		AttachTag    []uuid.UUID
	}
}

func (mock *eventRepoMock) GetByID(ctx context.Context, id uuid.UUID) (*domain.Event, error) {
	if mock.GetByIDFunc == nil {
		panic("eventRepoMock.GetByIDFunc: method is nil but eventRepo.GetByID was just called")
	}
	return mock.GetByIDFunc(ctx, id)
}

func (mock *eventRepoMock) SlugCandidates(ctx context.Context, base string) ([]string, error) {
	if mock.SlugCandidatesFunc == nil {
		panic("eventRepoMock.SlugCandidatesFunc: method is nil but eventRepo.SlugCandidates was just called")
	}
	return mock.SlugCandidatesFunc(ctx, base)
}

func (mock *eventRepoMock) Create(ctx context.Context, ev *domain.Event) (*domain.Event, error) {
	if mock.CreateFunc == nil {
		panic("eventRepoMock.CreateFunc: method is nil but eventRepo.Create was just called")
	}
	mock.mu.Lock()
	mock.calls.Create = append(mock.calls.Create, ev)
	mock.mu.Unlock()
	return mock.CreateFunc(ctx, ev)
}

func (mock *eventRepoMock) CreateCalls() []*domain.Event {
	mock.mu.Lock()
	defer mock.mu.Unlock()
	return mock.calls.Create
}

func (mock *eventRepoMock) Update(ctx context.Context, id uuid.UUID, params domain.EventUpdateParams) (*domain.Event, error) {
	if mock.UpdateFunc == nil {
		panic("eventRepoMock.UpdateFunc: method is nil but eventRepo.Update was just called")
	}
	return mock.UpdateFunc(ctx, id, params)
}

func (mock *eventRepoMock) SetStatus(ctx context.Context, id uuid.UUID, status domain.EventStatus) (*domain.Event, error) {
	if mock.SetStatusFunc == nil {
		panic("eventRepoMock.SetStatusFunc: method is nil but eventRepo.SetStatus was just called")
	}
	mock.mu.Lock()
	mock.calls.SetStatus = append(mock.calls.SetStatus, status)
	mock.mu.Unlock()
	return mock.SetStatusFunc(ctx, id, status)
}

func (mock *eventRepoMock) SetStatusCalls() []domain.EventStatus {
	mock.mu.Lock()
	defer mock.mu.Unlock()
	return mock.calls.SetStatus
}

func (mock *eventRepoMock) AttachSource(ctx context.Context, link domain.EventSource) error {
	if mock.AttachSourceFunc == nil {
		panic("eventRepoMock.AttachSourceFunc: method is nil but eventRepo.AttachSource was just called")
	}
	mock.mu.Lock()
	mock.calls.AttachSource = append(mock.calls.AttachSource, link)
	mock.mu.Unlock()
	return mock.AttachSourceFunc(ctx, link)
}

func (mock *eventRepoMock) AttachSourceCalls() []domain.EventSource {
	mock.mu.Lock()
	defer mock.mu.Unlock()
	return mock.calls.AttachSource
}

func (mock *eventRepoMock) DetachSource(ctx context.Context, eventID, sourceID uuid.UUID) error {
	if mock.DetachSourceFunc == nil {
		panic("eventRepoMock.DetachSourceFunc: method is nil but eventRepo.DetachSource was just called")
	}
	return mock.DetachSourceFunc(ctx, eventID, sourceID)
}

func (mock *eventRepoMock) AttachTag(ctx context.Context, eventID, tagID uuid.UUID) error {
	if mock.AttachTagFunc == nil {
		panic("eventRepoMock.AttachTagFunc: method is nil but eventRepo.AttachTag was just called")
	}
	mock.mu.Lock()
	mock.calls.AttachTag = append(mock.calls.AttachTag, tagID)
	mock.mu.Unlock()
	return mock.AttachTagFunc(ctx, eventID, tagID)
}

func (mock *eventRepoMock) AttachTagCalls() []uuid.UUID {
	mock.mu.Lock()
	defer mock.mu.Unlock()
	return mock.calls.AttachTag
}

func (mock *eventRepoMock) DetachTag(ctx context.Context, eventID, tagID uuid.UUID) error {
	if mock.DetachTagFunc == nil {
		panic("eventRepoMock.DetachTagFunc: method is nil but eventRepo.DetachTag was just called")
	}
	return mock.DetachTagFunc(ctx, eventID, tagID)
}

var _ sourceRepo = &sourceRepoMock{}

type sourceRepoMock struct {
	CreateFunc func(ctx context.Context, src *domain.Source) (*domain.Source, error)
}

func (mock *sourceRepoMock) Create(ctx context.Context, src *domain.Source) (*domain.Source, error) {
	if mock.CreateFunc == nil {
		panic("sourceRepoMock.CreateFunc: method is nil but sourceRepo.Create was just called")
	}
	return mock.CreateFunc(ctx, src)
}

var _ tagRepo = &tagRepoMock{}

type tagRepoMock struct {
	CreateFunc       func(ctx context.Context, t *domain.Tag) (*domain.Tag, error)
	UpsertBySlugFunc func(ctx context.Context, t *domain.Tag) (uuid.UUID, error)
}

func (mock *tagRepoMock) Create(ctx context.Context, t *domain.Tag) (*domain.Tag, error) {
	if mock.CreateFunc == nil {
		panic("tagRepoMock.CreateFunc: method is nil but tagRepo.Create was just called")
	}
	return mock.CreateFunc(ctx, t)
}

func (mock *tagRepoMock) UpsertBySlug(ctx context.Context, t *domain.Tag) (uuid.UUID, error) {
	if mock.UpsertBySlugFunc == nil {
		panic("tagRepoMock.UpsertBySlugFunc: method is nil but tagRepo.UpsertBySlug was just called")
	}
	return mock.UpsertBySlugFunc(ctx, t)
}

var _ timelineRepo = &timelineRepoMock{}

type timelineRepoMock struct {
	CreateFunc      func(ctx context.Context, tl *domain.Timeline) (*domain.Timeline, error)
	AttachEventFunc func(ctx context.Context, te domain.TimelineEvent) error
	UpdateEventFunc func(ctx context.Context, te domain.TimelineEvent) error
	DetachEventFunc func(ctx context.Context, timelineID, eventID uuid.UUID) error
}

func (mock *timelineRepoMock) Create(ctx context.Context, tl *domain.Timeline) (*domain.Timeline, error) {
	if mock.CreateFunc == nil {
		panic("timelineRepoMock.CreateFunc: method is nil but timelineRepo.Create was just called")
	}
	return mock.CreateFunc(ctx, tl)
}

func (mock *timelineRepoMock) AttachEvent(ctx context.Context, te domain.TimelineEvent) error {
	if mock.AttachEventFunc == nil {
		panic("timelineRepoMock.AttachEventFunc: method is nil but timelineRepo.AttachEvent was just called")
	}
	return mock.AttachEventFunc(ctx, te)
}

func (mock *timelineRepoMock) UpdateEvent(ctx context.Context, te domain.TimelineEvent) error {
	if mock.UpdateEventFunc == nil {
		panic("timelineRepoMock.UpdateEventFunc: method is nil but timelineRepo.UpdateEvent was just called")
	}
	return mock.UpdateEventFunc(ctx, te)
}

func (mock *timelineRepoMock) DetachEvent(ctx context.Context, timelineID, eventID uuid.UUID) error {
	if mock.DetachEventFunc == nil {
		panic("timelineRepoMock.DetachEventFunc: method is nil but timelineRepo.DetachEvent was just called")
	}
	return mock.DetachEventFunc(ctx, timelineID, eventID)
}

var _ txManager = &txManagerMock{}

type txManagerMock struct {
	RunInTxFunc func(ctx context.Context, fn func(ctx context.Context) error) error
}

func (mock *txManagerMock) RunInTx(ctx context.Context, fn func(ctx context.Context) error) error {
	if mock.RunInTxFunc == nil {
		panic("txManagerMock.RunInTxFunc: method is nil but txManager.RunInTx was just called")
	}
	return mock.RunInTxFunc(ctx, fn)
}

type storeState bool

func (s storeState) Configured() bool { return bool(s) }
