package catalog

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/heartmarshall/finhistory-backend/internal/domain"
)

var _ eventRepo = &eventRepoMock{}

type eventRepoMock struct {
	ListFunc               func(ctx context.Context, filter domain.EventFilter) (domain.EventPage, error)
	GetPublishedBySlugFunc func(ctx context.Context, slug string) (*domain.EventDetail, error)
	OnThisDayFunc          func(ctx context.Context, month time.Month, day int) ([]domain.Event, error)

	calls struct {
		List []struct {
			Filter domain.EventFilter
		}
		GetPublishedBySlug []struct {
			Slug string
		}
		OnThisDay []struct {
			Month time.Month
			Day   int
		}
	}
	lockList               sync.RWMutex
	lockGetPublishedBySlug sync.RWMutex
	lockOnThisDay          sync.RWMutex
}

func (mock *eventRepoMock) List(ctx context.Context, filter domain.EventFilter) (domain.EventPage, error) {
	if mock.ListFunc == nil {
		panic("eventRepoMock.ListFunc: method is nil but eventRepo.List was just called")
	}
	mock.lockList.Lock()
	mock.calls.List = append(mock.calls.List, struct{ Filter domain.EventFilter }{filter})
	mock.lockList.Unlock()
	return mock.ListFunc(ctx, filter)
}

func (mock *eventRepoMock) ListCalls() []struct{ Filter domain.EventFilter } {
	mock.lockList.RLock()
	defer mock.lockList.RUnlock()
	return mock.calls.List
}

func (mock *eventRepoMock) GetPublishedBySlug(ctx context.Context, slug string) (*domain.EventDetail, error) {
	if mock.GetPublishedBySlugFunc == nil {
		panic("eventRepoMock.GetPublishedBySlugFunc: method is nil but eventRepo.GetPublishedBySlug was just called")
	}
	mock.lockGetPublishedBySlug.Lock()
	mock.calls.GetPublishedBySlug = append(mock.calls.GetPublishedBySlug, struct{ Slug string }{slug})
	mock.lockGetPublishedBySlug.Unlock()
	return mock.GetPublishedBySlugFunc(ctx, slug)
}

func (mock *eventRepoMock) GetPublishedBySlugCalls() []struct{ Slug string } {
	mock.lockGetPublishedBySlug.RLock()
	defer mock.lockGetPublishedBySlug.RUnlock()
	return mock.calls.GetPublishedBySlug
}

func (mock *eventRepoMock) OnThisDay(ctx context.Context, month time.Month, day int) ([]domain.Event, error) {
	if mock.OnThisDayFunc == nil {
		panic("eventRepoMock.OnThisDayFunc: method is nil but eventRepo.OnThisDay was just called")
	}
	callInfo := struct {
		Month time.Month
		Day   int
	}{month, day}
	mock.lockOnThisDay.Lock()
	mock.calls.OnThisDay = append(mock.calls.OnThisDay, callInfo)
	mock.lockOnThisDay.Unlock()
	return mock.OnThisDayFunc(ctx, month, day)
}

var _ sourceRepo = &sourceRepoMock{}

type sourceRepoMock struct {
	GetDetailFunc func(ctx context.Context, id uuid.UUID) (*domain.SourceDetail, error)
}

func (mock *sourceRepoMock) GetDetail(ctx context.Context, id uuid.UUID) (*domain.SourceDetail, error) {
	if mock.GetDetailFunc == nil {
		panic("sourceRepoMock.GetDetailFunc: method is nil but sourceRepo.GetDetail was just called")
	}
	return mock.GetDetailFunc(ctx, id)
}

var _ tagRepo = &tagRepoMock{}

type tagRepoMock struct {
	ListFunc func(ctx context.Context) ([]domain.Tag, error)
}

func (mock *tagRepoMock) List(ctx context.Context) ([]domain.Tag, error) {
	if mock.ListFunc == nil {
		panic("tagRepoMock.ListFunc: method is nil but tagRepo.List was just called")
	}
	return mock.ListFunc(ctx)
}

var _ timelineReader = &timelineReaderMock{}

type timelineReaderMock struct {
	ListFunc      func(ctx context.Context) ([]domain.TimelineSummary, error)
	GetBySlugFunc func(ctx context.Context, slug string) (*domain.TimelineDetail, error)
}

func (mock *timelineReaderMock) List(ctx context.Context) ([]domain.TimelineSummary, error) {
	if mock.ListFunc == nil {
		panic("timelineReaderMock.ListFunc: method is nil but timelineReader.List was just called")
	}
	return mock.ListFunc(ctx)
}

func (mock *timelineReaderMock) GetBySlug(ctx context.Context, slug string) (*domain.TimelineDetail, error) {
	if mock.GetBySlugFunc == nil {
		panic("timelineReaderMock.GetBySlugFunc: method is nil but timelineReader.GetBySlug was just called")
	}
	return mock.GetBySlugFunc(ctx, slug)
}

var _ fallbackRecorder = &fallbackRecorderMock{}

type fallbackRecorderMock struct {
	mu    sync.Mutex
	calls []struct{ Operation, Signature string }
}

func (mock *fallbackRecorderMock) FallbackServed(operation, signature string) {
	mock.mu.Lock()
	defer mock.mu.Unlock()
	mock.calls = append(mock.calls, struct{ Operation, Signature string }{operation, signature})
}

func (mock *fallbackRecorderMock) FallbackServedCalls() []struct{ Operation, Signature string } {
	mock.mu.Lock()
	defer mock.mu.Unlock()
	return append([]struct{ Operation, Signature string }(nil), mock.calls...)
}

type storeState bool

func (s storeState) Configured() bool { return bool(s) }
