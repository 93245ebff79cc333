package ingest

import (
	"context"
	"maps"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/heartmarshall/finhistory-backend/internal/domain"
)

// ---------------------------------------------------------------------------
// memStore: in-memory live store keyed by natural keys
// ---------------------------------------------------------------------------

type linkKey struct{ event, source uuid.UUID }

type memState struct {
	sources   map[string]domain.Source
	events    map[string]domain.Event
	tags      map[string]domain.Tag
	links     map[linkKey]domain.EventSource
	eventTags map[linkKey]bool
}

func (st memState) clone() memState {
	return memState{
		sources:   maps.Clone(st.sources),
		events:    maps.Clone(st.events),
		tags:      maps.Clone(st.tags),
		links:     maps.Clone(st.links),
		eventTags: maps.Clone(st.eventTags),
	}
}

// memStore implements sourceRepo, eventRepo and txManager. A failed
// transaction restores the state it started with.
type memStore struct {
	mu    sync.Mutex
	state memState

	// attachSourceErr, when set, fails every AttachSource call.
	attachSourceErr error
	txCalls         int
}

func newMemStore() *memStore {
	return &memStore{state: memState{
		sources:   map[string]domain.Source{},
		events:    map[string]domain.Event{},
		tags:      map[string]domain.Tag{},
		links:     map[linkKey]domain.EventSource{},
		eventTags: map[linkKey]bool{},
	}}
}

var (
	_ sourceRepo = &memStore{}
	_ eventRepo  = &memStore{}
	_ tagRepo    = tagStore{}
	_ txManager  = &memStore{}
)

func (m *memStore) RunInTx(ctx context.Context, fn func(ctx context.Context) error) error {
	m.mu.Lock()
	m.txCalls++
	saved := m.state.clone()
	m.mu.Unlock()

	if err := fn(ctx); err != nil {
		m.mu.Lock()
		m.state = saved
		m.mu.Unlock()
		return err
	}
	return nil
}

func (m *memStore) UpsertByURL(_ context.Context, src *domain.Source) (uuid.UUID, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if existing, ok := m.state.sources[src.URL]; ok {
		src.ID = existing.ID
	}
	m.state.sources[src.URL] = *src
	return src.ID, nil
}

func (m *memStore) IDsByURLs(_ context.Context, urls []string) (map[string]uuid.UUID, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := map[string]uuid.UUID{}
	for _, u := range urls {
		if src, ok := m.state.sources[u]; ok {
			out[u] = src.ID
		}
	}
	return out, nil
}

func (m *memStore) UpsertBySlug(_ context.Context, ev *domain.Event) (uuid.UUID, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if existing, ok := m.state.events[ev.Slug]; ok {
		ev.ID = existing.ID
	}
	m.state.events[ev.Slug] = *ev
	return ev.ID, nil
}

func (m *memStore) IDsBySlugs(_ context.Context, slugs []string) (map[string]uuid.UUID, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := map[string]uuid.UUID{}
	for _, s := range slugs {
		if ev, ok := m.state.events[s]; ok {
			out[s] = ev.ID
		}
	}
	return out, nil
}

func (m *memStore) AttachSource(_ context.Context, link domain.EventSource) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.attachSourceErr != nil {
		return m.attachSourceErr
	}
	m.state.links[linkKey{link.EventID, link.SourceID}] = link
	return nil
}

func (m *memStore) AttachTag(_ context.Context, eventID, tagID uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.state.eventTags[linkKey{eventID, tagID}] = true
	return nil
}

// UpsertBySlug on tags is reached through tagStore to avoid a method clash.
type tagStore struct{ m *memStore }

func (t tagStore) UpsertBySlug(_ context.Context, tag *domain.Tag) (uuid.UUID, error) {
	t.m.mu.Lock()
	defer t.m.mu.Unlock()
	if existing, ok := t.m.state.tags[tag.Slug]; ok {
		return existing.ID, nil
	}
	t.m.state.tags[tag.Slug] = *tag
	return tag.ID, nil
}

func (m *memStore) counts() (sources, events, links int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.state.sources), len(m.state.events), len(m.state.links)
}

func (m *memStore) onlyLink() domain.EventSource {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, l := range m.state.links {
		return l
	}
	return domain.EventSource{}
}

// ---------------------------------------------------------------------------
// jobRepoMock
// ---------------------------------------------------------------------------

var _ jobRepo = &jobRepoMock{}

type jobRepoMock struct {
	GetByIDFunc   func(ctx context.Context, id uuid.UUID) (*domain.IngestionJob, error)
	ListFunc      func(ctx context.Context, limit, offset int) ([]domain.IngestionJob, error)
	CreateFunc    func(ctx context.Context, job *domain.IngestionJob) (*domain.IngestionJob, error)
	UpdateFunc    func(ctx context.Context, id uuid.UUID, upd domain.IngestionJobUpdate) (*domain.IngestionJob, error)
	MarkStaleFunc func(ctx context.Context, cutoff time.Time, reason string) (int, error)

	mu    sync.RWMutex
	calls struct {
		List []struct {
			Limit, Offset int
		}
		Update    []domain.IngestionJobUpdate
		MarkStale []time.Time
	}
}

func (mock *jobRepoMock) GetByID(ctx context.Context, id uuid.UUID) (*domain.IngestionJob, error) {
	if mock.GetByIDFunc == nil {
		panic("jobRepoMock.GetByIDFunc: method is nil but jobRepo.GetByID was just called")
	}
	return mock.GetByIDFunc(ctx, id)
}

func (mock *jobRepoMock) List(ctx context.Context, limit, offset int) ([]domain.IngestionJob, error) {
	if mock.ListFunc == nil {
		panic("jobRepoMock.ListFunc: method is nil but jobRepo.List was just called")
	}
	mock.mu.Lock()
	mock.calls.List = append(mock.calls.List, struct{ Limit, Offset int }{limit, offset})
	mock.mu.Unlock()
	return mock.ListFunc(ctx, limit, offset)
}

func (mock *jobRepoMock) ListCalls() []struct{ Limit, Offset int } {
	mock.mu.RLock()
	defer mock.mu.RUnlock()
	return mock.calls.List
}

func (mock *jobRepoMock) Create(ctx context.Context, job *domain.IngestionJob) (*domain.IngestionJob, error) {
	if mock.CreateFunc == nil {
		panic("jobRepoMock.CreateFunc: method is nil but jobRepo.Create was just called")
	}
	return mock.CreateFunc(ctx, job)
}

func (mock *jobRepoMock) Update(ctx context.Context, id uuid.UUID, upd domain.IngestionJobUpdate) (*domain.IngestionJob, error) {
	if mock.UpdateFunc == nil {
		panic("jobRepoMock.UpdateFunc: method is nil but jobRepo.Update was just called")
	}
	mock.mu.Lock()
	mock.calls.Update = append(mock.calls.Update, upd)
	mock.mu.Unlock()
	return mock.UpdateFunc(ctx, id, upd)
}

func (mock *jobRepoMock) UpdateCalls() []domain.IngestionJobUpdate {
	mock.mu.RLock()
	defer mock.mu.RUnlock()
	return mock.calls.Update
}

func (mock *jobRepoMock) MarkStale(ctx context.Context, cutoff time.Time, reason string) (int, error) {
	if mock.MarkStaleFunc == nil {
		panic("jobRepoMock.MarkStaleFunc: method is nil but jobRepo.MarkStale was just called")
	}
	mock.mu.Lock()
	mock.calls.MarkStale = append(mock.calls.MarkStale, cutoff)
	mock.mu.Unlock()
	return mock.MarkStaleFunc(ctx, cutoff, reason)
}

func (mock *jobRepoMock) MarkStaleCalls() []time.Time {
	mock.mu.RLock()
	defer mock.mu.RUnlock()
	return mock.calls.MarkStale
}

// ---------------------------------------------------------------------------
// recorderMock
// ---------------------------------------------------------------------------

type importCall struct {
	Mode                   string
	Failed                 bool
	Sources, Events, Links int
}

type recorderMock struct {
	mu      sync.Mutex
	imports []importCall
	expired []int
}

var _ importRecorder = &recorderMock{}

func (r *recorderMock) ImportFinished(mode string, failed bool, sources, events, links int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.imports = append(r.imports, importCall{mode, failed, sources, events, links})
}

func (r *recorderMock) StaleJobsExpired(n int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.expired = append(r.expired, n)
}

func (r *recorderMock) Imports() []importCall {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]importCall(nil), r.imports...)
}

type storeState bool

func (s storeState) Configured() bool { return bool(s) }

// failingTx fails every transaction without running it.
type failingTx struct{ err error }

func (f failingTx) RunInTx(context.Context, func(context.Context) error) error { return f.err }
