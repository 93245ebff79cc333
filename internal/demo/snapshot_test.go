package demo

import (
	"errors"
	"math"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/heartmarshall/finhistory-backend/internal/domain"
)

func date(t *testing.T, s string) *time.Time {
	t.Helper()
	d, err := domain.ParseDate(s)
	require.NoError(t, err)
	return &d
}

func slugsOf(events []domain.Event) []string {
	out := make([]string, 0, len(events))
	for _, e := range events {
		out = append(out, e.Slug)
	}
	return out
}

// ---------------------------------------------------------------------------
// ListEvents
// ---------------------------------------------------------------------------

func TestListEvents_Filters(t *testing.T) {
	t.Parallel()

	s := mustBuild(t, testSeed())

	tests := []struct {
		name   string
		filter domain.EventFilter
		want   []string
		total  int
	}{
		{
			name:   "default sort is date descending",
			filter: domain.EventFilter{},
			want:   []string{"lehman-collapse", "nixon-shock", "crash-of-1929"},
			total:  3,
		},
		{
			name:   "from with date ascending",
			filter: domain.EventFilter{From: date(t, "1970-01-01"), Sort: domain.EventSortDateAsc},
			want:   []string{"nixon-shock", "lehman-collapse"},
			total:  2,
		},
		{
			name:   "to is inclusive",
			filter: domain.EventFilter{To: date(t, "1971-08-15"), Sort: domain.EventSortDateAsc},
			want:   []string{"crash-of-1929", "nixon-shock"},
			total:  2,
		},
		{
			name:   "exact date hides drafts",
			filter: domain.EventFilter{Date: date(t, "2008-09-15")},
			want:   []string{"lehman-collapse"},
			total:  1,
		},
		{
			name:   "category is case-insensitive",
			filter: domain.EventFilter{Category: "MARKET CRASH"},
			want:   []string{"crash-of-1929"},
			total:  1,
		},
		{
			name:   "tag slug",
			filter: domain.EventFilter{Tag: "Monetary-Policy"},
			want:   []string{"nixon-shock"},
			total:  1,
		},
		{
			name:   "query matches title",
			filter: domain.EventFilter{Query: "lehman"},
			want:   []string{"lehman-collapse"},
			total:  1,
		},
		{
			name:   "min importance excludes lower scores",
			filter: domain.EventFilter{MinImportance: 5, Region: "united states", Sort: domain.EventSortImportance},
			want:   []string{"lehman-collapse", "nixon-shock", "crash-of-1929"},
			total:  3,
		},
		{
			name:   "pagination",
			filter: domain.EventFilter{Page: 2, PageSize: 2},
			want:   []string{"crash-of-1929"},
			total:  3,
		},
		{
			name:   "page past the end",
			filter: domain.EventFilter{Page: 9, PageSize: 2},
			want:   []string{},
			total:  3,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			page, err := s.ListEvents(tt.filter)
			require.NoError(t, err)
			assert.Equal(t, tt.want, slugsOf(page.Items))
			assert.Equal(t, tt.total, page.Total)
		})
	}
}

func TestListEvents_PageMetadata(t *testing.T) {
	t.Parallel()

	s := mustBuild(t, testSeed())

	page, err := s.ListEvents(domain.EventFilter{PageSize: 2})
	require.NoError(t, err)
	assert.Equal(t, 1, page.Page)
	assert.Equal(t, 2, page.PageSize)
	assert.Equal(t, 2, page.TotalPages)
}

func TestListEvents_HugePageIsEmpty(t *testing.T) {
	t.Parallel()

	s := mustBuild(t, testSeed())

	for _, pg := range []int{math.MaxInt, math.MaxInt / 2, 1000} {
		page, err := s.ListEvents(domain.EventFilter{Page: pg, PageSize: domain.MaxPageSize})
		require.NoError(t, err)
		assert.Empty(t, page.Items, "page %d", pg)
		assert.NotZero(t, page.Total)
	}
}

func TestListEvents_ImportanceTieBreaksByDateDescending(t *testing.T) {
	t.Parallel()

	s := mustBuild(t, &Seed{Events: []SeedEvent{
		{Slug: "a", Title: "A", EventDate: "1900-01-01", Importance: 4},
		{Slug: "b", Title: "B", EventDate: "1950-01-01", Importance: 4},
		{Slug: "c", Title: "C", EventDate: "1920-01-01", Importance: 5},
	}})

	page, err := s.ListEvents(domain.EventFilter{Sort: domain.EventSortImportance})
	require.NoError(t, err)
	assert.Equal(t, []string{"c", "b", "a"}, slugsOf(page.Items))
}

// ---------------------------------------------------------------------------
// EventBySlug
// ---------------------------------------------------------------------------

func TestEventBySlug(t *testing.T) {
	t.Parallel()

	s := mustBuild(t, testSeed())

	got, err := s.EventBySlug("lehman-collapse")
	require.NoError(t, err)
	assert.Equal(t, "Lehman Brothers collapse", got.Title)
	require.Len(t, got.Sources, 1)
	assert.Equal(t, "Lehman filing", got.Sources[0].Name)
	require.NotNil(t, got.Sources[0].Quote)
	assert.Equal(t, "filed for Chapter 11", *got.Sources[0].Quote)
	require.Len(t, got.Tags, 1)
	assert.Equal(t, "banking-crisis", got.Tags[0].Slug)

	var timelines []string
	for _, m := range got.Timelines {
		timelines = append(timelines, m.Slug)
	}
	assert.Equal(t, []string{"financial-crises", "all-events"}, timelines)
}

func TestEventBySlug_SourceOrdering(t *testing.T) {
	t.Parallel()

	s := mustBuild(t, &Seed{
		Sources: []SeedSource{
			{Name: "undated", URL: "https://a"},
			{Name: "old", URL: "https://b", PublishedDate: strPtr("1990-01-01")},
			{Name: "new", URL: "https://c", PublishedDate: strPtr("2020-01-01")},
			{Name: "top", URL: "https://d"},
		},
		Events: []SeedEvent{{Slug: "e", Title: "E", EventDate: "1929-10-29"}},
		EventSources: []SeedEventSource{
			{EventSlug: "e", SourceURL: "https://a", RelevanceRank: 3},
			{EventSlug: "e", SourceURL: "https://b", RelevanceRank: 3},
			{EventSlug: "e", SourceURL: "https://c", RelevanceRank: 3},
			{EventSlug: "e", SourceURL: "https://d", RelevanceRank: 1},
		},
	})

	got, err := s.EventBySlug("e")
	require.NoError(t, err)
	var names []string
	for _, src := range got.Sources {
		names = append(names, src.Name)
	}
	assert.Equal(t, []string{"top", "new", "old", "undated"}, names)
}

func TestEventBySlug_NotFound(t *testing.T) {
	t.Parallel()

	s := mustBuild(t, testSeed())

	for _, slug := range []string{"no-such-event", "draft-idea"} {
		_, err := s.EventBySlug(slug)
		assert.True(t, errors.Is(err, domain.ErrNotFound), "slug %q: got %v", slug, err)
	}
}

// ---------------------------------------------------------------------------
// EventsOnThisDay
// ---------------------------------------------------------------------------

func TestEventsOnThisDay(t *testing.T) {
	t.Parallel()

	s := mustBuild(t, &Seed{Events: []SeedEvent{
		{Slug: "black-monday", Title: "Black Monday", EventDate: "1987-10-19", Importance: 4},
		{Slug: "minor-1987", Title: "Minor", EventDate: "1987-10-19", Importance: 2},
		{Slug: "older", Title: "Older", EventDate: "1901-10-19", Importance: 5},
		{Slug: "other-day", Title: "Other", EventDate: "1987-10-20", Importance: 5},
		{Slug: "hidden", Title: "Hidden", EventDate: "2000-10-19", Status: "review"},
	}})

	got, err := s.EventsOnThisDay(time.October, 19)
	require.NoError(t, err)
	assert.Equal(t, []string{"black-monday", "minor-1987", "older"}, slugsOf(got))

	none, err := s.EventsOnThisDay(time.February, 29)
	require.NoError(t, err)
	assert.NotNil(t, none)
	assert.Empty(t, none)
}

// ---------------------------------------------------------------------------
// Timelines
// ---------------------------------------------------------------------------

func TestTimelines_SortedByTitleWithAggregates(t *testing.T) {
	t.Parallel()

	s := mustBuild(t, testSeed())

	got, err := s.Timelines()
	require.NoError(t, err)

	var titles []string
	for _, tl := range got {
		titles = append(titles, tl.Title)
	}
	assert.Equal(t, []string{"All events", "Financial crises", "Market regulation", "Monetary regimes"}, titles)

	all := got[0]
	assert.Equal(t, 3, all.EventCount)
	require.NotNil(t, all.FirstDate)
	require.NotNil(t, all.LastDate)
	assert.Equal(t, "1929-10-29", all.FirstDate.Format(domain.DateLayout))
	assert.Equal(t, "2008-09-15", all.LastDate.Format(domain.DateLayout))

	regulation := got[2]
	assert.Zero(t, regulation.EventCount)
	assert.Nil(t, regulation.FirstDate)
}

func TestTimelineBySlug_NotFound(t *testing.T) {
	t.Parallel()

	s := mustBuild(t, testSeed())
	_, err := s.TimelineBySlug("nope")
	assert.True(t, errors.Is(err, domain.ErrNotFound))
}

// ---------------------------------------------------------------------------
// SourceByID
// ---------------------------------------------------------------------------

func TestSourceByID_RankDescending(t *testing.T) {
	t.Parallel()

	s := mustBuild(t, &Seed{
		Sources: []SeedSource{{Name: "Survey", URL: "https://survey"}},
		Events: []SeedEvent{
			{Slug: "low", Title: "Low", EventDate: "1900-01-01"},
			{Slug: "high", Title: "High", EventDate: "1950-01-01"},
			{Slug: "draft", Title: "Draft", EventDate: "1960-01-01", Status: "draft"},
		},
		EventSources: []SeedEventSource{
			{EventSlug: "low", SourceURL: "https://survey", RelevanceRank: 2},
			{EventSlug: "high", SourceURL: "https://survey", RelevanceRank: 9},
			{EventSlug: "draft", SourceURL: "https://survey", RelevanceRank: 10},
		},
	})

	got, err := s.SourceByID(SourceID("https://survey"))
	require.NoError(t, err)
	require.Len(t, got.Events, 2)
	assert.Equal(t, "high", got.Events[0].Slug)
	assert.Equal(t, 9, got.Events[0].RelevanceRank)
	assert.Equal(t, "low", got.Events[1].Slug)
}

func TestSourceByID_NotFound(t *testing.T) {
	t.Parallel()

	s := mustBuild(t, testSeed())
	_, err := s.SourceByID(uuid.New())
	assert.True(t, errors.Is(err, domain.ErrNotFound))
}
