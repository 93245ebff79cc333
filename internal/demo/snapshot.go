package demo

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/heartmarshall/finhistory-backend/internal/domain"
)

// Snapshot is an immutable, internally consistent in-memory copy of the
// catalog. All query methods are safe for concurrent use.
type Snapshot struct {
	sources   []domain.Source
	sourceIdx map[uuid.UUID]int
	events    []domain.Event
	eventIdx  map[uuid.UUID]int
	slugIdx   map[string]int
	links     []domain.EventSource
	tags      []domain.Tag
	eventTags map[uuid.UUID][]domain.Tag
	timelines []computedTimeline
}

type computedTimeline struct {
	domain.Timeline
	members []domain.SequencedEvent
}

// Sources returns every source in seed order.
func (s *Snapshot) Sources() []domain.Source { return append([]domain.Source(nil), s.sources...) }

// Events returns every event, published or not, in seed order.
func (s *Snapshot) Events() []domain.Event { return append([]domain.Event(nil), s.events...) }

// Links returns every resolved event-source link.
func (s *Snapshot) Links() []domain.EventSource {
	return append([]domain.EventSource(nil), s.links...)
}

// Tags returns the derived category tags ordered by slug.
func (s *Snapshot) Tags() []domain.Tag { return append([]domain.Tag(nil), s.tags...) }

// ---------------------------------------------------------------------------
// Events
// ---------------------------------------------------------------------------

// ListEvents returns one page of published events matching filter.
func (s *Snapshot) ListEvents(filter domain.EventFilter) (domain.EventPage, error) {
	filter.Normalize()

	var matched []domain.Event
	for _, e := range s.events {
		if s.matches(e, filter) {
			matched = append(matched, e)
		}
	}
	sortEvents(matched, filter.Sort)

	total := len(matched)
	start := min(filter.Offset(), total)
	end := min(start+filter.PageSize, total)
	items := append([]domain.Event(nil), matched[start:end]...)
	return domain.NewEventPage(items, total, filter.Page, filter.PageSize), nil
}

func (s *Snapshot) matches(e domain.Event, f domain.EventFilter) bool {
	if !e.IsPublished() {
		return false
	}
	if f.Date != nil && !sameDay(e.Date, *f.Date) {
		return false
	}
	if f.From != nil && e.Date.Before(*f.From) {
		return false
	}
	if f.To != nil && e.Date.After(*f.To) {
		return false
	}
	if f.Category != "" && !strings.EqualFold(e.Category, f.Category) {
		return false
	}
	if f.Region != "" && !strings.EqualFold(e.Region, f.Region) {
		return false
	}
	if f.MinImportance > 0 && e.Importance < f.MinImportance {
		return false
	}
	if f.Tag != "" && !hasTag(s.eventTags[e.ID], f.Tag) {
		return false
	}
	if f.Query != "" {
		q := strings.ToLower(f.Query)
		hay := strings.ToLower(e.Title + "\n" + e.Summary + "\n" + e.Category + "\n" + e.Region)
		if !strings.Contains(hay, q) {
			return false
		}
	}
	return true
}

// EventBySlug returns a published event with its sources, tags and timelines.
func (s *Snapshot) EventBySlug(slug string) (*domain.EventDetail, error) {
	i, ok := s.slugIdx[slug]
	if !ok || !s.events[i].IsPublished() {
		return nil, fmt.Errorf("event %q: %w", slug, domain.ErrNotFound)
	}
	ev := s.events[i]

	detail := &domain.EventDetail{
		Event:     ev,
		Sources:   []domain.LinkedSource{},
		Tags:      append([]domain.Tag{}, s.eventTags[ev.ID]...),
		Timelines: []domain.TimelineMembership{},
	}
	for _, l := range s.links {
		if l.EventID != ev.ID {
			continue
		}
		detail.Sources = append(detail.Sources, domain.LinkedSource{
			Source:        s.sources[s.sourceIdx[l.SourceID]],
			RelevanceRank: l.RelevanceRank,
			Quote:         l.Quote,
			Citation:      l.Citation,
		})
	}
	sortLinkedSources(detail.Sources)
	sort.SliceStable(detail.Tags, func(a, b int) bool { return detail.Tags[a].Name < detail.Tags[b].Name })

	for _, tl := range s.timelines {
		for _, m := range tl.members {
			if m.ID == ev.ID {
				detail.Timelines = append(detail.Timelines, domain.TimelineMembership{
					TimelineID: tl.ID,
					Slug:       tl.Slug,
					Title:      tl.Title,
					SequenceNo: m.SequenceNo,
				})
				break
			}
		}
	}
	sort.SliceStable(detail.Timelines, func(a, b int) bool {
		x, y := detail.Timelines[a], detail.Timelines[b]
		if x.SequenceNo != y.SequenceNo {
			return x.SequenceNo < y.SequenceNo
		}
		return x.Title < y.Title
	})
	return detail, nil
}

// EventsOnThisDay returns published events dated month/day in any year.
func (s *Snapshot) EventsOnThisDay(month time.Month, day int) ([]domain.Event, error) {
	out := []domain.Event{}
	for _, e := range s.events {
		if e.IsPublished() && e.Date.Month() == month && e.Date.Day() == day {
			out = append(out, e)
		}
	}
	sortOnThisDay(out)
	return out, nil
}

// ---------------------------------------------------------------------------
// Timelines
// ---------------------------------------------------------------------------

// Timelines lists the computed timelines with aggregates, ordered by title.
func (s *Snapshot) Timelines() ([]domain.TimelineSummary, error) {
	out := make([]domain.TimelineSummary, 0, len(s.timelines))
	for _, tl := range s.timelines {
		sum := domain.TimelineSummary{Timeline: tl.Timeline, EventCount: len(tl.members)}
		if n := len(tl.members); n > 0 {
			first, last := tl.members[0].Date, tl.members[n-1].Date
			sum.FirstDate, sum.LastDate = &first, &last
		}
		out = append(out, sum)
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Title != out[j].Title {
			return out[i].Title < out[j].Title
		}
		return out[i].Slug < out[j].Slug
	})
	return out, nil
}

// TimelineBySlug returns a computed timeline with its ordered events.
func (s *Snapshot) TimelineBySlug(slug string) (*domain.TimelineDetail, error) {
	for _, tl := range s.timelines {
		if tl.Slug == slug {
			return &domain.TimelineDetail{
				Timeline: tl.Timeline,
				Events:   append([]domain.SequencedEvent{}, tl.members...),
			}, nil
		}
	}
	return nil, fmt.Errorf("timeline %q: %w", slug, domain.ErrNotFound)
}

// ---------------------------------------------------------------------------
// Sources
// ---------------------------------------------------------------------------

// SourceByID returns a source with the published events citing it.
func (s *Snapshot) SourceByID(id uuid.UUID) (*domain.SourceDetail, error) {
	i, ok := s.sourceIdx[id]
	if !ok {
		return nil, fmt.Errorf("source %s: %w", id, domain.ErrNotFound)
	}
	detail := &domain.SourceDetail{Source: s.sources[i], Events: []domain.LinkedEvent{}}
	for _, l := range s.links {
		if l.SourceID != id {
			continue
		}
		ev := s.events[s.eventIdx[l.EventID]]
		if !ev.IsPublished() {
			continue
		}
		detail.Events = append(detail.Events, domain.LinkedEvent{
			Event:         ev,
			RelevanceRank: l.RelevanceRank,
			Quote:         l.Quote,
			Citation:      l.Citation,
		})
	}
	sortLinkedEvents(detail.Events)
	return detail, nil
}

// ---------------------------------------------------------------------------
// Orderings
// ---------------------------------------------------------------------------

// sortEvents orders a listing. Ties always fall back to slug ascending.
func sortEvents(events []domain.Event, by domain.EventSort) {
	sort.SliceStable(events, func(i, j int) bool {
		a, b := events[i], events[j]
		switch by {
		case domain.EventSortDateAsc:
			if !a.Date.Equal(b.Date) {
				return a.Date.Before(b.Date)
			}
		case domain.EventSortImportance:
			if a.Importance != b.Importance {
				return a.Importance > b.Importance
			}
			if !a.Date.Equal(b.Date) {
				return a.Date.After(b.Date)
			}
		default:
			if !a.Date.Equal(b.Date) {
				return a.Date.After(b.Date)
			}
		}
		return a.Slug < b.Slug
	})
}

// sortOnThisDay orders by date descending, then importance descending.
func sortOnThisDay(events []domain.Event) {
	sort.SliceStable(events, func(i, j int) bool {
		a, b := events[i], events[j]
		if !a.Date.Equal(b.Date) {
			return a.Date.After(b.Date)
		}
		if a.Importance != b.Importance {
			return a.Importance > b.Importance
		}
		return a.Slug < b.Slug
	})
}

// sortLinkedSources orders an event's sources by relevance rank ascending,
// then source published date descending with undated sources last.
func sortLinkedSources(sources []domain.LinkedSource) {
	sort.SliceStable(sources, func(i, j int) bool {
		a, b := sources[i], sources[j]
		if a.RelevanceRank != b.RelevanceRank {
			return a.RelevanceRank < b.RelevanceRank
		}
		switch {
		case a.PublishedDate != nil && b.PublishedDate != nil:
			if !a.PublishedDate.Equal(*b.PublishedDate) {
				return a.PublishedDate.After(*b.PublishedDate)
			}
		case a.PublishedDate != nil:
			return true
		case b.PublishedDate != nil:
			return false
		}
		return a.Name < b.Name
	})
}

// sortLinkedEvents orders a source's events by relevance rank descending,
// then event date descending.
func sortLinkedEvents(events []domain.LinkedEvent) {
	sort.SliceStable(events, func(i, j int) bool {
		a, b := events[i], events[j]
		if a.RelevanceRank != b.RelevanceRank {
			return a.RelevanceRank > b.RelevanceRank
		}
		if !a.Date.Equal(b.Date) {
			return a.Date.After(b.Date)
		}
		return a.Slug < b.Slug
	})
}

func sameDay(a, b time.Time) bool {
	ay, am, ad := a.UTC().Date()
	by, bm, bd := b.UTC().Date()
	return ay == by && am == bm && ad == bd
}

func hasTag(tags []domain.Tag, slug string) bool {
	for _, t := range tags {
		if t.Slug == slug {
			return true
		}
	}
	return false
}
