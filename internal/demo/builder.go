package demo

import (
	"fmt"
	"regexp"
	"sort"
	"strings"

	"github.com/google/uuid"

	"github.com/heartmarshall/finhistory-backend/internal/domain"
)

// Namespace is the root of every derived demo identifier.
var Namespace = uuid.NewSHA1(uuid.NameSpaceURL, []byte("https://finhistory.dev/demo"))

// SourceID derives the stable id of a source from its URL.
func SourceID(url string) uuid.UUID { return uuid.NewSHA1(Namespace, []byte("source:"+url)) }

// EventID derives the stable id of an event from its normalized slug.
func EventID(slug string) uuid.UUID { return uuid.NewSHA1(Namespace, []byte("event:"+slug)) }

// TagID derives the stable id of a category tag from its slug.
func TagID(slug string) uuid.UUID { return uuid.NewSHA1(Namespace, []byte("tag:"+slug)) }

// TimelineID derives the stable id of a computed timeline from its slug.
func TimelineID(slug string) uuid.UUID { return uuid.NewSHA1(Namespace, []byte("timeline:"+slug)) }

// timelineRule selects the published events of one computed timeline.
type timelineRule struct {
	slug        string
	title       string
	description string
	match       func(domain.Event) bool
}

var crisisPattern = regexp.MustCompile(`(?i)\b(crash|crisis|crises|panic|collapse|default|bank runs?|bubble|recession|bailout)`)

func slugPrefixes(prefixes ...string) func(domain.Event) bool {
	return func(e domain.Event) bool {
		for _, p := range prefixes {
			if strings.HasPrefix(e.Slug, p) {
				return true
			}
		}
		return false
	}
}

var timelineRules = []timelineRule{
	{
		slug:        "all-events",
		title:       "All events",
		description: "Every published event in chronological order.",
		match:       func(domain.Event) bool { return true },
	},
	{
		slug:        "financial-crises",
		title:       "Financial crises",
		description: "Crashes, panics, defaults and the bailouts that followed.",
		match: func(e domain.Event) bool {
			return crisisPattern.MatchString(e.Title + " " + e.Category)
		},
	},
	{
		slug:        "monetary-regimes",
		title:       "Monetary regimes",
		description: "From the gold standard to floating currencies and the euro.",
		match:       slugPrefixes("gold-standard", "bretton-woods", "nixon-shock", "federal-reserve", "euro-", "plaza-accord"),
	},
	{
		slug:        "market-regulation",
		title:       "Market regulation",
		description: "Laws and accords that reshaped how markets are supervised.",
		match:       slugPrefixes("glass-steagall", "sec-", "securities-", "sarbanes-oxley", "dodd-frank", "basel-"),
	},
}

// Build derives a fully cross-referenced snapshot from seed.
//
// Records sharing a natural key collapse into one, the last record winning
// while the position of the first is kept. Links naming an unknown event slug
// or source URL are dropped. Tags and timelines are computed from published
// events only.
func Build(seed *Seed) (*Snapshot, error) {
	if seed == nil {
		seed = &Seed{}
	}
	if err := seed.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrSeed, err)
	}

	s := &Snapshot{
		sourceIdx: make(map[uuid.UUID]int, len(seed.Sources)),
		eventIdx:  make(map[uuid.UUID]int, len(seed.Events)),
		slugIdx:   make(map[string]int, len(seed.Events)),
		eventTags: make(map[uuid.UUID][]domain.Tag),
	}

	for _, rec := range seed.Sources {
		src := rec.ToSource()
		src.ID = SourceID(src.URL)
		if i, ok := s.sourceIdx[src.ID]; ok {
			s.sources[i] = src
			continue
		}
		s.sourceIdx[src.ID] = len(s.sources)
		s.sources = append(s.sources, src)
	}

	for _, rec := range seed.Events {
		ev := rec.ToEvent()
		ev.ID = EventID(ev.Slug)
		if i, ok := s.slugIdx[ev.Slug]; ok {
			s.events[i] = ev
			continue
		}
		s.slugIdx[ev.Slug] = len(s.events)
		s.eventIdx[ev.ID] = len(s.events)
		s.events = append(s.events, ev)
	}

	type linkKey struct{ event, source uuid.UUID }
	linkIdx := make(map[linkKey]int, len(seed.EventSources))
	for _, rec := range seed.EventSources {
		slug, url := rec.LinkKey()
		ei, ok := s.slugIdx[slug]
		if !ok {
			continue
		}
		si, ok := s.sourceIdx[SourceID(url)]
		if !ok {
			continue
		}
		link := domain.EventSource{
			EventID:       s.events[ei].ID,
			SourceID:      s.sources[si].ID,
			RelevanceRank: rec.Rank(),
			Quote:         trimmedPtr(rec.Quote),
			Citation:      trimmedPtr(rec.Citation),
		}
		key := linkKey{link.EventID, link.SourceID}
		if i, ok := linkIdx[key]; ok {
			s.links[i] = link
			continue
		}
		linkIdx[key] = len(s.links)
		s.links = append(s.links, link)
	}

	published := s.publishedEvents()
	s.deriveTags(published)
	s.deriveTimelines(published)
	return s, nil
}

// publishedEvents returns published events ordered by date, then slug.
func (s *Snapshot) publishedEvents() []domain.Event {
	out := make([]domain.Event, 0, len(s.events))
	for _, e := range s.events {
		if e.IsPublished() {
			out = append(out, e)
		}
	}
	sortEvents(out, domain.EventSortDateAsc)
	return out
}

func (s *Snapshot) deriveTags(published []domain.Event) {
	bySlug := make(map[string]domain.Tag)
	for _, e := range published {
		if e.Category == "" {
			continue
		}
		slug := domain.Slugify(e.Category, domain.DefaultTagSlug)
		tag, ok := bySlug[slug]
		if !ok {
			tag = domain.Tag{ID: TagID(slug), Slug: slug, Name: e.Category}
			bySlug[slug] = tag
			s.tags = append(s.tags, tag)
		}
		s.eventTags[e.ID] = append(s.eventTags[e.ID], tag)
	}
	sort.Slice(s.tags, func(i, j int) bool { return s.tags[i].Slug < s.tags[j].Slug })
}

func (s *Snapshot) deriveTimelines(published []domain.Event) {
	for _, rule := range timelineRules {
		desc := rule.description
		tl := computedTimeline{
			Timeline: domain.Timeline{
				ID:          TimelineID(rule.slug),
				Slug:        rule.slug,
				Title:       rule.title,
				Description: &desc,
			},
		}
		for _, e := range published {
			if !rule.match(e) {
				continue
			}
			tl.members = append(tl.members, domain.SequencedEvent{
				Event:      e,
				SequenceNo: len(tl.members) + 1,
			})
		}
		s.timelines = append(s.timelines, tl)
	}
}
