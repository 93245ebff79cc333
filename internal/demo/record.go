package demo

import (
	"fmt"
	"strings"
	"time"

	"github.com/heartmarshall/finhistory-backend/internal/domain"
)

// Defaults applied to seed records that leave optional fields unset.
const (
	DefaultScore         = 3
	DefaultRelevanceRank = 5
)

// Validate checks every record and collects all field errors. Field paths
// are indexed, e.g. "events[3].event_date".
func (s *Seed) Validate() error {
	var errs []domain.FieldError
	add := func(field, msg string) {
		errs = append(errs, domain.FieldError{Field: field, Message: msg})
	}

	for i, src := range s.Sources {
		p := fmt.Sprintf("sources[%d]", i)
		if strings.TrimSpace(src.URL) == "" {
			add(p+".url", "required")
		}
		if strings.TrimSpace(src.Name) == "" {
			add(p+".name", "required")
		}
		if src.SourceType != "" && !domain.SourceType(src.SourceType).IsValid() {
			add(p+".source_type", "must be one of archive, official, news, research, dataset, other")
		}
		if src.PublishedDate != nil {
			if _, err := domain.ParseDate(*src.PublishedDate); err != nil {
				add(p+".published_date", "must be YYYY-MM-DD")
			}
		}
		if src.AccessedDate != nil {
			if _, err := domain.ParseDate(*src.AccessedDate); err != nil {
				add(p+".accessed_date", "must be YYYY-MM-DD")
			}
		}
	}

	for i, ev := range s.Events {
		p := fmt.Sprintf("events[%d]", i)
		if strings.TrimSpace(ev.Title) == "" {
			add(p+".title", "required")
		}
		if _, err := domain.ParseDate(ev.EventDate); err != nil {
			add(p+".event_date", "must be YYYY-MM-DD")
		}
		if ev.Importance != 0 && (ev.Importance < domain.MinScore || ev.Importance > domain.MaxScore) {
			add(p+".importance", "must be between 1 and 5")
		}
		if ev.Confidence != 0 && (ev.Confidence < domain.MinScore || ev.Confidence > domain.MaxScore) {
			add(p+".confidence", "must be between 1 and 5")
		}
		if ev.Status != "" && !domain.EventStatus(ev.Status).IsValid() {
			add(p+".status", "must be one of draft, review, published, archived")
		}
		if ev.PublishedAt != nil {
			if _, err := parseTimestamp(*ev.PublishedAt); err != nil {
				add(p+".published_at", "must be RFC 3339 or YYYY-MM-DD")
			}
		}
	}

	for i, link := range s.EventSources {
		p := fmt.Sprintf("event_sources[%d]", i)
		if strings.TrimSpace(link.EventSlug) == "" {
			add(p+".event_slug", "required")
		}
		if strings.TrimSpace(link.SourceURL) == "" {
			add(p+".source_url", "required")
		}
		if link.RelevanceRank != 0 && (link.RelevanceRank < domain.MinRelevanceRank || link.RelevanceRank > domain.MaxRelevanceRank) {
			add(p+".relevance_rank", "must be between 1 and 10")
		}
	}

	if len(errs) > 0 {
		return domain.NewValidationErrors(errs)
	}
	return nil
}

// EventKey returns the normalized natural key of an event record.
func (e SeedEvent) EventKey() string {
	base := e.Slug
	if strings.TrimSpace(base) == "" {
		base = e.Title
	}
	return domain.Slugify(base, domain.DefaultEventSlug)
}

// SourceKey returns the natural key of a source record.
func (s SeedSource) SourceKey() string { return strings.TrimSpace(s.URL) }

// LinkKey returns the natural key of a link record.
func (l SeedEventSource) LinkKey() (eventSlug, sourceURL string) {
	return domain.Slugify(l.EventSlug, domain.DefaultEventSlug), strings.TrimSpace(l.SourceURL)
}

// ToSource converts a validated record into a domain source without an id.
func (s SeedSource) ToSource() domain.Source {
	typ := domain.SourceType(s.SourceType)
	if typ == "" {
		typ = domain.SourceTypeOther
	}
	return domain.Source{
		Name:            domain.NormalizeSpace(s.Name),
		URL:             s.SourceKey(),
		Type:            typ,
		Publisher:       trimmedPtr(s.Publisher),
		PublishedDate:   datePtr(s.PublishedDate),
		AccessedDate:    datePtr(s.AccessedDate),
		Rights:          trimmedPtr(s.Rights),
		ReliabilityNote: trimmedPtr(s.ReliabilityNote),
	}
}

// ToEvent converts a validated record into a domain event without an id.
func (e SeedEvent) ToEvent() domain.Event {
	date, _ := domain.ParseDate(e.EventDate)
	status := domain.EventStatus(e.Status)
	if status == "" {
		status = domain.EventStatusPublished
	}
	var publishedAt *time.Time
	if e.PublishedAt != nil {
		if t, err := parseTimestamp(*e.PublishedAt); err == nil {
			publishedAt = &t
		}
	}
	return domain.Event{
		Slug:        e.EventKey(),
		Title:       domain.NormalizeSpace(e.Title),
		Date:        date,
		Region:      strings.TrimSpace(e.Region),
		Category:    strings.TrimSpace(e.Category),
		Summary:     strings.TrimSpace(e.Summary),
		Impact:      strings.TrimSpace(e.Impact),
		Importance:  scoreOrDefault(e.Importance),
		Confidence:  scoreOrDefault(e.Confidence),
		Status:      status,
		PublishedAt: publishedAt,
	}
}

// Rank returns the relevance rank, defaulting unset ranks.
func (l SeedEventSource) Rank() int {
	if l.RelevanceRank == 0 {
		return DefaultRelevanceRank
	}
	return l.RelevanceRank
}

func scoreOrDefault(v int) int {
	if v == 0 {
		return DefaultScore
	}
	return v
}

func parseTimestamp(s string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t.UTC(), nil
	}
	return domain.ParseDate(s)
}

func trimmedPtr(s *string) *string {
	if s == nil {
		return nil
	}
	v := strings.TrimSpace(*s)
	if v == "" {
		return nil
	}
	return &v
}

func datePtr(s *string) *time.Time {
	if s == nil {
		return nil
	}
	t, err := domain.ParseDate(*s)
	if err != nil {
		return nil
	}
	return &t
}
