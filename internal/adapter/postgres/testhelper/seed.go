//go:build integration

package testhelper

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/heartmarshall/finhistory-backend/internal/domain"
)

// uniqueSuffix returns a short unique string for generating non-conflicting test data.
func uniqueSuffix() string {
	return uuid.New().String()[:8]
}

// EventOption tweaks an event before SeedEvent inserts it.
type EventOption func(*domain.Event)

// WithStatus sets the event status. published_at is cleared for
// non-published statuses.
func WithStatus(s domain.EventStatus) EventOption {
	return func(e *domain.Event) {
		e.Status = s
		if s != domain.EventStatusPublished {
			e.PublishedAt = nil
		}
	}
}

// WithDate sets the event date (YYYY-MM-DD).
func WithDate(date string) EventOption {
	return func(e *domain.Event) {
		d, err := domain.ParseDate(date)
		if err != nil {
			panic(err)
		}
		e.Date = d
	}
}

// WithCategory sets the event category.
func WithCategory(c string) EventOption {
	return func(e *domain.Event) { e.Category = c }
}

// WithImportance sets the importance score.
func WithImportance(n int) EventOption {
	return func(e *domain.Event) { e.Importance = n }
}

// WithSlug overrides the generated slug.
func WithSlug(slug string) EventOption {
	return func(e *domain.Event) { e.Slug = slug }
}

// SeedEvent inserts a published event with a unique slug.
func SeedEvent(t *testing.T, pool *pgxpool.Pool, opts ...EventOption) domain.Event {
	t.Helper()

	now := time.Now().UTC().Truncate(time.Microsecond)
	date, _ := domain.ParseDate("1929-10-29")
	ev := domain.Event{
		ID:          uuid.New(),
		Slug:        "test-event-" + uniqueSuffix(),
		Title:       "Test event",
		Date:        date,
		Region:      "United States",
		Category:    "Market crash",
		Summary:     "A test event.",
		Impact:      "None.",
		Importance:  3,
		Confidence:  3,
		Status:      domain.EventStatusPublished,
		PublishedAt: &now,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	for _, opt := range opts {
		opt(&ev)
	}

	_, err := pool.Exec(context.Background(),
		`INSERT INTO events (id, slug, title, event_date, region, category, summary, impact,
		                     importance, confidence, status, published_at, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)`,
		ev.ID, ev.Slug, ev.Title, ev.Date, ev.Region, ev.Category, ev.Summary, ev.Impact,
		ev.Importance, ev.Confidence, string(ev.Status), ev.PublishedAt, ev.CreatedAt, ev.UpdatedAt,
	)
	if err != nil {
		t.Fatalf("testhelper: SeedEvent: %v", err)
	}
	return ev
}

// SeedSource inserts a source with a unique URL.
func SeedSource(t *testing.T, pool *pgxpool.Pool) domain.Source {
	t.Helper()

	now := time.Now().UTC().Truncate(time.Microsecond)
	src := domain.Source{
		ID:        uuid.New(),
		Name:      "Test source",
		URL:       "https://example.org/" + uniqueSuffix(),
		Type:      domain.SourceTypeArchive,
		CreatedAt: now,
		UpdatedAt: now,
	}

	_, err := pool.Exec(context.Background(),
		`INSERT INTO sources (id, name, url, source_type, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6)`,
		src.ID, src.Name, src.URL, string(src.Type), src.CreatedAt, src.UpdatedAt,
	)
	if err != nil {
		t.Fatalf("testhelper: SeedSource: %v", err)
	}
	return src
}

// SeedLink links an event to a source.
func SeedLink(t *testing.T, pool *pgxpool.Pool, eventID, sourceID uuid.UUID, rank int) {
	t.Helper()

	_, err := pool.Exec(context.Background(),
		`INSERT INTO event_sources (event_id, source_id, relevance_rank) VALUES ($1, $2, $3)`,
		eventID, sourceID, rank,
	)
	if err != nil {
		t.Fatalf("testhelper: SeedLink: %v", err)
	}
}

// SeedTimeline inserts an empty timeline with a unique slug.
func SeedTimeline(t *testing.T, pool *pgxpool.Pool) domain.Timeline {
	t.Helper()

	now := time.Now().UTC().Truncate(time.Microsecond)
	tl := domain.Timeline{
		ID:        uuid.New(),
		Slug:      "test-timeline-" + uniqueSuffix(),
		Title:     "Test timeline " + uniqueSuffix(),
		CreatedAt: now,
		UpdatedAt: now,
	}

	_, err := pool.Exec(context.Background(),
		`INSERT INTO timelines (id, slug, title, created_at, updated_at) VALUES ($1, $2, $3, $4, $5)`,
		tl.ID, tl.Slug, tl.Title, tl.CreatedAt, tl.UpdatedAt,
	)
	if err != nil {
		t.Fatalf("testhelper: SeedTimeline: %v", err)
	}
	return tl
}
