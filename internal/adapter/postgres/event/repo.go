// Package event implements the event repository using PostgreSQL.
package event

import (
	"context"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"

	postgres "github.com/heartmarshall/finhistory-backend/internal/adapter/postgres"
	"github.com/heartmarshall/finhistory-backend/internal/domain"
)

// Repo provides event persistence backed by PostgreSQL.
type Repo struct {
	conn postgres.Connector
}

// New creates a new event repository.
func New(conn postgres.Connector) *Repo {
	return &Repo{conn: conn}
}

// ---------------------------------------------------------------------------
// Public reads
// ---------------------------------------------------------------------------

// List returns one page of published events matching filter.
func (r *Repo) List(ctx context.Context, filter domain.EventFilter) (domain.EventPage, error) {
	filter.Normalize()

	q, err := postgres.QuerierFromCtx(ctx, r.conn)
	if err != nil {
		return domain.EventPage{}, err
	}

	countSQL, countArgs, err := applyFilter(psql.Select("count(*)").From("events e"), filter).ToSql()
	if err != nil {
		return domain.EventPage{}, fmt.Errorf("build count query: %w", err)
	}
	var total int
	if err := q.QueryRow(ctx, countSQL, countArgs...).Scan(&total); err != nil {
		return domain.EventPage{}, fmt.Errorf("count events: %w", err)
	}

	listSQL, listArgs, err := applyFilter(psql.Select(postgres.EventColumns("e")).From("events e"), filter).
		OrderBy(orderBy(filter.Sort)...).
		Limit(uint64(filter.PageSize)).
		Offset(uint64(filter.Offset())).
		ToSql()
	if err != nil {
		return domain.EventPage{}, fmt.Errorf("build list query: %w", err)
	}

	rows, err := q.Query(ctx, listSQL, listArgs...)
	if err != nil {
		return domain.EventPage{}, fmt.Errorf("list events: %w", err)
	}
	items, err := postgres.CollectRows(rows, func(s postgres.Scanner) (domain.Event, error) {
		return postgres.ScanEvent(s)
	})
	if err != nil {
		return domain.EventPage{}, fmt.Errorf("list events: %w", err)
	}

	return domain.NewEventPage(items, total, filter.Page, filter.PageSize), nil
}

var (
	getPublishedBySlugSQL = `SELECT ` + postgres.EventColumns("e") + `
FROM events e
WHERE e.slug = $1 AND e.status = 'published'`

	eventSourcesSQL = `SELECT ` + postgres.SourceColumns("s") + `, es.relevance_rank, es.quote, es.citation
FROM event_sources es
JOIN sources s ON s.id = es.source_id
WHERE es.event_id = $1
ORDER BY es.relevance_rank ASC, s.published_date DESC NULLS LAST, s.name COLLATE "C" ASC`

	eventTagsSQL = `SELECT t.id, t.slug, t.name
FROM event_tags et
JOIN tags t ON t.id = et.tag_id
WHERE et.event_id = $1
ORDER BY t.name COLLATE "C" ASC`

	eventTimelinesSQL = `SELECT tl.id, tl.slug, tl.title, te.sequence_no
FROM timeline_events te
JOIN timelines tl ON tl.id = te.timeline_id
WHERE te.event_id = $1
ORDER BY te.sequence_no ASC, tl.title COLLATE "C" ASC`

	onThisDaySQL = `SELECT ` + postgres.EventColumns("e") + `
FROM events e
WHERE e.status = 'published'
  AND EXTRACT(MONTH FROM e.event_date) = $1
  AND EXTRACT(DAY FROM e.event_date) = $2
ORDER BY e.event_date DESC, e.importance DESC, e.slug COLLATE "C" ASC`
)

// GetPublishedBySlug returns a published event with its sources, tags and
// timeline memberships. A miss stops before the related lookups.
func (r *Repo) GetPublishedBySlug(ctx context.Context, slug string) (*domain.EventDetail, error) {
	q, err := postgres.QuerierFromCtx(ctx, r.conn)
	if err != nil {
		return nil, err
	}

	ev, err := postgres.ScanEvent(q.QueryRow(ctx, getPublishedBySlugSQL, slug))
	if err != nil {
		return nil, postgres.MapError(err, "event", slug)
	}

	detail := &domain.EventDetail{Event: ev}

	rows, err := q.Query(ctx, eventSourcesSQL, ev.ID)
	if err != nil {
		return nil, fmt.Errorf("event %s sources: %w", slug, err)
	}
	detail.Sources, err = postgres.CollectRows(rows, func(s postgres.Scanner) (domain.LinkedSource, error) {
		var ls domain.LinkedSource
		src, err := postgres.ScanSource(s, &ls.RelevanceRank, &ls.Quote, &ls.Citation)
		ls.Source = src
		return ls, err
	})
	if err != nil {
		return nil, fmt.Errorf("event %s sources: %w", slug, err)
	}

	rows, err = q.Query(ctx, eventTagsSQL, ev.ID)
	if err != nil {
		return nil, fmt.Errorf("event %s tags: %w", slug, err)
	}
	detail.Tags, err = postgres.CollectRows(rows, func(s postgres.Scanner) (domain.Tag, error) {
		var t domain.Tag
		err := s.Scan(&t.ID, &t.Slug, &t.Name)
		return t, err
	})
	if err != nil {
		return nil, fmt.Errorf("event %s tags: %w", slug, err)
	}

	rows, err = q.Query(ctx, eventTimelinesSQL, ev.ID)
	if err != nil {
		return nil, fmt.Errorf("event %s timelines: %w", slug, err)
	}
	detail.Timelines, err = postgres.CollectRows(rows, func(s postgres.Scanner) (domain.TimelineMembership, error) {
		var m domain.TimelineMembership
		err := s.Scan(&m.TimelineID, &m.Slug, &m.Title, &m.SequenceNo)
		return m, err
	})
	if err != nil {
		return nil, fmt.Errorf("event %s timelines: %w", slug, err)
	}

	return detail, nil
}

// OnThisDay returns published events dated month/day in any year.
func (r *Repo) OnThisDay(ctx context.Context, month time.Month, day int) ([]domain.Event, error) {
	q, err := postgres.QuerierFromCtx(ctx, r.conn)
	if err != nil {
		return nil, err
	}

	rows, err := q.Query(ctx, onThisDaySQL, int(month), day)
	if err != nil {
		return nil, fmt.Errorf("events on %02d-%02d: %w", int(month), day, err)
	}
	events, err := postgres.CollectRows(rows, func(s postgres.Scanner) (domain.Event, error) {
		return postgres.ScanEvent(s)
	})
	if err != nil {
		return nil, fmt.Errorf("events on %02d-%02d: %w", int(month), day, err)
	}
	return events, nil
}

// ---------------------------------------------------------------------------
// Admin reads
// ---------------------------------------------------------------------------

var (
	getByIDSQL = `SELECT ` + postgres.EventColumns("e") + ` FROM events e WHERE e.id = $1`

	slugCandidatesSQL = `SELECT slug FROM events WHERE slug = $1 OR slug LIKE $2`

	idsBySlugsSQL = `SELECT slug, id FROM events WHERE slug = ANY($1)`
)

// GetByID returns an event in any status.
func (r *Repo) GetByID(ctx context.Context, id uuid.UUID) (*domain.Event, error) {
	q, err := postgres.QuerierFromCtx(ctx, r.conn)
	if err != nil {
		return nil, err
	}

	ev, err := postgres.ScanEvent(q.QueryRow(ctx, getByIDSQL, id))
	if err != nil {
		return nil, postgres.MapError(err, "event", id)
	}
	return &ev, nil
}

// SlugCandidates returns base itself and every slug of the form base-*
// already taken.
func (r *Repo) SlugCandidates(ctx context.Context, base string) ([]string, error) {
	q, err := postgres.QuerierFromCtx(ctx, r.conn)
	if err != nil {
		return nil, err
	}

	rows, err := q.Query(ctx, slugCandidatesSQL, base, postgres.EscapeLike(base)+"-%")
	if err != nil {
		return nil, fmt.Errorf("slug candidates %q: %w", base, err)
	}
	slugs, err := postgres.CollectRows(rows, func(s postgres.Scanner) (string, error) {
		var slug string
		err := s.Scan(&slug)
		return slug, err
	})
	if err != nil {
		return nil, fmt.Errorf("slug candidates %q: %w", base, err)
	}
	return slugs, nil
}

// IDsBySlugs resolves slugs to ids. Unknown slugs are absent from the map.
func (r *Repo) IDsBySlugs(ctx context.Context, slugs []string) (map[string]uuid.UUID, error) {
	out := make(map[string]uuid.UUID, len(slugs))
	if len(slugs) == 0 {
		return out, nil
	}

	q, err := postgres.QuerierFromCtx(ctx, r.conn)
	if err != nil {
		return nil, err
	}

	rows, err := q.Query(ctx, idsBySlugsSQL, slugs)
	if err != nil {
		return nil, fmt.Errorf("resolve event slugs: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var (
			slug string
			id   uuid.UUID
		)
		if err := rows.Scan(&slug, &id); err != nil {
			return nil, fmt.Errorf("resolve event slugs: %w", err)
		}
		out[slug] = id
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("resolve event slugs: %w", err)
	}
	return out, nil
}

// ---------------------------------------------------------------------------
// Write operations
// ---------------------------------------------------------------------------

var (
	createSQL = `INSERT INTO events (id, slug, title, event_date, region, category, summary, impact,
                    importance, confidence, status, published_at, created_at, updated_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11,
        CASE WHEN $11 = 'published' THEN COALESCE($12, now()) END, now(), now())
RETURNING ` + postgres.EventColumns("")

	setStatusSQL = `UPDATE events
SET status = $2,
    published_at = CASE WHEN $2 = 'published' THEN COALESCE(published_at, now()) ELSE published_at END,
    updated_at = now()
WHERE id = $1
RETURNING ` + postgres.EventColumns("")

	upsertBySlugSQL = `INSERT INTO events (id, slug, title, event_date, region, category, summary, impact,
                    importance, confidence, status, published_at, created_at, updated_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11,
        CASE WHEN $11 = 'published' THEN COALESCE($12, now()) END, now(), now())
ON CONFLICT (slug) DO UPDATE SET
    title = EXCLUDED.title,
    event_date = EXCLUDED.event_date,
    region = EXCLUDED.region,
    category = EXCLUDED.category,
    summary = EXCLUDED.summary,
    impact = EXCLUDED.impact,
    importance = EXCLUDED.importance,
    confidence = EXCLUDED.confidence,
    status = EXCLUDED.status,
    published_at = CASE WHEN EXCLUDED.status = 'published'
                        THEN COALESCE(events.published_at, EXCLUDED.published_at)
                        ELSE events.published_at END,
    updated_at = now()
RETURNING id`
)

// Create inserts a new event. A published event gets published_at now
// unless one is supplied.
func (r *Repo) Create(ctx context.Context, ev *domain.Event) (*domain.Event, error) {
	q, err := postgres.QuerierFromCtx(ctx, r.conn)
	if err != nil {
		return nil, err
	}

	created, err := postgres.ScanEvent(q.QueryRow(ctx, createSQL,
		ev.ID, ev.Slug, ev.Title, ev.Date, ev.Region, ev.Category, ev.Summary, ev.Impact,
		ev.Importance, ev.Confidence, string(ev.Status), ev.PublishedAt,
	))
	if err != nil {
		return nil, postgres.MapError(err, "event", ev.Slug)
	}
	return &created, nil
}

// Update applies the non-nil fields of params.
func (r *Repo) Update(ctx context.Context, id uuid.UUID, params domain.EventUpdateParams) (*domain.Event, error) {
	q, err := postgres.QuerierFromCtx(ctx, r.conn)
	if err != nil {
		return nil, err
	}

	b := psql.Update("events").Set("updated_at", sq.Expr("now()")).Where(sq.Eq{"id": id})
	if params.Title != nil {
		b = b.Set("title", *params.Title)
	}
	if params.Date != nil {
		b = b.Set("event_date", *params.Date)
	}
	if params.Region != nil {
		b = b.Set("region", *params.Region)
	}
	if params.Category != nil {
		b = b.Set("category", *params.Category)
	}
	if params.Summary != nil {
		b = b.Set("summary", *params.Summary)
	}
	if params.Impact != nil {
		b = b.Set("impact", *params.Impact)
	}
	if params.Importance != nil {
		b = b.Set("importance", *params.Importance)
	}
	if params.Confidence != nil {
		b = b.Set("confidence", *params.Confidence)
	}

	query, args, err := b.Suffix("RETURNING " + postgres.EventColumns("")).ToSql()
	if err != nil {
		return nil, fmt.Errorf("build update: %w", err)
	}

	updated, err := postgres.ScanEvent(q.QueryRow(ctx, query, args...))
	if err != nil {
		return nil, postgres.MapError(err, "event", id)
	}
	return &updated, nil
}

// SetStatus moves an event to status. published_at is set on the first
// transition into published and never cleared.
func (r *Repo) SetStatus(ctx context.Context, id uuid.UUID, status domain.EventStatus) (*domain.Event, error) {
	q, err := postgres.QuerierFromCtx(ctx, r.conn)
	if err != nil {
		return nil, err
	}

	ev, err := postgres.ScanEvent(q.QueryRow(ctx, setStatusSQL, id, string(status)))
	if err != nil {
		return nil, postgres.MapError(err, "event", id)
	}
	return &ev, nil
}

// UpsertBySlug inserts or updates an event keyed by slug and returns its id.
// An existing id is kept.
func (r *Repo) UpsertBySlug(ctx context.Context, ev *domain.Event) (uuid.UUID, error) {
	q, err := postgres.QuerierFromCtx(ctx, r.conn)
	if err != nil {
		return uuid.Nil, err
	}

	var id uuid.UUID
	err = q.QueryRow(ctx, upsertBySlugSQL,
		ev.ID, ev.Slug, ev.Title, ev.Date, ev.Region, ev.Category, ev.Summary, ev.Impact,
		ev.Importance, ev.Confidence, string(ev.Status), ev.PublishedAt,
	).Scan(&id)
	if err != nil {
		return uuid.Nil, postgres.MapError(err, "event", ev.Slug)
	}
	return id, nil
}

// ---------------------------------------------------------------------------
// Links
// ---------------------------------------------------------------------------

const (
	attachSourceSQL = `INSERT INTO event_sources (event_id, source_id, relevance_rank, quote, citation)
VALUES ($1, $2, $3, $4, $5)
ON CONFLICT (event_id, source_id) DO UPDATE SET
    relevance_rank = EXCLUDED.relevance_rank,
    quote = EXCLUDED.quote,
    citation = EXCLUDED.citation`

	detachSourceSQL = `DELETE FROM event_sources WHERE event_id = $1 AND source_id = $2`

	attachTagSQL = `INSERT INTO event_tags (event_id, tag_id) VALUES ($1, $2) ON CONFLICT DO NOTHING`

	detachTagSQL = `DELETE FROM event_tags WHERE event_id = $1 AND tag_id = $2`
)

// AttachSource links an event to a source. Re-attaching updates the rank
// and citation fields in place.
func (r *Repo) AttachSource(ctx context.Context, link domain.EventSource) error {
	q, err := postgres.QuerierFromCtx(ctx, r.conn)
	if err != nil {
		return err
	}

	_, err = q.Exec(ctx, attachSourceSQL, link.EventID, link.SourceID, link.RelevanceRank, link.Quote, link.Citation)
	if err != nil {
		return postgres.MapError(err, "event_source", link.EventID.String()+"/"+link.SourceID.String())
	}
	return nil
}

// DetachSource removes a link. Returns domain.ErrNotFound if absent.
func (r *Repo) DetachSource(ctx context.Context, eventID, sourceID uuid.UUID) error {
	return r.deleteLink(ctx, detachSourceSQL, "event_source", eventID, sourceID)
}

// AttachTag tags an event. Idempotent.
func (r *Repo) AttachTag(ctx context.Context, eventID, tagID uuid.UUID) error {
	q, err := postgres.QuerierFromCtx(ctx, r.conn)
	if err != nil {
		return err
	}

	if _, err := q.Exec(ctx, attachTagSQL, eventID, tagID); err != nil {
		return postgres.MapError(err, "event_tag", eventID.String()+"/"+tagID.String())
	}
	return nil
}

// DetachTag untags an event. Returns domain.ErrNotFound if absent.
func (r *Repo) DetachTag(ctx context.Context, eventID, tagID uuid.UUID) error {
	return r.deleteLink(ctx, detachTagSQL, "event_tag", eventID, tagID)
}

func (r *Repo) deleteLink(ctx context.Context, query, entity string, a, b uuid.UUID) error {
	q, err := postgres.QuerierFromCtx(ctx, r.conn)
	if err != nil {
		return err
	}

	key := a.String() + "/" + b.String()
	tag, err := q.Exec(ctx, query, a, b)
	if err != nil {
		return postgres.MapError(err, entity, key)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%s %s: %w", entity, key, domain.ErrNotFound)
	}
	return nil
}
