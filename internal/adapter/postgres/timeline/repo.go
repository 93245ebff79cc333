// Package timeline implements the curated timeline repository using PostgreSQL.
package timeline

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	postgres "github.com/heartmarshall/finhistory-backend/internal/adapter/postgres"
	"github.com/heartmarshall/finhistory-backend/internal/domain"
)

// sequenceKey guards sequence numbers within one timeline.
const sequenceKey = "timeline_events_sequence_key"

// Repo provides timeline persistence backed by PostgreSQL.
type Repo struct {
	conn postgres.Connector
}

// New creates a new timeline repository.
func New(conn postgres.Connector) *Repo {
	return &Repo{conn: conn}
}

// ---------------------------------------------------------------------------
// Read operations
// ---------------------------------------------------------------------------

var (
	listSQL = `SELECT ` + postgres.TimelineColumns("tl") + `,
       count(e.id) AS event_count, min(e.event_date) AS first_date, max(e.event_date) AS last_date
FROM timelines tl
LEFT JOIN timeline_events te ON te.timeline_id = tl.id
LEFT JOIN events e ON e.id = te.event_id AND e.status = 'published'
GROUP BY tl.id
ORDER BY tl.title COLLATE "C" ASC, tl.slug COLLATE "C" ASC`

	getBySlugSQL = `SELECT ` + postgres.TimelineColumns("tl") + ` FROM timelines tl WHERE tl.slug = $1`

	membersSQL = `SELECT ` + postgres.EventColumns("e") + `, te.sequence_no
FROM timeline_events te
JOIN events e ON e.id = te.event_id
WHERE te.timeline_id = $1 AND e.status = 'published'
ORDER BY te.sequence_no ASC`
)

// List returns every timeline with published-event aggregates, ordered by title.
func (r *Repo) List(ctx context.Context) ([]domain.TimelineSummary, error) {
	q, err := postgres.QuerierFromCtx(ctx, r.conn)
	if err != nil {
		return nil, err
	}

	rows, err := q.Query(ctx, listSQL)
	if err != nil {
		return nil, fmt.Errorf("list timelines: %w", err)
	}
	out, err := postgres.CollectRows(rows, func(s postgres.Scanner) (domain.TimelineSummary, error) {
		var sum domain.TimelineSummary
		tl, err := postgres.ScanTimeline(s, &sum.EventCount, &sum.FirstDate, &sum.LastDate)
		sum.Timeline = tl
		sum.FirstDate = utcDate(sum.FirstDate)
		sum.LastDate = utcDate(sum.LastDate)
		return sum, err
	})
	if err != nil {
		return nil, fmt.Errorf("list timelines: %w", err)
	}
	return out, nil
}

// GetBySlug returns a timeline with its published events in sequence order.
func (r *Repo) GetBySlug(ctx context.Context, slug string) (*domain.TimelineDetail, error) {
	q, err := postgres.QuerierFromCtx(ctx, r.conn)
	if err != nil {
		return nil, err
	}

	tl, err := postgres.ScanTimeline(q.QueryRow(ctx, getBySlugSQL, slug))
	if err != nil {
		return nil, postgres.MapError(err, "timeline", slug)
	}

	rows, err := q.Query(ctx, membersSQL, tl.ID)
	if err != nil {
		return nil, fmt.Errorf("timeline %s events: %w", slug, err)
	}
	events, err := postgres.CollectRows(rows, func(s postgres.Scanner) (domain.SequencedEvent, error) {
		var se domain.SequencedEvent
		ev, err := postgres.ScanEvent(s, &se.SequenceNo)
		se.Event = ev
		return se, err
	})
	if err != nil {
		return nil, fmt.Errorf("timeline %s events: %w", slug, err)
	}

	return &domain.TimelineDetail{Timeline: tl, Events: events}, nil
}

// ---------------------------------------------------------------------------
// Write operations
// ---------------------------------------------------------------------------

var createSQL = `INSERT INTO timelines (id, slug, title, description, created_at, updated_at)
VALUES ($1, $2, $3, $4, now(), now())
RETURNING ` + postgres.TimelineColumns("")

const (
	attachEventSQL = `INSERT INTO timeline_events (timeline_id, event_id, sequence_no) VALUES ($1, $2, $3)`

	updateEventSQL = `UPDATE timeline_events SET sequence_no = $3 WHERE timeline_id = $1 AND event_id = $2`

	detachEventSQL = `DELETE FROM timeline_events WHERE timeline_id = $1 AND event_id = $2`

	touchSQL = `UPDATE timelines SET updated_at = now() WHERE id = $1`
)

// Create inserts a new timeline. A duplicate slug yields domain.ErrAlreadyExists.
func (r *Repo) Create(ctx context.Context, tl *domain.Timeline) (*domain.Timeline, error) {
	q, err := postgres.QuerierFromCtx(ctx, r.conn)
	if err != nil {
		return nil, err
	}

	created, err := postgres.ScanTimeline(q.QueryRow(ctx, createSQL, tl.ID, tl.Slug, tl.Title, tl.Description))
	if err != nil {
		return nil, postgres.MapError(err, "timeline", tl.Slug)
	}
	return &created, nil
}

// AttachEvent places an event in a timeline. A taken sequence number yields
// domain.ErrConflict; an event already present yields domain.ErrAlreadyExists.
func (r *Repo) AttachEvent(ctx context.Context, te domain.TimelineEvent) error {
	return r.writeMembership(ctx, attachEventSQL, te, false)
}

// UpdateEvent moves an event to a new sequence number.
func (r *Repo) UpdateEvent(ctx context.Context, te domain.TimelineEvent) error {
	return r.writeMembership(ctx, updateEventSQL, te, true)
}

// DetachEvent removes an event from a timeline.
func (r *Repo) DetachEvent(ctx context.Context, timelineID, eventID uuid.UUID) error {
	q, err := postgres.QuerierFromCtx(ctx, r.conn)
	if err != nil {
		return err
	}

	key := timelineID.String() + "/" + eventID.String()
	tag, err := q.Exec(ctx, detachEventSQL, timelineID, eventID)
	if err != nil {
		return postgres.MapError(err, "timeline_event", key)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("timeline_event %s: %w", key, domain.ErrNotFound)
	}
	return r.touch(ctx, q, timelineID)
}

func (r *Repo) writeMembership(ctx context.Context, query string, te domain.TimelineEvent, mustExist bool) error {
	q, err := postgres.QuerierFromCtx(ctx, r.conn)
	if err != nil {
		return err
	}

	key := te.TimelineID.String() + "/" + te.EventID.String()
	tag, err := q.Exec(ctx, query, te.TimelineID, te.EventID, te.SequenceNo)
	if err != nil {
		if postgres.IsConstraint(err, sequenceKey) {
			return fmt.Errorf("timeline %s sequence %d: %w", te.TimelineID, te.SequenceNo, domain.ErrConflict)
		}
		return postgres.MapError(err, "timeline_event", key)
	}
	if mustExist && tag.RowsAffected() == 0 {
		return fmt.Errorf("timeline_event %s: %w", key, domain.ErrNotFound)
	}
	return r.touch(ctx, q, te.TimelineID)
}

func (r *Repo) touch(ctx context.Context, q postgres.Querier, id uuid.UUID) error {
	if _, err := q.Exec(ctx, touchSQL, id); err != nil {
		return postgres.MapError(err, "timeline", id)
	}
	return nil
}

// utcDate normalizes an aggregated DATE to midnight UTC.
func utcDate(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	y, m, d := t.Date()
	out := time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
	return &out
}
