// Package source implements the citation source repository using PostgreSQL.
package source

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	postgres "github.com/heartmarshall/finhistory-backend/internal/adapter/postgres"
	"github.com/heartmarshall/finhistory-backend/internal/domain"
)

// Repo provides source persistence backed by PostgreSQL.
type Repo struct {
	conn postgres.Connector
}

// New creates a new source repository.
func New(conn postgres.Connector) *Repo {
	return &Repo{conn: conn}
}

var (
	getByIDSQL = `SELECT ` + postgres.SourceColumns("s") + ` FROM sources s WHERE s.id = $1`

	linkedEventsSQL = `SELECT ` + postgres.EventColumns("e") + `, es.relevance_rank, es.quote, es.citation
FROM event_sources es
JOIN events e ON e.id = es.event_id
WHERE es.source_id = $1 AND e.status = 'published'
ORDER BY es.relevance_rank DESC, e.event_date DESC, e.slug COLLATE "C" ASC`

	createSQL = `INSERT INTO sources (id, name, url, source_type, publisher, published_date, accessed_date,
                     rights, reliability_note, created_at, updated_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, now(), now())
RETURNING ` + postgres.SourceColumns("")

	upsertByURLSQL = `INSERT INTO sources (id, name, url, source_type, publisher, published_date, accessed_date,
                     rights, reliability_note, created_at, updated_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, now(), now())
ON CONFLICT (url) DO UPDATE SET
    name = EXCLUDED.name,
    source_type = EXCLUDED.source_type,
    publisher = EXCLUDED.publisher,
    published_date = EXCLUDED.published_date,
    accessed_date = EXCLUDED.accessed_date,
    rights = EXCLUDED.rights,
    reliability_note = EXCLUDED.reliability_note,
    updated_at = now()
RETURNING id`

	idsByURLsSQL = `SELECT url, id FROM sources WHERE url = ANY($1)`
)

// ---------------------------------------------------------------------------
// Read operations
// ---------------------------------------------------------------------------

// GetByID returns a source.
func (r *Repo) GetByID(ctx context.Context, id uuid.UUID) (*domain.Source, error) {
	q, err := postgres.QuerierFromCtx(ctx, r.conn)
	if err != nil {
		return nil, err
	}

	src, err := postgres.ScanSource(q.QueryRow(ctx, getByIDSQL, id))
	if err != nil {
		return nil, postgres.MapError(err, "source", id)
	}
	return &src, nil
}

// GetDetail returns a source with the published events citing it, most
// relevant first.
func (r *Repo) GetDetail(ctx context.Context, id uuid.UUID) (*domain.SourceDetail, error) {
	src, err := r.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	q, err := postgres.QuerierFromCtx(ctx, r.conn)
	if err != nil {
		return nil, err
	}

	rows, err := q.Query(ctx, linkedEventsSQL, id)
	if err != nil {
		return nil, fmt.Errorf("source %s events: %w", id, err)
	}
	events, err := postgres.CollectRows(rows, func(s postgres.Scanner) (domain.LinkedEvent, error) {
		var le domain.LinkedEvent
		ev, err := postgres.ScanEvent(s, &le.RelevanceRank, &le.Quote, &le.Citation)
		le.Event = ev
		return le, err
	})
	if err != nil {
		return nil, fmt.Errorf("source %s events: %w", id, err)
	}

	return &domain.SourceDetail{Source: *src, Events: events}, nil
}

// IDsByURLs resolves URLs to ids. Unknown URLs are absent from the map.
func (r *Repo) IDsByURLs(ctx context.Context, urls []string) (map[string]uuid.UUID, error) {
	out := make(map[string]uuid.UUID, len(urls))
	if len(urls) == 0 {
		return out, nil
	}

	q, err := postgres.QuerierFromCtx(ctx, r.conn)
	if err != nil {
		return nil, err
	}

	rows, err := q.Query(ctx, idsByURLsSQL, urls)
	if err != nil {
		return nil, fmt.Errorf("resolve source urls: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var (
			url string
			id  uuid.UUID
		)
		if err := rows.Scan(&url, &id); err != nil {
			return nil, fmt.Errorf("resolve source urls: %w", err)
		}
		out[url] = id
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("resolve source urls: %w", err)
	}
	return out, nil
}

// ---------------------------------------------------------------------------
// Write operations
// ---------------------------------------------------------------------------

// Create inserts a new source. A duplicate URL yields domain.ErrAlreadyExists.
func (r *Repo) Create(ctx context.Context, src *domain.Source) (*domain.Source, error) {
	q, err := postgres.QuerierFromCtx(ctx, r.conn)
	if err != nil {
		return nil, err
	}

	created, err := postgres.ScanSource(q.QueryRow(ctx, createSQL, sourceArgs(src)...))
	if err != nil {
		return nil, postgres.MapError(err, "source", src.URL)
	}
	return &created, nil
}

// UpsertByURL inserts or updates a source keyed by URL and returns its id.
func (r *Repo) UpsertByURL(ctx context.Context, src *domain.Source) (uuid.UUID, error) {
	q, err := postgres.QuerierFromCtx(ctx, r.conn)
	if err != nil {
		return uuid.Nil, err
	}

	var id uuid.UUID
	if err := q.QueryRow(ctx, upsertByURLSQL, sourceArgs(src)...).Scan(&id); err != nil {
		return uuid.Nil, postgres.MapError(err, "source", src.URL)
	}
	return id, nil
}

func sourceArgs(src *domain.Source) []any {
	return []any{
		src.ID, src.Name, src.URL, string(src.Type), src.Publisher, src.PublishedDate,
		src.AccessedDate, src.Rights, src.ReliabilityNote,
	}
}
