// Package tag implements the tag repository using PostgreSQL.
package tag

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	postgres "github.com/heartmarshall/finhistory-backend/internal/adapter/postgres"
	"github.com/heartmarshall/finhistory-backend/internal/domain"
)

// Repo provides tag persistence backed by PostgreSQL.
type Repo struct {
	conn postgres.Connector
}

// New creates a new tag repository.
func New(conn postgres.Connector) *Repo {
	return &Repo{conn: conn}
}

const (
	createSQL = `INSERT INTO tags (id, slug, name) VALUES ($1, $2, $3) RETURNING id, slug, name`

	upsertBySlugSQL = `INSERT INTO tags (id, slug, name) VALUES ($1, $2, $3)
ON CONFLICT (slug) DO UPDATE SET name = EXCLUDED.name
RETURNING id`

	listSQL = `SELECT id, slug, name FROM tags ORDER BY slug COLLATE "C"`
)

// Create inserts a new tag. A duplicate slug yields domain.ErrAlreadyExists.
func (r *Repo) Create(ctx context.Context, t *domain.Tag) (*domain.Tag, error) {
	q, err := postgres.QuerierFromCtx(ctx, r.conn)
	if err != nil {
		return nil, err
	}

	var out domain.Tag
	if err := q.QueryRow(ctx, createSQL, t.ID, t.Slug, t.Name).Scan(&out.ID, &out.Slug, &out.Name); err != nil {
		return nil, postgres.MapError(err, "tag", t.Slug)
	}
	return &out, nil
}

// UpsertBySlug inserts or renames a tag keyed by slug and returns its id.
func (r *Repo) UpsertBySlug(ctx context.Context, t *domain.Tag) (uuid.UUID, error) {
	q, err := postgres.QuerierFromCtx(ctx, r.conn)
	if err != nil {
		return uuid.Nil, err
	}

	var id uuid.UUID
	if err := q.QueryRow(ctx, upsertBySlugSQL, t.ID, t.Slug, t.Name).Scan(&id); err != nil {
		return uuid.Nil, postgres.MapError(err, "tag", t.Slug)
	}
	return id, nil
}

// List returns every tag ordered by slug.
func (r *Repo) List(ctx context.Context) ([]domain.Tag, error) {
	q, err := postgres.QuerierFromCtx(ctx, r.conn)
	if err != nil {
		return nil, err
	}

	rows, err := q.Query(ctx, listSQL)
	if err != nil {
		return nil, fmt.Errorf("list tags: %w", err)
	}
	return postgres.CollectRows(rows, func(s postgres.Scanner) (domain.Tag, error) {
		var t domain.Tag
		err := s.Scan(&t.ID, &t.Slug, &t.Name)
		return t, err
	})
}
