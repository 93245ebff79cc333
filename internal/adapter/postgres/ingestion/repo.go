// Package ingestion implements the ingestion job repository using PostgreSQL.
package ingestion

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"

	postgres "github.com/heartmarshall/finhistory-backend/internal/adapter/postgres"
	"github.com/heartmarshall/finhistory-backend/internal/domain"
)

var psql = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

const jobColumns = `id, source_name, status, total_records, processed_records, failed_records,
metadata, error_message, started_at, finished_at, created_at, updated_at`

// Repo provides ingestion job persistence backed by PostgreSQL.
type Repo struct {
	conn postgres.Connector
}

// New creates a new ingestion job repository.
func New(conn postgres.Connector) *Repo {
	return &Repo{conn: conn}
}

// ---------------------------------------------------------------------------
// Read operations
// ---------------------------------------------------------------------------

const (
	getByIDSQL = `SELECT ` + jobColumns + ` FROM ingestion_jobs WHERE id = $1`

	listSQL = `SELECT ` + jobColumns + ` FROM ingestion_jobs
ORDER BY created_at DESC, id
LIMIT $1 OFFSET $2`
)

// GetByID returns a job by primary key.
func (r *Repo) GetByID(ctx context.Context, id uuid.UUID) (*domain.IngestionJob, error) {
	q, err := postgres.QuerierFromCtx(ctx, r.conn)
	if err != nil {
		return nil, err
	}

	job, err := scanJob(q.QueryRow(ctx, getByIDSQL, id))
	if err != nil {
		return nil, postgres.MapError(err, "ingestion_job", id)
	}
	return &job, nil
}

// List returns jobs newest first.
func (r *Repo) List(ctx context.Context, limit, offset int) ([]domain.IngestionJob, error) {
	q, err := postgres.QuerierFromCtx(ctx, r.conn)
	if err != nil {
		return nil, err
	}

	rows, err := q.Query(ctx, listSQL, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list ingestion_jobs: %w", err)
	}
	jobs, err := postgres.CollectRows(rows, scanJob)
	if err != nil {
		return nil, fmt.Errorf("list ingestion_jobs: %w", err)
	}
	return jobs, nil
}

// ---------------------------------------------------------------------------
// Write operations
// ---------------------------------------------------------------------------

const (
	createSQL = `INSERT INTO ingestion_jobs
    (id, source_name, status, total_records, processed_records, failed_records, metadata, started_at, created_at, updated_at)
VALUES ($1, $2, $3, $4, 0, 0, $5, CASE WHEN $3 = 'running' THEN now() END, now(), now())
RETURNING ` + jobColumns

	markStaleSQL = `UPDATE ingestion_jobs
SET status = 'failed',
    error_message = $2,
    finished_at = now(),
    updated_at = now()
WHERE status = 'running' AND updated_at < $1`
)

// Create inserts a new job. A job created as running gets started_at set.
func (r *Repo) Create(ctx context.Context, job *domain.IngestionJob) (*domain.IngestionJob, error) {
	q, err := postgres.QuerierFromCtx(ctx, r.conn)
	if err != nil {
		return nil, err
	}

	meta, err := encodeMetadata(job.Metadata)
	if err != nil {
		return nil, err
	}

	created, err := scanJob(q.QueryRow(ctx, createSQL,
		job.ID, job.SourceName, string(job.Status), job.TotalRecords, meta,
	))
	if err != nil {
		return nil, postgres.MapError(err, "ingestion_job", job.ID)
	}
	return &created, nil
}

// Update applies a partial update. Moving to running stamps started_at once;
// moving to a terminal status stamps finished_at.
func (r *Repo) Update(ctx context.Context, id uuid.UUID, upd domain.IngestionJobUpdate) (*domain.IngestionJob, error) {
	q, err := postgres.QuerierFromCtx(ctx, r.conn)
	if err != nil {
		return nil, err
	}

	b := psql.Update("ingestion_jobs").Set("updated_at", sq.Expr("now()"))
	if upd.Status != nil {
		b = b.Set("status", string(*upd.Status))
		switch {
		case *upd.Status == domain.JobStatusRunning:
			b = b.Set("started_at", sq.Expr("COALESCE(started_at, now())"))
		case upd.Status.IsTerminal():
			b = b.Set("finished_at", sq.Expr("now()"))
		}
	}
	if upd.TotalRecords != nil {
		b = b.Set("total_records", *upd.TotalRecords)
	}
	if upd.ProcessedRecords != nil {
		b = b.Set("processed_records", *upd.ProcessedRecords)
	}
	if upd.FailedRecords != nil {
		b = b.Set("failed_records", *upd.FailedRecords)
	}
	if upd.Metadata != nil {
		meta, err := encodeMetadata(upd.Metadata)
		if err != nil {
			return nil, err
		}
		b = b.Set("metadata", sq.Expr("metadata || ?::jsonb", meta))
	}
	if upd.ErrorMessage != nil {
		b = b.Set("error_message", *upd.ErrorMessage)
	}

	query, args, err := b.Where(sq.Eq{"id": id}).Suffix("RETURNING " + jobColumns).ToSql()
	if err != nil {
		return nil, fmt.Errorf("build update ingestion_job: %w", err)
	}

	job, err := scanJob(q.QueryRow(ctx, query, args...))
	if err != nil {
		return nil, postgres.MapError(err, "ingestion_job", id)
	}
	return &job, nil
}

// MarkStale fails every running job not updated since before cutoff and
// returns how many were affected.
func (r *Repo) MarkStale(ctx context.Context, cutoff time.Time, reason string) (int, error) {
	q, err := postgres.QuerierFromCtx(ctx, r.conn)
	if err != nil {
		return 0, err
	}

	tag, err := q.Exec(ctx, markStaleSQL, cutoff, reason)
	if err != nil {
		return 0, fmt.Errorf("mark stale ingestion_jobs: %w", err)
	}
	return int(tag.RowsAffected()), nil
}

// ---------------------------------------------------------------------------
// Mapping helpers
// ---------------------------------------------------------------------------

func scanJob(s postgres.Scanner) (domain.IngestionJob, error) {
	var (
		job    domain.IngestionJob
		status string
		meta   []byte
	)
	err := s.Scan(
		&job.ID, &job.SourceName, &status, &job.TotalRecords, &job.ProcessedRecords, &job.FailedRecords,
		&meta, &job.ErrorMessage, &job.StartedAt, &job.FinishedAt, &job.CreatedAt, &job.UpdatedAt,
	)
	if err != nil {
		return domain.IngestionJob{}, err
	}
	job.Status = domain.JobStatus(status)

	job.Metadata = map[string]any{}
	if len(meta) > 0 {
		if err := json.Unmarshal(meta, &job.Metadata); err != nil {
			return domain.IngestionJob{}, fmt.Errorf("decode metadata: %w", err)
		}
	}
	return job, nil
}

func encodeMetadata(m map[string]any) ([]byte, error) {
	if m == nil {
		return []byte("{}"), nil
	}
	b, err := json.Marshal(m)
	if err != nil {
		return nil, fmt.Errorf("encode metadata: %w", err)
	}
	return b, nil
}
