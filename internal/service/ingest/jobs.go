package ingest

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"

	"github.com/heartmarshall/finhistory-backend/internal/availability"
	"github.com/heartmarshall/finhistory-backend/internal/domain"
)

const (
	defaultJobLimit = 20
	maxJobLimit     = 100
)

// CreateJobInput holds the parameters for registering an ingestion job.
type CreateJobInput struct {
	SourceName   string
	TotalRecords int
	Status       domain.JobStatus
	Metadata     map[string]any
}

// Validate checks all fields and collects all errors.
func (i CreateJobInput) Validate() error {
	var errs []domain.FieldError

	name := strings.TrimSpace(i.SourceName)
	if name == "" {
		errs = append(errs, domain.FieldError{Field: "sourceName", Message: "required"})
	}
	if len(name) > 200 {
		errs = append(errs, domain.FieldError{Field: "sourceName", Message: "max 200 characters"})
	}
	if i.TotalRecords < 0 {
		errs = append(errs, domain.FieldError{Field: "totalRecords", Message: "must not be negative"})
	}
	if i.Status != "" && i.Status != domain.JobStatusQueued && i.Status != domain.JobStatusRunning {
		errs = append(errs, domain.FieldError{Field: "status", Message: "must be queued or running"})
	}

	if len(errs) > 0 {
		return &domain.ValidationError{Errors: errs}
	}
	return nil
}

// UpdateJobInput is a partial job update. nil fields are unchanged;
// Metadata keys are merged into the stored metadata.
type UpdateJobInput struct {
	ID               uuid.UUID
	Status           *domain.JobStatus
	TotalRecords     *int
	ProcessedRecords *int
	FailedRecords    *int
	Metadata         map[string]any
	ErrorMessage     *string
}

// Validate checks all fields and collects all errors.
func (i UpdateJobInput) Validate() error {
	var errs []domain.FieldError

	if i.ID == uuid.Nil {
		errs = append(errs, domain.FieldError{Field: "id", Message: "required"})
	}
	if i.Status != nil && !i.Status.IsValid() {
		errs = append(errs, domain.FieldError{Field: "status", Message: "must be one of queued, running, succeeded, failed"})
	}
	for field, v := range map[string]*int{
		"totalRecords":     i.TotalRecords,
		"processedRecords": i.ProcessedRecords,
		"failedRecords":    i.FailedRecords,
	} {
		if v != nil && *v < 0 {
			errs = append(errs, domain.FieldError{Field: field, Message: "must not be negative"})
		}
	}

	if len(errs) > 0 {
		return &domain.ValidationError{Errors: errs}
	}
	return nil
}

// CanTransitionJob reports whether a job may move between statuses.
// Finished jobs never change.
func CanTransitionJob(from, to domain.JobStatus) bool {
	switch from {
	case domain.JobStatusQueued:
		return true
	case domain.JobStatusRunning:
		return to != domain.JobStatusQueued
	default:
		return false
	}
}

// CreateJob registers a job. Status defaults to queued.
func (s *Service) CreateJob(ctx context.Context, input CreateJobInput) (*domain.IngestionJob, error) {
	if err := input.Validate(); err != nil {
		return nil, err
	}

	status := input.Status
	if status == "" {
		status = domain.JobStatusQueued
	}
	metadata := input.Metadata
	if metadata == nil {
		metadata = map[string]any{}
	}

	var created *domain.IngestionJob
	err := s.write(ctx, "create ingestion job", func(ctx context.Context) error {
		var err error
		created, err = s.jobs.Create(ctx, &domain.IngestionJob{
			ID:           uuid.New(),
			SourceName:   strings.TrimSpace(input.SourceName),
			Status:       status,
			TotalRecords: input.TotalRecords,
			Metadata:     metadata,
		})
		return err
	})
	if err != nil {
		return nil, err
	}

	s.log.InfoContext(ctx, "ingestion job created",
		slog.String("job_id", created.ID.String()),
		slog.String("source", created.SourceName),
	)
	return created, nil
}

// UpdateJob applies progress to a job. Updating a finished job, or moving
// a job back to queued, yields domain.ErrConflict.
func (s *Service) UpdateJob(ctx context.Context, input UpdateJobInput) (*domain.IngestionJob, error) {
	if err := input.Validate(); err != nil {
		return nil, err
	}

	var updated *domain.IngestionJob
	err := s.write(ctx, "update ingestion job", func(ctx context.Context) error {
		current, err := s.jobs.GetByID(ctx, input.ID)
		if err != nil {
			return err
		}
		if current.Status.IsTerminal() {
			return fmt.Errorf("ingestion job %s is %s: %w", input.ID, current.Status, domain.ErrConflict)
		}
		if input.Status != nil && !CanTransitionJob(current.Status, *input.Status) {
			return fmt.Errorf("ingestion job %s: cannot move from %s to %s: %w",
				input.ID, current.Status, *input.Status, domain.ErrConflict)
		}

		updated, err = s.jobs.Update(ctx, input.ID, domain.IngestionJobUpdate{
			Status:           input.Status,
			TotalRecords:     input.TotalRecords,
			ProcessedRecords: input.ProcessedRecords,
			FailedRecords:    input.FailedRecords,
			Metadata:         input.Metadata,
			ErrorMessage:     input.ErrorMessage,
		})
		return err
	})
	if err != nil {
		return nil, err
	}

	if updated.Status.IsTerminal() {
		s.log.InfoContext(ctx, "ingestion job finished",
			slog.String("job_id", updated.ID.String()),
			slog.String("status", updated.Status.String()),
			slog.Int("processed", updated.ProcessedRecords),
			slog.Int("failed", updated.FailedRecords),
		)
	}
	return updated, nil
}

// GetJob returns a job by id.
func (s *Service) GetJob(ctx context.Context, id uuid.UUID) (*domain.IngestionJob, error) {
	if id == uuid.Nil {
		return nil, domain.NewValidationError("id", "required")
	}
	if err := s.requireLive("get ingestion job"); err != nil {
		return nil, err
	}

	job, err := s.jobs.GetByID(ctx, id)
	if err != nil {
		return nil, s.liveError(ctx, "get ingestion job", err)
	}
	return job, nil
}

// ListJobs returns jobs newest first. limit is clamped to [1, 100].
func (s *Service) ListJobs(ctx context.Context, limit, offset int) ([]domain.IngestionJob, error) {
	if limit <= 0 {
		limit = defaultJobLimit
	}
	if limit > maxJobLimit {
		limit = maxJobLimit
	}
	if offset < 0 {
		return nil, domain.NewValidationError("offset", "must not be negative")
	}
	if err := s.requireLive("list ingestion jobs"); err != nil {
		return nil, err
	}

	jobs, err := s.jobs.List(ctx, limit, offset)
	if err != nil {
		return nil, s.liveError(ctx, "list ingestion jobs", err)
	}
	return jobs, nil
}

// write runs fn in a transaction against the live store.
func (s *Service) write(ctx context.Context, op string, fn func(ctx context.Context) error) error {
	if err := s.requireLive(op); err != nil {
		return err
	}
	if err := s.tx.RunInTx(ctx, fn); err != nil {
		return s.liveError(ctx, op, err)
	}
	return nil
}

func (s *Service) requireLive(op string) error {
	if !s.store.Configured() {
		return fmt.Errorf("%s: %w", op, domain.ErrUnavailable)
	}
	return nil
}

// liveError maps a connectivity failure to domain.ErrUnavailable. Data
// errors pass through unchanged.
func (s *Service) liveError(ctx context.Context, op string, err error) error {
	if domain.IsDataError(err) {
		return err
	}
	if sig := availability.Classify(err); sig != availability.SignatureNone {
		s.log.WarnContext(ctx, "job bookkeeping rejected, live store unavailable",
			slog.String("operation", op),
			slog.String("signature", sig.String()),
		)
		return fmt.Errorf("%s: %w: %w", op, domain.ErrUnavailable, err)
	}
	return fmt.Errorf("%s: %w", op, err)
}
