package domain

import (
	"time"

	"github.com/google/uuid"
)

// IngestionJob is bookkeeping for a bulk import run.
type IngestionJob struct {
	ID               uuid.UUID
	SourceName       string
	Status           JobStatus
	TotalRecords     int
	ProcessedRecords int
	FailedRecords    int
	Metadata         map[string]any
	ErrorMessage     *string
	StartedAt        *time.Time
	FinishedAt       *time.Time
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

// IngestionJobUpdate is a partial update of a job. nil fields are left unchanged.
type IngestionJobUpdate struct {
	Status           *JobStatus
	TotalRecords     *int
	ProcessedRecords *int
	FailedRecords    *int
	Metadata         map[string]any
	ErrorMessage     *string
}
