package rest

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/google/uuid"

	"github.com/heartmarshall/finhistory-backend/internal/demo"
	"github.com/heartmarshall/finhistory-backend/internal/domain"
	"github.com/heartmarshall/finhistory-backend/internal/service/ingest"
)

type ingestService interface {
	Import(ctx context.Context, req ingest.ImportRequest) (*ingest.ImportResult, error)
	CreateJob(ctx context.Context, input ingest.CreateJobInput) (*domain.IngestionJob, error)
	UpdateJob(ctx context.Context, input ingest.UpdateJobInput) (*domain.IngestionJob, error)
	GetJob(ctx context.Context, id uuid.UUID) (*domain.IngestionJob, error)
	ListJobs(ctx context.Context, limit, offset int) ([]domain.IngestionJob, error)
}

// InternalHandler serves the ingestion API used by import workers.
type InternalHandler struct {
	ingest ingestService
	log    *slog.Logger
}

// NewInternalHandler creates an InternalHandler.
func NewInternalHandler(ingest ingestService, logger *slog.Logger) *InternalHandler {
	return &InternalHandler{
		ingest: ingest,
		log:    logger.With("handler", "internal"),
	}
}

// importRequest is a batch in the seed file shape plus the name of the
// file it came from.
type importRequest struct {
	Target string `json:"target"`
	demo.Seed
}

type createJobRequest struct {
	SourceName   string         `json:"sourceName"`
	TotalRecords int            `json:"totalRecords"`
	Status       string         `json:"status"`
	Metadata     map[string]any `json:"metadata"`
}

type updateJobRequest struct {
	Status           *string        `json:"status"`
	TotalRecords     *int           `json:"totalRecords"`
	ProcessedRecords *int           `json:"processedRecords"`
	FailedRecords    *int           `json:"failedRecords"`
	Metadata         map[string]any `json:"metadata"`
	ErrorMessage     *string        `json:"errorMessage"`
}

// Import loads a batch into the live store, or merges it into the seed
// file when the store is unavailable. A rolled back batch is reported in
// the result rather than as an error response.
// POST /api/internal/import
func (h *InternalHandler) Import(w http.ResponseWriter, r *http.Request) {
	var req importRequest
	if err := decodeJSON(w, r, &req); err != nil {
		handleError(w, r, h.log, err)
		return
	}

	res, err := h.ingest.Import(r.Context(), ingest.ImportRequest{Target: req.Target, Seed: &req.Seed})
	if err != nil {
		handleError(w, r, h.log, err)
		return
	}
	writeData(w, http.StatusOK, toImportResultDTO(res))
}

// CreateJob registers an ingestion job.
// POST /api/internal/ingestion-jobs
func (h *InternalHandler) CreateJob(w http.ResponseWriter, r *http.Request) {
	var req createJobRequest
	if err := decodeJSON(w, r, &req); err != nil {
		handleError(w, r, h.log, err)
		return
	}

	job, err := h.ingest.CreateJob(r.Context(), ingest.CreateJobInput{
		SourceName:   req.SourceName,
		TotalRecords: req.TotalRecords,
		Status:       domain.JobStatus(req.Status),
		Metadata:     req.Metadata,
	})
	if err != nil {
		handleError(w, r, h.log, err)
		return
	}
	writeData(w, http.StatusCreated, toJobDTO(job))
}

// UpdateJob applies a partial update to a job.
// PATCH /api/internal/ingestion-jobs/{id}
func (h *InternalHandler) UpdateJob(w http.ResponseWriter, r *http.Request) {
	id, err := pathUUID(r, "id")
	if err != nil {
		handleError(w, r, h.log, err)
		return
	}

	var req updateJobRequest
	if err := decodeJSON(w, r, &req); err != nil {
		handleError(w, r, h.log, err)
		return
	}

	input := ingest.UpdateJobInput{
		ID:               id,
		TotalRecords:     req.TotalRecords,
		ProcessedRecords: req.ProcessedRecords,
		FailedRecords:    req.FailedRecords,
		Metadata:         req.Metadata,
		ErrorMessage:     req.ErrorMessage,
	}
	if req.Status != nil {
		status := domain.JobStatus(*req.Status)
		input.Status = &status
	}

	job, err := h.ingest.UpdateJob(r.Context(), input)
	if err != nil {
		handleError(w, r, h.log, err)
		return
	}
	writeData(w, http.StatusOK, toJobDTO(job))
}

// GetJob returns one job.
// GET /api/internal/ingestion-jobs/{id}
func (h *InternalHandler) GetJob(w http.ResponseWriter, r *http.Request) {
	id, err := pathUUID(r, "id")
	if err != nil {
		handleError(w, r, h.log, err)
		return
	}

	job, err := h.ingest.GetJob(r.Context(), id)
	if err != nil {
		handleError(w, r, h.log, err)
		return
	}
	writeData(w, http.StatusOK, toJobDTO(job))
}

// ListJobs returns jobs, newest first.
// GET /api/internal/ingestion-jobs?limit=&offset=
func (h *InternalHandler) ListJobs(w http.ResponseWriter, r *http.Request) {
	p := &queryParser{r: r}
	limit := p.int("limit", 0)
	offset := p.int("offset", 0)
	if err := p.err(); err != nil {
		handleError(w, r, h.log, err)
		return
	}

	jobs, err := h.ingest.ListJobs(r.Context(), limit, offset)
	if err != nil {
		handleError(w, r, h.log, err)
		return
	}

	out := make([]jobDTO, len(jobs))
	for i := range jobs {
		out[i] = toJobDTO(&jobs[i])
	}
	writeData(w, http.StatusOK, out)
}
