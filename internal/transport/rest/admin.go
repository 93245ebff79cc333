package rest

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/google/uuid"

	"github.com/heartmarshall/finhistory-backend/internal/domain"
	"github.com/heartmarshall/finhistory-backend/internal/service/editorial"
)

type editorialService interface {
	CreateEvent(ctx context.Context, input editorial.CreateEventInput) (*domain.Event, error)
	UpdateEvent(ctx context.Context, input editorial.UpdateEventInput) (*domain.Event, error)
	PublishEvent(ctx context.Context, id uuid.UUID) (*domain.Event, error)
	ArchiveEvent(ctx context.Context, id uuid.UUID) (*domain.Event, error)
	CreateSource(ctx context.Context, input editorial.CreateSourceInput) (*domain.Source, error)
	CreateTag(ctx context.Context, input editorial.CreateTagInput) (*domain.Tag, error)
	CreateTimeline(ctx context.Context, input editorial.CreateTimelineInput) (*domain.Timeline, error)
	AttachSource(ctx context.Context, input editorial.AttachSourceInput) error
	DetachSource(ctx context.Context, eventID, sourceID uuid.UUID) error
	AttachTag(ctx context.Context, eventID, tagID uuid.UUID) error
	DetachTag(ctx context.Context, eventID, tagID uuid.UUID) error
	AttachTimelineEvent(ctx context.Context, input editorial.TimelineEventInput) error
	UpdateTimelineEvent(ctx context.Context, input editorial.TimelineEventInput) error
	DetachTimelineEvent(ctx context.Context, timelineID, eventID uuid.UUID) error
}

// AdminHandler serves the editorial admin API. Authentication happens in
// middleware before any handler runs.
type AdminHandler struct {
	editorial editorialService
	log       *slog.Logger
}

// NewAdminHandler creates an AdminHandler.
func NewAdminHandler(editorial editorialService, logger *slog.Logger) *AdminHandler {
	return &AdminHandler{
		editorial: editorial,
		log:       logger.With("handler", "admin"),
	}
}

// ---------------------------------------------------------------------------
// Request bodies
// ---------------------------------------------------------------------------

type createEventRequest struct {
	Slug       string `json:"slug"`
	Title      string `json:"title"`
	Date       string `json:"date"`
	Region     string `json:"region"`
	Category   string `json:"category"`
	Summary    string `json:"summary"`
	Impact     string `json:"impact"`
	Importance int    `json:"importance"`
	Confidence int    `json:"confidence"`
	Status     string `json:"status"`
}

type updateEventRequest struct {
	Title      *string `json:"title"`
	Date       *string `json:"date"`
	Region     *string `json:"region"`
	Category   *string `json:"category"`
	Summary    *string `json:"summary"`
	Impact     *string `json:"impact"`
	Importance *int    `json:"importance"`
	Confidence *int    `json:"confidence"`
}

type createSourceRequest struct {
	Name            string  `json:"name"`
	URL             string  `json:"url"`
	Type            string  `json:"type"`
	Publisher       *string `json:"publisher"`
	PublishedDate   *string `json:"publishedDate"`
	AccessedDate    *string `json:"accessedDate"`
	Rights          *string `json:"rights"`
	ReliabilityNote *string `json:"reliabilityNote"`
}

type createTagRequest struct {
	Slug string `json:"slug"`
	Name string `json:"name"`
}

type createTimelineRequest struct {
	Slug        string  `json:"slug"`
	Title       string  `json:"title"`
	Description *string `json:"description"`
}

type attachSourceRequest struct {
	RelevanceRank int     `json:"relevanceRank"`
	Quote         *string `json:"quote"`
	Citation      *string `json:"citation"`
}

type timelineEventRequest struct {
	SequenceNo int `json:"sequenceNo"`
}

// ---------------------------------------------------------------------------
// Events
// ---------------------------------------------------------------------------

// CreateEvent creates an event.
// POST /api/admin/events
func (h *AdminHandler) CreateEvent(w http.ResponseWriter, r *http.Request) {
	var req createEventRequest
	if err := decodeJSON(w, r, &req); err != nil {
		handleError(w, r, h.log, err)
		return
	}

	ev, err := h.editorial.CreateEvent(r.Context(), editorial.CreateEventInput{
		Slug:       req.Slug,
		Title:      req.Title,
		Date:       req.Date,
		Region:     req.Region,
		Category:   req.Category,
		Summary:    req.Summary,
		Impact:     req.Impact,
		Importance: req.Importance,
		Confidence: req.Confidence,
		Status:     domain.EventStatus(req.Status),
	})
	if err != nil {
		handleError(w, r, h.log, err)
		return
	}
	writeData(w, http.StatusCreated, toEventDTO(*ev))
}

// UpdateEvent applies a partial update to an event.
// PATCH /api/admin/events/{id}
func (h *AdminHandler) UpdateEvent(w http.ResponseWriter, r *http.Request) {
	id, err := pathUUID(r, "id")
	if err != nil {
		handleError(w, r, h.log, err)
		return
	}

	var req updateEventRequest
	if err := decodeJSON(w, r, &req); err != nil {
		handleError(w, r, h.log, err)
		return
	}

	ev, err := h.editorial.UpdateEvent(r.Context(), editorial.UpdateEventInput{
		EventID:    id,
		Title:      req.Title,
		Date:       req.Date,
		Region:     req.Region,
		Category:   req.Category,
		Summary:    req.Summary,
		Impact:     req.Impact,
		Importance: req.Importance,
		Confidence: req.Confidence,
	})
	if err != nil {
		handleError(w, r, h.log, err)
		return
	}
	writeData(w, http.StatusOK, toEventDTO(*ev))
}

// PublishEvent publishes an event.
// POST /api/admin/events/{id}/publish
func (h *AdminHandler) PublishEvent(w http.ResponseWriter, r *http.Request) {
	h.changeStatus(w, r, h.editorial.PublishEvent)
}

// ArchiveEvent archives an event.
// POST /api/admin/events/{id}/archive
func (h *AdminHandler) ArchiveEvent(w http.ResponseWriter, r *http.Request) {
	h.changeStatus(w, r, h.editorial.ArchiveEvent)
}

func (h *AdminHandler) changeStatus(w http.ResponseWriter, r *http.Request, fn func(context.Context, uuid.UUID) (*domain.Event, error)) {
	id, err := pathUUID(r, "id")
	if err != nil {
		handleError(w, r, h.log, err)
		return
	}

	ev, err := fn(r.Context(), id)
	if err != nil {
		handleError(w, r, h.log, err)
		return
	}
	writeData(w, http.StatusOK, toEventDTO(*ev))
}

// ---------------------------------------------------------------------------
// Sources, tags, timelines
// ---------------------------------------------------------------------------

// CreateSource creates a citation source.
// POST /api/admin/sources
func (h *AdminHandler) CreateSource(w http.ResponseWriter, r *http.Request) {
	var req createSourceRequest
	if err := decodeJSON(w, r, &req); err != nil {
		handleError(w, r, h.log, err)
		return
	}

	src, err := h.editorial.CreateSource(r.Context(), editorial.CreateSourceInput{
		Name:            req.Name,
		URL:             req.URL,
		Type:            domain.SourceType(req.Type),
		Publisher:       req.Publisher,
		PublishedDate:   req.PublishedDate,
		AccessedDate:    req.AccessedDate,
		Rights:          req.Rights,
		ReliabilityNote: req.ReliabilityNote,
	})
	if err != nil {
		handleError(w, r, h.log, err)
		return
	}
	writeData(w, http.StatusCreated, toSourceDTO(*src))
}

// CreateTag creates a tag.
// POST /api/admin/tags
func (h *AdminHandler) CreateTag(w http.ResponseWriter, r *http.Request) {
	var req createTagRequest
	if err := decodeJSON(w, r, &req); err != nil {
		handleError(w, r, h.log, err)
		return
	}

	tag, err := h.editorial.CreateTag(r.Context(), editorial.CreateTagInput{Slug: req.Slug, Name: req.Name})
	if err != nil {
		handleError(w, r, h.log, err)
		return
	}
	writeData(w, http.StatusCreated, toTagDTO(*tag))
}

// CreateTimeline creates a timeline.
// POST /api/admin/timelines
func (h *AdminHandler) CreateTimeline(w http.ResponseWriter, r *http.Request) {
	var req createTimelineRequest
	if err := decodeJSON(w, r, &req); err != nil {
		handleError(w, r, h.log, err)
		return
	}

	tl, err := h.editorial.CreateTimeline(r.Context(), editorial.CreateTimelineInput{
		Slug:        req.Slug,
		Title:       req.Title,
		Description: req.Description,
	})
	if err != nil {
		handleError(w, r, h.log, err)
		return
	}
	writeData(w, http.StatusCreated, toTimelineDTO(*tl))
}

// ---------------------------------------------------------------------------
// Links
// ---------------------------------------------------------------------------

// AttachSource links a source to an event. The body is optional.
// PUT /api/admin/events/{id}/sources/{sourceId}
func (h *AdminHandler) AttachSource(w http.ResponseWriter, r *http.Request) {
	eventID, sourceID, ok := h.pathPair(w, r, "id", "sourceId")
	if !ok {
		return
	}

	var req attachSourceRequest
	if err := decodeOptionalJSON(w, r, &req); err != nil {
		handleError(w, r, h.log, err)
		return
	}

	err := h.editorial.AttachSource(r.Context(), editorial.AttachSourceInput{
		EventID:       eventID,
		SourceID:      sourceID,
		RelevanceRank: req.RelevanceRank,
		Quote:         req.Quote,
		Citation:      req.Citation,
	})
	h.noContent(w, r, err)
}

// DetachSource unlinks a source from an event.
// DELETE /api/admin/events/{id}/sources/{sourceId}
func (h *AdminHandler) DetachSource(w http.ResponseWriter, r *http.Request) {
	eventID, sourceID, ok := h.pathPair(w, r, "id", "sourceId")
	if !ok {
		return
	}
	h.noContent(w, r, h.editorial.DetachSource(r.Context(), eventID, sourceID))
}

// AttachTag tags an event.
// PUT /api/admin/events/{id}/tags/{tagId}
func (h *AdminHandler) AttachTag(w http.ResponseWriter, r *http.Request) {
	eventID, tagID, ok := h.pathPair(w, r, "id", "tagId")
	if !ok {
		return
	}
	h.noContent(w, r, h.editorial.AttachTag(r.Context(), eventID, tagID))
}

// DetachTag untags an event.
// DELETE /api/admin/events/{id}/tags/{tagId}
func (h *AdminHandler) DetachTag(w http.ResponseWriter, r *http.Request) {
	eventID, tagID, ok := h.pathPair(w, r, "id", "tagId")
	if !ok {
		return
	}
	h.noContent(w, r, h.editorial.DetachTag(r.Context(), eventID, tagID))
}

// AttachTimelineEvent places an event in a timeline.
// PUT /api/admin/timelines/{id}/events/{eventId}
func (h *AdminHandler) AttachTimelineEvent(w http.ResponseWriter, r *http.Request) {
	h.timelineEvent(w, r, h.editorial.AttachTimelineEvent)
}

// UpdateTimelineEvent moves an event to another sequence number.
// PATCH /api/admin/timelines/{id}/events/{eventId}
func (h *AdminHandler) UpdateTimelineEvent(w http.ResponseWriter, r *http.Request) {
	h.timelineEvent(w, r, h.editorial.UpdateTimelineEvent)
}

// DetachTimelineEvent removes an event from a timeline.
// DELETE /api/admin/timelines/{id}/events/{eventId}
func (h *AdminHandler) DetachTimelineEvent(w http.ResponseWriter, r *http.Request) {
	timelineID, eventID, ok := h.pathPair(w, r, "id", "eventId")
	if !ok {
		return
	}
	h.noContent(w, r, h.editorial.DetachTimelineEvent(r.Context(), timelineID, eventID))
}

func (h *AdminHandler) timelineEvent(w http.ResponseWriter, r *http.Request, fn func(context.Context, editorial.TimelineEventInput) error) {
	timelineID, eventID, ok := h.pathPair(w, r, "id", "eventId")
	if !ok {
		return
	}

	var req timelineEventRequest
	if err := decodeJSON(w, r, &req); err != nil {
		handleError(w, r, h.log, err)
		return
	}

	err := fn(r.Context(), editorial.TimelineEventInput{
		TimelineID: timelineID,
		EventID:    eventID,
		SequenceNo: req.SequenceNo,
	})
	h.noContent(w, r, err)
}

// pathPair parses two UUID path parameters, collecting both failures.
func (h *AdminHandler) pathPair(w http.ResponseWriter, r *http.Request, first, second string) (uuid.UUID, uuid.UUID, bool) {
	var errs []domain.FieldError

	a, err := uuid.Parse(r.PathValue(first))
	if err != nil {
		errs = append(errs, domain.FieldError{Field: first, Message: "must be a UUID"})
	}
	b, err := uuid.Parse(r.PathValue(second))
	if err != nil {
		errs = append(errs, domain.FieldError{Field: second, Message: "must be a UUID"})
	}

	if len(errs) > 0 {
		handleError(w, r, h.log, domain.NewValidationErrors(errs))
		return uuid.Nil, uuid.Nil, false
	}
	return a, b, true
}

func (h *AdminHandler) noContent(w http.ResponseWriter, r *http.Request, err error) {
	if err != nil {
		handleError(w, r, h.log, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
