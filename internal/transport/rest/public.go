package rest

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/heartmarshall/finhistory-backend/internal/domain"
	"github.com/heartmarshall/finhistory-backend/internal/service/catalog"
)

type catalogService interface {
	ListEvents(ctx context.Context, filter domain.EventFilter) (domain.EventPage, error)
	GetEvent(ctx context.Context, slug string) (*domain.EventDetail, error)
	EventsOnThisDay(ctx context.Context, input catalog.OnThisDayInput) ([]domain.Event, error)
	ListTimelines(ctx context.Context) ([]domain.TimelineSummary, error)
	ListTags(ctx context.Context) ([]domain.Tag, error)
	GetTimeline(ctx context.Context, slug string) (*domain.TimelineDetail, error)
	GetSource(ctx context.Context, id uuid.UUID) (*domain.SourceDetail, error)
}

// PublicHandler serves the public read API.
type PublicHandler struct {
	catalog catalogService
	log     *slog.Logger
	now     func() time.Time
}

// NewPublicHandler creates a PublicHandler.
func NewPublicHandler(catalog catalogService, logger *slog.Logger) *PublicHandler {
	return &PublicHandler{
		catalog: catalog,
		log:     logger.With("handler", "public"),
		now:     time.Now,
	}
}

// ListEvents returns a filtered page of published events.
// GET /api/events?date=&from=&to=&category=&region=&tag=&minImportance=&q=&page=&pageSize=&sort=
func (h *PublicHandler) ListEvents(w http.ResponseWriter, r *http.Request) {
	p := &queryParser{r: r}
	filter := domain.EventFilter{
		Date:          p.date("date"),
		From:          p.date("from"),
		To:            p.date("to"),
		Category:      p.str("category"),
		Region:        p.str("region"),
		Tag:           p.str("tag"),
		MinImportance: p.int("minImportance", 0),
		Query:         p.str("q"),
		Page:          p.int("page", 1),
		PageSize:      p.int("pageSize", domain.DefaultPageSize),
		Sort:          domain.EventSort(p.str("sort")),
	}
	if err := p.err(); err != nil {
		handleError(w, r, h.log, err)
		return
	}

	page, err := h.catalog.ListEvents(r.Context(), filter)
	if err != nil {
		handleError(w, r, h.log, err)
		return
	}
	writeData(w, http.StatusOK, toEventPageDTO(page))
}

// GetEvent returns a published event with its sources, tags and timelines.
// GET /api/events/{slug}
func (h *PublicHandler) GetEvent(w http.ResponseWriter, r *http.Request) {
	detail, err := h.catalog.GetEvent(r.Context(), r.PathValue("slug"))
	if err != nil {
		handleError(w, r, h.log, err)
		return
	}
	writeData(w, http.StatusOK, toEventDetailDTO(detail))
}

// OnThisDay returns published events of any year on a month and day,
// today in UTC when either is omitted.
// GET /api/events/on-this-day?month=&day=
func (h *PublicHandler) OnThisDay(w http.ResponseWriter, r *http.Request) {
	today := h.now().UTC()

	p := &queryParser{r: r}
	month := p.int("month", int(today.Month()))
	day := p.int("day", today.Day())
	if err := p.err(); err != nil {
		handleError(w, r, h.log, err)
		return
	}

	events, err := h.catalog.EventsOnThisDay(r.Context(), catalog.OnThisDayInput{Month: time.Month(month), Day: day})
	if err != nil {
		handleError(w, r, h.log, err)
		return
	}
	writeData(w, http.StatusOK, toEventDTOs(events))
}

// ListTimelines returns all timelines with their published-event aggregates.
// GET /api/timelines
func (h *PublicHandler) ListTimelines(w http.ResponseWriter, r *http.Request) {
	timelines, err := h.catalog.ListTimelines(r.Context())
	if err != nil {
		handleError(w, r, h.log, err)
		return
	}
	writeData(w, http.StatusOK, toTimelineSummaryDTOs(timelines))
}

// GetTimeline returns a timeline with its ordered published events.
// GET /api/timelines/{slug}
func (h *PublicHandler) GetTimeline(w http.ResponseWriter, r *http.Request) {
	detail, err := h.catalog.GetTimeline(r.Context(), r.PathValue("slug"))
	if err != nil {
		handleError(w, r, h.log, err)
		return
	}
	writeData(w, http.StatusOK, toTimelineDetailDTO(detail))
}

// ListTags returns all tags ordered by slug.
// GET /api/tags
func (h *PublicHandler) ListTags(w http.ResponseWriter, r *http.Request) {
	tags, err := h.catalog.ListTags(r.Context())
	if err != nil {
		handleError(w, r, h.log, err)
		return
	}

	out := make([]tagDTO, len(tags))
	for i, t := range tags {
		out[i] = toTagDTO(t)
	}
	writeData(w, http.StatusOK, out)
}

// GetSource returns a source with the published events citing it.
// GET /api/sources/{id}
func (h *PublicHandler) GetSource(w http.ResponseWriter, r *http.Request) {
	id, err := pathUUID(r, "id")
	if err != nil {
		handleError(w, r, h.log, err)
		return
	}

	detail, err := h.catalog.GetSource(r.Context(), id)
	if err != nil {
		handleError(w, r, h.log, err)
		return
	}
	writeData(w, http.StatusOK, toSourceDetailDTO(detail))
}
