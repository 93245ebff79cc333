package rest

import (
	"time"

	"github.com/heartmarshall/finhistory-backend/internal/domain"
	"github.com/heartmarshall/finhistory-backend/internal/service/ingest"
)

// ---------------------------------------------------------------------------
// Events
// ---------------------------------------------------------------------------

type eventDTO struct {
	ID          string     `json:"id"`
	Slug        string     `json:"slug"`
	Title       string     `json:"title"`
	Date        string     `json:"date"`
	Region      string     `json:"region"`
	Category    string     `json:"category"`
	Summary     string     `json:"summary"`
	Impact      string     `json:"impact"`
	Importance  int        `json:"importance"`
	Confidence  int        `json:"confidence"`
	Status      string     `json:"status"`
	PublishedAt *time.Time `json:"publishedAt,omitempty"`
}

func toEventDTO(e domain.Event) eventDTO {
	return eventDTO{
		ID:          e.ID.String(),
		Slug:        e.Slug,
		Title:       e.Title,
		Date:        e.Date.Format(domain.DateLayout),
		Region:      e.Region,
		Category:    e.Category,
		Summary:     e.Summary,
		Impact:      e.Impact,
		Importance:  e.Importance,
		Confidence:  e.Confidence,
		Status:      e.Status.String(),
		PublishedAt: e.PublishedAt,
	}
}

func toEventDTOs(events []domain.Event) []eventDTO {
	out := make([]eventDTO, len(events))
	for i, e := range events {
		out[i] = toEventDTO(e)
	}
	return out
}

type pageMetaDTO struct {
	Total      int `json:"total"`
	Page       int `json:"page"`
	PageSize   int `json:"pageSize"`
	TotalPages int `json:"totalPages"`
}

type eventPageDTO struct {
	Items []eventDTO  `json:"items"`
	Meta  pageMetaDTO `json:"meta"`
}

func toEventPageDTO(p domain.EventPage) eventPageDTO {
	return eventPageDTO{
		Items: toEventDTOs(p.Items),
		Meta:  pageMetaDTO{Total: p.Total, Page: p.Page, PageSize: p.PageSize, TotalPages: p.TotalPages},
	}
}

type linkedSourceDTO struct {
	sourceDTO
	RelevanceRank int     `json:"relevanceRank"`
	Quote         *string `json:"quote,omitempty"`
	Citation      *string `json:"citation,omitempty"`
}

type tagDTO struct {
	ID   string `json:"id"`
	Slug string `json:"slug"`
	Name string `json:"name"`
}

func toTagDTO(t domain.Tag) tagDTO {
	return tagDTO{ID: t.ID.String(), Slug: t.Slug, Name: t.Name}
}

type membershipDTO struct {
	TimelineID string `json:"timelineId"`
	Slug       string `json:"slug"`
	Title      string `json:"title"`
	SequenceNo int    `json:"sequenceNo"`
}

type eventDetailDTO struct {
	eventDTO
	Sources   []linkedSourceDTO `json:"sources"`
	Tags      []tagDTO          `json:"tags"`
	Timelines []membershipDTO   `json:"timelines"`
}

func toEventDetailDTO(d *domain.EventDetail) eventDetailDTO {
	out := eventDetailDTO{
		eventDTO:  toEventDTO(d.Event),
		Sources:   make([]linkedSourceDTO, len(d.Sources)),
		Tags:      make([]tagDTO, len(d.Tags)),
		Timelines: make([]membershipDTO, len(d.Timelines)),
	}
	for i, s := range d.Sources {
		out.Sources[i] = linkedSourceDTO{
			sourceDTO:     toSourceDTO(s.Source),
			RelevanceRank: s.RelevanceRank,
			Quote:         s.Quote,
			Citation:      s.Citation,
		}
	}
	for i, t := range d.Tags {
		out.Tags[i] = toTagDTO(t)
	}
	for i, m := range d.Timelines {
		out.Timelines[i] = membershipDTO{
			TimelineID: m.TimelineID.String(),
			Slug:       m.Slug,
			Title:      m.Title,
			SequenceNo: m.SequenceNo,
		}
	}
	return out
}

// ---------------------------------------------------------------------------
// Sources
// ---------------------------------------------------------------------------

type sourceDTO struct {
	ID              string  `json:"id"`
	Name            string  `json:"name"`
	URL             string  `json:"url"`
	Type            string  `json:"type"`
	Publisher       *string `json:"publisher,omitempty"`
	PublishedDate   *string `json:"publishedDate,omitempty"`
	AccessedDate    *string `json:"accessedDate,omitempty"`
	Rights          *string `json:"rights,omitempty"`
	ReliabilityNote *string `json:"reliabilityNote,omitempty"`
}

func toSourceDTO(s domain.Source) sourceDTO {
	return sourceDTO{
		ID:              s.ID.String(),
		Name:            s.Name,
		URL:             s.URL,
		Type:            string(s.Type),
		Publisher:       s.Publisher,
		PublishedDate:   formatDate(s.PublishedDate),
		AccessedDate:    formatDate(s.AccessedDate),
		Rights:          s.Rights,
		ReliabilityNote: s.ReliabilityNote,
	}
}

type linkedEventDTO struct {
	eventDTO
	RelevanceRank int     `json:"relevanceRank"`
	Quote         *string `json:"quote,omitempty"`
	Citation      *string `json:"citation,omitempty"`
}

type sourceDetailDTO struct {
	sourceDTO
	Events []linkedEventDTO `json:"events"`
}

func toSourceDetailDTO(d *domain.SourceDetail) sourceDetailDTO {
	out := sourceDetailDTO{sourceDTO: toSourceDTO(d.Source), Events: make([]linkedEventDTO, len(d.Events))}
	for i, e := range d.Events {
		out.Events[i] = linkedEventDTO{
			eventDTO:      toEventDTO(e.Event),
			RelevanceRank: e.RelevanceRank,
			Quote:         e.Quote,
			Citation:      e.Citation,
		}
	}
	return out
}

// ---------------------------------------------------------------------------
// Timelines
// ---------------------------------------------------------------------------

type timelineDTO struct {
	ID          string  `json:"id"`
	Slug        string  `json:"slug"`
	Title       string  `json:"title"`
	Description *string `json:"description,omitempty"`
}

func toTimelineDTO(t domain.Timeline) timelineDTO {
	return timelineDTO{ID: t.ID.String(), Slug: t.Slug, Title: t.Title, Description: t.Description}
}

type timelineSummaryDTO struct {
	timelineDTO
	EventCount int     `json:"eventCount"`
	FirstDate  *string `json:"firstDate"`
	LastDate   *string `json:"lastDate"`
}

func toTimelineSummaryDTOs(list []domain.TimelineSummary) []timelineSummaryDTO {
	out := make([]timelineSummaryDTO, len(list))
	for i, t := range list {
		out[i] = timelineSummaryDTO{
			timelineDTO: toTimelineDTO(t.Timeline),
			EventCount:  t.EventCount,
			FirstDate:   formatDate(t.FirstDate),
			LastDate:    formatDate(t.LastDate),
		}
	}
	return out
}

type sequencedEventDTO struct {
	eventDTO
	SequenceNo int `json:"sequenceNo"`
}

type timelineDetailDTO struct {
	timelineDTO
	Events []sequencedEventDTO `json:"events"`
}

func toTimelineDetailDTO(d *domain.TimelineDetail) timelineDetailDTO {
	out := timelineDetailDTO{timelineDTO: toTimelineDTO(d.Timeline), Events: make([]sequencedEventDTO, len(d.Events))}
	for i, e := range d.Events {
		out.Events[i] = sequencedEventDTO{eventDTO: toEventDTO(e.Event), SequenceNo: e.SequenceNo}
	}
	return out
}

// ---------------------------------------------------------------------------
// Ingestion
// ---------------------------------------------------------------------------

type importResultDTO struct {
	Mode            string   `json:"mode"`
	SourcesUpserted int      `json:"sourcesUpserted"`
	EventsUpserted  int      `json:"eventsUpserted"`
	LinksUpserted   int      `json:"linksUpserted"`
	Skipped         []string `json:"skipped"`
	Error           string   `json:"error,omitempty"`
}

func toImportResultDTO(r *ingest.ImportResult) importResultDTO {
	skipped := r.Skipped
	if skipped == nil {
		skipped = []string{}
	}
	return importResultDTO{
		Mode:            string(r.Mode),
		SourcesUpserted: r.SourcesUpserted,
		EventsUpserted:  r.EventsUpserted,
		LinksUpserted:   r.LinksUpserted,
		Skipped:         skipped,
		Error:           r.Error,
	}
}

type jobDTO struct {
	ID               string         `json:"id"`
	SourceName       string         `json:"sourceName"`
	Status           string         `json:"status"`
	TotalRecords     int            `json:"totalRecords"`
	ProcessedRecords int            `json:"processedRecords"`
	FailedRecords    int            `json:"failedRecords"`
	Metadata         map[string]any `json:"metadata"`
	ErrorMessage     *string        `json:"errorMessage,omitempty"`
	StartedAt        *time.Time     `json:"startedAt,omitempty"`
	FinishedAt       *time.Time     `json:"finishedAt,omitempty"`
	CreatedAt        time.Time      `json:"createdAt"`
	UpdatedAt        time.Time      `json:"updatedAt"`
}

func toJobDTO(j *domain.IngestionJob) jobDTO {
	metadata := j.Metadata
	if metadata == nil {
		metadata = map[string]any{}
	}
	return jobDTO{
		ID:               j.ID.String(),
		SourceName:       j.SourceName,
		Status:           j.Status.String(),
		TotalRecords:     j.TotalRecords,
		ProcessedRecords: j.ProcessedRecords,
		FailedRecords:    j.FailedRecords,
		Metadata:         metadata,
		ErrorMessage:     j.ErrorMessage,
		StartedAt:        j.StartedAt,
		FinishedAt:       j.FinishedAt,
		CreatedAt:        j.CreatedAt,
		UpdatedAt:        j.UpdatedAt,
	}
}

func formatDate(t *time.Time) *string {
	if t == nil {
		return nil
	}
	s := t.Format(domain.DateLayout)
	return &s
}
