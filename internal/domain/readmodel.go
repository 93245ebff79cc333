package domain

import (
	"time"

	"github.com/google/uuid"
)

// LinkedSource is a source as seen from an event, with the link's citation fields.
type LinkedSource struct {
	Source
	RelevanceRank int
	Quote         *string
	Citation      *string
}

// LinkedEvent is an event as seen from a source.
type LinkedEvent struct {
	Event
	RelevanceRank int
	Quote         *string
	Citation      *string
}

// TimelineMembership is a timeline an event belongs to.
type TimelineMembership struct {
	TimelineID uuid.UUID
	Slug       string
	Title      string
	SequenceNo int
}

// EventDetail is a published event with its sources, tags and timelines.
// Sources: relevance rank ascending, then source published date descending.
// Timelines: sequence number ascending.
type EventDetail struct {
	Event
	Sources   []LinkedSource
	Tags      []Tag
	Timelines []TimelineMembership
}

// SequencedEvent is a timeline member.
type SequencedEvent struct {
	Event
	SequenceNo int
}

// TimelineSummary is a timeline with aggregates over its published events.
type TimelineSummary struct {
	Timeline
	EventCount int
	FirstDate  *time.Time
	LastDate   *time.Time
}

// TimelineDetail is a timeline with its ordered published events.
type TimelineDetail struct {
	Timeline
	Events []SequencedEvent
}

// SourceDetail is a source with its linked published events ordered by
// relevance rank descending.
type SourceDetail struct {
	Source
	Events []LinkedEvent
}

// EventPage is one page of a filtered event listing.
type EventPage struct {
	Items      []Event
	Total      int
	Page       int
	PageSize   int
	TotalPages int
}

// NewEventPage computes the page count for total items.
func NewEventPage(items []Event, total, page, pageSize int) EventPage {
	if items == nil {
		items = []Event{}
	}
	totalPages := 0
	if pageSize > 0 {
		totalPages = (total + pageSize - 1) / pageSize
	}
	return EventPage{
		Items:      items,
		Total:      total,
		Page:       page,
		PageSize:   pageSize,
		TotalPages: totalPages,
	}
}
