package domain

import (
	"time"

	"github.com/google/uuid"
)

// Source is a citation source. URL is unique.
type Source struct {
	ID              uuid.UUID
	Name            string
	URL             string
	Type            SourceType
	Publisher       *string
	PublishedDate   *time.Time
	AccessedDate    *time.Time
	Rights          *string
	ReliabilityNote *string
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// EventSource links an event to a source. Unique per (EventID, SourceID).
type EventSource struct {
	EventID       uuid.UUID
	SourceID      uuid.UUID
	RelevanceRank int
	Quote         *string
	Citation      *string
}

// Tag is a category-derived label attached to events.
type Tag struct {
	ID   uuid.UUID
	Slug string
	Name string
}
