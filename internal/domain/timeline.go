package domain

import (
	"time"

	"github.com/google/uuid"
)

// Timeline is a curated named sequence of events.
type Timeline struct {
	ID          uuid.UUID
	Slug        string
	Title       string
	Description *string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// TimelineEvent places an event in a timeline. SequenceNo is unique per timeline.
type TimelineEvent struct {
	TimelineID uuid.UUID
	EventID    uuid.UUID
	SequenceNo int
}
