package domain

import (
	"time"

	"github.com/google/uuid"
)

// DateLayout is the calendar date format used on the wire and in seed files.
const DateLayout = "2006-01-02"

// Event is a dated financial-history event.
type Event struct {
	ID          uuid.UUID
	Slug        string
	Title       string
	Date        time.Time // calendar date at UTC midnight
	Region      string
	Category    string
	Summary     string
	Impact      string
	Importance  int
	Confidence  int
	Status      EventStatus
	PublishedAt *time.Time
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// IsPublished reports whether the event is publicly visible.
func (e Event) IsPublished() bool { return e.Status == EventStatusPublished }

// EventUpdateParams holds a partial event update. nil fields are left unchanged.
type EventUpdateParams struct {
	Title      *string
	Date       *time.Time
	Region     *string
	Category   *string
	Summary    *string
	Impact     *string
	Importance *int
	Confidence *int
}

// ParseDate parses a YYYY-MM-DD calendar date into UTC midnight.
func ParseDate(s string) (time.Time, error) {
	return time.ParseInLocation(DateLayout, s, time.UTC)
}

// Score bounds.
const (
	MinScore         = 1
	MaxScore         = 5
	MinRelevanceRank = 1
	MaxRelevanceRank = 10
)
