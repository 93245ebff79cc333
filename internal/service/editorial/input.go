package editorial

import (
	"net/url"
	"strings"

	"github.com/google/uuid"

	"github.com/heartmarshall/finhistory-backend/internal/domain"
)

const (
	maxTitleLen   = 300
	maxSlugLen    = 200
	maxSummaryLen = 5000
	maxNameLen    = 300
)

// CreateEventInput holds the parameters for creating an event.
// Slug defaults to the slugified title; Status defaults to draft.
type CreateEventInput struct {
	Slug       string
	Title      string
	Date       string
	Region     string
	Category   string
	Summary    string
	Impact     string
	Importance int
	Confidence int
	Status     domain.EventStatus
}

// Validate checks all fields and collects all errors.
func (i CreateEventInput) Validate() error {
	var errs []domain.FieldError

	title := strings.TrimSpace(i.Title)
	if title == "" {
		errs = append(errs, domain.FieldError{Field: "title", Message: "required"})
	}
	if len(title) > maxTitleLen {
		errs = append(errs, domain.FieldError{Field: "title", Message: "max 300 characters"})
	}
	if len(strings.TrimSpace(i.Slug)) > maxSlugLen {
		errs = append(errs, domain.FieldError{Field: "slug", Message: "max 200 characters"})
	}
	if _, err := domain.ParseDate(strings.TrimSpace(i.Date)); err != nil {
		errs = append(errs, domain.FieldError{Field: "date", Message: "must be YYYY-MM-DD"})
	}
	if len(i.Summary) > maxSummaryLen {
		errs = append(errs, domain.FieldError{Field: "summary", Message: "max 5000 characters"})
	}
	if len(i.Impact) > maxSummaryLen {
		errs = append(errs, domain.FieldError{Field: "impact", Message: "max 5000 characters"})
	}
	errs = appendScore(errs, "importance", i.Importance, true)
	errs = appendScore(errs, "confidence", i.Confidence, true)
	if i.Status != "" && !i.Status.IsValid() {
		errs = append(errs, domain.FieldError{Field: "status", Message: "must be one of draft, review, published, archived"})
	}

	if len(errs) > 0 {
		return &domain.ValidationError{Errors: errs}
	}
	return nil
}

// UpdateEventInput holds a partial event update. nil fields are unchanged.
type UpdateEventInput struct {
	EventID    uuid.UUID
	Title      *string
	Date       *string
	Region     *string
	Category   *string
	Summary    *string
	Impact     *string
	Importance *int
	Confidence *int
}

// Validate checks all fields and collects all errors.
func (i UpdateEventInput) Validate() error {
	var errs []domain.FieldError

	if i.EventID == uuid.Nil {
		errs = append(errs, domain.FieldError{Field: "id", Message: "required"})
	}
	if i.Title == nil && i.Date == nil && i.Region == nil && i.Category == nil &&
		i.Summary == nil && i.Impact == nil && i.Importance == nil && i.Confidence == nil {
		errs = append(errs, domain.FieldError{Field: "input", Message: "at least one field must be provided"})
	}
	if i.Title != nil {
		title := strings.TrimSpace(*i.Title)
		if title == "" {
			errs = append(errs, domain.FieldError{Field: "title", Message: "required"})
		}
		if len(title) > maxTitleLen {
			errs = append(errs, domain.FieldError{Field: "title", Message: "max 300 characters"})
		}
	}
	if i.Date != nil {
		if _, err := domain.ParseDate(strings.TrimSpace(*i.Date)); err != nil {
			errs = append(errs, domain.FieldError{Field: "date", Message: "must be YYYY-MM-DD"})
		}
	}
	if i.Summary != nil && len(*i.Summary) > maxSummaryLen {
		errs = append(errs, domain.FieldError{Field: "summary", Message: "max 5000 characters"})
	}
	if i.Impact != nil && len(*i.Impact) > maxSummaryLen {
		errs = append(errs, domain.FieldError{Field: "impact", Message: "max 5000 characters"})
	}
	if i.Importance != nil {
		errs = appendScore(errs, "importance", *i.Importance, false)
	}
	if i.Confidence != nil {
		errs = appendScore(errs, "confidence", *i.Confidence, false)
	}

	if len(errs) > 0 {
		return &domain.ValidationError{Errors: errs}
	}
	return nil
}

// CreateSourceInput holds the parameters for creating a source.
type CreateSourceInput struct {
	Name            string
	URL             string
	Type            domain.SourceType
	Publisher       *string
	PublishedDate   *string
	AccessedDate    *string
	Rights          *string
	ReliabilityNote *string
}

// Validate checks all fields and collects all errors.
func (i CreateSourceInput) Validate() error {
	var errs []domain.FieldError

	name := strings.TrimSpace(i.Name)
	if name == "" {
		errs = append(errs, domain.FieldError{Field: "name", Message: "required"})
	}
	if len(name) > maxNameLen {
		errs = append(errs, domain.FieldError{Field: "name", Message: "max 300 characters"})
	}
	if u, err := url.Parse(strings.TrimSpace(i.URL)); err != nil || u.Scheme == "" || u.Host == "" {
		errs = append(errs, domain.FieldError{Field: "url", Message: "must be an absolute URL"})
	}
	if i.Type != "" && !i.Type.IsValid() {
		errs = append(errs, domain.FieldError{Field: "type", Message: "must be one of archive, official, news, research, dataset, other"})
	}
	if i.PublishedDate != nil {
		if _, err := domain.ParseDate(*i.PublishedDate); err != nil {
			errs = append(errs, domain.FieldError{Field: "publishedDate", Message: "must be YYYY-MM-DD"})
		}
	}
	if i.AccessedDate != nil {
		if _, err := domain.ParseDate(*i.AccessedDate); err != nil {
			errs = append(errs, domain.FieldError{Field: "accessedDate", Message: "must be YYYY-MM-DD"})
		}
	}

	if len(errs) > 0 {
		return &domain.ValidationError{Errors: errs}
	}
	return nil
}

// CreateTagInput holds the parameters for creating a tag.
// Slug defaults to the slugified name.
type CreateTagInput struct {
	Slug string
	Name string
}

// Validate checks all fields and collects all errors.
func (i CreateTagInput) Validate() error {
	var errs []domain.FieldError

	name := strings.TrimSpace(i.Name)
	if name == "" {
		errs = append(errs, domain.FieldError{Field: "name", Message: "required"})
	}
	if len(name) > 100 {
		errs = append(errs, domain.FieldError{Field: "name", Message: "max 100 characters"})
	}

	if len(errs) > 0 {
		return &domain.ValidationError{Errors: errs}
	}
	return nil
}

// CreateTimelineInput holds the parameters for creating a timeline.
type CreateTimelineInput struct {
	Slug        string
	Title       string
	Description *string
}

// Validate checks all fields and collects all errors.
func (i CreateTimelineInput) Validate() error {
	var errs []domain.FieldError

	title := strings.TrimSpace(i.Title)
	if title == "" {
		errs = append(errs, domain.FieldError{Field: "title", Message: "required"})
	}
	if len(title) > maxTitleLen {
		errs = append(errs, domain.FieldError{Field: "title", Message: "max 300 characters"})
	}
	if i.Description != nil && len(*i.Description) > maxSummaryLen {
		errs = append(errs, domain.FieldError{Field: "description", Message: "max 5000 characters"})
	}

	if len(errs) > 0 {
		return &domain.ValidationError{Errors: errs}
	}
	return nil
}

// AttachSourceInput links a source to an event. RelevanceRank 0 means the
// default rank.
type AttachSourceInput struct {
	EventID       uuid.UUID
	SourceID      uuid.UUID
	RelevanceRank int
	Quote         *string
	Citation      *string
}

// Validate checks all fields and collects all errors.
func (i AttachSourceInput) Validate() error {
	var errs []domain.FieldError

	if i.EventID == uuid.Nil {
		errs = append(errs, domain.FieldError{Field: "eventId", Message: "required"})
	}
	if i.SourceID == uuid.Nil {
		errs = append(errs, domain.FieldError{Field: "sourceId", Message: "required"})
	}
	if i.RelevanceRank != 0 && (i.RelevanceRank < domain.MinRelevanceRank || i.RelevanceRank > domain.MaxRelevanceRank) {
		errs = append(errs, domain.FieldError{Field: "relevanceRank", Message: "must be between 1 and 10"})
	}

	if len(errs) > 0 {
		return &domain.ValidationError{Errors: errs}
	}
	return nil
}

// TimelineEventInput places an event in a timeline.
type TimelineEventInput struct {
	TimelineID uuid.UUID
	EventID    uuid.UUID
	SequenceNo int
}

// Validate checks all fields and collects all errors.
func (i TimelineEventInput) Validate() error {
	var errs []domain.FieldError

	if i.TimelineID == uuid.Nil {
		errs = append(errs, domain.FieldError{Field: "timelineId", Message: "required"})
	}
	if i.EventID == uuid.Nil {
		errs = append(errs, domain.FieldError{Field: "eventId", Message: "required"})
	}
	if i.SequenceNo < 1 {
		errs = append(errs, domain.FieldError{Field: "sequenceNo", Message: "must be a positive integer"})
	}

	if len(errs) > 0 {
		return &domain.ValidationError{Errors: errs}
	}
	return nil
}

// appendScore validates a 1..5 score. With optional set, 0 means "use the default".
func appendScore(errs []domain.FieldError, field string, v int, optional bool) []domain.FieldError {
	if optional && v == 0 {
		return errs
	}
	if v < domain.MinScore || v > domain.MaxScore {
		errs = append(errs, domain.FieldError{Field: field, Message: "must be between 1 and 5"})
	}
	return errs
}
