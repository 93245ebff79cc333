package catalog

import (
	"context"
	"strings"
	"time"

	"github.com/heartmarshall/finhistory-backend/internal/demo"
	"github.com/heartmarshall/finhistory-backend/internal/domain"
)

// ListEvents returns one page of published events matching filter.
func (s *Service) ListEvents(ctx context.Context, filter domain.EventFilter) (domain.EventPage, error) {
	if err := filter.Validate(); err != nil {
		return domain.EventPage{}, err
	}
	filter.Normalize()

	return readThrough(ctx, s, "list_events",
		func(ctx context.Context) (domain.EventPage, error) {
			return s.events.List(ctx, filter)
		},
		func(snap *demo.Snapshot) (domain.EventPage, error) {
			return snap.ListEvents(filter)
		},
	)
}

// GetEvent returns a published event by slug with its sources, tags and
// timeline memberships.
func (s *Service) GetEvent(ctx context.Context, slug string) (*domain.EventDetail, error) {
	slug = strings.ToLower(strings.TrimSpace(slug))
	if slug == "" {
		return nil, domain.NewValidationError("slug", "required")
	}

	return readThrough(ctx, s, "get_event",
		func(ctx context.Context) (*domain.EventDetail, error) {
			return s.events.GetPublishedBySlug(ctx, slug)
		},
		func(snap *demo.Snapshot) (*domain.EventDetail, error) {
			return snap.EventBySlug(slug)
		},
	)
}

// EventsOnThisDay returns published events of any year falling on month/day,
// newest first.
func (s *Service) EventsOnThisDay(ctx context.Context, input OnThisDayInput) ([]domain.Event, error) {
	if err := input.Validate(); err != nil {
		return nil, err
	}

	return readThrough(ctx, s, "events_on_this_day",
		func(ctx context.Context) ([]domain.Event, error) {
			return s.events.OnThisDay(ctx, input.Month, input.Day)
		},
		func(snap *demo.Snapshot) ([]domain.Event, error) {
			return snap.EventsOnThisDay(input.Month, input.Day)
		},
	)
}

// OnThisDayInput selects a calendar day across all years.
type OnThisDayInput struct {
	Month time.Month
	Day   int
}

// Validate checks all fields and collects all errors. February 29 is allowed.
func (i OnThisDayInput) Validate() error {
	var errs []domain.FieldError

	if i.Month < time.January || i.Month > time.December {
		errs = append(errs, domain.FieldError{Field: "month", Message: "must be between 1 and 12"})
	} else if i.Day < 1 || i.Day > daysIn(i.Month) {
		errs = append(errs, domain.FieldError{Field: "day", Message: "out of range for month"})
	}

	if len(errs) > 0 {
		return &domain.ValidationError{Errors: errs}
	}
	return nil
}

// daysIn returns the longest length of month across years.
func daysIn(m time.Month) int {
	// 2000 is a leap year.
	return time.Date(2000, m+1, 0, 0, 0, 0, 0, time.UTC).Day()
}
