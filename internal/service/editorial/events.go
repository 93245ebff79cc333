package editorial

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"

	"github.com/heartmarshall/finhistory-backend/internal/demo"
	"github.com/heartmarshall/finhistory-backend/internal/domain"
)

// transitions lists the statuses reachable from each status. Staying in
// the same status is always allowed.
var transitions = map[domain.EventStatus][]domain.EventStatus{
	domain.EventStatusDraft:     {domain.EventStatusReview, domain.EventStatusPublished, domain.EventStatusArchived},
	domain.EventStatusReview:    {domain.EventStatusDraft, domain.EventStatusPublished, domain.EventStatusArchived},
	domain.EventStatusPublished: {domain.EventStatusArchived},
	domain.EventStatusArchived:  {domain.EventStatusDraft},
}

// CanTransition reports whether an event may move from one status to another.
func CanTransition(from, to domain.EventStatus) bool {
	if from == to {
		return true
	}
	for _, next := range transitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// CreateEvent creates an event under a collision-free slug. An event with a
// category is tagged with the category tag.
func (s *Service) CreateEvent(ctx context.Context, input CreateEventInput) (*domain.Event, error) {
	if err := input.Validate(); err != nil {
		return nil, err
	}

	base := input.Slug
	if strings.TrimSpace(base) == "" {
		base = input.Title
	}
	base = domain.Slugify(base, domain.DefaultEventSlug)

	date, _ := domain.ParseDate(strings.TrimSpace(input.Date))
	status := input.Status
	if status == "" {
		status = domain.EventStatusDraft
	}

	var created *domain.Event
	err := s.write(ctx, "create event", func(ctx context.Context) error {
		taken, err := s.events.SlugCandidates(ctx, base)
		if err != nil {
			return err
		}
		slug := ResolveSlug(base, taken)

		created, err = s.events.Create(ctx, &domain.Event{
			ID:         demo.EventID(slug),
			Slug:       slug,
			Title:      domain.NormalizeSpace(input.Title),
			Date:       date,
			Region:     strings.TrimSpace(input.Region),
			Category:   strings.TrimSpace(input.Category),
			Summary:    strings.TrimSpace(input.Summary),
			Impact:     strings.TrimSpace(input.Impact),
			Importance: scoreOrDefault(input.Importance),
			Confidence: scoreOrDefault(input.Confidence),
			Status:     status,
		})
		if err != nil {
			return err
		}
		return s.tagCategory(ctx, created)
	})
	if err != nil {
		return nil, err
	}

	s.log.InfoContext(ctx, "event created",
		slog.String("event_id", created.ID.String()),
		slog.String("slug", created.Slug),
		slog.String("status", created.Status.String()),
	)
	return created, nil
}

// UpdateEvent applies a partial update. A changed category adds the new
// category tag; existing tags are kept.
func (s *Service) UpdateEvent(ctx context.Context, input UpdateEventInput) (*domain.Event, error) {
	if err := input.Validate(); err != nil {
		return nil, err
	}

	params := domain.EventUpdateParams{
		Region:     trimPtr(input.Region),
		Category:   trimPtr(input.Category),
		Summary:    trimPtr(input.Summary),
		Impact:     trimPtr(input.Impact),
		Importance: input.Importance,
		Confidence: input.Confidence,
	}
	if input.Title != nil {
		title := domain.NormalizeSpace(*input.Title)
		params.Title = &title
	}
	if input.Date != nil {
		date, _ := domain.ParseDate(strings.TrimSpace(*input.Date))
		params.Date = &date
	}

	var updated *domain.Event
	err := s.write(ctx, "update event", func(ctx context.Context) error {
		var err error
		updated, err = s.events.Update(ctx, input.EventID, params)
		if err != nil {
			return err
		}
		if params.Category != nil {
			return s.tagCategory(ctx, updated)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.log.InfoContext(ctx, "event updated", slog.String("event_id", updated.ID.String()))
	return updated, nil
}

// PublishEvent makes an event public. published_at is stamped on the first
// publication only.
func (s *Service) PublishEvent(ctx context.Context, id uuid.UUID) (*domain.Event, error) {
	return s.SetEventStatus(ctx, id, domain.EventStatusPublished)
}

// ArchiveEvent hides an event from public reads.
func (s *Service) ArchiveEvent(ctx context.Context, id uuid.UUID) (*domain.Event, error) {
	return s.SetEventStatus(ctx, id, domain.EventStatusArchived)
}

// SetEventStatus moves an event along the editorial workflow. A transition
// not allowed from the current status yields domain.ErrConflict.
func (s *Service) SetEventStatus(ctx context.Context, id uuid.UUID, status domain.EventStatus) (*domain.Event, error) {
	if id == uuid.Nil {
		return nil, domain.NewValidationError("id", "required")
	}
	if !status.IsValid() {
		return nil, domain.NewValidationError("status", "must be one of draft, review, published, archived")
	}

	var (
		from    domain.EventStatus
		updated *domain.Event
	)
	err := s.write(ctx, "set event status", func(ctx context.Context) error {
		current, err := s.events.GetByID(ctx, id)
		if err != nil {
			return err
		}
		from = current.Status
		if !CanTransition(from, status) {
			return fmt.Errorf("event %s: cannot move from %s to %s: %w", id, from, status, domain.ErrConflict)
		}
		updated, err = s.events.SetStatus(ctx, id, status)
		return err
	})
	if err != nil {
		return nil, err
	}

	s.log.InfoContext(ctx, "event status changed",
		slog.String("event_id", id.String()),
		slog.String("from", from.String()),
		slog.String("to", status.String()),
	)
	return updated, nil
}

// tagCategory upserts the tag derived from the event category and attaches it.
func (s *Service) tagCategory(ctx context.Context, ev *domain.Event) error {
	if ev.Category == "" {
		return nil
	}
	slug := domain.Slugify(ev.Category, domain.DefaultTagSlug)
	tagID, err := s.tags.UpsertBySlug(ctx, &domain.Tag{ID: demo.TagID(slug), Slug: slug, Name: ev.Category})
	if err != nil {
		return err
	}
	return s.events.AttachTag(ctx, ev.ID, tagID)
}

func scoreOrDefault(v int) int {
	if v == 0 {
		return demo.DefaultScore
	}
	return v
}

// trimPtr trims whitespace, keeping nil as nil.
func trimPtr(s *string) *string {
	if s == nil {
		return nil
	}
	trimmed := strings.TrimSpace(*s)
	return &trimmed
}
