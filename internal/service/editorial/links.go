package editorial

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/heartmarshall/finhistory-backend/internal/demo"
	"github.com/heartmarshall/finhistory-backend/internal/domain"
)

// AttachSource links a source to an event. Re-attaching updates the rank
// and citation fields of the existing link.
func (s *Service) AttachSource(ctx context.Context, input AttachSourceInput) error {
	if err := input.Validate(); err != nil {
		return err
	}

	rank := input.RelevanceRank
	if rank == 0 {
		rank = demo.DefaultRelevanceRank
	}

	err := s.write(ctx, "attach source", func(ctx context.Context) error {
		return s.events.AttachSource(ctx, domain.EventSource{
			EventID:       input.EventID,
			SourceID:      input.SourceID,
			RelevanceRank: rank,
			Quote:         nonEmpty(input.Quote),
			Citation:      nonEmpty(input.Citation),
		})
	})
	if err != nil {
		return err
	}

	s.log.InfoContext(ctx, "source attached",
		slog.String("event_id", input.EventID.String()),
		slog.String("source_id", input.SourceID.String()),
		slog.Int("rank", rank),
	)
	return nil
}

// DetachSource removes an event-source link.
func (s *Service) DetachSource(ctx context.Context, eventID, sourceID uuid.UUID) error {
	if err := requireIDs("eventId", eventID, "sourceId", sourceID); err != nil {
		return err
	}
	return s.write(ctx, "detach source", func(ctx context.Context) error {
		return s.events.DetachSource(ctx, eventID, sourceID)
	})
}

// AttachTag tags an event. Attaching an existing tag is a no-op.
func (s *Service) AttachTag(ctx context.Context, eventID, tagID uuid.UUID) error {
	if err := requireIDs("eventId", eventID, "tagId", tagID); err != nil {
		return err
	}
	return s.write(ctx, "attach tag", func(ctx context.Context) error {
		return s.events.AttachTag(ctx, eventID, tagID)
	})
}

// DetachTag untags an event.
func (s *Service) DetachTag(ctx context.Context, eventID, tagID uuid.UUID) error {
	if err := requireIDs("eventId", eventID, "tagId", tagID); err != nil {
		return err
	}
	return s.write(ctx, "detach tag", func(ctx context.Context) error {
		return s.events.DetachTag(ctx, eventID, tagID)
	})
}

// AttachTimelineEvent places an event in a timeline. A sequence number
// already used in the timeline yields domain.ErrConflict.
func (s *Service) AttachTimelineEvent(ctx context.Context, input TimelineEventInput) error {
	if err := input.Validate(); err != nil {
		return err
	}
	return s.write(ctx, "attach timeline event", func(ctx context.Context) error {
		return s.timelines.AttachEvent(ctx, domain.TimelineEvent(input))
	})
}

// UpdateTimelineEvent moves an event to another sequence number.
func (s *Service) UpdateTimelineEvent(ctx context.Context, input TimelineEventInput) error {
	if err := input.Validate(); err != nil {
		return err
	}
	return s.write(ctx, "update timeline event", func(ctx context.Context) error {
		return s.timelines.UpdateEvent(ctx, domain.TimelineEvent(input))
	})
}

// DetachTimelineEvent removes an event from a timeline.
func (s *Service) DetachTimelineEvent(ctx context.Context, timelineID, eventID uuid.UUID) error {
	if err := requireIDs("timelineId", timelineID, "eventId", eventID); err != nil {
		return err
	}
	return s.write(ctx, "detach timeline event", func(ctx context.Context) error {
		return s.timelines.DetachEvent(ctx, timelineID, eventID)
	})
}

func requireIDs(fieldA string, a uuid.UUID, fieldB string, b uuid.UUID) error {
	var errs []domain.FieldError
	if a == uuid.Nil {
		errs = append(errs, domain.FieldError{Field: fieldA, Message: "required"})
	}
	if b == uuid.Nil {
		errs = append(errs, domain.FieldError{Field: fieldB, Message: "required"})
	}
	if len(errs) > 0 {
		return domain.NewValidationErrors(errs)
	}
	return nil
}

// nonEmpty trims s and returns nil when nothing is left.
func nonEmpty(s *string) *string {
	if s == nil {
		return nil
	}
	trimmed := trimPtr(s)
	if *trimmed == "" {
		return nil
	}
	return trimmed
}

// parseDatePtr parses an already validated optional date.
func parseDatePtr(s *string) *time.Time {
	if s == nil {
		return nil
	}
	d, err := domain.ParseDate(*s)
	if err != nil {
		return nil
	}
	return &d
}
