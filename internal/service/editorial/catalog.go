package editorial

import (
	"context"
	"log/slog"
	"strings"

	"github.com/heartmarshall/finhistory-backend/internal/demo"
	"github.com/heartmarshall/finhistory-backend/internal/domain"
)

// CreateSource creates a source. A duplicate URL yields domain.ErrAlreadyExists.
func (s *Service) CreateSource(ctx context.Context, input CreateSourceInput) (*domain.Source, error) {
	if err := input.Validate(); err != nil {
		return nil, err
	}

	sourceURL := strings.TrimSpace(input.URL)
	typ := input.Type
	if typ == "" {
		typ = domain.SourceTypeOther
	}
	src := &domain.Source{
		ID:              demo.SourceID(sourceURL),
		Name:            domain.NormalizeSpace(input.Name),
		URL:             sourceURL,
		Type:            typ,
		Publisher:       nonEmpty(input.Publisher),
		PublishedDate:   parseDatePtr(input.PublishedDate),
		AccessedDate:    parseDatePtr(input.AccessedDate),
		Rights:          nonEmpty(input.Rights),
		ReliabilityNote: nonEmpty(input.ReliabilityNote),
	}

	var created *domain.Source
	err := s.write(ctx, "create source", func(ctx context.Context) error {
		var err error
		created, err = s.sources.Create(ctx, src)
		return err
	})
	if err != nil {
		return nil, err
	}

	s.log.InfoContext(ctx, "source created",
		slog.String("source_id", created.ID.String()),
		slog.String("url", created.URL),
	)
	return created, nil
}

// CreateTag creates a tag. A duplicate slug yields domain.ErrAlreadyExists.
func (s *Service) CreateTag(ctx context.Context, input CreateTagInput) (*domain.Tag, error) {
	if err := input.Validate(); err != nil {
		return nil, err
	}

	base := input.Slug
	if strings.TrimSpace(base) == "" {
		base = input.Name
	}
	slug := domain.Slugify(base, domain.DefaultTagSlug)

	var created *domain.Tag
	err := s.write(ctx, "create tag", func(ctx context.Context) error {
		var err error
		created, err = s.tags.Create(ctx, &domain.Tag{
			ID:   demo.TagID(slug),
			Slug: slug,
			Name: domain.NormalizeSpace(input.Name),
		})
		return err
	})
	if err != nil {
		return nil, err
	}

	s.log.InfoContext(ctx, "tag created", slog.String("slug", created.Slug))
	return created, nil
}

// CreateTimeline creates an empty timeline.
func (s *Service) CreateTimeline(ctx context.Context, input CreateTimelineInput) (*domain.Timeline, error) {
	if err := input.Validate(); err != nil {
		return nil, err
	}

	base := input.Slug
	if strings.TrimSpace(base) == "" {
		base = input.Title
	}
	slug := domain.Slugify(base, domain.DefaultTimelineSlug)

	var created *domain.Timeline
	err := s.write(ctx, "create timeline", func(ctx context.Context) error {
		var err error
		created, err = s.timelines.Create(ctx, &domain.Timeline{
			ID:          demo.TimelineID(slug),
			Slug:        slug,
			Title:       domain.NormalizeSpace(input.Title),
			Description: nonEmpty(input.Description),
		})
		return err
	})
	if err != nil {
		return nil, err
	}

	s.log.InfoContext(ctx, "timeline created", slog.String("slug", created.Slug))
	return created, nil
}
