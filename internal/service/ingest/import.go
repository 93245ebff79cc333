package ingest

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"github.com/heartmarshall/finhistory-backend/internal/availability"
	"github.com/heartmarshall/finhistory-backend/internal/demo"
	"github.com/heartmarshall/finhistory-backend/internal/domain"
	"github.com/heartmarshall/finhistory-backend/internal/seedmerge"
)

// Mode tells where an import landed.
type Mode string

const (
	ModeLive   Mode = "live"
	ModeMerged Mode = "merged"
	ModeNoop   Mode = "noop"
)

// ImportRequest is a batch in the seed file shape. Target names the file
// the batch came from; the main seed target is a no-op when the live store
// is unavailable.
type ImportRequest struct {
	Target string
	Seed   *demo.Seed
}

// ImportResult reports what an import did. A rolled back live import has
// zero counts and a non-empty Error.
type ImportResult struct {
	Mode            Mode
	SourcesUpserted int
	EventsUpserted  int
	LinksUpserted   int
	Skipped         []string
	Error           string
}

// Failed reports whether the import was rolled back.
func (r *ImportResult) Failed() bool { return r.Error != "" }

// Import loads a batch into the live store, or merges it into the seed
// file when the store is unavailable. Failures inside the live transaction
// are reported in ImportResult.Error rather than returned.
func (s *Service) Import(ctx context.Context, req ImportRequest) (*ImportResult, error) {
	if err := s.validate(req); err != nil {
		return nil, err
	}

	if !s.store.Configured() {
		return s.fallback(ctx, req, availability.SignatureNotConfigured)
	}

	res, err := s.importLive(ctx, req.Seed)
	if err == nil {
		s.finish(ctx, req, res)
		return res, nil
	}

	if ctxErr := ctx.Err(); ctxErr != nil {
		return nil, ctxErr
	}
	if sig := availability.Classify(err); sig != availability.SignatureNone && !domain.IsDataError(err) {
		return s.fallback(ctx, req, sig)
	}

	res = &ImportResult{Mode: ModeLive, Error: err.Error()}
	s.log.ErrorContext(ctx, "import rolled back",
		slog.String("target", req.Target),
		slog.String("error", err.Error()),
	)
	s.metrics.ImportFinished(string(ModeLive), true, 0, 0, 0)
	return res, nil
}

func (s *Service) validate(req ImportRequest) error {
	if req.Seed == nil {
		return domain.NewValidationError("seed", "required")
	}
	if s.opts.MaxRecords > 0 && req.Seed.Len() > s.opts.MaxRecords {
		return domain.NewValidationError("seed", fmt.Sprintf("at most %d records per import", s.opts.MaxRecords))
	}
	return req.Seed.Validate()
}

// importLive upserts the batch in one transaction. Links whose event or
// source is missing after the upserts are skipped, not fatal.
func (s *Service) importLive(ctx context.Context, seed *demo.Seed) (*ImportResult, error) {
	var res *ImportResult
	err := s.tx.RunInTx(ctx, func(ctx context.Context) error {
		res = &ImportResult{Mode: ModeLive}

		for _, rec := range seed.Sources {
			src := rec.ToSource()
			src.ID = demo.SourceID(src.URL)
			if _, err := s.sources.UpsertByURL(ctx, &src); err != nil {
				return fmt.Errorf("upsert source %s: %w", src.URL, err)
			}
			res.SourcesUpserted++
		}

		for _, rec := range seed.Events {
			ev := rec.ToEvent()
			ev.ID = demo.EventID(ev.Slug)
			id, err := s.events.UpsertBySlug(ctx, &ev)
			if err != nil {
				return fmt.Errorf("upsert event %s: %w", ev.Slug, err)
			}
			if err := s.tagCategory(ctx, id, ev.Category); err != nil {
				return fmt.Errorf("tag event %s: %w", ev.Slug, err)
			}
			res.EventsUpserted++
		}

		if len(seed.EventSources) == 0 {
			return nil
		}
		eventIDs, sourceIDs, err := s.resolveLinks(ctx, seed.EventSources)
		if err != nil {
			return err
		}
		for _, rec := range seed.EventSources {
			slug, url := rec.LinkKey()
			eventID, okEvent := eventIDs[slug]
			sourceID, okSource := sourceIDs[url]
			if !okEvent || !okSource {
				res.Skipped = append(res.Skipped, unresolved(slug, url, okEvent, okSource))
				continue
			}
			err := s.events.AttachSource(ctx, domain.EventSource{
				EventID:       eventID,
				SourceID:      sourceID,
				RelevanceRank: rec.Rank(),
				Quote:         trimmed(rec.Quote),
				Citation:      trimmed(rec.Citation),
			})
			if err != nil {
				return fmt.Errorf("link %s -> %s: %w", slug, url, err)
			}
			res.LinksUpserted++
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return res, nil
}

func (s *Service) resolveLinks(ctx context.Context, links []demo.SeedEventSource) (map[string]uuid.UUID, map[string]uuid.UUID, error) {
	slugs := make([]string, 0, len(links))
	urls := make([]string, 0, len(links))
	for _, rec := range links {
		slug, url := rec.LinkKey()
		slugs = append(slugs, slug)
		urls = append(urls, url)
	}

	eventIDs, err := s.events.IDsBySlugs(ctx, slugs)
	if err != nil {
		return nil, nil, fmt.Errorf("resolve event slugs: %w", err)
	}
	sourceIDs, err := s.sources.IDsByURLs(ctx, urls)
	if err != nil {
		return nil, nil, fmt.Errorf("resolve source urls: %w", err)
	}
	return eventIDs, sourceIDs, nil
}

func (s *Service) tagCategory(ctx context.Context, eventID uuid.UUID, category string) error {
	if category == "" {
		return nil
	}
	slug := domain.Slugify(category, domain.DefaultTagSlug)
	tagID, err := s.tags.UpsertBySlug(ctx, &domain.Tag{ID: demo.TagID(slug), Slug: slug, Name: category})
	if err != nil {
		return err
	}
	return s.events.AttachTag(ctx, eventID, tagID)
}

// fallback handles an import while the live store is unavailable.
func (s *Service) fallback(ctx context.Context, req ImportRequest, sig availability.Signature) (*ImportResult, error) {
	s.log.WarnContext(ctx, "live store unavailable for import",
		slog.String("target", req.Target),
		slog.String("signature", sig.String()),
	)

	if s.isMainTarget(req.Target) {
		res := &ImportResult{Mode: ModeNoop}
		s.finish(ctx, req, res)
		return res, nil
	}

	if s.opts.SeedPath == "" {
		return nil, fmt.Errorf("import merge: seed path: %w", domain.ErrNotConfigured)
	}
	stats, err := seedmerge.MergeFile(s.opts.SeedPath, req.Seed)
	if err != nil {
		return nil, fmt.Errorf("import merge: %w", err)
	}

	res := &ImportResult{
		Mode:            ModeMerged,
		SourcesUpserted: stats.SourcesAdded + stats.SourcesUpdated,
		EventsUpserted:  stats.EventsAdded + stats.EventsUpdated,
		LinksUpserted:   stats.LinksAdded + stats.LinksUpdated,
	}
	s.finish(ctx, req, res)
	return res, nil
}

// isMainTarget compares the base name of target with the main seed name.
func (s *Service) isMainTarget(target string) bool {
	target = strings.TrimSpace(target)
	if target == "" || s.opts.MainSeedName == "" {
		return false
	}
	return filepath.Base(target) == s.opts.MainSeedName
}

func (s *Service) finish(ctx context.Context, req ImportRequest, res *ImportResult) {
	s.log.InfoContext(ctx, "import finished",
		slog.String("target", req.Target),
		slog.String("mode", string(res.Mode)),
		slog.Int("sources", res.SourcesUpserted),
		slog.Int("events", res.EventsUpserted),
		slog.Int("links", res.LinksUpserted),
		slog.Int("skipped", len(res.Skipped)),
	)
	s.metrics.ImportFinished(string(res.Mode), false, res.SourcesUpserted, res.EventsUpserted, res.LinksUpserted)
}

func unresolved(slug, url string, okEvent, okSource bool) string {
	var missing []string
	if !okEvent {
		missing = append(missing, "event "+slug)
	}
	if !okSource {
		missing = append(missing, "source "+url)
	}
	return fmt.Sprintf("skipped: unresolved reference %s (link %s -> %s)", strings.Join(missing, ", "), slug, url)
}

func trimmed(s *string) *string {
	if s == nil {
		return nil
	}
	v := strings.TrimSpace(*s)
	if v == "" {
		return nil
	}
	return &v
}
