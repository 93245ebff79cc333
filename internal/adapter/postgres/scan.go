package postgres

import (
	"fmt"
	"strings"
	"time"

	"github.com/heartmarshall/finhistory-backend/internal/domain"
)

// Scanner is satisfied by pgx.Row and pgx.Rows.
type Scanner interface {
	Scan(dest ...any) error
}

// EventColumns lists the events columns read by ScanEvent, qualified by alias.
func EventColumns(alias string) string {
	return qualify(alias, "id", "slug", "title", "event_date", "region", "category", "summary",
		"impact", "importance", "confidence", "status", "published_at", "created_at", "updated_at")
}

// SourceColumns lists the sources columns read by ScanSource, qualified by alias.
func SourceColumns(alias string) string {
	return qualify(alias, "id", "name", "url", "source_type", "publisher", "published_date",
		"accessed_date", "rights", "reliability_note", "created_at", "updated_at")
}

// TimelineColumns lists the timelines columns read by ScanTimeline.
func TimelineColumns(alias string) string {
	return qualify(alias, "id", "slug", "title", "description", "created_at", "updated_at")
}

func qualify(alias string, cols ...string) string {
	if alias == "" {
		return strings.Join(cols, ", ")
	}
	out := make([]string, len(cols))
	for i, c := range cols {
		out[i] = alias + "." + c
	}
	return strings.Join(out, ", ")
}

// ScanEvent scans EventColumns followed by any extra destinations.
func ScanEvent(row Scanner, extra ...any) (domain.Event, error) {
	var (
		e      domain.Event
		status string
	)
	dest := append([]any{
		&e.ID, &e.Slug, &e.Title, &e.Date, &e.Region, &e.Category, &e.Summary,
		&e.Impact, &e.Importance, &e.Confidence, &status, &e.PublishedAt, &e.CreatedAt, &e.UpdatedAt,
	}, extra...)
	if err := row.Scan(dest...); err != nil {
		return domain.Event{}, err
	}
	e.Status = domain.EventStatus(status)
	e.Date = civilDate(e.Date)
	return e, nil
}

// ScanSource scans SourceColumns followed by any extra destinations.
func ScanSource(row Scanner, extra ...any) (domain.Source, error) {
	var (
		s   domain.Source
		typ string
	)
	dest := append([]any{
		&s.ID, &s.Name, &s.URL, &typ, &s.Publisher, &s.PublishedDate,
		&s.AccessedDate, &s.Rights, &s.ReliabilityNote, &s.CreatedAt, &s.UpdatedAt,
	}, extra...)
	if err := row.Scan(dest...); err != nil {
		return domain.Source{}, err
	}
	s.Type = domain.SourceType(typ)
	if s.PublishedDate != nil {
		d := civilDate(*s.PublishedDate)
		s.PublishedDate = &d
	}
	if s.AccessedDate != nil {
		d := civilDate(*s.AccessedDate)
		s.AccessedDate = &d
	}
	return s, nil
}

// ScanTimeline scans TimelineColumns followed by any extra destinations.
func ScanTimeline(row Scanner, extra ...any) (domain.Timeline, error) {
	var tl domain.Timeline
	dest := append([]any{
		&tl.ID, &tl.Slug, &tl.Title, &tl.Description, &tl.CreatedAt, &tl.UpdatedAt,
	}, extra...)
	if err := row.Scan(dest...); err != nil {
		return domain.Timeline{}, err
	}
	return tl, nil
}

// CollectRows scans every row with scan and closes rows.
func CollectRows[T any](rows interface {
	Scanner
	Next() bool
	Err() error
	Close()
}, scan func(Scanner) (T, error)) ([]T, error) {
	defer rows.Close()

	out := []T{}
	for rows.Next() {
		item, err := scan(rows)
		if err != nil {
			return nil, fmt.Errorf("scan: %w", err)
		}
		out = append(out, item)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// civilDate normalizes a DATE value to midnight UTC.
func civilDate(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// EscapeLike escapes LIKE wildcards so s matches literally.
func EscapeLike(s string) string {
	return strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(s)
}
