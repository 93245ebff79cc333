package event

import (
	"strings"

	sq "github.com/Masterminds/squirrel"

	postgres "github.com/heartmarshall/finhistory-backend/internal/adapter/postgres"
	"github.com/heartmarshall/finhistory-backend/internal/domain"
)

var psql = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

// applyFilter adds the public listing predicates. Only published events
// are ever returned.
func applyFilter(b sq.SelectBuilder, f domain.EventFilter) sq.SelectBuilder {
	b = b.Where(sq.Eq{"e.status": string(domain.EventStatusPublished)})

	if f.Date != nil {
		b = b.Where(sq.Eq{"e.event_date": *f.Date})
	}
	if f.From != nil {
		b = b.Where(sq.GtOrEq{"e.event_date": *f.From})
	}
	if f.To != nil {
		b = b.Where(sq.LtOrEq{"e.event_date": *f.To})
	}
	if f.Category != "" {
		b = b.Where("lower(e.category) = lower(?)", f.Category)
	}
	if f.Region != "" {
		b = b.Where("lower(e.region) = lower(?)", f.Region)
	}
	if f.MinImportance > 0 {
		b = b.Where(sq.GtOrEq{"e.importance": f.MinImportance})
	}
	if f.Tag != "" {
		b = b.Where(`EXISTS (SELECT 1 FROM event_tags et JOIN tags t ON t.id = et.tag_id
			WHERE et.event_id = e.id AND t.slug = ?)`, f.Tag)
	}
	if f.Query != "" {
		p := "%" + postgres.EscapeLike(strings.ToLower(f.Query)) + "%"
		b = b.Where(`(lower(e.title) LIKE ? OR lower(e.summary) LIKE ?
			OR lower(e.category) LIKE ? OR lower(e.region) LIKE ?)`, p, p, p, p)
	}
	return b
}

// orderBy returns the ORDER BY terms for a sort. Slug ties use byte order.
func orderBy(s domain.EventSort) []string {
	switch s {
	case domain.EventSortDateAsc:
		return []string{"e.event_date ASC", `e.slug COLLATE "C" ASC`}
	case domain.EventSortImportance:
		return []string{"e.importance DESC", "e.event_date DESC", `e.slug COLLATE "C" ASC`}
	default:
		return []string{"e.event_date DESC", `e.slug COLLATE "C" ASC`}
	}
}
