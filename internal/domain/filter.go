package domain

import (
	"fmt"
	"math"
	"strings"
	"time"
)

const (
	DefaultPageSize = 20
	MaxPageSize     = 100
	MaxPage         = 10000
)

// EventFilter contains filtering/pagination parameters for public event listings.
type EventFilter struct {
	// Date matches a single calendar date exactly.
	Date *time.Time
	// From and To bound the event date (inclusive).
	From *time.Time
	To   *time.Time

	Category string
	Region   string
	// Tag is a tag slug.
	Tag string

	MinImportance int

	// Query is a case-insensitive substring matched against
	// title, summary, category and region.
	Query string

	Page     int
	PageSize int
	Sort     EventSort
}

// Normalize applies defaults and clamps values.
func (f *EventFilter) Normalize() {
	if f.Page < 1 {
		f.Page = 1
	}
	if f.PageSize <= 0 {
		f.PageSize = DefaultPageSize
	}
	if f.PageSize > MaxPageSize {
		f.PageSize = MaxPageSize
	}
	if !f.Sort.IsValid() {
		f.Sort = EventSortDateDesc
	}
	f.Category = strings.TrimSpace(f.Category)
	f.Region = strings.TrimSpace(f.Region)
	f.Tag = strings.ToLower(strings.TrimSpace(f.Tag))
	f.Query = strings.TrimSpace(f.Query)
}

// Offset returns the number of items to skip for the current page. It
// saturates at math.MaxInt instead of wrapping.
func (f EventFilter) Offset() int {
	if f.Page < 1 || f.PageSize < 1 {
		return 0
	}
	if f.Page-1 > math.MaxInt/f.PageSize {
		return math.MaxInt
	}
	return (f.Page - 1) * f.PageSize
}

// Validate checks all fields and collects all errors.
func (f EventFilter) Validate() error {
	var errs []FieldError

	if f.MinImportance != 0 && (f.MinImportance < MinScore || f.MinImportance > MaxScore) {
		errs = append(errs, FieldError{Field: "minImportance", Message: "must be between 1 and 5"})
	}
	if f.From != nil && f.To != nil && f.From.After(*f.To) {
		errs = append(errs, FieldError{Field: "from", Message: "must not be after to"})
	}
	if f.Sort != "" && !f.Sort.IsValid() {
		errs = append(errs, FieldError{Field: "sort", Message: "must be one of date_desc, date_asc, importance"})
	}
	if f.Page > MaxPage {
		errs = append(errs, FieldError{Field: "page", Message: fmt.Sprintf("max %d", MaxPage)})
	}
	if f.PageSize > MaxPageSize {
		errs = append(errs, FieldError{Field: "pageSize", Message: "max 100"})
	}

	if len(errs) > 0 {
		return &ValidationError{Errors: errs}
	}
	return nil
}
