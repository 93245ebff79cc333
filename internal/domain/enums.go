package domain

// EventStatus is the editorial lifecycle state of an event.
type EventStatus string

const (
	EventStatusDraft     EventStatus = "draft"
	EventStatusReview    EventStatus = "review"
	EventStatusPublished EventStatus = "published"
	EventStatusArchived  EventStatus = "archived"
)

func (s EventStatus) String() string { return string(s) }

func (s EventStatus) IsValid() bool {
	switch s {
	case EventStatusDraft, EventStatusReview, EventStatusPublished, EventStatusArchived:
		return true
	}
	return false
}

// SourceType is the closed category of a citation source.
type SourceType string

const (
	SourceTypeArchive  SourceType = "archive"
	SourceTypeOfficial SourceType = "official"
	SourceTypeNews     SourceType = "news"
	SourceTypeResearch SourceType = "research"
	SourceTypeDataset  SourceType = "dataset"
	SourceTypeOther    SourceType = "other"
)

func (t SourceType) String() string { return string(t) }

func (t SourceType) IsValid() bool {
	switch t {
	case SourceTypeArchive, SourceTypeOfficial, SourceTypeNews,
		SourceTypeResearch, SourceTypeDataset, SourceTypeOther:
		return true
	}
	return false
}

// JobStatus is the state of an ingestion job.
type JobStatus string

const (
	JobStatusQueued    JobStatus = "queued"
	JobStatusRunning   JobStatus = "running"
	JobStatusSucceeded JobStatus = "succeeded"
	JobStatusFailed    JobStatus = "failed"
)

func (s JobStatus) String() string { return string(s) }

func (s JobStatus) IsValid() bool {
	switch s {
	case JobStatusQueued, JobStatusRunning, JobStatusSucceeded, JobStatusFailed:
		return true
	}
	return false
}

// IsTerminal reports whether no further transitions are expected.
func (s JobStatus) IsTerminal() bool {
	return s == JobStatusSucceeded || s == JobStatusFailed
}

// EventSort is the ordering of public event listings.
type EventSort string

const (
	EventSortDateDesc   EventSort = "date_desc"
	EventSortDateAsc    EventSort = "date_asc"
	EventSortImportance EventSort = "importance"
)

func (s EventSort) IsValid() bool {
	switch s {
	case EventSortDateDesc, EventSortDateAsc, EventSortImportance:
		return true
	}
	return false
}
