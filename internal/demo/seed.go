// Package demo builds the in-memory demo snapshot from the static seed file
// and answers public read queries against it.
package demo

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
)

// ErrSeed marks a missing or malformed seed file. It is a startup defect,
// never a transient unavailability.
var ErrSeed = errors.New("demo seed")

// Seed is the on-disk seed file: three optional record arrays.
type Seed struct {
	Sources      []SeedSource      `json:"sources,omitempty"`
	Events       []SeedEvent       `json:"events,omitempty"`
	EventSources []SeedEventSource `json:"event_sources,omitempty"`
}

// SeedSource is a source record keyed by URL.
type SeedSource struct {
	Name            string  `json:"name"`
	URL             string  `json:"url"`
	SourceType      string  `json:"source_type,omitempty"`
	Publisher       *string `json:"publisher,omitempty"`
	PublishedDate   *string `json:"published_date,omitempty"`
	AccessedDate    *string `json:"accessed_date,omitempty"`
	Rights          *string `json:"rights,omitempty"`
	ReliabilityNote *string `json:"reliability_note,omitempty"`
}

// SeedEvent is an event record keyed by slug.
type SeedEvent struct {
	Slug        string  `json:"slug"`
	Title       string  `json:"title"`
	EventDate   string  `json:"event_date"`
	Region      string  `json:"region,omitempty"`
	Category    string  `json:"category,omitempty"`
	Summary     string  `json:"summary,omitempty"`
	Impact      string  `json:"impact,omitempty"`
	Importance  int     `json:"importance,omitempty"`
	Confidence  int     `json:"confidence,omitempty"`
	Status      string  `json:"status,omitempty"`
	PublishedAt *string `json:"published_at,omitempty"`
}

// SeedEventSource links an event slug to a source URL.
type SeedEventSource struct {
	EventSlug     string  `json:"event_slug"`
	SourceURL     string  `json:"source_url"`
	RelevanceRank int     `json:"relevance_rank,omitempty"`
	Quote         *string `json:"quote,omitempty"`
	Citation      *string `json:"citation,omitempty"`
}

// Len returns the total number of records across the three arrays.
func (s *Seed) Len() int {
	return len(s.Sources) + len(s.Events) + len(s.EventSources)
}

// LoadSeed reads and decodes a seed file.
func LoadSeed(path string) (*Seed, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: read %s: %v", ErrSeed, path, err)
	}
	return DecodeSeed(data)
}

// DecodeSeed decodes seed JSON. Unknown fields are rejected so typos in
// hand-edited seed files surface at startup.
func DecodeSeed(data []byte) (*Seed, error) {
	var seed Seed
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&seed); err != nil {
		return nil, fmt.Errorf("%w: decode: %v", ErrSeed, err)
	}
	return &seed, nil
}
