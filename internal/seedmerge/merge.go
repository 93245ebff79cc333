// Package seedmerge folds imported records into the seed file on disk so a
// later demo snapshot includes them.
package seedmerge

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/heartmarshall/finhistory-backend/internal/demo"
)

// Stats counts what a merge changed, per record kind.
type Stats struct {
	SourcesAdded   int
	SourcesUpdated int
	EventsAdded    int
	EventsUpdated  int
	LinksAdded     int
	LinksUpdated   int
}

// Merge returns base with incoming folded in. Records are deduplicated by
// natural key (source URL, event slug, event slug + source URL). A later
// record replaces an earlier one in place, so order of first appearance is
// kept. Neither argument is modified.
func Merge(base, incoming *demo.Seed) (*demo.Seed, Stats) {
	var stats Stats
	out := &demo.Seed{}

	srcIdx := make(map[string]int)
	putSource := func(rec demo.SeedSource, fromIncoming bool) {
		key := rec.SourceKey()
		rec.URL = key
		if i, ok := srcIdx[key]; ok {
			out.Sources[i] = rec
			if fromIncoming {
				stats.SourcesUpdated++
			}
			return
		}
		srcIdx[key] = len(out.Sources)
		out.Sources = append(out.Sources, rec)
		if fromIncoming {
			stats.SourcesAdded++
		}
	}

	evIdx := make(map[string]int)
	putEvent := func(rec demo.SeedEvent, fromIncoming bool) {
		key := rec.EventKey()
		rec.Slug = key
		if i, ok := evIdx[key]; ok {
			out.Events[i] = rec
			if fromIncoming {
				stats.EventsUpdated++
			}
			return
		}
		evIdx[key] = len(out.Events)
		out.Events = append(out.Events, rec)
		if fromIncoming {
			stats.EventsAdded++
		}
	}

	type linkKey struct{ slug, url string }
	linkIdx := make(map[linkKey]int)
	putLink := func(rec demo.SeedEventSource, fromIncoming bool) {
		slug, url := rec.LinkKey()
		rec.EventSlug, rec.SourceURL = slug, url
		key := linkKey{slug, url}
		if i, ok := linkIdx[key]; ok {
			out.EventSources[i] = rec
			if fromIncoming {
				stats.LinksUpdated++
			}
			return
		}
		linkIdx[key] = len(out.EventSources)
		out.EventSources = append(out.EventSources, rec)
		if fromIncoming {
			stats.LinksAdded++
		}
	}

	for _, seed := range []*demo.Seed{base, incoming} {
		if seed == nil {
			continue
		}
		fromIncoming := seed == incoming
		for _, rec := range seed.Sources {
			putSource(rec, fromIncoming)
		}
		for _, rec := range seed.Events {
			putEvent(rec, fromIncoming)
		}
		for _, rec := range seed.EventSources {
			putLink(rec, fromIncoming)
		}
	}
	return out, stats
}

// MergeFile merges incoming into the seed file at path and rewrites it
// atomically. A missing file is treated as an empty seed.
//
// Concurrent calls on the same path race on read-modify-write; the last
// rename wins.
func MergeFile(path string, incoming *demo.Seed) (Stats, error) {
	base := &demo.Seed{}
	if _, err := os.Stat(path); err == nil {
		base, err = demo.LoadSeed(path)
		if err != nil {
			return Stats{}, fmt.Errorf("seedmerge: %w", err)
		}
	} else if !errors.Is(err, fs.ErrNotExist) {
		return Stats{}, fmt.Errorf("seedmerge: stat %s: %w", path, err)
	}

	merged, stats := Merge(base, incoming)
	if err := writeAtomic(path, merged); err != nil {
		return Stats{}, fmt.Errorf("seedmerge: %w", err)
	}
	return stats, nil
}

func writeAtomic(path string, seed *demo.Seed) error {
	data, err := json.MarshalIndent(seed, "", "  ")
	if err != nil {
		return fmt.Errorf("encode: %w", err)
	}
	data = append(data, '\n')

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("mkdir %s: %w", dir, err)
	}
	tmp, err := os.CreateTemp(dir, ".seed-*.json")
	if err != nil {
		return fmt.Errorf("create temp: %w", err)
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName) // no-op after a successful rename

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("write temp: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return fmt.Errorf("sync temp: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close temp: %w", err)
	}
	if err := os.Chmod(tmpName, 0o644); err != nil {
		return fmt.Errorf("chmod temp: %w", err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		return fmt.Errorf("rename: %w", err)
	}
	return nil
}
