package demo

import (
	"context"
	"log/slog"
	"sync/atomic"
	"time"

	"golang.org/x/sync/singleflight"
)

// LoadFunc produces the seed a snapshot is built from.
type LoadFunc func() (*Seed, error)

// FileLoader loads the seed from path on every call.
func FileLoader(path string) LoadFunc {
	return func() (*Seed, error) { return LoadSeed(path) }
}

// Provider builds the snapshot lazily, at most once per process. Concurrent
// first callers share one in-flight build. A failed build is reported to
// every waiting caller and attempted again on the next call.
type Provider struct {
	load  LoadFunc
	log   *slog.Logger
	group singleflight.Group
	snap  atomic.Pointer[Snapshot]
}

// NewProvider creates a Provider around load.
func NewProvider(logger *slog.Logger, load LoadFunc) *Provider {
	return &Provider{
		load: load,
		log:  logger.With("component", "demo"),
	}
}

// Snapshot returns the memoized snapshot, building it on first use.
func (p *Provider) Snapshot(ctx context.Context) (*Snapshot, error) {
	if s := p.snap.Load(); s != nil {
		return s, nil
	}

	ch := p.group.DoChan("snapshot", func() (any, error) {
		if s := p.snap.Load(); s != nil {
			return s, nil
		}
		start := time.Now()
		seed, err := p.load()
		if err != nil {
			return nil, err
		}
		s, err := Build(seed)
		if err != nil {
			return nil, err
		}
		p.snap.Store(s)
		p.log.Info("demo snapshot built",
			slog.Int("events", len(s.events)),
			slog.Int("sources", len(s.sources)),
			slog.Int("links", len(s.links)),
			slog.Duration("duration", time.Since(start)),
		)
		return s, nil
	})

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			p.log.Error("demo snapshot build failed", slog.String("error", res.Err.Error()))
			return nil, res.Err
		}
		return res.Val.(*Snapshot), nil
	}
}
