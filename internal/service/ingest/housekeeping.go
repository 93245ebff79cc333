package ingest

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/robfig/cron/v3"
)

const housekeepingTimeout = time.Minute

// ExpireStaleJobs fails running jobs that made no progress within the
// configured TTL. It is a no-op without a live store.
func (s *Service) ExpireStaleJobs(ctx context.Context) (int, error) {
	if !s.store.Configured() || s.opts.StaleJobTTL <= 0 {
		return 0, nil
	}

	cutoff := s.now().Add(-s.opts.StaleJobTTL)
	reason := fmt.Sprintf("no progress for %s", s.opts.StaleJobTTL)

	n, err := s.jobs.MarkStale(ctx, cutoff, reason)
	if err != nil {
		return 0, s.liveError(ctx, "expire stale jobs", err)
	}
	if n > 0 {
		s.log.InfoContext(ctx, "stale ingestion jobs expired", slog.Int("count", n))
	}
	s.metrics.StaleJobsExpired(n)
	return n, nil
}

// Housekeeper runs ExpireStaleJobs on a cron schedule.
type Housekeeper struct {
	cron *cron.Cron
	log  *slog.Logger
}

// NewHousekeeper schedules stale job expiry. spec is a standard five-field
// cron expression.
func NewHousekeeper(log *slog.Logger, svc *Service, spec string) (*Housekeeper, error) {
	log = log.With("component", "ingest_housekeeping")
	c := cron.New()

	_, err := c.AddFunc(spec, func() {
		ctx, cancel := context.WithTimeout(context.Background(), housekeepingTimeout)
		defer cancel()

		if _, err := svc.ExpireStaleJobs(ctx); err != nil {
			log.Error("housekeeping run failed", slog.String("error", err.Error()))
		}
	})
	if err != nil {
		return nil, fmt.Errorf("schedule housekeeping %q: %w", spec, err)
	}
	return &Housekeeper{cron: c, log: log}, nil
}

// Start runs the scheduler in its own goroutine.
func (h *Housekeeper) Start() {
	h.cron.Start()
	h.log.Info("housekeeping scheduled")
}

// Stop stops the scheduler and waits for a running job, bounded by ctx.
func (h *Housekeeper) Stop(ctx context.Context) error {
	done := h.cron.Stop().Done()
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
