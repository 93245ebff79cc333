// Command cleanup fails ingestion jobs that stopped reporting progress. It is
// intended for deployments that run housekeeping from an external cron job
// instead of the in-process scheduler.
//
// Exit codes: 0 = success, 1 = error.
package main

import (
	"context"
	"log"
	"log/slog"
	"os"
	"time"

	"github.com/heartmarshall/finhistory-backend/internal/adapter/postgres"
	"github.com/heartmarshall/finhistory-backend/internal/app"
	"github.com/heartmarshall/finhistory-backend/internal/config"
)

func main() {
	os.Exit(run())
}

func run() int {
	cfg, err := config.Load()
	if err != nil {
		log.Printf("load config: %v", err)
		return 1
	}

	logger := app.NewLogger(cfg.Log)

	pool := postgres.NewLazyPool(cfg.Database)
	defer pool.Close()

	if !pool.Configured() {
		logger.Error("database is not configured, nothing to clean up")
		return 1
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	deps := app.NewDeps(logger, cfg, pool)

	expired, err := deps.Ingest.ExpireStaleJobs(ctx)
	if err != nil {
		logger.Error("stale job expiry failed",
			slog.String("error", err.Error()),
			slog.Duration("ttl", cfg.Ingest.StaleJobTTL),
		)
		return 1
	}

	logger.Info("stale job expiry completed",
		slog.Int("expired", expired),
		slog.Duration("ttl", cfg.Ingest.StaleJobTTL),
	)
	return 0
}
