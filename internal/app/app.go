package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"strconv"

	"github.com/heartmarshall/finhistory-backend/internal/adapter/postgres"
	"github.com/heartmarshall/finhistory-backend/internal/adapter/postgres/event"
	"github.com/heartmarshall/finhistory-backend/internal/adapter/postgres/ingestion"
	"github.com/heartmarshall/finhistory-backend/internal/adapter/postgres/source"
	"github.com/heartmarshall/finhistory-backend/internal/adapter/postgres/tag"
	"github.com/heartmarshall/finhistory-backend/internal/adapter/postgres/timeline"
	"github.com/heartmarshall/finhistory-backend/internal/config"
	"github.com/heartmarshall/finhistory-backend/internal/demo"
	"github.com/heartmarshall/finhistory-backend/internal/metrics"
	"github.com/heartmarshall/finhistory-backend/internal/service/catalog"
	"github.com/heartmarshall/finhistory-backend/internal/service/editorial"
	"github.com/heartmarshall/finhistory-backend/internal/service/ingest"
	"github.com/heartmarshall/finhistory-backend/internal/transport/middleware"
	"github.com/heartmarshall/finhistory-backend/internal/transport/rest"
)

// Run is the application entry point. It loads configuration, wires the
// store, services and HTTP server, and serves until ctx is cancelled.
func Run(ctx context.Context) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	logger := NewLogger(cfg.Log)

	logger.Info("starting application",
		slog.String("version", BuildVersion()),
		slog.String("log_level", cfg.Log.Level),
		slog.Bool("database_configured", cfg.Database.Configured()),
	)

	pool := postgres.NewLazyPool(cfg.Database)
	defer pool.Close()

	deps := NewDeps(logger, cfg, pool)

	if !pool.Configured() {
		logger.Warn("DATABASE_URL not set, serving demo data", slog.String("seed_path", cfg.Demo.SeedPath))
		if _, err := deps.Demo.Snapshot(ctx); err != nil {
			return fmt.Errorf("load demo seed: %w", err)
		}
	}

	housekeeper, err := ingest.NewHousekeeper(logger, deps.Ingest, cfg.Ingest.HousekeepingCron)
	if err != nil {
		return err
	}
	housekeeper.Start()

	limiter := middleware.NewRateLimiter(cfg.RateLimit.CleanupInterval)
	defer limiter.Stop()

	handler := newHandler(logger, cfg, pool, deps, limiter)

	srv := &http.Server{
		Addr:         net.JoinHostPort(cfg.Server.Host, strconv.Itoa(cfg.Server.Port)),
		Handler:      handler,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
		ErrorLog:     slog.NewLogLogger(logger.Handler(), slog.LevelError),
	}

	serveErr := make(chan error, 1)
	go func() {
		logger.Info("http server listening", slog.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	select {
	case <-ctx.Done():
		logger.Info("shutting down")
	case err := <-serveErr:
		if err != nil {
			return fmt.Errorf("http server: %w", err)
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("http shutdown", slog.String("error", err.Error()))
	}
	if err := housekeeper.Stop(shutdownCtx); err != nil {
		logger.Error("housekeeping shutdown", slog.String("error", err.Error()))
	}

	logger.Info("stopped")
	return nil
}

// newHandler builds the HTTP surface over deps.
func newHandler(
	logger *slog.Logger,
	cfg *config.Config,
	pool *postgres.LazyPool,
	deps *Deps,
	limiter *middleware.RateLimiter,
) http.Handler {
	return rest.NewRouter(rest.RouterDeps{
		Public:          rest.NewPublicHandler(deps.Catalog, logger),
		Admin:           rest.NewAdminHandler(deps.Editorial, logger),
		Internal:        rest.NewInternalHandler(deps.Ingest, logger),
		Health:          rest.NewHealthHandler(pool, Version),
		AdminGate:       middleware.NewAdminGate(cfg.Auth),
		InternalSecret:  cfg.Auth.InternalSecret,
		RateLimiter:     limiter,
		PublicPerMinute: cfg.RateLimit.PublicPerMinute,
		Metrics:         deps.Metrics,
		CORS:            cfg.CORS,
		Logger:          logger,
	})
}

// Deps holds the services shared by the server and the command line tools.
type Deps struct {
	Demo      *demo.Provider
	Metrics   *metrics.Metrics
	Catalog   *catalog.Service
	Editorial *editorial.Service
	Ingest    *ingest.Service
}

// NewDeps wires repositories and services over conn. No connection is
// attempted here.
func NewDeps(logger *slog.Logger, cfg *config.Config, conn *postgres.LazyPool) *Deps {
	eventRepo := event.New(conn)
	sourceRepo := source.New(conn)
	tagRepo := tag.New(conn)
	timelineRepo := timeline.New(conn)
	jobRepo := ingestion.New(conn)
	txm := postgres.NewTxManager(conn)

	m := metrics.New()
	provider := demo.NewProvider(logger, demo.FileLoader(cfg.Demo.SeedPath))

	return &Deps{
		Demo:      provider,
		Metrics:   m,
		Catalog:   catalog.NewService(logger, conn, eventRepo, sourceRepo, tagRepo, timelineRepo, provider, m),
		Editorial: editorial.NewService(logger, conn, eventRepo, sourceRepo, tagRepo, timelineRepo, txm),
		Ingest: ingest.NewService(logger, conn, sourceRepo, eventRepo, tagRepo, jobRepo, txm, m, ingest.Options{
			SeedPath:     cfg.Demo.SeedPath,
			MainSeedName: cfg.Demo.MainSeedName,
			MaxRecords:   cfg.Ingest.MaxRecords,
			StaleJobTTL:  cfg.Ingest.StaleJobTTL,
		}),
	}
}
