package postgres

import (
	"context"
	"fmt"
	"sync"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/heartmarshall/finhistory-backend/internal/config"
	"github.com/heartmarshall/finhistory-backend/internal/domain"
)

// DB is a live-store handle: a Querier that can also open transactions.
// Implemented by *pgxpool.Pool and by pgxmock pools.
type DB interface {
	Querier
	Begin(ctx context.Context) (pgx.Tx, error)
}

// Connector hands out the process-wide DB handle.
type Connector interface {
	DB(ctx context.Context) (DB, error)
}

// LazyPool creates the connection pool on first use and keeps it for the
// life of the process. Without a DSN every call fails with
// domain.ErrNotConfigured.
type LazyPool struct {
	cfg config.DatabaseConfig

	mu   sync.Mutex
	pool *pgxpool.Pool
}

// NewLazyPool creates a LazyPool. No connection is attempted here.
func NewLazyPool(cfg config.DatabaseConfig) *LazyPool {
	return &LazyPool{cfg: cfg}
}

// Configured reports whether a connection string is present.
func (p *LazyPool) Configured() bool { return p.cfg.Configured() }

// DB returns the shared pool, constructing it on the first call.
// pgxpool connects lazily, so a down server surfaces on the first query.
func (p *LazyPool) DB(ctx context.Context) (DB, error) {
	pool, err := p.get(ctx)
	if err != nil {
		return nil, err
	}
	return pool, nil
}

func (p *LazyPool) get(ctx context.Context) (*pgxpool.Pool, error) {
	if !p.cfg.Configured() {
		return nil, domain.ErrNotConfigured
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	if p.pool != nil {
		return p.pool, nil
	}

	poolCfg, err := pgxpool.ParseConfig(p.cfg.DSN)
	if err != nil {
		return nil, fmt.Errorf("parse database DSN: %w", err)
	}

	poolCfg.MaxConns = p.cfg.MaxConns
	poolCfg.MinConns = p.cfg.MinConns
	poolCfg.MaxConnLifetime = p.cfg.MaxConnLifetime
	poolCfg.MaxConnIdleTime = p.cfg.MaxConnIdleTime
	if p.cfg.ConnectTimeout > 0 {
		poolCfg.ConnConfig.ConnectTimeout = p.cfg.ConnectTimeout
	}

	pool, err := pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		return nil, fmt.Errorf("create connection pool: %w", err)
	}

	p.pool = pool
	return pool, nil
}

// Ping checks connectivity, creating the pool if needed.
func (p *LazyPool) Ping(ctx context.Context) error {
	pool, err := p.get(ctx)
	if err != nil {
		return err
	}
	return pool.Ping(ctx)
}

// Close releases the pool if it was ever created.
func (p *LazyPool) Close() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.pool != nil {
		p.pool.Close()
		p.pool = nil
	}
}

// Static wraps an existing handle, e.g. a test pool.
func Static(db DB) Connector { return staticConnector{db: db} }

type staticConnector struct{ db DB }

func (c staticConnector) DB(context.Context) (DB, error) { return c.db, nil }

// Failing is a Connector whose every call returns err.
func Failing(err error) Connector { return failingConnector{err: err} }

type failingConnector struct{ err error }

func (c failingConnector) DB(context.Context) (DB, error) { return nil, c.err }
