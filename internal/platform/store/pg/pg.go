// Package pg opens the Postgres pool used by the store facade
package pg

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Config configures the pool
type Config struct {
	URL          string
	MaxConns     int32
	SlowMs       int
	StmtTimeout  time.Duration
	AppName      string
	HealthPeriod time.Duration
}

// PG holds the pool plus the optional tracer the adapter reports to
type PG struct {
	Pool   *pgxpool.Pool
	Tracer QueryTracer
	SlowMs int
}

var newPool = pgxpool.NewWithConfig

// Open parses cfg into a pool config, lets mut adjust it, and creates the pool.
// No connection is made until first use.
func Open(ctx context.Context, cfg Config, tracer QueryTracer, mut func(*pgxpool.Config)) (*PG, error) {
	pcfg, err := pgxpool.ParseConfig(cfg.URL)
	if err != nil {
		return nil, err
	}
	if cfg.MaxConns > 0 {
		pcfg.MaxConns = cfg.MaxConns
	}
	if cfg.HealthPeriod > 0 {
		pcfg.HealthCheckPeriod = cfg.HealthPeriod
	}
	rp := pcfg.ConnConfig.RuntimeParams
	if cfg.AppName != "" {
		rp["application_name"] = cfg.AppName
	}
	if cfg.StmtTimeout > 0 {
		rp["statement_timeout"] = cfg.StmtTimeout.String()
	}
	if mut != nil {
		mut(pcfg)
	}
	pool, err := newPool(ctx, pcfg)
	if err != nil {
		return nil, err
	}
	return &PG{Pool: pool, Tracer: tracer, SlowMs: cfg.SlowMs}, nil
}

// Close closes the pool; nil-safe
func (p *PG) Close() {
	if p != nil && p.Pool != nil {
		p.Pool.Close()
	}
}
