package store

import (
	"context"
	"fmt"
	"time"

	"compsync/internal/platform/store/pg"
	"compsync/internal/platform/store/rds"
)

var sleep = time.Sleep

// openPG opens the pool and pings it with capped exponential backoff before
// handing out the adapter
func openPG(ctx context.Context, cfg Config, s *Store) (TxRunner, error) {
	var tracer pg.QueryTracer
	if cfg.PG.LogSQL {
		tracer = pg.Tracer(s.Log, cfg.PG.LogArgs)
	}
	p, err := pg.Open(ctx, pg.Config{
		URL:         cfg.PG.URL,
		MaxConns:    cfg.PG.MaxConns,
		SlowMs:      cfg.PG.SlowQueryMs,
		StmtTimeout: cfg.PG.StmtTimeout,
		AppName:     cfg.AppName,
	}, tracer, nil)
	if err != nil {
		return nil, err
	}

	attempts := cfg.PG.ConnectRetries
	if attempts <= 0 {
		attempts = 20
	}
	timeout := cfg.PG.PingTimeout
	if timeout <= 0 {
		timeout = 3 * time.Second
	}

	backoff := 150 * time.Millisecond
	var lastErr error
	for i := 0; i < attempts; i++ {
		pctx, cancel := context.WithTimeout(ctx, timeout)
		lastErr = p.Pool.Ping(pctx)
		cancel()
		if lastErr == nil {
			return newPGAdapter(p), nil
		}
		if ctx.Err() != nil {
			p.Close()
			return nil, ctx.Err()
		}
		s.Log.Warn().Err(lastErr).Int("attempt", i+1).Dur("backoff", backoff).Msg("postgres not ready")
		sleep(backoff)
		backoff = min(backoff*2, 2*time.Second)
	}
	p.Close()
	return nil, fmt.Errorf("postgres ping failed after %d attempts: %w", attempts, lastErr)
}

// openRedis builds the client and verifies it answers once
func openRedis(ctx context.Context, cfg Config, s *Store) (*rds.Client, error) {
	c := rds.Open(rds.Config{
		Addr:        cfg.RDS.Addr,
		Password:    cfg.RDS.Password,
		DB:          cfg.RDS.DB,
		DialTimeout: 3 * time.Second,
		ClientName:  cfg.AppName,
	})
	pctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	if err := c.Ping(pctx); err != nil {
		_ = c.Close()
		return nil, fmt.Errorf("redis ping %s: %w", cfg.RDS.Addr, err)
	}
	s.Log.Info().Str("addr", cfg.RDS.Addr).Int("db", cfg.RDS.DB).Msg("redis connected")
	return c, nil
}
