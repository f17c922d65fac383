// Package store is the facade over the optional storage backends: Postgres for
// employee records and bands, Redis for derived-data caches and notifications
package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"compsync/internal/platform/logger"
)

// Store holds the enabled backends; disabled ones stay nil.
// The zero value is safe and does nothing.
type Store struct {
	Log logger.Logger

	// PG is the postgres seam
	PG TxRunner

	// Cache is the redis seam
	Cache Cache
}

// Row is the scan contract for a single row
type Row interface {
	Scan(dest ...any) error
}

// Rows is the iteration contract for a result set
type Rows interface {
	Next() bool
	Scan(dest ...any) error
	Err() error
	Close()
}

// CommandTag reports the outcome of a write
type CommandTag interface {
	String() string
	RowsAffected() int64
}

// RowQuerier is the sql surface repos use
type RowQuerier interface {
	Exec(ctx context.Context, sql string, args ...any) (CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) Row
}

// TxRunner runs fn inside one transaction, committing when fn returns nil
type TxRunner interface {
	RowQuerier
	Tx(ctx context.Context, fn func(q RowQuerier) error) error
}

// Cache is the key-pattern and pub/sub surface over redis
type Cache interface {
	DeleteMatching(ctx context.Context, pattern string) (int64, error)
	ExpireMatching(ctx context.Context, pattern string, ttl time.Duration) (int64, error)
	Publish(ctx context.Context, channel string, payload []byte) (int64, error)
}

// Pinger is any seam that can report readiness
type Pinger interface{ Ping(context.Context) error }

// Open constructs a Store with the backends enabled in cfg
func Open(ctx context.Context, cfg Config, opts ...Option) (*Store, error) {
	s := &Store{}
	for _, o := range opts {
		if err := o(s); err != nil {
			return nil, err
		}
	}
	s.Log = s.Log.With().Str("component", "store").Logger()

	if cfg.PG.Enabled {
		p, err := openPG(ctx, cfg, s)
		if err != nil {
			return nil, err
		}
		s.PG = p
	}
	if cfg.RDS.Enabled {
		c, err := openRedis(ctx, cfg, s)
		if err != nil {
			if s.PG != nil {
				_ = s.Close(ctx)
			}
			return nil, err
		}
		s.Cache = c
	}
	return s, nil
}

// Guard pings every configured seam and joins the failures
func (s *Store) Guard(ctx context.Context) error {
	if s == nil {
		return errors.New("nil store")
	}
	var errs []error
	if p, ok := s.PG.(Pinger); ok {
		if err := p.Ping(ctx); err != nil {
			errs = append(errs, fmt.Errorf("pg: %w", err))
		}
	}
	if p, ok := s.Cache.(Pinger); ok {
		if err := p.Ping(ctx); err != nil {
			errs = append(errs, fmt.Errorf("redis: %w", err))
		}
	}
	return errors.Join(errs...)
}

// Close closes every initialized backend
func (s *Store) Close(_ context.Context) error {
	var errs []error
	if c, ok := s.Cache.(interface{ Close() error }); ok {
		if err := c.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	if c, ok := s.PG.(interface{ Close() error }); ok {
		if err := c.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
