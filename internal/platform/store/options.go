package store

import (
	"compsync/internal/platform/logger"
)

// Option mutates Store during Open
type Option func(*Store) error

// WithLogger sets the logger used by the backends
func WithLogger(log logger.Logger) Option {
	return func(s *Store) error {
		s.Log = log
		return nil
	}
}

// WithCache injects a cache seam, used when the caller owns the redis client
func WithCache(c Cache) Option {
	return func(s *Store) error {
		s.Cache = c
		return nil
	}
}
