// Package rds opens the Redis client used for derived-data caches and notifications
package rds

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

// Config configures the client
type Config struct {
	Addr         string
	Password     string
	DB           int
	DialTimeout  time.Duration
	ReadTimeout  time.Duration
	PoolSize     int
	ClientName   string
	ScanPageSize int64
}

// Client wraps go-redis with the small surface the store facade needs
type Client struct {
	R        redis.UniversalClient
	pageSize int64
}

// Open builds the client without dialing; the first command or Ping connects
func Open(cfg Config) *Client {
	o := &redis.Options{
		Addr:        cfg.Addr,
		Password:    cfg.Password,
		DB:          cfg.DB,
		DialTimeout: cfg.DialTimeout,
		ReadTimeout: cfg.ReadTimeout,
		PoolSize:    cfg.PoolSize,
		ClientName:  cfg.ClientName,
	}
	page := cfg.ScanPageSize
	if page <= 0 {
		page = 500
	}
	return Wrap(redis.NewClient(o), page)
}

// Wrap adopts an existing client, e.g. one pointed at a test server
func Wrap(r redis.UniversalClient, pageSize int64) *Client {
	if pageSize <= 0 {
		pageSize = 500
	}
	return &Client{R: r, pageSize: pageSize}
}

// Ping checks connectivity
func (c *Client) Ping(ctx context.Context) error { return c.R.Ping(ctx).Err() }

// DeleteMatching removes every key matching pattern using SCAN then UNLINK per page,
// so a large keyspace never blocks the server. Returns the number of keys removed.
func (c *Client) DeleteMatching(ctx context.Context, pattern string) (int64, error) {
	var (
		cursor  uint64
		removed int64
	)
	for {
		keys, next, err := c.R.Scan(ctx, cursor, pattern, c.pageSize).Result()
		if err != nil {
			return removed, err
		}
		if len(keys) > 0 {
			n, err := c.R.Unlink(ctx, keys...).Result()
			if err != nil {
				return removed, err
			}
			removed += n
		}
		if next == 0 {
			return removed, nil
		}
		cursor = next
	}
}

// ExpireMatching sets a ttl on every key matching pattern; ttl <= 0 deletes them
func (c *Client) ExpireMatching(ctx context.Context, pattern string, ttl time.Duration) (int64, error) {
	if ttl <= 0 {
		return c.DeleteMatching(ctx, pattern)
	}
	var (
		cursor  uint64
		touched int64
	)
	for {
		keys, next, err := c.R.Scan(ctx, cursor, pattern, c.pageSize).Result()
		if err != nil {
			return touched, err
		}
		if len(keys) > 0 {
			pipe := c.R.Pipeline()
			for _, k := range keys {
				pipe.Expire(ctx, k, ttl)
			}
			if _, err := pipe.Exec(ctx); err != nil {
				return touched, err
			}
			touched += int64(len(keys))
		}
		if next == 0 {
			return touched, nil
		}
		cursor = next
	}
}

// Publish sends payload on channel and returns the receiver count
func (c *Client) Publish(ctx context.Context, channel string, payload []byte) (int64, error) {
	return c.R.Publish(ctx, channel, payload).Result()
}

// Close releases the pool
func (c *Client) Close() error { return c.R.Close() }
