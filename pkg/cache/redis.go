package cache

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/ghuser/stockledger/pkg/config"
)

// DefaultRedisURL is dialed when the redis backend is selected without REDIS_URL.
const DefaultRedisURL = "redis://localhost:6379/0"

const pingTimeout = 2 * time.Second

// RedisClient is the one Redis connection pool of a process. The document
// store, the sale cache and the session store share it and its key prefix.
type RedisClient struct {
	client *redis.Client
	prefix string
}

// NewRedisClient dials cfg.RedisURL (DefaultRedisURL when empty) and pings
// the server before returning.
func NewRedisClient(ctx context.Context, cfg *config.Config) (*RedisClient, error) {
	opts, err := clientOptions(cfg.RedisURL)
	if err != nil {
		return nil, err
	}
	rdb := redis.NewClient(opts)

	pingCtx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()
	if err := rdb.Ping(pingCtx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("ping redis at %s: %w", opts.Addr, err)
	}
	return &RedisClient{client: rdb, prefix: cfg.RedisKeyPrefix}, nil
}

// clientOptions parses url and applies the pool settings. Commands are small
// and frequent, so the pool stays small with short socket timeouts.
func clientOptions(url string) (*redis.Options, error) {
	if url == "" {
		url = DefaultRedisURL
	}
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("parse redis URL: %w", err)
	}
	opts.PoolSize = 10
	opts.MinIdleConns = 2
	opts.MaxRetries = 3
	opts.DialTimeout = 5 * time.Second
	opts.ReadTimeout = 3 * time.Second
	opts.WriteTimeout = 3 * time.Second
	opts.PoolTimeout = 4 * time.Second
	return opts, nil
}

// Ping checks the Redis connection health.
func (r *RedisClient) Ping(ctx context.Context) error {
	if err := r.client.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("redis ping: %w", err)
	}
	return nil
}

// Close shuts down the connection pool.
func (r *RedisClient) Close() error {
	if r.client == nil {
		return nil
	}
	if err := r.client.Close(); err != nil {
		return fmt.Errorf("redis close: %w", err)
	}
	return nil
}

// Client returns the underlying redis.Client.
func (r *RedisClient) Client() *redis.Client {
	return r.client
}

// Prefix returns the namespace prepended to every key this process writes.
func (r *RedisClient) Prefix() string {
	return r.prefix
}

// Key joins parts with ":" under the prefix: Key("sale", "42") is
// "<prefix>sale:42".
func (r *RedisClient) Key(parts ...string) string {
	return r.prefix + strings.Join(parts, ":")
}
