// Package redisstore keeps each document in a Redis string.
//
// Key format: "<prefix><document key>", e.g. "stockledger:products".
// Update watches every document key and commits through MULTI/EXEC, retrying
// when another writer touched a watched key first. Read-only updates also end
// in an EXEC so their reads come from one state.
package redisstore

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/ghuser/stockledger/pkg/store"
)

const (
	defaultMaxAttempts = 32
	retryStep          = 2 * time.Millisecond
)

// Store is a store.Store backed by Redis.
type Store struct {
	client      *redis.Client
	prefix      string
	maxAttempts int
}

// New returns a Store using client. The client is owned by the caller
// (pkg/cache.RedisClient) and is not closed by Close.
func New(client *redis.Client, prefix string) *Store {
	return &Store{client: client, prefix: prefix, maxAttempts: defaultMaxAttempts}
}

// Get returns the document at key.
func (s *Store) Get(ctx context.Context, key store.Key) ([]byte, error) {
	return get(ctx, s.client, s.key(key))
}

type getter interface {
	Get(ctx context.Context, key string) *redis.StringCmd
}

func get(ctx context.Context, c getter, key string) ([]byte, error) {
	doc, err := c.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, store.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("redisstore: get %s: %w", key, err)
	}
	return doc, nil
}

// Update runs fn under WATCH on all document keys. On a conflicting write fn
// is run again after a short linear backoff, up to maxAttempts times, before
// ErrConflict is returned.
func (s *Store) Update(ctx context.Context, fn func(ctx context.Context, tx store.Tx) error) error {
	watched := make([]string, len(store.Keys))
	for i, k := range store.Keys {
		watched[i] = s.key(k)
	}

	for attempt := 1; attempt <= s.maxAttempts; attempt++ {
		err := s.client.Watch(ctx, func(rtx *redis.Tx) error {
			tx := store.NewStagedTx(store.ReaderFunc(func(ctx context.Context, key store.Key) ([]byte, error) {
				return get(ctx, rtx, s.key(key))
			}))
			if err := fn(ctx, tx); err != nil {
				return err
			}
			puts, dels := tx.Changes()
			_, err := rtx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
				if tx.Empty() {
					// EXEC still fails when a watched key moved during the reads.
					pipe.Ping(ctx)
					return nil
				}
				for k, v := range puts {
					pipe.Set(ctx, s.key(k), v, 0)
				}
				for _, k := range dels {
					pipe.Del(ctx, s.key(k))
				}
				return nil
			})
			return err
		}, watched...)

		if !errors.Is(err, redis.TxFailedErr) {
			return err
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(time.Duration(attempt) * retryStep):
		}
	}
	return fmt.Errorf("redisstore: %w after %d attempts", store.ErrConflict, s.maxAttempts)
}

// Ping checks the Redis connection.
func (s *Store) Ping(ctx context.Context) error {
	if err := s.client.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("redisstore: ping: %w", err)
	}
	return nil
}

// Close is a no-op; the client belongs to the caller.
func (s *Store) Close() error { return nil }

func (s *Store) key(k store.Key) string {
	return s.prefix + string(k)
}
