// Package pgstore keeps documents in the PostgreSQL table created by the
// migrations package:
//
//	documents(key TEXT PRIMARY KEY, body JSONB, updated_at TIMESTAMPTZ, version BIGINT)
//
// Update runs in one transaction. A transaction-scoped advisory lock makes
// writers queue behind each other instead of failing on serialization errors.
package pgstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"

	"github.com/ghuser/stockledger/pkg/database"
	"github.com/ghuser/stockledger/pkg/store"
)

// advisoryLockKey is an arbitrary constant shared by every writer.
const advisoryLockKey int64 = 0x5702_4c65_6467

// Postgres error classes retried by callers as conflicts.
const (
	codeSerializationFailure = "40001"
	codeDeadlockDetected     = "40P01"
	codeInvalidJSON          = "22P02"
)

// Store is a store.Store backed by PostgreSQL.
type Store struct {
	db *database.Database
}

// New returns a Store on db. db is owned by the caller.
func New(db *database.Database) *Store {
	return &Store{db: db}
}

type queryer interface {
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

func get(ctx context.Context, q queryer, key store.Key) ([]byte, error) {
	var body []byte
	err := q.QueryRowContext(ctx, `SELECT body FROM documents WHERE key = $1`, string(key)).Scan(&body)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, store.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("pgstore: get %s: %w", key, err)
	}
	return body, nil
}

// Get returns the document at key.
func (s *Store) Get(ctx context.Context, key store.Key) ([]byte, error) {
	return get(ctx, s.db.DB(), key)
}

// Update runs fn inside a transaction holding the writer lock.
func (s *Store) Update(ctx context.Context, fn func(ctx context.Context, tx store.Tx) error) error {
	err := s.db.WithTx(ctx, func(sqlTx *sql.Tx) error {
		if _, err := sqlTx.ExecContext(ctx, `SELECT pg_advisory_xact_lock($1)`, advisoryLockKey); err != nil {
			return fmt.Errorf("pgstore: lock: %w", err)
		}

		tx := store.NewStagedTx(store.ReaderFunc(func(ctx context.Context, key store.Key) ([]byte, error) {
			return get(ctx, sqlTx, key)
		}))
		if err := fn(ctx, tx); err != nil {
			return err
		}

		puts, dels := tx.Changes()
		for k, v := range puts {
			if _, err := sqlTx.ExecContext(ctx, `
				INSERT INTO documents (key, body, updated_at, version)
				VALUES ($1, $2::jsonb, now(), 1)
				ON CONFLICT (key) DO UPDATE
				SET body = EXCLUDED.body, updated_at = now(), version = documents.version + 1`,
				string(k), string(v),
			); err != nil {
				return fmt.Errorf("pgstore: put %s: %w", k, err)
			}
		}
		for _, k := range dels {
			if _, err := sqlTx.ExecContext(ctx, `DELETE FROM documents WHERE key = $1`, string(k)); err != nil {
				return fmt.Errorf("pgstore: delete %s: %w", k, err)
			}
		}
		return nil
	})
	return classify(err)
}

// classify maps Postgres error codes onto store sentinels.
func classify(err error) error {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return err
	}
	switch pgErr.Code {
	case codeSerializationFailure, codeDeadlockDetected:
		return fmt.Errorf("%w: %w", store.ErrConflict, err)
	case codeInvalidJSON:
		return fmt.Errorf("%w: %w", store.ErrCorrupt, err)
	default:
		return err
	}
}

// Ping checks database connectivity.
func (s *Store) Ping(ctx context.Context) error {
	return s.db.Ping(ctx)
}

// Close is a no-op; the pool belongs to the caller.
func (s *Store) Close() error { return nil }
