package pgstore

import (
	"context"
	"errors"
	"fmt"
	"os"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"

	"github.com/ghuser/stockledger/migrations"
	"github.com/ghuser/stockledger/pkg/database"
	"github.com/ghuser/stockledger/pkg/logger"
	"github.com/ghuser/stockledger/pkg/migrator"
	"github.com/ghuser/stockledger/pkg/store"
	"github.com/ghuser/stockledger/pkg/store/storetest"
)

// newTestStore migrates DATABASE_URL and empties the documents table.
// Skips if DATABASE_URL is not set.
func newTestStore(t *testing.T) *Store {
	t.Helper()
	url := os.Getenv("DATABASE_URL")
	if url == "" {
		t.Skip("DATABASE_URL not set, skipping postgres store integration tests")
	}
	ctx := context.Background()
	log := logger.Discard()

	db, err := database.NewPool(ctx, url, log)
	if err != nil {
		t.Fatalf("connect: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	if err := migrator.Up(ctx, db.DB(), migrations.FS, log); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	if _, err := db.DB().ExecContext(ctx, `DELETE FROM documents`); err != nil {
		t.Fatalf("truncate: %v", err)
	}
	return New(db)
}

func TestStore_Contract(t *testing.T) {
	storetest.Run(t, newTestStore(t))
}

func TestClassify(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want error
	}{
		{"serialization failure", &pgconn.PgError{Code: codeSerializationFailure}, store.ErrConflict},
		{"deadlock", fmt.Errorf("wrapped: %w", &pgconn.PgError{Code: codeDeadlockDetected}), store.ErrConflict},
		{"invalid json", &pgconn.PgError{Code: codeInvalidJSON}, store.ErrCorrupt},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := classify(tt.err); !errors.Is(got, tt.want) {
				t.Fatalf("classify(%v) = %v, want %v", tt.err, got, tt.want)
			}
		})
	}

	t.Run("other errors pass through", func(t *testing.T) {
		plain := errors.New("plain")
		if got := classify(plain); got != plain {
			t.Fatalf("expected passthrough, got %v", got)
		}
		if classify(nil) != nil {
			t.Fatal("nil must stay nil")
		}
	})
}
