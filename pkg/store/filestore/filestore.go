// Package filestore keeps every document in one JSON snapshot file.
//
// The snapshot is rewritten on each Update through a temp file that is synced
// and renamed over the previous one, so readers of the file see either the old
// or the new set of documents, never a mix.
package filestore

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/ghuser/stockledger/pkg/logger"
	"github.com/ghuser/stockledger/pkg/store"
)

const snapshotVersion = 1

// snapshot is the on-disk layout.
type snapshot struct {
	Version   int                           `json:"version"`
	SavedAt   time.Time                     `json:"savedAt"`
	Documents map[store.Key]json.RawMessage `json:"documents"`
}

// Store is a store.Store persisted to a single file.
type Store struct {
	mu   sync.RWMutex
	path string
	docs map[store.Key]json.RawMessage
	log  logger.Logger
	now  func() time.Time
}

// Open loads the snapshot at path. A missing or empty file is an empty store.
// A snapshot that cannot be parsed is moved aside to "<path>.corrupt-<unix>"
// and the store starts empty.
func Open(path string, log logger.Logger) (*Store, error) {
	s := &Store{path: path, log: log, now: time.Now}
	snap, err := readSnapshot(path)
	if err != nil {
		aside := fmt.Sprintf("%s.corrupt-%d", path, time.Now().Unix())
		if renameErr := os.Rename(path, aside); renameErr != nil {
			return nil, fmt.Errorf("filestore: unreadable snapshot %s: %w", path, err)
		}
		log.Warn("filestore: corrupt snapshot moved aside, starting empty",
			"path", path, "moved_to", aside, "error", err)
		snap = nil
	}
	s.docs = make(map[store.Key]json.RawMessage)
	if snap != nil {
		for k, v := range snap.Documents {
			s.docs[k] = v
		}
	}
	return s, nil
}

// Get returns a copy of the document at key.
func (s *Store) Get(_ context.Context, key store.Key) ([]byte, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.lookup(key)
}

func (s *Store) lookup(key store.Key) ([]byte, error) {
	doc, ok := s.docs[key]
	if !ok {
		return nil, store.ErrNotFound
	}
	out := make([]byte, len(doc))
	copy(out, doc)
	return out, nil
}

// Update serializes writers with a mutex and rewrites the snapshot once per
// successful call.
func (s *Store) Update(ctx context.Context, fn func(ctx context.Context, tx store.Tx) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	tx := store.NewStagedTx(store.ReaderFunc(func(_ context.Context, key store.Key) ([]byte, error) {
		return s.lookup(key)
	}))
	if err := fn(ctx, tx); err != nil {
		return err
	}
	if tx.Empty() {
		return nil
	}

	next := make(map[store.Key]json.RawMessage, len(s.docs))
	for k, v := range s.docs {
		next[k] = v
	}
	puts, dels := tx.Changes()
	for k, v := range puts {
		if !json.Valid(v) {
			return fmt.Errorf("filestore: %s: %w", k, store.ErrCorrupt)
		}
		next[k] = v
	}
	for _, k := range dels {
		delete(next, k)
	}

	if err := writeSnapshot(s.path, snapshot{
		Version:   snapshotVersion,
		SavedAt:   s.now().UTC(),
		Documents: next,
	}); err != nil {
		return fmt.Errorf("filestore: write snapshot: %w", err)
	}
	s.docs = next
	return nil
}

// Ping checks that the snapshot directory is still accessible.
func (s *Store) Ping(context.Context) error {
	if _, err := os.Stat(filepath.Dir(s.path)); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("filestore: %w", err)
	}
	return nil
}

// Close is a no-op; every Update is already durable.
func (s *Store) Close() error { return nil }

// Path returns the snapshot file location.
func (s *Store) Path() string { return s.path }

func readSnapshot(path string) (*snapshot, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}
	if len(data) == 0 {
		return nil, nil
	}
	var snap snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return nil, err
	}
	return &snap, nil
}

func writeSnapshot(path string, snap snapshot) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	data, err := json.MarshalIndent(snap, "", "  ")
	if err != nil {
		return err
	}

	tmp, err := os.CreateTemp(dir, filepath.Base(path)+".*.tmp")
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name()) //nolint:errcheck // already renamed on success

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		return err
	}
	if err := tmp.Sync(); err != nil {
		_ = tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), path)
}
