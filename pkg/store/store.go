// Package store persists the system's JSON documents by key.
//
// Every collection (users, products, sales, settings) and the current-user
// handle is one document. Reads return raw JSON; writes happen inside Update,
// which applies all staged puts and deletes together or not at all. Writers are
// serialized by each backend, so an Update sees no concurrent writes between
// its reads and its commit.
package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"

	"github.com/ghuser/stockledger/pkg/logger"
)

// Key names a stored document.
type Key string

// Document keys.
const (
	Users       Key = "users"
	Products    Key = "products"
	Sales       Key = "sales"
	Settings    Key = "settings"
	CurrentUser Key = "currentUser"
)

// Keys lists every document key.
var Keys = []Key{Users, Products, Sales, Settings, CurrentUser}

var (
	// ErrNotFound is returned by Get when no document is stored at the key.
	ErrNotFound = errors.New("document not found")

	// ErrCorrupt indicates a stored document could not be decoded.
	ErrCorrupt = errors.New("document is corrupt")

	// ErrConflict is returned when an Update could not commit because of
	// concurrent writers, after the backend exhausted its retries.
	ErrConflict = errors.New("concurrent update conflict")
)

// Reader reads raw documents.
type Reader interface {
	Get(ctx context.Context, key Key) ([]byte, error)
}

// Tx is the view handed to an Update function. Get observes the writes staged
// earlier in the same Tx.
type Tx interface {
	Reader
	Put(key Key, doc []byte)
	Delete(key Key)
}

// Store is implemented by every backend.
type Store interface {
	Reader
	// Update runs fn and atomically applies what it staged when fn returns nil.
	// When fn returns an error nothing is written and the error is returned.
	// Backends with optimistic concurrency may run fn more than once, so fn
	// must not have side effects outside tx.
	Update(ctx context.Context, fn func(ctx context.Context, tx Tx) error) error
	Ping(ctx context.Context) error
	Close() error
}

// Load decodes the document at key. An absent document yields the zero value.
// A corrupt document is logged and also yields the zero value: a damaged
// collection reads as empty instead of failing every caller.
func Load[T any](ctx context.Context, r Reader, key Key, log logger.Logger) (T, error) {
	var v T
	raw, err := r.Get(ctx, key)
	if errors.Is(err, ErrNotFound) {
		return v, nil
	}
	if err != nil {
		return v, fmt.Errorf("load %s: %w", key, err)
	}
	if err := Decode(raw, &v); err != nil {
		if log != nil {
			log.WarnContext(ctx, "store: corrupt document treated as empty", "key", string(key), "error", err)
		}
		var zero T
		return zero, nil
	}
	return v, nil
}

// View runs fn against a single consistent state of s. It is an Update that
// stages nothing, so every read in fn observes the same commit.
func View(ctx context.Context, s Store, fn func(ctx context.Context, r Reader) error) error {
	return s.Update(ctx, func(ctx context.Context, tx Tx) error {
		return fn(ctx, tx)
	})
}

// Exists reports whether a document is stored at key.
func Exists(ctx context.Context, r Reader, key Key) (bool, error) {
	_, err := r.Get(ctx, key)
	if errors.Is(err, ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("probe %s: %w", key, err)
	}
	return true, nil
}

// Decode unmarshals raw into v, wrapping failures in ErrCorrupt. JSON null is
// accepted and leaves v untouched.
func Decode(raw []byte, v any) error {
	if err := json.Unmarshal(raw, v); err != nil {
		return fmt.Errorf("%w: %w", ErrCorrupt, err)
	}
	return nil
}

// Stage encodes v and stages it at key.
func Stage(tx Tx, key Key, v any) error {
	doc, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encode %s: %w", key, err)
	}
	tx.Put(key, doc)
	return nil
}

// StagedTx buffers writes over a base Reader. Backends build one per Update,
// run the caller's function against it, then apply Changes.
type StagedTx struct {
	base    Reader
	puts    map[Key][]byte
	deletes map[Key]bool
}

// NewStagedTx returns an empty StagedTx reading through to base.
func NewStagedTx(base Reader) *StagedTx {
	return &StagedTx{
		base:    base,
		puts:    make(map[Key][]byte),
		deletes: make(map[Key]bool),
	}
}

// Get returns the staged value for key, falling back to the base Reader.
func (t *StagedTx) Get(ctx context.Context, key Key) ([]byte, error) {
	if t.deletes[key] {
		return nil, ErrNotFound
	}
	if doc, ok := t.puts[key]; ok {
		return clone(doc), nil
	}
	return t.base.Get(ctx, key)
}

// Put stages doc at key. The slice is copied.
func (t *StagedTx) Put(key Key, doc []byte) {
	delete(t.deletes, key)
	t.puts[key] = clone(doc)
}

// Delete stages removal of key.
func (t *StagedTx) Delete(key Key) {
	delete(t.puts, key)
	t.deletes[key] = true
}

// Changes returns the staged puts and deletes. Deletes are sorted.
func (t *StagedTx) Changes() (map[Key][]byte, []Key) {
	dels := make([]Key, 0, len(t.deletes))
	for k := range t.deletes {
		dels = append(dels, k)
	}
	sort.Slice(dels, func(i, j int) bool { return dels[i] < dels[j] })
	return t.puts, dels
}

// Empty reports whether nothing was staged.
func (t *StagedTx) Empty() bool {
	return len(t.puts) == 0 && len(t.deletes) == 0
}

func clone(b []byte) []byte {
	if b == nil {
		return nil
	}
	out := make([]byte, len(b))
	copy(out, b)
	return out
}
