package store

import (
	"context"
	"sync"
)

// Memory is a map-backed Store. It is used by tests and by STORE_BACKEND=memory.
type Memory struct {
	mu   sync.RWMutex
	docs map[Key][]byte
}

// NewMemory returns an empty Memory store.
func NewMemory() *Memory {
	return &Memory{docs: make(map[Key][]byte)}
}

// Get returns a copy of the document at key.
func (m *Memory) Get(_ context.Context, key Key) ([]byte, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	doc, ok := m.docs[key]
	if !ok {
		return nil, ErrNotFound
	}
	return clone(doc), nil
}

// Update holds the write lock for the duration of fn.
func (m *Memory) Update(ctx context.Context, fn func(ctx context.Context, tx Tx) error) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	tx := NewStagedTx(readerFunc(func(_ context.Context, key Key) ([]byte, error) {
		doc, ok := m.docs[key]
		if !ok {
			return nil, ErrNotFound
		}
		return clone(doc), nil
	}))
	if err := fn(ctx, tx); err != nil {
		return err
	}

	puts, dels := tx.Changes()
	for k, v := range puts {
		m.docs[k] = v
	}
	for _, k := range dels {
		delete(m.docs, k)
	}
	return nil
}

// Ping always succeeds.
func (m *Memory) Ping(context.Context) error { return nil }

// Close is a no-op.
func (m *Memory) Close() error { return nil }

type readerFunc func(ctx context.Context, key Key) ([]byte, error)

func (f readerFunc) Get(ctx context.Context, key Key) ([]byte, error) { return f(ctx, key) }

// ReaderFunc adapts a function to the Reader interface.
func ReaderFunc(f func(ctx context.Context, key Key) ([]byte, error)) Reader {
	return readerFunc(f)
}
