// Package storetest holds the behavior every store.Store backend must share.
package storetest

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/ghuser/stockledger/pkg/store"
)

// Run exercises s against the Store contract. s must start empty.
func Run(t *testing.T, s store.Store) {
	t.Helper()
	ctx := context.Background()

	t.Run("get missing key", func(t *testing.T) {
		if _, err := s.Get(ctx, store.Settings); !errors.Is(err, store.ErrNotFound) {
			t.Fatalf("expected ErrNotFound, got %v", err)
		}
	})

	t.Run("update commits every staged write", func(t *testing.T) {
		err := s.Update(ctx, func(_ context.Context, tx store.Tx) error {
			tx.Put(store.Products, []byte(`[{"id":1}]`))
			tx.Put(store.Sales, []byte(`[{"id":2}]`))
			return nil
		})
		if err != nil {
			t.Fatalf("update: %v", err)
		}
		for _, key := range []store.Key{store.Products, store.Sales} {
			if _, err := s.Get(ctx, key); err != nil {
				t.Fatalf("get %s: %v", key, err)
			}
		}
	})

	t.Run("failed update writes nothing", func(t *testing.T) {
		boom := errors.New("boom")
		err := s.Update(ctx, func(_ context.Context, tx store.Tx) error {
			tx.Put(store.Products, []byte(`[]`))
			tx.Put(store.Settings, []byte(`{}`))
			return boom
		})
		if !errors.Is(err, boom) {
			t.Fatalf("expected boom, got %v", err)
		}
		doc, err := s.Get(ctx, store.Products)
		if err != nil {
			t.Fatalf("get products: %v", err)
		}
		if string(doc) != `[{"id":1}]` && string(doc) != `[{"id": 1}]` {
			t.Fatalf("products changed by failed update: %s", doc)
		}
		if _, err := s.Get(ctx, store.Settings); !errors.Is(err, store.ErrNotFound) {
			t.Fatalf("settings written by failed update: %v", err)
		}
	})

	t.Run("tx reads its own writes", func(t *testing.T) {
		err := s.Update(ctx, func(ctx context.Context, tx store.Tx) error {
			tx.Put(store.CurrentUser, []byte(`{"id":1}`))
			if _, err := tx.Get(ctx, store.CurrentUser); err != nil {
				t.Errorf("staged put not visible: %v", err)
			}
			tx.Delete(store.CurrentUser)
			if _, err := tx.Get(ctx, store.CurrentUser); !errors.Is(err, store.ErrNotFound) {
				t.Errorf("staged delete not visible: %v", err)
			}
			return nil
		})
		if err != nil {
			t.Fatalf("update: %v", err)
		}
		if _, err := s.Get(ctx, store.CurrentUser); !errors.Is(err, store.ErrNotFound) {
			t.Fatalf("expected currentUser absent, got %v", err)
		}
	})

	t.Run("delete removes document", func(t *testing.T) {
		err := s.Update(ctx, func(_ context.Context, tx store.Tx) error {
			tx.Delete(store.Sales)
			return nil
		})
		if err != nil {
			t.Fatalf("update: %v", err)
		}
		if _, err := s.Get(ctx, store.Sales); !errors.Is(err, store.ErrNotFound) {
			t.Fatalf("expected ErrNotFound, got %v", err)
		}
	})

	t.Run("updates are serialized", func(t *testing.T) {
		if err := s.Update(ctx, func(_ context.Context, tx store.Tx) error {
			return store.Stage(tx, store.Settings, map[string]int{"n": 0})
		}); err != nil {
			t.Fatalf("seed counter: %v", err)
		}

		const writers = 10
		var wg sync.WaitGroup
		for i := 0; i < writers; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				err := s.Update(ctx, func(ctx context.Context, tx store.Tx) error {
					counter, err := store.Load[map[string]int](ctx, tx, store.Settings, nil)
					if err != nil {
						return err
					}
					counter["n"]++
					return store.Stage(tx, store.Settings, counter)
				})
				if err != nil {
					t.Errorf("increment: %v", err)
				}
			}()
		}
		wg.Wait()

		counter, err := store.Load[map[string]int](ctx, s, store.Settings, nil)
		if err != nil {
			t.Fatalf("load: %v", err)
		}
		if counter["n"] != writers {
			t.Fatalf("expected %d increments, got %d", writers, counter["n"])
		}
	})

	t.Run("view reads one state", func(t *testing.T) {
		stage := func(n int) error {
			return s.Update(ctx, func(_ context.Context, tx store.Tx) error {
				if err := store.Stage(tx, store.Products, []int{n}); err != nil {
					return err
				}
				return store.Stage(tx, store.Sales, []int{n})
			})
		}
		if err := stage(0); err != nil {
			t.Fatalf("seed: %v", err)
		}

		done := make(chan struct{})
		var wg sync.WaitGroup
		wg.Add(1)
		go func() {
			defer wg.Done()
			for n := 1; ; n++ {
				select {
				case <-done:
					return
				default:
				}
				if err := stage(n); err != nil {
					t.Errorf("stage %d: %v", n, err)
					return
				}
			}
		}()

		for i := 0; i < 20; i++ {
			var products, sales []int
			err := store.View(ctx, s, func(ctx context.Context, r store.Reader) error {
				var err error
				if products, err = store.Load[[]int](ctx, r, store.Products, nil); err != nil {
					return err
				}
				sales, err = store.Load[[]int](ctx, r, store.Sales, nil)
				return err
			})
			if err != nil {
				t.Fatalf("view: %v", err)
			}
			if len(products) != 1 || len(sales) != 1 || products[0] != sales[0] {
				t.Fatalf("view mixed two commits: products %v, sales %v", products, sales)
			}
		}
		close(done)
		wg.Wait()
	})

	t.Run("ping", func(t *testing.T) {
		if err := s.Ping(ctx); err != nil {
			t.Fatalf("ping: %v", err)
		}
	})
}
