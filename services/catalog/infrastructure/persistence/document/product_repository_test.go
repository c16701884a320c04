package document

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/ghuser/stockledger/pkg/logger"
	"github.com/ghuser/stockledger/pkg/store"
	"github.com/ghuser/stockledger/services/catalog/domain/models"
)

func TestProductRepository_MutateAndList(t *testing.T) {
	ctx := context.Background()
	s := store.NewMemory()
	repo := NewProductRepository(s, logger.Discard())

	got, err := repo.List(ctx)
	if err != nil || len(got) != 0 {
		t.Fatalf("expected empty list, got %v, %v", got, err)
	}

	err = repo.Mutate(ctx, func(ps []models.Product) ([]models.Product, error) {
		return append(ps, models.Product{ID: 1, Name: "Mug", Category: "Kitchen", Price: decimal.NewFromInt(4), Stock: 2}), nil
	})
	if err != nil {
		t.Fatalf("Mutate: %v", err)
	}

	got, err = repo.List(ctx)
	if err != nil || len(got) != 1 || got[0].Name != "Mug" {
		t.Fatalf("unexpected list: %v, %v", got, err)
	}
}

func TestProductRepository_MutateErrorWritesNothing(t *testing.T) {
	ctx := context.Background()
	s := store.NewMemory()
	repo := NewProductRepository(s, logger.Discard())
	boom := errors.New("boom")

	err := repo.Mutate(ctx, func(ps []models.Product) ([]models.Product, error) {
		return append(ps, models.Product{ID: 1}), boom
	})
	if !errors.Is(err, boom) {
		t.Fatalf("expected boom, got %v", err)
	}
	if ok, _ := store.Exists(ctx, s, store.Products); ok {
		t.Fatal("failed mutate must not write the document")
	}
}

func TestProductRepository_EmptyStoredAsArray(t *testing.T) {
	ctx := context.Background()
	s := store.NewMemory()
	repo := NewProductRepository(s, logger.Discard())

	if err := repo.Mutate(ctx, func([]models.Product) ([]models.Product, error) { return nil, nil }); err != nil {
		t.Fatalf("Mutate: %v", err)
	}
	raw, err := s.Get(ctx, store.Products)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if string(raw) != "[]" {
		t.Fatalf("expected [], got %s", raw)
	}
}

func TestProductRepository_CorruptReadsEmpty(t *testing.T) {
	ctx := context.Background()
	s := store.NewMemory()
	_ = s.Update(ctx, func(_ context.Context, tx store.Tx) error {
		tx.Put(store.Products, []byte("{not json"))
		return nil
	})
	got, err := NewProductRepository(s, logger.Discard()).List(ctx)
	if err != nil || len(got) != 0 {
		t.Fatalf("expected corrupt document to read as empty, got %v, %v", got, err)
	}
}

func TestProductRepository_SeedIfAbsent(t *testing.T) {
	ctx := context.Background()
	s := store.NewMemory()
	repo := NewProductRepository(s, logger.Discard())

	wrote, err := repo.SeedIfAbsent(ctx, models.DefaultProducts())
	if err != nil || !wrote {
		t.Fatalf("expected first seed to write, got %v, %v", wrote, err)
	}
	wrote, err = repo.SeedIfAbsent(ctx, models.DefaultProducts())
	if err != nil || wrote {
		t.Fatalf("expected second seed to be a no-op, got %v, %v", wrote, err)
	}

	// An emptied collection is present and must not be reseeded.
	_ = repo.Mutate(ctx, func([]models.Product) ([]models.Product, error) { return nil, nil })
	if wrote, _ := repo.SeedIfAbsent(ctx, models.DefaultProducts()); wrote {
		t.Fatal("empty collection must not be reseeded")
	}
}
