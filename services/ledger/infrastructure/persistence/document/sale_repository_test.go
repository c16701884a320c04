package document

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/ghuser/stockledger/pkg/logger"
	"github.com/ghuser/stockledger/pkg/store"
	catalog "github.com/ghuser/stockledger/services/catalog/domain/models"
	catalogdoc "github.com/ghuser/stockledger/services/catalog/infrastructure/persistence/document"
	"github.com/ghuser/stockledger/services/ledger/domain/models"
)

func seedProducts(t *testing.T, s store.Store) {
	t.Helper()
	err := s.Update(context.Background(), func(_ context.Context, tx store.Tx) error {
		return catalogdoc.StageProducts(tx, []catalog.Product{{ID: 1, Name: "Desk", Category: "F", Price: decimal.NewFromInt(20), Stock: 10}})
	})
	if err != nil {
		t.Fatalf("seed: %v", err)
	}
}

func TestSaleRepository_CommitWritesBoth(t *testing.T) {
	ctx := context.Background()
	s := store.NewMemory()
	seedProducts(t, s)
	repo := NewSaleRepository(s, logger.Discard())

	err := repo.Commit(ctx, func(ps []catalog.Product, sales []models.Sale) ([]catalog.Product, []models.Sale, error) {
		ps[0].Stock = 7
		return ps, append(sales, models.Sale{ID: 5, Date: time.Now().UTC(), TotalPrice: decimal.NewFromInt(60)}), nil
	})
	if err != nil {
		t.Fatalf("Commit: %v", err)
	}

	sales, err := repo.List(ctx)
	if err != nil || len(sales) != 1 || sales[0].ID != 5 {
		t.Fatalf("unexpected sales: %v, %v", sales, err)
	}
	products, _ := catalogdoc.LoadProducts(ctx, s, logger.Discard())
	if products[0].Stock != 7 {
		t.Fatalf("expected stock 7, got %d", products[0].Stock)
	}
}

func TestSaleRepository_CommitErrorWritesNothing(t *testing.T) {
	ctx := context.Background()
	s := store.NewMemory()
	seedProducts(t, s)
	repo := NewSaleRepository(s, logger.Discard())
	boom := errors.New("boom")

	err := repo.Commit(ctx, func(ps []catalog.Product, sales []models.Sale) ([]catalog.Product, []models.Sale, error) {
		ps[0].Stock = 0
		return nil, nil, boom
	})
	if !errors.Is(err, boom) {
		t.Fatalf("expected boom, got %v", err)
	}
	if ok, _ := store.Exists(ctx, s, store.Sales); ok {
		t.Fatal("sales document must not be written")
	}
	products, _ := catalogdoc.LoadProducts(ctx, s, logger.Discard())
	if products[0].Stock != 10 {
		t.Fatalf("stock must be untouched, got %d", products[0].Stock)
	}
}

func TestStageSales_NilIsEmptyArray(t *testing.T) {
	ctx := context.Background()
	s := store.NewMemory()
	if err := s.Update(ctx, func(_ context.Context, tx store.Tx) error { return StageSales(tx, nil) }); err != nil {
		t.Fatalf("Update: %v", err)
	}
	raw, err := s.Get(ctx, store.Sales)
	if err != nil || string(raw) != "[]" {
		t.Fatalf("expected [], got %q, %v", raw, err)
	}
}
