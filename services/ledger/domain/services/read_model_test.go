package services

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/ghuser/stockledger/services/ledger/domain/models"
)

type mapReadModel map[int64]models.Sale

func (m mapReadModel) Get(_ context.Context, id int64) (models.Sale, bool, error) {
	s, ok := m[id]
	return s, ok, nil
}

func (m mapReadModel) Put(_ context.Context, s models.Sale) error {
	m[s.ID] = s
	return nil
}

func (m mapReadModel) Delete(_ context.Context, id int64) error {
	delete(m, id)
	return nil
}

type listFunc func() ([]models.Sale, error)

func (f listFunc) List(context.Context) ([]models.Sale, error) { return f() }

func TestWarmReadModel(t *testing.T) {
	sale := models.Sale{
		ID:         9,
		Date:       now,
		Items:      []models.SaleItem{{ProductID: 1, Quantity: 2, Price: decimal.NewFromInt(5), Total: decimal.NewFromInt(10)}},
		TotalPrice: decimal.NewFromInt(10),
	}
	replaced := sale
	replaced.CustomerName = "Imported"

	tests := []struct {
		name    string
		ledger  listFunc
		kept    bool
		wantErr bool
	}{
		{"still in the ledger", func() ([]models.Sale, error) { return []models.Sale{sale}, nil }, true, false},
		{"ledger was reset", func() ([]models.Sale, error) { return nil, nil }, false, false},
		{"id reused by an import", func() ([]models.Sale, error) { return []models.Sale{replaced}, nil }, false, false},
		{"ledger unreadable", func() ([]models.Sale, error) { return nil, errors.New("disk gone") }, false, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rm := mapReadModel{}
			kept, err := WarmReadModel(context.Background(), rm, tt.ledger, sale)
			if (err != nil) != tt.wantErr {
				t.Fatalf("unexpected error: %v", err)
			}
			if kept != tt.kept {
				t.Fatalf("expected kept=%v, got %v", tt.kept, kept)
			}
			if _, ok := rm[sale.ID]; ok != tt.kept {
				t.Fatalf("cache entry present=%v, expected %v", ok, tt.kept)
			}
		})
	}
}
