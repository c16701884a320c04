package services

import (
	"testing"

	"github.com/shopspring/decimal"

	"github.com/ghuser/stockledger/services/ledger/domain/models"
)

func TestValidateSale(t *testing.T) {
	two := decimal.NewFromInt(2)
	valid := models.Sale{
		ID:         1,
		Date:       now,
		Items:      []models.SaleItem{{ProductID: 1, Quantity: 1, Price: two, Total: two}},
		TotalPrice: two,
	}
	if err := ValidateSale(valid); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	noisy := models.Sale{
		Date:       now,
		Items:      []models.SaleItem{{ProductID: 1, Quantity: 3, Price: decimal.RequireFromString("19.99"), Total: decimal.RequireFromString("59.970000000000006")}},
		TotalPrice: decimal.RequireFromString("59.970000000000006"),
	}
	if err := ValidateSale(noisy); err != nil {
		t.Fatalf("sub-cent float noise must be accepted: %v", err)
	}

	tests := []struct {
		name string
		sale models.Sale
	}{
		{"no items", models.Sale{Date: now}},
		{"no date", models.Sale{Items: valid.Items, TotalPrice: two}},
		{"bad quantity", models.Sale{Date: now, Items: []models.SaleItem{{ProductID: 1, Quantity: 0}}}},
		{"negative price", models.Sale{Date: now, Items: []models.SaleItem{{ProductID: 1, Quantity: 1, Price: decimal.NewFromInt(-1), Total: decimal.NewFromInt(-1)}}, TotalPrice: decimal.NewFromInt(-1)}},
		{"line total off", models.Sale{Date: now, Items: []models.SaleItem{{ProductID: 1, Quantity: 3, Price: decimal.NewFromInt(20), Total: decimal.NewFromInt(5)}}, TotalPrice: decimal.NewFromInt(5)}},
		{"sale total off", models.Sale{Date: now, Items: []models.SaleItem{{ProductID: 1, Quantity: 3, Price: decimal.NewFromInt(20), Total: decimal.NewFromInt(60)}}, TotalPrice: decimal.NewFromInt(1000)}},
		{"total off by a cent", models.Sale{Date: now, Items: valid.Items, TotalPrice: decimal.RequireFromString("2.01")}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := ValidateSale(tt.sale); err == nil {
				t.Fatal("expected error")
			}
		})
	}
}

func TestReconcileTotals(t *testing.T) {
	in := models.Sale{
		Date: now,
		Items: []models.SaleItem{
			{ProductID: 1, Quantity: 3, Price: decimal.RequireFromString("19.99"), Total: decimal.RequireFromString("59.970000000000006")},
			{ProductID: 2, Quantity: 2, Price: decimal.RequireFromString("1.25"), Total: decimal.RequireFromString("2.5")},
		},
		TotalPrice: decimal.RequireFromString("62.470000000000006"),
	}

	got := ReconcileTotals(in)
	if !got.Items[0].Total.Equal(decimal.RequireFromString("59.97")) || !got.TotalPrice.Equal(decimal.RequireFromString("62.47")) {
		t.Fatalf("totals not recomputed: %+v", got)
	}
	if !in.Items[0].Total.Equal(decimal.RequireFromString("59.970000000000006")) {
		t.Fatal("input must not be modified")
	}
}

func TestAssignMissingSaleIDs(t *testing.T) {
	next := func(floor int64) int64 { return floor + 1 }
	in := []models.Sale{{ID: 0}, {ID: 10}, {ID: 10}, {ID: 3}}

	got := AssignMissingSaleIDs(in, next)
	want := []int64{11, 10, 12, 3}
	for i, id := range want {
		if got[i].ID != id {
			t.Fatalf("position %d: expected %d, got %d", i, id, got[i].ID)
		}
	}
	if in[0].ID != 0 {
		t.Fatal("input must not be modified")
	}
}
