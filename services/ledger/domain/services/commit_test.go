package services

import (
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	catalog "github.com/ghuser/stockledger/services/catalog/domain/models"
	ledgerdomain "github.com/ghuser/stockledger/services/ledger/domain"
	"github.com/ghuser/stockledger/services/ledger/domain/models"
)

var now = time.Date(2024, 3, 9, 12, 0, 0, 0, time.UTC)

func catalogFixture() []catalog.Product {
	return []catalog.Product{
		{ID: 1, Name: "Desk", Category: "Furniture", Price: decimal.RequireFromString("20.00"), Stock: 10},
		{ID: 2, Name: "Pen", Category: "Office", Price: decimal.RequireFromString("0.10"), Stock: 3},
	}
}

func TestCommit_Scenario(t *testing.T) {
	products := catalogFixture()

	sale, next, err := Commit(products, []models.Line{{ProductID: 1, Quantity: 3}}, " Ada ", 99, now)
	if err != nil {
		t.Fatalf("Commit: %v", err)
	}
	if !sale.TotalPrice.Equal(decimal.RequireFromString("60.00")) {
		t.Fatalf("expected total 60.00, got %s", sale.TotalPrice)
	}
	if next[0].Stock != 7 {
		t.Fatalf("expected stock 7, got %d", next[0].Stock)
	}
	if products[0].Stock != 10 {
		t.Fatal("input products must not be modified")
	}
	if sale.ID != 99 || !sale.Date.Equal(now) || sale.CustomerName != "Ada" {
		t.Fatalf("unexpected sale header: %+v", sale)
	}
	it := sale.Items[0]
	if it.ProductName != "Desk" || !it.Price.Equal(products[0].Price) || it.Quantity != 3 {
		t.Fatalf("unexpected snapshot: %+v", it)
	}
}

func TestCommit_TotalsAndStockConservation(t *testing.T) {
	products := catalogFixture()
	lines := []models.Line{
		{ProductID: 2, Quantity: 1},
		{ProductID: 1, Quantity: 2},
		{ProductID: 2, Quantity: 2},
	}

	sale, next, err := Commit(products, lines, "", 1, now)
	if err != nil {
		t.Fatalf("Commit: %v", err)
	}

	sum := decimal.Zero
	for _, it := range sale.Items {
		sum = sum.Add(it.Price.Mul(decimal.NewFromInt(int64(it.Quantity))))
	}
	if !sale.TotalPrice.Equal(sum) {
		t.Fatalf("totalPrice %s != sum of price*qty %s", sale.TotalPrice, sum)
	}
	if len(sale.Items) != 3 || sale.Items[0].ProductID != 2 || sale.Items[1].ProductID != 1 {
		t.Fatalf("items must keep entry order, got %+v", sale.Items)
	}
	if next[0].Stock != 8 || next[1].Stock != 0 {
		t.Fatalf("unexpected stock after: %+v", next)
	}
	if StockAfter(next, 2) != 0 || StockAfter(next, 404) != 0 {
		t.Fatal("StockAfter mismatch")
	}
}

func TestCommit_Rejections(t *testing.T) {
	tests := []struct {
		name  string
		lines []models.Line
		want  error
	}{
		{"empty", nil, ledgerdomain.ErrEmptySale},
		{"zero quantity", []models.Line{{ProductID: 1, Quantity: 0}}, ledgerdomain.ErrInvalidQuantity},
		{"negative quantity", []models.Line{{ProductID: 1, Quantity: -2}}, ledgerdomain.ErrInvalidQuantity},
		{"unknown product", []models.Line{{ProductID: 1, Quantity: 1}, {ProductID: 42, Quantity: 1}}, ledgerdomain.ErrUnknownProduct},
		{"over stock", []models.Line{{ProductID: 2, Quantity: 4}}, ledgerdomain.ErrInsufficientStock},
		{"cumulative over stock", []models.Line{{ProductID: 2, Quantity: 2}, {ProductID: 2, Quantity: 2}}, ledgerdomain.ErrInsufficientStock},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			products := catalogFixture()
			_, next, err := Commit(products, tt.lines, "", 1, now)
			if !errors.Is(err, tt.want) {
				t.Fatalf("expected %v, got %v", tt.want, err)
			}
			if next != nil {
				t.Fatal("a rejected sale must not return products")
			}
			if products[0].Stock != 10 || products[1].Stock != 3 {
				t.Fatal("a rejected sale must not touch stock")
			}
		})
	}
}
