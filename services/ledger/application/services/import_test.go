package services

import (
	"errors"
	"testing"

	"github.com/shopspring/decimal"

	ledgerdomain "github.com/ghuser/stockledger/services/ledger/domain"
)

func nextAfter(floor int64) int64 { return floor + 1 }

func TestDecodeImportedSales(t *testing.T) {
	data := []byte(`[
		{"id": 5, "date": "2024-03-09T12:00:00.000Z", "items": [{"productId": 1, "productName": "Desk", "quantity": 3, "price": 20, "total": 60}], "totalPrice": 60, "customerName": "Ada"},
		{"date": "2024-03-10T08:00:00Z", "items": [{"productId": 2, "quantity": 2, "price": "1.25"}]}
	]`)

	sales, err := DecodeImportedSales(data, nextAfter)
	if err != nil {
		t.Fatalf("DecodeImportedSales: %v", err)
	}
	if len(sales) != 2 {
		t.Fatalf("expected 2 sales, got %d", len(sales))
	}
	if sales[0].ID != 5 || sales[0].CustomerName != "Ada" || !sales[0].TotalPrice.Equal(decimal.NewFromInt(60)) {
		t.Fatalf("unexpected first sale: %+v", sales[0])
	}
	if sales[1].ID != 6 {
		t.Fatalf("missing id must be assigned above the max, got %d", sales[1].ID)
	}
	if !sales[1].Items[0].Total.Equal(decimal.RequireFromString("2.50")) || !sales[1].TotalPrice.Equal(decimal.RequireFromString("2.5")) {
		t.Fatalf("totals must be computed when absent: %+v", sales[1])
	}
}

func TestDecodeImportedSales_ReconcilesTotals(t *testing.T) {
	data := []byte(`[{"date": "2024-03-09T12:00:00Z", "items": [{"productId": 1, "quantity": 3, "price": 19.99, "total": 59.970000000000006}], "totalPrice": 59.970000000000006}]`)

	sales, err := DecodeImportedSales(data, nextAfter)
	if err != nil {
		t.Fatalf("DecodeImportedSales: %v", err)
	}
	want := decimal.RequireFromString("59.97")
	if !sales[0].Items[0].Total.Equal(want) || !sales[0].TotalPrice.Equal(want) {
		t.Fatalf("stored totals must be the recomputed ones: %+v", sales[0])
	}
}

func TestDecodeImportedSales_Invalid(t *testing.T) {
	tests := []struct {
		name string
		data string
	}{
		{"not json", `{`},
		{"object", `{"items": []}`},
		{"null", `null`},
		{"no items", `[{"date": "2024-03-09T12:00:00Z", "items": []}]`},
		{"missing items", `[{"date": "2024-03-09T12:00:00Z"}]`},
		{"missing date", `[{"items": [{"productId": 1, "quantity": 1, "price": 1}]}]`},
		{"zero quantity", `[{"date": "2024-03-09T12:00:00Z", "items": [{"productId": 1, "quantity": 0, "price": 1}]}]`},
		{"missing price", `[{"date": "2024-03-09T12:00:00Z", "items": [{"productId": 1, "quantity": 1}]}]`},
		{"line total off", `[{"id": 9, "date": "2024-03-09T12:00:00Z", "items": [{"productId": 1, "quantity": 3, "price": 20, "total": 5}], "totalPrice": 1000}]`},
		{"sale total off", `[{"date": "2024-03-09T12:00:00Z", "items": [{"productId": 1, "quantity": 3, "price": 20}], "totalPrice": 1000}]`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := DecodeImportedSales([]byte(tt.data), nextAfter); !errors.Is(err, ledgerdomain.ErrInvalidSale) {
				t.Fatalf("expected ErrInvalidSale, got %v", err)
			}
		})
	}
}
