package models

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
)

func sale(id int64, customer string, at time.Time) Sale {
	return Sale{ID: id, CustomerName: customer, Date: at}
}

func TestSale_Customer(t *testing.T) {
	if got := (Sale{}).Customer(); got != WalkInCustomer {
		t.Fatalf("expected %q, got %q", WalkInCustomer, got)
	}
	if got := (Sale{CustomerName: "  Ada "}).Customer(); got != "Ada" {
		t.Fatalf("expected trimmed name, got %q", got)
	}
}

func TestSale_Equal(t *testing.T) {
	at := time.Date(2024, 3, 9, 12, 0, 0, 0, time.UTC)
	a := Sale{ID: 1, Date: at, Items: []SaleItem{{ProductID: 2, Quantity: 1, Price: decimal.RequireFromString("2.50"), Total: decimal.RequireFromString("2.50")}}, TotalPrice: decimal.RequireFromString("2.50")}
	b := Sale{ID: 1, Date: at.In(time.FixedZone("X", 3600)), Items: []SaleItem{{ProductID: 2, Quantity: 1, Price: decimal.RequireFromString("2.5"), Total: decimal.RequireFromString("2.5")}}, TotalPrice: decimal.RequireFromString("2.5")}
	if !a.Equal(b) {
		t.Fatal("same amounts and instant must be equal")
	}
	b.Items[0].Quantity = 2
	if a.Equal(b) {
		t.Fatal("different quantities must not be equal")
	}
	if a.Equal(Sale{ID: 1, Date: at, TotalPrice: a.TotalPrice}) {
		t.Fatal("different items must not be equal")
	}
}

func TestSale_Totals(t *testing.T) {
	s := Sale{Items: []SaleItem{
		{Quantity: 3, Total: decimal.RequireFromString("60.00")},
		{Quantity: 1, Total: decimal.RequireFromString("0.10")},
	}}
	if !s.ComputedTotal().Equal(decimal.RequireFromString("60.10")) {
		t.Fatalf("unexpected total %s", s.ComputedTotal())
	}
	if s.Units() != 4 || s.ItemCount() != 2 {
		t.Fatalf("units=%d items=%d", s.Units(), s.ItemCount())
	}
}

func TestSale_Day(t *testing.T) {
	s := Sale{Date: time.Date(2024, 3, 9, 23, 30, 0, 0, time.UTC)}
	tokyo := time.FixedZone("JST", 9*3600)
	if got := s.Day(time.UTC); got != "2024-03-09" {
		t.Fatalf("utc day = %s", got)
	}
	if got := s.Day(tokyo); got != "2024-03-10" {
		t.Fatalf("local day = %s", got)
	}
}

func TestSearch(t *testing.T) {
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	sales := []Sale{
		sale(1700000000001, "Alice", base),
		sale(1700000000002, "", base.Add(2*time.Hour)),
		sale(1700000000003, "bob", base.Add(time.Hour)),
	}

	tests := []struct {
		q    string
		want []int64
	}{
		{"", []int64{1700000000002, 1700000000003, 1700000000001}},
		{"ALI", []int64{1700000000001}},
		{"0003", []int64{1700000000003}},
		{"nobody", nil},
	}
	for _, tt := range tests {
		t.Run(tt.q, func(t *testing.T) {
			got := Search(sales, tt.q)
			if len(got) != len(tt.want) {
				t.Fatalf("expected %d results, got %d", len(tt.want), len(got))
			}
			for i, id := range tt.want {
				if got[i].ID != id {
					t.Fatalf("result %d: expected %d, got %d", i, id, got[i].ID)
				}
			}
		})
	}
	if sales[0].ID != 1700000000001 {
		t.Fatal("Search must not reorder its input")
	}
}
