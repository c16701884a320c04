package services

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"

	catalog "github.com/ghuser/stockledger/services/catalog/domain/models"
	ledger "github.com/ghuser/stockledger/services/ledger/domain/models"
	"github.com/ghuser/stockledger/services/report/domain/models"
)

var now = time.Date(2024, 3, 9, 12, 0, 0, 0, time.UTC)

func d(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func item(pid int64, name string, qty int, total string) ledger.SaleItem {
	return ledger.SaleItem{ProductID: pid, ProductName: name, Quantity: qty, Total: d(total)}
}

func TestFilterByWindow(t *testing.T) {
	sales := []ledger.Sale{
		{ID: 1, Date: now.Add(-time.Hour)},
		{ID: 2, Date: now.AddDate(0, 0, -1)},
		{ID: 3, Date: now.AddDate(0, 0, -7)},
		{ID: 4, Date: now.AddDate(0, 0, -8)},
		{ID: 5, Date: now.AddDate(0, 0, -30)},
		{ID: 6, Date: now.AddDate(0, 0, -45)},
	}
	tests := []struct {
		window models.Window
		want   []int64
	}{
		{models.WindowAll, []int64{1, 2, 3, 4, 5, 6}},
		{models.WindowToday, []int64{1}},
		{models.WindowLast7Days, []int64{1, 2, 3}},
		{models.WindowLast30Days, []int64{1, 2, 3, 4, 5}},
	}
	for _, tt := range tests {
		t.Run(string(tt.window), func(t *testing.T) {
			got := FilterByWindow(sales, tt.window, now, time.UTC)
			if len(got) != len(tt.want) {
				t.Fatalf("expected %d sales, got %d", len(tt.want), len(got))
			}
			for i, id := range tt.want {
				if got[i].ID != id {
					t.Fatalf("position %d: expected %d, got %d", i, id, got[i].ID)
				}
			}
		})
	}
}

func TestFilterByWindow_TodayUsesLocation(t *testing.T) {
	tokyo := time.FixedZone("JST", 9*3600)
	late := time.Date(2024, 3, 9, 16, 0, 0, 0, time.UTC) // 01:00 on the 10th in Tokyo
	sales := []ledger.Sale{{ID: 1, Date: late}}

	if got := FilterByWindow(sales, models.WindowToday, now, tokyo); len(got) != 0 {
		t.Fatal("sale on the next local day must not count as today")
	}
	if got := FilterByWindow(sales, models.WindowToday, now, time.UTC); len(got) != 1 {
		t.Fatal("sale on the same UTC day must count as today")
	}
}

func TestRevenueByDate_Chronological(t *testing.T) {
	sales := []ledger.Sale{
		{Date: now, TotalPrice: d("10")},
		{Date: now.AddDate(0, 0, -2), TotalPrice: d("5")},
		{Date: now.Add(-time.Hour), TotalPrice: d("2.5")},
	}
	got := RevenueByDate(sales, time.UTC)
	if len(got) != 2 {
		t.Fatalf("expected 2 days, got %+v", got)
	}
	if got[0].Date != "2024-03-07" || !got[0].Amount.Equal(d("5")) {
		t.Fatalf("unexpected first day %+v", got[0])
	}
	if got[1].Date != "2024-03-09" || !got[1].Amount.Equal(d("12.5")) {
		t.Fatalf("unexpected second day %+v", got[1])
	}
}

func TestTopProducts(t *testing.T) {
	sales := []ledger.Sale{
		{Items: []ledger.SaleItem{item(1, "A", 1, "10"), item(2, "B", 2, "30")}},
		{Items: []ledger.SaleItem{item(3, "C", 1, "10"), item(1, "A renamed", 1, "10")}},
		{Items: []ledger.SaleItem{item(4, "D", 1, "5"), item(5, "E", 1, "1"), item(6, "F", 1, "0.5")}},
	}

	got := TopProducts(sales, DefaultTopProducts)
	if len(got) != 5 {
		t.Fatalf("expected 5 groups, got %d", len(got))
	}
	wantIDs := []int64{2, 1, 3, 4, 5}
	for i, id := range wantIDs {
		if got[i].ProductID != id {
			t.Fatalf("position %d: expected product %d, got %d", i, id, got[i].ProductID)
		}
	}
	for i := 1; i < len(got); i++ {
		if got[i].Revenue.GreaterThan(got[i-1].Revenue) {
			t.Fatal("revenue must be non-increasing")
		}
	}
	if got[1].Name != "A" || got[1].Quantity != 2 || !got[1].Revenue.Equal(d("20")) {
		t.Fatalf("unexpected group for product 1: %+v", got[1])
	}
}

func TestTopProducts_Bounds(t *testing.T) {
	sales := []ledger.Sale{{Items: []ledger.SaleItem{item(1, "A", 1, "1")}}}
	if got := TopProducts(sales, 0); len(got) != 0 {
		t.Fatalf("n=0 must return nothing, got %+v", got)
	}
	if got := TopProducts(nil, 5); got == nil || len(got) != 0 {
		t.Fatalf("empty input must return an empty slice, got %#v", got)
	}
}

func TestCategoryDistribution(t *testing.T) {
	products := []catalog.Product{
		{Category: "Office"}, {Category: "Electronics"}, {Category: "Office"},
	}
	got := CategoryDistribution(products)
	want := []models.CategoryCount{{Category: "Electronics", Count: 1}, {Category: "Office", Count: 2}}
	if len(got) != len(want) {
		t.Fatalf("expected %v, got %v", want, got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("expected %v, got %v", want, got)
		}
	}
	if len(CategoryDistribution(nil)) != 0 {
		t.Fatal("empty input must give an empty distribution")
	}
}

func TestLowStock(t *testing.T) {
	products := []catalog.Product{{ID: 1, Stock: 3}, {ID: 2, Stock: 5}, {ID: 3, Stock: 0}, {ID: 4, Stock: 4}}
	got := LowStock(products, 5)
	if len(got) != 3 || got[0].ID != 1 || got[1].ID != 3 || got[2].ID != 4 {
		t.Fatalf("unexpected low stock: %+v", got)
	}

	got = LowStock([]catalog.Product{{ID: 1, Stock: 3}, {ID: 2, Stock: 5}, {ID: 3, Stock: 0}}, 5)
	if len(got) != 2 || got[0].Stock != 3 || got[1].Stock != 0 {
		t.Fatalf("expected stocks 3 and 0, got %+v", got)
	}
}

func TestRevenue(t *testing.T) {
	if !Revenue(nil).Equal(decimal.Zero) {
		t.Fatal("revenue of nothing is zero")
	}
	if got := Revenue([]ledger.Sale{{TotalPrice: d("0.1")}, {TotalPrice: d("0.2")}}); !got.Equal(d("0.3")) {
		t.Fatalf("expected 0.3, got %s", got)
	}
}
