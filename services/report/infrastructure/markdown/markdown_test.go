package markdown

import (
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	catalog "github.com/ghuser/stockledger/services/catalog/domain/models"
	ledger "github.com/ghuser/stockledger/services/ledger/domain/models"
	"github.com/ghuser/stockledger/services/report/domain/models"
)

func TestRenderer_Summary(t *testing.T) {
	r := NewRenderer("Acme", DefaultCurrency, time.UTC)
	out := r.Summary(models.Summary{
		ProductCount:      2,
		SalesCount:        1,
		Revenue:           decimal.RequireFromString("1299.99"),
		LowStockThreshold: 5,
		LowStockCount:     1,
		LowStock: []catalog.Product{
			{ID: 3, Name: "Cable | USB-C", Category: "Accessories", Price: decimal.RequireFromString("9.5"), Stock: 2},
		},
		RecentSales: []ledger.Sale{
			{ID: 7, Date: time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC), TotalPrice: decimal.RequireFromString("1299.99")},
		},
	})

	for _, want := range []string{
		"# Acme",
		"| 2 | 1 | $1,299.99 | 1 |",
		"| 7 | 2024-03-01 | Walk-in Customer | 0 | $1,299.99 |",
		"## Low stock (below 5)",
		`Cable \| USB-C`,
		"$9.50",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("missing %q in:\n%s", want, out)
		}
	}
}

func TestRenderer_EmptyReports(t *testing.T) {
	r := NewRenderer("Acme", "", time.UTC)
	sales := r.Sales(models.SalesReport{Window: models.WindowToday, Revenue: decimal.Zero})
	if !strings.Contains(sales, "# Sales report (today)") || !strings.Contains(sales, "_No products sold._") {
		t.Fatalf("unexpected sales report:\n%s", sales)
	}
	inv := r.Inventory(models.InventoryReport{LowStockThreshold: 5})
	if !strings.Contains(inv, "_No products._") || !strings.Contains(inv, "_All products are stocked._") {
		t.Fatalf("unexpected inventory report:\n%s", inv)
	}
}

func TestRenderer_SalesTables(t *testing.T) {
	r := NewRenderer("Acme", DefaultCurrency, time.UTC)
	out := r.Sales(models.SalesReport{
		Window:        models.WindowAll,
		SalesCount:    2,
		Revenue:       decimal.RequireFromString("80"),
		RevenueByDate: []models.DailyRevenue{{Date: "2024-03-01", Amount: decimal.RequireFromString("80")}},
		TopProducts:   []models.TopProduct{{ProductID: 1, Name: "Mug", Quantity: 4, Revenue: decimal.RequireFromString("80")}},
	})
	for _, want := range []string{"2 sales, $80.00 revenue.", "| 2024-03-01 | $80.00 |", "| 1 | Mug | 4 | $80.00 |"} {
		if !strings.Contains(out, want) {
			t.Errorf("missing %q in:\n%s", want, out)
		}
	}
}

func TestRenderer_Invoice(t *testing.T) {
	r := NewRenderer("Acme", DefaultCurrency, time.UTC)
	out := r.Invoice(ledger.Sale{
		ID:   42,
		Date: time.Date(2024, 3, 9, 14, 30, 0, 0, time.UTC),
		Items: []ledger.SaleItem{
			{ProductID: 1, ProductName: "Widget", Quantity: 3, Price: decimal.RequireFromString("20"), Total: decimal.RequireFromString("60")},
		},
		TotalPrice:   decimal.RequireFromString("60"),
		CustomerName: "Ada",
	})

	for _, want := range []string{
		"# Acme",
		"Sale **#42** on 2024-03-09 14:30",
		"Customer: Ada",
		"| Widget | $20.00 | 3 | $60.00 |",
		"**Total: $60.00**",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("missing %q in:\n%s", want, out)
		}
	}
}
