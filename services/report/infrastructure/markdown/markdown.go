// Package markdown renders reports as Markdown for terminal display.
package markdown

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/ghuser/stockledger/pkg/money"
	catalog "github.com/ghuser/stockledger/services/catalog/domain/models"
	ledger "github.com/ghuser/stockledger/services/ledger/domain/models"
	"github.com/ghuser/stockledger/services/report/domain/models"
)

// DefaultCurrency is the currency amounts are displayed in.
const DefaultCurrency = money.DefaultCurrency

// Renderer formats reports for one company.
type Renderer struct {
	company  string
	currency string
	loc      *time.Location
}

// NewRenderer returns a Renderer. loc sets the calendar of sale dates.
func NewRenderer(company, currency string, loc *time.Location) *Renderer {
	if loc == nil {
		loc = time.Local
	}
	return &Renderer{company: company, currency: currency, loc: loc}
}

func (r *Renderer) amount(d decimal.Decimal) string {
	return money.Display(d, r.currency)
}

// cell escapes s for a table cell.
func cell(s string) string {
	s = strings.ReplaceAll(s, "|", `\|`)
	return strings.ReplaceAll(s, "\n", " ")
}

// Summary renders the dashboard overview.
func (r *Renderer) Summary(s models.Summary) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# %s\n\n", cell(r.company))
	fmt.Fprintf(&b, "| Products | Sales | Revenue | Low stock |\n")
	fmt.Fprintf(&b, "|---:|---:|---:|---:|\n")
	fmt.Fprintf(&b, "| %d | %d | %s | %d |\n\n", s.ProductCount, s.SalesCount, r.amount(s.Revenue), s.LowStockCount)

	b.WriteString("## Recent sales\n\n")
	if len(s.RecentSales) == 0 {
		b.WriteString("_No sales yet._\n")
	} else {
		b.WriteString("| ID | Date | Customer | Items | Total |\n")
		b.WriteString("|---:|---|---|---:|---:|\n")
		for _, sale := range s.RecentSales {
			fmt.Fprintf(&b, "| %d | %s | %s | %d | %s |\n",
				sale.ID, sale.Day(r.loc), cell(sale.Customer()), sale.ItemCount(), r.amount(sale.TotalPrice))
		}
	}
	b.WriteString("\n")
	r.lowStock(&b, s.LowStock, s.LowStockThreshold)
	return b.String()
}

// Sales renders a sales report.
func (r *Renderer) Sales(s models.SalesReport) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# Sales report (%s)\n\n", s.Window)
	fmt.Fprintf(&b, "%d sales, %s revenue.\n\n", s.SalesCount, r.amount(s.Revenue))

	b.WriteString("## Revenue by date\n\n")
	if len(s.RevenueByDate) == 0 {
		b.WriteString("_No sales in this period._\n\n")
	} else {
		b.WriteString("| Date | Revenue |\n|---|---:|\n")
		for _, d := range s.RevenueByDate {
			fmt.Fprintf(&b, "| %s | %s |\n", d.Date, r.amount(d.Amount))
		}
		b.WriteString("\n")
	}

	b.WriteString("## Top products\n\n")
	if len(s.TopProducts) == 0 {
		b.WriteString("_No products sold._\n")
		return b.String()
	}
	b.WriteString("| # | Product | Quantity | Revenue |\n|---:|---|---:|---:|\n")
	for i, p := range s.TopProducts {
		fmt.Fprintf(&b, "| %d | %s | %d | %s |\n", i+1, cell(p.Name), p.Quantity, r.amount(p.Revenue))
	}
	return b.String()
}

// Inventory renders an inventory report.
func (r *Renderer) Inventory(s models.InventoryReport) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# Inventory report\n\n%d products.\n\n", s.ProductCount)

	b.WriteString("## Categories\n\n")
	if len(s.Categories) == 0 {
		b.WriteString("_No products._\n\n")
	} else {
		b.WriteString("| Category | Products |\n|---|---:|\n")
		for _, c := range s.Categories {
			fmt.Fprintf(&b, "| %s | %d |\n", cell(c.Category), c.Count)
		}
		b.WriteString("\n")
	}
	r.lowStock(&b, s.LowStock, s.LowStockThreshold)
	return b.String()
}

// Invoice renders the receipt of one committed sale.
func (r *Renderer) Invoice(s ledger.Sale) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# %s\n\n", cell(r.company))
	fmt.Fprintf(&b, "Sale **#%d** on %s  \nCustomer: %s\n\n",
		s.ID, s.Date.In(r.loc).Format("2006-01-02 15:04"), cell(s.Customer()))
	b.WriteString("| Product | Price | Qty | Total |\n|---|---:|---:|---:|\n")
	for _, it := range s.Items {
		fmt.Fprintf(&b, "| %s | %s | %d | %s |\n", cell(it.ProductName), r.amount(it.Price), it.Quantity, r.amount(it.Total))
	}
	fmt.Fprintf(&b, "\n**Total: %s**\n", r.amount(s.TotalPrice))
	return b.String()
}

func (r *Renderer) lowStock(b *strings.Builder, products []catalog.Product, threshold int) {
	fmt.Fprintf(b, "## Low stock (below %d)\n\n", threshold)
	if len(products) == 0 {
		b.WriteString("_All products are stocked._\n")
		return
	}
	b.WriteString("| ID | Product | Category | Price | Stock |\n|---:|---|---|---:|---:|\n")
	for _, p := range products {
		fmt.Fprintf(b, "| %d | %s | %s | %s | %d |\n", p.ID, cell(p.Name), cell(p.Category), r.amount(p.Price), p.Stock)
	}
}
