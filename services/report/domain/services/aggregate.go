// Package services holds the report aggregators. Every function is pure: the
// snapshots, the clock reading and the location are arguments, and inputs are
// never modified.
package services

import (
	"sort"
	"time"

	"github.com/shopspring/decimal"

	catalog "github.com/ghuser/stockledger/services/catalog/domain/models"
	ledger "github.com/ghuser/stockledger/services/ledger/domain/models"
	"github.com/ghuser/stockledger/services/report/domain/models"
)

// DefaultTopProducts is the length of the top products table.
const DefaultTopProducts = 5

// FilterByWindow returns the sales inside window, in their input order.
// Bounds are inclusive; today is the local calendar day of now in loc.
func FilterByWindow(sales []ledger.Sale, window models.Window, now time.Time, loc *time.Location) []ledger.Sale {
	out := make([]ledger.Sale, 0, len(sales))
	if window == models.WindowAll || window == "" {
		return append(out, sales...)
	}

	var from time.Time
	switch window {
	case models.WindowToday:
		today := now.In(loc).Format(time.DateOnly)
		for _, s := range sales {
			if s.Day(loc) == today {
				out = append(out, s)
			}
		}
		return out
	case models.WindowLast7Days:
		from = now.AddDate(0, 0, -7)
	case models.WindowLast30Days:
		from = now.AddDate(0, 0, -30)
	default:
		return out
	}
	for _, s := range sales {
		if !s.Date.Before(from) {
			out = append(out, s)
		}
	}
	return out
}

// RevenueByDate sums sale totals per local calendar day, oldest day first.
func RevenueByDate(sales []ledger.Sale, loc *time.Location) []models.DailyRevenue {
	byDay := make(map[string]decimal.Decimal)
	for _, s := range sales {
		day := s.Day(loc)
		byDay[day] = byDay[day].Add(s.TotalPrice)
	}
	out := make([]models.DailyRevenue, 0, len(byDay))
	for day, amount := range byDay {
		out = append(out, models.DailyRevenue{Date: day, Amount: amount})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date < out[j].Date })
	return out
}

// TopProducts groups sold lines by product and returns at most n groups by
// revenue descending. Ties keep the order in which products were first seen.
// The name is the one on the first line seen.
func TopProducts(sales []ledger.Sale, n int) []models.TopProduct {
	if n <= 0 {
		return []models.TopProduct{}
	}
	index := make(map[int64]int)
	var groups []models.TopProduct
	for _, s := range sales {
		for _, it := range s.Items {
			i, ok := index[it.ProductID]
			if !ok {
				i = len(groups)
				index[it.ProductID] = i
				groups = append(groups, models.TopProduct{ProductID: it.ProductID, Name: it.ProductName})
			}
			groups[i].Quantity += it.Quantity
			groups[i].Revenue = groups[i].Revenue.Add(it.Total)
		}
	}
	sort.SliceStable(groups, func(i, j int) bool { return groups[i].Revenue.GreaterThan(groups[j].Revenue) })
	if len(groups) > n {
		groups = groups[:n]
	}
	if groups == nil {
		groups = []models.TopProduct{}
	}
	return groups
}

// CategoryDistribution counts products per category, sorted by category.
func CategoryDistribution(products []catalog.Product) []models.CategoryCount {
	counts := make(map[string]int)
	for _, p := range products {
		counts[p.Category]++
	}
	out := make([]models.CategoryCount, 0, len(counts))
	for c, n := range counts {
		out = append(out, models.CategoryCount{Category: c, Count: n})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Category < out[j].Category })
	return out
}

// LowStock returns the products with stock below threshold, in input order.
func LowStock(products []catalog.Product, threshold int) []catalog.Product {
	out := make([]catalog.Product, 0)
	for _, p := range products {
		if p.LowStock(threshold) {
			out = append(out, p)
		}
	}
	return out
}

// Revenue sums the totals of sales.
func Revenue(sales []ledger.Sale) decimal.Decimal {
	total := decimal.Zero
	for _, s := range sales {
		total = total.Add(s.TotalPrice)
	}
	return total
}
