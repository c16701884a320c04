package models

import (
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/ghuser/stockledger/pkg/money"
)

// WalkInCustomer is displayed for sales recorded without a customer name.
const WalkInCustomer = "Walk-in Customer"

// SaleItem snapshots a product at the moment it was sold. Later edits to the
// product never change it.
type SaleItem struct {
	ProductID   int64           `json:"productId"`
	ProductName string          `json:"productName"`
	Quantity    int             `json:"quantity"`
	Price       decimal.Decimal `json:"price"`
	Total       decimal.Decimal `json:"total"`
}

// Sale is an immutable ledger entry. Its JSON form is the stored document shape.
type Sale struct {
	ID           int64           `json:"id"`
	Date         time.Time       `json:"date"`
	Items        []SaleItem      `json:"items"`
	TotalPrice   decimal.Decimal `json:"totalPrice"`
	CustomerName string          `json:"customerName,omitempty"`
}

// Line is one requested product and quantity of a sale being committed.
type Line struct {
	ProductID int64
	Quantity  int
}

// Customer returns the customer name, or WalkInCustomer when none was given.
func (s Sale) Customer() string {
	if name := strings.TrimSpace(s.CustomerName); name != "" {
		return name
	}
	return WalkInCustomer
}

// ItemCount is the number of lines on the sale.
func (s Sale) ItemCount() int { return len(s.Items) }

// Units is the total quantity sold.
func (s Sale) Units() int {
	n := 0
	for _, it := range s.Items {
		n += it.Quantity
	}
	return n
}

// Equal reports whether s and o record the same sale. Amounts compare by
// value and dates by instant.
func (s Sale) Equal(o Sale) bool {
	if s.ID != o.ID || !s.Date.Equal(o.Date) || s.CustomerName != o.CustomerName ||
		!s.TotalPrice.Equal(o.TotalPrice) || len(s.Items) != len(o.Items) {
		return false
	}
	for i, it := range s.Items {
		ot := o.Items[i]
		if it.ProductID != ot.ProductID || it.ProductName != ot.ProductName || it.Quantity != ot.Quantity ||
			!it.Price.Equal(ot.Price) || !it.Total.Equal(ot.Total) {
			return false
		}
	}
	return true
}

// ComputedTotal sums the line totals.
func (s Sale) ComputedTotal() decimal.Decimal {
	totals := make([]decimal.Decimal, 0, len(s.Items))
	for _, it := range s.Items {
		totals = append(totals, it.Total)
	}
	return money.Sum(totals...)
}

// Day returns the local calendar day of the sale in loc.
func (s Sale) Day(loc *time.Location) string {
	return s.Date.In(loc).Format(time.DateOnly)
}

// Matches reports whether q is a substring of the id or a case-insensitive
// substring of the customer name. An empty query matches every sale.
func (s Sale) Matches(q string) bool {
	q = strings.TrimSpace(q)
	if q == "" {
		return true
	}
	if strings.Contains(strconv.FormatInt(s.ID, 10), q) {
		return true
	}
	return strings.Contains(strings.ToLower(s.CustomerName), strings.ToLower(q))
}

// Search returns the sales matching q, newest first.
func Search(sales []Sale, q string) []Sale {
	out := make([]Sale, 0, len(sales))
	for _, s := range sales {
		if s.Matches(q) {
			out = append(out, s)
		}
	}
	NewestFirst(out)
	return out
}

// NewestFirst sorts sales by date descending, keeping stored order on ties.
func NewestFirst(sales []Sale) {
	sort.SliceStable(sales, func(i, j int) bool { return sales[i].Date.After(sales[j].Date) })
}

// Find returns the index of the sale with id, or -1.
func Find(sales []Sale, id int64) int {
	for i, s := range sales {
		if s.ID == id {
			return i
		}
	}
	return -1
}

// SaleID is the id accessor used with ids.Max.
func SaleID(s Sale) int64 { return s.ID }
