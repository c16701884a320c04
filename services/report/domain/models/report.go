package models

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/ghuser/stockledger/services/report/domain"
)

// Window selects the sales a report covers.
type Window string

// Report windows.
const (
	WindowAll        Window = "all"
	WindowToday      Window = "today"
	WindowLast7Days  Window = "last7days"
	WindowLast30Days Window = "last30days"
)

// ParseWindow accepts the window names plus "", "week" and "month".
func ParseWindow(s string) (Window, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "all":
		return WindowAll, nil
	case "today":
		return WindowToday, nil
	case "last7days", "week":
		return WindowLast7Days, nil
	case "last30days", "month":
		return WindowLast30Days, nil
	}
	return "", fmt.Errorf("%w: %q", domain.ErrInvalidWindow, s)
}

// DailyRevenue is the revenue of one local calendar day.
type DailyRevenue struct {
	Date   string          `json:"date"`
	Amount decimal.Decimal `json:"amount" swaggertype:"number"`
}

// TopProduct aggregates the sold lines of one product.
type TopProduct struct {
	ProductID int64           `json:"productId"`
	Name      string          `json:"name"`
	Quantity  int             `json:"quantity"`
	Revenue   decimal.Decimal `json:"revenue" swaggertype:"number"`
}

// CategoryCount is the number of products in a category.
type CategoryCount struct {
	Category string `json:"category"`
	Count    int    `json:"count"`
}

// Kind selects what a report export contains.
type Kind string

// Export kinds.
const (
	KindSales     Kind = "sales"
	KindInventory Kind = "inventory"
	KindFull      Kind = "full"
)

// ParseKind maps a name to a Kind.
func ParseKind(s string) (Kind, error) {
	switch k := Kind(strings.ToLower(strings.TrimSpace(s))); k {
	case KindSales, KindInventory, KindFull:
		return k, nil
	case "":
		return KindSales, nil
	}
	return "", fmt.Errorf("%w: unknown kind %q", domain.ErrInvalidExport, s)
}
