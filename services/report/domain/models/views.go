package models

import (
	"github.com/shopspring/decimal"

	catalog "github.com/ghuser/stockledger/services/catalog/domain/models"
	ledger "github.com/ghuser/stockledger/services/ledger/domain/models"
)

// Summary is the dashboard overview.
type Summary struct {
	CompanyName       string            `json:"companyName"`
	ProductCount      int               `json:"productCount"`
	SalesCount        int               `json:"salesCount"`
	Revenue           decimal.Decimal   `json:"revenue" swaggertype:"number"`
	LowStockThreshold int               `json:"lowStockThreshold"`
	LowStockCount     int               `json:"lowStockCount"`
	LowStock          []catalog.Product `json:"lowStock"`
	RecentSales       []ledger.Sale     `json:"recentSales"`
}

// SalesReport aggregates the sales of one window.
type SalesReport struct {
	Window        Window          `json:"window"`
	SalesCount    int             `json:"salesCount"`
	Revenue       decimal.Decimal `json:"revenue" swaggertype:"number"`
	RevenueByDate []DailyRevenue  `json:"revenueByDate"`
	TopProducts   []TopProduct    `json:"topProducts"`
}

// InventoryReport describes the catalog.
type InventoryReport struct {
	ProductCount      int               `json:"productCount"`
	Categories        []CategoryCount   `json:"categories"`
	LowStockThreshold int               `json:"lowStockThreshold"`
	LowStock          []catalog.Product `json:"lowStock"`
}

// FullExport is the JSON export of the full report kind.
type FullExport struct {
	Sales    []ledger.Sale     `json:"sales"`
	Products []catalog.Product `json:"products"`
}
