package services

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/ghuser/stockledger/pkg/logger"
	catalog "github.com/ghuser/stockledger/services/catalog/domain/models"
	productcsv "github.com/ghuser/stockledger/services/catalog/infrastructure/csv"
	ledger "github.com/ghuser/stockledger/services/ledger/domain/models"
	salecsv "github.com/ghuser/stockledger/services/ledger/infrastructure/csv"
	"github.com/ghuser/stockledger/services/report/domain"
	"github.com/ghuser/stockledger/services/report/domain/models"
	aggregate "github.com/ghuser/stockledger/services/report/domain/services"
	"github.com/ghuser/stockledger/services/report/infrastructure/markdown"
	system "github.com/ghuser/stockledger/services/system/domain/models"
)

// RecentSales is the number of sales on the dashboard.
const RecentSales = 5

// SnapshotSource reads products, sales and settings from one store state.
type SnapshotSource interface {
	Snapshot(ctx context.Context) (system.Backup, error)
}

// Deps groups the collaborators of a ReportService.
type Deps struct {
	Snapshots SnapshotSource
	Now       func() time.Time
	Location  *time.Location
	Log       logger.Logger
}

// ReportService reads snapshots and hands them to the aggregators.
type ReportService struct {
	snapshots SnapshotSource
	now       func() time.Time
	loc       *time.Location
	log       logger.Logger
}

// NewReportService returns a ReportService wired with d.
func NewReportService(d Deps) *ReportService {
	if d.Now == nil {
		d.Now = time.Now
	}
	if d.Location == nil {
		d.Location = time.Local
	}
	return &ReportService{
		snapshots: d.Snapshots,
		now:       d.Now,
		loc:       d.Location,
		log:       d.Log,
	}
}

type snapshot struct {
	products []catalog.Product
	sales    []ledger.Sale
	settings system.Settings
}

func (s *ReportService) snapshot(ctx context.Context) (snapshot, error) {
	b, err := s.snapshots.Snapshot(ctx)
	if err != nil {
		return snapshot{}, fmt.Errorf("load snapshot: %w", err)
	}
	snap := snapshot{products: b.Products, sales: b.Sales, settings: system.DefaultSettings()}
	if b.Settings != nil {
		snap.settings = *b.Settings
	}
	if snap.products == nil {
		snap.products = []catalog.Product{}
	}
	if snap.sales == nil {
		snap.sales = []ledger.Sale{}
	}
	return snap, nil
}

// Summary returns the dashboard overview.
func (s *ReportService) Summary(ctx context.Context) (models.Summary, error) {
	snap, err := s.snapshot(ctx)
	if err != nil {
		return models.Summary{}, err
	}
	return summaryOf(snap), nil
}

func summaryOf(snap snapshot) models.Summary {
	threshold := snap.settings.Threshold()
	low := aggregate.LowStock(snap.products, threshold)

	recent := ledger.Search(snap.sales, "")
	if len(recent) > RecentSales {
		recent = recent[:RecentSales]
	}
	return models.Summary{
		CompanyName:       snap.settings.CompanyName,
		ProductCount:      len(snap.products),
		SalesCount:        len(snap.sales),
		Revenue:           aggregate.Revenue(snap.sales),
		LowStockThreshold: threshold,
		LowStockCount:     len(low),
		LowStock:          low,
		RecentSales:       recent,
	}
}

// SalesReport aggregates the sales inside window.
func (s *ReportService) SalesReport(ctx context.Context, window models.Window) (models.SalesReport, error) {
	snap, err := s.snapshot(ctx)
	if err != nil {
		return models.SalesReport{}, err
	}
	return s.salesReport(snap, window), nil
}

func (s *ReportService) salesReport(snap snapshot, window models.Window) models.SalesReport {
	sales := aggregate.FilterByWindow(snap.sales, window, s.now(), s.loc)
	return models.SalesReport{
		Window:        window,
		SalesCount:    len(sales),
		Revenue:       aggregate.Revenue(sales),
		RevenueByDate: aggregate.RevenueByDate(sales, s.loc),
		TopProducts:   aggregate.TopProducts(sales, aggregate.DefaultTopProducts),
	}
}

// InventoryReport describes the catalog.
func (s *ReportService) InventoryReport(ctx context.Context) (models.InventoryReport, error) {
	snap, err := s.snapshot(ctx)
	if err != nil {
		return models.InventoryReport{}, err
	}
	return inventoryReport(snap), nil
}

func inventoryReport(snap snapshot) models.InventoryReport {
	threshold := snap.settings.Threshold()
	return models.InventoryReport{
		ProductCount:      len(snap.products),
		Categories:        aggregate.CategoryDistribution(snap.products),
		LowStockThreshold: threshold,
		LowStock:          aggregate.LowStock(snap.products, threshold),
	}
}

// ExportJSON renders the data behind a report as pretty-printed JSON: the
// window's sales, the products, or both.
func (s *ReportService) ExportJSON(ctx context.Context, kind models.Kind, window models.Window) ([]byte, error) {
	snap, err := s.snapshot(ctx)
	if err != nil {
		return nil, err
	}
	sales := aggregate.FilterByWindow(snap.sales, window, s.now(), s.loc)

	var v any
	switch kind {
	case models.KindSales:
		v = sales
	case models.KindInventory:
		v = snap.products
	case models.KindFull:
		v = models.FullExport{Sales: sales, Products: snap.products}
	default:
		return nil, fmt.Errorf("%w: unknown kind %q", domain.ErrInvalidExport, kind)
	}
	return json.MarshalIndent(v, "", "  ")
}

// ExportCSV renders the window's sales or the inventory as CSV. The full kind
// has no CSV form.
func (s *ReportService) ExportCSV(ctx context.Context, kind models.Kind, window models.Window) ([]byte, error) {
	snap, err := s.snapshot(ctx)
	if err != nil {
		return nil, err
	}
	switch kind {
	case models.KindSales:
		sales := aggregate.FilterByWindow(snap.sales, window, s.now(), s.loc)
		return salecsv.EncodeSales(sales, salecsv.FlavorReport, s.loc), nil
	case models.KindInventory:
		return productcsv.EncodeProducts(snap.products, productcsv.PriceFixed), nil
	}
	return nil, fmt.Errorf("%w: %s report has no CSV form", domain.ErrInvalidExport, kind)
}

// Markdown renders a report as a Markdown document. The sales kind uses
// window; the full kind renders the summary and both reports.
func (s *ReportService) Markdown(ctx context.Context, kind models.Kind, window models.Window) (string, error) {
	snap, err := s.snapshot(ctx)
	if err != nil {
		return "", err
	}
	r := markdown.NewRenderer(snap.settings.CompanyName, markdown.DefaultCurrency, s.loc)
	switch kind {
	case models.KindSales:
		return r.Sales(s.salesReport(snap, window)), nil
	case models.KindInventory:
		return r.Inventory(inventoryReport(snap)), nil
	case models.KindFull:
		return r.Summary(summaryOf(snap)) + "\n" + r.Sales(s.salesReport(snap, window)) + "\n" + r.Inventory(inventoryReport(snap)), nil
	}
	return "", fmt.Errorf("%w: unknown kind %q", domain.ErrInvalidExport, kind)
}

// Filename returns the download name of a report export.
func Filename(kind models.Kind, ext string, day time.Time) string {
	return fmt.Sprintf("%s-report-%s.%s", kind, day.Format(time.DateOnly), ext)
}

// Now returns the service clock reading.
func (s *ReportService) Now() time.Time { return s.now() }
