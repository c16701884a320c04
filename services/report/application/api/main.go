package api

import (
	"github.com/go-chi/chi/v5"

	"github.com/ghuser/stockledger/pkg/app"
	"github.com/ghuser/stockledger/services/report/application/handlers"
	appsvcs "github.com/ghuser/stockledger/services/report/application/services"
)

// ReportRoutes registers /reports endpoints. Reports are open to every
// signed-in user.
func ReportRoutes(r chi.Router, a *app.Application) {
	svcs := appsvcs.New(a)
	r.Route("/reports", func(r chi.Router) {
		r.Get("/summary", handlers.NewSummaryHandler(svcs).Execute)
		r.Get("/sales", handlers.NewSalesReportHandler(svcs).Execute)
		r.Get("/inventory", handlers.NewInventoryReportHandler(svcs).Execute)
		r.Get("/export", handlers.NewExportReportHandler(svcs).Execute)
	})
}
