package api

import (
	"context"

	"github.com/go-chi/chi/v5"

	"github.com/ghuser/stockledger/pkg/app"
	"github.com/ghuser/stockledger/pkg/auth"
	"github.com/ghuser/stockledger/services/ledger/application/handlers"
	appsvcs "github.com/ghuser/stockledger/services/ledger/application/services"
	"github.com/ghuser/stockledger/services/ledger/application/subscribers"
	"github.com/ghuser/stockledger/services/ledger/domain/repositories"
	ledgerdoc "github.com/ghuser/stockledger/services/ledger/infrastructure/persistence/document"
	"github.com/ghuser/stockledger/services/ledger/infrastructure/readmodel"
	systemmodels "github.com/ghuser/stockledger/services/system/domain/models"
	systemdoc "github.com/ghuser/stockledger/services/system/infrastructure/persistence/document"
)

// SaleRoutes registers sale endpoints on the provided chi router.
func SaleRoutes(r chi.Router, a *app.Application) error {
	svcs, err := appsvcs.New(a)
	if err != nil {
		return err
	}
	r.Route("/sales", func(r chi.Router) {
		r.Get("/", handlers.NewListSalesHandler(svcs).Execute)
		r.Post("/", handlers.NewPostSaleHandler(svcs).Execute)
		r.Get("/recent", handlers.NewRecentSalesHandler(svcs).Execute)
		r.Get("/{id}", handlers.NewGetSaleHandler(svcs).Execute)

		r.Group(func(r chi.Router) {
			r.Use(auth.RequireRole(auth.RoleAdmin, a.Logger))
			r.Get("/export", handlers.NewExportSalesHandler(svcs, a.Now).Execute)
		})
	})
	return nil
}

// Subscribe registers the ledger event handlers on a.EventBus. The low-stock
// threshold is read from the stored settings for every event.
func Subscribe(ctx context.Context, a *app.Application) ([]string, error) {
	var readModel repositories.SaleReadModel
	if a.SaleCache != nil {
		readModel = readmodel.NewSaleCache(a.SaleCache)
	}
	settings := systemdoc.NewSettingsRepository(a.Store, a.Logger)
	threshold := func(ctx context.Context) int {
		n, err := settings.LowStockThreshold(ctx)
		if err != nil {
			a.Logger.WarnContext(ctx, "low-stock threshold unavailable, using default", "error", err)
			return systemmodels.DefaultLowStockThreshold
		}
		return n
	}
	ledger := ledgerdoc.NewSaleRepository(a.Store, a.Logger)
	return subscribers.Register(ctx, a.EventBus, readModel, ledger, threshold, a.Logger)
}
