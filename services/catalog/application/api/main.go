package api

import (
	"github.com/go-chi/chi/v5"

	"github.com/ghuser/stockledger/pkg/app"
	"github.com/ghuser/stockledger/pkg/auth"
	"github.com/ghuser/stockledger/services/catalog/application/handlers"
	appsvcs "github.com/ghuser/stockledger/services/catalog/application/services"
)

// ProductRoutes registers product endpoints on the provided chi router. Reads
// are open to every signed-in user; mutations and imports require an admin.
func ProductRoutes(r chi.Router, a *app.Application) {
	svcs := appsvcs.New(a)
	r.Route("/products", func(r chi.Router) {
		r.Get("/", handlers.NewListProductsHandler(svcs).Execute)
		r.Get("/available", handlers.NewAvailableProductsHandler(svcs).Execute)
		r.Get("/categories", handlers.NewCategoriesHandler(svcs).Execute)
		r.Get("/export", handlers.NewExportProductsHandler(svcs, a.Now).Execute)
		r.Get("/{id}", handlers.NewGetProductHandler(svcs).Execute)

		r.Group(func(r chi.Router) {
			r.Use(auth.RequireRole(auth.RoleAdmin, a.Logger))
			r.Post("/", handlers.NewPostProductHandler(svcs).Execute)
			r.Post("/import", handlers.NewImportProductsHandler(svcs).Execute)
			r.Put("/{id}", handlers.NewPutProductHandler(svcs).Execute)
			r.Delete("/{id}", handlers.NewDeleteProductHandler(svcs).Execute)
		})
	})
}
