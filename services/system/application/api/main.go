package api

import (
	"github.com/go-chi/chi/v5"

	"github.com/ghuser/stockledger/pkg/app"
	"github.com/ghuser/stockledger/pkg/auth"
	"github.com/ghuser/stockledger/services/system/application/handlers"
	appsvcs "github.com/ghuser/stockledger/services/system/application/services"
)

// SystemRoutes registers /settings and /system endpoints. Reading settings is
// open to every signed-in user; everything else requires an admin.
func SystemRoutes(r chi.Router, a *app.Application) {
	svcs := appsvcs.New(a)
	admin := auth.RequireRole(auth.RoleAdmin, a.Logger)

	r.Route("/settings", func(r chi.Router) {
		r.Get("/", handlers.NewGetSettingsHandler(svcs).Execute)
		r.With(admin).Put("/", handlers.NewPutSettingsHandler(svcs).Execute)
	})
	r.Route("/system", func(r chi.Router) {
		r.Use(admin)
		r.Get("/backup", handlers.NewExportBackupHandler(svcs, a.Now).Execute)
		r.Post("/import", handlers.NewImportHandler(svcs).Execute)
		r.Get("/schemas/{kind}", handlers.NewSchemaHandler().Execute)
		r.Post("/reset", handlers.NewResetHandler(svcs).Execute)
	})
}
