package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/ghuser/stockledger/pkg/app"
	"github.com/ghuser/stockledger/pkg/auth"
	"github.com/ghuser/stockledger/services/identity/application/handlers"
	appsvcs "github.com/ghuser/stockledger/services/identity/application/services"
)

// RequireAuth returns the session middleware resolving users through the
// identity store.
func RequireAuth(a *app.Application) func(http.Handler) http.Handler {
	return auth.RequireAuth(a.SessionStore, appsvcs.New(a).User, a.Logger)
}

// AuthRoutes registers /auth endpoints. Login and logout are public.
func AuthRoutes(r chi.Router, a *app.Application) {
	svcs := appsvcs.New(a)
	r.Route("/auth", func(r chi.Router) {
		r.Post("/login", handlers.NewLoginHandler(svcs, a.SessionStore, a.Logger).Execute)
		r.Post("/logout", handlers.NewLogoutHandler(a.SessionStore).Execute)
		r.With(RequireAuth(a)).Get("/me", handlers.NewMeHandler(svcs).Execute)
	})
}

// UserRoutes registers /users endpoints. Must be mounted behind RequireAuth;
// every route requires an admin.
func UserRoutes(r chi.Router, a *app.Application) {
	svcs := appsvcs.New(a)
	revoker, _ := a.SessionStore.(auth.Revoker)
	r.Route("/users", func(r chi.Router) {
		r.Use(auth.RequireRole(auth.RoleAdmin, a.Logger))
		r.Get("/", handlers.NewListUsersHandler(svcs).Execute)
		r.Post("/", handlers.NewPostUserHandler(svcs).Execute)
		r.Put("/{id}", handlers.NewPutUserHandler(svcs, revoker, a.Logger).Execute)
		r.Delete("/{id}", handlers.NewDeleteUserHandler(svcs, revoker, a.Logger).Execute)
	})
}
