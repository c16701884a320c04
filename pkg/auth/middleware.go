package auth

import (
	"context"
	"net/http"

	"github.com/gorilla/sessions"

	"github.com/ghuser/stockledger/pkg/httpx"
	"github.com/ghuser/stockledger/pkg/logger"
)

// SessionName is the cookie carrying the session.
const SessionName = "stockledger_session"

const sessionUserIDKey = "user_id"

// UserResolver turns the user id stored in a session into a Principal.
// Returning an error rejects the session; deleted users are logged out this way.
type UserResolver interface {
	ResolvePrincipal(ctx context.Context, userID int64) (Principal, error)
}

// StartSession stores userID in the session cookie.
func StartSession(w http.ResponseWriter, r *http.Request, store sessions.Store, userID int64) error {
	session, err := store.Get(r, SessionName)
	if err != nil && session == nil {
		return err
	}
	session.Values[sessionUserIDKey] = userID
	return session.Save(r, w)
}

// EndSession expires the session cookie and its server-side data.
func EndSession(w http.ResponseWriter, r *http.Request, store sessions.Store) error {
	session, err := store.Get(r, SessionName)
	if err != nil && session == nil {
		return err
	}
	session.Values = map[any]any{}
	session.Options.MaxAge = -1
	return session.Save(r, w)
}

// RequireAuth is a chi middleware that enforces authentication via session cookies.
// It reads the session cookie, resolves the user id through users and injects the
// Principal into the request context.
// Returns 401 Unauthorized if the session is missing, invalid, or names an unknown user.
//
// After this middleware, handlers can safely call auth.PrincipalFromCtx(r.Context()).
func RequireAuth(store sessions.Store, users UserResolver, log logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			session, err := store.Get(r, SessionName)
			if err != nil {
				log.WarnContext(r.Context(), "invalid session cookie", "error", err)
				httpx.JSONError(w, http.StatusUnauthorized, ErrNotAuthenticated.Error())
				return
			}

			userID, ok := session.Values[sessionUserIDKey].(int64)
			if !ok || userID == 0 {
				httpx.JSONError(w, http.StatusUnauthorized, ErrNotAuthenticated.Error())
				return
			}

			p, err := users.ResolvePrincipal(r.Context(), userID)
			if err != nil {
				log.WarnContext(r.Context(), "session user rejected", "user_id", userID, "error", err)
				httpx.JSONError(w, http.StatusUnauthorized, "invalid session data")
				return
			}

			ctx := logger.Annotate(r.Context(), "user_id", p.UserID, "role", p.Role)
			next.ServeHTTP(w, r.WithContext(WithPrincipal(ctx, p)))
		})
	}
}

// RequireRole returns 403 Forbidden unless the authenticated Principal holds
// role. Must run after RequireAuth.
func RequireRole(role string, log logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			p, err := PrincipalFromCtx(r.Context())
			if err != nil {
				httpx.JSONError(w, http.StatusUnauthorized, err.Error())
				return
			}
			if p.Role != role {
				log.WarnContext(r.Context(), "role required",
					"user_id", p.UserID, "role", p.Role, "required", role, "path", r.URL.Path)
				httpx.JSONError(w, http.StatusForbidden, ErrForbidden.Error())
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
