package handlers

import (
	"net/http"

	"github.com/gorilla/sessions"

	"github.com/ghuser/stockledger/pkg/auth"
	"github.com/ghuser/stockledger/pkg/errhttp"
	"github.com/ghuser/stockledger/pkg/httpx"
	"github.com/ghuser/stockledger/pkg/logger"
	pkgvalidator "github.com/ghuser/stockledger/pkg/validator"
	appsvcs "github.com/ghuser/stockledger/services/identity/application/services"
)

// LoginHandler handles POST /auth/login requests.
type LoginHandler struct {
	svc      *appsvcs.Services
	sessions sessions.Store
	log      logger.Logger
}

// NewLoginHandler returns a LoginHandler that issues sessions from store.
func NewLoginHandler(svc *appsvcs.Services, store sessions.Store, log logger.Logger) *LoginHandler {
	return &LoginHandler{svc: svc, sessions: store, log: log}
}

// Execute checks the credentials and starts a session.
//
//	@Summary		Log in
//	@Description	Exact username and password match; sets the session cookie
//	@Tags			auth
//	@Accept			json
//	@Produce		json
//	@Param			request	body		LoginRequest	true	"Credentials"
//	@Success		200		{object}	UserResponse
//	@Failure		400		{object}	httpx.ErrorResponse
//	@Failure		401		{object}	httpx.ErrorResponse
//	@Router			/auth/login [post]
func (h *LoginHandler) Execute(w http.ResponseWriter, r *http.Request) {
	req, ok := pkgvalidator.ValidateRequest[LoginRequest](w, r)
	if !ok {
		return
	}

	u, err := h.svc.User.Authenticate(r.Context(), req.Username, req.Password)
	if err != nil {
		errhttp.WriteError(w, err)
		return
	}
	if err := auth.StartSession(w, r, h.sessions, u.ID); err != nil {
		h.log.ErrorContext(r.Context(), "failed to start session", "user_id", u.ID, "error", err)
		httpx.JSONError(w, http.StatusInternalServerError, "failed to start session")
		return
	}
	h.log.InfoContext(r.Context(), "user logged in", "user_id", u.ID, "role", u.Role)
	httpx.JSON(w, http.StatusOK, toResponse(*u))
}

// LogoutHandler handles POST /auth/logout requests.
type LogoutHandler struct {
	sessions sessions.Store
}

// NewLogoutHandler returns a LogoutHandler for store.
func NewLogoutHandler(store sessions.Store) *LogoutHandler {
	return &LogoutHandler{sessions: store}
}

// Execute ends the session.
//
//	@Summary	Log out
//	@Tags		auth
//	@Success	204
//	@Router		/auth/logout [post]
func (h *LogoutHandler) Execute(w http.ResponseWriter, r *http.Request) {
	if err := auth.EndSession(w, r, h.sessions); err != nil {
		httpx.JSONError(w, http.StatusInternalServerError, "failed to end session")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// MeHandler handles GET /auth/me requests.
type MeHandler struct {
	svc *appsvcs.Services
}

// NewMeHandler returns a MeHandler backed by the given services.
func NewMeHandler(svc *appsvcs.Services) *MeHandler {
	return &MeHandler{svc: svc}
}

// Execute returns the signed-in user.
//
//	@Summary	Current user
//	@Tags		auth
//	@Produce	json
//	@Success	200	{object}	UserResponse
//	@Failure	401	{object}	httpx.ErrorResponse
//	@Router		/auth/me [get]
func (h *MeHandler) Execute(w http.ResponseWriter, r *http.Request) {
	p, err := auth.PrincipalFromCtx(r.Context())
	if err != nil {
		errhttp.WriteError(w, err)
		return
	}
	u, err := h.svc.User.Get(r.Context(), p.UserID)
	if err != nil {
		errhttp.WriteError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, toResponse(*u))
}
