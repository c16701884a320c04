package handlers

import (
	"net/http"

	"github.com/ghuser/stockledger/pkg/auth"
	"github.com/ghuser/stockledger/pkg/errhttp"
	"github.com/ghuser/stockledger/pkg/httpx"
	"github.com/ghuser/stockledger/pkg/logger"
	pkgvalidator "github.com/ghuser/stockledger/pkg/validator"
	appsvcs "github.com/ghuser/stockledger/services/identity/application/services"
)

// ListUsersHandler handles GET /users requests.
type ListUsersHandler struct {
	svc *appsvcs.Services
}

// NewListUsersHandler returns a ListUsersHandler backed by the given services.
func NewListUsersHandler(svc *appsvcs.Services) *ListUsersHandler {
	return &ListUsersHandler{svc: svc}
}

// Execute lists every user.
//
//	@Summary	List users
//	@Tags		users
//	@Produce	json
//	@Success	200	{array}		UserResponse
//	@Failure	403	{object}	httpx.ErrorResponse
//	@Router		/users [get]
func (h *ListUsersHandler) Execute(w http.ResponseWriter, r *http.Request) {
	users, err := h.svc.User.List(r.Context())
	if err != nil {
		errhttp.WriteError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, toResponses(users))
}

// PostUserHandler handles POST /users requests.
type PostUserHandler struct {
	svc *appsvcs.Services
}

// NewPostUserHandler returns a PostUserHandler backed by the given services.
func NewPostUserHandler(svc *appsvcs.Services) *PostUserHandler {
	return &PostUserHandler{svc: svc}
}

// Execute creates a user.
//
//	@Summary	Create user
//	@Tags		users
//	@Accept		json
//	@Produce	json
//	@Param		request	body		UserRequest	true	"User"
//	@Success	201		{object}	UserResponse
//	@Failure	400		{object}	httpx.ErrorResponse
//	@Failure	403		{object}	httpx.ErrorResponse
//	@Failure	409		{object}	httpx.ErrorResponse
//	@Failure	422		{object}	httpx.ErrorResponse
//	@Router		/users [post]
func (h *PostUserHandler) Execute(w http.ResponseWriter, r *http.Request) {
	req, ok := pkgvalidator.ValidateRequest[UserRequest](w, r)
	if !ok {
		return
	}
	u, err := h.svc.User.Add(r.Context(), req.draft())
	if err != nil {
		errhttp.WriteError(w, err)
		return
	}
	httpx.JSON(w, http.StatusCreated, toResponse(*u))
}

// revokeSessions ends the server-side sessions of userID when the store
// supports it. Failures are logged; the user change itself already happened.
func revokeSessions(r *http.Request, revoker auth.Revoker, log logger.Logger, userID int64) {
	if revoker == nil {
		return
	}
	n, err := revoker.RevokeUser(r.Context(), userID)
	if err != nil {
		log.ErrorContext(r.Context(), "revoke sessions", "target_user_id", userID, "error", err)
		return
	}
	log.InfoContext(r.Context(), "sessions revoked", "target_user_id", userID, "count", n)
}

// PutUserHandler handles PUT /users/{id} requests.
type PutUserHandler struct {
	svc     *appsvcs.Services
	revoker auth.Revoker
	log     logger.Logger
}

// NewPutUserHandler returns a PutUserHandler backed by the given services.
// revoker may be nil.
func NewPutUserHandler(svc *appsvcs.Services, revoker auth.Revoker, log logger.Logger) *PutUserHandler {
	return &PutUserHandler{svc: svc, revoker: revoker, log: log}
}

// Execute edits a user. An empty password keeps the current one; a new
// password ends the user's other sessions.
//
//	@Summary	Update user
//	@Tags		users
//	@Accept		json
//	@Produce	json
//	@Param		id		path		int			true	"User id"
//	@Param		request	body		UserRequest	true	"User"
//	@Success	200		{object}	UserResponse
//	@Failure	400		{object}	httpx.ErrorResponse
//	@Failure	404		{object}	httpx.ErrorResponse
//	@Failure	409		{object}	httpx.ErrorResponse
//	@Router		/users/{id} [put]
func (h *PutUserHandler) Execute(w http.ResponseWriter, r *http.Request) {
	id, err := httpx.IDParam(r, "id")
	if err != nil {
		httpx.JSONError(w, http.StatusBadRequest, err.Error())
		return
	}
	req, ok := pkgvalidator.ValidateRequest[UserRequest](w, r)
	if !ok {
		return
	}
	u, err := h.svc.User.Update(r.Context(), id, req.draft())
	if err != nil {
		errhttp.WriteError(w, err)
		return
	}
	if req.Password != "" {
		revokeSessions(r, h.revoker, h.log, id)
	}
	httpx.JSON(w, http.StatusOK, toResponse(*u))
}

// DeleteUserHandler handles DELETE /users/{id} requests.
type DeleteUserHandler struct {
	svc     *appsvcs.Services
	revoker auth.Revoker
	log     logger.Logger
}

// NewDeleteUserHandler returns a DeleteUserHandler backed by the given services.
// revoker may be nil.
func NewDeleteUserHandler(svc *appsvcs.Services, revoker auth.Revoker, log logger.Logger) *DeleteUserHandler {
	return &DeleteUserHandler{svc: svc, revoker: revoker, log: log}
}

// Execute deletes a user other than the caller.
//
//	@Summary	Delete user
//	@Tags		users
//	@Param		id	path	int	true	"User id"
//	@Success	204
//	@Failure	403	{object}	httpx.ErrorResponse
//	@Failure	404	{object}	httpx.ErrorResponse
//	@Router		/users/{id} [delete]
func (h *DeleteUserHandler) Execute(w http.ResponseWriter, r *http.Request) {
	id, err := httpx.IDParam(r, "id")
	if err != nil {
		httpx.JSONError(w, http.StatusBadRequest, err.Error())
		return
	}
	p, err := auth.PrincipalFromCtx(r.Context())
	if err != nil {
		errhttp.WriteError(w, err)
		return
	}
	if err := h.svc.User.Delete(r.Context(), p.UserID, id); err != nil {
		errhttp.WriteError(w, err)
		return
	}
	revokeSessions(r, h.revoker, h.log, id)
	w.WriteHeader(http.StatusNoContent)
}
