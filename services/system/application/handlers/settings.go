package handlers

import (
	"net/http"

	"github.com/ghuser/stockledger/pkg/errhttp"
	"github.com/ghuser/stockledger/pkg/httpx"
	pkgvalidator "github.com/ghuser/stockledger/pkg/validator"
	appsvcs "github.com/ghuser/stockledger/services/system/application/services"
)

// GetSettingsHandler handles GET /settings requests.
type GetSettingsHandler struct {
	svc *appsvcs.Services
}

// NewGetSettingsHandler returns a GetSettingsHandler backed by the given services.
func NewGetSettingsHandler(svc *appsvcs.Services) *GetSettingsHandler {
	return &GetSettingsHandler{svc: svc}
}

// Execute returns the settings, or the defaults when none are stored.
//
//	@Summary	Get settings
//	@Tags		settings
//	@Produce	json
//	@Success	200	{object}	SettingsResponse
//	@Router		/settings [get]
func (h *GetSettingsHandler) Execute(w http.ResponseWriter, r *http.Request) {
	s, err := h.svc.Settings.Get(r.Context())
	if err != nil {
		errhttp.WriteError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, toResponse(s))
}

// PutSettingsHandler handles PUT /settings requests.
type PutSettingsHandler struct {
	svc *appsvcs.Services
}

// NewPutSettingsHandler returns a PutSettingsHandler backed by the given services.
func NewPutSettingsHandler(svc *appsvcs.Services) *PutSettingsHandler {
	return &PutSettingsHandler{svc: svc}
}

// Execute saves the settings.
//
//	@Summary	Save settings
//	@Tags		settings
//	@Accept		json
//	@Produce	json
//	@Param		request	body		SettingsRequest	true	"Settings"
//	@Success	200		{object}	SettingsResponse
//	@Failure	400		{object}	httpx.ErrorResponse
//	@Failure	403		{object}	httpx.ErrorResponse
//	@Failure	422		{object}	httpx.ErrorResponse
//	@Router		/settings [put]
func (h *PutSettingsHandler) Execute(w http.ResponseWriter, r *http.Request) {
	req, ok := pkgvalidator.ValidateRequest[SettingsRequest](w, r)
	if !ok {
		return
	}
	s, err := h.svc.Settings.Save(r.Context(), req.settings())
	if err != nil {
		errhttp.WriteError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, toResponse(s))
}
