package handlers

import (
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/ghuser/stockledger/pkg/errhttp"
	"github.com/ghuser/stockledger/pkg/httpx"
	appsvcs "github.com/ghuser/stockledger/services/system/application/services"
	"github.com/ghuser/stockledger/services/system/domain/models"
)

// maxImportBytes caps an import body.
const maxImportBytes = httpx.DefaultMaxBodyBytes

// ExportBackupHandler handles GET /system/backup requests.
type ExportBackupHandler struct {
	svc *appsvcs.Services
	now func() time.Time
}

// NewExportBackupHandler returns an ExportBackupHandler. now stamps the
// download filename.
func NewExportBackupHandler(svc *appsvcs.Services, now func() time.Time) *ExportBackupHandler {
	return &ExportBackupHandler{svc: svc, now: now}
}

// Execute downloads products, sales and settings as one JSON document.
//
//	@Summary	Export backup
//	@Tags		system
//	@Produce	json
//	@Success	200
//	@Failure	403	{object}	httpx.ErrorResponse
//	@Router		/system/backup [get]
func (h *ExportBackupHandler) Execute(w http.ResponseWriter, r *http.Request) {
	body, err := h.svc.Backup.Export(r.Context())
	if err != nil {
		errhttp.WriteError(w, err)
		return
	}
	name := fmt.Sprintf("inventory-system-backup-%s.json", h.now().Format(time.DateOnly))
	httpx.JSONAttachment(w, name, body)
}

// ImportHandler handles POST /system/import requests.
type ImportHandler struct {
	svc *appsvcs.Services
}

// NewImportHandler returns an ImportHandler backed by the given services.
func NewImportHandler(svc *appsvcs.Services) *ImportHandler {
	return &ImportHandler{svc: svc}
}

// Execute replaces data from a JSON document of the stated kind.
//
//	@Summary		Import data
//	@Description	backup replaces products, sales and settings; products and sales replace one collection
//	@Tags			system
//	@Accept			json
//	@Produce		json
//	@Param			kind	query		string	true	"Document kind"	Enums(backup, products, sales)
//	@Success		200		{object}	ImportResponse
//	@Failure		400		{object}	httpx.ErrorResponse
//	@Failure		403		{object}	httpx.ErrorResponse
//	@Failure		422		{object}	httpx.ErrorResponse
//	@Router			/system/import [post]
func (h *ImportHandler) Execute(w http.ResponseWriter, r *http.Request) {
	kind, err := models.ParseImportKind(r.URL.Query().Get("kind"))
	if err != nil {
		errhttp.WriteError(w, err)
		return
	}
	r.Body = http.MaxBytesReader(w, r.Body, maxImportBytes)
	body, ok := httpx.ReadBody(w, r)
	if !ok {
		return
	}
	res, err := h.svc.Backup.Import(r.Context(), kind, body)
	if err != nil {
		errhttp.WriteError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, toImportResponse(res))
}

// SchemaHandler handles GET /system/schemas/{kind} requests.
type SchemaHandler struct{}

// NewSchemaHandler returns a SchemaHandler.
func NewSchemaHandler() *SchemaHandler { return &SchemaHandler{} }

// Execute returns the JSON Schema of an import document.
//
//	@Summary	Import schema
//	@Tags		system
//	@Produce	json
//	@Param		kind	path	string	true	"Document kind"	Enums(backup, products, sales)
//	@Success	200
//	@Failure	404	{object}	httpx.ErrorResponse
//	@Router		/system/schemas/{kind} [get]
func (h *SchemaHandler) Execute(w http.ResponseWriter, r *http.Request) {
	kind, err := models.ParseImportKind(chi.URLParam(r, "kind"))
	if err != nil {
		httpx.JSONError(w, http.StatusNotFound, err.Error())
		return
	}
	s, _ := appsvcs.Schema(kind)
	httpx.JSON(w, http.StatusOK, s)
}

// ResetHandler handles POST /system/reset requests.
type ResetHandler struct {
	svc *appsvcs.Services
}

// NewResetHandler returns a ResetHandler backed by the given services.
func NewResetHandler(svc *appsvcs.Services) *ResetHandler {
	return &ResetHandler{svc: svc}
}

// Execute deletes products, sales and settings. Users are kept.
//
//	@Summary	Reset data
//	@Tags		system
//	@Success	204
//	@Failure	403	{object}	httpx.ErrorResponse
//	@Router		/system/reset [post]
func (h *ResetHandler) Execute(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.Backup.Reset(r.Context()); err != nil {
		errhttp.WriteError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
