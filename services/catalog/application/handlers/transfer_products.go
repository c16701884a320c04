package handlers

import (
	"fmt"
	"net/http"
	"time"

	"github.com/ghuser/stockledger/pkg/errhttp"
	"github.com/ghuser/stockledger/pkg/httpx"
	appsvcs "github.com/ghuser/stockledger/services/catalog/application/services"
	productcsv "github.com/ghuser/stockledger/services/catalog/infrastructure/csv"
)

// ExportProductsHandler handles GET /products/export.
type ExportProductsHandler struct {
	svc *appsvcs.Services
	now func() time.Time
}

// NewExportProductsHandler returns an ExportProductsHandler. now stamps the
// download filename.
func NewExportProductsHandler(svc *appsvcs.Services, now func() time.Time) *ExportProductsHandler {
	return &ExportProductsHandler{svc: svc, now: now}
}

// Execute downloads the catalog.
//
//	@Summary	Export products
//	@Tags		products
//	@Produce	json
//	@Produce	text/csv
//	@Param		format	query	string	false	"Download format"	Enums(json, csv)	default(json)
//	@Success	200
//	@Failure	400	{object}	httpx.ErrorResponse
//	@Router		/products/export [get]
func (h *ExportProductsHandler) Execute(w http.ResponseWriter, r *http.Request) {
	day := h.now().Format(time.DateOnly)
	switch format := r.URL.Query().Get("format"); format {
	case "", "json":
		body, err := h.svc.Product.ExportJSON(r.Context())
		if err != nil {
			errhttp.WriteError(w, err)
			return
		}
		httpx.JSONAttachment(w, fmt.Sprintf("products-%s.json", day), body)
	case "csv":
		body, err := h.svc.Product.ExportCSV(r.Context(), productcsv.PriceRaw)
		if err != nil {
			errhttp.WriteError(w, err)
			return
		}
		httpx.CSVAttachment(w, fmt.Sprintf("products-%s.csv", day), body)
	default:
		httpx.JSONError(w, http.StatusBadRequest, fmt.Sprintf("unsupported format %q", format))
	}
}

// ImportProductsHandler handles POST /products/import.
type ImportProductsHandler struct {
	svc *appsvcs.Services
}

// NewImportProductsHandler returns an ImportProductsHandler.
func NewImportProductsHandler(svc *appsvcs.Services) *ImportProductsHandler {
	return &ImportProductsHandler{svc: svc}
}

// Execute imports products from the request body. CSV rows are appended with
// fresh ids; a JSON array replaces the catalog.
//
//	@Summary	Import products
//	@Tags		products
//	@Accept		json
//	@Accept		text/csv
//	@Produce	json
//	@Param		format	query		string	true	"Body format"	Enums(json, csv)
//	@Success	200		{object}	ImportResponse
//	@Failure	400		{object}	httpx.ErrorResponse
//	@Failure	403		{object}	httpx.ErrorResponse
//	@Failure	422		{object}	httpx.ErrorResponse
//	@Router		/products/import [post]
func (h *ImportProductsHandler) Execute(w http.ResponseWriter, r *http.Request) {
	var (
		n   int
		err error
	)
	switch format := r.URL.Query().Get("format"); format {
	case "csv":
		n, err = h.svc.Product.ImportCSV(r.Context(), r.Body)
	case "json":
		body, ok := httpx.ReadBody(w, r)
		if !ok {
			return
		}
		n, err = h.svc.Product.ImportJSON(r.Context(), body)
	default:
		httpx.JSONError(w, http.StatusBadRequest, "format must be csv or json")
		return
	}
	if err != nil {
		errhttp.WriteError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, ImportResponse{Imported: n})
}
