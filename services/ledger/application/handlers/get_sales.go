package handlers

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/ghuser/stockledger/pkg/errhttp"
	"github.com/ghuser/stockledger/pkg/httpx"
	appsvcs "github.com/ghuser/stockledger/services/ledger/application/services"
	salecsv "github.com/ghuser/stockledger/services/ledger/infrastructure/csv"
)

const defaultRecent = 5

// ListSalesHandler handles GET /sales.
type ListSalesHandler struct {
	svc *appsvcs.Services
}

// NewListSalesHandler returns a ListSalesHandler backed by the given services.
func NewListSalesHandler(svc *appsvcs.Services) *ListSalesHandler {
	return &ListSalesHandler{svc: svc}
}

// Execute lists sales, newest first.
//
//	@Summary	List sales
//	@Tags		sales
//	@Produce	json
//	@Param		search	query		string	false	"Substring of the sale id or customer name"
//	@Success	200		{array}		SaleResponse
//	@Failure	401		{object}	httpx.ErrorResponse
//	@Router		/sales [get]
func (h *ListSalesHandler) Execute(w http.ResponseWriter, r *http.Request) {
	sales, err := h.svc.Sale.List(r.Context(), r.URL.Query().Get("search"))
	if err != nil {
		errhttp.WriteError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, toResponses(sales))
}

// RecentSalesHandler handles GET /sales/recent.
type RecentSalesHandler struct {
	svc *appsvcs.Services
}

// NewRecentSalesHandler returns a RecentSalesHandler.
func NewRecentSalesHandler(svc *appsvcs.Services) *RecentSalesHandler {
	return &RecentSalesHandler{svc: svc}
}

// Execute lists the newest sales.
//
//	@Summary	Recent sales
//	@Tags		sales
//	@Produce	json
//	@Param		limit	query		int	false	"Number of sales"	default(5)
//	@Success	200		{array}		SaleResponse
//	@Failure	400		{object}	httpx.ErrorResponse
//	@Router		/sales/recent [get]
func (h *RecentSalesHandler) Execute(w http.ResponseWriter, r *http.Request) {
	n := defaultRecent
	if raw := r.URL.Query().Get("limit"); raw != "" {
		v, err := strconv.Atoi(raw)
		if err != nil || v < 0 {
			httpx.JSONError(w, http.StatusBadRequest, "limit must be a non-negative integer")
			return
		}
		n = v
	}
	sales, err := h.svc.Sale.Recent(r.Context(), n)
	if err != nil {
		errhttp.WriteError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, toResponses(sales))
}

// GetSaleHandler handles GET /sales/{id}.
type GetSaleHandler struct {
	svc *appsvcs.Services
}

// NewGetSaleHandler returns a GetSaleHandler.
func NewGetSaleHandler(svc *appsvcs.Services) *GetSaleHandler {
	return &GetSaleHandler{svc: svc}
}

// Execute returns one sale, the invoice view.
//
//	@Summary	Get sale
//	@Tags		sales
//	@Produce	json
//	@Param		id	path		int	true	"Sale id"
//	@Success	200	{object}	SaleResponse
//	@Failure	400	{object}	httpx.ErrorResponse
//	@Failure	404	{object}	httpx.ErrorResponse
//	@Router		/sales/{id} [get]
func (h *GetSaleHandler) Execute(w http.ResponseWriter, r *http.Request) {
	id, err := httpx.IDParam(r, "id")
	if err != nil {
		httpx.JSONError(w, http.StatusBadRequest, err.Error())
		return
	}
	sale, err := h.svc.Sale.Get(r.Context(), id)
	if err != nil {
		errhttp.WriteError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, toResponse(*sale))
}

// ExportSalesHandler handles GET /sales/export.
type ExportSalesHandler struct {
	svc *appsvcs.Services
	now func() time.Time
}

// NewExportSalesHandler returns an ExportSalesHandler. now stamps the filename.
func NewExportSalesHandler(svc *appsvcs.Services, now func() time.Time) *ExportSalesHandler {
	return &ExportSalesHandler{svc: svc, now: now}
}

// Execute downloads the ledger as CSV.
//
//	@Summary	Export sales
//	@Tags		sales
//	@Produce	text/csv
//	@Success	200
//	@Failure	403	{object}	httpx.ErrorResponse
//	@Router		/sales/export [get]
func (h *ExportSalesHandler) Execute(w http.ResponseWriter, r *http.Request) {
	body, err := h.svc.Sale.ExportCSV(r.Context(), salecsv.FlavorBackup)
	if err != nil {
		errhttp.WriteError(w, err)
		return
	}
	httpx.CSVAttachment(w, fmt.Sprintf("sales-%s.csv", h.now().In(h.svc.Sale.Location()).Format(time.DateOnly)), body)
}
