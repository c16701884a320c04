package handlers

import (
	"fmt"
	"net/http"

	"github.com/ghuser/stockledger/pkg/errhttp"
	"github.com/ghuser/stockledger/pkg/httpx"
	appsvcs "github.com/ghuser/stockledger/services/report/application/services"
	"github.com/ghuser/stockledger/services/report/domain/models"
)

// SummaryHandler handles GET /reports/summary requests.
type SummaryHandler struct {
	svc *appsvcs.Services
}

// NewSummaryHandler returns a SummaryHandler backed by the given services.
func NewSummaryHandler(svc *appsvcs.Services) *SummaryHandler {
	return &SummaryHandler{svc: svc}
}

// Execute returns the dashboard overview.
//
//	@Summary	Dashboard summary
//	@Tags		reports
//	@Produce	json
//	@Success	200	{object}	models.Summary
//	@Failure	401	{object}	httpx.ErrorResponse
//	@Router		/reports/summary [get]
func (h *SummaryHandler) Execute(w http.ResponseWriter, r *http.Request) {
	s, err := h.svc.Report.Summary(r.Context())
	if err != nil {
		errhttp.WriteError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, s)
}

// SalesReportHandler handles GET /reports/sales requests.
type SalesReportHandler struct {
	svc *appsvcs.Services
}

// NewSalesReportHandler returns a SalesReportHandler backed by the given services.
func NewSalesReportHandler(svc *appsvcs.Services) *SalesReportHandler {
	return &SalesReportHandler{svc: svc}
}

// Execute aggregates the sales of a window.
//
//	@Summary	Sales report
//	@Tags		reports
//	@Produce	json
//	@Param		window	query		string	false	"Time window"	Enums(all, today, last7days, last30days, week, month)	default(all)
//	@Success	200		{object}	models.SalesReport
//	@Failure	422		{object}	httpx.ErrorResponse
//	@Router		/reports/sales [get]
func (h *SalesReportHandler) Execute(w http.ResponseWriter, r *http.Request) {
	window, err := models.ParseWindow(r.URL.Query().Get("window"))
	if err != nil {
		errhttp.WriteError(w, err)
		return
	}
	rep, err := h.svc.Report.SalesReport(r.Context(), window)
	if err != nil {
		errhttp.WriteError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, rep)
}

// InventoryReportHandler handles GET /reports/inventory requests.
type InventoryReportHandler struct {
	svc *appsvcs.Services
}

// NewInventoryReportHandler returns an InventoryReportHandler backed by the given services.
func NewInventoryReportHandler(svc *appsvcs.Services) *InventoryReportHandler {
	return &InventoryReportHandler{svc: svc}
}

// Execute describes the catalog.
//
//	@Summary	Inventory report
//	@Tags		reports
//	@Produce	json
//	@Success	200	{object}	models.InventoryReport
//	@Router		/reports/inventory [get]
func (h *InventoryReportHandler) Execute(w http.ResponseWriter, r *http.Request) {
	rep, err := h.svc.Report.InventoryReport(r.Context())
	if err != nil {
		errhttp.WriteError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, rep)
}

// ExportReportHandler handles GET /reports/export requests.
type ExportReportHandler struct {
	svc *appsvcs.Services
}

// NewExportReportHandler returns an ExportReportHandler backed by the given services.
func NewExportReportHandler(svc *appsvcs.Services) *ExportReportHandler {
	return &ExportReportHandler{svc: svc}
}

// Execute downloads a report as JSON, CSV or Markdown.
//
//	@Summary	Export report
//	@Tags		reports
//	@Produce	json
//	@Produce	text/csv
//	@Produce	text/markdown
//	@Param		kind	query	string	false	"Report kind"	Enums(sales, inventory, full)	default(sales)
//	@Param		format	query	string	false	"Download format"	Enums(json, csv, md)	default(json)
//	@Param		window	query	string	false	"Time window for sales"	default(all)
//	@Success	200
//	@Failure	400	{object}	httpx.ErrorResponse
//	@Failure	422	{object}	httpx.ErrorResponse
//	@Router		/reports/export [get]
func (h *ExportReportHandler) Execute(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	kind, err := models.ParseKind(q.Get("kind"))
	if err != nil {
		errhttp.WriteError(w, err)
		return
	}
	window, err := models.ParseWindow(q.Get("window"))
	if err != nil {
		errhttp.WriteError(w, err)
		return
	}

	day := h.svc.Report.Now()
	switch format := q.Get("format"); format {
	case "", "json":
		body, err := h.svc.Report.ExportJSON(r.Context(), kind, window)
		if err != nil {
			errhttp.WriteError(w, err)
			return
		}
		httpx.JSONAttachment(w, appsvcs.Filename(kind, "json", day), body)
	case "csv":
		body, err := h.svc.Report.ExportCSV(r.Context(), kind, window)
		if err != nil {
			errhttp.WriteError(w, err)
			return
		}
		httpx.CSVAttachment(w, appsvcs.Filename(kind, "csv", day), body)
	case "md":
		doc, err := h.svc.Report.Markdown(r.Context(), kind, window)
		if err != nil {
			errhttp.WriteError(w, err)
			return
		}
		httpx.Attachment(w, appsvcs.Filename(kind, "md", day), "text/markdown; charset=utf-8", []byte(doc))
	default:
		httpx.JSONError(w, http.StatusBadRequest, fmt.Sprintf("unsupported format %q", format))
	}
}
