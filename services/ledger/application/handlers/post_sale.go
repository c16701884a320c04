package handlers

import (
	"net/http"

	"github.com/ghuser/stockledger/pkg/errhttp"
	"github.com/ghuser/stockledger/pkg/httpx"
	pkgvalidator "github.com/ghuser/stockledger/pkg/validator"
	appsvcs "github.com/ghuser/stockledger/services/ledger/application/services"
)

// PostSaleHandler handles POST /sales requests.
type PostSaleHandler struct {
	svc *appsvcs.Services
}

// NewPostSaleHandler returns a PostSaleHandler backed by the given services.
func NewPostSaleHandler(svc *appsvcs.Services) *PostSaleHandler {
	return &PostSaleHandler{svc: svc}
}

// Execute commits a sale.
//
//	@Summary		Commit sale
//	@Description	Records a sale and decrements stock in one write. Any unknown product or insufficient stock rejects the whole sale.
//	@Tags			sales
//	@Accept			json
//	@Produce		json
//	@Param			request	body		CommitSaleRequest	true	"Sale"
//	@Success		201		{object}	SaleResponse
//	@Failure		400		{object}	httpx.ErrorResponse
//	@Failure		401		{object}	httpx.ErrorResponse
//	@Failure		409		{object}	httpx.ErrorResponse
//	@Failure		422		{object}	httpx.ErrorResponse
//	@Router			/sales [post]
func (h *PostSaleHandler) Execute(w http.ResponseWriter, r *http.Request) {
	req, ok := pkgvalidator.ValidateRequest[CommitSaleRequest](w, r)
	if !ok {
		return
	}

	sale, err := h.svc.Sale.CommitSale(r.Context(), req.lines(), req.CustomerName)
	if err != nil {
		errhttp.WriteError(w, err)
		return
	}
	httpx.JSON(w, http.StatusCreated, toResponse(*sale))
}
