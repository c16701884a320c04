package handlers

import (
	"net/http"

	"github.com/ghuser/stockledger/pkg/errhttp"
	"github.com/ghuser/stockledger/pkg/httpx"
	appsvcs "github.com/ghuser/stockledger/services/catalog/application/services"
	"github.com/ghuser/stockledger/services/catalog/domain/models"
)

// ListProductsHandler handles GET /products.
type ListProductsHandler struct {
	svc *appsvcs.Services
}

// NewListProductsHandler returns a ListProductsHandler backed by the given services.
func NewListProductsHandler(svc *appsvcs.Services) *ListProductsHandler {
	return &ListProductsHandler{svc: svc}
}

// Execute lists products.
//
//	@Summary		List products
//	@Description	Lists products filtered by search text, category and stock level
//	@Tags			products
//	@Produce		json
//	@Param			search		query		string	false	"Substring of the name or category"
//	@Param			category	query		string	false	"Exact category; all disables the filter"
//	@Param			stock		query		string	false	"Stock level"	Enums(all, low, out)
//	@Success		200			{array}		ProductResponse
//	@Failure		400			{object}	httpx.ErrorResponse
//	@Failure		401			{object}	httpx.ErrorResponse
//	@Router			/products [get]
func (h *ListProductsHandler) Execute(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	level, ok := models.ParseStockLevel(q.Get("stock"))
	if !ok {
		httpx.JSONError(w, http.StatusBadRequest, "stock must be one of all, low, out")
		return
	}

	products, err := h.svc.Product.List(r.Context(), models.Filter{
		Search:   q.Get("search"),
		Category: q.Get("category"),
		Stock:    level,
	})
	if err != nil {
		errhttp.WriteError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, toResponses(products))
}

// AvailableProductsHandler handles GET /products/available.
type AvailableProductsHandler struct {
	svc *appsvcs.Services
}

// NewAvailableProductsHandler returns an AvailableProductsHandler.
func NewAvailableProductsHandler(svc *appsvcs.Services) *AvailableProductsHandler {
	return &AvailableProductsHandler{svc: svc}
}

// Execute lists the products that are in stock.
//
//	@Summary	List sellable products
//	@Tags		products
//	@Produce	json
//	@Success	200	{array}		ProductResponse
//	@Failure	401	{object}	httpx.ErrorResponse
//	@Router		/products/available [get]
func (h *AvailableProductsHandler) Execute(w http.ResponseWriter, r *http.Request) {
	products, err := h.svc.Product.Available(r.Context())
	if err != nil {
		errhttp.WriteError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, toResponses(products))
}

// CategoriesHandler handles GET /products/categories.
type CategoriesHandler struct {
	svc *appsvcs.Services
}

// NewCategoriesHandler returns a CategoriesHandler.
func NewCategoriesHandler(svc *appsvcs.Services) *CategoriesHandler {
	return &CategoriesHandler{svc: svc}
}

// Execute lists the distinct categories.
//
//	@Summary	List categories
//	@Tags		products
//	@Produce	json
//	@Success	200	{array}		string
//	@Failure	401	{object}	httpx.ErrorResponse
//	@Router		/products/categories [get]
func (h *CategoriesHandler) Execute(w http.ResponseWriter, r *http.Request) {
	categories, err := h.svc.Product.Categories(r.Context())
	if err != nil {
		errhttp.WriteError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, categories)
}
