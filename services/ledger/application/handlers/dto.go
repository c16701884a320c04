package handlers

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/ghuser/stockledger/services/ledger/domain/models"
)

// SaleLineRequest is one product and quantity of a sale.
type SaleLineRequest struct {
	ProductID int64 `json:"productId" validate:"required,gt=0" example:"1700000000000"`
	Quantity  int   `json:"quantity"  validate:"required,gt=0" example:"2"`
} // @name SaleLineRequest

// CommitSaleRequest is the request body for POST /sales.
type CommitSaleRequest struct {
	Items        []SaleLineRequest `json:"items"        validate:"required,min=1,dive"`
	CustomerName string            `json:"customerName" validate:"max=255" example:"Ada Lovelace"`
} // @name CommitSaleRequest

func (r CommitSaleRequest) lines() []models.Line {
	out := make([]models.Line, 0, len(r.Items))
	for _, it := range r.Items {
		out = append(out, models.Line{ProductID: it.ProductID, Quantity: it.Quantity})
	}
	return out
}

// SaleItemResponse is one line of a sale.
type SaleItemResponse struct {
	ProductID   int64           `json:"productId"   example:"1700000000000"`
	ProductName string          `json:"productName" example:"Laptop"`
	Quantity    int             `json:"quantity"    example:"2"`
	Price       decimal.Decimal `json:"price"       swaggertype:"number" example:"999.99"`
	Total       decimal.Decimal `json:"total"       swaggertype:"number" example:"1999.98"`
} // @name SaleItemResponse

// SaleResponse is a committed sale.
type SaleResponse struct {
	ID           int64              `json:"id"           example:"1700000000000"`
	Date         time.Time          `json:"date"         example:"2024-03-09T12:00:00Z"`
	Items        []SaleItemResponse `json:"items"`
	TotalPrice   decimal.Decimal    `json:"totalPrice"   swaggertype:"number" example:"1999.98"`
	CustomerName string             `json:"customerName,omitempty" example:"Ada Lovelace"`
} // @name SaleResponse

func toResponse(s models.Sale) SaleResponse {
	items := make([]SaleItemResponse, 0, len(s.Items))
	for _, it := range s.Items {
		items = append(items, SaleItemResponse(it))
	}
	return SaleResponse{
		ID:           s.ID,
		Date:         s.Date,
		Items:        items,
		TotalPrice:   s.TotalPrice,
		CustomerName: s.CustomerName,
	}
}

func toResponses(sales []models.Sale) []SaleResponse {
	out := make([]SaleResponse, 0, len(sales))
	for _, s := range sales {
		out = append(out, toResponse(s))
	}
	return out
}
