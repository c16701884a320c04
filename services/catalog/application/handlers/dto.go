package handlers

import (
	"github.com/shopspring/decimal"

	"github.com/ghuser/stockledger/services/catalog/domain/models"
)

// ProductRequest is the request body for creating or replacing a product.
type ProductRequest struct {
	Name     string          `json:"name"     validate:"required,max=255" example:"Laptop"`
	Category string          `json:"category" validate:"required,max=255" example:"Electronics"`
	Price    decimal.Decimal `json:"price"    validate:"gte=0"            swaggertype:"number" example:"999.99"`
	Stock    int             `json:"stock"    validate:"min=0"            example:"15"`
	Image    string          `json:"image,omitempty"                      example:"https://via.placeholder.com/150"`
} // @name ProductRequest

func (r ProductRequest) draft() models.Draft {
	return models.Draft{
		Name:     r.Name,
		Category: r.Category,
		Price:    r.Price,
		Stock:    r.Stock,
		Image:    r.Image,
	}
}

// ProductResponse is a product as stored.
type ProductResponse struct {
	ID       int64           `json:"id"       example:"1700000000000"`
	Name     string          `json:"name"     example:"Laptop"`
	Category string          `json:"category" example:"Electronics"`
	Price    decimal.Decimal `json:"price"    swaggertype:"number" example:"999.99"`
	Stock    int             `json:"stock"    example:"15"`
	Image    string          `json:"image,omitempty"`
} // @name ProductResponse

func toResponse(p models.Product) ProductResponse {
	return ProductResponse(p)
}

func toResponses(products []models.Product) []ProductResponse {
	out := make([]ProductResponse, 0, len(products))
	for _, p := range products {
		out = append(out, toResponse(p))
	}
	return out
}

// ImportResponse reports how many products an import wrote.
type ImportResponse struct {
	Imported int `json:"imported" example:"10"`
} // @name ImportResponse
