package httpx

import (
	"time"

	"github.com/shopmesh/shopmesh/internal/product-service/app"
	"github.com/shopmesh/shopmesh/internal/product-service/domain"
)

type CreateProductRequest struct {
	Name        string  `json:"name"`
	Description string  `json:"description"`
	Price       float64 `json:"price"`
	Category    string  `json:"category"`
	Stock       int     `json:"stock"`
}

type UpdateStockRequest struct {
	Quantity int `json:"quantity"`
}

type ProductResponse struct {
	ID          string  `json:"id"`
	Name        string  `json:"name"`
	Description string  `json:"description"`
	Price       float64 `json:"price"`
	Category    string  `json:"category"`
	Stock       int     `json:"stock"`
	CreatedAt   string  `json:"createdAt"`
}

type ListProductsResponse struct {
	Products   []ProductResponse `json:"products"`
	TotalCount int               `json:"totalCount"`
	Page       int               `json:"page"`
	TotalPages int               `json:"totalPages"`
}

type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}

func mapProductToResponse(p *domain.Product) ProductResponse {
	return ProductResponse{
		ID:          p.ID,
		Name:        p.Name,
		Description: p.Description,
		Price:       p.Price,
		Category:    p.Category,
		Stock:       p.Stock,
		CreatedAt:   p.CreatedAt.Format(time.RFC3339),
	}
}

func mapListToResponse(res *app.ListResult) ListProductsResponse {
	products := make([]ProductResponse, len(res.Products))
	for i, p := range res.Products {
		products[i] = mapProductToResponse(p)
	}
	return ListProductsResponse{
		Products:   products,
		TotalCount: res.TotalCount,
		Page:       res.Page,
		TotalPages: res.TotalPages,
	}
}
