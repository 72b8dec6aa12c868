package dto

import (
	"encoding/json"
	"time"

	"github.com/shopspring/decimal"

	"github.com/lateralabs/trailblazer/internal/domain/model"
)

// CreateCategoryRequest is the POST /category/register payload.
type CreateCategoryRequest struct {
	Name string `json:"name" binding:"required"`
}

// CreateProductRequest is the POST /product/register payload. Price is kept
// raw so both numeric and string encodings are accepted.
type CreateProductRequest struct {
	Name        string          `json:"name" binding:"required"`
	Price       json.RawMessage `json:"price" binding:"required"`
	Category    string          `json:"category"`
	Ingredients []string        `json:"ingredients"`
	Image       string          `json:"image"`
}

// CategoryResponse carries a created category.
type CategoryResponse struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// ProductResponse carries a product.
type ProductResponse struct {
	ID          string          `json:"id"`
	Name        string          `json:"name"`
	Price       decimal.Decimal `json:"price"`
	Category    *string         `json:"category,omitempty"`
	Ingredients []string        `json:"ingredients"`
	Image       string          `json:"image,omitempty"`
	CreatedAt   time.Time       `json:"date_reg"`
}

// ToProductResponse converts the domain product.
func ToProductResponse(p model.Product) ProductResponse {
	resp := ProductResponse{
		ID:          p.ID.String(),
		Name:        p.Name,
		Price:       p.Price,
		Ingredients: p.Ingredients,
		Image:       p.Image,
		CreatedAt:   p.CreatedAt,
	}
	if p.CategoryID != nil {
		category := p.CategoryID.String()
		resp.Category = &category
	}
	return resp
}
