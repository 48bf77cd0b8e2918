package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/pantry-ledger/backend/internal/application/usecase/product"
	"github.com/pantry-ledger/backend/internal/domain/entity"
)

// CreateProductRequest represents the request body for product creation.
type CreateProductRequest struct {
	Name       string           `json:"name" binding:"required,min=1,max=100"`
	CategoryID *string          `json:"category_id,omitempty" binding:"omitempty,uuid"`
	Price      *decimal.Decimal `json:"price" binding:"required"`
	Quantity   int              `json:"quantity" binding:"min=0"`
	MinStock   *int             `json:"min_stock,omitempty" binding:"omitempty,min=0"`
	ImageURL   string           `json:"image_url,omitempty" binding:"omitempty,url"`
}

// UpdateProductRequest represents the request body for a product update.
// An empty category_id detaches the product from its category.
type UpdateProductRequest struct {
	Name       *string          `json:"name,omitempty" binding:"omitempty,min=1,max=100"`
	CategoryID *string          `json:"category_id,omitempty"`
	Price      *decimal.Decimal `json:"price,omitempty"`
	Quantity   *int             `json:"quantity,omitempty" binding:"omitempty,min=0"`
	MinStock   *int             `json:"min_stock,omitempty" binding:"omitempty,min=0"`
	ImageURL   *string          `json:"image_url,omitempty"`
}

// ConsumeStockRequest represents the request body for taking items out of stock.
type ConsumeStockRequest struct {
	Quantity int `json:"quantity" binding:"required,min=1"`
}

// ProductCategoryResponse is the category summary embedded in a product.
type ProductCategoryResponse struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Color string `json:"color"`
	Icon  string `json:"icon"`
}

// ProductResponse represents a single product in API responses.
type ProductResponse struct {
	ID           string                   `json:"id"`
	Name         string                   `json:"name"`
	Category     *ProductCategoryResponse `json:"category,omitempty"`
	Price        string                   `json:"price"`
	Quantity     int                      `json:"quantity"`
	MinStock     int                      `json:"min_stock"`
	LowStock     bool                     `json:"low_stock"`
	ImageURL     string                   `json:"image_url,omitempty"`
	LastModified time.Time                `json:"last_modified"`
	CreatedAt    time.Time                `json:"created_at"`
}

// ProductListResponse represents the response for listing products.
type ProductListResponse struct {
	Products []ProductResponse `json:"products"`
}

// ConsumeStockResponse represents the response after consuming stock.
type ConsumeStockResponse struct {
	Product  ProductResponse `json:"product"`
	LowStock bool            `json:"low_stock"`
}

// ToProductResponse converts a product and its optional category to a ProductResponse DTO.
func ToProductResponse(p *entity.Product, cat *entity.Category) ProductResponse {
	r := ProductResponse{
		ID:           p.ID.String(),
		Name:         p.Name,
		Price:        Money(p.Price),
		Quantity:     p.Quantity,
		MinStock:     p.MinStock,
		LowStock:     p.IsLowStock(),
		ImageURL:     p.ImageURL,
		LastModified: p.LastModified,
		CreatedAt:    p.CreatedAt,
	}
	if cat != nil {
		r.Category = &ProductCategoryResponse{
			ID:    cat.ID.String(),
			Name:  cat.Name,
			Color: cat.Color,
			Icon:  cat.Icon,
		}
	}
	return r
}

// ToProductListResponse converts use case outputs to a ProductListResponse DTO.
func ToProductListResponse(products []*product.ProductOutput) ProductListResponse {
	r := ProductListResponse{Products: make([]ProductResponse, len(products))}
	for i, p := range products {
		r.Products[i] = ToProductResponse(p.Product, p.Category)
	}
	return r
}
