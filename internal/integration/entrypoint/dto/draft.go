package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/pantry-ledger/backend/internal/domain/entity"
)

// EditDraftPriceRequest represents the request body for overriding a draft line price.
type EditDraftPriceRequest struct {
	Price *decimal.Decimal `json:"price" binding:"required"`
}

// PurchaseItemResponse is one line of a draft or a settled purchase.
type PurchaseItemResponse struct {
	ProductID    string  `json:"product_id"`
	Name         string  `json:"name"`
	CategoryID   *string `json:"category_id,omitempty"`
	CategoryName string  `json:"category_name,omitempty"`
	Quantity     int     `json:"quantity"`
	Price        string  `json:"price"`
	LineTotal    string  `json:"line_total"`
}

// DraftResponse represents the draft purchase in API responses.
type DraftResponse struct {
	Items     []PurchaseItemResponse `json:"items"`
	Total     string                 `json:"total"`
	UpdatedAt time.Time              `json:"updated_at"`
}

// ToPurchaseItemResponse converts a purchase line to a DTO.
func ToPurchaseItemResponse(item entity.PurchaseItem) PurchaseItemResponse {
	r := PurchaseItemResponse{
		ProductID:    item.ProductID.String(),
		Name:         item.Name,
		CategoryName: item.CategoryName,
		Quantity:     item.Quantity,
		Price:        Money(item.Price),
		LineTotal:    Money(item.LineTotal()),
	}
	if item.CategoryID != nil {
		id := item.CategoryID.String()
		r.CategoryID = &id
	}
	return r
}

// ToPurchaseItemResponses converts purchase lines to DTOs.
func ToPurchaseItemResponses(items []entity.PurchaseItem) []PurchaseItemResponse {
	out := make([]PurchaseItemResponse, len(items))
	for i, item := range items {
		out[i] = ToPurchaseItemResponse(item)
	}
	return out
}

// ToDraftResponse converts the draft purchase to a DraftResponse DTO.
func ToDraftResponse(d *entity.DraftPurchase, total decimal.Decimal) DraftResponse {
	return DraftResponse{
		Items:     ToPurchaseItemResponses(d.Items),
		Total:     Money(total),
		UpdatedAt: d.UpdatedAt,
	}
}
