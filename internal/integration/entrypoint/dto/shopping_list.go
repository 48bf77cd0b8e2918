package dto

import (
	"time"

	"github.com/pantry-ledger/backend/internal/application/usecase/shoppinglist"
	"github.com/pantry-ledger/backend/internal/domain/entity"
)

// AddShoppingListItemRequest represents the request body for adding a product to the list.
type AddShoppingListItemRequest struct {
	ProductID string `json:"product_id" binding:"required,uuid"`
	Quantity  int    `json:"quantity" binding:"required,min=1"`
}

// UpdateShoppingListItemRequest represents the request body for changing a list quantity.
type UpdateShoppingListItemRequest struct {
	Quantity int `json:"quantity" binding:"required,min=1"`
}

// ShoppingListProductResponse is the product summary embedded in a list item.
type ShoppingListProductResponse struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Price    string `json:"price"`
	Quantity int    `json:"quantity"`
	ImageURL string `json:"image_url,omitempty"`
}

// ShoppingListItemResponse represents a single list item in API responses.
type ShoppingListItemResponse struct {
	ID           string                       `json:"id"`
	ProductID    string                       `json:"product_id"`
	Product      *ShoppingListProductResponse `json:"product,omitempty"`
	Quantity     int                          `json:"quantity"`
	Purchased    bool                         `json:"purchased"`
	PurchaseDate *time.Time                   `json:"purchase_date,omitempty"`
	AddedBy      *string                      `json:"added_by,omitempty"`
	CreatedAt    time.Time                    `json:"created_at"`
}

// ShoppingListResponse represents the response for listing the shopping list.
type ShoppingListResponse struct {
	Items []ShoppingListItemResponse `json:"items"`
}

// ToggleShoppingListItemResponse represents the response after toggling an item.
type ToggleShoppingListItemResponse struct {
	Item  ShoppingListItemResponse `json:"item"`
	Draft DraftResponse            `json:"draft"`
}

// ToShoppingListItemResponse converts a list item and its product to a DTO.
func ToShoppingListItemResponse(item *entity.ShoppingListItem, p *entity.Product) ShoppingListItemResponse {
	r := ShoppingListItemResponse{
		ID:           item.ID.String(),
		ProductID:    item.ProductID.String(),
		Quantity:     item.Quantity,
		Purchased:    item.Purchased,
		PurchaseDate: item.PurchaseDate,
		CreatedAt:    item.CreatedAt,
	}
	if item.AddedBy != nil {
		id := item.AddedBy.String()
		r.AddedBy = &id
	}
	if p != nil {
		r.Product = &ShoppingListProductResponse{
			ID:       p.ID.String(),
			Name:     p.Name,
			Price:    Money(p.Price),
			Quantity: p.Quantity,
			ImageURL: p.ImageURL,
		}
	}
	return r
}

// ToShoppingListResponse converts use case outputs to a ShoppingListResponse DTO.
func ToShoppingListResponse(items []*shoppinglist.ItemOutput) ShoppingListResponse {
	r := ShoppingListResponse{Items: make([]ShoppingListItemResponse, len(items))}
	for i, it := range items {
		r.Items[i] = ToShoppingListItemResponse(it.Item, it.Product)
	}
	return r
}
