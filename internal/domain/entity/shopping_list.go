// Package entity defines the core business entities for the domain layer.
package entity

import (
	"time"

	"github.com/google/uuid"
)

// ShoppingListItem is an entry on the shared shopping list.
type ShoppingListItem struct {
	ID           uuid.UUID
	ProductID    uuid.UUID
	Quantity     int
	Purchased    bool
	PurchaseDate *time.Time
	AddedBy      *uuid.UUID
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// NewShoppingListItem creates a new unpurchased list item.
func NewShoppingListItem(productID uuid.UUID, quantity int, addedBy *uuid.UUID) *ShoppingListItem {
	now := time.Now().UTC()

	return &ShoppingListItem{
		ID:        uuid.New(),
		ProductID: productID,
		Quantity:  quantity,
		AddedBy:   addedBy,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// TogglePurchased flips the purchased flag and returns the new value.
func (i *ShoppingListItem) TogglePurchased(at time.Time) bool {
	i.Purchased = !i.Purchased
	if i.Purchased {
		i.PurchaseDate = &at
	} else {
		i.PurchaseDate = nil
	}
	i.UpdatedAt = at
	return i.Purchased
}

// ShoppingListItemWithProduct pairs a list item with the product it references.
type ShoppingListItemWithProduct struct {
	Item    *ShoppingListItem
	Product *Product
}
