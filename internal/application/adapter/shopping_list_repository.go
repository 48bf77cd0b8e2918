// Package adapter defines interfaces that will be implemented in the integration layer.
package adapter

import (
	"context"

	"github.com/google/uuid"

	"github.com/pantry-ledger/backend/internal/domain/entity"
)

// ShoppingListRepository defines the interface for shopping list persistence operations.
type ShoppingListRepository interface {
	// Create adds an item to the list.
	Create(ctx context.Context, item *entity.ShoppingListItem) error

	// FindByID retrieves a list item by its ID.
	FindByID(ctx context.Context, id uuid.UUID) (*entity.ShoppingListItem, error)

	// List retrieves all list items with their products, oldest first.
	List(ctx context.Context) ([]*entity.ShoppingListItemWithProduct, error)

	// Update saves changes to a list item.
	Update(ctx context.Context, item *entity.ShoppingListItem) error

	// Delete removes a list item.
	Delete(ctx context.Context, id uuid.UUID) error

	// DeleteByProductIDs removes every item referencing one of the products.
	// Returns the number of deleted items.
	DeleteByProductIDs(ctx context.Context, productIDs []uuid.UUID) (int64, error)
}
