package shoppinglist

import (
	"context"
	"fmt"

	"github.com/pantry-ledger/backend/internal/application/adapter"
)

// ListItemsOutput represents the shopping list.
type ListItemsOutput struct {
	Items []*ItemOutput
}

// ListItemsUseCase handles listing the shopping list.
type ListItemsUseCase struct {
	shoppingListRepo adapter.ShoppingListRepository
}

// NewListItemsUseCase creates a new ListItemsUseCase instance.
func NewListItemsUseCase(shoppingListRepo adapter.ShoppingListRepository) *ListItemsUseCase {
	return &ListItemsUseCase{
		shoppingListRepo: shoppingListRepo,
	}
}

// Execute lists every item, oldest first.
func (uc *ListItemsUseCase) Execute(ctx context.Context) (*ListItemsOutput, error) {
	items, err := uc.shoppingListRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list shopping list items: %w", err)
	}

	output := &ListItemsOutput{Items: make([]*ItemOutput, len(items))}
	for i, entry := range items {
		output.Items[i] = &ItemOutput{Item: entry.Item, Product: entry.Product}
	}
	return output, nil
}
