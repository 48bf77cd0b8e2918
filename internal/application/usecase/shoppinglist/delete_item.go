package shoppinglist

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/pantry-ledger/backend/internal/application/adapter"
)

// DeleteItemUseCase removes an item from the shopping list.
// The draft purchase is left untouched: its items are snapshots.
type DeleteItemUseCase struct {
	shoppingListRepo adapter.ShoppingListRepository
}

// NewDeleteItemUseCase creates a new DeleteItemUseCase instance.
func NewDeleteItemUseCase(shoppingListRepo adapter.ShoppingListRepository) *DeleteItemUseCase {
	return &DeleteItemUseCase{
		shoppingListRepo: shoppingListRepo,
	}
}

// Execute deletes the item.
func (uc *DeleteItemUseCase) Execute(ctx context.Context, id uuid.UUID) error {
	if _, err := findItem(ctx, uc.shoppingListRepo, id); err != nil {
		return err
	}

	if err := uc.shoppingListRepo.Delete(ctx, id); err != nil {
		return fmt.Errorf("failed to delete shopping list item: %w", err)
	}
	return nil
}
