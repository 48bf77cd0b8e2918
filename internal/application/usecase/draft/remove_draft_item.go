package draft

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/pantry-ledger/backend/internal/application/adapter"
)

// RemoveDraftItemInput represents the input for removing an item from the draft.
type RemoveDraftItemInput struct {
	ProductID uuid.UUID
}

// RemoveDraftItemUseCase drops a product from the draft purchase and marks its
// shopping list entries as not purchased again.
type RemoveDraftItemUseCase struct {
	txManager        adapter.TransactionManager
	draftRepo        adapter.DraftPurchaseRepository
	shoppingListRepo adapter.ShoppingListRepository
}

// NewRemoveDraftItemUseCase creates a new RemoveDraftItemUseCase instance.
func NewRemoveDraftItemUseCase(
	txManager adapter.TransactionManager,
	draftRepo adapter.DraftPurchaseRepository,
	shoppingListRepo adapter.ShoppingListRepository,
) *RemoveDraftItemUseCase {
	return &RemoveDraftItemUseCase{
		txManager:        txManager,
		draftRepo:        draftRepo,
		shoppingListRepo: shoppingListRepo,
	}
}

// Execute removes the product from the draft purchase.
func (uc *RemoveDraftItemUseCase) Execute(ctx context.Context, input RemoveDraftItemInput) (*DraftOutput, error) {
	now := time.Now().UTC()

	var output *DraftOutput
	err := uc.txManager.WithinTransaction(ctx, func(ctx context.Context) error {
		draft, err := uc.draftRepo.Get(ctx)
		if err != nil {
			return fmt.Errorf("failed to get draft purchase: %w", err)
		}

		if !draft.Remove(input.ProductID, now) {
			return draftItemNotFound()
		}

		if err := uc.draftRepo.Save(ctx, draft); err != nil {
			return fmt.Errorf("failed to save draft purchase: %w", err)
		}

		items, err := uc.shoppingListRepo.List(ctx)
		if err != nil {
			return fmt.Errorf("failed to list shopping list items: %w", err)
		}
		for _, entry := range items {
			item := entry.Item
			if item.ProductID != input.ProductID || !item.Purchased {
				continue
			}
			item.TogglePurchased(now)
			if err := uc.shoppingListRepo.Update(ctx, item); err != nil {
				return fmt.Errorf("failed to update shopping list item: %w", err)
			}
		}

		output = &DraftOutput{Draft: draft, Total: draft.Total()}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return output, nil
}
