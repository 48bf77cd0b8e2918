package shoppinglist

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/pantry-ledger/backend/internal/application/adapter"
	"github.com/pantry-ledger/backend/internal/domain/entity"
)

// UpdateQuantityInput represents the input for changing a list item quantity.
type UpdateQuantityInput struct {
	ID       uuid.UUID
	Quantity int
}

// UpdateQuantityUseCase changes the quantity of a list item.
// For purchased items the draft purchase follows the change.
type UpdateQuantityUseCase struct {
	txManager        adapter.TransactionManager
	shoppingListRepo adapter.ShoppingListRepository
	productRepo      adapter.ProductRepository
	categoryRepo     adapter.CategoryRepository
	draftRepo        adapter.DraftPurchaseRepository
}

// NewUpdateQuantityUseCase creates a new UpdateQuantityUseCase instance.
func NewUpdateQuantityUseCase(
	txManager adapter.TransactionManager,
	shoppingListRepo adapter.ShoppingListRepository,
	productRepo adapter.ProductRepository,
	categoryRepo adapter.CategoryRepository,
	draftRepo adapter.DraftPurchaseRepository,
) *UpdateQuantityUseCase {
	return &UpdateQuantityUseCase{
		txManager:        txManager,
		shoppingListRepo: shoppingListRepo,
		productRepo:      productRepo,
		categoryRepo:     categoryRepo,
		draftRepo:        draftRepo,
	}
}

// Execute updates the quantity.
func (uc *UpdateQuantityUseCase) Execute(ctx context.Context, input UpdateQuantityInput) (*ItemOutput, error) {
	if err := validateQuantity(input.Quantity); err != nil {
		return nil, err
	}

	var output *ItemOutput
	err := uc.txManager.WithinTransaction(ctx, func(ctx context.Context) error {
		item, err := findItem(ctx, uc.shoppingListRepo, input.ID)
		if err != nil {
			return err
		}
		product, err := findProduct(ctx, uc.productRepo, item.ProductID)
		if err != nil {
			return err
		}

		now := time.Now().UTC()
		delta := input.Quantity - item.Quantity
		item.Quantity = input.Quantity
		item.UpdatedAt = now

		if err := uc.shoppingListRepo.Update(ctx, item); err != nil {
			return fmt.Errorf("failed to update shopping list item: %w", err)
		}

		if item.Purchased && delta != 0 {
			draft, err := uc.draftRepo.Get(ctx)
			if err != nil {
				return fmt.Errorf("failed to get draft purchase: %w", err)
			}
			if delta > 0 {
				catName, err := categoryName(ctx, uc.categoryRepo, product)
				if err != nil {
					return err
				}
				draft.Merge(entity.SnapshotProduct(product, catName, delta), now)
			} else {
				draft.Subtract(product.ID, -delta, now)
			}
			if err := uc.draftRepo.Save(ctx, draft); err != nil {
				return fmt.Errorf("failed to save draft purchase: %w", err)
			}
		}

		output = &ItemOutput{Item: item, Product: product}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return output, nil
}
