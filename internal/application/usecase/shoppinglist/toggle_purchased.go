package shoppinglist

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/pantry-ledger/backend/internal/application/adapter"
	"github.com/pantry-ledger/backend/internal/domain/entity"
	domainerror "github.com/pantry-ledger/backend/internal/domain/error"
)

// TogglePurchasedInput represents the input for toggling a list item.
type TogglePurchasedInput struct {
	ID uuid.UUID
}

// TogglePurchasedOutput represents the toggled item and the resulting draft purchase.
type TogglePurchasedOutput struct {
	Item    *entity.ShoppingListItem
	Product *entity.Product
	Draft   *entity.DraftPurchase
}

// TogglePurchasedUseCase marks a list item purchased or not purchased and keeps
// the draft purchase in step.
type TogglePurchasedUseCase struct {
	txManager        adapter.TransactionManager
	shoppingListRepo adapter.ShoppingListRepository
	productRepo      adapter.ProductRepository
	categoryRepo     adapter.CategoryRepository
	draftRepo        adapter.DraftPurchaseRepository
}

// NewTogglePurchasedUseCase creates a new TogglePurchasedUseCase instance.
func NewTogglePurchasedUseCase(
	txManager adapter.TransactionManager,
	shoppingListRepo adapter.ShoppingListRepository,
	productRepo adapter.ProductRepository,
	categoryRepo adapter.CategoryRepository,
	draftRepo adapter.DraftPurchaseRepository,
) *TogglePurchasedUseCase {
	return &TogglePurchasedUseCase{
		txManager:        txManager,
		shoppingListRepo: shoppingListRepo,
		productRepo:      productRepo,
		categoryRepo:     categoryRepo,
		draftRepo:        draftRepo,
	}
}

// Execute flips the purchased flag. Marking an item purchased snapshots the product
// at its current catalog price into the draft; unmarking subtracts the quantity again.
func (uc *TogglePurchasedUseCase) Execute(ctx context.Context, input TogglePurchasedInput) (*TogglePurchasedOutput, error) {
	var output *TogglePurchasedOutput
	err := uc.txManager.WithinTransaction(ctx, func(ctx context.Context) error {
		item, err := findItem(ctx, uc.shoppingListRepo, input.ID)
		if err != nil {
			return err
		}
		product, err := findProduct(ctx, uc.productRepo, item.ProductID)
		if err != nil {
			return err
		}
		draft, err := uc.draftRepo.Get(ctx)
		if err != nil {
			return fmt.Errorf("failed to get draft purchase: %w", err)
		}

		now := time.Now().UTC()
		if item.TogglePurchased(now) {
			catName, err := categoryName(ctx, uc.categoryRepo, product)
			if err != nil {
				return err
			}
			draft.Merge(entity.SnapshotProduct(product, catName, item.Quantity), now)
		} else {
			draft.Subtract(product.ID, item.Quantity, now)
		}

		if err := uc.shoppingListRepo.Update(ctx, item); err != nil {
			return fmt.Errorf("failed to update shopping list item: %w", err)
		}
		if err := uc.draftRepo.Save(ctx, draft); err != nil {
			return fmt.Errorf("failed to save draft purchase: %w", err)
		}

		output = &TogglePurchasedOutput{Item: item, Product: product, Draft: draft}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return output, nil
}

func categoryName(ctx context.Context, categoryRepo adapter.CategoryRepository, product *entity.Product) (string, error) {
	if product.CategoryID == nil {
		return "", nil
	}
	category, err := categoryRepo.FindByID(ctx, *product.CategoryID)
	if err != nil {
		if errors.Is(err, domainerror.ErrCategoryNotFound) {
			return "", nil
		}
		return "", fmt.Errorf("failed to get category: %w", err)
	}
	return category.Name, nil
}
