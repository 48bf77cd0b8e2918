// Package shoppinglist contains use cases for the shared shopping list.
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

// AddItemInput represents the input for adding a product to the shopping list.
type AddItemInput struct {
	ProductID uuid.UUID
	Quantity  int
	AddedBy   *uuid.UUID
}

// ItemOutput represents a shopping list item with its product.
type ItemOutput struct {
	Item    *entity.ShoppingListItem
	Product *entity.Product
}

// AddItemUseCase handles adding products to the shopping list.
type AddItemUseCase struct {
	txManager        adapter.TransactionManager
	shoppingListRepo adapter.ShoppingListRepository
	productRepo      adapter.ProductRepository
}

// NewAddItemUseCase creates a new AddItemUseCase instance.
func NewAddItemUseCase(
	txManager adapter.TransactionManager,
	shoppingListRepo adapter.ShoppingListRepository,
	productRepo adapter.ProductRepository,
) *AddItemUseCase {
	return &AddItemUseCase{
		txManager:        txManager,
		shoppingListRepo: shoppingListRepo,
		productRepo:      productRepo,
	}
}

// Execute adds the product to the list. When the product is already listed and not yet
// purchased the quantities are combined.
func (uc *AddItemUseCase) Execute(ctx context.Context, input AddItemInput) (*ItemOutput, error) {
	if err := validateQuantity(input.Quantity); err != nil {
		return nil, err
	}

	var output *ItemOutput
	err := uc.txManager.WithinTransaction(ctx, func(ctx context.Context) error {
		product, err := findProduct(ctx, uc.productRepo, input.ProductID)
		if err != nil {
			return err
		}

		items, err := uc.shoppingListRepo.List(ctx)
		if err != nil {
			return fmt.Errorf("failed to list shopping list items: %w", err)
		}
		for _, entry := range items {
			if entry.Item.ProductID == product.ID && !entry.Item.Purchased {
				entry.Item.Quantity += input.Quantity
				entry.Item.UpdatedAt = time.Now().UTC()
				if err := uc.shoppingListRepo.Update(ctx, entry.Item); err != nil {
					return fmt.Errorf("failed to update shopping list item: %w", err)
				}
				output = &ItemOutput{Item: entry.Item, Product: product}
				return nil
			}
		}

		item := entity.NewShoppingListItem(product.ID, input.Quantity, input.AddedBy)
		if err := uc.shoppingListRepo.Create(ctx, item); err != nil {
			return fmt.Errorf("failed to create shopping list item: %w", err)
		}
		output = &ItemOutput{Item: item, Product: product}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return output, nil
}

func validateQuantity(quantity int) error {
	if quantity <= 0 {
		return domainerror.NewShoppingListError(
			domainerror.ErrCodeInvalidListQuantity,
			"quantity must be greater than zero",
			domainerror.ErrInvalidListQuantity,
		)
	}
	return nil
}

func findProduct(ctx context.Context, productRepo adapter.ProductRepository, id uuid.UUID) (*entity.Product, error) {
	product, err := productRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, domainerror.ErrProductNotFound) {
			return nil, domainerror.NewShoppingListError(
				domainerror.ErrCodeListProductNotFound,
				"product not found",
				domainerror.ErrListProductNotFound,
			)
		}
		return nil, fmt.Errorf("failed to get product: %w", err)
	}
	return product, nil
}

func findItem(ctx context.Context, shoppingListRepo adapter.ShoppingListRepository, id uuid.UUID) (*entity.ShoppingListItem, error) {
	item, err := shoppingListRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, domainerror.ErrShoppingListItemNotFound) {
			return nil, domainerror.NewShoppingListError(
				domainerror.ErrCodeShoppingListItemNotFound,
				"shopping list item not found",
				domainerror.ErrShoppingListItemNotFound,
			)
		}
		return nil, fmt.Errorf("failed to get shopping list item: %w", err)
	}
	return item, nil
}
