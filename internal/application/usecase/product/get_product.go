package product

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/pantry-ledger/backend/internal/application/adapter"
	domainerror "github.com/pantry-ledger/backend/internal/domain/error"
)

// GetProductUseCase handles retrieving a single product.
type GetProductUseCase struct {
	productRepo  adapter.ProductRepository
	categoryRepo adapter.CategoryRepository
}

// NewGetProductUseCase creates a new GetProductUseCase instance.
func NewGetProductUseCase(productRepo adapter.ProductRepository, categoryRepo adapter.CategoryRepository) *GetProductUseCase {
	return &GetProductUseCase{
		productRepo:  productRepo,
		categoryRepo: categoryRepo,
	}
}

// Execute returns the product with its category.
func (uc *GetProductUseCase) Execute(ctx context.Context, id uuid.UUID) (*ProductOutput, error) {
	product, err := uc.productRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, domainerror.ErrProductNotFound) {
			return nil, notFoundError()
		}
		return nil, fmt.Errorf("failed to get product: %w", err)
	}

	output := &ProductOutput{Product: product}
	if product.CategoryID != nil {
		category, err := uc.categoryRepo.FindByID(ctx, *product.CategoryID)
		if err != nil && !errors.Is(err, domainerror.ErrCategoryNotFound) {
			return nil, fmt.Errorf("failed to get category: %w", err)
		}
		output.Category = category
	}

	return output, nil
}
