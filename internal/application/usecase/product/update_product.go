package product

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/pantry-ledger/backend/internal/application/adapter"
	domainerror "github.com/pantry-ledger/backend/internal/domain/error"
)

// UpdateProductInput represents the input for a partial product update.
// Nil fields are left unchanged.
type UpdateProductInput struct {
	ID            uuid.UUID
	Name          *string
	CategoryID    *uuid.UUID
	ClearCategory bool
	Price         *decimal.Decimal
	Quantity      *int
	MinStock      *int
	ImageURL      *string
}

// UpdateProductUseCase handles catalog edits.
type UpdateProductUseCase struct {
	productRepo  adapter.ProductRepository
	categoryRepo adapter.CategoryRepository
}

// NewUpdateProductUseCase creates a new UpdateProductUseCase instance.
func NewUpdateProductUseCase(productRepo adapter.ProductRepository, categoryRepo adapter.CategoryRepository) *UpdateProductUseCase {
	return &UpdateProductUseCase{
		productRepo:  productRepo,
		categoryRepo: categoryRepo,
	}
}

// Execute applies the update. Draft items and purchase records keep their own snapshot.
func (uc *UpdateProductUseCase) Execute(ctx context.Context, input UpdateProductInput) (*ProductOutput, error) {
	product, err := uc.productRepo.FindByID(ctx, input.ID)
	if err != nil {
		if errors.Is(err, domainerror.ErrProductNotFound) {
			return nil, notFoundError()
		}
		return nil, fmt.Errorf("failed to get product: %w", err)
	}

	if input.Name != nil {
		name := strings.TrimSpace(*input.Name)
		if err := validateName(name); err != nil {
			return nil, err
		}
		exists, err := uc.productRepo.ExistsByNameFold(ctx, name, &product.ID)
		if err != nil {
			return nil, fmt.Errorf("failed to check product name existence: %w", err)
		}
		if exists {
			return nil, nameExistsError()
		}
		product.Name = name
	}

	if input.ClearCategory {
		product.CategoryID = nil
	} else if input.CategoryID != nil {
		if _, err := resolveCategory(ctx, uc.categoryRepo, input.CategoryID); err != nil {
			return nil, err
		}
		product.CategoryID = input.CategoryID
	}

	if input.Price != nil {
		if err := validatePrice(*input.Price); err != nil {
			return nil, err
		}
		product.Price = *input.Price
	}
	if input.Quantity != nil {
		if err := validateQuantity(*input.Quantity); err != nil {
			return nil, err
		}
		product.Quantity = *input.Quantity
	}
	if input.MinStock != nil {
		if err := validateMinStock(*input.MinStock); err != nil {
			return nil, err
		}
		product.MinStock = *input.MinStock
	}
	if input.ImageURL != nil {
		product.ImageURL = *input.ImageURL
	}
	product.LastModified = time.Now().UTC()

	if err := uc.productRepo.Update(ctx, product); err != nil {
		if errors.Is(err, domainerror.ErrConcurrentModification) {
			return nil, domainerror.NewProductError(
				domainerror.ErrCodeStockConflict,
				"the product was changed concurrently, reload and try again",
				domainerror.ErrConcurrentModification,
			)
		}
		return nil, fmt.Errorf("failed to update product: %w", err)
	}

	category, err := resolveCategory(ctx, uc.categoryRepo, product.CategoryID)
	if err != nil {
		return nil, err
	}

	return &ProductOutput{Product: product, Category: category}, nil
}
