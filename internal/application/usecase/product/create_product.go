// Package product contains product catalog use cases.
package product

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/pantry-ledger/backend/internal/application/adapter"
	"github.com/pantry-ledger/backend/internal/domain/entity"
	domainerror "github.com/pantry-ledger/backend/internal/domain/error"
	"github.com/pantry-ledger/backend/internal/domain/valueobject"
)

// MaxProductNameLength is the maximum allowed length for product names.
const MaxProductNameLength = 100

// CreateProductInput represents the input for product creation.
type CreateProductInput struct {
	Name       string
	CategoryID *uuid.UUID
	Price      decimal.Decimal
	Quantity   int
	MinStock   *int // Optional, defaults to entity.DefaultMinStock
	ImageURL   string
}

// ProductOutput represents a product with its category.
type ProductOutput struct {
	Product  *entity.Product
	Category *entity.Category
}

// CreateProductUseCase handles product creation logic.
type CreateProductUseCase struct {
	productRepo  adapter.ProductRepository
	categoryRepo adapter.CategoryRepository
}

// NewCreateProductUseCase creates a new CreateProductUseCase instance.
func NewCreateProductUseCase(productRepo adapter.ProductRepository, categoryRepo adapter.CategoryRepository) *CreateProductUseCase {
	return &CreateProductUseCase{
		productRepo:  productRepo,
		categoryRepo: categoryRepo,
	}
}

// Execute performs the product creation.
func (uc *CreateProductUseCase) Execute(ctx context.Context, input CreateProductInput) (*ProductOutput, error) {
	name := strings.TrimSpace(input.Name)
	if err := validateName(name); err != nil {
		return nil, err
	}
	if err := validatePrice(input.Price); err != nil {
		return nil, err
	}
	if err := validateQuantity(input.Quantity); err != nil {
		return nil, err
	}

	minStock := entity.DefaultMinStock
	if input.MinStock != nil {
		minStock = *input.MinStock
	}
	if err := validateMinStock(minStock); err != nil {
		return nil, err
	}

	category, err := resolveCategory(ctx, uc.categoryRepo, input.CategoryID)
	if err != nil {
		return nil, err
	}

	exists, err := uc.productRepo.ExistsByNameFold(ctx, name, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to check product name existence: %w", err)
	}
	if exists {
		return nil, nameExistsError()
	}

	product := entity.NewProduct(name, input.CategoryID, input.Price, input.Quantity, minStock, input.ImageURL)

	if err := uc.productRepo.Create(ctx, product); err != nil {
		return nil, fmt.Errorf("failed to create product: %w", err)
	}

	return &ProductOutput{
		Product:  product,
		Category: category,
	}, nil
}

func validateName(name string) error {
	if name == "" {
		return domainerror.NewProductError(
			domainerror.ErrCodeProductNameRequired,
			"product name is required",
			domainerror.ErrProductNameRequired,
		)
	}
	if len(name) > MaxProductNameLength {
		return domainerror.NewProductError(
			domainerror.ErrCodeProductNameRequired,
			fmt.Sprintf("product name must not exceed %d characters", MaxProductNameLength),
			domainerror.ErrProductNameRequired,
		)
	}
	return nil
}

func validatePrice(price decimal.Decimal) error {
	if price.IsNegative() {
		return domainerror.NewProductError(
			domainerror.ErrCodeInvalidProductPrice,
			"price must be zero or greater",
			domainerror.ErrInvalidProductPrice,
		)
	}
	if !valueobject.IsWholeCents(price) {
		return domainerror.NewProductError(
			domainerror.ErrCodeInvalidProductPrice,
			"price must not have more than two decimal places",
			domainerror.ErrInvalidProductPrice,
		)
	}
	return nil
}

func validateQuantity(quantity int) error {
	if quantity < 0 {
		return domainerror.NewProductError(
			domainerror.ErrCodeInvalidProductQuantity,
			"quantity must be zero or greater",
			domainerror.ErrInvalidProductQuantity,
		)
	}
	return nil
}

func validateMinStock(minStock int) error {
	if minStock < 0 {
		return domainerror.NewProductError(
			domainerror.ErrCodeInvalidMinStock,
			"minimum stock must be zero or greater",
			domainerror.ErrInvalidMinStock,
		)
	}
	return nil
}

func nameExistsError() error {
	return domainerror.NewProductError(
		domainerror.ErrCodeProductNameExists,
		"a product with this name already exists",
		domainerror.ErrProductNameExists,
	)
}

func notFoundError() error {
	return domainerror.NewProductError(
		domainerror.ErrCodeProductNotFound,
		"product not found",
		domainerror.ErrProductNotFound,
	)
}

// resolveCategory loads the category when one is referenced.
func resolveCategory(ctx context.Context, categoryRepo adapter.CategoryRepository, id *uuid.UUID) (*entity.Category, error) {
	if id == nil {
		return nil, nil
	}

	category, err := categoryRepo.FindByID(ctx, *id)
	if err != nil {
		if errors.Is(err, domainerror.ErrCategoryNotFound) {
			return nil, domainerror.NewProductError(
				domainerror.ErrCodeProductCategoryMissing,
				"category not found",
				domainerror.ErrCategoryNotFound,
			)
		}
		return nil, fmt.Errorf("failed to get category: %w", err)
	}
	return category, nil
}
