package product

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/pantry-ledger/backend/internal/application/adapter"
	"github.com/pantry-ledger/backend/internal/domain/entity"
)

// ListProductsInput represents the input for listing products.
type ListProductsInput struct {
	CategoryID *uuid.UUID
	Search     string
	LowStock   bool
}

// ListProductsOutput represents the output of listing products.
type ListProductsOutput struct {
	Products []*ProductOutput
}

// ListProductsUseCase handles listing catalog products.
type ListProductsUseCase struct {
	productRepo  adapter.ProductRepository
	categoryRepo adapter.CategoryRepository
}

// NewListProductsUseCase creates a new ListProductsUseCase instance.
func NewListProductsUseCase(productRepo adapter.ProductRepository, categoryRepo adapter.CategoryRepository) *ListProductsUseCase {
	return &ListProductsUseCase{
		productRepo:  productRepo,
		categoryRepo: categoryRepo,
	}
}

// Execute lists products ordered by name.
func (uc *ListProductsUseCase) Execute(ctx context.Context, input ListProductsInput) (*ListProductsOutput, error) {
	products, err := uc.productRepo.List(ctx, adapter.ProductFilter{
		CategoryID: input.CategoryID,
		Search:     input.Search,
		LowStock:   input.LowStock,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list products: %w", err)
	}

	return withCategories(ctx, uc.categoryRepo, products)
}

// ListLowStockUseCase lists products whose quantity is under their minimum stock.
type ListLowStockUseCase struct {
	list *ListProductsUseCase
}

// NewListLowStockUseCase creates a new ListLowStockUseCase instance.
func NewListLowStockUseCase(productRepo adapter.ProductRepository, categoryRepo adapter.CategoryRepository) *ListLowStockUseCase {
	return &ListLowStockUseCase{
		list: NewListProductsUseCase(productRepo, categoryRepo),
	}
}

// Execute lists low-stock products.
func (uc *ListLowStockUseCase) Execute(ctx context.Context) (*ListProductsOutput, error) {
	return uc.list.Execute(ctx, ListProductsInput{LowStock: true})
}

func withCategories(ctx context.Context, categoryRepo adapter.CategoryRepository, products []*entity.Product) (*ListProductsOutput, error) {
	var ids []uuid.UUID
	seen := make(map[uuid.UUID]bool)
	for _, p := range products {
		if p.CategoryID != nil && !seen[*p.CategoryID] {
			seen[*p.CategoryID] = true
			ids = append(ids, *p.CategoryID)
		}
	}

	categories := map[uuid.UUID]*entity.Category{}
	if len(ids) > 0 {
		var err error
		categories, err = categoryRepo.FindByIDs(ctx, ids)
		if err != nil {
			return nil, fmt.Errorf("failed to get categories: %w", err)
		}
	}

	output := &ListProductsOutput{Products: make([]*ProductOutput, len(products))}
	for i, p := range products {
		item := &ProductOutput{Product: p}
		if p.CategoryID != nil {
			item.Category = categories[*p.CategoryID]
		}
		output.Products[i] = item
	}
	return output, nil
}
