// Package category contains category-related use cases.
package category

import (
	"context"
	"fmt"

	"github.com/pantry-ledger/backend/internal/application/adapter"
	"github.com/pantry-ledger/backend/internal/domain/entity"
)

// ListCategoriesOutput represents the output of listing categories.
type ListCategoriesOutput struct {
	Categories []*entity.CategoryWithStats
}

// ListCategoriesUseCase handles listing categories logic.
type ListCategoriesUseCase struct {
	categoryRepo adapter.CategoryRepository
}

// NewListCategoriesUseCase creates a new ListCategoriesUseCase instance.
func NewListCategoriesUseCase(categoryRepo adapter.CategoryRepository) *ListCategoriesUseCase {
	return &ListCategoriesUseCase{
		categoryRepo: categoryRepo,
	}
}

// Execute lists every category with the number of products it holds.
func (uc *ListCategoriesUseCase) Execute(ctx context.Context) (*ListCategoriesOutput, error) {
	categories, err := uc.categoryRepo.FindAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list categories: %w", err)
	}

	counts, err := uc.categoryRepo.CountProducts(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to count products per category: %w", err)
	}

	output := &ListCategoriesOutput{
		Categories: make([]*entity.CategoryWithStats, len(categories)),
	}
	for i, cat := range categories {
		output.Categories[i] = &entity.CategoryWithStats{
			Category:     cat,
			ProductCount: counts[cat.ID],
		}
	}

	return output, nil
}
