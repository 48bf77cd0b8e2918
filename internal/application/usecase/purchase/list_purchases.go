// Package purchase contains purchase history use cases.
package purchase

import (
	"context"
	"fmt"

	"github.com/pantry-ledger/backend/internal/application/adapter"
	"github.com/pantry-ledger/backend/internal/domain/entity"
)

const (
	// DefaultPageSize is the number of purchases per page when none is given.
	DefaultPageSize = 20
	// MaxPageSize caps the page size.
	MaxPageSize = 100
)

// ListPurchasesInput represents the input for listing purchases.
type ListPurchasesInput struct {
	Page  int
	Limit int
}

// ListPurchasesUseCase handles listing purchase history.
type ListPurchasesUseCase struct {
	purchaseRepo adapter.PurchaseRepository
}

// NewListPurchasesUseCase creates a new ListPurchasesUseCase instance.
func NewListPurchasesUseCase(purchaseRepo adapter.PurchaseRepository) *ListPurchasesUseCase {
	return &ListPurchasesUseCase{
		purchaseRepo: purchaseRepo,
	}
}

// Execute lists purchases newest first.
func (uc *ListPurchasesUseCase) Execute(ctx context.Context, input ListPurchasesInput) (*entity.PurchaseListResult, error) {
	page := input.Page
	if page < 1 {
		page = 1
	}
	limit := input.Limit
	if limit < 1 {
		limit = DefaultPageSize
	}
	if limit > MaxPageSize {
		limit = MaxPageSize
	}

	result, err := uc.purchaseRepo.List(ctx, adapter.PurchasePagination{Page: page, Limit: limit})
	if err != nil {
		return nil, fmt.Errorf("failed to list purchases: %w", err)
	}
	return result, nil
}
