// Package draft contains use cases for the draft purchase that precedes settlement.
package draft

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/pantry-ledger/backend/internal/application/adapter"
	"github.com/pantry-ledger/backend/internal/domain/entity"
)

// DraftOutput represents the draft purchase with its running total.
type DraftOutput struct {
	Draft *entity.DraftPurchase
	Total decimal.Decimal
}

// GetDraftUseCase handles retrieving the draft purchase.
type GetDraftUseCase struct {
	draftRepo adapter.DraftPurchaseRepository
}

// NewGetDraftUseCase creates a new GetDraftUseCase instance.
func NewGetDraftUseCase(draftRepo adapter.DraftPurchaseRepository) *GetDraftUseCase {
	return &GetDraftUseCase{
		draftRepo: draftRepo,
	}
}

// Execute returns the draft purchase. An empty draft is created on first use.
func (uc *GetDraftUseCase) Execute(ctx context.Context) (*DraftOutput, error) {
	draft, err := uc.draftRepo.Get(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get draft purchase: %w", err)
	}

	return &DraftOutput{
		Draft: draft,
		Total: draft.Total(),
	}, nil
}
