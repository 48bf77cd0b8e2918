package draft

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/pantry-ledger/backend/internal/application/adapter"
	domainerror "github.com/pantry-ledger/backend/internal/domain/error"
	"github.com/pantry-ledger/backend/internal/domain/valueobject"
)

// EditDraftPriceInput represents the input for changing a draft item price.
type EditDraftPriceInput struct {
	ProductID uuid.UUID
	Price     decimal.Decimal
}

// EditDraftPriceUseCase changes the negotiated price of a draft item.
// The catalog price of the product is never touched.
type EditDraftPriceUseCase struct {
	txManager adapter.TransactionManager
	draftRepo adapter.DraftPurchaseRepository
}

// NewEditDraftPriceUseCase creates a new EditDraftPriceUseCase instance.
func NewEditDraftPriceUseCase(txManager adapter.TransactionManager, draftRepo adapter.DraftPurchaseRepository) *EditDraftPriceUseCase {
	return &EditDraftPriceUseCase{
		txManager: txManager,
		draftRepo: draftRepo,
	}
}

// Execute updates the price of the draft item for the given product.
func (uc *EditDraftPriceUseCase) Execute(ctx context.Context, input EditDraftPriceInput) (*DraftOutput, error) {
	if input.Price.IsNegative() {
		return nil, domainerror.NewSettlementError(
			domainerror.ErrCodeInvalidDraftPrice,
			"price must be zero or greater",
			domainerror.ErrInvalidDraftPrice,
		)
	}
	if !valueobject.IsWholeCents(input.Price) {
		return nil, domainerror.NewSettlementError(
			domainerror.ErrCodeInvalidDraftPrice,
			"price must not have more than two decimal places",
			domainerror.ErrInvalidDraftPrice,
		)
	}

	var output *DraftOutput
	err := uc.txManager.WithinTransaction(ctx, func(ctx context.Context) error {
		draft, err := uc.draftRepo.Get(ctx)
		if err != nil {
			return fmt.Errorf("failed to get draft purchase: %w", err)
		}

		if !draft.SetPrice(input.ProductID, input.Price, time.Now().UTC()) {
			return draftItemNotFound()
		}

		if err := uc.draftRepo.Save(ctx, draft); err != nil {
			return fmt.Errorf("failed to save draft purchase: %w", err)
		}

		output = &DraftOutput{Draft: draft, Total: draft.Total()}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return output, nil
}

func draftItemNotFound() error {
	return domainerror.NewSettlementError(
		domainerror.ErrCodeDraftItemNotFound,
		"product is not part of the draft purchase",
		domainerror.ErrDraftItemNotFound,
	)
}
