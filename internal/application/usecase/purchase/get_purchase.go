package purchase

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

// GetPurchaseOutput represents a purchase and whether it can still be reversed.
type GetPurchaseOutput struct {
	Purchase   *entity.PurchaseRecord
	Reversible bool
}

// GetPurchaseUseCase handles retrieving a single purchase.
type GetPurchaseUseCase struct {
	purchaseRepo   adapter.PurchaseRepository
	reversalWindow time.Duration
	now            func() time.Time
}

// NewGetPurchaseUseCase creates a new GetPurchaseUseCase instance.
func NewGetPurchaseUseCase(purchaseRepo adapter.PurchaseRepository, reversalWindow time.Duration) *GetPurchaseUseCase {
	return &GetPurchaseUseCase{
		purchaseRepo:   purchaseRepo,
		reversalWindow: reversalWindow,
		now:            func() time.Time { return time.Now().UTC() },
	}
}

// WithClock replaces the clock used to decide whether a purchase is still reversible.
func (uc *GetPurchaseUseCase) WithClock(now func() time.Time) *GetPurchaseUseCase {
	if now != nil {
		uc.now = now
	}
	return uc
}

// Execute returns the purchase with its items.
func (uc *GetPurchaseUseCase) Execute(ctx context.Context, id uuid.UUID) (*GetPurchaseOutput, error) {
	purchase, err := uc.purchaseRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, domainerror.ErrPurchaseNotFound) {
			return nil, domainerror.NewSettlementError(
				domainerror.ErrCodePurchaseNotFound,
				"purchase not found",
				domainerror.ErrPurchaseNotFound,
			)
		}
		return nil, fmt.Errorf("failed to get purchase: %w", err)
	}

	latest, err := uc.purchaseRepo.FindMostRecent(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get most recent purchase: %w", err)
	}

	return &GetPurchaseOutput{
		Purchase:   purchase,
		Reversible: latest.ID == purchase.ID && purchase.WithinWindow(uc.now(), uc.reversalWindow),
	}, nil
}
