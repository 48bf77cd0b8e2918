package settlement

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/pantry-ledger/backend/internal/application/adapter"
	"github.com/pantry-ledger/backend/internal/domain/entity"
	domainerror "github.com/pantry-ledger/backend/internal/domain/error"
)

// ReversePurchaseInput represents the input for reversing a purchase.
type ReversePurchaseInput struct {
	PurchaseID uuid.UUID
	ActorID    *uuid.UUID
}

// ReversePurchaseOutput represents the output of a reversal.
type ReversePurchaseOutput struct {
	Purchase       *entity.PurchaseRecord
	Budget         *entity.Budget
	SkippedItems   []entity.PurchaseItem
	ReceiptDeleted bool
}

// ReversePurchaseUseCase undoes the most recent settlement within the reversal window.
type ReversePurchaseUseCase struct {
	txManager      adapter.TransactionManager
	budgetRepo     adapter.BudgetRepository
	productRepo    adapter.ProductRepository
	purchaseRepo   adapter.PurchaseRepository
	receiptStorage adapter.ReceiptStorage
	lock           adapter.SettlementLock
	notifier       adapter.NotificationService
	config         Config
}

// NewReversePurchaseUseCase creates a new ReversePurchaseUseCase instance.
// lock and notifier may be nil.
func NewReversePurchaseUseCase(
	txManager adapter.TransactionManager,
	budgetRepo adapter.BudgetRepository,
	productRepo adapter.ProductRepository,
	purchaseRepo adapter.PurchaseRepository,
	receiptStorage adapter.ReceiptStorage,
	lock adapter.SettlementLock,
	notifier adapter.NotificationService,
	config Config,
) *ReversePurchaseUseCase {
	return &ReversePurchaseUseCase{
		txManager:      txManager,
		budgetRepo:     budgetRepo,
		productRepo:    productRepo,
		purchaseRepo:   purchaseRepo,
		receiptStorage: receiptStorage,
		lock:           lock,
		notifier:       notifier,
		config:         config.normalized(),
	}
}

// Execute restores the budget and stock of a purchase and deletes it.
// Stock never goes below zero. Receipt removal is best effort.
func (uc *ReversePurchaseUseCase) Execute(ctx context.Context, input ReversePurchaseInput) (*ReversePurchaseOutput, error) {
	release, err := acquireLock(ctx, uc.lock)
	if err != nil {
		return nil, err
	}
	defer release()

	purchase, err := uc.purchaseRepo.FindByID(ctx, input.PurchaseID)
	if err != nil {
		if errors.Is(err, domainerror.ErrPurchaseNotFound) {
			return nil, purchaseNotFoundError()
		}
		return nil, fmt.Errorf("failed to load purchase: %w", err)
	}

	now := uc.config.Clock()
	if err := uc.checkEligibility(ctx, purchase, now); err != nil {
		return nil, err
	}

	var output *ReversePurchaseOutput
	err = withRetry(ctx, uc.txManager, uc.config.MaxRetries, "reverse", func(txCtx context.Context) error {
		var txErr error
		output, txErr = uc.apply(txCtx, purchase, input.ActorID, now)
		return txErr
	})
	if err != nil {
		return nil, mapTransactionError(err, "reverse purchase")
	}

	output.ReceiptDeleted = uc.deleteReceipt(ctx, purchase)
	uc.withdrawNotices(ctx, purchase.ID)

	slog.Info("Purchase reversed",
		"purchaseID", purchase.ID,
		"total", purchase.TotalAmount.StringFixed(2),
		"budget", output.Budget.Current.StringFixed(2),
		"skipped", len(output.SkippedItems),
	)

	return output, nil
}

func (uc *ReversePurchaseUseCase) checkEligibility(ctx context.Context, purchase *entity.PurchaseRecord, now time.Time) error {
	latest, err := uc.purchaseRepo.FindMostRecent(ctx)
	if err != nil {
		return fmt.Errorf("failed to load most recent purchase: %w", err)
	}
	if latest.ID != purchase.ID {
		return domainerror.NewSettlementError(
			domainerror.ErrCodeNotMostRecent,
			"only the most recent purchase can be reversed",
			domainerror.ErrNotMostRecent,
		)
	}

	if !purchase.WithinWindow(now, uc.config.ReversalWindow) {
		return domainerror.NewSettlementError(
			domainerror.ErrCodeReversalExpired,
			fmt.Sprintf("purchases can only be reversed within %s of settlement", uc.config.ReversalWindow),
			domainerror.ErrReversalExpired,
		)
	}

	return nil
}

// apply performs every ledger write of a reversal. It runs inside one transaction.
func (uc *ReversePurchaseUseCase) apply(
	ctx context.Context,
	purchase *entity.PurchaseRecord,
	actorID *uuid.UUID,
	now time.Time,
) (*ReversePurchaseOutput, error) {
	budget, err := uc.budgetRepo.Get(ctx)
	if err != nil {
		return nil, err
	}

	entry := budget.Apply(entity.BudgetEntryReversal, purchase.TotalAmount, now, &purchase.ID, actorID)
	if err := uc.budgetRepo.Update(ctx, budget); err != nil {
		return nil, err
	}
	if err := uc.budgetRepo.AppendEntry(ctx, entry); err != nil {
		return nil, fmt.Errorf("failed to append budget entry: %w", err)
	}

	skipped, err := adjustStock(ctx, uc.productRepo, purchase.Items, func(p *entity.Product, qty int) {
		if removed := p.RemoveStockClamped(qty, now); removed < qty {
			slog.Warn("Stock clamped at zero during reversal",
				"productID", p.ID,
				"requested", qty,
				"removed", removed,
			)
		}
	})
	if err != nil {
		return nil, err
	}

	if err := uc.purchaseRepo.Delete(ctx, purchase.ID); err != nil {
		if errors.Is(err, domainerror.ErrPurchaseNotFound) {
			return nil, purchaseNotFoundError()
		}
		return nil, fmt.Errorf("failed to delete purchase: %w", err)
	}

	return &ReversePurchaseOutput{
		Purchase:     purchase,
		Budget:       budget,
		SkippedItems: skipped,
	}, nil
}

func (uc *ReversePurchaseUseCase) deleteReceipt(ctx context.Context, purchase *entity.PurchaseRecord) bool {
	if !purchase.HasReceipt() {
		return false
	}
	if purchase.ReceiptPath == "" {
		slog.Warn("Purchase receipt has no storage path, leaving blob in place", "purchaseID", purchase.ID)
		return false
	}

	if err := uc.receiptStorage.Delete(ctx, purchase.ReceiptPath); err != nil {
		slog.Warn("Failed to delete receipt of reversed purchase",
			"purchaseID", purchase.ID,
			"path", purchase.ReceiptPath,
			"error", err,
		)
		return false
	}
	return true
}

// withdrawNotices cancels settlement summaries that have not been sent yet.
func (uc *ReversePurchaseUseCase) withdrawNotices(ctx context.Context, purchaseID uuid.UUID) {
	if uc.notifier == nil {
		return
	}
	if err := uc.notifier.CancelPurchaseNotices(ctx, purchaseID); err != nil {
		slog.Warn("Failed to cancel notifications of reversed purchase", "purchaseID", purchaseID, "error", err)
	}
}

func purchaseNotFoundError() error {
	return domainerror.NewSettlementError(
		domainerror.ErrCodePurchaseNotFound,
		"purchase not found",
		domainerror.ErrPurchaseNotFound,
	)
}
