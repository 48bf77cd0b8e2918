package settlement

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/pantry-ledger/backend/internal/application/adapter"
	"github.com/pantry-ledger/backend/internal/domain/entity"
	domainerror "github.com/pantry-ledger/backend/internal/domain/error"
	"github.com/pantry-ledger/backend/internal/domain/valueobject"
)

// SettlePurchaseInput represents the input for settling the draft purchase.
type SettlePurchaseInput struct {
	ActorID *uuid.UUID
	Receipt *entity.Receipt
}

// SettlePurchaseOutput represents the output of a settlement.
type SettlePurchaseOutput struct {
	Purchase     *entity.PurchaseRecord
	Budget       *entity.Budget
	SkippedItems []entity.PurchaseItem
	Overspent    bool
}

// SettlePurchaseUseCase turns the draft purchase into an immutable purchase record,
// deducting the total from the budget and adding the quantities to stock.
type SettlePurchaseUseCase struct {
	txManager        adapter.TransactionManager
	budgetRepo       adapter.BudgetRepository
	productRepo      adapter.ProductRepository
	draftRepo        adapter.DraftPurchaseRepository
	purchaseRepo     adapter.PurchaseRepository
	shoppingListRepo adapter.ShoppingListRepository
	receiptStorage   adapter.ReceiptStorage
	lock             adapter.SettlementLock
	notifier         adapter.NotificationService
	config           Config
}

// NewSettlePurchaseUseCase creates a new SettlePurchaseUseCase instance.
// lock and notifier may be nil.
func NewSettlePurchaseUseCase(
	txManager adapter.TransactionManager,
	budgetRepo adapter.BudgetRepository,
	productRepo adapter.ProductRepository,
	draftRepo adapter.DraftPurchaseRepository,
	purchaseRepo adapter.PurchaseRepository,
	shoppingListRepo adapter.ShoppingListRepository,
	receiptStorage adapter.ReceiptStorage,
	lock adapter.SettlementLock,
	notifier adapter.NotificationService,
	config Config,
) *SettlePurchaseUseCase {
	return &SettlePurchaseUseCase{
		txManager:        txManager,
		budgetRepo:       budgetRepo,
		productRepo:      productRepo,
		draftRepo:        draftRepo,
		purchaseRepo:     purchaseRepo,
		shoppingListRepo: shoppingListRepo,
		receiptStorage:   receiptStorage,
		lock:             lock,
		notifier:         notifier,
		config:           config.normalized(),
	}
}

// Execute settles the current draft purchase.
// Validation happens before any write. The receipt is uploaded first and removed again
// when the ledger transaction fails.
func (uc *SettlePurchaseUseCase) Execute(ctx context.Context, input SettlePurchaseInput) (*SettlePurchaseOutput, error) {
	release, err := acquireLock(ctx, uc.lock)
	if err != nil {
		return nil, err
	}
	defer release()

	draft, err := uc.draftRepo.Get(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load draft purchase: %w", err)
	}
	if draft.IsEmpty() {
		return nil, emptyDraftError()
	}

	contentType, err := uc.validateReceipt(input.Receipt)
	if err != nil {
		return nil, err
	}

	if _, err := uc.budgetRepo.Get(ctx); err != nil {
		return nil, mapTransactionError(err, "load budget")
	}

	now := uc.config.Clock()
	purchaseID := uuid.New()

	stored, err := uc.uploadReceipt(ctx, purchaseID, input.Receipt, contentType, now)
	if err != nil {
		return nil, err
	}

	var output *SettlePurchaseOutput
	err = withRetry(ctx, uc.txManager, uc.config.MaxRetries, "settle", func(txCtx context.Context) error {
		var txErr error
		output, txErr = uc.apply(txCtx, purchaseID, stored, input.ActorID, now)
		return txErr
	})
	if err != nil {
		if delErr := uc.receiptStorage.Delete(ctx, stored.Path); delErr != nil {
			slog.Error("Failed to remove receipt after aborted settlement",
				"purchaseID", purchaseID,
				"path", stored.Path,
				"error", delErr,
			)
		}
		return nil, mapTransactionError(err, "settle purchase")
	}

	slog.Info("Purchase settled",
		"purchaseID", output.Purchase.ID,
		"items", len(output.Purchase.Items),
		"total", output.Purchase.TotalAmount.StringFixed(2),
		"budgetAfter", output.Purchase.BudgetAfter.StringFixed(2),
		"skipped", len(output.SkippedItems),
	)

	uc.notify(ctx, output.Purchase)

	return output, nil
}

// apply performs every ledger write of a settlement. It runs inside one transaction.
func (uc *SettlePurchaseUseCase) apply(
	ctx context.Context,
	purchaseID uuid.UUID,
	stored *entity.StoredReceipt,
	actorID *uuid.UUID,
	now time.Time,
) (*SettlePurchaseOutput, error) {
	budget, err := uc.budgetRepo.Get(ctx)
	if err != nil {
		return nil, err
	}

	// The draft is read again so items toggled after validation are settled too.
	draft, err := uc.draftRepo.Get(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load draft purchase: %w", err)
	}
	if draft.IsEmpty() {
		return nil, emptyDraftError()
	}

	purchase := entity.NewPurchaseRecord(purchaseID, draft.Items, budget.Current, now, actorID)
	purchase.AttachReceipt(stored)

	if err := uc.purchaseRepo.Create(ctx, purchase); err != nil {
		return nil, fmt.Errorf("failed to create purchase record: %w", err)
	}

	entry := budget.Apply(entity.BudgetEntryPurchase, purchase.TotalAmount.Neg(), now, &purchase.ID, actorID)
	if err := uc.budgetRepo.Update(ctx, budget); err != nil {
		return nil, err
	}
	if err := uc.budgetRepo.AppendEntry(ctx, entry); err != nil {
		return nil, fmt.Errorf("failed to append budget entry: %w", err)
	}

	skipped, err := adjustStock(ctx, uc.productRepo, purchase.Items, func(p *entity.Product, qty int) {
		p.AddStock(qty, now)
	})
	if err != nil {
		return nil, err
	}

	productIDs := draft.ProductIDs()
	draft.Clear(now)
	if err := uc.draftRepo.Save(ctx, draft); err != nil {
		return nil, fmt.Errorf("failed to clear draft purchase: %w", err)
	}

	removed, err := uc.shoppingListRepo.DeleteByProductIDs(ctx, productIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to remove settled shopping list items: %w", err)
	}
	slog.Debug("Removed settled shopping list items", "count", removed)

	return &SettlePurchaseOutput{
		Purchase:     purchase,
		Budget:       budget,
		SkippedItems: skipped,
		Overspent:    budget.IsOverspent(),
	}, nil
}

func (uc *SettlePurchaseUseCase) validateReceipt(receipt *entity.Receipt) (string, error) {
	if receipt == nil {
		return "", domainerror.NewSettlementError(
			domainerror.ErrCodeReceiptRequired,
			"a receipt is required to settle a purchase",
			domainerror.ErrInvalidReceipt,
		)
	}

	contentType, violation := uc.config.ReceiptPolicy.Check(receipt.Data)
	switch violation {
	case valueobject.ReceiptOK:
		return contentType, nil
	case valueobject.ReceiptMissing:
		return "", domainerror.NewSettlementError(
			domainerror.ErrCodeReceiptRequired,
			"a receipt is required to settle a purchase",
			domainerror.ErrInvalidReceipt,
		)
	case valueobject.ReceiptTooLarge:
		return "", domainerror.NewSettlementError(
			domainerror.ErrCodeReceiptTooLarge,
			fmt.Sprintf("receipt must not exceed %d bytes", uc.config.ReceiptPolicy.MaxBytes),
			domainerror.ErrInvalidReceipt,
		)
	default:
		return "", domainerror.NewSettlementError(
			domainerror.ErrCodeReceiptType,
			fmt.Sprintf("receipt type %s is not supported, use JPEG, PNG, GIF or PDF", contentType),
			domainerror.ErrInvalidReceipt,
		)
	}
}

func (uc *SettlePurchaseUseCase) uploadReceipt(
	ctx context.Context,
	purchaseID uuid.UUID,
	receipt *entity.Receipt,
	contentType string,
	now time.Time,
) (*entity.StoredReceipt, error) {
	storagePath := entity.ReceiptPath(purchaseID, contentType)

	url, err := uc.receiptStorage.Put(ctx, storagePath, receipt.Data, contentType)
	if err != nil {
		slog.Error("Receipt upload failed", "purchaseID", purchaseID, "error", err)
		return nil, domainerror.NewSettlementError(
			domainerror.ErrCodeReceiptUpload,
			"failed to upload receipt, nothing was saved",
			errors.Join(domainerror.ErrReceiptUpload, err),
		)
	}

	return &entity.StoredReceipt{
		Path:       storagePath,
		URL:        url,
		Name:       entity.ReceiptDisplayName(receipt.FileName, contentType),
		UploadedAt: now,
	}, nil
}

func (uc *SettlePurchaseUseCase) notify(ctx context.Context, purchase *entity.PurchaseRecord) {
	if uc.notifier == nil {
		return
	}

	settledBy := ""
	if purchase.SettledBy != nil {
		settledBy = purchase.SettledBy.String()
	}

	err := uc.notifier.QueuePurchaseSettled(ctx, adapter.PurchaseSettledInput{
		PurchaseID:   purchase.ID,
		ItemCount:    len(purchase.Items),
		TotalAmount:  formatMoney(purchase.TotalAmount),
		BudgetBefore: formatMoney(purchase.BudgetBefore),
		BudgetAfter:  formatMoney(purchase.BudgetAfter),
		SettledBy:    settledBy,
	})
	if err != nil {
		slog.Warn("Failed to queue settlement notification", "purchaseID", purchase.ID, "error", err)
	}
}

func emptyDraftError() error {
	return domainerror.NewSettlementError(
		domainerror.ErrCodeEmptyDraft,
		"there are no items to settle",
		domainerror.ErrEmptyDraft,
	)
}

func formatMoney(d decimal.Decimal) string {
	return d.StringFixed(2)
}
