package product

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

// maxConsumeAttempts bounds retries when stock changes during consumption.
const maxConsumeAttempts = 3

// ConsumeStockInput represents the input for taking stock out of the pantry.
type ConsumeStockInput struct {
	ProductID uuid.UUID
	Quantity  int
}

// ConsumeStockOutput represents the output of a stock consumption.
type ConsumeStockOutput struct {
	Product  *entity.Product
	LowStock bool
}

// ConsumeStockUseCase decrements product stock as items are handed out.
type ConsumeStockUseCase struct {
	txManager   adapter.TransactionManager
	productRepo adapter.ProductRepository
	notifier    adapter.NotificationService
}

// NewConsumeStockUseCase creates a new ConsumeStockUseCase instance. notifier may be nil.
func NewConsumeStockUseCase(
	txManager adapter.TransactionManager,
	productRepo adapter.ProductRepository,
	notifier adapter.NotificationService,
) *ConsumeStockUseCase {
	return &ConsumeStockUseCase{
		txManager:   txManager,
		productRepo: productRepo,
		notifier:    notifier,
	}
}

// Execute removes quantity units from stock. It never lets stock go negative.
func (uc *ConsumeStockUseCase) Execute(ctx context.Context, input ConsumeStockInput) (*ConsumeStockOutput, error) {
	if input.Quantity <= 0 {
		return nil, domainerror.NewProductError(
			domainerror.ErrCodeInvalidProductQuantity,
			"quantity must be greater than zero",
			domainerror.ErrInvalidProductQuantity,
		)
	}

	var (
		product    *entity.Product
		crossedLow bool
		err        error
	)
	for attempt := 1; attempt <= maxConsumeAttempts; attempt++ {
		err = uc.txManager.WithinTransaction(ctx, func(ctx context.Context) error {
			p, err := uc.productRepo.FindByID(ctx, input.ProductID)
			if err != nil {
				return err
			}
			if input.Quantity > p.Quantity {
				return domainerror.NewProductError(
					domainerror.ErrCodeInsufficientStock,
					fmt.Sprintf("only %d units of %s are in stock", p.Quantity, p.Name),
					domainerror.ErrInsufficientStock,
				)
			}

			wasLow := p.IsLowStock()
			p.RemoveStockClamped(input.Quantity, time.Now().UTC())
			if err := uc.productRepo.Update(ctx, p); err != nil {
				return err
			}

			product = p
			crossedLow = !wasLow && p.IsLowStock()
			return nil
		})
		if err == nil || !domainerror.IsRetryable(err) {
			break
		}
		slog.Info("Retrying stock consumption after concurrent modification", "attempt", attempt)
	}

	if err != nil {
		var productErr *domainerror.ProductError
		switch {
		case errors.As(err, &productErr):
			return nil, err
		case errors.Is(err, domainerror.ErrProductNotFound):
			return nil, notFoundError()
		case errors.Is(err, domainerror.ErrConcurrentModification):
			return nil, domainerror.NewProductError(
				domainerror.ErrCodeStockConflict,
				"stock changed concurrently, try again",
				domainerror.ErrConcurrentModification,
			)
		default:
			return nil, fmt.Errorf("failed to consume stock: %w", err)
		}
	}

	if crossedLow {
		uc.alert(ctx, product)
	}

	return &ConsumeStockOutput{
		Product:  product,
		LowStock: product.IsLowStock(),
	}, nil
}

func (uc *ConsumeStockUseCase) alert(ctx context.Context, product *entity.Product) {
	if uc.notifier == nil {
		return
	}

	err := uc.notifier.QueueLowStockAlert(ctx, adapter.LowStockAlertInput{
		ProductID:   product.ID,
		ProductName: product.Name,
		Quantity:    product.Quantity,
		MinStock:    product.MinStock,
	})
	if err != nil {
		slog.Warn("Failed to queue low stock alert", "productID", product.ID, "error", err)
	}
}
