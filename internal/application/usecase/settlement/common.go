// Package settlement contains the purchase settlement and reversal use cases.
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
	"github.com/pantry-ledger/backend/internal/domain/valueobject"
)

const (
	// DefaultReversalWindow is how long after settlement a purchase may be reversed.
	DefaultReversalWindow = 24 * time.Hour
	// DefaultMaxRetries is how many times a conflicting transaction is attempted.
	DefaultMaxRetries = 3
)

// Config holds the tunable settlement rules.
type Config struct {
	ReversalWindow time.Duration
	MaxRetries     int
	ReceiptPolicy  valueobject.ReceiptPolicy
	Clock          func() time.Time
}

// DefaultConfig returns the settlement rules used in production.
func DefaultConfig() Config {
	return Config{
		ReversalWindow: DefaultReversalWindow,
		MaxRetries:     DefaultMaxRetries,
		ReceiptPolicy:  valueobject.DefaultReceiptPolicy(),
		Clock:          func() time.Time { return time.Now().UTC() },
	}
}

func (c Config) normalized() Config {
	if c.ReversalWindow <= 0 {
		c.ReversalWindow = DefaultReversalWindow
	}
	if c.MaxRetries <= 0 {
		c.MaxRetries = DefaultMaxRetries
	}
	if c.ReceiptPolicy.MaxBytes <= 0 {
		c.ReceiptPolicy = valueobject.DefaultReceiptPolicy()
	}
	if c.Clock == nil {
		c.Clock = func() time.Time { return time.Now().UTC() }
	}
	return c
}

// stockAdjuster changes the quantity of a resolved product for one purchase item.
type stockAdjuster func(product *entity.Product, qty int)

// adjustStock resolves every item to a product, applies adjust and writes each touched product once.
// Items are resolved by product ID first and by exact name as a fallback for
// snapshots whose product was re-created. Unresolvable items are returned as skipped.
func adjustStock(
	ctx context.Context,
	productRepo adapter.ProductRepository,
	items []entity.PurchaseItem,
	adjust stockAdjuster,
) ([]entity.PurchaseItem, error) {
	ids := make([]uuid.UUID, len(items))
	for i, item := range items {
		ids[i] = item.ProductID
	}

	found, err := productRepo.FindByIDs(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("failed to load products: %w", err)
	}
	byID := make(map[uuid.UUID]*entity.Product, len(found))
	for _, p := range found {
		byID[p.ID] = p
	}

	var (
		skipped []entity.PurchaseItem
		order   []uuid.UUID
	)
	touched := make(map[uuid.UUID]*entity.Product)

	for _, item := range items {
		product := byID[item.ProductID]
		if product == nil {
			product, err = productRepo.FindFirstByName(ctx, item.Name)
			if err != nil && !errors.Is(err, domainerror.ErrProductNotFound) {
				return nil, fmt.Errorf("failed to resolve product by name: %w", err)
			}
			if product != nil {
				slog.Warn("Resolved purchase item by name",
					"productID", item.ProductID,
					"name", item.Name,
					"resolvedID", product.ID,
				)
			}
		}
		if product == nil {
			slog.Warn("No product matches purchase item, skipping stock change",
				"productID", item.ProductID,
				"name", item.Name,
				"quantity", item.Quantity,
			)
			skipped = append(skipped, item)
			continue
		}

		if existing, ok := touched[product.ID]; ok {
			product = existing
		} else {
			touched[product.ID] = product
			order = append(order, product.ID)
		}
		adjust(product, item.Quantity)
	}

	for _, id := range order {
		if err := productRepo.Update(ctx, touched[id]); err != nil {
			return nil, err
		}
	}

	return skipped, nil
}

// withRetry runs the unit of work in a transaction, retrying on version conflicts.
func withRetry(ctx context.Context, txManager adapter.TransactionManager, maxRetries int, op string, fn func(ctx context.Context) error) error {
	var err error
	for attempt := 1; attempt <= maxRetries; attempt++ {
		err = txManager.WithinTransaction(ctx, fn)
		if err == nil || !domainerror.IsRetryable(err) {
			return err
		}
		slog.Info("Retrying after concurrent modification",
			"operation", op,
			"attempt", attempt,
		)
	}
	return err
}

// acquireLock takes the settlement lock when one is configured.
func acquireLock(ctx context.Context, lock adapter.SettlementLock) (func(), error) {
	if lock == nil {
		return func() {}, nil
	}

	release, acquired, err := lock.Acquire(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to acquire settlement lock: %w", err)
	}
	if !acquired {
		return nil, domainerror.NewSettlementError(
			domainerror.ErrCodeSettlementInProgress,
			"another settlement or reversal is in progress, try again shortly",
			domainerror.ErrSettlementInProgress,
		)
	}
	return release, nil
}

// mapTransactionError converts errors raised inside the unit of work into settlement errors.
func mapTransactionError(err error, op string) error {
	var settlementErr *domainerror.SettlementError
	switch {
	case errors.As(err, &settlementErr):
		return err
	case errors.Is(err, domainerror.ErrBudgetNotFound):
		return domainerror.NewSettlementError(
			domainerror.ErrCodeNoBudget,
			"no budget has been set up",
			domainerror.ErrBudgetNotFound,
		)
	case errors.Is(err, domainerror.ErrConcurrentModification):
		return domainerror.NewSettlementError(
			domainerror.ErrCodeConcurrentModification,
			"budget or stock changed concurrently, try again",
			domainerror.ErrConcurrentModification,
		)
	default:
		return fmt.Errorf("failed to %s: %w", op, err)
	}
}
