// Package adapter defines interfaces that will be implemented in the integration layer.
package adapter

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/pantry-ledger/backend/internal/domain/entity"
)

// BudgetRepository defines the interface for budget persistence operations.
type BudgetRepository interface {
	// Get retrieves the current budget. Returns domainerror.ErrBudgetNotFound when none exists.
	Get(ctx context.Context) (*entity.Budget, error)

	// Create stores a new budget at version 1.
	Create(ctx context.Context, budget *entity.Budget) error

	// Update writes the budget only if its stored version still equals budget.Version,
	// then increments budget.Version. Returns domainerror.ErrConcurrentModification otherwise.
	Update(ctx context.Context, budget *entity.Budget) error

	// AppendEntry appends a history entry.
	AppendEntry(ctx context.Context, entry *entity.BudgetEntry) error

	// ListEntries returns history entries, newest first.
	ListEntries(ctx context.Context, limit int) ([]*entity.BudgetEntry, error)

	// SumEntries returns the sum of all history amounts.
	SumEntries(ctx context.Context) (decimal.Decimal, error)
}
