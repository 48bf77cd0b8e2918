// Package budget contains budget-related use cases.
package budget

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/shopspring/decimal"

	"github.com/pantry-ledger/backend/internal/application/adapter"
	"github.com/pantry-ledger/backend/internal/domain/entity"
	domainerror "github.com/pantry-ledger/backend/internal/domain/error"
)

// GetBudgetOutput represents the current budget and whether it matches its history.
type GetBudgetOutput struct {
	Budget       *entity.Budget
	HistoryTotal decimal.Decimal
	Consistent   bool
}

// GetBudgetUseCase handles retrieving the current budget.
type GetBudgetUseCase struct {
	budgetRepo adapter.BudgetRepository
}

// NewGetBudgetUseCase creates a new GetBudgetUseCase instance.
func NewGetBudgetUseCase(budgetRepo adapter.BudgetRepository) *GetBudgetUseCase {
	return &GetBudgetUseCase{
		budgetRepo: budgetRepo,
	}
}

// Execute returns the budget along with the sum of its history.
func (uc *GetBudgetUseCase) Execute(ctx context.Context) (*GetBudgetOutput, error) {
	budget, err := uc.budgetRepo.Get(ctx)
	if err != nil {
		if errors.Is(err, domainerror.ErrBudgetNotFound) {
			return nil, domainerror.NewBudgetError(
				domainerror.ErrCodeBudgetNotFound,
				"no budget has been set up yet",
				domainerror.ErrBudgetNotFound,
			)
		}
		return nil, fmt.Errorf("failed to get budget: %w", err)
	}

	sum, err := uc.budgetRepo.SumEntries(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to sum budget history: %w", err)
	}

	consistent := sum.Equal(budget.Current)
	if !consistent {
		slog.Warn("Budget total differs from its history",
			"current", budget.Current.StringFixed(2),
			"history", sum.StringFixed(2),
		)
	}

	return &GetBudgetOutput{
		Budget:       budget,
		HistoryTotal: sum,
		Consistent:   consistent,
	}, nil
}
