package budget

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

// maxDepositAttempts bounds retries when the budget changes during a deposit.
const maxDepositAttempts = 3

// DepositInput represents the input for adding funds to the budget.
type DepositInput struct {
	Amount  decimal.Decimal
	ActorID *uuid.UUID
}

// DepositOutput represents the output of a deposit.
type DepositOutput struct {
	Budget *entity.Budget
	Entry  *entity.BudgetEntry
}

// DepositUseCase handles adding funds to the budget.
type DepositUseCase struct {
	txManager  adapter.TransactionManager
	budgetRepo adapter.BudgetRepository
}

// NewDepositUseCase creates a new DepositUseCase instance.
func NewDepositUseCase(txManager adapter.TransactionManager, budgetRepo adapter.BudgetRepository) *DepositUseCase {
	return &DepositUseCase{
		txManager:  txManager,
		budgetRepo: budgetRepo,
	}
}

// Execute adds a positive amount to the budget, creating the budget on first deposit.
func (uc *DepositUseCase) Execute(ctx context.Context, input DepositInput) (*DepositOutput, error) {
	if !input.Amount.IsPositive() {
		return nil, domainerror.NewBudgetError(
			domainerror.ErrCodeInvalidDepositAmount,
			"deposit amount must be greater than zero",
			domainerror.ErrInvalidDepositAmount,
		)
	}
	if !valueobject.IsWholeCents(input.Amount) {
		return nil, domainerror.NewBudgetError(
			domainerror.ErrCodeInvalidDepositAmount,
			"deposit amount must not have more than two decimal places",
			domainerror.ErrInvalidDepositAmount,
		)
	}

	var (
		output *DepositOutput
		err    error
	)
	for attempt := 1; attempt <= maxDepositAttempts; attempt++ {
		err = uc.txManager.WithinTransaction(ctx, func(ctx context.Context) error {
			var txErr error
			output, txErr = uc.apply(ctx, input)
			return txErr
		})
		if err == nil || !domainerror.IsRetryable(err) {
			break
		}
		slog.Info("Retrying deposit after concurrent modification", "attempt", attempt)
	}

	if err != nil {
		if errors.Is(err, domainerror.ErrConcurrentModification) {
			return nil, domainerror.NewBudgetError(
				domainerror.ErrCodeBudgetConflict,
				"the budget was changed concurrently, try again",
				domainerror.ErrConcurrentModification,
			)
		}
		return nil, fmt.Errorf("failed to deposit: %w", err)
	}

	slog.Info("Budget deposit recorded",
		"amount", input.Amount.StringFixed(2),
		"total", output.Budget.Current.StringFixed(2),
	)

	return output, nil
}

func (uc *DepositUseCase) apply(ctx context.Context, input DepositInput) (*DepositOutput, error) {
	now := time.Now().UTC()

	budget, err := uc.budgetRepo.Get(ctx)
	created := false
	switch {
	case errors.Is(err, domainerror.ErrBudgetNotFound):
		budget = entity.NewBudget(now)
		created = true
	case err != nil:
		return nil, fmt.Errorf("failed to get budget: %w", err)
	}

	entry := budget.Apply(entity.BudgetEntryDeposit, input.Amount, now, nil, input.ActorID)

	if created {
		err = uc.budgetRepo.Create(ctx, budget)
	} else {
		err = uc.budgetRepo.Update(ctx, budget)
	}
	if err != nil {
		return nil, err
	}

	if err := uc.budgetRepo.AppendEntry(ctx, entry); err != nil {
		return nil, fmt.Errorf("failed to append budget entry: %w", err)
	}

	return &DepositOutput{Budget: budget, Entry: entry}, nil
}
