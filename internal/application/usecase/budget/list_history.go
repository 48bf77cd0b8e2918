package budget

import (
	"context"
	"fmt"

	"github.com/pantry-ledger/backend/internal/application/adapter"
	"github.com/pantry-ledger/backend/internal/domain/entity"
)

const (
	// DefaultHistoryLimit is the number of entries returned when no limit is given.
	DefaultHistoryLimit = 50
	// MaxHistoryLimit caps the number of entries returned.
	MaxHistoryLimit = 500
)

// ListHistoryInput represents the input for listing budget history.
type ListHistoryInput struct {
	Limit int
}

// ListHistoryOutput represents the budget history, newest first.
type ListHistoryOutput struct {
	Entries []*entity.BudgetEntry
}

// ListHistoryUseCase handles listing budget history entries.
type ListHistoryUseCase struct {
	budgetRepo adapter.BudgetRepository
}

// NewListHistoryUseCase creates a new ListHistoryUseCase instance.
func NewListHistoryUseCase(budgetRepo adapter.BudgetRepository) *ListHistoryUseCase {
	return &ListHistoryUseCase{
		budgetRepo: budgetRepo,
	}
}

// Execute lists budget history entries.
func (uc *ListHistoryUseCase) Execute(ctx context.Context, input ListHistoryInput) (*ListHistoryOutput, error) {
	limit := input.Limit
	if limit <= 0 {
		limit = DefaultHistoryLimit
	}
	if limit > MaxHistoryLimit {
		limit = MaxHistoryLimit
	}

	entries, err := uc.budgetRepo.ListEntries(ctx, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list budget history: %w", err)
	}

	return &ListHistoryOutput{Entries: entries}, nil
}
