package budget

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pantry-ledger/backend/internal/application/usecase/usecasetest"
	"github.com/pantry-ledger/backend/internal/domain/entity"
	domainerror "github.com/pantry-ledger/backend/internal/domain/error"
)

func TestDeposit_CreatesBudgetOnFirstDeposit(t *testing.T) {
	ledger := usecasetest.NewLedger()
	actor := uuid.New()
	uc := NewDepositUseCase(ledger, ledger.Budgets())

	out, err := uc.Execute(context.Background(), DepositInput{Amount: decimal.RequireFromString("250.00"), ActorID: &actor})
	require.NoError(t, err)

	assert.True(t, decimal.RequireFromString("250.00").Equal(out.Budget.Current))
	require.NotNil(t, out.Budget.LatestUpdate)
	assert.True(t, decimal.RequireFromString("250.00").Equal(out.Budget.LatestUpdate.Amount))
	assert.Equal(t, entity.BudgetEntryDeposit, out.Entry.Kind)
	assert.Equal(t, &actor, out.Entry.ActorID)
	assert.Len(t, ledger.State.Entries, 1)
}

func TestDeposit_AddsToExistingBudget(t *testing.T) {
	ledger := usecasetest.NewLedger()
	ledger.SeedBudget("100.00", time.Now().UTC().Add(-time.Hour))
	uc := NewDepositUseCase(ledger, ledger.Budgets())

	out, err := uc.Execute(context.Background(), DepositInput{Amount: decimal.RequireFromString("40.10")})
	require.NoError(t, err)

	assert.True(t, decimal.RequireFromString("140.10").Equal(out.Budget.Current))
	assert.True(t, decimal.RequireFromString("140.10").Equal(out.Entry.TotalBudget))
	assert.True(t, ledger.EntriesSum().Equal(ledger.State.Budget.Current))
}

func TestDeposit_RejectsInvalidAmounts(t *testing.T) {
	for _, amount := range []string{"0", "-5.00", "0.001", "10.555"} {
		t.Run(amount, func(t *testing.T) {
			ledger := usecasetest.NewLedger()
			uc := NewDepositUseCase(ledger, ledger.Budgets())

			_, err := uc.Execute(context.Background(), DepositInput{Amount: decimal.RequireFromString(amount)})

			require.ErrorIs(t, err, domainerror.ErrInvalidDepositAmount)
			var budgetErr *domainerror.BudgetError
			require.True(t, errors.As(err, &budgetErr))
			assert.Equal(t, domainerror.ErrCodeInvalidDepositAmount, budgetErr.Code)
			assert.Zero(t, ledger.Writes)
		})
	}
}

func TestDeposit_LosingFirstDepositRaceRetriesAsUpdate(t *testing.T) {
	ledger := usecasetest.NewLedger()
	ledger.RivalDeposit = "100.00"
	uc := NewDepositUseCase(ledger, ledger.Budgets())

	out, err := uc.Execute(context.Background(), DepositInput{Amount: decimal.RequireFromString("25.00")})
	require.NoError(t, err)

	assert.True(t, decimal.RequireFromString("125.00").Equal(out.Budget.Current))
	assert.Equal(t, int64(2), out.Budget.Version)
	assert.Len(t, ledger.State.Entries, 2)
	assert.True(t, ledger.EntriesSum().Equal(ledger.State.Budget.Current))
}

func TestDeposit_ConflictRetriesThenFails(t *testing.T) {
	ledger := usecasetest.NewLedger()
	ledger.SeedBudget("100.00", time.Now().UTC())
	ledger.BudgetConflicts = maxDepositAttempts
	uc := NewDepositUseCase(ledger, ledger.Budgets())

	_, err := uc.Execute(context.Background(), DepositInput{Amount: decimal.RequireFromString("1.00")})

	var budgetErr *domainerror.BudgetError
	require.True(t, errors.As(err, &budgetErr))
	assert.Equal(t, domainerror.ErrCodeBudgetConflict, budgetErr.Code)
	assert.True(t, decimal.RequireFromString("100.00").Equal(ledger.State.Budget.Current))
	assert.Len(t, ledger.State.Entries, 1)
}

func TestGetBudget(t *testing.T) {
	t.Run("not found", func(t *testing.T) {
		ledger := usecasetest.NewLedger()

		_, err := NewGetBudgetUseCase(ledger.Budgets()).Execute(context.Background())

		assert.ErrorIs(t, err, domainerror.ErrBudgetNotFound)
	})

	t.Run("consistent with history", func(t *testing.T) {
		ledger := usecasetest.NewLedger()
		ledger.SeedBudget("80.00", time.Now().UTC())

		out, err := NewGetBudgetUseCase(ledger.Budgets()).Execute(context.Background())
		require.NoError(t, err)

		assert.True(t, out.Consistent)
		assert.True(t, decimal.RequireFromString("80.00").Equal(out.HistoryTotal))
	})

	t.Run("drift is reported", func(t *testing.T) {
		ledger := usecasetest.NewLedger()
		ledger.SeedBudget("80.00", time.Now().UTC())
		ledger.State.Budget.Current = decimal.RequireFromString("75.00")

		out, err := NewGetBudgetUseCase(ledger.Budgets()).Execute(context.Background())
		require.NoError(t, err)

		assert.False(t, out.Consistent)
	})
}

func TestListHistory_NewestFirstWithLimit(t *testing.T) {
	ledger := usecasetest.NewLedger()
	ledger.SeedBudget("10.00", time.Now().UTC())
	deposit := NewDepositUseCase(ledger, ledger.Budgets())
	for _, amount := range []string{"1.00", "2.00", "3.00"} {
		_, err := deposit.Execute(context.Background(), DepositInput{Amount: decimal.RequireFromString(amount)})
		require.NoError(t, err)
	}

	out, err := NewListHistoryUseCase(ledger.Budgets()).Execute(context.Background(), ListHistoryInput{Limit: 2})
	require.NoError(t, err)

	require.Len(t, out.Entries, 2)
	assert.True(t, decimal.RequireFromString("3.00").Equal(out.Entries[0].Amount))
	assert.True(t, decimal.RequireFromString("16.00").Equal(out.Entries[0].TotalBudget))
	assert.True(t, decimal.RequireFromString("2.00").Equal(out.Entries[1].Amount))
}
