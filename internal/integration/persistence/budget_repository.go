package persistence

import (
	"context"
	"errors"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/pantry-ledger/backend/internal/application/adapter"
	"github.com/pantry-ledger/backend/internal/domain/entity"
	domainerror "github.com/pantry-ledger/backend/internal/domain/error"
	"github.com/pantry-ledger/backend/internal/integration/persistence/model"
)

// budgetRepository implements the adapter.BudgetRepository interface.
type budgetRepository struct {
	db *gorm.DB
}

// NewBudgetRepository creates a new budget repository instance.
func NewBudgetRepository(db *gorm.DB) adapter.BudgetRepository {
	return &budgetRepository{
		db: db,
	}
}

// Get retrieves the current budget.
func (r *budgetRepository) Get(ctx context.Context) (*entity.Budget, error) {
	var budgetModel model.BudgetModel
	result := conn(ctx, r.db).Where("id = ?", entity.CurrentBudgetID).First(&budgetModel)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, domainerror.ErrBudgetNotFound
		}
		return nil, result.Error
	}
	return budgetModel.ToEntity(), nil
}

// Create stores a new budget at version 1. A budget row that already exists means another
// writer created it first, which is reported as a concurrent modification.
func (r *budgetRepository) Create(ctx context.Context, budget *entity.Budget) error {
	budget.Version = 1
	result := conn(ctx, r.db).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(model.BudgetFromEntity(budget))
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domainerror.ErrConcurrentModification
	}
	return nil
}

// Update writes the budget only if its stored version still matches, then bumps the version.
func (r *budgetRepository) Update(ctx context.Context, budget *entity.Budget) error {
	m := model.BudgetFromEntity(budget)
	result := conn(ctx, r.db).
		Model(&model.BudgetModel{}).
		Where("id = ? AND version = ?", budget.ID, budget.Version).
		Updates(map[string]any{
			"current":              m.Current,
			"latest_update_amount": m.LatestUpdateAmount,
			"latest_update_date":   m.LatestUpdateDate,
			"version":              budget.Version + 1,
			"updated_at":           m.UpdatedAt,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domainerror.ErrConcurrentModification
	}
	budget.Version++
	return nil
}

// AppendEntry adds an entry to the budget history.
func (r *budgetRepository) AppendEntry(ctx context.Context, entry *entity.BudgetEntry) error {
	result := conn(ctx, r.db).Create(model.BudgetEntryFromEntity(entry))
	return result.Error
}

// ListEntries retrieves history entries newest first. A non-positive limit returns all entries.
func (r *budgetRepository) ListEntries(ctx context.Context, limit int) ([]*entity.BudgetEntry, error) {
	var entryModels []model.BudgetEntryModel
	query := conn(ctx, r.db).
		Where("budget_id = ?", entity.CurrentBudgetID).
		Order("date DESC")
	if limit > 0 {
		query = query.Limit(limit)
	}
	if result := query.Find(&entryModels); result.Error != nil {
		return nil, result.Error
	}

	entries := make([]*entity.BudgetEntry, len(entryModels))
	for i := range entryModels {
		entries[i] = entryModels[i].ToEntity()
	}
	return entries, nil
}

// SumEntries adds up every history delta. Amounts are summed as decimals rather than in SQL.
func (r *budgetRepository) SumEntries(ctx context.Context) (decimal.Decimal, error) {
	var amounts []decimal.Decimal
	result := conn(ctx, r.db).
		Model(&model.BudgetEntryModel{}).
		Where("budget_id = ?", entity.CurrentBudgetID).
		Pluck("amount", &amounts)
	if result.Error != nil {
		return decimal.Zero, result.Error
	}
	return decimal.Sum(decimal.Zero, amounts...), nil
}
