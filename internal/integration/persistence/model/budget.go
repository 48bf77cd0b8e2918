package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/pantry-ledger/backend/internal/domain/entity"
)

// BudgetModel represents the budgets table. There is a single row with id "current".
type BudgetModel struct {
	ID                 string              `gorm:"type:varchar(32);primaryKey"`
	Current            decimal.Decimal     `gorm:"type:decimal(15,2);not null"`
	LatestUpdateAmount decimal.NullDecimal `gorm:"type:decimal(15,2)"`
	LatestUpdateDate   *time.Time
	Version            int64     `gorm:"not null;default:1"`
	CreatedAt          time.Time `gorm:"not null"`
	UpdatedAt          time.Time `gorm:"not null"`
}

// TableName returns the table name for the BudgetModel.
func (BudgetModel) TableName() string {
	return "budgets"
}

// ToEntity converts a BudgetModel to a domain Budget entity.
func (m *BudgetModel) ToEntity() *entity.Budget {
	var latest *entity.BudgetUpdate
	if m.LatestUpdateAmount.Valid && m.LatestUpdateDate != nil {
		latest = &entity.BudgetUpdate{
			Amount: m.LatestUpdateAmount.Decimal,
			Date:   *m.LatestUpdateDate,
		}
	}

	return &entity.Budget{
		ID:           m.ID,
		Current:      m.Current,
		LatestUpdate: latest,
		Version:      m.Version,
		CreatedAt:    m.CreatedAt,
		UpdatedAt:    m.UpdatedAt,
	}
}

// BudgetFromEntity creates a BudgetModel from a domain Budget entity.
func BudgetFromEntity(budget *entity.Budget) *BudgetModel {
	m := &BudgetModel{
		ID:        budget.ID,
		Current:   budget.Current,
		Version:   budget.Version,
		CreatedAt: budget.CreatedAt,
		UpdatedAt: budget.UpdatedAt,
	}
	if budget.LatestUpdate != nil {
		date := budget.LatestUpdate.Date
		m.LatestUpdateAmount = decimal.NewNullDecimal(budget.LatestUpdate.Amount)
		m.LatestUpdateDate = &date
	}
	return m
}

// BudgetEntryModel represents the append-only budget_entries table.
type BudgetEntryModel struct {
	ID          uuid.UUID       `gorm:"type:uuid;primaryKey"`
	BudgetID    string          `gorm:"type:varchar(32);not null;index"`
	Kind        string          `gorm:"type:varchar(20);not null"`
	Amount      decimal.Decimal `gorm:"type:decimal(15,2);not null"`
	TotalBudget decimal.Decimal `gorm:"type:decimal(15,2);not null"`
	Date        time.Time       `gorm:"not null;index"`
	PurchaseID  *uuid.UUID      `gorm:"type:uuid;index"`
	ActorID     *uuid.UUID      `gorm:"type:uuid"`
}

// TableName returns the table name for the BudgetEntryModel.
func (BudgetEntryModel) TableName() string {
	return "budget_entries"
}

// ToEntity converts a BudgetEntryModel to a domain BudgetEntry entity.
func (m *BudgetEntryModel) ToEntity() *entity.BudgetEntry {
	return &entity.BudgetEntry{
		ID:          m.ID,
		BudgetID:    m.BudgetID,
		Kind:        entity.BudgetEntryKind(m.Kind),
		Amount:      m.Amount,
		TotalBudget: m.TotalBudget,
		Date:        m.Date,
		PurchaseID:  m.PurchaseID,
		ActorID:     m.ActorID,
	}
}

// BudgetEntryFromEntity creates a BudgetEntryModel from a domain BudgetEntry entity.
func BudgetEntryFromEntity(e *entity.BudgetEntry) *BudgetEntryModel {
	return &BudgetEntryModel{
		ID:          e.ID,
		BudgetID:    e.BudgetID,
		Kind:        string(e.Kind),
		Amount:      e.Amount,
		TotalBudget: e.TotalBudget,
		Date:        e.Date,
		PurchaseID:  e.PurchaseID,
		ActorID:     e.ActorID,
	}
}
