// Package entity defines the core business entities for the domain layer.
package entity

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// CurrentBudgetID is the identifier of the single organization budget.
const CurrentBudgetID = "current"

// BudgetEntryKind classifies a change to the budget total.
type BudgetEntryKind string

const (
	BudgetEntryDeposit  BudgetEntryKind = "deposit"
	BudgetEntryPurchase BudgetEntryKind = "purchase"
	BudgetEntryReversal BudgetEntryKind = "reversal"
)

// BudgetUpdate is the most recent deposit, kept on the budget for display.
type BudgetUpdate struct {
	Amount decimal.Decimal
	Date   time.Time
}

// Budget is the running total available to spend.
// Current always equals the sum of Amount over its history entries.
type Budget struct {
	ID           string
	Current      decimal.Decimal
	LatestUpdate *BudgetUpdate
	Version      int64
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// BudgetEntry is an append-only record of a single change to the budget,
// with the resulting total snapshot.
type BudgetEntry struct {
	ID          uuid.UUID
	BudgetID    string
	Kind        BudgetEntryKind
	Amount      decimal.Decimal // Signed delta applied to Current
	TotalBudget decimal.Decimal
	Date        time.Time
	PurchaseID  *uuid.UUID
	ActorID     *uuid.UUID
}

// NewBudget creates an empty budget.
func NewBudget(now time.Time) *Budget {
	return &Budget{
		ID:        CurrentBudgetID,
		Current:   decimal.Zero,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// Apply adds a signed delta to the budget and returns the history entry describing it.
// Deposits also refresh LatestUpdate.
func (b *Budget) Apply(kind BudgetEntryKind, delta decimal.Decimal, at time.Time, purchaseID, actorID *uuid.UUID) *BudgetEntry {
	b.Current = b.Current.Add(delta)
	b.UpdatedAt = at

	if kind == BudgetEntryDeposit {
		b.LatestUpdate = &BudgetUpdate{Amount: delta, Date: at}
	}

	return &BudgetEntry{
		ID:          uuid.New(),
		BudgetID:    b.ID,
		Kind:        kind,
		Amount:      delta,
		TotalBudget: b.Current,
		Date:        at,
		PurchaseID:  purchaseID,
		ActorID:     actorID,
	}
}

// IsOverspent reports whether the budget has gone negative.
func (b *Budget) IsOverspent() bool {
	return b.Current.IsNegative()
}
