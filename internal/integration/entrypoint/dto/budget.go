package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/pantry-ledger/backend/internal/domain/entity"
)

// Money formats an amount the way every response carries it.
func Money(d decimal.Decimal) string {
	return d.StringFixed(2)
}

// DepositRequest represents the request body for a budget deposit.
// Amount accepts a JSON number or a quoted decimal string.
type DepositRequest struct {
	Amount *decimal.Decimal `json:"amount" binding:"required"`
}

// BudgetUpdateResponse is the most recent deposit.
type BudgetUpdateResponse struct {
	Amount string    `json:"amount"`
	Date   time.Time `json:"date"`
}

// BudgetResponse represents the budget in API responses.
type BudgetResponse struct {
	Current      string                `json:"current"`
	LatestUpdate *BudgetUpdateResponse `json:"latest_update,omitempty"`
	HistoryTotal string                `json:"history_total,omitempty"`
	Consistent   *bool                 `json:"consistent,omitempty"`
	UpdatedAt    time.Time             `json:"updated_at"`
}

// BudgetEntryResponse represents a single history entry.
type BudgetEntryResponse struct {
	ID          string    `json:"id"`
	Kind        string    `json:"kind"`
	Amount      string    `json:"amount"`
	TotalBudget string    `json:"total_budget"`
	Date        time.Time `json:"date"`
	PurchaseID  *string   `json:"purchase_id,omitempty"`
	ActorID     *string   `json:"actor_id,omitempty"`
}

// DepositResponse represents the response for a deposit.
type DepositResponse struct {
	Budget BudgetResponse      `json:"budget"`
	Entry  BudgetEntryResponse `json:"entry"`
}

// BudgetHistoryResponse represents the response for listing history.
type BudgetHistoryResponse struct {
	Entries []BudgetEntryResponse `json:"entries"`
}

// ToBudgetResponse converts a domain Budget entity to a BudgetResponse DTO.
func ToBudgetResponse(b *entity.Budget) BudgetResponse {
	r := BudgetResponse{
		Current:   Money(b.Current),
		UpdatedAt: b.UpdatedAt,
	}
	if b.LatestUpdate != nil {
		r.LatestUpdate = &BudgetUpdateResponse{
			Amount: Money(b.LatestUpdate.Amount),
			Date:   b.LatestUpdate.Date,
		}
	}
	return r
}

// ToBudgetEntryResponse converts a domain BudgetEntry to a BudgetEntryResponse DTO.
func ToBudgetEntryResponse(e *entity.BudgetEntry) BudgetEntryResponse {
	r := BudgetEntryResponse{
		ID:          e.ID.String(),
		Kind:        string(e.Kind),
		Amount:      Money(e.Amount),
		TotalBudget: Money(e.TotalBudget),
		Date:        e.Date,
	}
	if e.PurchaseID != nil {
		id := e.PurchaseID.String()
		r.PurchaseID = &id
	}
	if e.ActorID != nil {
		id := e.ActorID.String()
		r.ActorID = &id
	}
	return r
}

// ToBudgetHistoryResponse converts history entries to a BudgetHistoryResponse DTO.
func ToBudgetHistoryResponse(entries []*entity.BudgetEntry) BudgetHistoryResponse {
	r := BudgetHistoryResponse{Entries: make([]BudgetEntryResponse, len(entries))}
	for i, e := range entries {
		r.Entries[i] = ToBudgetEntryResponse(e)
	}
	return r
}
