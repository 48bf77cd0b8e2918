package dto

import (
	"time"

	"github.com/pantry-ledger/backend/internal/domain/entity"
)

// ListPurchasesQuery represents the query parameters for listing purchases.
type ListPurchasesQuery struct {
	Page  int `form:"page" binding:"omitempty,min=1"`
	Limit int `form:"limit" binding:"omitempty,min=1,max=100"`
}

// ReceiptResponse describes the receipt attached to a purchase.
type ReceiptResponse struct {
	URL        string     `json:"url"`
	Name       string     `json:"name"`
	UploadedAt *time.Time `json:"uploaded_at,omitempty"`
}

// PurchaseResponse represents a settled purchase in API responses.
type PurchaseResponse struct {
	ID           string                 `json:"id"`
	Date         time.Time              `json:"date"`
	Items        []PurchaseItemResponse `json:"items"`
	TotalAmount  string                 `json:"total_amount"`
	BudgetBefore string                 `json:"budget_before"`
	BudgetAfter  string                 `json:"budget_after"`
	Receipt      *ReceiptResponse       `json:"receipt,omitempty"`
	SettledBy    *string                `json:"settled_by,omitempty"`
	Reversible   *bool                  `json:"reversible,omitempty"`
}

// PaginationResponse represents pagination metadata.
type PaginationResponse struct {
	Page       int   `json:"page"`
	Limit      int   `json:"limit"`
	Total      int64 `json:"total"`
	TotalPages int   `json:"total_pages"`
}

// PurchaseListResponse represents the response for listing purchases.
type PurchaseListResponse struct {
	Purchases  []PurchaseResponse `json:"purchases"`
	Pagination PaginationResponse `json:"pagination"`
}

// SettlementResponse represents the response after settling the draft.
type SettlementResponse struct {
	Purchase     PurchaseResponse       `json:"purchase"`
	Budget       BudgetResponse         `json:"budget"`
	SkippedItems []PurchaseItemResponse `json:"skipped_items"`
	Overspent    bool                   `json:"overspent"`
}

// ReversalResponse represents the response after reversing a purchase.
type ReversalResponse struct {
	PurchaseID     string                 `json:"purchase_id"`
	Budget         BudgetResponse         `json:"budget"`
	SkippedItems   []PurchaseItemResponse `json:"skipped_items"`
	ReceiptDeleted bool                   `json:"receipt_deleted"`
}

// ToPurchaseResponse converts a domain PurchaseRecord to a PurchaseResponse DTO.
func ToPurchaseResponse(p *entity.PurchaseRecord) PurchaseResponse {
	r := PurchaseResponse{
		ID:           p.ID.String(),
		Date:         p.Date,
		Items:        ToPurchaseItemResponses(p.Items),
		TotalAmount:  Money(p.TotalAmount),
		BudgetBefore: Money(p.BudgetBefore),
		BudgetAfter:  Money(p.BudgetAfter),
	}
	if p.HasReceipt() {
		r.Receipt = &ReceiptResponse{
			URL:        p.ReceiptURL,
			Name:       p.ReceiptName,
			UploadedAt: p.UploadedAt,
		}
	}
	if p.SettledBy != nil {
		id := p.SettledBy.String()
		r.SettledBy = &id
	}
	return r
}

// ToPurchaseListResponse converts a paginated result to a PurchaseListResponse DTO.
func ToPurchaseListResponse(result *entity.PurchaseListResult) PurchaseListResponse {
	r := PurchaseListResponse{
		Purchases: make([]PurchaseResponse, len(result.Purchases)),
		Pagination: PaginationResponse{
			Page:       result.Page,
			Limit:      result.Limit,
			Total:      result.Total,
			TotalPages: result.TotalPages,
		},
	}
	for i, p := range result.Purchases {
		r.Purchases[i] = ToPurchaseResponse(p)
	}
	return r
}
