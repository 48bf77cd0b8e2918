// Package entity defines the core business entities for the domain layer.
package entity

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// PurchaseRecord is the immutable result of settling a draft purchase.
type PurchaseRecord struct {
	ID           uuid.UUID
	Date         time.Time
	Items        []PurchaseItem
	TotalAmount  decimal.Decimal
	BudgetBefore decimal.Decimal
	BudgetAfter  decimal.Decimal
	ReceiptURL   string
	ReceiptName  string
	ReceiptPath  string
	UploadedAt   *time.Time
	SettledBy    *uuid.UUID
	CreatedAt    time.Time
}

// NewPurchaseRecord builds a record from draft items and the budget total read before settlement.
// No floor is applied: BudgetAfter may be negative.
func NewPurchaseRecord(id uuid.UUID, items []PurchaseItem, budgetBefore decimal.Decimal, at time.Time, settledBy *uuid.UUID) *PurchaseRecord {
	total := CalculateTotal(items)

	return &PurchaseRecord{
		ID:           id,
		Date:         at,
		Items:        CopyItems(items),
		TotalAmount:  total,
		BudgetBefore: budgetBefore,
		BudgetAfter:  budgetBefore.Sub(total),
		SettledBy:    settledBy,
		CreatedAt:    at,
	}
}

// AttachReceipt stores the uploaded receipt reference on the record.
func (p *PurchaseRecord) AttachReceipt(r *StoredReceipt) {
	if r == nil {
		return
	}
	p.ReceiptURL = r.URL
	p.ReceiptName = r.Name
	p.ReceiptPath = r.Path
	uploadedAt := r.UploadedAt
	p.UploadedAt = &uploadedAt
}

// HasReceipt reports whether a receipt blob is referenced by the record.
func (p *PurchaseRecord) HasReceipt() bool {
	return p.ReceiptPath != "" || p.ReceiptURL != ""
}

// WithinWindow reports whether now is no later than window after the purchase date.
func (p *PurchaseRecord) WithinWindow(now time.Time, window time.Duration) bool {
	return now.Sub(p.Date) <= window
}

// PurchaseListResult is a page of purchase records.
type PurchaseListResult struct {
	Purchases  []*PurchaseRecord
	Total      int64
	Page       int
	Limit      int
	TotalPages int
}
