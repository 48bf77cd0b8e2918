// Package entity defines the core business entities for the domain layer.
package entity

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// CurrentDraftID is the identifier of the singleton draft purchase.
const CurrentDraftID = "current"

// DraftPurchase holds items marked purchased but not yet settled.
// It contains at most one item per product.
type DraftPurchase struct {
	ID        string
	Items     []DraftItem
	UpdatedAt time.Time
}

// NewDraftPurchase creates an empty draft.
func NewDraftPurchase(now time.Time) *DraftPurchase {
	return &DraftPurchase{
		ID:        CurrentDraftID,
		Items:     []DraftItem{},
		UpdatedAt: now,
	}
}

// IsEmpty reports whether the draft has no items.
func (d *DraftPurchase) IsEmpty() bool {
	return len(d.Items) == 0
}

// Find returns the index of the item for productID, or -1.
func (d *DraftPurchase) Find(productID uuid.UUID) int {
	for i, item := range d.Items {
		if item.ProductID == productID {
			return i
		}
	}
	return -1
}

// Merge adds item to the draft. When the product is already present only the quantity is added;
// the existing price snapshot is kept.
func (d *DraftPurchase) Merge(item DraftItem, at time.Time) {
	if i := d.Find(item.ProductID); i >= 0 {
		d.Items[i].Quantity += item.Quantity
	} else {
		d.Items = append(d.Items, item)
	}
	d.UpdatedAt = at
}

// Subtract removes qty units of a product, dropping the item when nothing is left.
// It reports whether the product was present.
func (d *DraftPurchase) Subtract(productID uuid.UUID, qty int, at time.Time) bool {
	i := d.Find(productID)
	if i < 0 {
		return false
	}
	d.Items[i].Quantity -= qty
	if d.Items[i].Quantity <= 0 {
		d.Items = append(d.Items[:i], d.Items[i+1:]...)
	}
	d.UpdatedAt = at
	return true
}

// Remove drops the item for productID. It reports whether the product was present.
func (d *DraftPurchase) Remove(productID uuid.UUID, at time.Time) bool {
	i := d.Find(productID)
	if i < 0 {
		return false
	}
	d.Items = append(d.Items[:i], d.Items[i+1:]...)
	d.UpdatedAt = at
	return true
}

// SetPrice changes the negotiated price of a draft item. It reports whether the product was present.
func (d *DraftPurchase) SetPrice(productID uuid.UUID, price decimal.Decimal, at time.Time) bool {
	i := d.Find(productID)
	if i < 0 {
		return false
	}
	d.Items[i].Price = price
	d.UpdatedAt = at
	return true
}

// Clear empties the draft.
func (d *DraftPurchase) Clear(at time.Time) {
	d.Items = []DraftItem{}
	d.UpdatedAt = at
}

// Total returns the sum of all line totals.
func (d *DraftPurchase) Total() decimal.Decimal {
	return CalculateTotal(d.Items)
}

// ProductIDs returns the product identifiers present in the draft.
func (d *DraftPurchase) ProductIDs() []uuid.UUID {
	ids := make([]uuid.UUID, len(d.Items))
	for i, item := range d.Items {
		ids[i] = item.ProductID
	}
	return ids
}
