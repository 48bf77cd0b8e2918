// Package entity defines the core business entities for the domain layer.
package entity

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// PurchaseItem is a snapshot of a product taken when it was marked purchased.
// It is never synced back from the catalog: historical name, category and price are preserved.
type PurchaseItem struct {
	ProductID    uuid.UUID
	Name         string
	CategoryID   *uuid.UUID
	CategoryName string
	Quantity     int
	Price        decimal.Decimal
}

// DraftItem is a PurchaseItem that has not been settled yet.
type DraftItem = PurchaseItem

// LineTotal returns price multiplied by quantity.
func (i PurchaseItem) LineTotal() decimal.Decimal {
	return i.Price.Mul(decimal.NewFromInt(int64(i.Quantity)))
}

// SnapshotProduct builds a PurchaseItem from the current state of a product.
func SnapshotProduct(p *Product, categoryName string, quantity int) PurchaseItem {
	return PurchaseItem{
		ProductID:    p.ID,
		Name:         p.Name,
		CategoryID:   p.CategoryID,
		CategoryName: categoryName,
		Quantity:     quantity,
		Price:        p.Price,
	}
}

// CalculateTotal sums the line totals of the given items.
func CalculateTotal(items []PurchaseItem) decimal.Decimal {
	total := decimal.Zero
	for _, item := range items {
		total = total.Add(item.LineTotal())
	}
	return total
}

// CopyItems returns a copy of items that shares no backing array with the input.
func CopyItems(items []PurchaseItem) []PurchaseItem {
	out := make([]PurchaseItem, len(items))
	copy(out, items)
	return out
}
