// Package entity defines the core business entities for the domain layer.
package entity

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// DefaultMinStock is the stock level under which a product is reported as low.
const DefaultMinStock = 10

// Product is a catalog entry with its current stock quantity.
type Product struct {
	ID           uuid.UUID
	Name         string
	CategoryID   *uuid.UUID
	Price        decimal.Decimal
	Quantity     int
	MinStock     int
	ImageURL     string
	Version      int64
	LastModified time.Time
	CreatedAt    time.Time
}

// NewProduct creates a new Product entity.
func NewProduct(name string, categoryID *uuid.UUID, price decimal.Decimal, quantity, minStock int, imageURL string) *Product {
	now := time.Now().UTC()

	return &Product{
		ID:           uuid.New(),
		Name:         name,
		CategoryID:   categoryID,
		Price:        price,
		Quantity:     quantity,
		MinStock:     minStock,
		ImageURL:     imageURL,
		LastModified: now,
		CreatedAt:    now,
	}
}

// AddStock increments the stock quantity.
func (p *Product) AddStock(qty int, at time.Time) {
	p.Quantity += qty
	p.LastModified = at
}

// RemoveStockClamped decrements the stock quantity without going below zero.
// It returns the quantity actually removed.
func (p *Product) RemoveStockClamped(qty int, at time.Time) int {
	removed := qty
	if removed > p.Quantity {
		removed = p.Quantity
	}
	p.Quantity -= removed
	p.LastModified = at
	return removed
}

// IsLowStock reports whether the quantity is under the minimum stock level.
func (p *Product) IsLowStock() bool {
	return p.Quantity < p.MinStock
}
