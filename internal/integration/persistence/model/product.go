package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/pantry-ledger/backend/internal/domain/entity"
)

// ProductModel represents the products table in the database.
type ProductModel struct {
	ID           uuid.UUID       `gorm:"type:uuid;primaryKey"`
	Name         string          `gorm:"type:varchar(100);not null;index"`
	CategoryID   *uuid.UUID      `gorm:"type:uuid;index"`
	Price        decimal.Decimal `gorm:"type:decimal(15,2);not null"`
	Quantity     int             `gorm:"not null;default:0"`
	MinStock     int             `gorm:"not null;default:10"`
	ImageURL     string          `gorm:"type:varchar(500)"`
	Version      int64           `gorm:"not null;default:1"`
	LastModified time.Time       `gorm:"not null"`
	CreatedAt    time.Time       `gorm:"not null"`
}

// TableName returns the table name for the ProductModel.
func (ProductModel) TableName() string {
	return "products"
}

// ToEntity converts a ProductModel to a domain Product entity.
func (m *ProductModel) ToEntity() *entity.Product {
	return &entity.Product{
		ID:           m.ID,
		Name:         m.Name,
		CategoryID:   m.CategoryID,
		Price:        m.Price,
		Quantity:     m.Quantity,
		MinStock:     m.MinStock,
		ImageURL:     m.ImageURL,
		Version:      m.Version,
		LastModified: m.LastModified,
		CreatedAt:    m.CreatedAt,
	}
}

// ProductFromEntity creates a ProductModel from a domain Product entity.
func ProductFromEntity(p *entity.Product) *ProductModel {
	return &ProductModel{
		ID:           p.ID,
		Name:         p.Name,
		CategoryID:   p.CategoryID,
		Price:        p.Price,
		Quantity:     p.Quantity,
		MinStock:     p.MinStock,
		ImageURL:     p.ImageURL,
		Version:      p.Version,
		LastModified: p.LastModified,
		CreatedAt:    p.CreatedAt,
	}
}
