package model

import (
	"time"

	"github.com/google/uuid"

	"github.com/pantry-ledger/backend/internal/domain/entity"
)

// ShoppingListItemModel represents the shopping_list_items table in the database.
type ShoppingListItemModel struct {
	ID           uuid.UUID  `gorm:"type:uuid;primaryKey"`
	ProductID    uuid.UUID  `gorm:"type:uuid;not null;index"`
	Quantity     int        `gorm:"not null"`
	Purchased    bool       `gorm:"not null;default:false"`
	PurchaseDate *time.Time `gorm:""`
	AddedBy      *uuid.UUID `gorm:"type:uuid"`
	CreatedAt    time.Time  `gorm:"not null"`
	UpdatedAt    time.Time  `gorm:"not null"`

	Product *ProductModel `gorm:"foreignKey:ProductID"`
}

// TableName returns the table name for the ShoppingListItemModel.
func (ShoppingListItemModel) TableName() string {
	return "shopping_list_items"
}

// ToEntity converts a ShoppingListItemModel to a domain ShoppingListItem entity.
func (m *ShoppingListItemModel) ToEntity() *entity.ShoppingListItem {
	return &entity.ShoppingListItem{
		ID:           m.ID,
		ProductID:    m.ProductID,
		Quantity:     m.Quantity,
		Purchased:    m.Purchased,
		PurchaseDate: m.PurchaseDate,
		AddedBy:      m.AddedBy,
		CreatedAt:    m.CreatedAt,
		UpdatedAt:    m.UpdatedAt,
	}
}

// ShoppingListItemFromEntity creates a ShoppingListItemModel from a domain entity.
func ShoppingListItemFromEntity(item *entity.ShoppingListItem) *ShoppingListItemModel {
	return &ShoppingListItemModel{
		ID:           item.ID,
		ProductID:    item.ProductID,
		Quantity:     item.Quantity,
		Purchased:    item.Purchased,
		PurchaseDate: item.PurchaseDate,
		AddedBy:      item.AddedBy,
		CreatedAt:    item.CreatedAt,
		UpdatedAt:    item.UpdatedAt,
	}
}
