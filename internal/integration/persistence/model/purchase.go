package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/pantry-ledger/backend/internal/domain/entity"
)

// PurchaseItemColumns holds the snapshot columns shared by draft and purchase items.
type PurchaseItemColumns struct {
	Position     int             `gorm:"not null"`
	ProductID    uuid.UUID       `gorm:"type:uuid;not null"`
	Name         string          `gorm:"type:varchar(100);not null"`
	CategoryID   *uuid.UUID      `gorm:"type:uuid"`
	CategoryName string          `gorm:"type:varchar(50)"`
	Quantity     int             `gorm:"not null"`
	Price        decimal.Decimal `gorm:"type:decimal(15,2);not null"`
}

func (c PurchaseItemColumns) toEntity() entity.PurchaseItem {
	return entity.PurchaseItem{
		ProductID:    c.ProductID,
		Name:         c.Name,
		CategoryID:   c.CategoryID,
		CategoryName: c.CategoryName,
		Quantity:     c.Quantity,
		Price:        c.Price,
	}
}

func itemColumns(position int, item entity.PurchaseItem) PurchaseItemColumns {
	return PurchaseItemColumns{
		Position:     position,
		ProductID:    item.ProductID,
		Name:         item.Name,
		CategoryID:   item.CategoryID,
		CategoryName: item.CategoryName,
		Quantity:     item.Quantity,
		Price:        item.Price,
	}
}

// PurchaseModel represents the purchases table in the database.
type PurchaseModel struct {
	ID           uuid.UUID       `gorm:"type:uuid;primaryKey"`
	Date         time.Time       `gorm:"not null;index"`
	TotalAmount  decimal.Decimal `gorm:"type:decimal(15,2);not null"`
	BudgetBefore decimal.Decimal `gorm:"type:decimal(15,2);not null"`
	BudgetAfter  decimal.Decimal `gorm:"type:decimal(15,2);not null"`
	ReceiptURL   string          `gorm:"type:varchar(1000)"`
	ReceiptName  string          `gorm:"type:varchar(255)"`
	ReceiptPath  string          `gorm:"type:varchar(500)"`
	UploadedAt   *time.Time
	SettledBy    *uuid.UUID `gorm:"type:uuid"`
	CreatedAt    time.Time  `gorm:"not null"`

	Items []PurchaseItemModel `gorm:"foreignKey:PurchaseID;constraint:OnDelete:CASCADE"`
}

// TableName returns the table name for the PurchaseModel.
func (PurchaseModel) TableName() string {
	return "purchases"
}

// PurchaseItemModel represents the purchase_items table in the database.
type PurchaseItemModel struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey"`
	PurchaseID uuid.UUID `gorm:"type:uuid;not null;index"`
	PurchaseItemColumns
}

// TableName returns the table name for the PurchaseItemModel.
func (PurchaseItemModel) TableName() string {
	return "purchase_items"
}

// ToEntity converts a PurchaseModel with its items to a domain PurchaseRecord entity.
func (m *PurchaseModel) ToEntity() *entity.PurchaseRecord {
	items := make([]entity.PurchaseItem, len(m.Items))
	for i, item := range m.Items {
		items[i] = item.toEntity()
	}

	return &entity.PurchaseRecord{
		ID:           m.ID,
		Date:         m.Date,
		Items:        items,
		TotalAmount:  m.TotalAmount,
		BudgetBefore: m.BudgetBefore,
		BudgetAfter:  m.BudgetAfter,
		ReceiptURL:   m.ReceiptURL,
		ReceiptName:  m.ReceiptName,
		ReceiptPath:  m.ReceiptPath,
		UploadedAt:   m.UploadedAt,
		SettledBy:    m.SettledBy,
		CreatedAt:    m.CreatedAt,
	}
}

// PurchaseFromEntity creates a PurchaseModel with its items from a domain PurchaseRecord.
func PurchaseFromEntity(p *entity.PurchaseRecord) *PurchaseModel {
	items := make([]PurchaseItemModel, len(p.Items))
	for i, item := range p.Items {
		items[i] = PurchaseItemModel{
			ID:                  uuid.New(),
			PurchaseID:          p.ID,
			PurchaseItemColumns: itemColumns(i, item),
		}
	}

	return &PurchaseModel{
		ID:           p.ID,
		Date:         p.Date,
		TotalAmount:  p.TotalAmount,
		BudgetBefore: p.BudgetBefore,
		BudgetAfter:  p.BudgetAfter,
		ReceiptURL:   p.ReceiptURL,
		ReceiptName:  p.ReceiptName,
		ReceiptPath:  p.ReceiptPath,
		UploadedAt:   p.UploadedAt,
		SettledBy:    p.SettledBy,
		CreatedAt:    p.CreatedAt,
		Items:        items,
	}
}

// DraftPurchaseModel represents the draft_purchases table. There is a single row with id "current".
type DraftPurchaseModel struct {
	ID        string    `gorm:"type:varchar(32);primaryKey"`
	UpdatedAt time.Time `gorm:"not null"`

	Items []DraftItemModel `gorm:"foreignKey:DraftID;constraint:OnDelete:CASCADE"`
}

// TableName returns the table name for the DraftPurchaseModel.
func (DraftPurchaseModel) TableName() string {
	return "draft_purchases"
}

// DraftItemModel represents the draft_items table. A product appears at most once per draft.
type DraftItemModel struct {
	ID      uuid.UUID `gorm:"type:uuid;primaryKey"`
	DraftID string    `gorm:"type:varchar(32);not null;index"`
	PurchaseItemColumns
}

// TableName returns the table name for the DraftItemModel.
func (DraftItemModel) TableName() string {
	return "draft_items"
}

// ToEntity converts a DraftPurchaseModel with its items to a domain DraftPurchase entity.
func (m *DraftPurchaseModel) ToEntity() *entity.DraftPurchase {
	items := make([]entity.DraftItem, len(m.Items))
	for i, item := range m.Items {
		items[i] = item.toEntity()
	}

	return &entity.DraftPurchase{
		ID:        m.ID,
		Items:     items,
		UpdatedAt: m.UpdatedAt,
	}
}

// DraftItemsFromEntity creates the item rows of a draft purchase.
func DraftItemsFromEntity(d *entity.DraftPurchase) []DraftItemModel {
	items := make([]DraftItemModel, len(d.Items))
	for i, item := range d.Items {
		items[i] = DraftItemModel{
			ID:                  uuid.New(),
			DraftID:             d.ID,
			PurchaseItemColumns: itemColumns(i, item),
		}
	}
	return items
}
