package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/pantry-ledger/backend/internal/application/adapter"
	"github.com/pantry-ledger/backend/internal/domain/entity"
	domainerror "github.com/pantry-ledger/backend/internal/domain/error"
	"github.com/pantry-ledger/backend/internal/integration/persistence/model"
)

// purchaseRepository implements the adapter.PurchaseRepository interface.
type purchaseRepository struct {
	db *gorm.DB
}

// NewPurchaseRepository creates a new purchase repository instance.
func NewPurchaseRepository(db *gorm.DB) adapter.PurchaseRepository {
	return &purchaseRepository{
		db: db,
	}
}

func orderedItems(db *gorm.DB) *gorm.DB {
	return db.Order("position ASC")
}

// Create stores a purchase record together with its items.
func (r *purchaseRepository) Create(ctx context.Context, purchase *entity.PurchaseRecord) error {
	result := conn(ctx, r.db).Create(model.PurchaseFromEntity(purchase))
	return result.Error
}

// FindByID retrieves a purchase record by its ID.
func (r *purchaseRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.PurchaseRecord, error) {
	var purchaseModel model.PurchaseModel
	result := conn(ctx, r.db).
		Preload("Items", orderedItems).
		Where("id = ?", id).
		First(&purchaseModel)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, domainerror.ErrPurchaseNotFound
		}
		return nil, result.Error
	}
	return purchaseModel.ToEntity(), nil
}

// FindMostRecent retrieves the purchase record with the latest date.
func (r *purchaseRepository) FindMostRecent(ctx context.Context) (*entity.PurchaseRecord, error) {
	var purchaseModel model.PurchaseModel
	result := conn(ctx, r.db).
		Preload("Items", orderedItems).
		Order("date DESC").
		First(&purchaseModel)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, domainerror.ErrPurchaseNotFound
		}
		return nil, result.Error
	}
	return purchaseModel.ToEntity(), nil
}

// List retrieves one page of purchase records, newest first.
func (r *purchaseRepository) List(ctx context.Context, pagination adapter.PurchasePagination) (*entity.PurchaseListResult, error) {
	db := conn(ctx, r.db)

	var total int64
	if result := db.Model(&model.PurchaseModel{}).Count(&total); result.Error != nil {
		return nil, result.Error
	}

	var purchaseModels []model.PurchaseModel
	result := db.
		Preload("Items", orderedItems).
		Order("date DESC").
		Offset((pagination.Page - 1) * pagination.Limit).
		Limit(pagination.Limit).
		Find(&purchaseModels)
	if result.Error != nil {
		return nil, result.Error
	}

	totalPages := 0
	if pagination.Limit > 0 {
		totalPages = int((total + int64(pagination.Limit) - 1) / int64(pagination.Limit))
	}

	return &entity.PurchaseListResult{
		Purchases:  toPurchases(purchaseModels),
		Total:      total,
		Page:       pagination.Page,
		Limit:      pagination.Limit,
		TotalPages: totalPages,
	}, nil
}

// ListAll retrieves every purchase record, newest first.
func (r *purchaseRepository) ListAll(ctx context.Context) ([]*entity.PurchaseRecord, error) {
	var purchaseModels []model.PurchaseModel
	result := conn(ctx, r.db).
		Preload("Items", orderedItems).
		Order("date DESC").
		Find(&purchaseModels)
	if result.Error != nil {
		return nil, result.Error
	}
	return toPurchases(purchaseModels), nil
}

// Delete removes a purchase record and its items.
func (r *purchaseRepository) Delete(ctx context.Context, id uuid.UUID) error {
	db := conn(ctx, r.db)

	if err := db.Where("purchase_id = ?", id).Delete(&model.PurchaseItemModel{}).Error; err != nil {
		return err
	}

	result := db.Delete(&model.PurchaseModel{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domainerror.ErrPurchaseNotFound
	}
	return nil
}

func toPurchases(models []model.PurchaseModel) []*entity.PurchaseRecord {
	purchases := make([]*entity.PurchaseRecord, len(models))
	for i := range models {
		purchases[i] = models[i].ToEntity()
	}
	return purchases
}
