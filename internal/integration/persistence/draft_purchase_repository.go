package persistence

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/pantry-ledger/backend/internal/application/adapter"
	"github.com/pantry-ledger/backend/internal/domain/entity"
	"github.com/pantry-ledger/backend/internal/integration/persistence/model"
)

// draftPurchaseRepository implements the adapter.DraftPurchaseRepository interface.
type draftPurchaseRepository struct {
	db *gorm.DB
}

// NewDraftPurchaseRepository creates a new draft purchase repository instance.
func NewDraftPurchaseRepository(db *gorm.DB) adapter.DraftPurchaseRepository {
	return &draftPurchaseRepository{
		db: db,
	}
}

// Get retrieves the current draft. A missing draft is returned as an empty one.
func (r *draftPurchaseRepository) Get(ctx context.Context) (*entity.DraftPurchase, error) {
	var draftModel model.DraftPurchaseModel
	result := conn(ctx, r.db).
		Preload("Items", func(db *gorm.DB) *gorm.DB { return db.Order("position ASC") }).
		Where("id = ?", entity.CurrentDraftID).
		First(&draftModel)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return entity.NewDraftPurchase(time.Now().UTC()), nil
		}
		return nil, result.Error
	}
	return draftModel.ToEntity(), nil
}

// Save replaces the stored draft and its items.
func (r *draftPurchaseRepository) Save(ctx context.Context, draft *entity.DraftPurchase) error {
	db := conn(ctx, r.db)

	header := &model.DraftPurchaseModel{ID: draft.ID, UpdatedAt: draft.UpdatedAt}
	if err := db.Omit("Items").Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "id"}},
		DoUpdates: clause.AssignmentColumns([]string{"updated_at"}),
	}).Create(header).Error; err != nil {
		return err
	}

	if err := db.Where("draft_id = ?", draft.ID).Delete(&model.DraftItemModel{}).Error; err != nil {
		return err
	}

	items := model.DraftItemsFromEntity(draft)
	if len(items) == 0 {
		return nil
	}
	return db.Create(&items).Error
}
