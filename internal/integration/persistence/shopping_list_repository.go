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

// shoppingListRepository implements the adapter.ShoppingListRepository interface.
type shoppingListRepository struct {
	db *gorm.DB
}

// NewShoppingListRepository creates a new shopping list repository instance.
func NewShoppingListRepository(db *gorm.DB) adapter.ShoppingListRepository {
	return &shoppingListRepository{
		db: db,
	}
}

// Create adds an item to the shopping list.
func (r *shoppingListRepository) Create(ctx context.Context, item *entity.ShoppingListItem) error {
	result := conn(ctx, r.db).Omit("Product").Create(model.ShoppingListItemFromEntity(item))
	return result.Error
}

// FindByID retrieves a shopping list item by its ID.
func (r *shoppingListRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.ShoppingListItem, error) {
	var itemModel model.ShoppingListItemModel
	result := conn(ctx, r.db).Where("id = ?", id).First(&itemModel)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, domainerror.ErrShoppingListItemNotFound
		}
		return nil, result.Error
	}
	return itemModel.ToEntity(), nil
}

// List retrieves every item with its product, oldest first.
func (r *shoppingListRepository) List(ctx context.Context) ([]*entity.ShoppingListItemWithProduct, error) {
	var itemModels []model.ShoppingListItemModel
	result := conn(ctx, r.db).
		Preload("Product").
		Order("created_at ASC").
		Find(&itemModels)
	if result.Error != nil {
		return nil, result.Error
	}

	items := make([]*entity.ShoppingListItemWithProduct, len(itemModels))
	for i := range itemModels {
		withProduct := &entity.ShoppingListItemWithProduct{Item: itemModels[i].ToEntity()}
		if itemModels[i].Product != nil {
			withProduct.Product = itemModels[i].Product.ToEntity()
		}
		items[i] = withProduct
	}
	return items, nil
}

// Update writes an existing shopping list item.
func (r *shoppingListRepository) Update(ctx context.Context, item *entity.ShoppingListItem) error {
	result := conn(ctx, r.db).
		Model(&model.ShoppingListItemModel{}).
		Where("id = ?", item.ID).
		Updates(map[string]any{
			"quantity":      item.Quantity,
			"purchased":     item.Purchased,
			"purchase_date": item.PurchaseDate,
			"updated_at":    item.UpdatedAt,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domainerror.ErrShoppingListItemNotFound
	}
	return nil
}

// Delete removes an item from the shopping list.
func (r *shoppingListRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := conn(ctx, r.db).Delete(&model.ShoppingListItemModel{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domainerror.ErrShoppingListItemNotFound
	}
	return nil
}

// DeleteByProductIDs removes every item referencing one of the given products.
func (r *shoppingListRepository) DeleteByProductIDs(ctx context.Context, productIDs []uuid.UUID) (int64, error) {
	if len(productIDs) == 0 {
		return 0, nil
	}

	result := conn(ctx, r.db).Where("product_id IN ?", productIDs).Delete(&model.ShoppingListItemModel{})
	if result.Error != nil {
		return 0, result.Error
	}
	return result.RowsAffected, nil
}
