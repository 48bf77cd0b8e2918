package persistence

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/pantry-ledger/backend/internal/application/adapter"
	"github.com/pantry-ledger/backend/internal/domain/entity"
	domainerror "github.com/pantry-ledger/backend/internal/domain/error"
	"github.com/pantry-ledger/backend/internal/integration/persistence/model"
)

// productRepository implements the adapter.ProductRepository interface.
type productRepository struct {
	db *gorm.DB
}

// NewProductRepository creates a new product repository instance.
func NewProductRepository(db *gorm.DB) adapter.ProductRepository {
	return &productRepository{
		db: db,
	}
}

// Create stores a new product at version 1.
func (r *productRepository) Create(ctx context.Context, product *entity.Product) error {
	product.Version = 1
	result := conn(ctx, r.db).Create(model.ProductFromEntity(product))
	return result.Error
}

// FindByID retrieves a product by its ID.
func (r *productRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Product, error) {
	var productModel model.ProductModel
	result := conn(ctx, r.db).Where("id = ?", id).First(&productModel)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, domainerror.ErrProductNotFound
		}
		return nil, result.Error
	}
	return productModel.ToEntity(), nil
}

// FindByIDs retrieves the products with the given IDs. Unknown IDs are omitted.
func (r *productRepository) FindByIDs(ctx context.Context, ids []uuid.UUID) ([]*entity.Product, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	var productModels []model.ProductModel
	result := conn(ctx, r.db).Where("id IN ?", ids).Find(&productModels)
	if result.Error != nil {
		return nil, result.Error
	}
	return toProducts(productModels), nil
}

// FindFirstByName retrieves the oldest product with exactly the given name.
func (r *productRepository) FindFirstByName(ctx context.Context, name string) (*entity.Product, error) {
	var productModel model.ProductModel
	result := conn(ctx, r.db).
		Where("name = ?", name).
		Order("created_at ASC").
		First(&productModel)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, domainerror.ErrProductNotFound
		}
		return nil, result.Error
	}
	return productModel.ToEntity(), nil
}

// ExistsByNameFold checks case-insensitively whether another product already uses name.
func (r *productRepository) ExistsByNameFold(ctx context.Context, name string, excludeID *uuid.UUID) (bool, error) {
	var count int64
	query := conn(ctx, r.db).
		Model(&model.ProductModel{}).
		Where("LOWER(name) = ?", strings.ToLower(name))
	if excludeID != nil {
		query = query.Where("id <> ?", *excludeID)
	}
	if result := query.Count(&count); result.Error != nil {
		return false, result.Error
	}
	return count > 0, nil
}

// List retrieves products matching the filter ordered by name.
func (r *productRepository) List(ctx context.Context, filter adapter.ProductFilter) ([]*entity.Product, error) {
	query := conn(ctx, r.db).Model(&model.ProductModel{})

	if filter.CategoryID != nil {
		query = query.Where("category_id = ?", *filter.CategoryID)
	}
	if filter.Search != "" {
		query = query.Where("LOWER(name) LIKE ?", "%"+strings.ToLower(filter.Search)+"%")
	}
	if filter.LowStock {
		query = query.Where("quantity < min_stock")
	}

	var productModels []model.ProductModel
	if result := query.Order("name ASC").Find(&productModels); result.Error != nil {
		return nil, result.Error
	}
	return toProducts(productModels), nil
}

// Update writes the product only if its stored version still matches, then bumps the version.
func (r *productRepository) Update(ctx context.Context, product *entity.Product) error {
	result := conn(ctx, r.db).
		Model(&model.ProductModel{}).
		Where("id = ? AND version = ?", product.ID, product.Version).
		Updates(map[string]any{
			"name":          product.Name,
			"category_id":   product.CategoryID,
			"price":         product.Price,
			"quantity":      product.Quantity,
			"min_stock":     product.MinStock,
			"image_url":     product.ImageURL,
			"version":       product.Version + 1,
			"last_modified": product.LastModified,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domainerror.ErrConcurrentModification
	}
	product.Version++
	return nil
}

// CountByCategory counts the products assigned to a category.
func (r *productRepository) CountByCategory(ctx context.Context, categoryID uuid.UUID) (int64, error) {
	var count int64
	result := conn(ctx, r.db).
		Model(&model.ProductModel{}).
		Where("category_id = ?", categoryID).
		Count(&count)
	if result.Error != nil {
		return 0, result.Error
	}
	return count, nil
}

func toProducts(models []model.ProductModel) []*entity.Product {
	products := make([]*entity.Product, len(models))
	for i := range models {
		products[i] = models[i].ToEntity()
	}
	return products
}
