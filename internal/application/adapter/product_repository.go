// Package adapter defines interfaces that will be implemented in the integration layer.
package adapter

import (
	"context"

	"github.com/google/uuid"

	"github.com/pantry-ledger/backend/internal/domain/entity"
)

// ProductFilter defines filter options for listing products.
type ProductFilter struct {
	CategoryID *uuid.UUID
	Search     string // Case-insensitive name match
	LowStock   bool
}

// ProductRepository defines the interface for product persistence operations.
type ProductRepository interface {
	// Create creates a new product at version 1.
	Create(ctx context.Context, product *entity.Product) error

	// FindByID retrieves a product by its ID.
	FindByID(ctx context.Context, id uuid.UUID) (*entity.Product, error)

	// FindByIDs retrieves the products with the given IDs. Unknown IDs are ignored.
	FindByIDs(ctx context.Context, ids []uuid.UUID) ([]*entity.Product, error)

	// FindFirstByName retrieves the oldest product whose name equals name exactly.
	FindFirstByName(ctx context.Context, name string) (*entity.Product, error)

	// ExistsByNameFold checks whether a product uses name, ignoring case.
	// excludeID, when set, is left out of the check.
	ExistsByNameFold(ctx context.Context, name string, excludeID *uuid.UUID) (bool, error)

	// List retrieves products matching filter ordered by name.
	List(ctx context.Context, filter ProductFilter) ([]*entity.Product, error)

	// Update writes the product only if its stored version still equals product.Version,
	// then increments product.Version. Returns domainerror.ErrConcurrentModification otherwise.
	Update(ctx context.Context, product *entity.Product) error

	// CountByCategory counts products in a category.
	CountByCategory(ctx context.Context, categoryID uuid.UUID) (int64, error)
}
