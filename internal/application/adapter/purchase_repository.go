// Package adapter defines interfaces that will be implemented in the integration layer.
package adapter

import (
	"context"

	"github.com/google/uuid"

	"github.com/pantry-ledger/backend/internal/domain/entity"
)

// PurchasePagination defines pagination options.
type PurchasePagination struct {
	Page  int
	Limit int
}

// PurchaseRepository defines the interface for purchase record persistence operations.
// Records are never updated once created.
type PurchaseRepository interface {
	// Create stores a record with its items.
	Create(ctx context.Context, purchase *entity.PurchaseRecord) error

	// FindByID retrieves a record with its items.
	FindByID(ctx context.Context, id uuid.UUID) (*entity.PurchaseRecord, error)

	// FindMostRecent retrieves the record with the latest date.
	// Returns domainerror.ErrPurchaseNotFound when there is none.
	FindMostRecent(ctx context.Context) (*entity.PurchaseRecord, error)

	// List retrieves records newest first.
	List(ctx context.Context, pagination PurchasePagination) (*entity.PurchaseListResult, error)

	// ListAll retrieves every record newest first.
	ListAll(ctx context.Context) ([]*entity.PurchaseRecord, error)

	// Delete removes a record and its items.
	Delete(ctx context.Context, id uuid.UUID) error
}
