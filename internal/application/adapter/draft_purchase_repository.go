// Package adapter defines interfaces that will be implemented in the integration layer.
package adapter

import (
	"context"

	"github.com/pantry-ledger/backend/internal/domain/entity"
)

// DraftPurchaseRepository persists the singleton draft purchase.
type DraftPurchaseRepository interface {
	// Get retrieves the draft, creating an empty one on first use.
	Get(ctx context.Context) (*entity.DraftPurchase, error)

	// Save replaces the stored items with draft.Items.
	Save(ctx context.Context, draft *entity.DraftPurchase) error
}
