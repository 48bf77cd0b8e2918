package adapter

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/pantry-ledger/backend/internal/domain/entity"
)

// NotificationOutbox persists notifications until the worker delivers them.
type NotificationOutbox interface {
	// Enqueue adds a pending notification.
	Enqueue(ctx context.Context, n *entity.Notification) error

	// HasOpenLowStock reports whether recipient already has an undelivered low-stock alert for productID.
	HasOpenLowStock(ctx context.Context, productID uuid.UUID, recipient string) (bool, error)

	// Due returns pending notifications scheduled at or before now, oldest first.
	Due(ctx context.Context, now time.Time, limit int) ([]*entity.Notification, error)

	// Update saves the delivery state of a notification.
	Update(ctx context.Context, n *entity.Notification) error

	// CancelForPurchase cancels every pending notification about purchaseID.
	CancelForPurchase(ctx context.Context, purchaseID uuid.UUID, now time.Time) (int64, error)

	// PurgeProcessed deletes sent, failed and cancelled notifications processed before cutoff.
	PurgeProcessed(ctx context.Context, cutoff time.Time) (int64, error)
}
