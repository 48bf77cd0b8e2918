package persistence

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/pantry-ledger/backend/internal/application/adapter"
	"github.com/pantry-ledger/backend/internal/domain/entity"
	domainerror "github.com/pantry-ledger/backend/internal/domain/error"
	"github.com/pantry-ledger/backend/internal/integration/persistence/model"
)

var (
	openStatuses      = []string{string(entity.NotificationPending), string(entity.NotificationSending)}
	processedStatuses = []string{
		string(entity.NotificationSent),
		string(entity.NotificationFailed),
		string(entity.NotificationCancelled),
	}
)

// notificationOutbox implements the adapter.NotificationOutbox interface.
type notificationOutbox struct {
	db *gorm.DB
}

// NewNotificationOutbox creates a new notification outbox backed by the database.
func NewNotificationOutbox(db *gorm.DB) adapter.NotificationOutbox {
	return &notificationOutbox{
		db: db,
	}
}

// Enqueue adds a pending notification.
func (r *notificationOutbox) Enqueue(ctx context.Context, n *entity.Notification) error {
	result := conn(ctx, r.db).Create(model.NotificationFromEntity(n))
	if result.Error != nil {
		return domainerror.NewNotificationError(
			domainerror.ErrCodeNotificationQueueFailed,
			"failed to queue "+string(n.Kind)+" notification",
			result.Error,
		)
	}
	return nil
}

// HasOpenLowStock reports whether an undelivered low-stock alert exists for the product and recipient.
func (r *notificationOutbox) HasOpenLowStock(ctx context.Context, productID uuid.UUID, recipient string) (bool, error) {
	var count int64
	result := conn(ctx, r.db).
		Model(&model.NotificationModel{}).
		Where("product_id = ? AND kind = ?", productID, entity.NotificationLowStock).
		Where("recipient_email = ?", recipient).
		Where("status IN ?", openStatuses).
		Count(&count)
	if result.Error != nil {
		return false, result.Error
	}
	return count > 0, nil
}

// Due returns pending notifications scheduled at or before now.
func (r *notificationOutbox) Due(ctx context.Context, now time.Time, limit int) ([]*entity.Notification, error) {
	var models []model.NotificationModel
	result := conn(ctx, r.db).
		Where("status = ?", entity.NotificationPending).
		Where("scheduled_at <= ?", now).
		Order("scheduled_at ASC").
		Limit(limit).
		Find(&models)
	if result.Error != nil {
		return nil, result.Error
	}

	out := make([]*entity.Notification, len(models))
	for i := range models {
		out[i] = models[i].ToEntity()
	}
	return out, nil
}

// Update saves the delivery state of a notification.
func (r *notificationOutbox) Update(ctx context.Context, n *entity.Notification) error {
	return conn(ctx, r.db).Save(model.NotificationFromEntity(n)).Error
}

// CancelForPurchase cancels pending notifications about a purchase. Notifications already
// being sent are left alone.
func (r *notificationOutbox) CancelForPurchase(ctx context.Context, purchaseID uuid.UUID, now time.Time) (int64, error) {
	result := conn(ctx, r.db).
		Model(&model.NotificationModel{}).
		Where("purchase_id = ? AND status = ?", purchaseID, entity.NotificationPending).
		Updates(map[string]any{
			"status":       string(entity.NotificationCancelled),
			"processed_at": now,
		})
	if result.Error != nil {
		return 0, result.Error
	}
	return result.RowsAffected, nil
}

// PurgeProcessed deletes finished notifications processed before cutoff.
func (r *notificationOutbox) PurgeProcessed(ctx context.Context, cutoff time.Time) (int64, error) {
	result := conn(ctx, r.db).
		Where("status IN ?", processedStatuses).
		Where("processed_at < ?", cutoff).
		Delete(&model.NotificationModel{})
	if result.Error != nil {
		return 0, result.Error
	}
	return result.RowsAffected, nil
}
