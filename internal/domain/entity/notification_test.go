package entity

import (
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNotification_RetriesWithBackoffThenFails(t *testing.T) {
	now := time.Date(2026, 3, 14, 10, 0, 0, 0, time.UTC)
	admin := NewUser("admin@pantry.org", "Ana", "hash", RoleAdmin)
	productID := uuid.New()

	n := NewLowStockNotification(productID, admin, "Low stock: Rice", nil, now)
	assert.Equal(t, productID, n.Reference())
	assert.Nil(t, n.PurchaseID)
	assert.True(t, n.IsDue(now))

	n.MarkSending()
	n.MarkFailed(errors.New("503 unavailable"), false, now)
	assert.Equal(t, NotificationPending, n.Status)
	assert.Equal(t, now.Add(time.Minute), n.ScheduledAt)
	assert.False(t, n.IsDue(now))

	n.MarkFailed(errors.New("503 unavailable"), false, now)
	assert.Equal(t, now.Add(5*time.Minute), n.ScheduledAt)

	n.MarkFailed(errors.New("503 unavailable"), false, now)
	assert.Equal(t, NotificationFailed, n.Status)
	assert.Equal(t, MaxNotificationAttempts, n.Attempts)
	require.NotNil(t, n.ProcessedAt)
}

func TestNotification_PermanentFailureEndsDelivery(t *testing.T) {
	now := time.Now().UTC()
	admin := NewUser("admin@pantry.org", "Ana", "hash", RoleAdmin)

	n := NewPurchaseSettledNotification(uuid.New(), admin, "Purchase settled", map[string]string{"total_amount": "30.00"}, now)
	n.MarkFailed(errors.New("422 invalid recipient"), true, now)

	assert.Equal(t, NotificationFailed, n.Status)
	assert.Equal(t, 1, n.Attempts)
	assert.Equal(t, "422 invalid recipient", n.LastError)
}

func TestNotification_CancelOnlyWhilePending(t *testing.T) {
	now := time.Now().UTC()
	admin := NewUser("admin@pantry.org", "Ana", "hash", RoleAdmin)

	pending := NewPurchaseSettledNotification(uuid.New(), admin, "Purchase settled", nil, now)
	assert.True(t, pending.Cancel(now))
	assert.Equal(t, NotificationCancelled, pending.Status)

	sent := NewPurchaseSettledNotification(uuid.New(), admin, "Purchase settled", nil, now)
	sent.MarkSending()
	sent.MarkSent("msg-1", now)
	assert.False(t, sent.Cancel(now))
	assert.Equal(t, NotificationSent, sent.Status)
}
