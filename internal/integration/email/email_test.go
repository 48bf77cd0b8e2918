package email

import (
	"context"
	"errors"
	"sort"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pantry-ledger/backend/internal/application/adapter"
	"github.com/pantry-ledger/backend/internal/domain/entity"
	domainerror "github.com/pantry-ledger/backend/internal/domain/error"
	"github.com/pantry-ledger/backend/internal/integration/email/templates"
)

type memoryOutbox struct {
	items  map[uuid.UUID]*entity.Notification
	purged time.Time
}

func newMemoryOutbox() *memoryOutbox {
	return &memoryOutbox{items: map[uuid.UUID]*entity.Notification{}}
}

func (o *memoryOutbox) Enqueue(_ context.Context, n *entity.Notification) error {
	cp := *n
	o.items[n.ID] = &cp
	return nil
}

func (o *memoryOutbox) HasOpenLowStock(_ context.Context, productID uuid.UUID, recipient string) (bool, error) {
	for _, n := range o.items {
		open := n.Status == entity.NotificationPending || n.Status == entity.NotificationSending
		if open && n.Kind == entity.NotificationLowStock && n.ProductID != nil && *n.ProductID == productID && n.RecipientEmail == recipient {
			return true, nil
		}
	}
	return false, nil
}

func (o *memoryOutbox) Due(_ context.Context, now time.Time, limit int) ([]*entity.Notification, error) {
	var out []*entity.Notification
	for _, n := range o.items {
		if n.IsDue(now) {
			cp := *n
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ScheduledAt.Before(out[j].ScheduledAt) })
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (o *memoryOutbox) Update(_ context.Context, n *entity.Notification) error {
	cp := *n
	o.items[n.ID] = &cp
	return nil
}

func (o *memoryOutbox) CancelForPurchase(_ context.Context, purchaseID uuid.UUID, now time.Time) (int64, error) {
	var count int64
	for _, n := range o.items {
		if n.PurchaseID != nil && *n.PurchaseID == purchaseID && n.Cancel(now) {
			count++
		}
	}
	return count, nil
}

func (o *memoryOutbox) PurgeProcessed(_ context.Context, cutoff time.Time) (int64, error) {
	o.purged = cutoff
	var count int64
	for id, n := range o.items {
		if n.ProcessedAt != nil && n.ProcessedAt.Before(cutoff) {
			delete(o.items, id)
			count++
		}
	}
	return count, nil
}

func (o *memoryOutbox) only(t *testing.T) *entity.Notification {
	t.Helper()
	require.Len(t, o.items, 1)
	for _, n := range o.items {
		return n
	}
	return nil
}

type staticUsers struct {
	adapter.UserRepository
	users []*entity.User
	err   error
}

func (u staticUsers) FindByRole(_ context.Context, role entity.Role) ([]*entity.User, error) {
	if u.err != nil {
		return nil, u.err
	}
	var out []*entity.User
	for _, user := range u.users {
		if user.Role == role {
			out = append(out, user)
		}
	}
	return out, nil
}

var testNow = time.Date(2026, 3, 14, 10, 0, 0, 0, time.UTC)

func fixedClock() time.Time { return testNow }

func newTestWorker(t *testing.T, outbox *memoryOutbox, sender adapter.EmailSender) *Worker {
	t.Helper()
	renderer, err := templates.NewRenderer()
	require.NoError(t, err)
	config := DefaultWorkerConfig()
	config.AppBaseURL = "https://pantry.example"
	config.Clock = fixedClock
	return NewWorker(outbox, sender, renderer, config)
}

func TestNotifier_QueuesForOptedInAdmins(t *testing.T) {
	ctx := context.Background()
	outbox := newMemoryOutbox()

	admin := entity.NewUser("admin@pantry.org", "Ana", "hash", entity.RoleAdmin)
	muted := entity.NewUser("muted@pantry.org", "Bo", "hash", entity.RoleAdmin)
	muted.EmailNotifications = false
	volunteer := entity.NewUser("vol@pantry.org", "Cy", "hash", entity.RoleVolunteer)
	notifier := NewNotifier(outbox, staticUsers{users: []*entity.User{admin, muted, volunteer}}, "", fixedClock)

	productID := uuid.New()
	require.NoError(t, notifier.QueueLowStockAlert(ctx, adapter.LowStockAlertInput{
		ProductID: productID, ProductName: "Rice", Quantity: 2, MinStock: 10,
	}))

	n := outbox.only(t)
	assert.Equal(t, entity.NotificationLowStock, n.Kind)
	assert.Equal(t, "admin@pantry.org", n.RecipientEmail)
	require.NotNil(t, n.ProductID)
	assert.Equal(t, productID, *n.ProductID)
	assert.Nil(t, n.PurchaseID)
	assert.Equal(t, "Rice", n.Fields["product_name"])
	assert.Equal(t, testNow, n.ScheduledAt)
}

func TestNotifier_DedupesLowStockPerProduct(t *testing.T) {
	ctx := context.Background()
	outbox := newMemoryOutbox()
	admin := entity.NewUser("admin@pantry.org", "Ana", "hash", entity.RoleAdmin)
	notifier := NewNotifier(outbox, staticUsers{users: []*entity.User{admin}}, "", fixedClock)

	rice := adapter.LowStockAlertInput{ProductID: uuid.New(), ProductName: "Rice", Quantity: 2, MinStock: 10}
	beans := adapter.LowStockAlertInput{ProductID: uuid.New(), ProductName: "Beans", Quantity: 1, MinStock: 5}

	require.NoError(t, notifier.QueueLowStockAlert(ctx, rice))
	rice.Quantity = 1
	require.NoError(t, notifier.QueueLowStockAlert(ctx, rice))
	require.NoError(t, notifier.QueueLowStockAlert(ctx, beans))
	assert.Len(t, outbox.items, 2, "one pending alert per product")

	newTestWorker(t, outbox, NewRecordingSender()).ProcessNow(ctx)

	require.NoError(t, notifier.QueueLowStockAlert(ctx, rice))
	assert.Len(t, outbox.items, 3, "a delivered alert does not block the next one")
}

func TestNotifier_CancelsPendingNoticesOfReversedPurchase(t *testing.T) {
	ctx := context.Background()
	outbox := newMemoryOutbox()
	admin := entity.NewUser("admin@pantry.org", "Ana", "hash", entity.RoleAdmin)
	notifier := NewNotifier(outbox, staticUsers{users: []*entity.User{admin}}, "", fixedClock)

	reversed, kept := uuid.New(), uuid.New()
	require.NoError(t, notifier.QueuePurchaseSettled(ctx, adapter.PurchaseSettledInput{PurchaseID: reversed, TotalAmount: "30.00"}))
	require.NoError(t, notifier.QueuePurchaseSettled(ctx, adapter.PurchaseSettledInput{PurchaseID: kept, TotalAmount: "12.00"}))

	require.NoError(t, notifier.CancelPurchaseNotices(ctx, reversed))

	sender := NewRecordingSender()
	newTestWorker(t, outbox, sender).ProcessNow(ctx)

	sent := sender.Sent()
	require.Len(t, sent, 1)
	assert.Equal(t, kept.String(), sent[0].Tags["purchase_id"])
	for _, n := range outbox.items {
		if *n.PurchaseID == reversed {
			assert.Equal(t, entity.NotificationCancelled, n.Status)
		}
	}
}

func TestNotifier_RecipientLookupFailure(t *testing.T) {
	notifier := NewNotifier(newMemoryOutbox(), staticUsers{err: errors.New("db down")}, "", fixedClock)

	err := notifier.QueuePurchaseSettled(context.Background(), adapter.PurchaseSettledInput{TotalAmount: "30.00"})

	var notificationErr *domainerror.NotificationError
	require.ErrorAs(t, err, &notificationErr)
	assert.Equal(t, domainerror.ErrCodeRecipientLookupFailed, notificationErr.Code)
}

func TestWorker_RendersAndSends(t *testing.T) {
	ctx := context.Background()
	outbox := newMemoryOutbox()
	sender := NewRecordingSender()

	admin := entity.NewUser("admin@pantry.org", "Ana", "hash", entity.RoleAdmin)
	notifier := NewNotifier(outbox, staticUsers{users: []*entity.User{admin}}, "", fixedClock)
	purchaseID := uuid.New()
	require.NoError(t, notifier.QueuePurchaseSettled(ctx, adapter.PurchaseSettledInput{
		PurchaseID:   purchaseID,
		ItemCount:    2,
		TotalAmount:  "30.00",
		BudgetBefore: "500.00",
		BudgetAfter:  "470.00",
		SettledBy:    "Ana",
	}))

	newTestWorker(t, outbox, sender).ProcessNow(ctx)

	sent := sender.Sent()
	require.Len(t, sent, 1)
	assert.Equal(t, "admin@pantry.org", sent[0].To)
	assert.Equal(t, "Ana", sent[0].Name)
	assert.Contains(t, sent[0].HTML, "470.00")
	assert.Contains(t, sent[0].HTML, "https://pantry.example/purchases/"+purchaseID.String())
	assert.Contains(t, sent[0].Text, "Budget after:  470.00")
	assert.Equal(t, "purchase_settled", sent[0].Tags["kind"])
	assert.Equal(t, purchaseID.String(), sent[0].Tags["purchase_id"])

	n := outbox.only(t)
	assert.Equal(t, entity.NotificationSent, n.Status)
	assert.Equal(t, "rec-1", n.ProviderMessageID)
	assert.Equal(t, n.ID.String(), sent[0].Tags["notification_id"])
}

func TestWorker_LowStockLinksToProduct(t *testing.T) {
	ctx := context.Background()
	outbox := newMemoryOutbox()
	sender := NewRecordingSender()
	admin := entity.NewUser("admin@pantry.org", "Ana", "hash", entity.RoleAdmin)
	productID := uuid.New()
	require.NoError(t, outbox.Enqueue(ctx, entity.NewLowStockNotification(productID, admin, "Low stock: Rice", map[string]string{
		"product_name": "Rice", "quantity": "2", "min_stock": "10",
	}, testNow)))

	newTestWorker(t, outbox, sender).ProcessNow(ctx)

	sent := sender.Sent()
	require.Len(t, sent, 1)
	assert.Contains(t, sent[0].Text, "Rice is running low: 2 left, minimum is 10.")
	assert.Contains(t, sent[0].Text, "https://pantry.example/inventory/"+productID.String())
	assert.Equal(t, productID.String(), sent[0].Tags["product_id"])
}

func TestWorker_DeliveryFailures(t *testing.T) {
	tests := []struct {
		name        string
		err         error
		wantStatus  entity.NotificationStatus
		wantNextTry time.Time
	}{
		{
			name:       "rejected by provider",
			err:        domainerror.NewNotificationError(domainerror.ErrCodeDeliveryRejected, "rejected", domainerror.ErrDeliveryRejected),
			wantStatus: entity.NotificationFailed,
		},
		{
			name:        "provider unavailable",
			err:         domainerror.NewNotificationError(domainerror.ErrCodeDeliveryUnavailable, "unavailable", domainerror.ErrDeliveryUnavailable),
			wantStatus:  entity.NotificationPending,
			wantNextTry: testNow.Add(time.Minute),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := context.Background()
			outbox := newMemoryOutbox()
			sender := NewRecordingSender()
			sender.FailWith(tt.err)
			admin := entity.NewUser("admin@pantry.org", "Ana", "hash", entity.RoleAdmin)
			require.NoError(t, outbox.Enqueue(ctx, entity.NewLowStockNotification(uuid.New(), admin, "Low stock", nil, testNow)))

			newTestWorker(t, outbox, sender).ProcessNow(ctx)

			n := outbox.only(t)
			assert.Equal(t, tt.wantStatus, n.Status)
			assert.Equal(t, 1, n.Attempts)
			if !tt.wantNextTry.IsZero() {
				assert.Equal(t, tt.wantNextTry, n.ScheduledAt)
			}
		})
	}
}

func TestWorker_UnknownKindIsPermanent(t *testing.T) {
	ctx := context.Background()
	outbox := newMemoryOutbox()
	admin := entity.NewUser("admin@pantry.org", "Ana", "hash", entity.RoleAdmin)
	n := entity.NewLowStockNotification(uuid.New(), admin, "Hello", nil, testNow)
	n.Kind = "newsletter"
	require.NoError(t, outbox.Enqueue(ctx, n))

	sender := NewRecordingSender()
	newTestWorker(t, outbox, sender).ProcessNow(ctx)

	assert.Empty(t, sender.Sent())
	assert.Equal(t, entity.NotificationFailed, outbox.only(t).Status)
}

func TestWorker_PurgesProcessedAfterRetention(t *testing.T) {
	ctx := context.Background()
	outbox := newMemoryOutbox()
	admin := entity.NewUser("admin@pantry.org", "Ana", "hash", entity.RoleAdmin)

	old := entity.NewPurchaseSettledNotification(uuid.New(), admin, "Purchase settled", nil, testNow.AddDate(0, -2, 0))
	old.MarkSent("msg-old", testNow.AddDate(0, -2, 0))
	require.NoError(t, outbox.Enqueue(ctx, old))
	recent := entity.NewPurchaseSettledNotification(uuid.New(), admin, "Purchase settled", nil, testNow.AddDate(0, 0, -1))
	recent.MarkSent("msg-recent", testNow.AddDate(0, 0, -1))
	require.NoError(t, outbox.Enqueue(ctx, recent))

	newTestWorker(t, outbox, NewRecordingSender()).ProcessNow(ctx)

	assert.Equal(t, testNow.Add(-30*24*time.Hour), outbox.purged)
	assert.Equal(t, recent.ID, outbox.only(t).ID)
}

func TestClassifyProviderError(t *testing.T) {
	tests := []struct {
		message   string
		permanent bool
	}{
		{"[ERROR]: 422 validation_error: invalid to address", true},
		{"[ERROR]: 403 forbidden", true},
		{"[ERROR]: 429 rate_limit_exceeded", false},
		{"[ERROR]: 503 service unavailable", false},
		{"dial tcp: connection refused", false},
	}

	for _, tt := range tests {
		t.Run(tt.message, func(t *testing.T) {
			err := classifyProviderError(errors.New(tt.message))
			assert.Equal(t, tt.permanent, domainerror.IsPermanentDeliveryFailure(err))
			if !tt.permanent {
				assert.ErrorIs(t, err, domainerror.ErrDeliveryUnavailable)
			}
		})
	}
}

func TestResendTags(t *testing.T) {
	tags := resendTags(map[string]string{
		"kind":       "low_stock",
		"product_id": "6f1c9a52-3d43-4a8b-9a39-0d2f8f1c7e11",
		"note":       "rice & beans",
	})

	require.Len(t, tags, 3)
	assert.Equal(t, "kind", tags[0].Name)
	assert.Equal(t, "note", tags[1].Name)
	assert.Equal(t, "rice___beans", tags[1].Value)
	assert.Equal(t, "6f1c9a52-3d43-4a8b-9a39-0d2f8f1c7e11", tags[2].Value)
	assert.Nil(t, resendTags(nil))
}
