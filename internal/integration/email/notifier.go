package email

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"github.com/google/uuid"

	"github.com/pantry-ledger/backend/internal/application/adapter"
	"github.com/pantry-ledger/backend/internal/domain/entity"
	domainerror "github.com/pantry-ledger/backend/internal/domain/error"
)

// Notifier writes pantry notifications to the outbox for every admin who opted in.
type Notifier struct {
	outbox     adapter.NotificationOutbox
	users      adapter.UserRepository
	appBaseURL string
	clock      func() time.Time
}

// NewNotifier creates a Notifier. A nil clock uses the wall clock.
func NewNotifier(outbox adapter.NotificationOutbox, users adapter.UserRepository, appBaseURL string, clock func() time.Time) *Notifier {
	if clock == nil {
		clock = func() time.Time { return time.Now().UTC() }
	}
	return &Notifier{
		outbox:     outbox,
		users:      users,
		appBaseURL: appBaseURL,
		clock:      clock,
	}
}

// QueueLowStockAlert queues a low-stock alert. An admin who still has an
// undelivered alert for the same product is skipped.
func (n *Notifier) QueueLowStockAlert(ctx context.Context, input adapter.LowStockAlertInput) error {
	admins, err := n.recipients(ctx)
	if err != nil {
		return err
	}

	subject := fmt.Sprintf("Low stock: %s - Pantry Ledger", input.ProductName)
	fields := map[string]string{
		"product_name": input.ProductName,
		"quantity":     strconv.Itoa(input.Quantity),
		"min_stock":    strconv.Itoa(input.MinStock),
	}

	now := n.clock()
	queued, skipped := 0, 0
	for _, admin := range admins {
		open, err := n.outbox.HasOpenLowStock(ctx, input.ProductID, admin.Email)
		if err != nil {
			return domainerror.NewNotificationError(
				domainerror.ErrCodeNotificationQueueFailed,
				"failed to check pending low stock alerts",
				err,
			)
		}
		if open {
			skipped++
			continue
		}
		if err := n.outbox.Enqueue(ctx, entity.NewLowStockNotification(input.ProductID, admin, subject, fields, now)); err != nil {
			return err
		}
		queued++
	}

	slog.Debug("Low stock alert queued",
		"productID", input.ProductID,
		"recipients", queued,
		"alreadyPending", skipped,
	)
	return nil
}

// QueuePurchaseSettled queues a settlement summary.
func (n *Notifier) QueuePurchaseSettled(ctx context.Context, input adapter.PurchaseSettledInput) error {
	admins, err := n.recipients(ctx)
	if err != nil {
		return err
	}

	subject := fmt.Sprintf("Purchase settled: %s - Pantry Ledger", input.TotalAmount)
	fields := map[string]string{
		"item_count":    strconv.Itoa(input.ItemCount),
		"total_amount":  input.TotalAmount,
		"budget_before": input.BudgetBefore,
		"budget_after":  input.BudgetAfter,
		"settled_by":    input.SettledBy,
	}

	now := n.clock()
	for _, admin := range admins {
		if err := n.outbox.Enqueue(ctx, entity.NewPurchaseSettledNotification(input.PurchaseID, admin, subject, fields, now)); err != nil {
			return err
		}
	}

	slog.Debug("Settlement summary queued", "purchaseID", input.PurchaseID, "recipients", len(admins))
	return nil
}

// CancelPurchaseNotices cancels settlement summaries for a reversed purchase that
// have not gone out yet.
func (n *Notifier) CancelPurchaseNotices(ctx context.Context, purchaseID uuid.UUID) error {
	cancelled, err := n.outbox.CancelForPurchase(ctx, purchaseID, n.clock())
	if err != nil {
		return domainerror.NewNotificationError(
			domainerror.ErrCodeNotificationQueueFailed,
			"failed to cancel purchase notifications",
			err,
		)
	}
	if cancelled > 0 {
		slog.Info("Cancelled notifications for reversed purchase", "purchaseID", purchaseID, "count", cancelled)
	}
	return nil
}

// recipients returns the admins who want email notifications.
func (n *Notifier) recipients(ctx context.Context) ([]*entity.User, error) {
	admins, err := n.users.FindByRole(ctx, entity.RoleAdmin)
	if err != nil {
		return nil, domainerror.NewNotificationError(
			domainerror.ErrCodeRecipientLookupFailed,
			"failed to load notification recipients",
			err,
		)
	}

	out := make([]*entity.User, 0, len(admins))
	for _, admin := range admins {
		if admin.EmailNotifications {
			out = append(out, admin)
		}
	}
	return out, nil
}

var _ adapter.NotificationService = (*Notifier)(nil)
