package email

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/pantry-ledger/backend/internal/application/adapter"
	"github.com/pantry-ledger/backend/internal/domain/entity"
	domainerror "github.com/pantry-ledger/backend/internal/domain/error"
	"github.com/pantry-ledger/backend/internal/integration/email/templates"
)

// purgeInterval is how often the worker removes processed notifications.
const purgeInterval = time.Hour

// WorkerConfig holds configuration for the notification worker.
type WorkerConfig struct {
	PollInterval time.Duration
	BatchSize    int
	// Retention is how long processed notifications are kept. Zero keeps them forever.
	Retention  time.Duration
	AppBaseURL string
	Clock      func() time.Time
}

// DefaultWorkerConfig returns the default worker configuration.
func DefaultWorkerConfig() WorkerConfig {
	return WorkerConfig{
		PollInterval: 5 * time.Second,
		BatchSize:    10,
		Retention:    30 * 24 * time.Hour,
		Clock:        func() time.Time { return time.Now().UTC() },
	}
}

// Worker delivers due notifications from the outbox.
type Worker struct {
	outbox    adapter.NotificationOutbox
	sender    adapter.EmailSender
	renderer  *templates.Renderer
	config    WorkerConfig
	lastPurge time.Time
}

// NewWorker creates a notification worker.
func NewWorker(outbox adapter.NotificationOutbox, sender adapter.EmailSender, renderer *templates.Renderer, config WorkerConfig) *Worker {
	defaults := DefaultWorkerConfig()
	if config.PollInterval <= 0 {
		config.PollInterval = defaults.PollInterval
	}
	if config.BatchSize <= 0 {
		config.BatchSize = defaults.BatchSize
	}
	if config.Clock == nil {
		config.Clock = defaults.Clock
	}
	return &Worker{
		outbox:   outbox,
		sender:   sender,
		renderer: renderer,
		config:   config,
	}
}

// Start runs the delivery loop until ctx is cancelled.
func (w *Worker) Start(ctx context.Context) {
	slog.Info("Notification worker started",
		"poll_interval", w.config.PollInterval,
		"batch_size", w.config.BatchSize,
		"retention", w.config.Retention,
	)

	ticker := time.NewTicker(w.config.PollInterval)
	defer ticker.Stop()

	w.ProcessNow(ctx)
	for {
		select {
		case <-ctx.Done():
			slog.Info("Notification worker shutting down")
			return
		case <-ticker.C:
			w.ProcessNow(ctx)
		}
	}
}

// ProcessNow delivers one batch of due notifications and purges old ones when a purge is due.
func (w *Worker) ProcessNow(ctx context.Context) {
	now := w.config.Clock()

	due, err := w.outbox.Due(ctx, now, w.config.BatchSize)
	if err != nil {
		slog.Error("Failed to load due notifications", "error", err)
		return
	}
	for _, n := range due {
		if ctx.Err() != nil {
			return
		}
		w.deliver(ctx, n)
	}

	if w.config.Retention > 0 && now.Sub(w.lastPurge) >= purgeInterval {
		w.purge(ctx, now)
	}
}

func (w *Worker) deliver(ctx context.Context, n *entity.Notification) {
	logger := slog.With(
		"notificationID", n.ID,
		"kind", n.Kind,
		"reference", n.Reference(),
		"recipient", n.RecipientEmail,
	)

	n.MarkSending()
	if err := w.outbox.Update(ctx, n); err != nil {
		logger.Error("Failed to claim notification", "error", err)
		return
	}

	input, err := w.compose(n)
	if err != nil {
		logger.Error("Failed to render notification", "error", err)
		w.fail(ctx, logger, n, err)
		return
	}

	result, err := w.sender.Send(ctx, input)
	if err != nil {
		logger.Error("Failed to send notification", "error", err)
		w.fail(ctx, logger, n, err)
		return
	}

	n.MarkSent(result.ProviderMessageID, w.config.Clock())
	if err := w.outbox.Update(ctx, n); err != nil {
		logger.Error("Failed to record sent notification", "error", err)
		return
	}
	logger.Info("Notification sent", "providerMessageID", result.ProviderMessageID)
}

// compose renders a notification into an email addressed to its recipient.
func (w *Worker) compose(n *entity.Notification) (adapter.SendEmailInput, error) {
	ref := n.Reference().String()
	tags := map[string]string{
		"kind":            string(n.Kind),
		"notification_id": n.ID.String(),
	}

	var data any
	switch n.Kind {
	case entity.NotificationLowStock:
		tags["product_id"] = ref
		data = templates.LowStockData{
			RecipientName: n.RecipientName,
			ProductID:     ref,
			ProductName:   n.Fields["product_name"],
			Quantity:      n.Fields["quantity"],
			MinStock:      n.Fields["min_stock"],
			AppURL:        w.config.AppBaseURL,
		}
	case entity.NotificationPurchaseSettled:
		tags["purchase_id"] = ref
		data = templates.PurchaseSettledData{
			RecipientName: n.RecipientName,
			PurchaseID:    ref,
			ItemCount:     n.Fields["item_count"],
			TotalAmount:   n.Fields["total_amount"],
			BudgetBefore:  n.Fields["budget_before"],
			BudgetAfter:   n.Fields["budget_after"],
			SettledBy:     n.Fields["settled_by"],
			AppURL:        w.config.AppBaseURL,
		}
	default:
		return adapter.SendEmailInput{}, domainerror.NewNotificationError(
			domainerror.ErrCodeUnknownNotificationKind,
			"no template for notification kind "+string(n.Kind),
			domainerror.ErrUnknownNotificationKind,
		)
	}

	html, text, err := w.renderer.Render(n.Kind, data)
	if err != nil {
		return adapter.SendEmailInput{}, domainerror.NewNotificationError(
			domainerror.ErrCodeRenderFailed,
			"failed to render notification",
			errors.Join(domainerror.ErrDeliveryRejected, err),
		)
	}

	return adapter.SendEmailInput{
		To:      n.RecipientEmail,
		Name:    n.RecipientName,
		Subject: n.Subject,
		HTML:    html,
		Text:    text,
		Tags:    tags,
	}, nil
}

func (w *Worker) fail(ctx context.Context, logger *slog.Logger, n *entity.Notification, err error) {
	n.MarkFailed(err, domainerror.IsPermanentDeliveryFailure(err), w.config.Clock())

	if updateErr := w.outbox.Update(ctx, n); updateErr != nil {
		logger.Error("Failed to record notification failure", "error", updateErr)
	}

	if n.Status == entity.NotificationFailed {
		logger.Warn("Notification given up", "attempts", n.Attempts, "lastError", n.LastError)
		return
	}
	logger.Info("Notification rescheduled", "attempts", n.Attempts, "scheduledAt", n.ScheduledAt)
}

func (w *Worker) purge(ctx context.Context, now time.Time) {
	purged, err := w.outbox.PurgeProcessed(ctx, now.Add(-w.config.Retention))
	if err != nil {
		slog.Error("Failed to purge processed notifications", "error", err)
		return
	}
	w.lastPurge = now
	if purged > 0 {
		slog.Info("Purged processed notifications", "count", purged)
	}
}
