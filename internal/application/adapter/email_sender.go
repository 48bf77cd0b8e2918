// Package adapter defines interfaces that will be implemented in the integration layer.
package adapter

import (
	"context"

	"github.com/google/uuid"
)

// SendEmailInput represents one outgoing email.
type SendEmailInput struct {
	To      string
	Name    string
	Subject string
	HTML    string
	Text    string
	// Tags label the message at the provider, e.g. kind=low_stock.
	Tags map[string]string
}

// SendEmailResult represents the result of sending an email.
type SendEmailResult struct {
	ProviderMessageID string
}

// EmailSender delivers emails through an external provider.
type EmailSender interface {
	Send(ctx context.Context, input SendEmailInput) (*SendEmailResult, error)
}

// NotificationService queues notifications for the organization's admins.
type NotificationService interface {
	// QueueLowStockAlert queues a low-stock alert for every admin who has none pending for the product.
	QueueLowStockAlert(ctx context.Context, input LowStockAlertInput) error

	// QueuePurchaseSettled queues a settlement summary for every admin.
	QueuePurchaseSettled(ctx context.Context, input PurchaseSettledInput) error

	// CancelPurchaseNotices withdraws undelivered notifications about a reversed purchase.
	CancelPurchaseNotices(ctx context.Context, purchaseID uuid.UUID) error
}

// LowStockAlertInput describes a product that dropped under its minimum stock.
type LowStockAlertInput struct {
	ProductID   uuid.UUID
	ProductName string
	Quantity    int
	MinStock    int
}

// PurchaseSettledInput summarizes a settled purchase.
type PurchaseSettledInput struct {
	PurchaseID   uuid.UUID
	ItemCount    int
	TotalAmount  string
	BudgetBefore string
	BudgetAfter  string
	SettledBy    string
}
