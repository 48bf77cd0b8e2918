package entity

import (
	"time"

	"github.com/google/uuid"
)

// NotificationKind names what a notification reports.
type NotificationKind string

const (
	NotificationLowStock        NotificationKind = "low_stock"
	NotificationPurchaseSettled NotificationKind = "purchase_settled"
)

// NotificationStatus is the delivery state of a queued notification.
type NotificationStatus string

const (
	NotificationPending   NotificationStatus = "pending"
	NotificationSending   NotificationStatus = "sending"
	NotificationSent      NotificationStatus = "sent"
	NotificationFailed    NotificationStatus = "failed"
	NotificationCancelled NotificationStatus = "cancelled"
)

// MaxNotificationAttempts bounds delivery attempts before a notification is given up.
const MaxNotificationAttempts = 3

// notificationBackoff is indexed by the number of attempts already made.
var notificationBackoff = []time.Duration{0, time.Minute, 5 * time.Minute}

// Notification is an email to one admin about a product or a purchase, waiting in the outbox.
// Exactly one of ProductID and PurchaseID is set.
type Notification struct {
	ID                uuid.UUID
	Kind              NotificationKind
	ProductID         *uuid.UUID
	PurchaseID        *uuid.UUID
	RecipientEmail    string
	RecipientName     string
	Subject           string
	Fields            map[string]string
	Status            NotificationStatus
	Attempts          int
	LastError         string
	ProviderMessageID string
	CreatedAt         time.Time
	ScheduledAt       time.Time
	ProcessedAt       *time.Time
}

// NewLowStockNotification queues a low-stock alert about productID for recipient.
func NewLowStockNotification(productID uuid.UUID, recipient *User, subject string, fields map[string]string, now time.Time) *Notification {
	n := newNotification(NotificationLowStock, recipient, subject, fields, now)
	n.ProductID = &productID
	return n
}

// NewPurchaseSettledNotification queues a settlement summary about purchaseID for recipient.
func NewPurchaseSettledNotification(purchaseID uuid.UUID, recipient *User, subject string, fields map[string]string, now time.Time) *Notification {
	n := newNotification(NotificationPurchaseSettled, recipient, subject, fields, now)
	n.PurchaseID = &purchaseID
	return n
}

func newNotification(kind NotificationKind, recipient *User, subject string, fields map[string]string, now time.Time) *Notification {
	if fields == nil {
		fields = map[string]string{}
	}
	return &Notification{
		ID:             uuid.New(),
		Kind:           kind,
		RecipientEmail: recipient.Email,
		RecipientName:  recipient.Name,
		Subject:        subject,
		Fields:         fields,
		Status:         NotificationPending,
		CreatedAt:      now,
		ScheduledAt:    now,
	}
}

// Reference returns the product or purchase the notification is about.
func (n *Notification) Reference() uuid.UUID {
	switch {
	case n.PurchaseID != nil:
		return *n.PurchaseID
	case n.ProductID != nil:
		return *n.ProductID
	}
	return uuid.Nil
}

// IsDue reports whether the notification should be delivered at now.
func (n *Notification) IsDue(now time.Time) bool {
	return n.Status == NotificationPending && !n.ScheduledAt.After(now)
}

// MarkSending claims the notification for delivery.
func (n *Notification) MarkSending() {
	n.Status = NotificationSending
}

// MarkSent records a successful delivery.
func (n *Notification) MarkSent(providerMessageID string, now time.Time) {
	n.Status = NotificationSent
	n.ProviderMessageID = providerMessageID
	n.ProcessedAt = &now
}

// MarkFailed records a failed attempt. Permanent failures and the last allowed
// attempt end delivery; otherwise the notification is rescheduled with backoff.
func (n *Notification) MarkFailed(err error, permanent bool, now time.Time) {
	n.Attempts++
	n.LastError = err.Error()

	if permanent || n.Attempts >= MaxNotificationAttempts {
		n.Status = NotificationFailed
		n.ProcessedAt = &now
		return
	}

	delay := notificationBackoff[len(notificationBackoff)-1]
	if n.Attempts < len(notificationBackoff) {
		delay = notificationBackoff[n.Attempts]
	}
	n.Status = NotificationPending
	n.ScheduledAt = now.Add(delay)
}

// Cancel withdraws a notification that has not been picked up yet.
func (n *Notification) Cancel(now time.Time) bool {
	if n.Status != NotificationPending {
		return false
	}
	n.Status = NotificationCancelled
	n.ProcessedAt = &now
	return true
}
