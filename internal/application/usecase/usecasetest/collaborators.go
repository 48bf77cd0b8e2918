package usecasetest

import (
	"context"

	"github.com/google/uuid"

	"github.com/pantry-ledger/backend/internal/application/adapter"
)

// ReceiptStorage keeps receipt blobs in memory.
type ReceiptStorage struct {
	Blobs     map[string][]byte
	Puts      int
	Deletes   int
	PutErr    error
	DeleteErr error
}

// NewReceiptStorage creates an empty ReceiptStorage.
func NewReceiptStorage() *ReceiptStorage {
	return &ReceiptStorage{Blobs: map[string][]byte{}}
}

// Put stores data under path.
func (s *ReceiptStorage) Put(_ context.Context, path string, data []byte, _ string) (string, error) {
	if s.PutErr != nil {
		return "", s.PutErr
	}
	s.Puts++
	s.Blobs[path] = data
	return "https://receipts.test/" + path, nil
}

// Delete removes the blob under path.
func (s *ReceiptStorage) Delete(_ context.Context, path string) error {
	if s.DeleteErr != nil {
		return s.DeleteErr
	}
	s.Deletes++
	delete(s.Blobs, path)
	return nil
}

// Lock is a single-holder settlement lock.
type Lock struct {
	Busy bool
	Held bool
}

// Acquire takes the lock unless it is busy or already held.
func (l *Lock) Acquire(_ context.Context) (func(), bool, error) {
	if l.Busy || l.Held {
		return nil, false, nil
	}
	l.Held = true
	return func() { l.Held = false }, true, nil
}

// Notifier records queued notifications.
type Notifier struct {
	LowStock  []adapter.LowStockAlertInput
	Settled   []adapter.PurchaseSettledInput
	Cancelled []uuid.UUID
	Err       error
}

// QueueLowStockAlert records a low-stock alert.
func (n *Notifier) QueueLowStockAlert(_ context.Context, input adapter.LowStockAlertInput) error {
	if n.Err != nil {
		return n.Err
	}
	n.LowStock = append(n.LowStock, input)
	return nil
}

// QueuePurchaseSettled records a settlement summary.
func (n *Notifier) QueuePurchaseSettled(_ context.Context, input adapter.PurchaseSettledInput) error {
	if n.Err != nil {
		return n.Err
	}
	n.Settled = append(n.Settled, input)
	return nil
}

// CancelPurchaseNotices records the purchase whose notices were withdrawn.
func (n *Notifier) CancelPurchaseNotices(_ context.Context, purchaseID uuid.UUID) error {
	if n.Err != nil {
		return n.Err
	}
	n.Cancelled = append(n.Cancelled, purchaseID)
	return nil
}
