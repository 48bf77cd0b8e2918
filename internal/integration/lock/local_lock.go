package lock

import (
	"context"
	"sync"

	"github.com/pantry-ledger/backend/internal/application/adapter"
)

// LocalLock serializes settlements within one process. Used when Redis is not configured.
type LocalLock struct {
	mu sync.Mutex
}

// NewLocalLock creates an in-process settlement lock.
func NewLocalLock() *LocalLock {
	return &LocalLock{}
}

// Acquire tries once to take the lock without blocking.
func (l *LocalLock) Acquire(_ context.Context) (func(), bool, error) {
	if !l.mu.TryLock() {
		return nil, false, nil
	}

	var once sync.Once
	return func() { once.Do(l.mu.Unlock) }, true, nil
}

var _ adapter.SettlementLock = (*LocalLock)(nil)
