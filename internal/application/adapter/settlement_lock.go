// Package adapter defines interfaces that will be implemented in the integration layer.
package adapter

import "context"

// SettlementLock serializes settlements and reversals across processes.
type SettlementLock interface {
	// Acquire takes the lock. It returns false without error when someone else holds it.
	// The returned release func must be called once the caller is done.
	Acquire(ctx context.Context) (release func(), acquired bool, err error)
}
