// Package adapter defines interfaces that will be implemented in the integration layer.
package adapter

import "context"

// TransactionManager runs a unit of work atomically against the ledger store.
// Repositories called with the context passed to fn take part in the same transaction.
type TransactionManager interface {
	// WithinTransaction commits when fn returns nil and rolls back otherwise.
	WithinTransaction(ctx context.Context, fn func(ctx context.Context) error) error
}
