// Package adapter defines interfaces that will be implemented in the integration layer.
package adapter

import "context"

// ReceiptStorage stores receipt blobs.
type ReceiptStorage interface {
	// Put stores data under path and returns a retrievable URL.
	Put(ctx context.Context, path string, data []byte, contentType string) (string, error)

	// Delete removes the blob stored under path.
	Delete(ctx context.Context, path string) error
}
