// Package adapter defines interfaces that will be implemented in the integration layer.
package adapter

import (
	"io"

	"github.com/pantry-ledger/backend/internal/domain/entity"
)

// PurchaseExporter writes purchase history in a spreadsheet format.
type PurchaseExporter interface {
	// ContentType returns the MIME type of the produced document.
	ContentType() string

	// Export writes purchases to w.
	Export(w io.Writer, purchases []*entity.PurchaseRecord) error
}
