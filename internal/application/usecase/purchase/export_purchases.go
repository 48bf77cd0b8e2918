package purchase

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/pantry-ledger/backend/internal/application/adapter"
)

// ExportPurchasesUseCase writes the whole purchase history as a spreadsheet.
type ExportPurchasesUseCase struct {
	purchaseRepo adapter.PurchaseRepository
	exporter     adapter.PurchaseExporter
}

// NewExportPurchasesUseCase creates a new ExportPurchasesUseCase instance.
func NewExportPurchasesUseCase(purchaseRepo adapter.PurchaseRepository, exporter adapter.PurchaseExporter) *ExportPurchasesUseCase {
	return &ExportPurchasesUseCase{
		purchaseRepo: purchaseRepo,
		exporter:     exporter,
	}
}

// ContentType returns the MIME type of the export.
func (uc *ExportPurchasesUseCase) ContentType() string {
	return uc.exporter.ContentType()
}

// Execute writes every purchase, newest first, to w.
func (uc *ExportPurchasesUseCase) Execute(ctx context.Context, w io.Writer) error {
	purchases, err := uc.purchaseRepo.ListAll(ctx)
	if err != nil {
		return fmt.Errorf("failed to list purchases: %w", err)
	}

	if err := uc.exporter.Export(w, purchases); err != nil {
		return fmt.Errorf("failed to export purchases: %w", err)
	}

	slog.Info("Purchase history exported", "purchases", len(purchases))
	return nil
}
