// Package export renders purchase history into downloadable files.
package export

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"

	"github.com/pantry-ledger/backend/internal/application/adapter"
	"github.com/pantry-ledger/backend/internal/domain/entity"
)

const (
	xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	purchasesSheet  = "Purchases"
	dateLayout      = "2006-01-02 15:04"
)

var purchaseHeaders = []string{
	"Date",
	"Purchase ID",
	"Product",
	"Category",
	"Quantity",
	"Unit Price",
	"Line Total",
	"Purchase Total",
	"Budget Before",
	"Budget After",
	"Receipt URL",
}

// XLSXExporter writes one spreadsheet row per purchased item.
type XLSXExporter struct{}

// NewXLSXExporter creates a new spreadsheet exporter.
func NewXLSXExporter() *XLSXExporter {
	return &XLSXExporter{}
}

// ContentType returns the MIME type of the produced file.
func (e *XLSXExporter) ContentType() string {
	return xlsxContentType
}

// Export writes the purchases to w as an .xlsx workbook.
func (e *XLSXExporter) Export(w io.Writer, purchases []*entity.PurchaseRecord) error {
	f := excelize.NewFile()
	defer f.Close()

	index, err := f.NewSheet(purchasesSheet)
	if err != nil {
		return fmt.Errorf("failed to create sheet: %w", err)
	}
	f.SetActiveSheet(index)
	if err := f.DeleteSheet("Sheet1"); err != nil {
		return fmt.Errorf("failed to remove default sheet: %w", err)
	}

	if err := f.SetSheetRow(purchasesSheet, "A1", &purchaseHeaders); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}

	row := 2
	for _, p := range purchases {
		for _, item := range p.Items {
			values := []interface{}{
				p.Date.UTC().Format(dateLayout),
				p.ID.String(),
				item.Name,
				item.CategoryName,
				item.Quantity,
				item.Price.InexactFloat64(),
				item.LineTotal().InexactFloat64(),
				p.TotalAmount.InexactFloat64(),
				p.BudgetBefore.InexactFloat64(),
				p.BudgetAfter.InexactFloat64(),
				p.ReceiptURL,
			}

			cell, err := excelize.CoordinatesToCellName(1, row)
			if err != nil {
				return err
			}
			if err := f.SetSheetRow(purchasesSheet, cell, &values); err != nil {
				return fmt.Errorf("failed to write row %d: %w", row, err)
			}
			row++
		}
	}

	moneyStyle, err := f.NewStyle(&excelize.Style{NumFmt: 2})
	if err != nil {
		return fmt.Errorf("failed to create style: %w", err)
	}
	if row > 2 {
		if err := f.SetCellStyle(purchasesSheet, "F2", fmt.Sprintf("J%d", row-1), moneyStyle); err != nil {
			return fmt.Errorf("failed to style money columns: %w", err)
		}
	}

	_ = f.SetColWidth(purchasesSheet, "A", "A", 18)
	_ = f.SetColWidth(purchasesSheet, "B", "B", 38)
	_ = f.SetColWidth(purchasesSheet, "C", "D", 20)
	_ = f.SetColWidth(purchasesSheet, "E", "J", 14)
	_ = f.SetColWidth(purchasesSheet, "K", "K", 50)

	if err := f.Write(w); err != nil {
		return fmt.Errorf("failed to write workbook: %w", err)
	}
	return nil
}

var _ adapter.PurchaseExporter = (*XLSXExporter)(nil)
