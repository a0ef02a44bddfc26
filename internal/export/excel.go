package export

import (
	"fmt"

	"github.com/tradiefy/voice-invoicing/internal/domain/entity"
	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"
)

var columns = []string{
	"Invoice Number", "Client", "Invoice Date", "Due Date",
	"Subtotal", "GST", "Total", "Status", "Sent At",
}

// Exporter builds spreadsheet reports of persisted invoices
type Exporter struct {
	logger *zap.Logger
}

// NewExporter creates a new exporter
func NewExporter(logger *zap.Logger) *Exporter {
	return &Exporter{logger: logger}
}

// BuildWorkbook builds an XLSX workbook listing the given invoices.
// The caller owns closing the returned file.
func (e *Exporter) BuildWorkbook(invoices []entity.Invoice) (*excelize.File, error) {
	f := excelize.NewFile()
	sheet := "Invoices"

	if err := f.SetSheetName("Sheet1", sheet); err != nil {
		return nil, fmt.Errorf("failed to name sheet: %w", err)
	}

	for i, col := range columns {
		cell, err := excelize.CoordinatesToCellName(i+1, 1)
		if err != nil {
			return nil, fmt.Errorf("failed to address header cell: %w", err)
		}
		if err := f.SetCellValue(sheet, cell, col); err != nil {
			return nil, fmt.Errorf("failed to write header: %w", err)
		}
	}

	for row, inv := range invoices {
		sentAt := ""
		if inv.SentAt != nil {
			sentAt = inv.SentAt.Format("2006-01-02 15:04")
		}
		values := []interface{}{
			inv.InvoiceNumber, inv.ClientName, inv.InvoiceDate, inv.DueDate,
			inv.Subtotal, inv.GSTAmount, inv.Total, inv.Status, sentAt,
		}
		for col, v := range values {
			cell, err := excelize.CoordinatesToCellName(col+1, row+2)
			if err != nil {
				return nil, fmt.Errorf("failed to address cell: %w", err)
			}
			if err := f.SetCellValue(sheet, cell, v); err != nil {
				return nil, fmt.Errorf("failed to write cell: %w", err)
			}
		}
	}

	e.logger.Info("Invoice workbook built", zap.Int("rows", len(invoices)))
	return f, nil
}
