package export

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tradiefy/voice-invoicing/internal/domain/entity"
	"go.uber.org/zap"
)

func TestBuildWorkbook(t *testing.T) {
	sentAt := time.Date(2026, 8, 28, 14, 30, 0, 0, time.UTC)
	invoices := []entity.Invoice{
		{
			InvoiceNumber: "INV-0001",
			ClientName:    "Sarah",
			InvoiceDate:   "2026-08-28",
			DueDate:       "2026-09-11",
			Subtotal:      180,
			GSTAmount:     18,
			Total:         198,
			Status:        entity.StatusSent,
			SentAt:        &sentAt,
		},
		{
			InvoiceNumber: "INV-0002",
			ClientName:    "Mick",
			InvoiceDate:   "2026-08-28",
			DueDate:       "2026-09-11",
			Total:         90,
			Status:        entity.StatusSaved,
		},
	}

	f, err := NewExporter(zap.NewNop()).BuildWorkbook(invoices)
	require.NoError(t, err)
	defer f.Close()

	header, err := f.GetCellValue("Invoices", "A1")
	require.NoError(t, err)
	assert.Equal(t, "Invoice Number", header)

	number, err := f.GetCellValue("Invoices", "A2")
	require.NoError(t, err)
	assert.Equal(t, "INV-0001", number)

	status, err := f.GetCellValue("Invoices", "H3")
	require.NoError(t, err)
	assert.Equal(t, "saved", status)

	sent, err := f.GetCellValue("Invoices", "I2")
	require.NoError(t, err)
	assert.Equal(t, "2026-08-28 14:30", sent)
}

func TestBuildWorkbookEmpty(t *testing.T) {
	f, err := NewExporter(zap.NewNop()).BuildWorkbook(nil)
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows("Invoices")
	require.NoError(t, err)
	assert.Len(t, rows, 1, "header only")
}
