package pdf

import (
	"bytes"
	"fmt"

	"github.com/jung-kurt/gofpdf"
	"github.com/tradiefy/voice-invoicing/internal/domain/entity"
	"go.uber.org/zap"
)

// Renderer produces the customer-facing invoice PDF. Monetary figures
// come from the persisted invoice row, which was computed by the totals
// calculator, so the PDF can never disagree with the editor or the
// email summary.
type Renderer struct {
	logger *zap.Logger
}

// NewRenderer creates a new PDF renderer
func NewRenderer(logger *zap.Logger) *Renderer {
	return &Renderer{logger: logger}
}

// Render lays out an A4 invoice and returns the PDF bytes
func (r *Renderer) Render(profile *entity.Profile, inv *entity.Invoice) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(15, 15, 15)
	pdf.AddPage()

	// Business header
	pdf.SetFont("Arial", "B", 18)
	pdf.Cell(120, 10, profile.Name)
	pdf.SetFont("Arial", "B", 16)
	pdf.CellFormat(0, 10, "TAX INVOICE", "", 1, "R", false, 0, "")

	pdf.SetFont("Arial", "", 9)
	if profile.ABN != "" {
		pdf.CellFormat(0, 5, "ABN: "+profile.ABN, "", 1, "", false, 0, "")
	}
	if profile.Address != "" {
		pdf.CellFormat(0, 5, profile.Address, "", 1, "", false, 0, "")
	}
	if profile.Phone != "" {
		pdf.CellFormat(0, 5, profile.Phone, "", 1, "", false, 0, "")
	}
	pdf.Ln(4)

	// Invoice metadata and bill-to block
	pdf.SetFont("Arial", "B", 10)
	pdf.CellFormat(95, 6, "Bill To", "", 0, "", false, 0, "")
	pdf.CellFormat(45, 6, "Invoice Number", "", 0, "", false, 0, "")
	pdf.CellFormat(0, 6, inv.InvoiceNumber, "", 1, "R", false, 0, "")

	pdf.SetFont("Arial", "", 10)
	pdf.CellFormat(95, 6, inv.ClientName, "", 0, "", false, 0, "")
	pdf.CellFormat(45, 6, "Invoice Date", "", 0, "", false, 0, "")
	pdf.CellFormat(0, 6, inv.InvoiceDate, "", 1, "R", false, 0, "")

	addressLine := inv.JobAddress
	pdf.CellFormat(95, 6, addressLine, "", 0, "", false, 0, "")
	pdf.CellFormat(45, 6, "Due Date", "", 0, "", false, 0, "")
	pdf.CellFormat(0, 6, inv.DueDate, "", 1, "R", false, 0, "")
	pdf.Ln(6)

	// Line item table
	pdf.SetFont("Arial", "B", 9)
	pdf.SetFillColor(235, 235, 235)
	pdf.CellFormat(85, 7, "Description", "1", 0, "", true, 0, "")
	pdf.CellFormat(20, 7, "Qty", "1", 0, "R", true, 0, "")
	pdf.CellFormat(15, 7, "Unit", "1", 0, "C", true, 0, "")
	pdf.CellFormat(30, 7, "Unit Price", "1", 0, "R", true, 0, "")
	pdf.CellFormat(30, 7, "Amount", "1", 1, "R", true, 0, "")

	pdf.SetFont("Arial", "", 9)
	for _, item := range inv.Items {
		price := ""
		if item.UnitPrice != nil {
			price = fmt.Sprintf("$%.2f", *item.UnitPrice)
		}
		pdf.CellFormat(85, 7, item.Description, "1", 0, "", false, 0, "")
		pdf.CellFormat(20, 7, fmt.Sprintf("%g", item.Quantity), "1", 0, "R", false, 0, "")
		pdf.CellFormat(15, 7, item.Unit, "1", 0, "C", false, 0, "")
		pdf.CellFormat(30, 7, price, "1", 0, "R", false, 0, "")
		pdf.CellFormat(30, 7, fmt.Sprintf("$%.2f", item.LineTotal), "1", 1, "R", false, 0, "")
	}
	pdf.Ln(3)

	// Totals block. Inclusive pricing shows GST as a component of the
	// total instead of an addition to the subtotal.
	r.renderTotals(pdf, inv)

	// Payment details
	pdf.Ln(8)
	if profile.BankBSB != "" || profile.BankAccount != "" {
		pdf.SetFont("Arial", "B", 10)
		pdf.CellFormat(0, 6, "Payment Details", "", 1, "", false, 0, "")
		pdf.SetFont("Arial", "", 9)
		if profile.BankBSB != "" {
			pdf.CellFormat(0, 5, "BSB: "+profile.BankBSB, "", 1, "", false, 0, "")
		}
		if profile.BankAccount != "" {
			pdf.CellFormat(0, 5, "Account: "+profile.BankAccount, "", 1, "", false, 0, "")
		}
	}

	if inv.Notes != "" {
		pdf.Ln(4)
		pdf.SetFont("Arial", "B", 10)
		pdf.CellFormat(0, 6, "Notes", "", 1, "", false, 0, "")
		pdf.SetFont("Arial", "", 9)
		pdf.MultiCell(0, 5, inv.Notes, "", "", false)
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		r.logger.Error("Failed to render invoice PDF",
			zap.String("invoice_number", inv.InvoiceNumber),
			zap.Error(err))
		return nil, fmt.Errorf("failed to render PDF: %w", err)
	}

	r.logger.Info("Invoice PDF rendered",
		zap.String("invoice_number", inv.InvoiceNumber),
		zap.Int("size_bytes", buf.Len()))

	return buf.Bytes(), nil
}

func (r *Renderer) renderTotals(pdf *gofpdf.Fpdf, inv *entity.Invoice) {
	label := func(text, value string, bold bool) {
		style := ""
		if bold {
			style = "B"
		}
		pdf.SetFont("Arial", style, 10)
		pdf.CellFormat(120, 6, "", "", 0, "", false, 0, "")
		pdf.CellFormat(35, 6, text, "", 0, "R", false, 0, "")
		pdf.CellFormat(0, 6, value, "", 1, "R", false, 0, "")
	}

	switch {
	case !inv.GSTEnabled:
		label("Subtotal", fmt.Sprintf("$%.2f", inv.Subtotal), false)
		label("Total", fmt.Sprintf("$%.2f", inv.Total), true)
	case inv.PricesIncludeGST:
		label("Total", fmt.Sprintf("$%.2f", inv.Total), true)
		label("Includes GST", fmt.Sprintf("$%.2f", inv.GSTAmount), false)
	default:
		label("Subtotal", fmt.Sprintf("$%.2f", inv.Subtotal), false)
		label("GST (10%)", fmt.Sprintf("$%.2f", inv.GSTAmount), false)
		label("Total", fmt.Sprintf("$%.2f", inv.Total), true)
	}
}
