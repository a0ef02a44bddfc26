package repository

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/tradiefy/voice-invoicing/internal/domain/entity"
	"github.com/tradiefy/voice-invoicing/internal/draft"
	"github.com/tradiefy/voice-invoicing/pkg/database"
	"go.uber.org/zap"
)

// InvoiceRepository handles persisted invoice database operations
type InvoiceRepository struct {
	db     *database.DB
	logger *zap.Logger
}

// NewInvoiceRepository creates a new invoice repository
func NewInvoiceRepository(db *database.DB, logger *zap.Logger) *InvoiceRepository {
	return &InvoiceRepository{
		db:     db,
		logger: logger,
	}
}

// FormatInvoiceNumber builds the printed invoice number from a profile's
// prefix and sequence value, e.g. "INV-" + 7 -> "INV-0007".
func FormatInvoiceNumber(prefix string, n int) string {
	return fmt.Sprintf("%s%04d", prefix, n)
}

// SaveFromDraft persists a draft as an invoice, assigning the next
// number from the profile's sequence. The sequence read, the inserts
// and the sequence increment share one transaction.
//
// Saving is idempotent on the draft's UID: if a row for draftUID
// already exists (a retried save after a network failure), the existing
// invoice is returned and nothing is inserted.
func (r *InvoiceRepository) SaveFromDraft(profileID int64, draftUID string, d entity.InvoiceDraft, totals draft.Totals) (*entity.Invoice, error) {
	existing, err := r.GetByDraftUID(draftUID)
	if err == nil {
		r.logger.Info("Save retried for already persisted draft",
			zap.String("draft_uid", draftUID),
			zap.String("invoice_number", existing.InvoiceNumber))
		return existing, nil
	}
	if err != ErrNotFound {
		return nil, err
	}

	emails, err := json.Marshal(d.Customer.Emails)
	if err != nil {
		return nil, fmt.Errorf("failed to encode emails: %w", err)
	}

	var inv *entity.Invoice
	err = r.db.WithTransaction(func(tx *sql.Tx) error {
		var prefix string
		var next int
		err := tx.QueryRow(
			"SELECT invoice_prefix, next_invoice_number FROM profiles WHERE id = ?",
			profileID,
		).Scan(&prefix, &next)
		if err == sql.ErrNoRows {
			return ErrNotFound
		}
		if err != nil {
			return fmt.Errorf("failed to read invoice sequence: %w", err)
		}

		number := FormatInvoiceNumber(prefix, next)

		result, err := tx.Exec(`
			INSERT INTO invoices (
				draft_uid, profile_id, invoice_number, client_name, client_emails,
				invoice_date, due_date, job_address, gst_enabled, prices_include_gst,
				subtotal, gst_amount, total, notes, status
			) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			draftUID, profileID, number, d.Customer.Name, string(emails),
			d.Meta.InvoiceDate, d.Meta.DueDate, d.Meta.JobAddress,
			d.Meta.GSTEnabled, d.Meta.PricesIncludeGST,
			totals.Subtotal, totals.GSTAmount, totals.Total,
			d.Notes, entity.StatusSaved,
		)
		if err != nil {
			return fmt.Errorf("failed to insert invoice: %w", err)
		}

		invoiceID, err := result.LastInsertId()
		if err != nil {
			return fmt.Errorf("failed to get last insert id: %w", err)
		}

		for i, item := range d.LineItems {
			lineTotal, _ := item.LineTotal()
			_, err := tx.Exec(`
				INSERT INTO invoice_items (
					invoice_id, position, description, quantity, unit,
					unit_price, item_type, line_total
				) VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
				invoiceID, i, item.Description, item.Quantity, item.Unit,
				item.UnitPrice, item.ItemType, lineTotal,
			)
			if err != nil {
				return fmt.Errorf("failed to insert invoice item: %w", err)
			}
		}

		_, err = tx.Exec(
			"UPDATE profiles SET next_invoice_number = next_invoice_number + 1, updated_at = CURRENT_TIMESTAMP WHERE id = ?",
			profileID,
		)
		if err != nil {
			return fmt.Errorf("failed to advance invoice sequence: %w", err)
		}

		inv = &entity.Invoice{
			ID:               invoiceID,
			DraftUID:         draftUID,
			ProfileID:        profileID,
			InvoiceNumber:    number,
			ClientName:       d.Customer.Name,
			ClientEmails:     append([]string(nil), d.Customer.Emails...),
			InvoiceDate:      d.Meta.InvoiceDate,
			DueDate:          d.Meta.DueDate,
			JobAddress:       d.Meta.JobAddress,
			GSTEnabled:       d.Meta.GSTEnabled,
			PricesIncludeGST: d.Meta.PricesIncludeGST,
			Subtotal:         totals.Subtotal,
			GSTAmount:        totals.GSTAmount,
			Total:            totals.Total,
			Notes:            d.Notes,
			Status:           entity.StatusSaved,
		}
		return nil
	})
	if err != nil {
		// A racing retry can insert the row between the existence check
		// and this transaction; the UNIQUE draft_uid fails the loser's
		// insert, so the winner's row is the result either way.
		if existing, lookupErr := r.GetByDraftUID(draftUID); lookupErr == nil {
			return existing, nil
		}
		return nil, err
	}

	r.logger.Info("Invoice persisted",
		zap.String("invoice_number", inv.InvoiceNumber),
		zap.Int64("invoice_id", inv.ID))

	items, err := r.itemsFor(inv.ID)
	if err != nil {
		return nil, err
	}
	inv.Items = items
	return inv, nil
}

// GetByID retrieves an invoice and its items
func (r *InvoiceRepository) GetByID(id int64) (*entity.Invoice, error) {
	return r.getOne("id = ?", id)
}

// GetByDraftUID retrieves the invoice persisted from a draft session
func (r *InvoiceRepository) GetByDraftUID(draftUID string) (*entity.Invoice, error) {
	return r.getOne("draft_uid = ?", draftUID)
}

func (r *InvoiceRepository) getOne(where string, arg interface{}) (*entity.Invoice, error) {
	query := `
		SELECT id, draft_uid, profile_id, invoice_number, client_name, client_emails,
			invoice_date, due_date, job_address, gst_enabled, prices_include_gst,
			subtotal, gst_amount, total, notes, status, pdf_path, sent_at, created_at
		FROM invoices
		WHERE ` + where

	var inv entity.Invoice
	var emails string
	var pdfPath sql.NullString
	var sentAt sql.NullTime

	err := r.db.QueryRow(query, arg).Scan(
		&inv.ID, &inv.DraftUID, &inv.ProfileID, &inv.InvoiceNumber,
		&inv.ClientName, &emails,
		&inv.InvoiceDate, &inv.DueDate, &inv.JobAddress,
		&inv.GSTEnabled, &inv.PricesIncludeGST,
		&inv.Subtotal, &inv.GSTAmount, &inv.Total,
		&inv.Notes, &inv.Status, &pdfPath, &sentAt, &inv.CreatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		r.logger.Error("Failed to get invoice", zap.Error(err))
		return nil, fmt.Errorf("failed to get invoice: %w", err)
	}

	if err := json.Unmarshal([]byte(emails), &inv.ClientEmails); err != nil {
		return nil, fmt.Errorf("failed to decode emails: %w", err)
	}
	inv.PDFPath = pdfPath.String
	if sentAt.Valid {
		t := sentAt.Time
		inv.SentAt = &t
	}

	items, err := r.itemsFor(inv.ID)
	if err != nil {
		return nil, err
	}
	inv.Items = items
	return &inv, nil
}

// List returns every invoice for a profile, newest first, without items
func (r *InvoiceRepository) List(profileID int64) ([]entity.Invoice, error) {
	query := `
		SELECT id, draft_uid, profile_id, invoice_number, client_name, client_emails,
			invoice_date, due_date, job_address, gst_enabled, prices_include_gst,
			subtotal, gst_amount, total, notes, status, pdf_path, sent_at, created_at
		FROM invoices
		WHERE profile_id = ?
		ORDER BY id DESC
	`

	rows, err := r.db.Query(query, profileID)
	if err != nil {
		r.logger.Error("Failed to list invoices", zap.Error(err))
		return nil, fmt.Errorf("failed to list invoices: %w", err)
	}
	defer rows.Close()

	var invoices []entity.Invoice
	for rows.Next() {
		var inv entity.Invoice
		var emails string
		var pdfPath sql.NullString
		var sentAt sql.NullTime

		if err := rows.Scan(
			&inv.ID, &inv.DraftUID, &inv.ProfileID, &inv.InvoiceNumber,
			&inv.ClientName, &emails,
			&inv.InvoiceDate, &inv.DueDate, &inv.JobAddress,
			&inv.GSTEnabled, &inv.PricesIncludeGST,
			&inv.Subtotal, &inv.GSTAmount, &inv.Total,
			&inv.Notes, &inv.Status, &pdfPath, &sentAt, &inv.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan invoice: %w", err)
		}
		if err := json.Unmarshal([]byte(emails), &inv.ClientEmails); err != nil {
			return nil, fmt.Errorf("failed to decode emails: %w", err)
		}
		inv.PDFPath = pdfPath.String
		if sentAt.Valid {
			t := sentAt.Time
			inv.SentAt = &t
		}
		invoices = append(invoices, inv)
	}
	return invoices, rows.Err()
}

// MarkSent transitions an invoice to sent. Called only after the email
// dispatch succeeded; an email failure leaves the invoice saved.
func (r *InvoiceRepository) MarkSent(id int64, pdfPath string, sentAt time.Time) error {
	result, err := r.db.Exec(
		"UPDATE invoices SET status = ?, pdf_path = ?, sent_at = ? WHERE id = ?",
		entity.StatusSent, pdfPath, sentAt, id,
	)
	if err != nil {
		r.logger.Error("Failed to mark invoice sent", zap.Int64("id", id), zap.Error(err))
		return fmt.Errorf("failed to mark invoice sent: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get affected rows: %w", err)
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *InvoiceRepository) itemsFor(invoiceID int64) ([]entity.InvoiceItem, error) {
	query := `
		SELECT id, invoice_id, position, description, quantity, unit,
			unit_price, item_type, line_total
		FROM invoice_items
		WHERE invoice_id = ?
		ORDER BY position
	`

	rows, err := r.db.Query(query, invoiceID)
	if err != nil {
		return nil, fmt.Errorf("failed to list invoice items: %w", err)
	}
	defer rows.Close()

	var items []entity.InvoiceItem
	for rows.Next() {
		var item entity.InvoiceItem
		var unitPrice sql.NullFloat64
		if err := rows.Scan(
			&item.ID, &item.InvoiceID, &item.Position, &item.Description,
			&item.Quantity, &item.Unit, &unitPrice, &item.ItemType, &item.LineTotal,
		); err != nil {
			return nil, fmt.Errorf("failed to scan invoice item: %w", err)
		}
		if unitPrice.Valid {
			p := unitPrice.Float64
			item.UnitPrice = &p
		}
		items = append(items, item)
	}
	return items, rows.Err()
}
