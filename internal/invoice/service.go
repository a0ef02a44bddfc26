package invoice

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/tradiefy/voice-invoicing/internal/domain/entity"
	"github.com/tradiefy/voice-invoicing/internal/draft"
	"github.com/tradiefy/voice-invoicing/internal/reminders"
	"go.uber.org/zap"
)

var (
	// ErrMissingPrices blocks sending while any line item is unpriced
	ErrMissingPrices = errors.New("draft has line items without a price")

	// ErrNoRecipients blocks sending while the customer has no email
	ErrNoRecipients = errors.New("draft has no recipient email")
)

// Store is the persistence dependency of the service
type Store interface {
	SaveFromDraft(profileID int64, draftUID string, d entity.InvoiceDraft, totals draft.Totals) (*entity.Invoice, error)
	GetByDraftUID(draftUID string) (*entity.Invoice, error)
	MarkSent(id int64, pdfPath string, sentAt time.Time) error
}

// ProfileStore resolves the business profile an invoice belongs to
type ProfileStore interface {
	GetByID(id int64) (*entity.Profile, error)
}

// Renderer produces the invoice PDF
type Renderer interface {
	Render(profile *entity.Profile, inv *entity.Invoice) ([]byte, error)
}

// Mailer dispatches the invoice email
type Mailer interface {
	SendInvoice(ctx context.Context, profile *entity.Profile, inv *entity.Invoice, pdfContent []byte) error
}

// Service owns the save and send flows. Sending is two-phase: the
// invoice row is persisted first, then the PDF is rendered and emailed,
// and the status moves to sent only after the email call succeeds. An
// email failure leaves a saved invoice that a retry picks up by its
// draft UID instead of inserting a duplicate.
type Service struct {
	store     Store
	profiles  ProfileStore
	renderer  Renderer
	mailer    Mailer
	reminders reminders.Scheduler
	pdfDir    string
	logger    *zap.Logger
}

// NewService creates a new invoice service
func NewService(
	store Store,
	profiles ProfileStore,
	renderer Renderer,
	mailer Mailer,
	scheduler reminders.Scheduler,
	pdfDir string,
	logger *zap.Logger,
) *Service {
	return &Service{
		store:     store,
		profiles:  profiles,
		renderer:  renderer,
		mailer:    mailer,
		reminders: scheduler,
		pdfDir:    pdfDir,
		logger:    logger,
	}
}

// Save persists a draft under the given profile. Missing prices do not
// block saving; they only gate sending.
func (s *Service) Save(profileID int64, draftUID string, d entity.InvoiceDraft) (*entity.Invoice, error) {
	if _, err := s.profiles.GetByID(profileID); err != nil {
		return nil, err
	}

	totals := draft.ComputeTotals(d.LineItems, d.Meta.GSTEnabled, d.Meta.PricesIncludeGST)
	return s.store.SaveFromDraft(profileID, draftUID, d, totals)
}

// Send persists the draft if needed, renders the PDF and emails it.
// The invoice transitions to sent only after the email succeeds.
func (s *Service) Send(ctx context.Context, profileID int64, draftUID string, d entity.InvoiceDraft) (*entity.Invoice, error) {
	totals := draft.ComputeTotals(d.LineItems, d.Meta.GSTEnabled, d.Meta.PricesIncludeGST)
	if totals.HasMissingPrices {
		return nil, ErrMissingPrices
	}
	if len(d.Customer.Emails) == 0 {
		return nil, ErrNoRecipients
	}

	profile, err := s.profiles.GetByID(profileID)
	if err != nil {
		return nil, err
	}

	inv, err := s.store.SaveFromDraft(profileID, draftUID, d, totals)
	if err != nil {
		return nil, err
	}

	if inv.Status == entity.StatusSent {
		s.logger.Info("Invoice already sent, skipping dispatch",
			zap.String("invoice_number", inv.InvoiceNumber))
		return inv, nil
	}

	pdfContent, err := s.renderer.Render(profile, inv)
	if err != nil {
		return nil, fmt.Errorf("failed to render invoice: %w", err)
	}

	pdfPath, err := s.writePDF(inv.InvoiceNumber, pdfContent)
	if err != nil {
		return nil, err
	}

	if err := s.mailer.SendInvoice(ctx, profile, inv, pdfContent); err != nil {
		// The invoice stays saved; a retried send reuses the same row.
		return nil, fmt.Errorf("failed to email invoice: %w", err)
	}

	sentAt := time.Now()
	if err := s.store.MarkSent(inv.ID, pdfPath, sentAt); err != nil {
		return nil, err
	}
	inv.Status = entity.StatusSent
	inv.PDFPath = pdfPath
	inv.SentAt = &sentAt

	s.scheduleReminder(inv)

	s.logger.Info("Invoice sent",
		zap.String("invoice_number", inv.InvoiceNumber),
		zap.Strings("recipients", inv.ClientEmails))

	return inv, nil
}

func (s *Service) writePDF(invoiceNumber string, content []byte) (string, error) {
	if err := os.MkdirAll(s.pdfDir, 0755); err != nil {
		return "", fmt.Errorf("failed to create pdf directory: %w", err)
	}
	path := filepath.Join(s.pdfDir, fmt.Sprintf("invoice-%s.pdf", invoiceNumber))
	if err := os.WriteFile(path, content, 0644); err != nil {
		return "", fmt.Errorf("failed to write pdf: %w", err)
	}
	return path, nil
}

// scheduleReminder requests a payment reminder where the capability
// exists. Unsupported is a normal outcome, not a failure.
func (s *Service) scheduleReminder(inv *entity.Invoice) {
	due, err := time.Parse("2006-01-02", inv.DueDate)
	if err != nil {
		return
	}
	if err := s.reminders.ScheduleDueReminder(inv.ID, due); err != nil {
		if !errors.Is(err, reminders.ErrUnsupported) {
			s.logger.Warn("Failed to schedule payment reminder",
				zap.Int64("invoice_id", inv.ID),
				zap.Error(err))
		}
	}
}
