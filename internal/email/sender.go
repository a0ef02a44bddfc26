package email

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/tradiefy/voice-invoicing/internal/domain/entity"
	"go.uber.org/zap"
)

// Config holds transactional email provider settings
type Config struct {
	APIURL    string
	APIKey    string
	FromName  string
	FromEmail string
	Timeout   time.Duration
}

// Sender dispatches invoices through a transactional email HTTP API.
// The provider reports success or failure for the whole message; there
// are no partial-send semantics.
type Sender struct {
	cfg        Config
	httpClient *http.Client
	logger     *zap.Logger
}

// NewSender creates a new email sender
func NewSender(cfg Config, logger *zap.Logger) *Sender {
	return &Sender{
		cfg: cfg,
		httpClient: &http.Client{
			Timeout: cfg.Timeout,
		},
		logger: logger,
	}
}

type attachment struct {
	Filename string `json:"filename"`
	Content  string `json:"content"`
}

type message struct {
	From        string       `json:"from"`
	To          []string     `json:"to"`
	Subject     string       `json:"subject"`
	Text        string       `json:"text"`
	Attachments []attachment `json:"attachments,omitempty"`
}

// SendInvoice emails the rendered PDF plus a plain-text summary to
// every recipient on the invoice.
func (s *Sender) SendInvoice(ctx context.Context, profile *entity.Profile, inv *entity.Invoice, pdfContent []byte) error {
	if len(inv.ClientEmails) == 0 {
		return fmt.Errorf("invoice %s has no recipient emails", inv.InvoiceNumber)
	}

	s.logger.Info("Sending invoice email",
		zap.String("invoice_number", inv.InvoiceNumber),
		zap.Strings("recipients", inv.ClientEmails))

	msg := message{
		From:    fmt.Sprintf("%s <%s>", s.cfg.FromName, s.cfg.FromEmail),
		To:      inv.ClientEmails,
		Subject: fmt.Sprintf("Invoice %s from %s", inv.InvoiceNumber, profile.Name),
		Text:    BuildBody(profile, inv),
		Attachments: []attachment{
			{
				Filename: fmt.Sprintf("invoice-%s.pdf", inv.InvoiceNumber),
				Content:  base64.StdEncoding.EncodeToString(pdfContent),
			},
		},
	}

	payload, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("failed to encode email payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.cfg.APIURL, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("failed to build email request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+s.cfg.APIKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		s.logger.Error("Email dispatch failed",
			zap.String("invoice_number", inv.InvoiceNumber),
			zap.Error(err))
		return fmt.Errorf("failed to send email: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		s.logger.Error("Email provider rejected message",
			zap.String("invoice_number", inv.InvoiceNumber),
			zap.Int("status", resp.StatusCode),
			zap.ByteString("body", body))
		return fmt.Errorf("email provider returned status %d", resp.StatusCode)
	}

	s.logger.Info("Invoice email sent",
		zap.String("invoice_number", inv.InvoiceNumber))

	return nil
}

// BuildBody builds the plain-text summary accompanying the PDF. It uses
// the same persisted totals as the PDF and the editor.
func BuildBody(profile *entity.Profile, inv *entity.Invoice) string {
	var b strings.Builder

	fmt.Fprintf(&b, "Hi %s,\n\n", inv.ClientName)
	fmt.Fprintf(&b, "Please find attached invoice %s from %s.\n\n", inv.InvoiceNumber, profile.Name)

	for _, item := range inv.Items {
		price := "price TBC"
		if item.UnitPrice != nil {
			price = fmt.Sprintf("$%.2f", item.LineTotal)
		}
		fmt.Fprintf(&b, "  - %s (%g %s): %s\n", item.Description, item.Quantity, item.Unit, price)
	}
	b.WriteString("\n")

	switch {
	case !inv.GSTEnabled:
		fmt.Fprintf(&b, "Total: $%.2f\n", inv.Total)
	case inv.PricesIncludeGST:
		fmt.Fprintf(&b, "Total: $%.2f (includes $%.2f GST)\n", inv.Total, inv.GSTAmount)
	default:
		fmt.Fprintf(&b, "Subtotal: $%.2f\nGST: $%.2f\nTotal: $%.2f\n", inv.Subtotal, inv.GSTAmount, inv.Total)
	}

	fmt.Fprintf(&b, "\nPayment is due by %s.\n", inv.DueDate)

	if profile.BankBSB != "" && profile.BankAccount != "" {
		fmt.Fprintf(&b, "\nPay by bank transfer:\nBSB: %s\nAccount: %s\n", profile.BankBSB, profile.BankAccount)
	}

	fmt.Fprintf(&b, "\nThanks,\n%s\n", profile.Name)
	return b.String()
}
