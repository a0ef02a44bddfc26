package entity

import "time"

// Profile is the tradie's business identity printed on invoices.
// InvoicePrefix + NextInvoiceNumber drive the per-profile invoice
// number sequence.
type Profile struct {
	ID                int64     `json:"id"`
	Name              string    `json:"name"`
	ABN               string    `json:"abn,omitempty"`
	Address           string    `json:"address,omitempty"`
	Email             string    `json:"email,omitempty"`
	Phone             string    `json:"phone,omitempty"`
	BankBSB           string    `json:"bank_bsb,omitempty"`
	BankAccount       string    `json:"bank_account,omitempty"`
	InvoicePrefix     string    `json:"invoice_prefix"`
	NextInvoiceNumber int       `json:"next_invoice_number"`
	GSTEnabled        bool      `json:"gst_enabled"`
	DefaultHourlyRate float64   `json:"default_hourly_rate,omitempty"`
	LogoRef           string    `json:"logo_ref,omitempty"`
	CreatedAt         time.Time `json:"created_at"`
	UpdatedAt         time.Time `json:"updated_at"`
}
