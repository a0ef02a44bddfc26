package entity

import "time"

// Invoice is a persisted invoice row. Created from a draft on save; its
// number comes from the owning profile's sequence and never changes.
type Invoice struct {
	ID               int64         `json:"id"`
	DraftUID         string        `json:"draft_uid"`
	ProfileID        int64         `json:"profile_id"`
	InvoiceNumber    string        `json:"invoice_number"`
	ClientName       string        `json:"client_name"`
	ClientEmails     []string      `json:"client_emails"`
	InvoiceDate      string        `json:"invoice_date"`
	DueDate          string        `json:"due_date"`
	JobAddress       string        `json:"job_address,omitempty"`
	GSTEnabled       bool          `json:"gst_enabled"`
	PricesIncludeGST bool          `json:"prices_include_gst"`
	Subtotal         float64       `json:"subtotal"`
	GSTAmount        float64       `json:"gst_amount"`
	Total            float64       `json:"total"`
	Notes            string        `json:"notes,omitempty"`
	Status           string        `json:"status"`
	PDFPath          string        `json:"pdf_path,omitempty"`
	SentAt           *time.Time    `json:"sent_at,omitempty"`
	CreatedAt        time.Time     `json:"created_at"`
	Items            []InvoiceItem `json:"items"`
}

// InvoiceItem is a persisted line item row
type InvoiceItem struct {
	ID          int64    `json:"id"`
	InvoiceID   int64    `json:"invoice_id"`
	Position    int      `json:"position"`
	Description string   `json:"description"`
	Quantity    float64  `json:"quantity"`
	Unit        string   `json:"unit"`
	UnitPrice   *float64 `json:"unit_price"`
	ItemType    string   `json:"item_type"`
	LineTotal   float64  `json:"line_total"`
}

// Photo is an uploaded job photo attached to a draft session
type Photo struct {
	ID           int64     `json:"id"`
	DraftUID     string    `json:"draft_uid"`
	Ref          string    `json:"ref"`
	OriginalName string    `json:"original_name"`
	ContentType  string    `json:"content_type"`
	SizeBytes    int64     `json:"size_bytes"`
	CreatedAt    time.Time `json:"created_at"`
}
