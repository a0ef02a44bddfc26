package entity

// Customer is the billing recipient of a draft invoice
type Customer struct {
	Name    string   `json:"name"`
	Emails  []string `json:"emails"`
	Address string   `json:"address,omitempty"`
	ABN     string   `json:"abn,omitempty"`
}

// InvoiceMeta holds the header fields of a draft invoice.
// Dates are calendar dates in YYYY-MM-DD form.
type InvoiceMeta struct {
	InvoiceNumber    string `json:"invoice_number,omitempty"`
	InvoiceDate      string `json:"invoice_date"`
	DueDate          string `json:"due_date"`
	JobAddress       string `json:"job_address,omitempty"`
	GSTEnabled       bool   `json:"gst_enabled"`
	PricesIncludeGST bool   `json:"prices_include_gst"`
}

// LineItem is a single chargeable line on a draft invoice.
// UnitPrice is nil when the price is not yet known; a nil price is a
// distinct state, not zero, and blocks sending.
type LineItem struct {
	Description string   `json:"description"`
	Quantity    float64  `json:"quantity"`
	Unit        string   `json:"unit"`
	UnitPrice   *float64 `json:"unit_price"`
	ItemType    string   `json:"item_type"`
}

// LineTotal returns quantity * unit price and whether the line has a
// defined price at all.
func (li LineItem) LineTotal() (float64, bool) {
	if li.UnitPrice == nil {
		return 0, false
	}
	return li.Quantity * *li.UnitPrice, true
}

// InvoiceDraft is an invoice-in-progress. Totals are never stored on the
// draft; they are derived from the line items on every read.
type InvoiceDraft struct {
	Customer       Customer    `json:"customer"`
	Meta           InvoiceMeta `json:"invoice_meta"`
	LineItems      []LineItem  `json:"line_items"`
	Notes          string      `json:"notes,omitempty"`
	ChangesSummary []string    `json:"changes_summary"`
}

// Clone returns a deep copy of the draft. Mutating the copy never
// affects the original.
func (d InvoiceDraft) Clone() InvoiceDraft {
	out := d

	out.Customer.Emails = append([]string(nil), d.Customer.Emails...)

	out.LineItems = make([]LineItem, len(d.LineItems))
	for i, li := range d.LineItems {
		cp := li
		if li.UnitPrice != nil {
			price := *li.UnitPrice
			cp.UnitPrice = &price
		}
		out.LineItems[i] = cp
	}

	out.ChangesSummary = append([]string(nil), d.ChangesSummary...)
	return out
}

// NewDraft returns an empty draft with sane header defaults applied
func NewDraft(invoiceDate, dueDate string) InvoiceDraft {
	return InvoiceDraft{
		Customer: Customer{Name: DefaultCustomerName, Emails: []string{}},
		Meta: InvoiceMeta{
			InvoiceDate: invoiceDate,
			DueDate:     dueDate,
			GSTEnabled:  true,
		},
		LineItems:      []LineItem{},
		ChangesSummary: []string{},
	}
}

// NewLineItem returns the default line item appended by the editor:
// one "each" of unpriced labour.
func NewLineItem() LineItem {
	return LineItem{
		Description: "",
		Quantity:    1,
		Unit:        UnitEach,
		UnitPrice:   nil,
		ItemType:    ItemTypeLabour,
	}
}
