package ai

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/tradiefy/voice-invoicing/internal/domain/entity"
)

// wireDraft mirrors the draft schema with pointer booleans so an
// omitted flag can be told apart from an explicit false.
type wireDraft struct {
	Customer       entity.Customer   `json:"customer"`
	Meta           wireMeta          `json:"invoice_meta"`
	LineItems      []entity.LineItem `json:"line_items"`
	Notes          string            `json:"notes"`
	ChangesSummary []string          `json:"changes_summary"`
}

type wireMeta struct {
	InvoiceNumber    string `json:"invoice_number"`
	InvoiceDate      string `json:"invoice_date"`
	DueDate          string `json:"due_date"`
	JobAddress       string `json:"job_address"`
	GSTEnabled       *bool  `json:"gst_enabled"`
	PricesIncludeGST *bool  `json:"prices_include_gst"`
}

// DecodeDraft parses a model response into a draft with strict schema
// enforcement: unknown fields are rejected, not ignored, so the
// non-destructive-merge contract is re-validated here instead of being
// trusted to the model.
//
// base supplies the values omitted flags fall back to. For a fresh
// draft base is nil and GST defaults to enabled with exclusive pricing;
// for a correction base is the current draft, so an omitted flag is
// preserved rather than reset.
func DecodeDraft(data []byte, base *entity.InvoiceDraft) (entity.InvoiceDraft, error) {
	var w wireDraft

	dec := json.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&w); err != nil {
		return entity.InvoiceDraft{}, fmt.Errorf("%w: %v", ErrSchemaViolation, err)
	}

	d := entity.InvoiceDraft{
		Customer: w.Customer,
		Meta: entity.InvoiceMeta{
			InvoiceNumber: w.Meta.InvoiceNumber,
			InvoiceDate:   w.Meta.InvoiceDate,
			DueDate:       w.Meta.DueDate,
			JobAddress:    w.Meta.JobAddress,
		},
		LineItems:      w.LineItems,
		Notes:          w.Notes,
		ChangesSummary: w.ChangesSummary,
	}

	switch {
	case w.Meta.GSTEnabled != nil:
		d.Meta.GSTEnabled = *w.Meta.GSTEnabled
	case base != nil:
		d.Meta.GSTEnabled = base.Meta.GSTEnabled
	default:
		d.Meta.GSTEnabled = true
	}

	switch {
	case w.Meta.PricesIncludeGST != nil:
		d.Meta.PricesIncludeGST = *w.Meta.PricesIncludeGST
	case base != nil:
		d.Meta.PricesIncludeGST = base.Meta.PricesIncludeGST
	}

	if err := validateDraft(&d); err != nil {
		return entity.InvoiceDraft{}, fmt.Errorf("%w: %v", ErrSchemaViolation, err)
	}

	normalizeDraft(&d)
	return d, nil
}

func validateDraft(d *entity.InvoiceDraft) error {
	for i, item := range d.LineItems {
		if strings.TrimSpace(item.Description) == "" {
			return fmt.Errorf("line item %d has an empty description", i)
		}
		if item.Quantity < 0 {
			return fmt.Errorf("line item %d has a negative quantity", i)
		}
		if item.Unit != "" && !entity.IsValidUnit(item.Unit) {
			return fmt.Errorf("line item %d has unknown unit %q", i, item.Unit)
		}
		if item.ItemType != "" && !entity.IsValidItemType(item.ItemType) {
			return fmt.Errorf("line item %d has unknown item type %q", i, item.ItemType)
		}
		if item.UnitPrice != nil && *item.UnitPrice < 0 {
			return fmt.Errorf("line item %d has a negative unit price", i)
		}
	}

	for _, field := range []struct{ name, value string }{
		{"invoice_date", d.Meta.InvoiceDate},
		{"due_date", d.Meta.DueDate},
	} {
		if field.value == "" {
			continue
		}
		if _, err := time.Parse("2006-01-02", field.value); err != nil {
			return fmt.Errorf("%s %q is not a calendar date", field.name, field.value)
		}
	}

	return nil
}

// normalizeDraft applies the fallbacks the schema allows: default
// customer name, non-nil slices and a default unit. Item types are left
// for the classification policy, which callers apply after decoding.
func normalizeDraft(d *entity.InvoiceDraft) {
	if strings.TrimSpace(d.Customer.Name) == "" {
		d.Customer.Name = entity.DefaultCustomerName
	}
	if d.Customer.Emails == nil {
		d.Customer.Emails = []string{}
	}
	if d.LineItems == nil {
		d.LineItems = []entity.LineItem{}
	}
	if d.ChangesSummary == nil {
		d.ChangesSummary = []string{}
	}
	for i := range d.LineItems {
		if d.LineItems[i].Unit == "" {
			d.LineItems[i].Unit = entity.UnitEach
		}
	}
}
