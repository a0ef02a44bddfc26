package ai

import (
	"fmt"
	"strings"

	"github.com/tradiefy/voice-invoicing/internal/domain/entity"
)

// DraftDiff is a field-level comparison of two drafts. Entries are
// human-readable, one per changed field, in the same register the model
// is asked to use for its own change summaries.
type DraftDiff struct {
	Entries           []string
	ItemCountChanged  bool
	PricesChanged     bool
	QuantitiesChanged bool
}

// DiffDrafts compares two drafts field by field
func DiffDrafts(before, after entity.InvoiceDraft) DraftDiff {
	var d DraftDiff

	d.compareCustomer(before.Customer, after.Customer)
	d.compareMeta(before.Meta, after.Meta)
	d.compareItems(before.LineItems, after.LineItems)

	if before.Notes != after.Notes {
		d.add("Updated notes")
	}

	return d
}

func (d *DraftDiff) add(entry string) {
	d.Entries = append(d.Entries, entry)
}

func (d *DraftDiff) compareCustomer(before, after entity.Customer) {
	if before.Name != after.Name {
		d.add(fmt.Sprintf("Changed customer name from %q to %q", before.Name, after.Name))
	}
	if strings.Join(before.Emails, ",") != strings.Join(after.Emails, ",") {
		d.add(fmt.Sprintf("Changed customer email to %s", strings.Join(after.Emails, ", ")))
	}
	if before.Address != after.Address {
		d.add("Changed customer address")
	}
	if before.ABN != after.ABN {
		d.add("Changed customer ABN")
	}
}

func (d *DraftDiff) compareMeta(before, after entity.InvoiceMeta) {
	if before.InvoiceDate != after.InvoiceDate {
		d.add(fmt.Sprintf("Changed invoice date from %s to %s", before.InvoiceDate, after.InvoiceDate))
	}
	if before.DueDate != after.DueDate {
		d.add(fmt.Sprintf("Changed due date from %s to %s", before.DueDate, after.DueDate))
	}
	if before.JobAddress != after.JobAddress {
		d.add("Changed job address")
	}
	if before.GSTEnabled != after.GSTEnabled {
		if after.GSTEnabled {
			d.add("Enabled GST")
		} else {
			d.add("Disabled GST")
		}
	}
	if before.PricesIncludeGST != after.PricesIncludeGST {
		if after.PricesIncludeGST {
			d.add("Marked prices as GST inclusive")
		} else {
			d.add("Marked prices as GST exclusive")
		}
	}
}

func (d *DraftDiff) compareItems(before, after []entity.LineItem) {
	if len(before) != len(after) {
		d.ItemCountChanged = true
		if len(after) > len(before) {
			d.add(fmt.Sprintf("Added %d line item(s)", len(after)-len(before)))
		} else {
			d.add(fmt.Sprintf("Removed %d line item(s)", len(before)-len(after)))
		}
	}

	n := len(before)
	if len(after) < n {
		n = len(after)
	}

	for i := 0; i < n; i++ {
		b, a := before[i], after[i]
		label := b.Description
		if label == "" {
			label = fmt.Sprintf("item %d", i+1)
		}

		if b.Description != a.Description {
			d.add(fmt.Sprintf("Changed %q to %q", b.Description, a.Description))
		}
		if b.Quantity != a.Quantity {
			d.QuantitiesChanged = true
			d.add(fmt.Sprintf("Changed quantity of %q from %s to %s",
				label, trimFloat(b.Quantity), trimFloat(a.Quantity)))
		}
		if b.Unit != a.Unit {
			d.add(fmt.Sprintf("Changed unit of %q from %s to %s", label, b.Unit, a.Unit))
		}
		if !samePrice(b.UnitPrice, a.UnitPrice) {
			d.PricesChanged = true
			d.add(fmt.Sprintf("Changed unit price of %q from %s to %s",
				label, formatPrice(b.UnitPrice), formatPrice(a.UnitPrice)))
		}
		if b.ItemType != a.ItemType {
			d.add(fmt.Sprintf("Reclassified %q as %s", label, a.ItemType))
		}
	}
}

func samePrice(a, b *float64) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return *a == *b
}

func formatPrice(p *float64) string {
	if p == nil {
		return "unset"
	}
	return fmt.Sprintf("$%.2f", *p)
}

func trimFloat(f float64) string {
	s := fmt.Sprintf("%.2f", f)
	s = strings.TrimRight(s, "0")
	return strings.TrimRight(s, ".")
}
