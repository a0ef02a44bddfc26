package draft

import "github.com/tradiefy/voice-invoicing/internal/domain/entity"

// Totals is the derived monetary summary of a set of line items.
// HasMissingPrices is true when any line lacks a unit price; such lines
// contribute nothing to the subtotal and block sending.
type Totals struct {
	Subtotal         float64 `json:"subtotal"`
	GSTAmount        float64 `json:"gst_amount"`
	Total            float64 `json:"total"`
	HasMissingPrices bool    `json:"has_missing_prices"`
}

// ComputeTotals derives subtotal, GST and total from the line items.
/// Pure: no side effects, same inputs always give the same outputs.
//
// With GST disabled the total is the subtotal and GST is zero. With GST
// enabled and exclusive pricing (the default) GST is 10% on top. With
// inclusive pricing the entered amounts already contain GST: the
// GST component is backed out as subtotal - subtotal/1.1 and the total
// is the subtotal unchanged.
func ComputeTotals(items []entity.LineItem, gstEnabled, pricesIncludeGST bool) Totals {
	var t Totals

	for _, item := range items {
		lineTotal, priced := item.LineTotal()
		if !priced {
			t.HasMissingPrices = true
			continue
		}
		t.Subtotal += lineTotal
	}

	if !gstEnabled {
		t.Total = t.Subtotal
		return t
	}

	if pricesIncludeGST {
		exclusive := t.Subtotal / (1 + entity.GSTRate)
		t.GSTAmount = t.Subtotal - exclusive
		t.Total = t.Subtotal
		return t
	}

	t.GSTAmount = t.Subtotal * entity.GSTRate
	t.Total = t.Subtotal + t.GSTAmount
	return t
}

// Sendable reports whether the draft may be emailed: every line item
// priced and at least one recipient address present.
func Sendable(d entity.InvoiceDraft) bool {
	t := ComputeTotals(d.LineItems, d.Meta.GSTEnabled, d.Meta.PricesIncludeGST)
	return !t.HasMissingPrices && len(d.Customer.Emails) > 0
}
