package ai

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tradiefy/voice-invoicing/internal/domain/entity"
	"go.uber.org/zap"
)

func currentDraft() entity.InvoiceDraft {
	p1, p2 := 90.0, 8.0
	return entity.InvoiceDraft{
		Customer: entity.Customer{Name: "Dave", Emails: []string{"dave@example.com"}},
		Meta: entity.InvoiceMeta{
			InvoiceNumber: "INV-0042",
			InvoiceDate:   "2026-08-28",
			DueDate:       "2026-09-11",
			GSTEnabled:    true,
		},
		LineItems: []entity.LineItem{
			{Description: "Labour", Quantity: 2, Unit: "hr", UnitPrice: &p1, ItemType: "labour"},
			{Description: "Bags of cement", Quantity: 10, Unit: "ea", UnitPrice: &p2, ItemType: "material"},
		},
	}
}

func TestReconcilerApply(t *testing.T) {
	stub := &stubCompleter{content: `{
		"customer": {"name": "Dave Smith", "emails": ["dave@example.com"]},
		"invoice_meta": {"invoice_date": "2026-08-28", "due_date": "2026-09-11", "gst_enabled": true},
		"line_items": [
			{"description": "Labour", "quantity": 2, "unit": "hr", "unit_price": 90, "item_type": "labour"},
			{"description": "Bags of cement", "quantity": 10, "unit": "ea", "unit_price": 8, "item_type": "material"}
		],
		"notes": "",
		"changes_summary": ["Changed customer name to Dave Smith"]
	}`}
	rec := NewReconciler(stub, "gpt-4o", 0.2, zap.NewNop())

	current := currentDraft()
	corrected, err := rec.Apply(context.Background(), current, "the customer is actually Dave Smith")
	require.NoError(t, err)

	assert.Equal(t, "Dave Smith", corrected.Customer.Name)
	assert.Equal(t, []string{"Changed customer name to Dave Smith"}, corrected.ChangesSummary)
	assert.Equal(t, "INV-0042", corrected.Meta.InvoiceNumber, "invoice number carried over from the current draft")

	// Untouched fields survive the round trip.
	require.Len(t, corrected.LineItems, 2)
	assert.Equal(t, 90.0, *corrected.LineItems[0].UnitPrice)
	assert.Equal(t, 10.0, corrected.LineItems[1].Quantity)
}

func TestReconcilerOmittedFlagsInherit(t *testing.T) {
	// The model dropped the GST flags entirely; the current draft's
	// values must survive rather than resetting to defaults.
	stub := &stubCompleter{content: `{
		"customer": {"name": "Dave", "emails": ["dave@example.com"]},
		"invoice_meta": {"invoice_date": "2026-08-28", "due_date": "2026-09-11"},
		"line_items": [],
		"notes": ""
	}`}
	rec := NewReconciler(stub, "gpt-4o", 0.2, zap.NewNop())

	current := currentDraft()
	current.Meta.GSTEnabled = false
	current.Meta.PricesIncludeGST = true

	corrected, err := rec.Apply(context.Background(), current, "remove the items")
	require.NoError(t, err)
	assert.False(t, corrected.Meta.GSTEnabled)
	assert.True(t, corrected.Meta.PricesIncludeGST)
}

func TestReconcilerBackfillsChangeSummary(t *testing.T) {
	stub := &stubCompleter{content: `{
		"customer": {"name": "Dave", "emails": ["dave@example.com"]},
		"invoice_meta": {"invoice_date": "2026-08-28", "due_date": "2026-09-18", "gst_enabled": true},
		"line_items": [
			{"description": "Labour", "quantity": 2, "unit": "hr", "unit_price": 90, "item_type": "labour"},
			{"description": "Bags of cement", "quantity": 10, "unit": "ea", "unit_price": 8, "item_type": "material"}
		],
		"notes": ""
	}`}
	rec := NewReconciler(stub, "gpt-4o", 0.2, zap.NewNop())

	corrected, err := rec.Apply(context.Background(), currentDraft(), "push the due date out a week")
	require.NoError(t, err)
	assert.Equal(t, []string{"Changed due date from 2026-09-11 to 2026-09-18"}, corrected.ChangesSummary)
}

func TestReconcilerAtomicity(t *testing.T) {
	tests := []struct {
		name    string
		stub    *stubCompleter
		wantErr error
	}{
		{
			name:    "upstream failure",
			stub:    &stubCompleter{err: errors.New("boom")},
			wantErr: ErrUpstream,
		},
		{
			name:    "non json response",
			stub:    &stubCompleter{content: "sure, I updated the draft for you!"},
			wantErr: ErrSchemaViolation,
		},
		{
			name:    "schema violation",
			stub:    &stubCompleter{content: `{"line_items": [{"description": "", "quantity": 1}]}`},
			wantErr: ErrSchemaViolation,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := NewReconciler(tt.stub, "gpt-4o", 0.2, zap.NewNop())

			current := currentDraft()
			before := current.Clone()

			corrected, err := rec.Apply(context.Background(), current, "do something")
			assert.ErrorIs(t, err, tt.wantErr)
			assert.Nil(t, corrected)

			// The caller's draft is bit-for-bit what it was.
			assert.Equal(t, before, current)
		})
	}
}
