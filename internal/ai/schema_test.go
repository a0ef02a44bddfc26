package ai

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tradiefy/voice-invoicing/internal/domain/entity"
)

func TestDecodeDraft(t *testing.T) {
	data := []byte(`{
		"customer": {"name": "Dave", "emails": ["dave@example.com"]},
		"invoice_meta": {"invoice_date": "2026-08-28", "due_date": "2026-09-11"},
		"line_items": [
			{"description": "Labour", "quantity": 2, "unit": "hr", "unit_price": 90, "item_type": "labour"},
			{"description": "Copper pipe", "quantity": 4, "unit": "m", "unit_price": null, "item_type": "material"}
		],
		"notes": "Thanks for your business"
	}`)

	d, err := DecodeDraft(data, nil)
	require.NoError(t, err)

	assert.Equal(t, "Dave", d.Customer.Name)
	assert.Equal(t, []string{"dave@example.com"}, d.Customer.Emails)
	require.Len(t, d.LineItems, 2)
	require.NotNil(t, d.LineItems[0].UnitPrice)
	assert.Equal(t, 90.0, *d.LineItems[0].UnitPrice)
	assert.Nil(t, d.LineItems[1].UnitPrice)
	assert.True(t, d.Meta.GSTEnabled, "GST defaults to enabled for fresh drafts")
	assert.False(t, d.Meta.PricesIncludeGST)
	assert.NotNil(t, d.ChangesSummary)
}

func TestDecodeDraftRejectsUnknownFields(t *testing.T) {
	data := []byte(`{
		"customer": {"name": "Dave", "emails": []},
		"invoice_meta": {"invoice_date": "2026-08-28", "due_date": "2026-09-11"},
		"line_items": [],
		"surprise": true
	}`)

	_, err := DecodeDraft(data, nil)
	assert.ErrorIs(t, err, ErrSchemaViolation)
}

func TestDecodeDraftValidation(t *testing.T) {
	tests := []struct {
		name string
		data string
	}{
		{
			name: "empty description",
			data: `{"line_items": [{"description": "  ", "quantity": 1, "unit": "ea"}]}`,
		},
		{
			name: "negative quantity",
			data: `{"line_items": [{"description": "Labour", "quantity": -1, "unit": "hr"}]}`,
		},
		{
			name: "negative price",
			data: `{"line_items": [{"description": "Labour", "quantity": 1, "unit": "hr", "unit_price": -10}]}`,
		},
		{
			name: "unknown unit",
			data: `{"line_items": [{"description": "Labour", "quantity": 1, "unit": "furlong"}]}`,
		},
		{
			name: "unknown item type",
			data: `{"line_items": [{"description": "Labour", "quantity": 1, "unit": "hr", "item_type": "overhead"}]}`,
		},
		{
			name: "malformed date",
			data: `{"invoice_meta": {"invoice_date": "28/08/2026"}, "line_items": []}`,
		},
		{
			name: "not json",
			data: `send the invoice to Dave`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := DecodeDraft([]byte(tt.data), nil)
			assert.ErrorIs(t, err, ErrSchemaViolation)
		})
	}
}

func TestDecodeDraftFlagFallbacks(t *testing.T) {
	base := entity.NewDraft("2026-08-28", "2026-09-11")
	base.Meta.GSTEnabled = false
	base.Meta.PricesIncludeGST = true

	t.Run("omitted flags inherit from base", func(t *testing.T) {
		d, err := DecodeDraft([]byte(`{"line_items": []}`), &base)
		require.NoError(t, err)
		assert.False(t, d.Meta.GSTEnabled)
		assert.True(t, d.Meta.PricesIncludeGST)
	})

	t.Run("explicit flags win over base", func(t *testing.T) {
		data := []byte(`{"invoice_meta": {"gst_enabled": true, "prices_include_gst": false}, "line_items": []}`)
		d, err := DecodeDraft(data, &base)
		require.NoError(t, err)
		assert.True(t, d.Meta.GSTEnabled)
		assert.False(t, d.Meta.PricesIncludeGST)
	})

	t.Run("explicit false is not treated as omitted", func(t *testing.T) {
		data := []byte(`{"invoice_meta": {"gst_enabled": false}, "line_items": []}`)
		d, err := DecodeDraft(data, nil)
		require.NoError(t, err)
		assert.False(t, d.Meta.GSTEnabled)
	})
}

func TestDecodeDraftNormalization(t *testing.T) {
	data := []byte(`{
		"line_items": [{"description": "Labour", "quantity": 1}]
	}`)

	d, err := DecodeDraft(data, nil)
	require.NoError(t, err)

	assert.Equal(t, entity.DefaultCustomerName, d.Customer.Name)
	assert.NotNil(t, d.Customer.Emails)
	assert.Equal(t, entity.UnitEach, d.LineItems[0].Unit)
}
