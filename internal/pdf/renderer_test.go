package pdf

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tradiefy/voice-invoicing/internal/domain/entity"
	"go.uber.org/zap"
)

func TestRender(t *testing.T) {
	p := 90.0
	profile := &entity.Profile{
		Name:        "Dave's Plumbing",
		ABN:         "51 824 753 556",
		Address:     "1 Example St, Brisbane QLD",
		BankBSB:     "062-000",
		BankAccount: "12345678",
	}
	inv := &entity.Invoice{
		InvoiceNumber: "INV-0042",
		ClientName:    "Sarah",
		ClientEmails:  []string{"sarah@example.com"},
		InvoiceDate:   "2026-08-28",
		DueDate:       "2026-09-11",
		GSTEnabled:    true,
		Subtotal:      180,
		GSTAmount:     18,
		Total:         198,
		Notes:         "Thanks for your business",
		Items: []entity.InvoiceItem{
			{Description: "Labour", Quantity: 2, Unit: "hr", UnitPrice: &p, LineTotal: 180},
		},
	}

	r := NewRenderer(zap.NewNop())

	content, err := r.Render(profile, inv)
	require.NoError(t, err)
	require.NotEmpty(t, content)
	assert.Equal(t, "%PDF", string(content[:4]))
}

func TestRenderGSTModes(t *testing.T) {
	r := NewRenderer(zap.NewNop())
	profile := &entity.Profile{Name: "Dave's Plumbing"}

	for _, inv := range []*entity.Invoice{
		{InvoiceNumber: "INV-0001", ClientName: "A", InvoiceDate: "2026-08-28", DueDate: "2026-09-11", GSTEnabled: false, Total: 100},
		{InvoiceNumber: "INV-0002", ClientName: "B", InvoiceDate: "2026-08-28", DueDate: "2026-09-11", GSTEnabled: true, PricesIncludeGST: true, Subtotal: 110, GSTAmount: 10, Total: 110},
	} {
		content, err := r.Render(profile, inv)
		require.NoError(t, err, inv.InvoiceNumber)
		assert.NotEmpty(t, content)
	}
}
