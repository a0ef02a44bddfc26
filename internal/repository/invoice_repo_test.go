package repository

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tradiefy/voice-invoicing/internal/domain/entity"
	"github.com/tradiefy/voice-invoicing/internal/draft"
	"github.com/tradiefy/voice-invoicing/pkg/database"
	"go.uber.org/zap"
)

func TestFormatInvoiceNumber(t *testing.T) {
	tests := []struct {
		prefix string
		n      int
		want   string
	}{
		{"INV-", 1, "INV-0001"},
		{"INV-", 42, "INV-0042"},
		{"INV-", 9999, "INV-9999"},
		{"INV-", 10000, "INV-10000"},
		{"DP", 7, "DP0007"},
		{"", 3, "0003"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, FormatInvoiceNumber(tt.prefix, tt.n))
	}
}

func newTestDB(t *testing.T) *database.DB {
	t.Helper()

	logger := zap.NewNop()
	db, err := database.New(database.Config{
		Path:         filepath.Join(t.TempDir(), "test.db"),
		MaxOpenConns: 1,
		MaxIdleConns: 1,
	}, logger)
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	require.NoError(t, database.NewMigrator(db, logger).Run("../../migrations"))
	return db
}

func newTestProfile(t *testing.T, db *database.DB) *entity.Profile {
	t.Helper()

	p := &entity.Profile{
		Name:              "Dave's Plumbing",
		ABN:               "51824753556",
		InvoicePrefix:     "INV-",
		NextInvoiceNumber: 1,
		GSTEnabled:        true,
	}
	require.NoError(t, NewProfileRepository(db.DB, zap.NewNop()).Create(p))
	return p
}

func persistableDraft() entity.InvoiceDraft {
	hourly := 90.0
	pipe := 8.5
	d := entity.NewDraft("2026-08-28", "2026-09-11")
	d.Customer.Name = "Dave"
	d.Customer.Emails = []string{"dave@example.com"}
	d.LineItems = []entity.LineItem{
		{Description: "Labour", Quantity: 2, Unit: "hr", UnitPrice: &hourly, ItemType: entity.ItemTypeLabour},
		{Description: "Copper pipe", Quantity: 10, Unit: "m", UnitPrice: &pipe, ItemType: entity.ItemTypeMaterial},
		{Description: "Fittings", Quantity: 1, Unit: "ea", UnitPrice: nil, ItemType: entity.ItemTypeMaterial},
	}
	return d
}

func TestSaveFromDraft(t *testing.T) {
	db := newTestDB(t)
	profile := newTestProfile(t, db)
	repo := NewInvoiceRepository(db, zap.NewNop())

	d := persistableDraft()
	totals := draft.ComputeTotals(d.LineItems, true, false)

	inv, err := repo.SaveFromDraft(profile.ID, "draft-uid-1", d, totals)
	require.NoError(t, err)
	assert.Equal(t, "INV-0001", inv.InvoiceNumber)
	assert.Equal(t, entity.StatusSaved, inv.Status)
	assert.Equal(t, "Dave", inv.ClientName)
	assert.Equal(t, []string{"dave@example.com"}, inv.ClientEmails)
	assert.InDelta(t, totals.Total, inv.Total, 1e-9)

	require.Len(t, inv.Items, 3)
	assert.Equal(t, "Labour", inv.Items[0].Description)
	require.NotNil(t, inv.Items[0].UnitPrice)
	assert.InDelta(t, 90.0, *inv.Items[0].UnitPrice, 1e-9)
	assert.Nil(t, inv.Items[2].UnitPrice, "unpriced line round-trips as nil, not zero")

	// A retried save with the same UID returns the persisted row
	// instead of inserting a duplicate.
	again, err := repo.SaveFromDraft(profile.ID, "draft-uid-1", d, totals)
	require.NoError(t, err)
	assert.Equal(t, inv.ID, again.ID)
	assert.Equal(t, "INV-0001", again.InvoiceNumber)

	// The sequence advanced exactly once despite the retry.
	got, err := NewProfileRepository(db.DB, zap.NewNop()).GetByID(profile.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, got.NextInvoiceNumber)

	// The next draft takes the next number.
	inv2, err := repo.SaveFromDraft(profile.ID, "draft-uid-2", d, totals)
	require.NoError(t, err)
	assert.Equal(t, "INV-0002", inv2.InvoiceNumber)
	assert.NotEqual(t, inv.ID, inv2.ID)
}

func TestSaveFromDraftUnknownProfile(t *testing.T) {
	db := newTestDB(t)
	repo := NewInvoiceRepository(db, zap.NewNop())

	d := persistableDraft()
	totals := draft.ComputeTotals(d.LineItems, true, false)

	_, err := repo.SaveFromDraft(9999, "draft-uid-1", d, totals)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestMarkSent(t *testing.T) {
	db := newTestDB(t)
	profile := newTestProfile(t, db)
	repo := NewInvoiceRepository(db, zap.NewNop())

	d := persistableDraft()
	priced := 20.0
	d.LineItems[2].UnitPrice = &priced
	totals := draft.ComputeTotals(d.LineItems, true, false)

	inv, err := repo.SaveFromDraft(profile.ID, "draft-uid-1", d, totals)
	require.NoError(t, err)

	sentAt := time.Now().UTC().Truncate(time.Second)
	require.NoError(t, repo.MarkSent(inv.ID, "/tmp/invoices/INV-0001.pdf", sentAt))

	got, err := repo.GetByID(inv.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.StatusSent, got.Status)
	assert.Equal(t, "/tmp/invoices/INV-0001.pdf", got.PDFPath)
	require.NotNil(t, got.SentAt)
	assert.True(t, got.SentAt.Equal(sentAt))

	assert.ErrorIs(t, repo.MarkSent(9999, "", sentAt), ErrNotFound)
}

func TestListNewestFirst(t *testing.T) {
	db := newTestDB(t)
	profile := newTestProfile(t, db)
	repo := NewInvoiceRepository(db, zap.NewNop())

	d := persistableDraft()
	totals := draft.ComputeTotals(d.LineItems, true, false)

	_, err := repo.SaveFromDraft(profile.ID, "draft-uid-1", d, totals)
	require.NoError(t, err)
	_, err = repo.SaveFromDraft(profile.ID, "draft-uid-2", d, totals)
	require.NoError(t, err)

	invoices, err := repo.List(profile.ID)
	require.NoError(t, err)
	require.Len(t, invoices, 2)
	assert.Equal(t, "INV-0002", invoices[0].InvoiceNumber)
	assert.Equal(t, "INV-0001", invoices[1].InvoiceNumber)
}
