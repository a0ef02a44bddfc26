package draft

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tradiefy/voice-invoicing/internal/domain/entity"
	"go.uber.org/zap"
)

func newTestStore() *Store {
	return NewStore(zap.NewNop())
}

func testDraft() entity.InvoiceDraft {
	d := entity.NewDraft("2026-08-28", "2026-09-11")
	d.Customer.Name = "Dave"
	d.LineItems = []entity.LineItem{
		{Description: "Labour", Quantity: 2, Unit: "hr", UnitPrice: price(90), ItemType: entity.ItemTypeLabour},
		{Description: "Copper pipe", Quantity: 4, Unit: "m", UnitPrice: price(12.5), ItemType: entity.ItemTypeMaterial},
	}
	return d
}

func TestStoreCreateAndGet(t *testing.T) {
	store := newTestStore()

	sess := store.Create(testDraft())
	require.NotEmpty(t, sess.ID)
	assert.False(t, sess.Dirty)

	got, err := store.Get(sess.ID)
	require.NoError(t, err)
	assert.Equal(t, "Dave", got.Draft.Customer.Name)

	_, err = store.Get("nope")
	assert.ErrorIs(t, err, ErrSessionNotFound)
}

func TestStoreSnapshotIsolation(t *testing.T) {
	store := newTestStore()
	sess := store.Create(testDraft())

	// Mutating a returned copy must not leak into the store.
	sess.Draft.Customer.Name = "Mallory"
	*sess.Draft.LineItems[0].UnitPrice = 9999

	got, err := store.Get(sess.ID)
	require.NoError(t, err)
	assert.Equal(t, "Dave", got.Draft.Customer.Name)
	assert.Equal(t, 90.0, *got.Draft.LineItems[0].UnitPrice)
}

func TestStoreUpdateCustomerPartial(t *testing.T) {
	store := newTestStore()
	sess := store.Create(testDraft())

	name := "Dave Smith"
	emails := []string{"dave@example.com"}
	got, err := store.UpdateCustomer(sess.ID, CustomerPatch{Name: &name, Emails: &emails})
	require.NoError(t, err)

	assert.Equal(t, "Dave Smith", got.Draft.Customer.Name)
	assert.Equal(t, emails, got.Draft.Customer.Emails)
	assert.Empty(t, got.Draft.Customer.Address, "unpatched field untouched")
	assert.True(t, got.Dirty)
}

func TestStoreUpdateMeta(t *testing.T) {
	store := newTestStore()
	sess := store.Create(testDraft())

	off := false
	got, err := store.UpdateMeta(sess.ID, MetaPatch{GSTEnabled: &off})
	require.NoError(t, err)

	assert.False(t, got.Draft.Meta.GSTEnabled)
	assert.Equal(t, "2026-08-28", got.Draft.Meta.InvoiceDate, "unpatched field untouched")
}

func TestStoreReplaceLineItemsClassifies(t *testing.T) {
	store := newTestStore()
	sess := store.Create(testDraft())

	got, err := store.ReplaceLineItems(sess.ID, []entity.LineItem{
		{Description: "Bags of cement", Quantity: 10, Unit: "ea", UnitPrice: price(8)},
	})
	require.NoError(t, err)

	require.Len(t, got.Draft.LineItems, 1)
	assert.Equal(t, entity.ItemTypeMaterial, got.Draft.LineItems[0].ItemType)
}

func TestStoreAddAndRemoveLineItem(t *testing.T) {
	store := newTestStore()
	sess := store.Create(testDraft())

	got, err := store.AddLineItem(sess.ID)
	require.NoError(t, err)
	require.Len(t, got.Draft.LineItems, 3)
	added := got.Draft.LineItems[2]
	assert.Equal(t, 1.0, added.Quantity)
	assert.Equal(t, entity.UnitEach, added.Unit)
	assert.Nil(t, added.UnitPrice)

	got, err = store.RemoveLineItem(sess.ID, 0)
	require.NoError(t, err)
	require.Len(t, got.Draft.LineItems, 2)
	assert.Equal(t, "Copper pipe", got.Draft.LineItems[0].Description)

	// Out-of-range index is a silent no-op.
	got, err = store.RemoveLineItem(sess.ID, 17)
	require.NoError(t, err)
	assert.Len(t, got.Draft.LineItems, 2)
}

func TestStoreToggleItemType(t *testing.T) {
	store := newTestStore()
	sess := store.Create(testDraft())

	got, err := store.ToggleItemType(sess.ID, 0)
	require.NoError(t, err)
	assert.Equal(t, entity.ItemTypeMaterial, got.Draft.LineItems[0].ItemType)

	got, err = store.ToggleItemType(sess.ID, 0)
	require.NoError(t, err)
	assert.Equal(t, entity.ItemTypeLabour, got.Draft.LineItems[0].ItemType)
}

func TestStoreCorrectionLifecycle(t *testing.T) {
	store := newTestStore()
	sess := store.Create(testDraft())

	working, err := store.BeginCorrection(sess.ID)
	require.NoError(t, err)
	assert.Equal(t, "Dave", working.Customer.Name)

	// Only one correction may be in flight per session.
	_, err = store.BeginCorrection(sess.ID)
	assert.ErrorIs(t, err, ErrCorrectionPending)

	working.Customer.Name = "Dave Smith"
	got, err := store.CompleteCorrection(sess.ID, working)
	require.NoError(t, err)
	assert.Equal(t, "Dave Smith", got.Draft.Customer.Name)
	assert.False(t, got.CorrectionPending)
	assert.True(t, got.Dirty)

	// The flag is clear again, a new correction may begin.
	_, err = store.BeginCorrection(sess.ID)
	require.NoError(t, err)
}

func TestStoreAbortCorrection(t *testing.T) {
	store := newTestStore()
	sess := store.Create(testDraft())

	_, err := store.BeginCorrection(sess.ID)
	require.NoError(t, err)

	store.AbortCorrection(sess.ID)

	got, err := store.Get(sess.ID)
	require.NoError(t, err)
	assert.Equal(t, "Dave", got.Draft.Customer.Name, "draft untouched after abort")
	assert.False(t, got.CorrectionPending)

	_, err = store.BeginCorrection(sess.ID)
	require.NoError(t, err)
}

func TestStoreManualEditClearsChangesSummary(t *testing.T) {
	store := newTestStore()
	sess := store.Create(testDraft())

	working, err := store.BeginCorrection(sess.ID)
	require.NoError(t, err)
	working.Customer.Name = "Dave Smith"
	working.ChangesSummary = []string{"Changed customer name to Dave Smith"}
	_, err = store.CompleteCorrection(sess.ID, working)
	require.NoError(t, err)

	// The summary sticks around for display until the user edits again.
	got, err := store.Get(sess.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{"Changed customer name to Dave Smith"}, got.Draft.ChangesSummary)

	got, err = store.SetNotes(sess.ID, "call before arriving")
	require.NoError(t, err)
	assert.Empty(t, got.Draft.ChangesSummary, "manual edit supersedes the correction summary")

	got, err = store.Get(sess.ID)
	require.NoError(t, err)
	assert.Empty(t, got.Draft.ChangesSummary)
}

func TestStoreClear(t *testing.T) {
	store := newTestStore()
	sess := store.Create(testDraft())

	store.Clear(sess.ID)
	_, err := store.Get(sess.ID)
	assert.ErrorIs(t, err, ErrSessionNotFound)

	// Clearing twice is fine.
	store.Clear(sess.ID)
}
