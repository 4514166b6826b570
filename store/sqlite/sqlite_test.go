/*
sqlite_test.go - Tests for the SQLite store

Uses an in-memory database per test. Covers the upsert merge rules,
stock delta guards, transaction rollback, and the sale tables.
*/
package sqlite

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spincredible-laundryshop/POS-backend/pos"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := New(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store
}

func saleRecord(invoice string, items ...pos.LineItem) pos.SaleRecord {
	return pos.SaleRecord{
		ID:            uuid.NewString(),
		InvoiceNumber: invoice,
		Items:         items,
		CreatedAt:     time.Now().UTC().Truncate(time.Second),
	}
}

// =============================================================================
// INVENTORY
// =============================================================================

func TestUpsertItem_InsertThenMerge(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	// GIVEN: a fresh item
	item, created, err := store.UpsertItem(ctx, "Detergent", decimal.NewFromInt(8), 2, nil)
	require.NoError(t, err)
	assert.True(t, created)
	assert.NotEmpty(t, item.ID)
	assert.True(t, decimal.NewFromInt(8).Equal(item.Price))
	assert.Equal(t, 2, item.Stock)

	// WHEN: upserting the same name with a new price and more stock
	cls := "consumable"
	merged, created, err := store.UpsertItem(ctx, "Detergent", decimal.NewFromFloat(9.99), 4, &cls)
	require.NoError(t, err)

	// THEN: price overwritten, stock added, classification merged
	assert.False(t, created)
	assert.Equal(t, item.ID, merged.ID, "merge must not create a second row")
	assert.True(t, decimal.NewFromFloat(9.99).Equal(merged.Price))
	assert.Equal(t, 6, merged.Stock)
	assert.Equal(t, "consumable", merged.Classification)

	items, err := store.ListInventory(ctx)
	require.NoError(t, err)
	assert.Len(t, items, 1)
}

func TestApplyStockDelta(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	_, _, err := store.UpsertItem(ctx, "Detergent", decimal.NewFromInt(8), 5, nil)
	require.NoError(t, err)

	stock, err := store.ApplyStockDelta(ctx, "Detergent", -3)
	require.NoError(t, err)
	assert.Equal(t, 2, stock)

	// Would go negative
	_, err = store.ApplyStockDelta(ctx, "Detergent", -3)
	var stockErr *pos.InsufficientStockError
	require.ErrorAs(t, err, &stockErr)
	assert.Equal(t, 2, stockErr.Available)
	assert.Equal(t, 3, stockErr.Requested)

	// Unknown item
	_, err = store.ApplyStockDelta(ctx, "Nope", 1)
	assert.ErrorIs(t, err, pos.ErrNotFound)
}

func TestUpdateInventoryItem_Patch(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	item, _, err := store.UpsertItem(ctx, "Detergent", decimal.NewFromInt(8), 5, nil)
	require.NoError(t, err)

	newStock := 12
	updated, err := store.UpdateInventoryItem(ctx, item.ID, InventoryPatch{Stock: &newStock})
	require.NoError(t, err)
	assert.Equal(t, 12, updated.Stock)
	assert.Equal(t, "Detergent", updated.Name, "unpatched fields keep their values")
	assert.True(t, decimal.NewFromInt(8).Equal(updated.Price))

	_, err = store.UpdateInventoryItem(ctx, "no-such-id", InventoryPatch{Stock: &newStock})
	assert.ErrorIs(t, err, pos.ErrNotFound)
}

func TestDeleteInventoryItem(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	item, _, err := store.UpsertItem(ctx, "Detergent", decimal.NewFromInt(8), 5, nil)
	require.NoError(t, err)

	require.NoError(t, store.DeleteInventoryItem(ctx, item.ID))

	got, err := store.GetItem(ctx, "Detergent")
	require.NoError(t, err)
	assert.Nil(t, got)

	assert.ErrorIs(t, store.DeleteInventoryItem(ctx, item.ID), pos.ErrNotFound)
}

// =============================================================================
// SERVICES
// =============================================================================

func TestServices_CRUD(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	svc, err := store.InsertService(ctx, "Wash & Fold", decimal.NewFromInt(150), []string{"Plastic Bag"})
	require.NoError(t, err)
	assert.NotEmpty(t, svc.ID)

	// Duplicate name rejected
	_, err = store.InsertService(ctx, "Wash & Fold", decimal.NewFromInt(99), nil)
	assert.ErrorIs(t, err, pos.ErrInvalidInput)

	got, err := store.GetService(ctx, svc.ID)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, []string{"Plastic Bag"}, got.Freebies)

	newPrice := decimal.NewFromInt(175)
	updated, err := store.UpdateService(ctx, svc.ID, ServicePatch{Price: &newPrice})
	require.NoError(t, err)
	assert.True(t, newPrice.Equal(updated.Price))
	assert.Equal(t, "Wash & Fold", updated.Name)

	services, err := store.ListServices(ctx)
	require.NoError(t, err)
	assert.Len(t, services, 1)

	require.NoError(t, store.DeleteService(ctx, svc.ID))
	assert.ErrorIs(t, store.DeleteService(ctx, svc.ID), pos.ErrNotFound)
}

func TestInsertService_NilFreebiesStoredAsEmptyList(t *testing.T) {
	store := newTestStore(t)

	svc, err := store.InsertService(context.Background(), "Ironing", decimal.NewFromInt(50), nil)
	require.NoError(t, err)

	got, err := store.GetService(context.Background(), svc.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{}, got.Freebies)
}

// =============================================================================
// SALE RECORDS
// =============================================================================

func TestSaleRecords_InsertMoveDelete(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	rec := saleRecord("INV-001", pos.LineItem{
		Type: pos.LineTypeItem, ItemName: "Detergent", Qty: 2, Price: decimal.NewFromInt(8),
	})
	require.NoError(t, store.InsertOpenSale(ctx, rec))

	// Duplicate invoice in the same table
	dup := saleRecord("INV-001")
	assert.ErrorIs(t, store.InsertOpenSale(ctx, dup), pos.ErrDuplicateInvoice)

	got, err := store.GetOpenSaleByInvoice(ctx, "INV-001")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, rec.ID, got.ID)
	require.Len(t, got.Items, 1)
	assert.Equal(t, "Detergent", got.Items[0].ItemName)
	assert.True(t, decimal.NewFromInt(8).Equal(got.Items[0].Price))

	// Move to closed, as PaySale does
	paidAt := time.Now().UTC().Truncate(time.Second)
	closed := *got
	closed.PaidAt = &paidAt
	closed.PaidUsing = "cash"
	require.NoError(t, store.DeleteOpenSale(ctx, rec.ID))
	require.NoError(t, store.InsertClosedSale(ctx, closed))

	fromClosed, err := store.GetClosedSale(ctx, rec.ID)
	require.NoError(t, err)
	require.NotNil(t, fromClosed)
	require.NotNil(t, fromClosed.PaidAt)
	assert.True(t, paidAt.Equal(*fromClosed.PaidAt))
	assert.Equal(t, "cash", fromClosed.PaidUsing)

	require.NoError(t, store.DeleteClosedSale(ctx, rec.ID))
	assert.ErrorIs(t, store.DeleteClosedSale(ctx, rec.ID), pos.ErrNotFound)
}

func TestUpdateOpenSaleItems(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	rec := saleRecord("INV-001", pos.LineItem{
		Type: pos.LineTypeItem, ItemName: "Detergent", Qty: 2, Price: decimal.NewFromInt(8),
	})
	require.NoError(t, store.InsertOpenSale(ctx, rec))

	newItems := []pos.LineItem{
		{Type: pos.LineTypeService, ServiceName: "Ironing", Price: decimal.NewFromInt(50)},
	}
	require.NoError(t, store.UpdateOpenSaleItems(ctx, rec.ID, newItems))

	got, err := store.GetOpenSale(ctx, rec.ID)
	require.NoError(t, err)
	require.Len(t, got.Items, 1)
	assert.Equal(t, pos.LineTypeService, got.Items[0].Type)
	assert.Equal(t, "Ironing", got.Items[0].ServiceName)

	assert.ErrorIs(t, store.UpdateOpenSaleItems(ctx, "no-such-id", newItems), pos.ErrNotFound)
}

func TestListSales_DateRange(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	base := time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)
	for i, invoice := range []string{"INV-A", "INV-B", "INV-C"} {
		rec := saleRecord(invoice)
		rec.CreatedAt = base.AddDate(0, 0, i)
		require.NoError(t, store.InsertOpenSale(ctx, rec))
	}

	// No bounds: everything, oldest first
	all, err := store.ListOpenSales(ctx, nil, nil)
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, "INV-A", all[0].InvoiceNumber)
	assert.Equal(t, "INV-C", all[2].InvoiceNumber)

	// Low bound only
	low := base.AddDate(0, 0, 1)
	fromLow, err := store.ListOpenSales(ctx, &low, nil)
	require.NoError(t, err)
	require.Len(t, fromLow, 2)
	assert.Equal(t, "INV-B", fromLow[0].InvoiceNumber)

	// Both bounds, inclusive
	high := base.AddDate(0, 0, 1)
	window, err := store.ListOpenSales(ctx, &low, &high)
	require.NoError(t, err)
	require.Len(t, window, 1)
	assert.Equal(t, "INV-B", window[0].InvoiceNumber)
}

// =============================================================================
// TRANSACTIONS
// =============================================================================

func TestWithTx_RollsBackOnError(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	_, _, err := store.UpsertItem(ctx, "Detergent", decimal.NewFromInt(8), 5, nil)
	require.NoError(t, err)

	boom := errors.New("boom")
	err = store.WithTx(ctx, func(tx pos.Store) error {
		if _, err := tx.ApplyStockDelta(ctx, "Detergent", -4); err != nil {
			return err
		}
		if err := tx.InsertOpenSale(ctx, saleRecord("INV-001")); err != nil {
			return err
		}
		return boom
	})
	require.ErrorIs(t, err, boom)

	// Neither the delta nor the insert survived
	item, err := store.GetItem(ctx, "Detergent")
	require.NoError(t, err)
	assert.Equal(t, 5, item.Stock)

	rec, err := store.GetOpenSaleByInvoice(ctx, "INV-001")
	require.NoError(t, err)
	assert.Nil(t, rec)
}

func TestWithTx_CommitsOnSuccess(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	_, _, err := store.UpsertItem(ctx, "Detergent", decimal.NewFromInt(8), 5, nil)
	require.NoError(t, err)

	err = store.WithTx(ctx, func(tx pos.Store) error {
		_, err := tx.ApplyStockDelta(ctx, "Detergent", -4)
		return err
	})
	require.NoError(t, err)

	item, err := store.GetItem(ctx, "Detergent")
	require.NoError(t, err)
	assert.Equal(t, 1, item.Stock)
}

func TestReset(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	_, _, err := store.UpsertItem(ctx, "Detergent", decimal.NewFromInt(8), 5, nil)
	require.NoError(t, err)
	require.NoError(t, store.InsertOpenSale(ctx, saleRecord("INV-001")))

	require.NoError(t, store.Reset(ctx))

	items, err := store.ListInventory(ctx)
	require.NoError(t, err)
	assert.Empty(t, items)

	sales, err := store.ListOpenSales(ctx, nil, nil)
	require.NoError(t, err)
	assert.Empty(t, sales)
}
