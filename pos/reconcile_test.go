/*
reconcile_test.go - Unit tests for the stock reconciliation engine

Tests for:
- Deduction and restock delta computation
- All-or-nothing validation (no partial mutation on failure)
- Service lines never touching inventory
*/
package pos_test

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spincredible-laundryshop/POS-backend/pos"
	"github.com/spincredible-laundryshop/POS-backend/store/memory"
)

func seededStore(stocks map[string]int) *memory.Store {
	store := memory.New()
	for name, stock := range stocks {
		store.SeedItem(pos.InventoryItem{
			ID:    "inv-" + name,
			Name:  name,
			Price: decimal.NewFromInt(10),
			Stock: stock,
		})
	}
	return store
}

func itemLine(name string, qty int) pos.LineItem {
	return pos.LineItem{Type: pos.LineTypeItem, ItemName: name, Qty: qty, Price: decimal.NewFromInt(10)}
}

func serviceLine(name string) pos.LineItem {
	return pos.LineItem{Type: pos.LineTypeService, ServiceName: name, Price: decimal.NewFromInt(25)}
}

func stockOf(t *testing.T, store *memory.Store, name string) int {
	t.Helper()
	item, err := store.GetItem(context.Background(), name)
	require.NoError(t, err)
	require.NotNil(t, item)
	return item.Stock
}

func TestReconcile_CreateDeductsStock(t *testing.T) {
	store := seededStore(map[string]int{"Widget": 10})

	err := pos.Reconcile(context.Background(), store, nil, []pos.LineItem{itemLine("Widget", 5)})

	require.NoError(t, err)
	assert.Equal(t, 5, stockOf(t, store, "Widget"))
}

func TestReconcile_InsufficientStockLeavesInventoryUntouched(t *testing.T) {
	store := seededStore(map[string]int{"Widget": 3})

	err := pos.Reconcile(context.Background(), store, nil, []pos.LineItem{itemLine("Widget", 5)})

	require.Error(t, err)
	var stockErr *pos.InsufficientStockError
	require.ErrorAs(t, err, &stockErr)
	assert.Equal(t, "Widget", stockErr.ItemName)
	assert.Equal(t, 3, stockErr.Available)
	assert.Equal(t, 5, stockErr.Requested)
	assert.Equal(t, 3, stockOf(t, store, "Widget"))
}

func TestReconcile_EditRestocksThenDeducts(t *testing.T) {
	// GIVEN: stock 10, then a sale of qty 5 (stock drops to 5)
	store := seededStore(map[string]int{"Widget": 10})
	old := []pos.LineItem{itemLine("Widget", 5)}
	require.NoError(t, pos.Reconcile(context.Background(), store, nil, old))
	require.Equal(t, 5, stockOf(t, store, "Widget"))

	// WHEN: editing the sale to qty 8
	err := pos.Reconcile(context.Background(), store, old, []pos.LineItem{itemLine("Widget", 8)})

	// THEN: 5 + 5 - 8 = 2; the restock makes the larger deduction fit
	require.NoError(t, err)
	assert.Equal(t, 2, stockOf(t, store, "Widget"))
}

func TestReconcile_DuplicateLinesAreAdditive(t *testing.T) {
	store := seededStore(map[string]int{"Widget": 10})

	err := pos.Reconcile(context.Background(), store, nil, []pos.LineItem{
		itemLine("Widget", 4),
		itemLine("Widget", 3),
	})

	require.NoError(t, err)
	assert.Equal(t, 3, stockOf(t, store, "Widget"))
}

func TestReconcile_DuplicateLinesExceedingStockRejected(t *testing.T) {
	store := seededStore(map[string]int{"Widget": 6})

	err := pos.Reconcile(context.Background(), store, nil, []pos.LineItem{
		itemLine("Widget", 4),
		itemLine("Widget", 3),
	})

	require.ErrorIs(t, err, pos.ErrInsufficientStock)
	assert.Equal(t, 6, stockOf(t, store, "Widget"))
}

func TestReconcile_ServiceLinesIgnored(t *testing.T) {
	store := seededStore(map[string]int{"Widget": 10})

	err := pos.Reconcile(context.Background(), store, nil, []pos.LineItem{
		serviceLine("Dry Cleaning"),
		itemLine("Widget", 2),
	})

	require.NoError(t, err)
	assert.Equal(t, 8, stockOf(t, store, "Widget"))

	// A service-only transition touches nothing at all.
	err = pos.Reconcile(context.Background(), store,
		[]pos.LineItem{serviceLine("Dry Cleaning")},
		[]pos.LineItem{serviceLine("Ironing")})
	require.NoError(t, err)
	assert.Equal(t, 8, stockOf(t, store, "Widget"))
}

func TestReconcile_UnknownItemRejected(t *testing.T) {
	store := seededStore(map[string]int{"Widget": 10})

	err := pos.Reconcile(context.Background(), store, nil, []pos.LineItem{itemLine("Gizmo", 1)})

	require.ErrorIs(t, err, pos.ErrUnknownCatalogItem)
	var unknownErr *pos.UnknownCatalogItemError
	require.ErrorAs(t, err, &unknownErr)
	assert.Equal(t, "Gizmo", unknownErr.ItemName)
	assert.Equal(t, 10, stockOf(t, store, "Widget"))
}

func TestReconcile_ValidationOrderIsDeterministic(t *testing.T) {
	// Two shortages: the lexicographically first item name is reported.
	store := seededStore(map[string]int{"Apple": 1, "Banana": 1})

	err := pos.Reconcile(context.Background(), store, nil, []pos.LineItem{
		itemLine("Banana", 5),
		itemLine("Apple", 5),
	})

	var stockErr *pos.InsufficientStockError
	require.ErrorAs(t, err, &stockErr)
	assert.Equal(t, "Apple", stockErr.ItemName)
	assert.Equal(t, 1, stockOf(t, store, "Apple"))
	assert.Equal(t, 1, stockOf(t, store, "Banana"))
}

func TestReconcile_RestockSkipsVanishedItem(t *testing.T) {
	// The old list references an item since removed from the catalog;
	// the mutation proceeds without it.
	store := seededStore(map[string]int{"Widget": 5})

	err := pos.Reconcile(context.Background(), store,
		[]pos.LineItem{itemLine("Discontinued", 2), itemLine("Widget", 1)},
		nil)

	require.NoError(t, err)
	assert.Equal(t, 6, stockOf(t, store, "Widget"))
}

func TestReconcile_EmptyListsAreNoOps(t *testing.T) {
	store := seededStore(map[string]int{"Widget": 7})

	require.NoError(t, pos.Reconcile(context.Background(), store, nil, nil))
	assert.Equal(t, 7, stockOf(t, store, "Widget"))
}
