/*
reconcile.go - Stock reconciliation engine

PURPOSE:
  Converts a transition from an old line-item list to a new one into
  inventory stock deltas. Called for every sale mutation:

    create:      old = nil,            new = sale items
    edit:        old = stored items,   new = request items
    delete-open: old = stored items,   new = nil

ALGORITHM:
  1. Sum restocks (+qty) per item name from the old list and
     deductions (qty) per item name from the new list. An item
     appearing on multiple lines is additive. Service lines are
     ignored entirely.
  2. Validate in sorted item-name order: a deducted item must exist
     and satisfy stock + restock - deduct >= 0. On any failure nothing
     is applied, including restocks.
  3. Commit the net delta per item.

  Restock-only items that have since been removed from the catalog are
  skipped: a sale mutation is never blocked by catalog cleanup.

ATOMICITY:
  The engine validates before it writes, but the caller must still run
  it inside a store transaction (TxStore.WithTx) so that concurrent
  operations on the same item cannot both pass validation.
*/
package pos

import (
	"context"
	"sort"
)

// Inventory is the stock surface the engine reconciles against.
// Implementations return (nil, nil) from GetItem for a missing item.
type Inventory interface {
	GetItem(ctx context.Context, name string) (*InventoryItem, error)
	ApplyStockDelta(ctx context.Context, name string, delta int) (int, error)
}

// Reconcile applies the stock effects of replacing oldItems with
// newItems. Either every delta applies or none do.
func Reconcile(ctx context.Context, inv Inventory, oldItems, newItems []LineItem) error {
	restock := sumQuantities(oldItems)
	deduct := sumQuantities(newItems)

	names := make([]string, 0, len(restock)+len(deduct))
	seen := make(map[string]bool, len(restock)+len(deduct))
	for name := range restock {
		names = append(names, name)
		seen[name] = true
	}
	for name := range deduct {
		if !seen[name] {
			names = append(names, name)
		}
	}
	sort.Strings(names)

	// Validate phase: no mutation until every delta is known to fit.
	missing := make(map[string]bool)
	for _, name := range names {
		item, err := inv.GetItem(ctx, name)
		if err != nil {
			return err
		}
		if item == nil {
			if deduct[name] > 0 {
				return &UnknownCatalogItemError{ItemName: name}
			}
			missing[name] = true
			continue
		}
		if item.Stock+restock[name]-deduct[name] < 0 {
			return &InsufficientStockError{
				ItemName:  name,
				Available: item.Stock + restock[name],
				Requested: deduct[name],
			}
		}
	}

	// Commit phase.
	for _, name := range names {
		if missing[name] {
			continue
		}
		if delta := restock[name] - deduct[name]; delta != 0 {
			if _, err := inv.ApplyStockDelta(ctx, name, delta); err != nil {
				return err
			}
		}
	}
	return nil
}

// sumQuantities totals item-type quantities per item name.
func sumQuantities(items []LineItem) map[string]int {
	totals := make(map[string]int)
	for _, li := range items {
		if li.Type != LineTypeItem {
			continue
		}
		totals[li.ItemName] += li.Qty
	}
	return totals
}
