/*
lifecycle.go - Sale lifecycle controller

PURPOSE:
  Orchestrates the sale state machine:

    Create       initial -> Open     (reconcile, then insert)
    Edit         Open -> Open        (reconcile, then replace items)
    Pay          Open -> Closed      (move, stamp paid_at/paid_using)
    Revert       Closed -> Open      (move, clear paid fields)
    Delete open  Open -> terminal    (restock, then remove)
    Delete closed Closed -> terminal (remove only, see below)

  Pay and Revert are moves: the record keeps its id and invoice number,
  and at most one authoritative copy exists across the two tables.

STOCK EFFECTS:
  Stock is deducted at create/edit time and returned on delete-open.
  Pay and Revert never touch inventory. Deleting a CLOSED sale performs
  no restock while deleting an open one does; paid stock is treated as
  consumed permanently. The asymmetry is inherited behavior, kept on
  purpose rather than silently "fixed".

ATOMICITY:
  Every operation runs its read-validate-mutate sequence inside a
  single store transaction, so concurrent operations against the same
  item are serialized and a failed reconciliation leaves both inventory
  and the sale tables untouched.

SEE ALSO:
  - reconcile.go: Stock delta computation
  - store/sqlite: Persistent Store implementation
*/
package pos

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// =============================================================================
// STORE INTERFACES
// =============================================================================

// Store is the persistence surface the controller mutates. Lookups
// return (nil, nil) for missing records; deletes return ErrNotFound.
type Store interface {
	Inventory

	GetOpenSale(ctx context.Context, id string) (*SaleRecord, error)
	GetOpenSaleByInvoice(ctx context.Context, invoice string) (*SaleRecord, error)
	InsertOpenSale(ctx context.Context, rec SaleRecord) error
	UpdateOpenSaleItems(ctx context.Context, id string, items []LineItem) error
	DeleteOpenSale(ctx context.Context, id string) error

	GetClosedSale(ctx context.Context, id string) (*SaleRecord, error)
	GetClosedSaleByInvoice(ctx context.Context, invoice string) (*SaleRecord, error)
	InsertClosedSale(ctx context.Context, rec SaleRecord) error
	DeleteClosedSale(ctx context.Context, id string) error
}

// TxStore runs a function against a transactional view of the store.
// If fn returns an error, nothing it did is persisted.
type TxStore interface {
	Store
	WithTx(ctx context.Context, fn func(Store) error) error
}

// =============================================================================
// CONTROLLER
// =============================================================================

// Controller drives sale lifecycle transitions against a TxStore.
type Controller struct {
	store TxStore
	now   func() time.Time
}

// NewController creates a controller backed by the given store.
func NewController(store TxStore) *Controller {
	return &Controller{store: store, now: func() time.Time { return time.Now().UTC() }}
}

// CreateSale opens a new sale, deducting stock for every item line.
func (c *Controller) CreateSale(ctx context.Context, invoice string, items []LineItem) (*SaleRecord, error) {
	if invoice == "" {
		return nil, &InvalidInputError{Field: "invoice_number", Message: "invoice_number is required"}
	}
	if len(items) == 0 {
		return nil, &InvalidInputError{Field: "items", Message: "items must not be empty"}
	}
	if err := ValidateItems(items); err != nil {
		return nil, err
	}

	rec := SaleRecord{
		ID:            uuid.NewString(),
		InvoiceNumber: invoice,
		Items:         items,
		CreatedAt:     c.now(),
	}

	err := c.store.WithTx(ctx, func(s Store) error {
		if err := c.checkInvoiceFree(ctx, s, invoice); err != nil {
			return err
		}
		if err := Reconcile(ctx, s, nil, items); err != nil {
			return err
		}
		return s.InsertOpenSale(ctx, rec)
	})
	if err != nil {
		return nil, err
	}
	return &rec, nil
}

// EditSale replaces an open sale's item list wholesale, restocking the
// old lines and deducting the new ones. Other fields are unchanged.
func (c *Controller) EditSale(ctx context.Context, id string, items []LineItem) (*SaleRecord, error) {
	if len(items) == 0 {
		return nil, &InvalidInputError{Field: "items", Message: "items must not be empty"}
	}
	if err := ValidateItems(items); err != nil {
		return nil, err
	}

	var rec *SaleRecord
	err := c.store.WithTx(ctx, func(s Store) error {
		existing, err := s.GetOpenSale(ctx, id)
		if err != nil {
			return err
		}
		if existing == nil {
			return ErrNotFound
		}
		if err := Reconcile(ctx, s, existing.Items, items); err != nil {
			return err
		}
		if err := s.UpdateOpenSaleItems(ctx, id, items); err != nil {
			return err
		}
		existing.Items = items
		rec = existing
		return nil
	})
	if err != nil {
		return nil, err
	}
	return rec, nil
}

// PaySale closes an open sale. Stock was already deducted at
// create/edit time, so paying has no inventory effect.
func (c *Controller) PaySale(ctx context.Context, id, paidUsing string) (*SaleRecord, error) {
	if paidUsing == "" {
		return nil, &InvalidInputError{Field: "paid_using", Message: "paid_using is required"}
	}

	var rec *SaleRecord
	err := c.store.WithTx(ctx, func(s Store) error {
		open, err := s.GetOpenSale(ctx, id)
		if err != nil {
			return err
		}
		if open == nil {
			return ErrNotFound
		}
		paidAt := c.now()
		open.PaidAt = &paidAt
		open.PaidUsing = paidUsing
		if err := s.InsertClosedSale(ctx, *open); err != nil {
			return err
		}
		if err := s.DeleteOpenSale(ctx, id); err != nil {
			return err
		}
		rec = open
		return nil
	})
	if err != nil {
		return nil, err
	}
	return rec, nil
}

// RevertSale reopens a closed sale, clearing the paid fields. No
// inventory effect.
func (c *Controller) RevertSale(ctx context.Context, id string) (*SaleRecord, error) {
	var rec *SaleRecord
	err := c.store.WithTx(ctx, func(s Store) error {
		closed, err := s.GetClosedSale(ctx, id)
		if err != nil {
			return err
		}
		if closed == nil {
			return ErrNotFound
		}
		closed.PaidAt = nil
		closed.PaidUsing = ""
		if err := s.InsertOpenSale(ctx, *closed); err != nil {
			return err
		}
		if err := s.DeleteClosedSale(ctx, id); err != nil {
			return err
		}
		rec = closed
		return nil
	})
	if err != nil {
		return nil, err
	}
	return rec, nil
}

// DeleteOpenSale removes an open sale, returning every item line's
// quantity to stock. Restocking needs no sufficiency check.
func (c *Controller) DeleteOpenSale(ctx context.Context, id string) error {
	return c.store.WithTx(ctx, func(s Store) error {
		open, err := s.GetOpenSale(ctx, id)
		if err != nil {
			return err
		}
		if open == nil {
			return ErrNotFound
		}
		if err := Reconcile(ctx, s, open.Items, nil); err != nil {
			return err
		}
		return s.DeleteOpenSale(ctx, id)
	})
}

// DeleteClosedSale removes a closed sale with NO restock: the stock was
// never returned on Pay, so none is removed here. Asymmetric with
// DeleteOpenSale by design of the original system.
func (c *Controller) DeleteClosedSale(ctx context.Context, id string) error {
	return c.store.WithTx(ctx, func(s Store) error {
		closed, err := s.GetClosedSale(ctx, id)
		if err != nil {
			return err
		}
		if closed == nil {
			return ErrNotFound
		}
		return s.DeleteClosedSale(ctx, id)
	})
}

// checkInvoiceFree enforces invoice uniqueness across BOTH sale tables.
// The schema can only enforce it per-table.
func (c *Controller) checkInvoiceFree(ctx context.Context, s Store, invoice string) error {
	open, err := s.GetOpenSaleByInvoice(ctx, invoice)
	if err != nil {
		return err
	}
	closed, err := s.GetClosedSaleByInvoice(ctx, invoice)
	if err != nil {
		return err
	}
	if open != nil || closed != nil {
		return ErrDuplicateInvoice
	}
	return nil
}
