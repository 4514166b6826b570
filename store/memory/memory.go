// Package memory provides an in-memory pos.TxStore for tests and dev.
package memory

import (
	"context"
	"fmt"
	"sync"

	"github.com/spincredible-laundryshop/POS-backend/pos"
)

// =============================================================================
// MEMORY STORE
// =============================================================================

// Store keeps inventory and sale records in maps. Transactions are
// simulated with a snapshot + rollback on error.
type Store struct {
	mu     sync.RWMutex
	items  map[string]pos.InventoryItem // by item name
	open   map[string]pos.SaleRecord    // by record id
	closed map[string]pos.SaleRecord
}

func New() *Store {
	return &Store{
		items:  make(map[string]pos.InventoryItem),
		open:   make(map[string]pos.SaleRecord),
		closed: make(map[string]pos.SaleRecord),
	}
}

// SeedItem inserts or replaces an inventory row directly. Test setup only.
func (m *Store) SeedItem(item pos.InventoryItem) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.items[item.Name] = item
}

// =============================================================================
// INVENTORY
// =============================================================================

func (m *Store) GetItem(_ context.Context, name string) (*pos.InventoryItem, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.getItemLocked(name), nil
}

func (m *Store) ApplyStockDelta(_ context.Context, name string, delta int) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.applyStockDeltaLocked(name, delta)
}

func (m *Store) getItemLocked(name string) *pos.InventoryItem {
	item, ok := m.items[name]
	if !ok {
		return nil
	}
	return &item
}

func (m *Store) applyStockDeltaLocked(name string, delta int) (int, error) {
	item, ok := m.items[name]
	if !ok {
		return 0, fmt.Errorf("inventory item %q: %w", name, pos.ErrNotFound)
	}
	if item.Stock+delta < 0 {
		return 0, &pos.InsufficientStockError{
			ItemName:  name,
			Available: item.Stock,
			Requested: -delta,
		}
	}
	item.Stock += delta
	m.items[name] = item
	return item.Stock, nil
}

// =============================================================================
// SALES
// =============================================================================

func (m *Store) GetOpenSale(_ context.Context, id string) (*pos.SaleRecord, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return recordByID(m.open, id), nil
}

func (m *Store) GetOpenSaleByInvoice(_ context.Context, invoice string) (*pos.SaleRecord, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return recordByInvoice(m.open, invoice), nil
}

func (m *Store) InsertOpenSale(_ context.Context, rec pos.SaleRecord) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.open[rec.ID] = rec
	return nil
}

func (m *Store) UpdateOpenSaleItems(_ context.Context, id string, items []pos.LineItem) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.updateOpenSaleItemsLocked(id, items)
}

func (m *Store) DeleteOpenSale(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return deleteRecord(m.open, id)
}

func (m *Store) GetClosedSale(_ context.Context, id string) (*pos.SaleRecord, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return recordByID(m.closed, id), nil
}

func (m *Store) GetClosedSaleByInvoice(_ context.Context, invoice string) (*pos.SaleRecord, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return recordByInvoice(m.closed, invoice), nil
}

func (m *Store) InsertClosedSale(_ context.Context, rec pos.SaleRecord) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.closed[rec.ID] = rec
	return nil
}

func (m *Store) DeleteClosedSale(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return deleteRecord(m.closed, id)
}

func (m *Store) updateOpenSaleItemsLocked(id string, items []pos.LineItem) error {
	rec, ok := m.open[id]
	if !ok {
		return pos.ErrNotFound
	}
	rec.Items = append([]pos.LineItem(nil), items...)
	m.open[id] = rec
	return nil
}

func recordByID(recs map[string]pos.SaleRecord, id string) *pos.SaleRecord {
	rec, ok := recs[id]
	if !ok {
		return nil
	}
	rec.Items = append([]pos.LineItem(nil), rec.Items...)
	return &rec
}

func recordByInvoice(recs map[string]pos.SaleRecord, invoice string) *pos.SaleRecord {
	for id, rec := range recs {
		if rec.InvoiceNumber == invoice {
			return recordByID(recs, id)
		}
	}
	return nil
}

func deleteRecord(recs map[string]pos.SaleRecord, id string) error {
	if _, ok := recs[id]; !ok {
		return pos.ErrNotFound
	}
	delete(recs, id)
	return nil
}

// =============================================================================
// TRANSACTIONS
// =============================================================================

// WithTx executes fn against a view of the store, restoring the
// pre-transaction state if fn fails.
func (m *Store) WithTx(_ context.Context, fn func(pos.Store) error) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	snapshot := m.snapshot()
	if err := fn(&txView{parent: m}); err != nil {
		m.restore(snapshot)
		return err
	}
	return nil
}

type storeSnapshot struct {
	items  map[string]pos.InventoryItem
	open   map[string]pos.SaleRecord
	closed map[string]pos.SaleRecord
}

func (m *Store) snapshot() storeSnapshot {
	return storeSnapshot{
		items:  copyItems(m.items),
		open:   copyRecords(m.open),
		closed: copyRecords(m.closed),
	}
}

func (m *Store) restore(s storeSnapshot) {
	m.items = s.items
	m.open = s.open
	m.closed = s.closed
}

func copyItems(src map[string]pos.InventoryItem) map[string]pos.InventoryItem {
	dst := make(map[string]pos.InventoryItem, len(src))
	for k, v := range src {
		dst[k] = v
	}
	return dst
}

func copyRecords(src map[string]pos.SaleRecord) map[string]pos.SaleRecord {
	dst := make(map[string]pos.SaleRecord, len(src))
	for k, v := range src {
		v.Items = append([]pos.LineItem(nil), v.Items...)
		dst[k] = v
	}
	return dst
}

// txView calls the unlocked helpers; WithTx already holds the mutex.
type txView struct {
	parent *Store
}

func (tv *txView) GetItem(_ context.Context, name string) (*pos.InventoryItem, error) {
	return tv.parent.getItemLocked(name), nil
}

func (tv *txView) ApplyStockDelta(_ context.Context, name string, delta int) (int, error) {
	return tv.parent.applyStockDeltaLocked(name, delta)
}

func (tv *txView) GetOpenSale(_ context.Context, id string) (*pos.SaleRecord, error) {
	return recordByID(tv.parent.open, id), nil
}

func (tv *txView) GetOpenSaleByInvoice(_ context.Context, invoice string) (*pos.SaleRecord, error) {
	return recordByInvoice(tv.parent.open, invoice), nil
}

func (tv *txView) InsertOpenSale(_ context.Context, rec pos.SaleRecord) error {
	tv.parent.open[rec.ID] = rec
	return nil
}

func (tv *txView) UpdateOpenSaleItems(_ context.Context, id string, items []pos.LineItem) error {
	return tv.parent.updateOpenSaleItemsLocked(id, items)
}

func (tv *txView) DeleteOpenSale(_ context.Context, id string) error {
	return deleteRecord(tv.parent.open, id)
}

func (tv *txView) GetClosedSale(_ context.Context, id string) (*pos.SaleRecord, error) {
	return recordByID(tv.parent.closed, id), nil
}

func (tv *txView) GetClosedSaleByInvoice(_ context.Context, invoice string) (*pos.SaleRecord, error) {
	return recordByInvoice(tv.parent.closed, invoice), nil
}

func (tv *txView) InsertClosedSale(_ context.Context, rec pos.SaleRecord) error {
	tv.parent.closed[rec.ID] = rec
	return nil
}

func (tv *txView) DeleteClosedSale(_ context.Context, id string) error {
	return deleteRecord(tv.parent.closed, id)
}
