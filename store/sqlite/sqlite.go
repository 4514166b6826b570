/*
Package sqlite provides the SQLite-backed implementation of the POS
storage interfaces.

INTERFACES IMPLEMENTED:
  pos.Store:   inventory reads/deltas plus open/closed sale records
  pos.TxStore: the above inside a database transaction

KEY TABLES:
  inventory:    one row per item name; stock kept >= 0 by a CHECK
  services:     non-stocked catalog rows, freebies as a JSON list
  open_sales:   unpaid sales, items as a JSON list, paid fields NULL
  closed_sales: paid sales, paid_at/paid_using required

CONCURRENCY:
  Uses sync.RWMutex around the handle; WithTx holds the write lock for
  the whole transaction, so a sale operation's read-validate-mutate
  sequence is serialized against every other writer. SQLite is opened
  in WAL mode so readers don't block.

MIGRATION:
  Schema is auto-migrated on New(). For production, use a proper
  migration tool with versioned migrations.

USAGE:
  store, err := sqlite.New("./data/pos.db")  // or ":memory:"
  if err != nil { log.Fatal(err) }
  defer store.Close()

SEE ALSO:
  - pos/lifecycle.go: Consumes Store/TxStore
  - store/memory: In-memory implementation for tests
*/
package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"
	"github.com/shopspring/decimal"

	"github.com/spincredible-laundryshop/POS-backend/pos"
)

// Store implements pos.TxStore plus the plain catalog CRUD the API
// layer uses directly.
type Store struct {
	db *sql.DB
	mu sync.RWMutex
}

// New creates a SQLite store at the given path. Use ":memory:" for an
// in-memory database.
func New(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite3", dbPath+"?_foreign_keys=on&_journal_mode=WAL")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// A ":memory:" database exists per connection, so the pool must not
	// grow past one. Writers are serialized by the mutex anyway.
	db.SetMaxOpenConns(1)

	store := &Store{db: db}
	if err := store.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	return store, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS inventory (
		id TEXT PRIMARY KEY,
		item_name TEXT NOT NULL UNIQUE,
		price TEXT NOT NULL,
		stock INTEGER NOT NULL DEFAULT 0 CHECK (stock >= 0),
		classification TEXT,
		created_at TEXT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS services (
		id TEXT PRIMARY KEY,
		service_name TEXT NOT NULL UNIQUE,
		price TEXT NOT NULL,
		freebies_json TEXT NOT NULL DEFAULT '[]',
		created_at TEXT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS open_sales (
		id TEXT PRIMARY KEY,
		invoice_number TEXT NOT NULL UNIQUE,
		items_json TEXT NOT NULL,
		created_at TEXT NOT NULL,
		paid_at TEXT,
		paid_using TEXT
	);

	CREATE TABLE IF NOT EXISTS closed_sales (
		id TEXT PRIMARY KEY,
		invoice_number TEXT NOT NULL UNIQUE,
		items_json TEXT NOT NULL,
		created_at TEXT NOT NULL,
		paid_at TEXT NOT NULL,
		paid_using TEXT NOT NULL
	);

	-- Date-range listings filter on created_at
	CREATE INDEX IF NOT EXISTS idx_open_sales_created_at
		ON open_sales(created_at);
	CREATE INDEX IF NOT EXISTS idx_closed_sales_created_at
		ON closed_sales(created_at);
	`

	_, err := s.db.Exec(schema)
	return err
}

// dbtx is satisfied by both *sql.DB and *sql.Tx.
type dbtx interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// =============================================================================
// INVENTORY (pos.Inventory interface)
// =============================================================================

// GetItem returns the inventory row for an item name, or nil if absent.
func (s *Store) GetItem(ctx context.Context, name string) (*pos.InventoryItem, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.getItem(ctx, s.db, name)
}

func (s *Store) getItem(ctx context.Context, db dbtx, name string) (*pos.InventoryItem, error) {
	row := db.QueryRowContext(ctx,
		"SELECT id, item_name, price, stock, classification, created_at FROM inventory WHERE item_name = ?",
		name,
	)
	item, err := scanInventoryItem(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return item, nil
}

// ApplyStockDelta adds delta to an item's stock. Fails if the item is
// absent or the resulting stock would go negative.
func (s *Store) ApplyStockDelta(ctx context.Context, name string, delta int) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.applyStockDelta(ctx, s.db, name, delta)
}

func (s *Store) applyStockDelta(ctx context.Context, db dbtx, name string, delta int) (int, error) {
	var stock int
	err := db.QueryRowContext(ctx,
		"SELECT stock FROM inventory WHERE item_name = ?", name,
	).Scan(&stock)
	if err == sql.ErrNoRows {
		return 0, fmt.Errorf("inventory item %q: %w", name, pos.ErrNotFound)
	}
	if err != nil {
		return 0, fmt.Errorf("failed to read stock: %w", err)
	}

	if stock+delta < 0 {
		return 0, &pos.InsufficientStockError{
			ItemName:  name,
			Available: stock,
			Requested: -delta,
		}
	}

	if _, err := db.ExecContext(ctx,
		"UPDATE inventory SET stock = stock + ? WHERE item_name = ?", delta, name,
	); err != nil {
		return 0, fmt.Errorf("failed to apply stock delta: %w", err)
	}
	return stock + delta, nil
}

// UpsertItem inserts or merges an inventory row by item name: price is
// overwritten, stockIncrement is added to existing stock (or used as
// initial stock), and classification is merged only when non-nil.
// Returns the resulting row and whether it was newly created.
func (s *Store) UpsertItem(ctx context.Context, name string, price decimal.Decimal, stockIncrement int, classification *string) (*pos.InventoryItem, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	existing, err := s.getItem(ctx, s.db, name)
	if err != nil {
		return nil, false, err
	}

	if existing == nil {
		item := pos.InventoryItem{
			ID:        uuid.NewString(),
			Name:      name,
			Price:     price,
			Stock:     stockIncrement,
			CreatedAt: time.Now().UTC(),
		}
		if classification != nil {
			item.Classification = *classification
		}
		_, err := s.db.ExecContext(ctx,
			"INSERT INTO inventory (id, item_name, price, stock, classification, created_at) VALUES (?, ?, ?, ?, ?, ?)",
			item.ID, item.Name, item.Price.String(), item.Stock,
			nullString(item.Classification), item.CreatedAt.Format(time.RFC3339),
		)
		if err != nil {
			return nil, false, fmt.Errorf("failed to insert inventory item: %w", err)
		}
		return &item, true, nil
	}

	existing.Price = price
	existing.Stock += stockIncrement
	if classification != nil {
		existing.Classification = *classification
	}
	_, err = s.db.ExecContext(ctx,
		"UPDATE inventory SET price = ?, stock = ?, classification = ? WHERE item_name = ?",
		existing.Price.String(), existing.Stock, nullString(existing.Classification), name,
	)
	if err != nil {
		return nil, false, fmt.Errorf("failed to merge inventory item: %w", err)
	}
	return existing, false, nil
}

// ListInventory returns all inventory rows ordered by item name.
func (s *Store) ListInventory(ctx context.Context) ([]pos.InventoryItem, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx,
		"SELECT id, item_name, price, stock, classification, created_at FROM inventory ORDER BY item_name",
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []pos.InventoryItem
	for rows.Next() {
		item, err := scanInventoryItem(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, *item)
	}
	return items, rows.Err()
}

// InventoryPatch carries the optional fields of a partial update.
type InventoryPatch struct {
	Name           *string
	Price          *decimal.Decimal
	Stock          *int
	Classification *string
}

// UpdateInventoryItem applies a partial update to an inventory row by id.
func (s *Store) UpdateInventoryItem(ctx context.Context, id string, patch InventoryPatch) (*pos.InventoryItem, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	row := s.db.QueryRowContext(ctx,
		"SELECT id, item_name, price, stock, classification, created_at FROM inventory WHERE id = ?", id,
	)
	item, err := scanInventoryItem(row)
	if err == sql.ErrNoRows {
		return nil, pos.ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	if patch.Name != nil {
		item.Name = *patch.Name
	}
	if patch.Price != nil {
		item.Price = *patch.Price
	}
	if patch.Stock != nil {
		item.Stock = *patch.Stock
	}
	if patch.Classification != nil {
		item.Classification = *patch.Classification
	}

	_, err = s.db.ExecContext(ctx,
		"UPDATE inventory SET item_name = ?, price = ?, stock = ?, classification = ? WHERE id = ?",
		item.Name, item.Price.String(), item.Stock, nullString(item.Classification), id,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to update inventory item: %w", err)
	}
	return item, nil
}

// DeleteInventoryItem removes an inventory row by id.
func (s *Store) DeleteInventoryItem(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return deleteByID(ctx, s.db, "inventory", id)
}

func scanInventoryItem(row interface{ Scan(...any) error }) (*pos.InventoryItem, error) {
	var (
		item           pos.InventoryItem
		price          string
		classification sql.NullString
		createdAt      string
	)
	if err := row.Scan(&item.ID, &item.Name, &price, &item.Stock, &classification, &createdAt); err != nil {
		return nil, err
	}
	item.Price = mustDecimal(price)
	item.Classification = classification.String
	item.CreatedAt, _ = time.Parse(time.RFC3339, createdAt)
	return &item, nil
}

// =============================================================================
// SERVICES
// =============================================================================

// InsertService creates a service catalog row.
func (s *Store) InsertService(ctx context.Context, name string, price decimal.Decimal, freebies []string) (*pos.Service, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	svc := pos.Service{
		ID:        uuid.NewString(),
		Name:      name,
		Price:     price,
		Freebies:  freebies,
		CreatedAt: time.Now().UTC(),
	}
	if svc.Freebies == nil {
		svc.Freebies = []string{}
	}
	freebiesJSON, _ := json.Marshal(svc.Freebies)

	_, err := s.db.ExecContext(ctx,
		"INSERT INTO services (id, service_name, price, freebies_json, created_at) VALUES (?, ?, ?, ?, ?)",
		svc.ID, svc.Name, svc.Price.String(), string(freebiesJSON), svc.CreatedAt.Format(time.RFC3339),
	)
	if err != nil {
		if isUniqueConstraintError(err) {
			return nil, &pos.InvalidInputError{Field: "service_name", Message: "service_name already exists"}
		}
		return nil, fmt.Errorf("failed to insert service: %w", err)
	}
	return &svc, nil
}

// GetService returns a service row by id, or nil if absent.
func (s *Store) GetService(ctx context.Context, id string) (*pos.Service, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	row := s.db.QueryRowContext(ctx,
		"SELECT id, service_name, price, freebies_json, created_at FROM services WHERE id = ?", id,
	)
	svc, err := scanService(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return svc, nil
}

// ListServices returns all service rows ordered by name.
func (s *Store) ListServices(ctx context.Context) ([]pos.Service, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx,
		"SELECT id, service_name, price, freebies_json, created_at FROM services ORDER BY service_name",
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var services []pos.Service
	for rows.Next() {
		svc, err := scanService(rows)
		if err != nil {
			return nil, err
		}
		services = append(services, *svc)
	}
	return services, rows.Err()
}

// ServicePatch carries the optional fields of a partial update.
type ServicePatch struct {
	Name     *string
	Price    *decimal.Decimal
	Freebies []string
}

// UpdateService applies a partial update to a service row by id.
func (s *Store) UpdateService(ctx context.Context, id string, patch ServicePatch) (*pos.Service, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	row := s.db.QueryRowContext(ctx,
		"SELECT id, service_name, price, freebies_json, created_at FROM services WHERE id = ?", id,
	)
	svc, err := scanService(row)
	if err == sql.ErrNoRows {
		return nil, pos.ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	if patch.Name != nil {
		svc.Name = *patch.Name
	}
	if patch.Price != nil {
		svc.Price = *patch.Price
	}
	if patch.Freebies != nil {
		svc.Freebies = patch.Freebies
	}
	freebiesJSON, _ := json.Marshal(svc.Freebies)

	_, err = s.db.ExecContext(ctx,
		"UPDATE services SET service_name = ?, price = ?, freebies_json = ? WHERE id = ?",
		svc.Name, svc.Price.String(), string(freebiesJSON), id,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to update service: %w", err)
	}
	return svc, nil
}

// DeleteService removes a service row by id.
func (s *Store) DeleteService(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return deleteByID(ctx, s.db, "services", id)
}

func scanService(row interface{ Scan(...any) error }) (*pos.Service, error) {
	var (
		svc          pos.Service
		price        string
		freebiesJSON string
		createdAt    string
	)
	if err := row.Scan(&svc.ID, &svc.Name, &price, &freebiesJSON, &createdAt); err != nil {
		return nil, err
	}
	svc.Price = mustDecimal(price)
	svc.Freebies = []string{}
	json.Unmarshal([]byte(freebiesJSON), &svc.Freebies)
	svc.CreatedAt, _ = time.Parse(time.RFC3339, createdAt)
	return &svc, nil
}

// =============================================================================
// SALE RECORDS (pos.Store interface)
// =============================================================================

func (s *Store) GetOpenSale(ctx context.Context, id string) (*pos.SaleRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.getSale(ctx, s.db, "open_sales", "id", id)
}

func (s *Store) GetOpenSaleByInvoice(ctx context.Context, invoice string) (*pos.SaleRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.getSale(ctx, s.db, "open_sales", "invoice_number", invoice)
}

func (s *Store) InsertOpenSale(ctx context.Context, rec pos.SaleRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.insertSale(ctx, s.db, "open_sales", rec)
}

func (s *Store) UpdateOpenSaleItems(ctx context.Context, id string, items []pos.LineItem) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.updateOpenSaleItems(ctx, s.db, id, items)
}

func (s *Store) DeleteOpenSale(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return deleteByID(ctx, s.db, "open_sales", id)
}

func (s *Store) GetClosedSale(ctx context.Context, id string) (*pos.SaleRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.getSale(ctx, s.db, "closed_sales", "id", id)
}

func (s *Store) GetClosedSaleByInvoice(ctx context.Context, invoice string) (*pos.SaleRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.getSale(ctx, s.db, "closed_sales", "invoice_number", invoice)
}

func (s *Store) InsertClosedSale(ctx context.Context, rec pos.SaleRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.insertSale(ctx, s.db, "closed_sales", rec)
}

func (s *Store) DeleteClosedSale(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return deleteByID(ctx, s.db, "closed_sales", id)
}

// ListOpenSales returns open sales created within the optional date
// range, oldest first.
func (s *Store) ListOpenSales(ctx context.Context, low, high *time.Time) ([]pos.SaleRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.listSales(ctx, s.db, "open_sales", low, high)
}

// ListClosedSales returns closed sales created within the optional
// date range, oldest first.
func (s *Store) ListClosedSales(ctx context.Context, low, high *time.Time) ([]pos.SaleRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.listSales(ctx, s.db, "closed_sales", low, high)
}

func (s *Store) getSale(ctx context.Context, db dbtx, table, column, value string) (*pos.SaleRecord, error) {
	query := fmt.Sprintf(
		"SELECT id, invoice_number, items_json, created_at, paid_at, paid_using FROM %s WHERE %s = ?",
		table, column,
	)
	rec, err := scanSale(db.QueryRowContext(ctx, query, value))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return rec, nil
}

func (s *Store) insertSale(ctx context.Context, db dbtx, table string, rec pos.SaleRecord) error {
	itemsJSON, err := json.Marshal(rec.Items)
	if err != nil {
		return fmt.Errorf("failed to encode items: %w", err)
	}

	var paidAt any
	if rec.PaidAt != nil {
		paidAt = rec.PaidAt.Format(time.RFC3339)
	}

	query := fmt.Sprintf(
		"INSERT INTO %s (id, invoice_number, items_json, created_at, paid_at, paid_using) VALUES (?, ?, ?, ?, ?, ?)",
		table,
	)
	_, err = db.ExecContext(ctx, query,
		rec.ID, rec.InvoiceNumber, string(itemsJSON),
		rec.CreatedAt.Format(time.RFC3339), paidAt, nullString(rec.PaidUsing),
	)
	if err != nil {
		if isUniqueConstraintError(err) {
			return pos.ErrDuplicateInvoice
		}
		return fmt.Errorf("failed to insert sale: %w", err)
	}
	return nil
}

func (s *Store) updateOpenSaleItems(ctx context.Context, db dbtx, id string, items []pos.LineItem) error {
	itemsJSON, err := json.Marshal(items)
	if err != nil {
		return fmt.Errorf("failed to encode items: %w", err)
	}

	res, err := db.ExecContext(ctx,
		"UPDATE open_sales SET items_json = ? WHERE id = ?", string(itemsJSON), id,
	)
	if err != nil {
		return fmt.Errorf("failed to update sale items: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return pos.ErrNotFound
	}
	return nil
}

func (s *Store) listSales(ctx context.Context, db dbtx, table string, low, high *time.Time) ([]pos.SaleRecord, error) {
	query := fmt.Sprintf(
		"SELECT id, invoice_number, items_json, created_at, paid_at, paid_using FROM %s", table,
	)
	var (
		clauses []string
		args    []any
	)
	if low != nil {
		clauses = append(clauses, "created_at >= ?")
		args = append(args, low.Format(time.RFC3339))
	}
	if high != nil {
		clauses = append(clauses, "created_at <= ?")
		args = append(args, high.Format(time.RFC3339))
	}
	if len(clauses) > 0 {
		query += " WHERE " + strings.Join(clauses, " AND ")
	}
	query += " ORDER BY created_at ASC"

	rows, err := db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var sales []pos.SaleRecord
	for rows.Next() {
		rec, err := scanSale(rows)
		if err != nil {
			return nil, err
		}
		sales = append(sales, *rec)
	}
	return sales, rows.Err()
}

func scanSale(row interface{ Scan(...any) error }) (*pos.SaleRecord, error) {
	var (
		rec       pos.SaleRecord
		itemsJSON string
		createdAt string
		paidAt    sql.NullString
		paidUsing sql.NullString
	)
	if err := row.Scan(&rec.ID, &rec.InvoiceNumber, &itemsJSON, &createdAt, &paidAt, &paidUsing); err != nil {
		return nil, err
	}
	if err := json.Unmarshal([]byte(itemsJSON), &rec.Items); err != nil {
		return nil, fmt.Errorf("failed to decode items for sale %s: %w", rec.ID, err)
	}
	rec.CreatedAt, _ = time.Parse(time.RFC3339, createdAt)
	if paidAt.Valid {
		t, _ := time.Parse(time.RFC3339, paidAt.String)
		rec.PaidAt = &t
	}
	rec.PaidUsing = paidUsing.String
	return &rec, nil
}

// =============================================================================
// TRANSACTIONAL STORE (pos.TxStore interface)
// =============================================================================

// WithTx executes fn within a database transaction. The write lock is
// held for the duration, serializing sale operations against all other
// writers.
func (s *Store) WithTx(ctx context.Context, fn func(store pos.Store) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	sqlTx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer sqlTx.Rollback()

	if err := fn(&txStore{tx: sqlTx, parent: s}); err != nil {
		return err
	}
	return sqlTx.Commit()
}

type txStore struct {
	tx     *sql.Tx
	parent *Store
}

func (ts *txStore) GetItem(ctx context.Context, name string) (*pos.InventoryItem, error) {
	return ts.parent.getItem(ctx, ts.tx, name)
}

func (ts *txStore) ApplyStockDelta(ctx context.Context, name string, delta int) (int, error) {
	return ts.parent.applyStockDelta(ctx, ts.tx, name, delta)
}

func (ts *txStore) GetOpenSale(ctx context.Context, id string) (*pos.SaleRecord, error) {
	return ts.parent.getSale(ctx, ts.tx, "open_sales", "id", id)
}

func (ts *txStore) GetOpenSaleByInvoice(ctx context.Context, invoice string) (*pos.SaleRecord, error) {
	return ts.parent.getSale(ctx, ts.tx, "open_sales", "invoice_number", invoice)
}

func (ts *txStore) InsertOpenSale(ctx context.Context, rec pos.SaleRecord) error {
	return ts.parent.insertSale(ctx, ts.tx, "open_sales", rec)
}

func (ts *txStore) UpdateOpenSaleItems(ctx context.Context, id string, items []pos.LineItem) error {
	return ts.parent.updateOpenSaleItems(ctx, ts.tx, id, items)
}

func (ts *txStore) DeleteOpenSale(ctx context.Context, id string) error {
	return deleteByID(ctx, ts.tx, "open_sales", id)
}

func (ts *txStore) GetClosedSale(ctx context.Context, id string) (*pos.SaleRecord, error) {
	return ts.parent.getSale(ctx, ts.tx, "closed_sales", "id", id)
}

func (ts *txStore) GetClosedSaleByInvoice(ctx context.Context, invoice string) (*pos.SaleRecord, error) {
	return ts.parent.getSale(ctx, ts.tx, "closed_sales", "invoice_number", invoice)
}

func (ts *txStore) InsertClosedSale(ctx context.Context, rec pos.SaleRecord) error {
	return ts.parent.insertSale(ctx, ts.tx, "closed_sales", rec)
}

func (ts *txStore) DeleteClosedSale(ctx context.Context, id string) error {
	return deleteByID(ctx, ts.tx, "closed_sales", id)
}

// =============================================================================
// UTILITIES
// =============================================================================

// Reset clears all data (for testing/demo).
func (s *Store) Reset(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	tables := []string{"open_sales", "closed_sales", "inventory", "services"}
	for _, table := range tables {
		if _, err := s.db.ExecContext(ctx, "DELETE FROM "+table); err != nil {
			return err
		}
	}
	return nil
}

func deleteByID(ctx context.Context, db dbtx, table, id string) error {
	res, err := db.ExecContext(ctx, fmt.Sprintf("DELETE FROM %s WHERE id = ?", table), id)
	if err != nil {
		return fmt.Errorf("failed to delete from %s: %w", table, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return pos.ErrNotFound
	}
	return nil
}

func nullString(s string) sql.NullString {
	if s == "" {
		return sql.NullString{}
	}
	return sql.NullString{String: s, Valid: true}
}

func mustDecimal(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero
	}
	return d
}

func isUniqueConstraintError(err error) bool {
	return err != nil && strings.Contains(err.Error(), "UNIQUE constraint failed")
}
