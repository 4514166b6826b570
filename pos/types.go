/*
Package pos contains the point-of-sale domain: catalog types, the stock
reconciliation engine, and the sale lifecycle controller.

KEY CONCEPTS IN THIS FILE (types.go):
  - InventoryItem: A stocked catalog row, keyed by item_name
  - Service:       A non-stocked catalog row (laundry service, fee, ...)
  - LineItem:      A tagged variant inside a sale's item list
  - SaleRecord:    An open or closed sale, keyed by invoice number

DESIGN PRINCIPLES:
 1. Precision: prices use decimal.Decimal, never float64
 2. Snapshots: a LineItem carries the price at time of sale; it is
    never re-derived from the current catalog price
 3. Boundary validation: unrecognized line-item discriminators are
    rejected explicitly, not silently ignored

SEE ALSO:
  - reconcile.go: Stock delta computation from line-item lists
  - lifecycle.go: Sale state machine (create/edit/pay/revert/delete)
*/
package pos

import (
	"time"

	"github.com/shopspring/decimal"
)

// =============================================================================
// CATALOG
// =============================================================================

// InventoryItem is a stocked catalog row. Stock is mutated only by the
// reconciliation engine or by a direct inventory upsert (restock).
type InventoryItem struct {
	ID             string          `json:"id"`
	Name           string          `json:"item_name"`
	Price          decimal.Decimal `json:"price"`
	Stock          int             `json:"stock"`
	Classification string          `json:"item_classification,omitempty"`
	CreatedAt      time.Time       `json:"created_at"`
}

// Service is a non-stocked catalog row. Services never touch inventory.
type Service struct {
	ID        string          `json:"id"`
	Name      string          `json:"service_name"`
	Price     decimal.Decimal `json:"price"`
	Freebies  []string        `json:"freebies"`
	CreatedAt time.Time       `json:"created_at"`
}

// =============================================================================
// LINE ITEMS
// =============================================================================

// LineType discriminates the two line-item variants.
type LineType string

const (
	LineTypeItem    LineType = "item"
	LineTypeService LineType = "service"
)

// LineItem is one entry in a sale's item list. Exactly one of ItemName
// or ServiceName is set, according to Type. Price is a snapshot taken
// when the line was added to the sale.
type LineItem struct {
	Type        LineType        `json:"type"`
	ItemName    string          `json:"item_name,omitempty"`
	ServiceName string          `json:"service_name,omitempty"`
	Qty         int             `json:"qty,omitempty"`
	Price       decimal.Decimal `json:"price"`
}

// Validate checks the variant invariants for a single line item.
func (li LineItem) Validate() error {
	switch li.Type {
	case LineTypeItem:
		if li.ItemName == "" {
			return &InvalidInputError{Field: "item_name", Message: "item line requires item_name"}
		}
		if li.Qty <= 0 {
			return &InvalidInputError{Field: "qty", Message: "item line requires a positive qty"}
		}
	case LineTypeService:
		if li.ServiceName == "" {
			return &InvalidInputError{Field: "service_name", Message: "service line requires service_name"}
		}
	default:
		return &InvalidInputError{Field: "type", Message: "unrecognized line item type " + string(li.Type)}
	}
	if li.Price.IsNegative() {
		return &InvalidInputError{Field: "price", Message: "price must not be negative"}
	}
	return nil
}

// ValidateItems validates every line item in a sale's list.
func ValidateItems(items []LineItem) error {
	for _, li := range items {
		if err := li.Validate(); err != nil {
			return err
		}
	}
	return nil
}

// =============================================================================
// SALES
// =============================================================================

// SaleRecord is a sale in either lifecycle state. While open, PaidAt is
// nil and PaidUsing empty; once closed both are set. A record lives in
// exactly one of the two sale tables at a time, and keeps its ID as it
// moves between them.
type SaleRecord struct {
	ID            string     `json:"id"`
	InvoiceNumber string     `json:"invoice_number"`
	Items         []LineItem `json:"items"`
	CreatedAt     time.Time  `json:"created_at"`
	PaidAt        *time.Time `json:"paid_at,omitempty"`
	PaidUsing     string     `json:"paid_using,omitempty"`
}
