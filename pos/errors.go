/*
errors.go - Centralized error types for the pos domain

ERROR CATEGORIES:
 1. Input errors      - Missing/malformed fields, bad discriminators
 2. Lookup errors     - Unknown ids, invoices, catalog items
 3. Stock errors      - Deduction exceeding available stock

USAGE:
  The API layer classifies with the helpers below:

    if pos.IsNotFound(err) { ... 404 ... }
    if pos.IsClientError(err) { ... 400 ... }

  Structured errors carry context and unwrap to the sentinels, so both
  errors.Is and errors.As work.

SEE ALSO:
  - api/handlers.go: Maps these to HTTP status codes
*/
package pos

import (
	"errors"
	"fmt"
)

// =============================================================================
// SENTINEL ERRORS - Use with errors.Is()
// =============================================================================

var (
	// ErrInvalidInput is returned when a required field is missing or
	// malformed.
	ErrInvalidInput = errors.New("invalid input")

	// ErrNotFound is returned when a referenced record doesn't exist.
	ErrNotFound = errors.New("not found")

	// ErrInsufficientStock is returned when a deduction would take an
	// item's stock below zero.
	ErrInsufficientStock = errors.New("insufficient stock")

	// ErrUnknownCatalogItem is returned when a sale line references an
	// inventory item that doesn't exist.
	ErrUnknownCatalogItem = errors.New("unknown catalog item")

	// ErrDuplicateInvoice is returned when a new sale reuses an invoice
	// number that already exists in either sale table.
	ErrDuplicateInvoice = errors.New("duplicate invoice number")
)

// =============================================================================
// STRUCTURED ERRORS - Carry additional context
// =============================================================================

// InvalidInputError reports which field failed validation.
type InvalidInputError struct {
	Field   string
	Message string
}

func (e *InvalidInputError) Error() string {
	return fmt.Sprintf("invalid input: %s", e.Message)
}

func (e *InvalidInputError) Unwrap() error { return ErrInvalidInput }

// InsufficientStockError reports a stock shortage for one item.
type InsufficientStockError struct {
	ItemName  string
	Available int
	Requested int
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("insufficient stock for %q: available %d, requested %d",
		e.ItemName, e.Available, e.Requested)
}

func (e *InsufficientStockError) Unwrap() error { return ErrInsufficientStock }

// UnknownCatalogItemError reports a sale line referencing a missing item.
type UnknownCatalogItemError struct {
	ItemName string
}

func (e *UnknownCatalogItemError) Error() string {
	return fmt.Sprintf("unknown catalog item %q", e.ItemName)
}

func (e *UnknownCatalogItemError) Unwrap() error { return ErrUnknownCatalogItem }

// =============================================================================
// ERROR HELPERS
// =============================================================================

// IsClientError returns true if the error is due to invalid client input.
func IsClientError(err error) bool {
	return errors.Is(err, ErrInvalidInput) ||
		errors.Is(err, ErrInsufficientStock) ||
		errors.Is(err, ErrUnknownCatalogItem) ||
		errors.Is(err, ErrDuplicateInvoice)
}

// IsNotFound returns true if the error indicates a missing record.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}
