/*
dto.go - Data Transfer Objects for API requests and responses

PURPOSE:
  Defines the JSON structures for API communication, decoupling the
  internal domain model from the external contract.

NAMING CONVENTION:
  - *DTO: Response types returned to clients
  - *Request: Request body types from clients

VALIDATION:
  Structural validation (required fields, discriminators) is done in
  handlers and the pos package. DTOs are pure data carriers.

SEE ALSO:
  - handlers.go: Uses these types
  - pos/types.go: Domain model these map to
*/
package api

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/spincredible-laundryshop/POS-backend/pos"
)

// =============================================================================
// REQUEST/RESPONSE TYPES
// =============================================================================

// InventoryItemDTO represents an inventory row in API responses.
type InventoryItemDTO struct {
	ID             string  `json:"id"`
	ItemName       string  `json:"item_name"`
	Price          float64 `json:"price"`
	Stock          int     `json:"stock"`
	Classification string  `json:"item_classification,omitempty"`
	CreatedAt      string  `json:"created_at,omitempty"`
}

// UpsertInventoryRequest creates or merges an inventory row by name.
type UpsertInventoryRequest struct {
	ItemName       string   `json:"item_name"`
	Price          *float64 `json:"price"`
	Stock          *int     `json:"stock,omitempty"`
	Classification *string  `json:"item_classification,omitempty"`
}

// UpdateInventoryRequest is a partial update of an inventory row.
type UpdateInventoryRequest struct {
	ItemName       *string  `json:"item_name,omitempty"`
	Price          *float64 `json:"price,omitempty"`
	Stock          *int     `json:"stock,omitempty"`
	Classification *string  `json:"item_classification,omitempty"`
}

// ServiceDTO represents a service row in API responses.
type ServiceDTO struct {
	ID          string   `json:"id"`
	ServiceName string   `json:"service_name"`
	Price       float64  `json:"price"`
	Freebies    []string `json:"freebies"`
	CreatedAt   string   `json:"created_at,omitempty"`
}

// CreateServiceRequest creates a service row.
type CreateServiceRequest struct {
	ServiceName string   `json:"service_name"`
	Price       *float64 `json:"price"`
	Freebies    []string `json:"freebies,omitempty"`
}

// UpdateServiceRequest is a partial update of a service row.
type UpdateServiceRequest struct {
	ServiceName *string  `json:"service_name,omitempty"`
	Price       *float64 `json:"price,omitempty"`
	Freebies    []string `json:"freebies,omitempty"`
}

// LineItemDTO is one entry in a sale's item list.
type LineItemDTO struct {
	Type        string  `json:"type"`
	ItemName    string  `json:"item_name,omitempty"`
	ServiceName string  `json:"service_name,omitempty"`
	Qty         int     `json:"qty,omitempty"`
	Price       float64 `json:"price"`
}

// SaleDTO represents an open or closed sale in API responses.
type SaleDTO struct {
	ID            string        `json:"id"`
	InvoiceNumber string        `json:"invoice_number"`
	Items         []LineItemDTO `json:"items"`
	CreatedAt     string        `json:"created_at"`
	PaidAt        *string       `json:"paid_at,omitempty"`
	PaidUsing     string        `json:"paid_using,omitempty"`
}

// CreateSaleRequest opens a new sale.
type CreateSaleRequest struct {
	InvoiceNumber string        `json:"invoice_number"`
	Items         []LineItemDTO `json:"items"`
}

// EditSaleRequest replaces an open sale's item list wholesale.
type EditSaleRequest struct {
	Items []LineItemDTO `json:"items"`
}

// PaySaleRequest closes an open sale.
type PaySaleRequest struct {
	PaidUsing string `json:"paid_using"`
}

// PaySaleResponse confirms payment.
type PaySaleResponse struct {
	PaidAt    string `json:"paid_at"`
	PaidUsing string `json:"paid_using"`
}

// ErrorResponse is the standard error response.
type ErrorResponse struct {
	Error   string `json:"error"`
	Code    string `json:"code,omitempty"`
	Details any    `json:"details,omitempty"`
}

// =============================================================================
// CONVERSION HELPERS
// =============================================================================

func toInventoryItemDTO(item pos.InventoryItem) InventoryItemDTO {
	price, _ := item.Price.Float64()
	return InventoryItemDTO{
		ID:             item.ID,
		ItemName:       item.Name,
		Price:          price,
		Stock:          item.Stock,
		Classification: item.Classification,
		CreatedAt:      item.CreatedAt.Format(time.RFC3339),
	}
}

func toServiceDTO(svc pos.Service) ServiceDTO {
	price, _ := svc.Price.Float64()
	return ServiceDTO{
		ID:          svc.ID,
		ServiceName: svc.Name,
		Price:       price,
		Freebies:    svc.Freebies,
		CreatedAt:   svc.CreatedAt.Format(time.RFC3339),
	}
}

func toLineItemDTO(li pos.LineItem) LineItemDTO {
	price, _ := li.Price.Float64()
	return LineItemDTO{
		Type:        string(li.Type),
		ItemName:    li.ItemName,
		ServiceName: li.ServiceName,
		Qty:         li.Qty,
		Price:       price,
	}
}

func toLineItem(dto LineItemDTO) pos.LineItem {
	return pos.LineItem{
		Type:        pos.LineType(dto.Type),
		ItemName:    dto.ItemName,
		ServiceName: dto.ServiceName,
		Qty:         dto.Qty,
		Price:       decimal.NewFromFloat(dto.Price),
	}
}

func toLineItems(dtos []LineItemDTO) []pos.LineItem {
	items := make([]pos.LineItem, len(dtos))
	for i, dto := range dtos {
		items[i] = toLineItem(dto)
	}
	return items
}

func toSaleDTO(rec pos.SaleRecord) SaleDTO {
	dtos := make([]LineItemDTO, len(rec.Items))
	for i, li := range rec.Items {
		dtos[i] = toLineItemDTO(li)
	}
	dto := SaleDTO{
		ID:            rec.ID,
		InvoiceNumber: rec.InvoiceNumber,
		Items:         dtos,
		CreatedAt:     rec.CreatedAt.Format(time.RFC3339),
		PaidUsing:     rec.PaidUsing,
	}
	if rec.PaidAt != nil {
		paidAt := rec.PaidAt.Format(time.RFC3339)
		dto.PaidAt = &paidAt
	}
	return dto
}

func toSaleDTOs(recs []pos.SaleRecord) []SaleDTO {
	dtos := make([]SaleDTO, len(recs))
	for i, rec := range recs {
		dtos[i] = toSaleDTO(rec)
	}
	return dtos
}
