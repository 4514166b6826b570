/*
handlers.go - HTTP API handlers for the POS backend

PURPOSE:
  Exposes the catalog stores and the sale lifecycle controller via
  REST. Handles HTTP request/response, JSON serialization, and
  delegates to domain logic.

ENDPOINTS:
  Catalog:
    GET/POST           /api/services, /api/inventory
    GET/PUT/DELETE     /api/services/{id}, /api/inventory/{id}

  Sales:
    GET/POST           /api/open-sales          (lowdate/highdate filters)
    GET/PUT/DELETE     /api/open-sales/{id}
    POST               /api/pay-sale/{id}
    POST               /api/revert-sale/{id}
    GET                /api/closed-sales
    GET/DELETE         /api/closed-sales/{id}

ERROR HANDLING:
  Domain errors map to HTTP status via pos helpers:
  - 400: invalid input, insufficient stock, unknown catalog item,
         duplicate invoice
  - 404: missing record
  - 500: everything else; the original error is logged server-side and
         never echoed to the caller

SEE ALSO:
  - dto.go: Request/response data structures
  - server.go: Router setup and middleware
  - pos/lifecycle.go: Sale state machine
*/
package api

import (
	"encoding/json"
	"log"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"github.com/spincredible-laundryshop/POS-backend/pos"
	"github.com/spincredible-laundryshop/POS-backend/store/sqlite"
)

// Handler holds all dependencies for HTTP handlers.
type Handler struct {
	Store *sqlite.Store
	Sales *pos.Controller
}

// NewHandler creates a handler backed by the given store.
func NewHandler(store *sqlite.Store) *Handler {
	return &Handler{
		Store: store,
		Sales: pos.NewController(store),
	}
}

// Health reports liveness.
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// =============================================================================
// SERVICE HANDLERS
// =============================================================================

// ListServices returns all service catalog rows.
func (h *Handler) ListServices(w http.ResponseWriter, r *http.Request) {
	services, err := h.Store.ListServices(r.Context())
	if err != nil {
		writeServerError(w, "Failed to list services", err)
		return
	}

	dtos := make([]ServiceDTO, len(services))
	for i, svc := range services {
		dtos[i] = toServiceDTO(svc)
	}
	writeJSON(w, http.StatusOK, dtos)
}

// GetService returns a single service row.
func (h *Handler) GetService(w http.ResponseWriter, r *http.Request) {
	svc, err := h.Store.GetService(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeServerError(w, "Failed to get service", err)
		return
	}
	if svc == nil {
		writeError(w, http.StatusNotFound, "Service not found")
		return
	}
	writeJSON(w, http.StatusOK, toServiceDTO(*svc))
}

// CreateService creates a service catalog row.
func (h *Handler) CreateService(w http.ResponseWriter, r *http.Request) {
	var req CreateServiceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.ServiceName == "" || req.Price == nil {
		writeError(w, http.StatusBadRequest, "service_name and price are required")
		return
	}
	if *req.Price < 0 {
		writeError(w, http.StatusBadRequest, "price must not be negative")
		return
	}

	svc, err := h.Store.InsertService(r.Context(), req.ServiceName, decimal.NewFromFloat(*req.Price), req.Freebies)
	if err != nil {
		writeDomainError(w, "Failed to create service", err)
		return
	}
	writeJSON(w, http.StatusCreated, toServiceDTO(*svc))
}

// UpdateService applies a partial update to a service row.
func (h *Handler) UpdateService(w http.ResponseWriter, r *http.Request) {
	var req UpdateServiceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	patch := sqlite.ServicePatch{Name: req.ServiceName, Freebies: req.Freebies}
	if req.Price != nil {
		price := decimal.NewFromFloat(*req.Price)
		patch.Price = &price
	}

	svc, err := h.Store.UpdateService(r.Context(), chi.URLParam(r, "id"), patch)
	if err != nil {
		writeDomainError(w, "Failed to update service", err)
		return
	}
	writeJSON(w, http.StatusOK, toServiceDTO(*svc))
}

// DeleteService removes a service row.
func (h *Handler) DeleteService(w http.ResponseWriter, r *http.Request) {
	if err := h.Store.DeleteService(r.Context(), chi.URLParam(r, "id")); err != nil {
		writeDomainError(w, "Failed to delete service", err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "service deleted"})
}

// =============================================================================
// INVENTORY HANDLERS
// =============================================================================

// ListInventory returns all inventory rows.
func (h *Handler) ListInventory(w http.ResponseWriter, r *http.Request) {
	items, err := h.Store.ListInventory(r.Context())
	if err != nil {
		writeServerError(w, "Failed to list inventory", err)
		return
	}

	dtos := make([]InventoryItemDTO, len(items))
	for i, item := range items {
		dtos[i] = toInventoryItemDTO(item)
	}
	writeJSON(w, http.StatusOK, dtos)
}

// UpsertInventory creates a new inventory row (201) or merges into an
// existing one by item name (200): price overwritten, stock added,
// classification merged only when supplied.
func (h *Handler) UpsertInventory(w http.ResponseWriter, r *http.Request) {
	var req UpsertInventoryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.ItemName == "" || req.Price == nil {
		writeError(w, http.StatusBadRequest, "item_name and price are required")
		return
	}
	if *req.Price < 0 {
		writeError(w, http.StatusBadRequest, "price must not be negative")
		return
	}

	stock := 0
	if req.Stock != nil {
		stock = *req.Stock
	}

	item, created, err := h.Store.UpsertItem(r.Context(), req.ItemName,
		decimal.NewFromFloat(*req.Price), stock, req.Classification)
	if err != nil {
		writeDomainError(w, "Failed to upsert inventory item", err)
		return
	}

	status := http.StatusOK
	if created {
		status = http.StatusCreated
	}
	writeJSON(w, status, toInventoryItemDTO(*item))
}

// UpdateInventory applies a partial update to an inventory row by id.
func (h *Handler) UpdateInventory(w http.ResponseWriter, r *http.Request) {
	var req UpdateInventoryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.Stock != nil && *req.Stock < 0 {
		writeError(w, http.StatusBadRequest, "stock must not be negative")
		return
	}

	patch := sqlite.InventoryPatch{
		Name:           req.ItemName,
		Stock:          req.Stock,
		Classification: req.Classification,
	}
	if req.Price != nil {
		price := decimal.NewFromFloat(*req.Price)
		patch.Price = &price
	}

	item, err := h.Store.UpdateInventoryItem(r.Context(), chi.URLParam(r, "id"), patch)
	if err != nil {
		writeDomainError(w, "Failed to update inventory item", err)
		return
	}
	writeJSON(w, http.StatusOK, toInventoryItemDTO(*item))
}

// DeleteInventory removes an inventory row.
func (h *Handler) DeleteInventory(w http.ResponseWriter, r *http.Request) {
	if err := h.Store.DeleteInventoryItem(r.Context(), chi.URLParam(r, "id")); err != nil {
		writeDomainError(w, "Failed to delete inventory item", err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "inventory item deleted"})
}

// =============================================================================
// OPEN SALE HANDLERS
// =============================================================================

// ListOpenSales returns open sales, optionally filtered by
// lowdate/highdate on created_at.
func (h *Handler) ListOpenSales(w http.ResponseWriter, r *http.Request) {
	low, high, err := parseDateRange(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	sales, err := h.Store.ListOpenSales(r.Context(), low, high)
	if err != nil {
		writeServerError(w, "Failed to list open sales", err)
		return
	}
	writeJSON(w, http.StatusOK, toSaleDTOs(sales))
}

// GetOpenSale returns a single open sale.
func (h *Handler) GetOpenSale(w http.ResponseWriter, r *http.Request) {
	rec, err := h.Store.GetOpenSale(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeServerError(w, "Failed to get open sale", err)
		return
	}
	if rec == nil {
		writeError(w, http.StatusNotFound, "Open sale not found")
		return
	}
	writeJSON(w, http.StatusOK, toSaleDTO(*rec))
}

// CreateOpenSale opens a new sale, deducting stock.
func (h *Handler) CreateOpenSale(w http.ResponseWriter, r *http.Request) {
	var req CreateSaleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	rec, err := h.Sales.CreateSale(r.Context(), req.InvoiceNumber, toLineItems(req.Items))
	if err != nil {
		writeDomainError(w, "Failed to create sale", err)
		return
	}
	writeJSON(w, http.StatusCreated, toSaleDTO(*rec))
}

// EditOpenSale replaces an open sale's item list, reconciling stock.
func (h *Handler) EditOpenSale(w http.ResponseWriter, r *http.Request) {
	var req EditSaleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	rec, err := h.Sales.EditSale(r.Context(), chi.URLParam(r, "id"), toLineItems(req.Items))
	if err != nil {
		writeDomainError(w, "Failed to edit sale", err)
		return
	}
	writeJSON(w, http.StatusOK, toSaleDTO(*rec))
}

// DeleteOpenSale removes an open sale, restocking its item lines.
func (h *Handler) DeleteOpenSale(w http.ResponseWriter, r *http.Request) {
	if err := h.Sales.DeleteOpenSale(r.Context(), chi.URLParam(r, "id")); err != nil {
		writeDomainError(w, "Failed to delete open sale", err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "open sale deleted and items restocked"})
}

// =============================================================================
// PAY / REVERT HANDLERS
// =============================================================================

// PaySale closes an open sale.
func (h *Handler) PaySale(w http.ResponseWriter, r *http.Request) {
	var req PaySaleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	rec, err := h.Sales.PaySale(r.Context(), chi.URLParam(r, "id"), req.PaidUsing)
	if err != nil {
		writeDomainError(w, "Failed to pay sale", err)
		return
	}
	writeJSON(w, http.StatusOK, PaySaleResponse{
		PaidAt:    rec.PaidAt.Format(time.RFC3339),
		PaidUsing: rec.PaidUsing,
	})
}

// RevertSale reopens a closed sale.
func (h *Handler) RevertSale(w http.ResponseWriter, r *http.Request) {
	if _, err := h.Sales.RevertSale(r.Context(), chi.URLParam(r, "id")); err != nil {
		writeDomainError(w, "Failed to revert sale", err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "sale reverted to open"})
}

// =============================================================================
// CLOSED SALE HANDLERS
// =============================================================================

// ListClosedSales returns closed sales, optionally filtered by
// lowdate/highdate on created_at.
func (h *Handler) ListClosedSales(w http.ResponseWriter, r *http.Request) {
	low, high, err := parseDateRange(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	sales, err := h.Store.ListClosedSales(r.Context(), low, high)
	if err != nil {
		writeServerError(w, "Failed to list closed sales", err)
		return
	}
	writeJSON(w, http.StatusOK, toSaleDTOs(sales))
}

// GetClosedSale returns a single closed sale.
func (h *Handler) GetClosedSale(w http.ResponseWriter, r *http.Request) {
	rec, err := h.Store.GetClosedSale(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeServerError(w, "Failed to get closed sale", err)
		return
	}
	if rec == nil {
		writeError(w, http.StatusNotFound, "Closed sale not found")
		return
	}
	writeJSON(w, http.StatusOK, toSaleDTO(*rec))
}

// DeleteClosedSale removes a closed sale. No restock: paid stock is
// consumed permanently.
func (h *Handler) DeleteClosedSale(w http.ResponseWriter, r *http.Request) {
	if err := h.Sales.DeleteClosedSale(r.Context(), chi.URLParam(r, "id")); err != nil {
		writeDomainError(w, "Failed to delete closed sale", err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "closed sale deleted"})
}

// =============================================================================
// HELPERS
// =============================================================================

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, ErrorResponse{Error: message})
}

// writeServerError hides the underlying error from the client.
func writeServerError(w http.ResponseWriter, message string, err error) {
	log.Printf("%s: %v", message, err)
	writeError(w, http.StatusInternalServerError, message)
}

// writeDomainError maps pos errors to HTTP status codes.
func writeDomainError(w http.ResponseWriter, message string, err error) {
	switch {
	case pos.IsNotFound(err):
		writeJSON(w, http.StatusNotFound, ErrorResponse{Error: message, Details: err.Error()})
	case pos.IsClientError(err):
		writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: message, Details: err.Error()})
	default:
		writeServerError(w, message, err)
	}
}

// parseDateRange reads optional lowdate/highdate query parameters.
// Accepts RFC3339 or YYYY-MM-DD; a date-only highdate covers the whole
// day.
func parseDateRange(r *http.Request) (low, high *time.Time, err error) {
	if v := r.URL.Query().Get("lowdate"); v != "" {
		t, _, perr := parseDate(v)
		if perr != nil {
			return nil, nil, perr
		}
		low = &t
	}
	if v := r.URL.Query().Get("highdate"); v != "" {
		t, dateOnly, perr := parseDate(v)
		if perr != nil {
			return nil, nil, perr
		}
		if dateOnly {
			t = t.Add(24*time.Hour - time.Second)
		}
		high = &t
	}
	return low, high, nil
}

func parseDate(v string) (time.Time, bool, error) {
	if t, err := time.Parse(time.RFC3339, v); err == nil {
		return t, false, nil
	}
	if t, err := time.Parse("2006-01-02", v); err == nil {
		return t, true, nil
	}
	return time.Time{}, false, &pos.InvalidInputError{
		Field:   "lowdate/highdate",
		Message: "dates must be RFC3339 or YYYY-MM-DD",
	}
}
