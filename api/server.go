/*
server.go - HTTP router and middleware configuration

PURPOSE:
  Configures the chi router, middleware stack, and route definitions.
  This is the wiring layer that connects URLs to handlers.

MIDDLEWARE STACK:
  1. Logger:     Request logging
  2. Recoverer:  Panic recovery (500 instead of crash)
  3. RequestID:  Unique ID per request for tracing
  4. CORS:       Cross-origin requests for the frontend

ROUTE GROUPS:
  /api/health          Liveness check
  /api/services/*      Service catalog CRUD
  /api/inventory/*     Inventory catalog CRUD + upsert
  /api/open-sales/*    Open sale lifecycle
  /api/closed-sales/*  Closed sale retrieval/deletion
  /api/pay-sale/*      Open -> Closed transition
  /api/revert-sale/*   Closed -> Open transition

SECURITY NOTE:
  No authentication middleware. All endpoints are public.

SEE ALSO:
  - handlers.go: Handler implementations
  - cmd/server/main.go: Server startup
*/
package api

import (
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

// NewRouter creates a new router with all routes configured.
func NewRouter(h *Handler) *chi.Mux {
	r := chi.NewRouter()

	// Middleware
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"http://localhost:5173", "http://localhost:8080"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
	}))

	// API routes
	r.Route("/api", func(r chi.Router) {
		r.Get("/health", h.Health)

		r.Route("/services", func(r chi.Router) {
			r.Get("/", h.ListServices)
			r.Post("/", h.CreateService)
			r.Get("/{id}", h.GetService)
			r.Put("/{id}", h.UpdateService)
			r.Delete("/{id}", h.DeleteService)
		})

		r.Route("/inventory", func(r chi.Router) {
			r.Get("/", h.ListInventory)
			r.Post("/", h.UpsertInventory)
			r.Put("/{id}", h.UpdateInventory)
			r.Delete("/{id}", h.DeleteInventory)
		})

		r.Route("/open-sales", func(r chi.Router) {
			r.Get("/", h.ListOpenSales)
			r.Post("/", h.CreateOpenSale)
			r.Get("/{id}", h.GetOpenSale)
			r.Put("/{id}", h.EditOpenSale)
			r.Delete("/{id}", h.DeleteOpenSale)
		})

		r.Post("/pay-sale/{id}", h.PaySale)
		r.Post("/revert-sale/{id}", h.RevertSale)

		r.Route("/closed-sales", func(r chi.Router) {
			r.Get("/", h.ListClosedSales)
			r.Get("/{id}", h.GetClosedSale)
			r.Delete("/{id}", h.DeleteClosedSale)
		})
	})

	return r
}
