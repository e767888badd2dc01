/*
server.go - HTTP router and middleware configuration

PURPOSE:
  Configures the HTTP router (chi), middleware stack, and route definitions.
  This is the wiring layer that connects URLs to handlers.

ROUTER: chi
  Chi was chosen for:
  - Lightweight and fast
  - Context-based
  - Middleware support
  - RESTful route patterns

MIDDLEWARE STACK:
  1. Logger:     Request logging
  2. Recoverer:  Panic recovery (500 instead of crash)
  3. RequestID:  Unique ID per request for tracing
  4. CORS:       Cross-origin requests for the dashboard frontend

ROUTE GROUPS:
  /api/products/*    Product listings, stats and profiles
  /api/groups/*      Product-group profiles
  /api/people/*      Person rate queries
  /api/demo/*        Demo portfolio loader (dev only)

SECURITY NOTE:
  No authentication middleware. The engine is a read-only reporting
  surface intended to sit behind an internal gateway.

SEE ALSO:
  - handlers.go: Handler implementations
  - cmd/server/main.go: Server startup
*/
package api

import (
	"net/http"

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
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
	}))

	// API routes
	r.Route("/api", func(r chi.Router) {
		// Product routes
		r.Route("/products", func(r chi.Router) {
			r.Get("/", h.ListProducts)
			r.Get("/{id}", h.GetProduct)
			r.Get("/{id}/stats", h.GetProductStats)
			r.Get("/{id}/cost", h.GetProductCost)
			r.Get("/{id}/profile", h.GetProductProfile)
		})

		// Group routes
		r.Route("/groups", func(r chi.Router) {
			r.Get("/{id}/profile", h.GetGroupProfile)
		})

		// Person routes
		r.Route("/people", func(r chi.Router) {
			r.Get("/{id}/rate", h.GetPersonRate)
		})

		// Demo routes
		r.Route("/demo", func(r chi.Router) {
			r.Post("/load", h.LoadDemo)
		})
	})

	r.Get("/", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		w.Write([]byte(`<!DOCTYPE html>
<html>
<head><title>Warp Cost Engine</title></head>
<body style="font-family: system-ui; max-width: 800px; margin: 50px auto; padding: 20px;">
<h1>Warp Cost Engine API</h1>
<h2>API Endpoints</h2>
<ul>
<li><a href="/api/products">/api/products</a> - List products</li>
<li>/api/products/{id}/stats?start=2016-01-01&amp;end=2016-01-31 - Cost breakdown</li>
<li>/api/products/{id}/profile?frequency=MS - Monthly profile</li>
<li>/api/groups/{id}/profile?frequency=MS - Group profile</li>
<li>/api/people/{id}/rate?start=2016-01-01&amp;end=2016-01-31 - Daily rate</li>
</ul>
<p>POST /api/demo/load seeds a sample portfolio.</p>
</body>
</html>`))
	})

	return r
}
