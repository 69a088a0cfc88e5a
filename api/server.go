/*
server.go - HTTP router and middleware configuration

PURPOSE:
  Configures the HTTP router (chi), middleware stack, and route definitions.
  This is the wiring layer that connects URLs to handlers.

MIDDLEWARE STACK:
  1. Logger:     Request logging
  2. Recoverer:  Panic recovery (500 instead of crash)
  3. RequestID:  Unique ID per request for tracing
  4. CORS:       Cross-origin requests for the frontend

CORS:
  The allowed origin comes from configuration so the same binary serves
  local development and the deployed frontend. Only GET and POST are
  exposed; the API has no mutating verbs beyond POST.

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
func NewRouter(h *Handler, allowedOrigin string) *chi.Mux {
	r := chi.NewRouter()

	// Middleware
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{allowedOrigin},
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type"},
	}))

	r.Get("/", h.Hello)

	// Store introspection
	r.Get("/listSubcollections", h.ListSubcollections)

	// Aggregated views
	r.Get("/getUserExpenses", h.GetUserExpenses)
	r.Get("/getAllUserExpenses", h.GetAllUserExpenses)
	r.Get("/fetchExpenses", h.FetchExpenses)
	r.Get("/expenses/summary", h.ExpensesSummary)

	// Per-user month routes
	r.Route("/user/{userId}", func(r chi.Router) {
		r.Get("/month/{month}", h.GetUserMonth)
		r.Post("/approve/{month}", h.ApproveMonth)
		r.Post("/reject/{month}", h.RejectMonth)
	})

	return r
}
