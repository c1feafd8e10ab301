// Package httpapi exposes the record store and the chat relay over JSON/HTTP.
package httpapi

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"campus-lostfound/internal/relay"
	"campus-lostfound/internal/store"
)

// NewRouter wires HTTP routes to the store and the relay.
func NewRouter(st *store.Store, rl *relay.Relay) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		respondJSON(w, http.StatusOK, map[string]any{
			"status":        "ok",
			"ai_configured": rl.Configured(),
		})
	})

	itemsHandler := NewItemsHandler(st)
	chatHandler := NewChatHandler(rl)

	r.Route("/api", func(api chi.Router) {
		itemsHandler.RegisterRoutes(api)
		chatHandler.RegisterRoutes(api)
	})

	return r
}
