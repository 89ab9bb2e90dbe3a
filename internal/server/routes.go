package server

import (
	"database/sql"
	"log/slog"

	"github.com/go-chi/chi/v5"
	"github.com/swaggest/swgui/v5emb"

	"github.com/montabano1/escape/internal/engine"
	"github.com/montabano1/escape/internal/store"
)

func addRoutes(r chi.Router, logger *slog.Logger, eng *engine.Engine, docs *store.DocStore, db *sql.DB, adminHash string, defaults ResetDefaults) {
	broker := NewBroker()

	r.Get("/openapi.json", handleOpenAPI())
	r.Mount("/docs", v5emb.New("Escape Room API", "/openapi.json", "/docs"))
	r.Get("/healthz", handleHealth(logger, db))
	r.Get("/ws/watch", handleWatch(logger, broker))

	r.Route("/api/game", func(r chi.Router) {
		r.Get("/state", handleGameState(docs))
		r.Post("/guess", handleGuess(eng, broker))
		r.Post("/hint", handleHint(eng, broker))
		r.Post("/reveal", handleReveal(eng, broker))
		r.Get("/events", handleEvents(broker))
	})

	// Provisioning is an operator action; without a configured password hash
	// the endpoint does not exist.
	if adminHash != "" {
		r.Post("/api/admin/reset", handleAdminReset(logger, docs, broker, adminHash, defaults))
	}
}
