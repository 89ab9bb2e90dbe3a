package server

import (
	"errors"
	"net/http"

	"github.com/montabano1/escape/internal/engine"
	"github.com/montabano1/escape/internal/store"
)

// feedLimit caps the activity feed at the most recent entries, newest first.
const feedLimit = 25

type GameStateResponse struct {
	Game  engine.GameState    `json:"game"`
	Clues []engine.ClueRecord `json:"clues"`
	Feed  []engine.GuessEntry `json:"feed"`
}

func handleGameState(docs *store.DocStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		game, err := docs.Game(r.Context())
		if errors.Is(err, engine.ErrNotFound) {
			writeError(w, http.StatusNotFound, "game not provisioned")
			return
		}
		if err != nil {
			writeError(w, http.StatusInternalServerError, "internal error")
			return
		}

		records, err := docs.AllClues(r.Context())
		if err != nil {
			writeError(w, http.StatusInternalServerError, "internal error")
			return
		}

		feed, err := docs.RecentGuesses(r.Context(), feedLimit)
		if err != nil {
			writeError(w, http.StatusInternalServerError, "internal error")
			return
		}

		resp := GameStateResponse{
			Game:  game,
			Clues: records,
			Feed:  feed,
		}
		if resp.Clues == nil {
			resp.Clues = []engine.ClueRecord{}
		}
		if resp.Feed == nil {
			resp.Feed = []engine.GuessEntry{}
		}

		writeJSON(w, http.StatusOK, resp)
	}
}
