package server

import (
	"net/http"

	"github.com/montabano1/escape/internal/engine"
)

type HintRequest struct {
	ClueID     int    `json:"clueId"`
	PlayerName string `json:"playerName"`
}

type HintResponse struct {
	Success         bool `json:"success"`
	AlreadyUnlocked bool `json:"alreadyUnlocked,omitempty"`
}

func handleHint(eng *engine.Engine, broker *Broker) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req HintRequest
		if err := readJSON(r, &req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}

		result, err := eng.UseHint(r.Context(), engine.HintRequest{
			ClueID:     req.ClueID,
			PlayerName: req.PlayerName,
		})
		if err != nil {
			writeEngineError(w, err)
			return
		}

		if !result.AlreadyUnlocked {
			broker.Publish(Event{
				Type:       eventHintUnlocked,
				ClueID:     req.ClueID,
				PlayerName: req.PlayerName,
			})
		}

		writeJSON(w, http.StatusOK, HintResponse{
			Success:         result.Success,
			AlreadyUnlocked: result.AlreadyUnlocked,
		})
	}
}
