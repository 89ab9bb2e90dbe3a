package server

import (
	"net/http"

	"github.com/montabano1/escape/internal/engine"
)

type RevealRequest struct {
	ClueID     int    `json:"clueId"`
	PlayerName string `json:"playerName"`
}

type RevealResponse struct {
	Success       bool `json:"success"`
	AlreadySolved bool `json:"alreadySolved,omitempty"`
}

func handleReveal(eng *engine.Engine, broker *Broker) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req RevealRequest
		if err := readJSON(r, &req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}

		result, err := eng.RevealSolution(r.Context(), engine.RevealRequest{
			ClueID:     req.ClueID,
			PlayerName: req.PlayerName,
		})
		if err != nil {
			writeEngineError(w, err)
			return
		}

		if !result.AlreadySolved {
			broker.Publish(Event{
				Type:       eventClueSolved,
				ClueID:     req.ClueID,
				PlayerName: req.PlayerName,
			})
		}

		writeJSON(w, http.StatusOK, RevealResponse{
			Success:       result.Success,
			AlreadySolved: result.AlreadySolved,
		})
	}
}
