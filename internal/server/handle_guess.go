package server

import (
	"net/http"

	"github.com/montabano1/escape/internal/engine"
)

type GuessRequest struct {
	ClueID     int    `json:"clueId"`
	Guess      string `json:"guess"`
	PlayerName string `json:"playerName"`
}

type GuessResponse struct {
	Correct       bool `json:"correct"`
	AlreadySolved bool `json:"alreadySolved,omitempty"`
}

func handleGuess(eng *engine.Engine, broker *Broker) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req GuessRequest
		if err := readJSON(r, &req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}

		result, err := eng.SubmitGuess(r.Context(), engine.GuessRequest{
			ClueID:     req.ClueID,
			Guess:      req.Guess,
			PlayerName: req.PlayerName,
		})
		if err != nil {
			writeEngineError(w, err)
			return
		}

		broker.Publish(Event{
			Type:       eventGuess,
			ClueID:     req.ClueID,
			PlayerName: req.PlayerName,
			Correct:    result.Correct,
		})
		if result.Correct {
			broker.Publish(Event{
				Type:       eventClueSolved,
				ClueID:     req.ClueID,
				PlayerName: req.PlayerName,
			})
		}

		writeJSON(w, http.StatusOK, GuessResponse{
			Correct:       result.Correct,
			AlreadySolved: result.AlreadySolved,
		})
	}
}
