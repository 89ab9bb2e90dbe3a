package server

import (
	"log/slog"
	"net/http"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/montabano1/escape/internal/store"
)

// AdminResetRequest re-provisions the game: fresh counters, all clues
// unsolved, empty guess log. Times default to now and now+duration when
// omitted.
type AdminResetRequest struct {
	Password  string `json:"password"`
	Title     string `json:"title,omitempty"`
	StartTime string `json:"startTime,omitempty"`
	EndTime   string `json:"endTime,omitempty"`
}

type AdminResetResponse struct {
	Provisioned bool   `json:"provisioned"`
	StartTime   string `json:"startTime"`
	EndTime     string `json:"endTime"`
}

func handleAdminReset(logger *slog.Logger, docs *store.DocStore, broker *Broker, adminHash string, defaults ResetDefaults) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req AdminResetRequest
		if err := readJSON(r, &req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}

		if err := bcrypt.CompareHashAndPassword([]byte(adminHash), []byte(req.Password)); err != nil {
			writeError(w, http.StatusUnauthorized, "invalid credentials")
			return
		}

		title := req.Title
		if title == "" {
			title = defaults.Title
		}

		start := time.Now()
		if req.StartTime != "" {
			t, err := time.Parse(time.RFC3339, req.StartTime)
			if err != nil {
				writeError(w, http.StatusBadRequest, "startTime must be RFC 3339")
				return
			}
			start = t
		}
		end := start.Add(defaults.Duration)
		if req.EndTime != "" {
			t, err := time.Parse(time.RFC3339, req.EndTime)
			if err != nil {
				writeError(w, http.StatusBadRequest, "endTime must be RFC 3339")
				return
			}
			end = t
		}
		if !end.After(start) {
			writeError(w, http.StatusBadRequest, "endTime must be after startTime")
			return
		}

		params := store.ProvisionParams{Title: title, StartTime: start, EndTime: end}
		if err := docs.Provision(r.Context(), params); err != nil {
			logger.Error("provisioning failed", "error", err)
			writeError(w, http.StatusInternalServerError, "internal error")
			return
		}

		logger.Info("game provisioned",
			"title", title,
			"startTime", start.UTC().Format(time.RFC3339),
			"endTime", end.UTC().Format(time.RFC3339),
		)
		broker.Publish(Event{Type: eventGameReset})

		writeJSON(w, http.StatusOK, AdminResetResponse{
			Provisioned: true,
			StartTime:   start.UTC().Format(time.RFC3339),
			EndTime:     end.UTC().Format(time.RFC3339),
		})
	}
}
