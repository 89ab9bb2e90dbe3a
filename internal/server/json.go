package server

import (
	"encoding/json"
	"net/http"

	"github.com/montabano1/escape/internal/engine"
)

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func readJSON(r *http.Request, v any) error {
	defer r.Body.Close()
	return json.NewDecoder(r.Body).Decode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

// writeEngineError maps engine failure kinds onto HTTP statuses. Anything
// unkinded is an internal error and never leaks its message.
func writeEngineError(w http.ResponseWriter, err error) {
	switch engine.KindOf(err) {
	case engine.KindInvalidArgument:
		writeError(w, http.StatusBadRequest, err.Error())
	case engine.KindNotFound:
		writeError(w, http.StatusNotFound, err.Error())
	case engine.KindFailedPrecondition:
		writeError(w, http.StatusConflict, err.Error())
	default:
		writeError(w, http.StatusInternalServerError, "internal error")
	}
}
