package server

import (
	"net/http"
	"testing"

	"github.com/montabano1/escape/internal/engine"
)

func TestHealthEndpoint(t *testing.T) {
	app := newTestApp(t, engine.Rules{}, false)

	w := app.do(t, http.MethodGet, "/healthz", "")
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", w.Code, w.Body.String())
	}
	resp := decode[HealthResponse](t, w)
	if resp["sqlite"].Status != "ok" {
		t.Fatalf("response = %+v, want sqlite ok", resp)
	}
}

func TestHealthEndpointClosedDatabase(t *testing.T) {
	app := newTestApp(t, engine.Rules{}, false)
	app.db.Close()

	w := app.do(t, http.MethodGet, "/healthz", "")
	if w.Code != http.StatusServiceUnavailable {
		t.Fatalf("status = %d, want 503 (body %s)", w.Code, w.Body.String())
	}
	resp := decode[HealthResponse](t, w)
	if resp["sqlite"].Status != "error" {
		t.Fatalf("response = %+v, want sqlite error", resp)
	}
}
