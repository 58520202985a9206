package httpops

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	// Registers the bot collectors on the default registry.
	_ "github.com/Smacktur/adg-info-bot/internal/observability"
)

func TestHealth(t *testing.T) {
	r := NewRouter()
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}
	if !strings.Contains(w.Body.String(), `"ok"`) {
		t.Fatalf("body = %s", w.Body.String())
	}
}

func TestMetricsExposesBotCollectors(t *testing.T) {
	r := NewRouter()
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}
	if !strings.Contains(w.Body.String(), "statusbot_updates_processed_total") {
		t.Fatal("bot collectors missing from /metrics")
	}
}

func TestNewServer_Timeouts(t *testing.T) {
	srv := NewServer("8081", NewRouter())
	if srv.Addr != ":8081" {
		t.Fatalf("addr = %q", srv.Addr)
	}
	if srv.ReadTimeout <= 0 || srv.WriteTimeout <= 0 {
		t.Fatal("server must enforce timeouts")
	}
}
