package api

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

func TestNewObservabilityMux_HealthEndpoint(t *testing.T) {
	mux := NewObservabilityMux()
	srv := httptest.NewServer(mux)
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/health")
	if err != nil {
		t.Fatalf("GET /health: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("got %d, want 200", resp.StatusCode)
	}
}

func TestNewObservabilityMux_MetricsEndpointExposesCounters(t *testing.T) {
	RecordTick(5 * time.Millisecond)
	IncrementEventsDispatched()
	UpdatePopulationGauges(10, 5, 3, 2)
	UpdateWSConnections(1)

	mux := NewObservabilityMux()
	srv := httptest.NewServer(mux)
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/metrics")
	if err != nil {
		t.Fatalf("GET /metrics: %v", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("read body: %v", err)
	}
	text := string(body)
	for _, want := range []string{
		"contagion_tick_duration_seconds",
		"contagion_events_dispatched_total",
		"contagion_population",
		"contagion_websocket_connections_active",
	} {
		if !strings.Contains(text, want) {
			t.Fatalf("metrics output missing %q", want)
		}
	}
}

func TestDefaultObservabilityConfig_BindsLoopbackOnly(t *testing.T) {
	cfg := DefaultObservabilityConfig()
	if !cfg.Enabled {
		t.Fatal("default observability config should be enabled")
	}
	if cfg.ListenAddr != "127.0.0.1:6061" {
		t.Fatalf("ListenAddr = %q, want loopback", cfg.ListenAddr)
	}
}
