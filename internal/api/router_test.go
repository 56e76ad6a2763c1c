package api

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"

	"github.com/ppgllrd/contagion-sim/internal/sim"
)

func fakeView() *SimulatorView {
	pool := sim.NewSnapshotPool(2)
	w := pool.AcquireWrite()
	w.Time = 1.5
	w.Tally = sim.Tally{Total: 2, Susceptible: 1, Infected: 1}
	w.Individuals = append(w.Individuals, sim.IndividualSnapshot{ID: 0, X: 1, Y: 2, Health: sim.Susceptible})
	pool.PublishWrite()

	return &SimulatorView{
		RunID:     uuid.New(),
		Snapshots: pool,
		History:   sim.NewHistory(10),
	}
}

func TestHandleGetState_NoActiveSimulationReturns404(t *testing.T) {
	router := NewRouter(RouterConfig{ViewFunc: func() *SimulatorView { return nil }})
	srv := httptest.NewServer(router)
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/api/state")
	if err != nil {
		t.Fatalf("GET /api/state: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("got %d, want 404", resp.StatusCode)
	}
}

func TestHandleGetState_ReturnsLatestSnapshot(t *testing.T) {
	view := fakeView()
	router := NewRouter(RouterConfig{ViewFunc: func() *SimulatorView { return view }})
	srv := httptest.NewServer(router)
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/api/state")
	if err != nil {
		t.Fatalf("GET /api/state: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("got %d, want 200", resp.StatusCode)
	}

	var dto SnapshotDTO
	if err := json.NewDecoder(resp.Body).Decode(&dto); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if dto.Time != 1.5 || len(dto.Individuals) != 1 || dto.Tally.Total != 2 {
		t.Fatalf("unexpected dto: %+v", dto)
	}
}

func TestHandleGetHistory_ReturnsSeries(t *testing.T) {
	view := fakeView()
	view.History.Record(0, 50, 50)
	router := NewRouter(RouterConfig{ViewFunc: func() *SimulatorView { return view }})
	srv := httptest.NewServer(router)
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/api/history")
	if err != nil {
		t.Fatalf("GET /api/history: %v", err)
	}
	defer resp.Body.Close()

	var dto HistoryDTO
	if err := json.NewDecoder(resp.Body).Decode(&dto); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if dto.Resolution != sim.HistoryResolution || dto.PercentInfected[0] != 50 {
		t.Fatalf("unexpected dto: %+v", dto)
	}
}

func TestHandlePostRuns_WithoutStartRunIsUnavailable(t *testing.T) {
	router := NewRouter(RouterConfig{ViewFunc: func() *SimulatorView { return nil }})
	srv := httptest.NewServer(router)
	defer srv.Close()

	resp, err := http.Post(srv.URL+"/api/runs", "application/json", nil)
	if err != nil {
		t.Fatalf("POST /api/runs: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusServiceUnavailable {
		t.Fatalf("got %d, want 503", resp.StatusCode)
	}
}

func TestHandlePostRuns_StartsRunAndReturnsID(t *testing.T) {
	wantID := uuid.New()
	var gotCfg sim.Config

	router := NewRouter(RouterConfig{
		ViewFunc: func() *SimulatorView { return nil },
		StartRun: func(cfg sim.Config) (uuid.UUID, error) {
			gotCfg = cfg
			return wantID, nil
		},
	})
	srv := httptest.NewServer(router)
	defer srv.Close()

	body, _ := json.Marshal(map[string]any{"Seed": int64(7), "PopulationSz": 10})
	resp, err := http.Post(srv.URL+"/api/runs", "application/json", bytes.NewReader(body))
	if err != nil {
		t.Fatalf("POST /api/runs: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusAccepted {
		t.Fatalf("got %d, want 202", resp.StatusCode)
	}

	var out map[string]string
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if out["run_id"] != wantID.String() {
		t.Fatalf("run_id = %q, want %q", out["run_id"], wantID.String())
	}
	if gotCfg.Seed != 7 || gotCfg.PopulationSz != 10 {
		t.Fatalf("StartRun did not receive the posted config: %+v", gotCfg)
	}
}

func TestRouter_RootServesPlainText(t *testing.T) {
	router := NewRouter(RouterConfig{ViewFunc: func() *SimulatorView { return nil }})
	srv := httptest.NewServer(router)
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/")
	if err != nil {
		t.Fatalf("GET /: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("got %d, want 200", resp.StatusCode)
	}
}
