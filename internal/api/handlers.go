package api

import (
	"encoding/json"
	"net/http"

	"github.com/ppgllrd/contagion-sim/internal/sim"
)

type handlers struct {
	cfg RouterConfig
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

// handleGetState returns the most recently published snapshot of the
// active simulation.
func (h *handlers) handleGetState(w http.ResponseWriter, r *http.Request) {
	view := h.currentView()
	if view == nil {
		writeError(w, http.StatusNotFound, "no active simulation")
		return
	}
	snap := view.Snapshots.AcquireRead()
	writeJSON(w, http.StatusOK, newSnapshotDTO(snap))
}

// handleGetHistory returns the full population time-series recorded so far.
func (h *handlers) handleGetHistory(w http.ResponseWriter, r *http.Request) {
	view := h.currentView()
	if view == nil {
		writeError(w, http.StatusNotFound, "no active simulation")
		return
	}
	writeJSON(w, http.StatusOK, newHistoryDTO(view.History))
}

func (h *handlers) currentView() *SimulatorView {
	if h.cfg.ViewFunc == nil {
		return nil
	}
	return h.cfg.ViewFunc()
}

// handlePostRuns starts a new simulation from the posted Config.
func (h *handlers) handlePostRuns(w http.ResponseWriter, r *http.Request) {
	if h.cfg.StartRun == nil {
		writeError(w, http.StatusServiceUnavailable, "this server does not accept new runs")
		return
	}

	cfg := sim.DefaultConfig()
	if r.ContentLength != 0 {
		if err := json.NewDecoder(r.Body).Decode(&cfg); err != nil {
			writeError(w, http.StatusBadRequest, "invalid config: "+err.Error())
			return
		}
	}

	runID, err := h.cfg.StartRun(cfg)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	writeJSON(w, http.StatusAccepted, map[string]string{"run_id": runID.String()})
}
