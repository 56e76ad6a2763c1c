package cmd

import (
	"testing"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/ppgllrd/contagion-sim/internal/api"
	"github.com/ppgllrd/contagion-sim/internal/sim"
)

func silentLogger() *logrus.Logger {
	log := logrus.New()
	log.SetLevel(logrus.PanicLevel)
	return log
}

func TestServer_ViewIsNilBeforeAnyRunStarts(t *testing.T) {
	srv := &server{log: silentLogger(), hub: api.NewWebSocketHub(logrus.NewEntry(silentLogger()))}
	if srv.view() != nil {
		t.Fatal("view() should be nil before startRun has been called")
	}
}

func TestServer_StartRunPublishesAViewForItsRunID(t *testing.T) {
	srv := &server{log: silentLogger(), hub: api.NewWebSocketHub(logrus.NewEntry(silentLogger()))}

	cfg := sim.DefaultConfig()
	cfg.PopulationSz = 5
	cfg.TimeLimit = 5
	cfg.Hz = 2

	runID, err := srv.startRun(cfg)
	if err != nil {
		t.Fatalf("startRun: %v", err)
	}

	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if v := srv.view(); v != nil && v.RunID == runID {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatal("view() never reflected the started run")
}

func TestServer_StartRunRejectsInvalidConfig(t *testing.T) {
	srv := &server{log: silentLogger(), hub: api.NewWebSocketHub(logrus.NewEntry(silentLogger()))}

	cfg := sim.DefaultConfig()
	cfg.Hz = 1000 // out of the [0, 60] range

	if _, err := srv.startRun(cfg); err == nil {
		t.Fatal("expected an error for an out-of-range config")
	}
}
