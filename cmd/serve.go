package cmd

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/ppgllrd/contagion-sim/internal/api"
	"github.com/ppgllrd/contagion-sim/internal/render"
	"github.com/ppgllrd/contagion-sim/internal/sim"
)

var serveListenAddr string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run a simulation and serve its state over HTTP and WebSocket",
	RunE:  runServe,
}

func init() {
	serveCmd.Flags().StringVar(&serveListenAddr, "listen", "", "HTTP listen address (overrides config)")
}

// server owns the currently active simulation and satisfies
// api.RouterConfig.StartRun, letting POST /api/runs replace it with a
// fresh one.
type server struct {
	mu  sync.RWMutex
	sim *sim.Simulator
	hub *api.WebSocketHub
	log *logrus.Logger
}

func (srv *server) view() *api.SimulatorView {
	srv.mu.RLock()
	defer srv.mu.RUnlock()
	if srv.sim == nil {
		return nil
	}
	return &api.SimulatorView{RunID: srv.sim.RunID(), Snapshots: srv.sim.Snapshots(), History: srv.sim.History()}
}

func (srv *server) startRun(cfg sim.Config) (uuid.UUID, error) {
	s, err := sim.New(cfg, render.NullRenderer{}, srv.log)
	if err != nil {
		return uuid.UUID{}, err
	}

	s.OnRedraw = func(snap *sim.Snapshot) {
		srv.hub.BroadcastSnapshot(api.NewSnapshotDTO(snap))
		api.UpdatePopulationGauges(snap.Tally.Susceptible, snap.Tally.Infected, snap.Tally.Recovered, snap.Tally.Dead)
	}
	s.OnDispatch = func(d time.Duration) {
		api.RecordTick(d)
		api.IncrementEventsDispatched()
	}

	srv.mu.Lock()
	srv.sim = s
	srv.mu.Unlock()

	go func() {
		if err := s.Simulate(context.Background()); err != nil {
			srv.log.WithError(err).Warn("simulation run ended early")
		}
	}()

	return s.RunID(), nil
}

func runServe(cmd *cobra.Command, args []string) error {
	appCfg, err := resolveAppConfig()
	if err != nil {
		return err
	}
	if cmd.Flags().Changed("listen") {
		appCfg.Server.ListenAddr = serveListenAddr
	}
	log := configureLogging(appCfg)

	srv := &server{log: log, hub: api.NewWebSocketHub(log.WithField("component", "websocket"))}
	stopHub := make(chan struct{})
	go srv.hub.Run(stopHub)
	defer close(stopHub)

	if _, err := srv.startRun(appCfg.Sim); err != nil {
		return err
	}

	router := api.NewRouter(api.RouterConfig{
		ViewFunc:    srv.view,
		Hub:         srv.hub,
		CORSOrigins: appCfg.Server.CORSOrigins,
		StartRun:    srv.startRun,
	})

	if appCfg.Observability.Enabled {
		go func() {
			obsMux := api.NewObservabilityMux()
			if err := http.ListenAndServe(appCfg.Observability.ListenAddr, obsMux); err != nil {
				log.WithError(err).Warn("observability server stopped")
			}
		}()
	}

	log.Infof("contagion-sim serving on %s", appCfg.Server.ListenAddr)
	return http.ListenAndServe(appCfg.Server.ListenAddr, router)
}
