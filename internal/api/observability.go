package api

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics exposed on the observability endpoint.
var (
	tickDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "contagion_tick_duration_seconds",
		Help:    "Time spent advancing the simulation between two dispatched events",
		Buckets: []float64{0.00001, 0.0001, 0.001, 0.01, 0.1},
	})

	eventsDispatched = promauto.NewCounter(prometheus.CounterOpts{
		Name: "contagion_events_dispatched_total",
		Help: "Total events popped and executed by the dispatch loop",
	})

	populationGauge = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Name: "contagion_population",
		Help: "Current population count by health state",
	}, []string{"health"}) // bounded: susceptible|infected|recovered|dead

	wsConnectionsActive = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "contagion_websocket_connections_active",
		Help: "Currently active WebSocket subscribers",
	})

	connectionsRejected = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "contagion_connections_rejected_total",
		Help: "Connections rejected by a rate limiter",
	}, []string{"reason"})
)

// ObservabilityConfig configures the loopback-only metrics/health server.
type ObservabilityConfig struct {
	Enabled    bool
	ListenAddr string
}

// DefaultObservabilityConfig binds to localhost only.
func DefaultObservabilityConfig() ObservabilityConfig {
	return ObservabilityConfig{Enabled: true, ListenAddr: "127.0.0.1:6061"}
}

// NewObservabilityMux returns a handler exposing /metrics and /health,
// separate from the public API router so it can be bound to loopback only.
func NewObservabilityMux() http.Handler {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})
	return mux
}

// RecordTick observes the wall-clock time spent between two dispatched
// events.
func RecordTick(d time.Duration) { tickDuration.Observe(d.Seconds()) }

// IncrementEventsDispatched counts one executed event.
func IncrementEventsDispatched() { eventsDispatched.Inc() }

// UpdatePopulationGauges sets the four bounded-cardinality population
// gauges from a tally.
func UpdatePopulationGauges(susceptible, infected, recovered, dead int) {
	populationGauge.WithLabelValues("susceptible").Set(float64(susceptible))
	populationGauge.WithLabelValues("infected").Set(float64(infected))
	populationGauge.WithLabelValues("recovered").Set(float64(recovered))
	populationGauge.WithLabelValues("dead").Set(float64(dead))
}

// UpdateWSConnections sets the active-subscriber gauge.
func UpdateWSConnections(n int) { wsConnectionsActive.Set(float64(n)) }
