package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/google/uuid"

	"github.com/ppgllrd/contagion-sim/internal/sim"
)

// SimulatorView is the read-only surface of a running sim.Simulator the API
// layer depends on, kept minimal so tests can supply a fake instead of a
// real simulation.
type SimulatorView struct {
	RunID     uuid.UUID
	Snapshots *sim.SnapshotPool
	History   *sim.History
}

// RouterConfig carries every dependency NewRouter needs to build the
// handler tree, with no side effects of its own.
type RouterConfig struct {
	// ViewFunc returns the currently active simulation's read-only view, or
	// nil if none has started. Called fresh on every request so a run
	// started via POST /api/runs (or replacing ViewFunc's backing state) is
	// reflected immediately.
	ViewFunc func() *SimulatorView

	// Hub broadcasts snapshots to WebSocket subscribers.
	Hub *WebSocketHub

	// RateLimiter is optional; if nil, one is built from RateLimitConfig.
	RateLimiter *IPRateLimiter

	RateLimitConfig *RateLimitConfig

	CORSOrigins []string

	// StartRun, if non-nil, backs POST /api/runs: it starts a new
	// simulation from the posted Config and returns its run id.
	StartRun func(cfg sim.Config) (uuid.UUID, error)
}

// NewRouter builds the HTTP handler tree. It opens no listeners, so it is
// safe to pass directly to httptest.NewServer. When cfg.RateLimiter is nil
// it builds an IPRateLimiter, which starts that limiter's idle-IP cleanup
// goroutine; the router never stops it.
func NewRouter(cfg RouterConfig) *chi.Mux {
	r := chi.NewRouter()
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	limiter := cfg.RateLimiter
	if limiter == nil {
		rlCfg := DefaultRateLimitConfig
		if cfg.RateLimitConfig != nil {
			rlCfg = *cfg.RateLimitConfig
		}
		limiter = NewIPRateLimiter(rlCfg)
	}
	r.Use(limiter.Middleware)

	origins := cfg.CORSOrigins
	if origins == nil {
		origins = []string{"http://localhost:*", "http://127.0.0.1:*"}
	}
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: origins,
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"*"},
	}))

	h := &handlers{cfg: cfg}

	r.Route("/api", func(r chi.Router) {
		r.Get("/state", h.handleGetState)
		r.Get("/history", h.handleGetHistory)
		r.Post("/runs", h.handlePostRuns)
	})

	if cfg.Hub != nil {
		r.Get("/ws", cfg.Hub.HandleWebSocket)
	}

	r.Get("/", func(w http.ResponseWriter, req *http.Request) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		w.Write([]byte("contagion-sim API: see /api/state, /api/history, /ws"))
	})

	return r
}
