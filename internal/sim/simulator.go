package sim

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/ppgllrd/contagion-sim/internal/render"
	"github.com/ppgllrd/contagion-sim/internal/rng"
)

// redrawPeriodFloor is the wall-clock budget the dispatch loop tries to keep
// consecutive Redraw dispatches within, capping the refresh rate near 100Hz
// regardless of how fast simulated time is advancing.
const redrawPeriodFloor = 10 * time.Millisecond

// chartWidth and chartHeight bound the history sparkline drawn in the
// top-left corner of every frame.
const (
	chartWidth  = 160.0
	chartHeight = 40.0
	chartMargin = 8.0
)

// Simulator owns the entire mutable simulation state: the population, the
// event queue, the RNG, and the clock. Exactly one goroutine — the one
// running Simulate — ever mutates it; every other reader goes through a
// published Snapshot.
type Simulator struct {
	cfg Config

	individuals []*Individual
	queue       *EventQueue
	rng         *rng.RNG
	clock       float64

	history   *History
	snapshots *SnapshotPool
	renderer  render.Renderer

	lastRedrawAt time.Time

	runID    uuid.UUID
	log      *logrus.Entry
	recorder *EventRecorder

	// OnDispatch, if non-nil, is called once after every executed event
	// with how long the step between the previous and this event took to
	// process. Used by cmd serve to feed the tick-duration/events-dispatched
	// metrics in internal/api without internal/sim importing internal/api.
	OnDispatch func(stepDuration time.Duration)

	// OnRedraw, if non-nil, is called once per Redraw event right after its
	// Snapshot is published, before the Renderer runs. Lets a transport
	// layer (internal/api's WebSocket hub) observe every frame without
	// implementing the Renderer/GraphicsContext drawing contract.
	OnRedraw func(snap *Snapshot)
}

// SetEventRecorder attaches a recorder that receives one RecordedFrame per
// Redraw event. Pass nil to stop recording.
func (s *Simulator) SetEventRecorder(r *EventRecorder) { s.recorder = r }

// New constructs a Simulator from cfg, validating it and placing the
// initial population. renderer may be nil, in which case a NullRenderer is
// used. log may be nil, in which case a silent logger is used.
func New(cfg Config, renderer render.Renderer, log *logrus.Logger) (*Simulator, error) {
	cfg = cfg.withDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if renderer == nil {
		renderer = render.NullRenderer{}
	}
	if log == nil {
		log = logrus.New()
		log.SetLevel(logrus.PanicLevel)
	}

	runID := uuid.New()
	s := &Simulator{
		cfg:       cfg,
		queue:     NewEventQueue(cfg.TimeLimit),
		rng:       rng.New(cfg.Seed),
		history:   NewHistory(cfg.TimeLimit),
		snapshots: NewSnapshotPool(cfg.PopulationSz),
		renderer:  renderer,
		runID:     runID,
		log:       log.WithField("run_id", runID.String()),
	}

	individuals, err := s.placePopulation()
	if err != nil {
		return nil, err
	}
	s.individuals = individuals
	s.initialize()
	return s, nil
}

// RunID identifies this simulation instance, used by the HTTP API to
// correlate a run with its snapshots and history.
func (s *Simulator) RunID() uuid.UUID { return s.runID }

// History exposes the recorded population time-series, valid to read only
// after Simulate has returned.
func (s *Simulator) History() *History { return s.history }

// Snapshots exposes the lock-free snapshot handoff, safe to read
// concurrently with Simulate.
func (s *Simulator) Snapshots() *SnapshotPool { return s.snapshots }

// placePopulation places cfg.PopulationSz individuals via rejection
// sampling: draw a candidate position, accept it only if it overlaps no
// previously placed individual. Gives up and returns *InitError once
// cfg.MaxPlacementAttempts consecutive rejections occur.
func (s *Simulator) placePopulation() ([]*Individual, error) {
	individuals := make([]*Individual, 0, s.cfg.PopulationSz)
	attempts := 0
	for len(individuals) < s.cfg.PopulationSz {
		candidate := NewRandomIndividual(len(individuals), s.rng, s.cfg.Arena, s.cfg.Radius, s.cfg.VelocitySigma)
		candidate.Mass = s.cfg.Mass

		overlaps := false
		for _, other := range individuals {
			if candidate.CollidesWith(other) {
				overlaps = true
				break
			}
		}
		if overlaps {
			attempts++
			if attempts >= s.cfg.MaxPlacementAttempts {
				return nil, &InitError{PopulationSz: s.cfg.PopulationSz, Attempts: attempts}
			}
			continue
		}
		attempts = 0
		individuals = append(individuals, candidate)
	}
	return individuals, nil
}

// initialize seeds patient zero, schedules the initial collision and wall
// events for every individual, and schedules the first Redraw if Hz > 0.
func (s *Simulator) initialize() {
	if len(s.individuals) > 0 {
		patientZero := s.individuals[s.rng.UniformInt(len(s.individuals))]
		s.infect(patientZero)
	}

	for _, ind := range s.individuals {
		s.predictCollisions(ind)
	}

	if s.cfg.Hz > 0 {
		s.queue.Enqueue(NewRedrawEvent(0, s.queue.NextSeq()))
	}
}

// infectionDuration draws how long an infection lasts: Normal(TimeInfectious, 1).
func (s *Simulator) infectionDuration() float64 {
	return s.rng.Normal(s.cfg.TimeInfectious, 1)
}

// infect transitions ind to Infected and schedules its EndInfectionEvent.
func (s *Simulator) infect(ind *Individual) {
	ind.Infect()
	s.queue.Enqueue(NewEndInfectionEvent(s.clock+s.infectionDuration(), s.queue.NextSeq(), ind))
}

// predictCollisions enqueues every future collision and wall-hit event
// involving ind given the population's current positions and velocities.
// Brute-force over the population: no spatial index accelerates this lookup.
func (s *Simulator) predictCollisions(ind *Individual) {
	if ind.IsDead() {
		return
	}

	for _, other := range s.individuals {
		if other == ind {
			continue
		}
		t := ind.TimeToHit(other)
		if math.IsInf(t, 1) {
			continue
		}
		s.queue.Enqueue(NewCollisionEvent(s.clock+t, s.queue.NextSeq(), ind, other))
	}

	if t := ind.TimeToHitVerticalWall(s.cfg.Arena); !math.IsInf(t, 1) {
		s.queue.Enqueue(NewVerticalWallEvent(s.clock+t, s.queue.NextSeq(), ind))
	}
	if t := ind.TimeToHitHorizontalWall(s.cfg.Arena); !math.IsInf(t, 1) {
		s.queue.Enqueue(NewHorizontalWallEvent(s.clock+t, s.queue.NextSeq(), ind))
	}
}

// resolveInfectionChannel checks both transmission directions between a and
// b independently: an Infected individual colliding with a Susceptible one
// transmits with probability cfg.ProbInfection. Each direction is an
// independent Bernoulli trial.
func (s *Simulator) resolveInfectionChannel(a, b *Individual) {
	if a.IsInfected() && b.CanGetInfected() && s.rng.Bernoulli(s.cfg.ProbInfection) {
		s.infect(b)
	}
	if b.IsInfected() && a.CanGetInfected() && s.rng.Bernoulli(s.cfg.ProbInfection) {
		s.infect(a)
	}
}

// tally computes the current population composition.
func (s *Simulator) tally() Tally {
	var t Tally
	t.Total = len(s.individuals)
	for _, ind := range s.individuals {
		switch ind.Health {
		case Susceptible:
			t.Susceptible++
		case Infected:
			t.Infected++
		case Recovered:
			t.Recovered++
		case Dead:
			t.Dead++
		}
	}
	return t
}

// dispatchRedraw records a history sample, publishes a fresh Snapshot, runs
// the renderer's draw procedure against it, paces the wall clock so frames
// don't arrive faster than redrawPeriodFloor apart, and reschedules the next
// Redraw.
func (s *Simulator) dispatchRedraw(t float64) {
	tally := s.tally()
	s.history.Record(t, tally.PercentInfected(), tally.PercentNonInfected())

	snap := s.snapshots.AcquireWrite()
	snap.Time = t
	snap.Tally = tally
	for _, ind := range s.individuals {
		snap.Individuals = append(snap.Individuals, IndividualSnapshot{ID: ind.ID, X: ind.X, Y: ind.Y, Health: ind.Health})
	}
	s.snapshots.PublishWrite()

	if s.OnRedraw != nil {
		s.OnRedraw(snap)
	}

	s.renderDraw(snap)

	if s.recorder != nil {
		if err := s.recorder.Record(RecordedFrame{Time: t, Tally: tally}); err != nil {
			s.log.WithError(err).Warn("event log write failed")
		}
	}

	s.throttleRedraw()

	if s.cfg.Hz > 0 {
		period := 1.0 / float64(s.cfg.Hz)
		s.queue.Enqueue(NewRedrawEvent(t+period, s.queue.NextSeq()))
	}
}

// throttleRedraw sleeps just long enough to keep consecutive Redraw
// dispatches roughly redrawPeriodFloor apart in wall-clock time, then resets
// the baseline it measures from.
func (s *Simulator) throttleRedraw() {
	elapsed := time.Since(s.lastRedrawAt)
	sleepFor := redrawPeriodFloor - elapsed
	if sleepFor < time.Millisecond {
		sleepFor = time.Millisecond
	}
	time.Sleep(sleepFor)
	s.lastRedrawAt = time.Now()
}

// renderDraw hands the renderer a draw procedure closed over snap, and logs
// (rather than panics on) any recovered panic from the procedure, treating a
// broken renderer as non-fatal.
func (s *Simulator) renderDraw(snap *Snapshot) {
	defer func() {
		if r := recover(); r != nil {
			s.log.WithError(&RenderError{Cause: fmt.Errorf("%v", r)}).Warn("renderer panicked during DrawWith")
		}
	}()

	s.renderer.DrawWith(func(gc render.GraphicsContext) {
		s.drawHistoryChart(gc)
		s.drawStats(gc, snap)
		s.drawArena(gc, snap)
	})
}

// drawArena paints the arena border and every individual at its current
// position, colored by health, in a coordinate system centered on the
// arena's middle.
func (s *Simulator) drawArena(gc render.GraphicsContext, snap *Snapshot) {
	gc.Translate(s.cfg.Arena.Width/2, s.cfg.Arena.Height/2)

	gc.SetColor(0, 0, 0, 255)
	gc.SetStroke(1)
	gc.DrawRect(-s.cfg.Arena.Width/2, -s.cfg.Arena.Height/2, s.cfg.Arena.Width, s.cfg.Arena.Height)

	for _, ind := range snap.Individuals {
		switch ind.Health {
		case Susceptible:
			gc.SetColor(0, 0, 220, 255)
		case Infected:
			gc.SetColor(255, 0, 0, 255)
		case Recovered:
			gc.SetColor(0, 200, 0, 255)
		case Dead:
			gc.SetColor(50, 50, 50, 255)
		}
		gc.FillRect(ind.X-s.cfg.Radius, ind.Y-s.cfg.Radius, 2*s.cfg.Radius, 2*s.cfg.Radius)
	}
}

// drawStats paints the current tally as a line of text below the history
// chart.
func (s *Simulator) drawStats(gc render.GraphicsContext, snap *Snapshot) {
	gc.SetColor(0, 0, 0, 255)
	gc.SetFont("", 12)
	gc.DrawString(
		fmt.Sprintf("t=%.1f susceptible=%d infected=%d recovered=%d dead=%d",
			snap.Time, snap.Tally.Susceptible, snap.Tally.Infected, snap.Tally.Recovered, snap.Tally.Dead),
		chartMargin, chartHeight+2*chartMargin,
	)
}

// drawHistoryChart paints a bar sparkline of the infected-percentage series
// recorded so far, downsampled to keep the per-frame cost bounded
// regardless of how many samples a long run has accumulated.
func (s *Simulator) drawHistoryChart(gc render.GraphicsContext) {
	idx := int(HistoryResolution * s.clock)
	if idx >= len(s.history.PercentInfected) {
		idx = len(s.history.PercentInfected) - 1
	}
	if idx < 0 {
		return
	}

	const maxBars = 200
	stride := 1
	if n := idx/maxBars + 1; n > 1 {
		stride = n
	}
	bars := idx/stride + 1
	barWidth := chartWidth / float64(bars)

	gc.SetColor(220, 0, 0, 200)
	for i, bar := 0, 0; i <= idx; i, bar = i+stride, bar+1 {
		h := chartHeight * s.history.PercentInfected[i] / 100
		x := chartMargin + float64(bar)*barWidth
		gc.FillRect(x, chartMargin+chartHeight-h, barWidth, h)
	}
}

// Simulate runs the dispatch loop to completion: pop the earliest event,
// discard it if stale, otherwise advance every individual's position to the
// event's time and execute it. Returns early if ctx is cancelled, honoring
// cooperative cancellation.
func (s *Simulator) Simulate(ctx context.Context) error {
	for s.queue.NonEmpty() {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		event := s.queue.Dequeue()
		if !event.IsValid(s) {
			continue
		}

		start := time.Now()
		dt := event.Time() - s.clock
		if dt > 0 {
			for _, ind := range s.individuals {
				ind.Move(dt)
			}
		}
		s.clock = event.Time()

		event.Execute(s)
		s.log.Debugf("dispatched %T at t=%.4f", event, s.clock)
		if s.OnDispatch != nil {
			s.OnDispatch(time.Since(start))
		}
	}

	final := s.tally()
	s.log.WithFields(logrus.Fields{
		"susceptible": final.Susceptible,
		"infected":    final.Infected,
		"recovered":   final.Recovered,
		"dead":        final.Dead,
	}).Info("simulation complete")
	return nil
}
