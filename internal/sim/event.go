package sim

// Event is implemented by every kind of occurrence the dispatch loop can
// pop and execute: Redraw, Collision, HorizontalWallCollision,
// VerticalWallCollision, EndInfection. Implementations never hold a pointer
// to an Individual — only an id and, where applicable, the epoch
// (Individual.Collisions) snapshotted at construction — so a stale event
// can be detected after it is popped without the queue ever needing to
// invalidate it proactively.
type Event interface {
	// Time is the scheduled simulation time.
	Time() float64

	// priority breaks ties between events scheduled at the same Time. The
	// numeric value itself carries no meaning beyond establishing a
	// deterministic, fixed order.
	priority() int

	// seq is a monotonic sequence number assigned at construction, the
	// final tie-breaker when Time and priority both match.
	seq() uint64

	// IsValid reports whether the event should be dispatched: false causes
	// the dispatch loop to discard it and continue.
	IsValid(s *Simulator) bool

	// Execute performs the variant-specific state transition and schedules
	// any follow-on events. Called only when IsValid returned true.
	Execute(s *Simulator)
}

// Event kind priorities: lower runs first among events sharing a Time.
// EndInfection is resolved before particle collisions so a death/recovery
// at exactly the same instant as a collision cannot race a BounceOff that
// assumes the individual is still alive. Redraw runs last so it observes
// the fully-settled state for that instant.
const (
	priorityEndInfection = 0
	priorityWallHit      = 1
	priorityCollision    = 1
	priorityRedraw       = 2
)

// --- RedrawEvent ---

// RedrawEvent carries no particle reference and is always valid. A fresh
// value is allocated for each tick rather than recycling a single mutable
// instance, so the queue never holds an aliased reference to simulation
// state.
type RedrawEvent struct {
	t  float64
	sq uint64
}

func NewRedrawEvent(t float64, sq uint64) *RedrawEvent { return &RedrawEvent{t: t, sq: sq} }

func (e *RedrawEvent) Time() float64        { return e.t }
func (e *RedrawEvent) priority() int        { return priorityRedraw }
func (e *RedrawEvent) seq() uint64          { return e.sq }
func (e *RedrawEvent) IsValid(*Simulator) bool { return true }

func (e *RedrawEvent) Execute(s *Simulator) {
	s.dispatchRedraw(e.t)
}

// --- CollisionEvent ---

// CollisionEvent is a pairwise particle event; it captures both
// individuals' Collisions epoch at construction.
type CollisionEvent struct {
	t      float64
	sq     uint64
	aID    int
	aEpoch uint64
	bID    int
	bEpoch uint64
}

func NewCollisionEvent(t float64, sq uint64, a, b *Individual) *CollisionEvent {
	return &CollisionEvent{t: t, sq: sq, aID: a.ID, aEpoch: a.Collisions, bID: b.ID, bEpoch: b.Collisions}
}

func (e *CollisionEvent) Time() float64 { return e.t }
func (e *CollisionEvent) priority() int { return priorityCollision }
func (e *CollisionEvent) seq() uint64   { return e.sq }

func (e *CollisionEvent) IsValid(s *Simulator) bool {
	a, b := s.individuals[e.aID], s.individuals[e.bID]
	return !a.IsDead() && !b.IsDead() && a.Collisions == e.aEpoch && b.Collisions == e.bEpoch
}

func (e *CollisionEvent) Execute(s *Simulator) {
	a, b := s.individuals[e.aID], s.individuals[e.bID]
	s.resolveInfectionChannel(a, b)
	a.BounceOff(b)
	s.predictCollisions(a)
	s.predictCollisions(b)
}

// --- VerticalWallEvent ---

// VerticalWallEvent is a left/right wall hit, captured with the epoch of
// the single individual involved.
type VerticalWallEvent struct {
	t     float64
	sq    uint64
	id    int
	epoch uint64
}

func NewVerticalWallEvent(t float64, sq uint64, ind *Individual) *VerticalWallEvent {
	return &VerticalWallEvent{t: t, sq: sq, id: ind.ID, epoch: ind.Collisions}
}

func (e *VerticalWallEvent) Time() float64 { return e.t }
func (e *VerticalWallEvent) priority() int { return priorityWallHit }
func (e *VerticalWallEvent) seq() uint64   { return e.sq }

func (e *VerticalWallEvent) IsValid(s *Simulator) bool {
	ind := s.individuals[e.id]
	return !ind.IsDead() && ind.Collisions == e.epoch
}

func (e *VerticalWallEvent) Execute(s *Simulator) {
	ind := s.individuals[e.id]
	ind.BounceOffVerticalWall()
	s.predictCollisions(ind)
}

// --- HorizontalWallEvent ---

// HorizontalWallEvent is a top/bottom wall hit. The two physical walls
// collapse into one event type; the sign of vy at hit time determines
// which wall was struck, with no observable consequence since the bounce
// only flips the relevant velocity component.
type HorizontalWallEvent struct {
	t     float64
	sq    uint64
	id    int
	epoch uint64
}

func NewHorizontalWallEvent(t float64, sq uint64, ind *Individual) *HorizontalWallEvent {
	return &HorizontalWallEvent{t: t, sq: sq, id: ind.ID, epoch: ind.Collisions}
}

func (e *HorizontalWallEvent) Time() float64 { return e.t }
func (e *HorizontalWallEvent) priority() int { return priorityWallHit }
func (e *HorizontalWallEvent) seq() uint64   { return e.sq }

func (e *HorizontalWallEvent) IsValid(s *Simulator) bool {
	ind := s.individuals[e.id]
	return !ind.IsDead() && ind.Collisions == e.epoch
}

func (e *HorizontalWallEvent) Execute(s *Simulator) {
	ind := s.individuals[e.id]
	ind.BounceOffHorizontalWall()
	s.predictCollisions(ind)
}

// --- EndInfectionEvent ---

// EndInfectionEvent does not snapshot an epoch: it is always valid when
// popped. An individual can only ever have one EndInfection scheduled
// against it (exactly when it transitions to Infected), so by the time it
// fires the individual is still Infected.
type EndInfectionEvent struct {
	t  float64
	sq uint64
	id int
}

func NewEndInfectionEvent(t float64, sq uint64, ind *Individual) *EndInfectionEvent {
	return &EndInfectionEvent{t: t, sq: sq, id: ind.ID}
}

func (e *EndInfectionEvent) Time() float64        { return e.t }
func (e *EndInfectionEvent) priority() int        { return priorityEndInfection }
func (e *EndInfectionEvent) seq() uint64          { return e.sq }
func (e *EndInfectionEvent) IsValid(*Simulator) bool { return true }

func (e *EndInfectionEvent) Execute(s *Simulator) {
	ind := s.individuals[e.id]
	die := s.rng.Bernoulli(s.cfg.ProbDying)
	ind.EndInfection(die)
}
