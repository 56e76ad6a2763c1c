package sim

import (
	"math"

	"github.com/ppgllrd/contagion-sim/internal/arena"
	"github.com/ppgllrd/contagion-sim/internal/rng"
)

// Individual is a disk moving in 2D inside the arena. It is mutated only by
// the simulation goroutine; every other reader sees it only through a
// published Snapshot (see history.go).
type Individual struct {
	ID int

	X, Y   float64
	VX, VY float64
	Radius float64
	Mass   float64

	Health Health

	// Collisions is a monotonically increasing epoch counter, incremented
	// on every wall or particle collision this individual takes part in.
	// Events snapshot it at construction time and compare against the live
	// value when popped, to detect staleness in O(1).
	Collisions uint64
}

// NewRandomIndividual places an individual uniformly within the arena
// (accounting for its radius) with velocity components drawn independently
// from Normal(0, velocitySigma). Health starts Susceptible.
func NewRandomIndividual(id int, r *rng.RNG, a arena.Arena, radius, velocitySigma float64) *Individual {
	x := r.UniformRange(a.Left()+radius, a.Right()-radius)
	y := r.UniformRange(a.Top()+radius, a.Bottom()-radius)
	return &Individual{
		ID:     id,
		X:      x,
		Y:      y,
		VX:     r.Normal(0, velocitySigma),
		VY:     r.Normal(0, velocitySigma),
		Radius: radius,
		Mass:   1,
		Health: Susceptible,
	}
}

func (ind *Individual) CanGetInfected() bool { return ind.Health == Susceptible }
func (ind *Individual) IsInfected() bool     { return ind.Health == Infected }
func (ind *Individual) IsDead() bool         { return ind.Health == Dead }

// CollidesWith reports whether the two disks currently overlap.
func (ind *Individual) CollidesWith(other *Individual) bool {
	dx := other.X - ind.X
	dy := other.Y - ind.Y
	sigma := ind.Radius + other.Radius
	return dx*dx+dy*dy < sigma*sigma
}

// Move advances position by (vx*dt, vy*dt). Dead individuals never move.
func (ind *Individual) Move(dt float64) {
	if ind.IsDead() {
		return
	}
	ind.X += ind.VX * dt
	ind.Y += ind.VY * dt
}

// TimeToHit returns the analytic time until ind collides with other
// (Sedgewick-Wayne disk-disk contact formula). Returns +Inf if either
// particle is dead, they already overlap, their relative velocity does not
// close the separation (dv·dr >= 0), or the discriminant is negative.
func (ind *Individual) TimeToHit(other *Individual) float64 {
	if ind == other || ind.IsDead() || other.IsDead() {
		return math.Inf(1)
	}
	dx := other.X - ind.X
	dy := other.Y - ind.Y
	dvx := other.VX - ind.VX
	dvy := other.VY - ind.VY
	sigma := ind.Radius + other.Radius

	drdr := dx*dx + dy*dy
	if drdr <= sigma*sigma {
		// Already touching (or overlapping): no future contact to predict.
		return math.Inf(1)
	}

	dvdr := dx*dvx + dy*dvy
	if dvdr >= 0 {
		return math.Inf(1)
	}

	dvdv := dvx*dvx + dvy*dvy
	discriminant := dvdr*dvdr - dvdv*(drdr-sigma*sigma)
	if discriminant < 0 {
		return math.Inf(1)
	}

	return -(dvdr + math.Sqrt(discriminant)) / dvdv
}

// TimeToHitVerticalWall returns the time until ind strikes the left or
// right wall, or +Inf if vx == 0 or ind is dead.
func (ind *Individual) TimeToHitVerticalWall(a arena.Arena) float64 {
	if ind.IsDead() || ind.VX == 0 {
		return math.Inf(1)
	}
	if ind.VX > 0 {
		return (a.Right() - ind.Radius - ind.X) / ind.VX
	}
	return (a.Left() + ind.Radius - ind.X) / ind.VX
}

// TimeToHitHorizontalWall returns the time until ind strikes the top or
// bottom wall, or +Inf if vy == 0 or ind is dead.
func (ind *Individual) TimeToHitHorizontalWall(a arena.Arena) float64 {
	if ind.IsDead() || ind.VY == 0 {
		return math.Inf(1)
	}
	if ind.VY > 0 {
		return (a.Bottom() - ind.Radius - ind.Y) / ind.VY
	}
	return (a.Top() + ind.Radius - ind.Y) / ind.VY
}

// BounceOff reflects both individuals' velocities about the line joining
// their centers. Momentum is always preserved; kinetic energy is preserved
// exactly (up to floating point) when the disks are in contact, i.e. their
// centers are Radius+Radius apart, which is where a CollisionEvent fires.
// Both individuals must be alive; the caller guards this via the event
// validity check before dispatch.
func (ind *Individual) BounceOff(other *Individual) {
	dx := other.X - ind.X
	dy := other.Y - ind.Y
	dvx := other.VX - ind.VX
	dvy := other.VY - ind.VY
	dvdr := dx*dvx + dy*dvy
	sigma := ind.Radius + other.Radius

	magnitude := 2 * ind.Mass * other.Mass * dvdr / ((ind.Mass + other.Mass) * sigma)
	jx := magnitude * dx / sigma
	jy := magnitude * dy / sigma

	ind.VX += jx / ind.Mass
	ind.VY += jy / ind.Mass
	other.VX -= jx / other.Mass
	other.VY -= jy / other.Mass

	ind.Collisions++
	other.Collisions++
}

// BounceOffVerticalWall reflects the x velocity component off a left/right
// wall hit.
func (ind *Individual) BounceOffVerticalWall() {
	ind.VX = -ind.VX
	ind.Collisions++
}

// BounceOffHorizontalWall reflects the y velocity component off a top/bottom
// wall hit.
func (ind *Individual) BounceOffHorizontalWall() {
	ind.VY = -ind.VY
	ind.Collisions++
}

// Infect transitions Susceptible to Infected. No-op otherwise.
func (ind *Individual) Infect() {
	if ind.Health == Susceptible {
		ind.Health = Infected
	}
}

// EndInfection transitions Infected to Dead (die == true) or Recovered
// (die == false). Velocity is zeroed on death. No-op if not Infected.
func (ind *Individual) EndInfection(die bool) {
	if ind.Health != Infected {
		return
	}
	if die {
		ind.Health = Dead
		ind.VX, ind.VY = 0, 0
		return
	}
	ind.Health = Recovered
}
