package sim

import "sync/atomic"

// HistoryResolution is the number of samples recorded per simulated
// time-unit.
const HistoryResolution = 3

// History is the time-series buffer of population composition: parallel
// arrays of percent-infected and percent-non-infected, sampled at
// resolution HistoryResolution per simulated time unit. Percent-recovered
// is derived, not stored: 100 - infected - susceptible.
type History struct {
	PercentInfected    []float64
	PercentNonInfected []float64
}

// NewHistory allocates a History sized for [0, timeLimit] at
// HistoryResolution samples per time-unit.
func NewHistory(timeLimit float64) *History {
	n := int(HistoryResolution*timeLimit) + 1
	if n < 1 {
		n = 1
	}
	return &History{
		PercentInfected:    make([]float64, n),
		PercentNonInfected: make([]float64, n),
	}
}

// Record stores the population composition at the sample index
// floor(R * time), clamped into range.
func (h *History) Record(time, percentInfected, percentNonInfected float64) {
	idx := int(HistoryResolution * time)
	if idx < 0 {
		idx = 0
	}
	if idx >= len(h.PercentInfected) {
		idx = len(h.PercentInfected) - 1
	}
	h.PercentInfected[idx] = percentInfected
	h.PercentNonInfected[idx] = percentNonInfected
}

// PercentRecoveredAt returns the derived recovered percentage at sample i.
// "Non-infected" is synonymous with Susceptible throughout this package.
func (h *History) PercentRecoveredAt(i int) float64 {
	return 100 - h.PercentInfected[i] - h.PercentNonInfected[i]
}

// Tally is the aggregate population composition at one instant.
type Tally struct {
	Total       int
	Susceptible int
	Infected    int
	Recovered   int
	Dead        int
}

// PercentInfected returns the infected share of the living+dead population,
// 0 if Total == 0.
func (t Tally) PercentInfected() float64 {
	if t.Total == 0 {
		return 0
	}
	return 100 * float64(t.Infected) / float64(t.Total)
}

// PercentNonInfected returns the susceptible ("non-infected") share.
func (t Tally) PercentNonInfected() float64 {
	if t.Total == 0 {
		return 0
	}
	return 100 * float64(t.Susceptible) / float64(t.Total)
}

// IndividualSnapshot is an immutable copy of one individual's renderable
// state: position and health, nothing mutable-by-reference.
type IndividualSnapshot struct {
	ID     int
	X, Y   float64
	Health Health
}

// Snapshot is the complete immutable state published once per Redraw
// event: a consistent, point-in-time copy of every individual's position
// and health, so a reader on another goroutine never observes a torn or
// partially-updated population.
type Snapshot struct {
	Sequence    uint64
	Time        float64
	Individuals []IndividualSnapshot
	Tally       Tally
}

// SnapshotPool triple-buffers Snapshots for lock-free producer/consumer
// handoff between the simulation goroutine and any reader (a Renderer, the
// WebSocket hub).
type SnapshotPool struct {
	buffers  [3]Snapshot
	writeIdx uint32
	readIdx  uint32
	sequence uint64
}

// NewSnapshotPool pre-allocates three buffers sized for n individuals, to
// avoid per-tick allocation in the simulation goroutine.
func NewSnapshotPool(n int) *SnapshotPool {
	p := &SnapshotPool{}
	for i := range p.buffers {
		p.buffers[i].Individuals = make([]IndividualSnapshot, 0, n)
	}
	return p
}

// AcquireWrite returns the next write slot (producer only, called from the
// dispatch loop on each Redraw). Its Individuals slice is reset to length
// zero but keeps its capacity.
func (p *SnapshotPool) AcquireWrite() *Snapshot {
	idx := atomic.AddUint32(&p.writeIdx, 1) % uint32(len(p.buffers))
	snap := &p.buffers[idx]
	snap.Individuals = snap.Individuals[:0]
	snap.Sequence = atomic.AddUint64(&p.sequence, 1)
	return snap
}

// PublishWrite marks the most recent AcquireWrite result as ready to read.
func (p *SnapshotPool) PublishWrite() {
	atomic.StoreUint32(&p.readIdx, atomic.LoadUint32(&p.writeIdx))
}

// AcquireRead returns the latest published Snapshot (consumer only).
func (p *SnapshotPool) AcquireRead() *Snapshot {
	idx := atomic.LoadUint32(&p.readIdx) % uint32(len(p.buffers))
	return &p.buffers[idx]
}
