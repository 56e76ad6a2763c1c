// Package sim provides the core discrete-event simulation engine for
// contagion-sim: a particle system of disks bouncing elastically inside a
// rectangular arena, through which an infection spreads on contact.
//
// # Reading Guide
//
// Start with these files to understand the simulation kernel, in order:
//   - individual.go: the particle state machine and its geometry/physics
//   - event.go: the five event variants and their validity rule
//   - queue.go: the bounded, time-ordered priority queue of future events
//   - simulator.go: initialization, collision prediction, and the dispatch
//     loop that advances simulated time
//
// # Architecture
//
// The simulator owns the individuals slice, the event queue, the RNG, and
// the simulated clock exclusively; nothing else reads or mutates them during
// a run. Events never hold a pointer to an Individual — only its (id, epoch)
// — so a stale event can be detected and discarded in O(1) after it is
// popped, without ever touching the queue to invalidate it proactively.
//
// history.go publishes an immutable Snapshot once per Redraw event; this is
// the only state handed across the boundary to a renderer or transport, and
// is what lets Go's race detector stay quiet without the data race the
// reference implementation tolerates.
package sim
