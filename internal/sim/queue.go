package sim

import "container/heap"

// EventQueue is a bounded min-heap of Event ordered by (Time, priority,
// seq): a plain slice wrapped in container/heap.Interface, with a
// deterministic tie-break chain instead of relying on heap.Pop's incidental
// ordering.
//
// Bounded: Enqueue silently drops any event whose Time exceeds the
// configured horizon — this is what prevents unbounded scheduling when
// particles oscillate between walls.
type EventQueue struct {
	events  []Event
	horizon float64
	nextSeq uint64
}

// NewEventQueue returns an empty queue bounded by horizon.
func NewEventQueue(horizon float64) *EventQueue {
	q := &EventQueue{horizon: horizon}
	heap.Init(q)
	return q
}

// NextSeq returns a fresh monotonic sequence number for tie-breaking,
// consumed by event constructors at the call site.
func (q *EventQueue) NextSeq() uint64 {
	q.nextSeq++
	return q.nextSeq
}

// Enqueue inserts e, or silently discards it if e.Time() > horizon.
func (q *EventQueue) Enqueue(e Event) {
	if e.Time() > q.horizon {
		return
	}
	heap.Push(q, e)
}

// Dequeue removes and returns the earliest event. Undefined on an empty
// queue; callers must check NonEmpty first.
func (q *EventQueue) Dequeue() Event {
	return heap.Pop(q).(Event)
}

// NonEmpty reports whether any event remains.
func (q *EventQueue) NonEmpty() bool { return len(q.events) > 0 }

// Len reports the number of queued events.
func (q *EventQueue) Len() int { return len(q.events) }

// Clear empties the queue.
func (q *EventQueue) Clear() { q.events = nil }

// heap.Interface (Len is defined above)

func (q *EventQueue) Less(i, j int) bool {
	a, b := q.events[i], q.events[j]
	if a.Time() != b.Time() {
		return a.Time() < b.Time()
	}
	if a.priority() != b.priority() {
		return a.priority() < b.priority()
	}
	return a.seq() < b.seq()
}

func (q *EventQueue) Swap(i, j int) { q.events[i], q.events[j] = q.events[j], q.events[i] }

func (q *EventQueue) Push(x any) { q.events = append(q.events, x.(Event)) }

func (q *EventQueue) Pop() any {
	old := q.events
	n := len(old)
	item := old[n-1]
	old[n-1] = nil
	q.events = old[:n-1]
	return item
}
