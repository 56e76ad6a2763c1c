package sim

import "testing"

func TestNewHistory_SizedByResolutionAndTimeLimit(t *testing.T) {
	h := NewHistory(10)
	want := HistoryResolution*10 + 1
	if len(h.PercentInfected) != want || len(h.PercentNonInfected) != want {
		t.Fatalf("got %d samples, want %d", len(h.PercentInfected), want)
	}
}

func TestNewHistory_ZeroTimeLimitStillAllocatesOneSample(t *testing.T) {
	h := NewHistory(0)
	if len(h.PercentInfected) != 1 {
		t.Fatalf("got %d samples, want 1", len(h.PercentInfected))
	}
}

func TestHistory_RecordClampsIndexIntoRange(t *testing.T) {
	h := NewHistory(1)
	h.Record(-5, 10, 90) // clamps to index 0
	if h.PercentInfected[0] != 10 {
		t.Fatalf("got %v, want 10", h.PercentInfected[0])
	}

	h.Record(1000, 20, 80) // clamps to the last index
	last := len(h.PercentInfected) - 1
	if h.PercentInfected[last] != 20 {
		t.Fatalf("got %v, want 20", h.PercentInfected[last])
	}
}

func TestHistory_PercentRecoveredAtIsDerived(t *testing.T) {
	h := NewHistory(1)
	h.Record(0, 30, 50)
	if got := h.PercentRecoveredAt(0); got != 20 {
		t.Fatalf("PercentRecoveredAt = %v, want 20", got)
	}
}

func TestTally_PercentHelpers(t *testing.T) {
	empty := Tally{}
	if empty.PercentInfected() != 0 || empty.PercentNonInfected() != 0 {
		t.Fatal("percent helpers on an empty tally must return 0, not NaN")
	}

	tally := Tally{Total: 4, Susceptible: 1, Infected: 2, Recovered: 1}
	if got := tally.PercentInfected(); got != 50 {
		t.Fatalf("PercentInfected = %v, want 50", got)
	}
	if got := tally.PercentNonInfected(); got != 25 {
		t.Fatalf("PercentNonInfected = %v, want 25", got)
	}
}

func TestSnapshotPool_PublishedWriteIsWhatReadSees(t *testing.T) {
	p := NewSnapshotPool(2)

	w := p.AcquireWrite()
	w.Time = 1.5
	w.Individuals = append(w.Individuals, IndividualSnapshot{ID: 0, X: 1, Y: 2, Health: Infected})
	p.PublishWrite()

	r := p.AcquireRead()
	if r.Time != 1.5 || len(r.Individuals) != 1 || r.Individuals[0].Health != Infected {
		t.Fatalf("read snapshot did not match published write: %+v", r)
	}
}

func TestSnapshotPool_AcquireWriteResetsLengthButKeepsCapacity(t *testing.T) {
	p := NewSnapshotPool(4)

	first := p.AcquireWrite()
	first.Individuals = append(first.Individuals, IndividualSnapshot{ID: 0}, IndividualSnapshot{ID: 1})
	p.PublishWrite()

	// Cycle through the other two buffers and back to reuse the same slot.
	p.PublishWrite()
	p.AcquireWrite()
	p.PublishWrite()
	p.AcquireWrite()
	p.PublishWrite()
	fourth := p.AcquireWrite()

	if len(fourth.Individuals) != 0 {
		t.Fatalf("AcquireWrite should reset length to 0, got %d", len(fourth.Individuals))
	}
	if cap(fourth.Individuals) < 4 {
		t.Fatalf("AcquireWrite should preserve pre-allocated capacity, got cap %d", cap(fourth.Individuals))
	}
}

func TestSnapshotPool_SequenceIncreasesMonotonically(t *testing.T) {
	p := NewSnapshotPool(1)
	a := p.AcquireWrite().Sequence
	b := p.AcquireWrite().Sequence
	if b <= a {
		t.Fatalf("sequence did not increase: %d then %d", a, b)
	}
}
