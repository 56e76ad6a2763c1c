package sim

import (
	"bufio"
	"bytes"
	"encoding/json"
	"testing"
)

func TestEventRecorder_RecordWritesNewlineDelimitedJSON(t *testing.T) {
	var buf bytes.Buffer
	rec := NewEventRecorder(&buf)

	if err := rec.Record(RecordedFrame{Time: 1, Tally: Tally{Total: 10, Infected: 2}}); err != nil {
		t.Fatalf("Record: %v", err)
	}
	if err := rec.Record(RecordedFrame{Time: 2, Tally: Tally{Total: 10, Infected: 3}}); err != nil {
		t.Fatalf("Record: %v", err)
	}
	if err := rec.Flush(); err != nil {
		t.Fatalf("Flush: %v", err)
	}

	scanner := bufio.NewScanner(&buf)
	var frames []RecordedFrame
	for scanner.Scan() {
		var f RecordedFrame
		if err := json.Unmarshal(scanner.Bytes(), &f); err != nil {
			t.Fatalf("unmarshal: %v", err)
		}
		frames = append(frames, f)
	}
	if len(frames) != 2 {
		t.Fatalf("got %d frames, want 2", len(frames))
	}
	if frames[0].Time != 1 || frames[1].Time != 2 {
		t.Fatalf("unexpected frames: %+v", frames)
	}
}

func TestEventRecorder_FlushIsRequiredBeforeReading(t *testing.T) {
	var buf bytes.Buffer
	rec := NewEventRecorder(&buf)
	_ = rec.Record(RecordedFrame{Time: 1})

	if buf.Len() != 0 {
		t.Fatal("Record should buffer writes until Flush is called")
	}
	if err := rec.Flush(); err != nil {
		t.Fatalf("Flush: %v", err)
	}
	if buf.Len() == 0 {
		t.Fatal("Flush should push buffered data through")
	}
}
