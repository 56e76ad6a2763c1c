package cmd

import (
	"os"
	"path/filepath"
	"testing"
)

func TestRunReplay_ReportsFinalTallyFromRecordedFrames(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "frames.ndjson")
	contents := `{"time":0,"tally":{"total":10,"susceptible":9,"infected":1,"recovered":0,"dead":0}}
{"time":1,"tally":{"total":10,"susceptible":8,"infected":1,"recovered":1,"dead":0}}
`
	if err := os.WriteFile(path, []byte(contents), 0o644); err != nil {
		t.Fatalf("write frames: %v", err)
	}

	if err := runReplay(replayCmd, []string{path}); err != nil {
		t.Fatalf("runReplay: %v", err)
	}
}

func TestRunReplay_EmptyFileIsAnError(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "empty.ndjson")
	if err := os.WriteFile(path, nil, 0o644); err != nil {
		t.Fatalf("write empty file: %v", err)
	}

	if err := runReplay(replayCmd, []string{path}); err == nil {
		t.Fatal("expected an error for a log with zero frames")
	}
}

func TestRunReplay_MalformedLineIsAnError(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "broken.ndjson")
	if err := os.WriteFile(path, []byte("not json\n"), 0o644); err != nil {
		t.Fatalf("write file: %v", err)
	}

	if err := runReplay(replayCmd, []string{path}); err == nil {
		t.Fatal("expected an error for a malformed frame")
	}
}

func TestRunReplay_MissingFileIsAnError(t *testing.T) {
	if err := runReplay(replayCmd, []string{"/nonexistent/frames.ndjson"}); err == nil {
		t.Fatal("expected an error for a missing file")
	}
}
