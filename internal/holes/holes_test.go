package holes

import (
	"os"
	"testing"
)

func TestSkipHoleDisablesAfterUnsupported(t *testing.T) {
	f, err := os.CreateTemp(t.TempDir(), "holes")
	if err != nil {
		t.Fatalf("create temp: %v", err)
	}
	defer f.Close()

	s := NewSeeker(f)
	if _, ok := s.SkipHole(); ok {
		// Supported on this platform/filesystem: a zero-length file has
		// no data past offset 0, SEEK_DATA should fail with ENXIO and
		// report ok=false just the same.
		t.Fatalf("expected ok=false for an empty file")
	}
	if !s.disabled {
		t.Fatalf("expected Seeker to disable itself after an unsupported/failed probe")
	}
	if _, ok := s.SkipHole(); ok {
		t.Fatalf("expected a disabled Seeker to keep reporting ok=false")
	}
}

func TestReadaheadDoesNotPanicOnClosedFile(t *testing.T) {
	f, err := os.CreateTemp(t.TempDir(), "holes")
	if err != nil {
		t.Fatalf("create temp: %v", err)
	}
	f.Close()
	s := NewSeeker(f)
	s.Readahead(4096)
}
