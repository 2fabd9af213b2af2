package queue

import "testing"

func TestSpillFileRoundTripsBatches(t *testing.T) {
	s, err := NewSpillFile(t.TempDir())
	if err != nil {
		t.Fatalf("new spill file: %v", err)
	}
	defer s.Close()

	if err := s.WriteBatch([]string{"a", "b"}); err != nil {
		t.Fatalf("write batch 1: %v", err)
	}
	if err := s.WriteBatch([]string{"c"}); err != nil {
		t.Fatalf("write batch 2: %v", err)
	}

	batches, err := s.ReadAllBatches()
	if err != nil {
		t.Fatalf("read batches: %v", err)
	}
	if len(batches) != 2 || len(batches[0]) != 2 || batches[0][0] != "a" || batches[1][0] != "c" {
		t.Fatalf("got %+v, want [[a b] [c]]", batches)
	}
}
